package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/interfaces"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	defaultDrawLimit        = 10
	shutdownTimeout         = 5 * time.Second
)

// Server is the read-only status API
type Server struct {
	accounts interfaces.AccountService
	bets     interfaces.BetMarket
	lottery  interfaces.LotteryPool
	srv      *http.Server
	now      func() time.Time
}

// NewServer builds the status API on addr
func NewServer(addr string, accounts interfaces.AccountService, bets interfaces.BetMarket, lottery interfaces.LotteryPool) *Server {
	s := &Server{
		accounts: accounts,
		bets:     bets,
		lottery:  lottery,
		now:      time.Now,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router wires the endpoints
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/leaderboard", s.handleLeaderboard)
	r.Get("/bets", s.handleBets)
	r.Route("/lottery", func(r chi.Router) {
		r.Get("/", s.handleLottery)
		r.Get("/draws", s.handleDraws)
	})
	return r
}

// Start serves in the background. The returned function shuts the server down.
func (s *Server) Start(ctx context.Context) func() {
	go func() {
		log.WithField("addr", s.srv.Addr).Info("Status API listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Status API stopped")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to shut down status API")
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "wagerbot"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultLeaderboardLimit)
	if err != nil || limit < 1 || limit > maxLeaderboardLimit {
		writeError(w, "limit must be between 1 and 100", http.StatusBadRequest)
		return
	}

	entries, err := s.accounts.Top(r.Context(), limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if entries == nil {
		entries = []entities.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type betView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Options     [2]string `json:"options"`
	Totals      [2]int64  `json:"totals"`
	CreatedBy   int64     `json:"created_by"`
	ClosesAt    time.Time `json:"closes_at"`
	SecondsLeft int64     `json:"seconds_left"`
}

func (s *Server) handleBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.bets.ActiveBets(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	now := s.now()
	views := make([]betView, 0, len(bets))
	for _, b := range bets {
		views = append(views, betView{
			ID:          b.ID,
			Name:        b.Name,
			Options:     b.Options,
			Totals:      [2]int64{b.StakeTotal(1), b.StakeTotal(2)},
			CreatedBy:   b.CreatedBy,
			ClosesAt:    b.ClosesAt,
			SecondsLeft: int64(b.ClosesAt.Sub(now).Seconds()),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

type lotteryView struct {
	Pot          int64                             `json:"pot"`
	TicketCount  int                               `json:"ticket_count"`
	Participants []entities.LotteryParticipantInfo `json:"participants"`
}

func (s *Server) handleLottery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pot, err := s.lottery.Pot(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	count, err := s.lottery.TicketCount(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	participants, err := s.lottery.Participants(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if participants == nil {
		participants = []entities.LotteryParticipantInfo{}
	}
	writeJSON(w, http.StatusOK, lotteryView{Pot: pot, TicketCount: count, Participants: participants})
}

func (s *Server) handleDraws(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultDrawLimit)
	if err != nil || limit < 1 {
		writeError(w, "limit must be a positive number", http.StatusBadRequest)
		return
	}

	draws, err := s.lottery.DrawHistory(r.Context(), limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if draws == nil {
		draws = []entities.LotteryDraw{}
	}
	writeJSON(w, http.StatusOK, draws)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.WithFields(log.Fields{
		"path":      r.URL.Path,
		"requestID": middleware.GetReqID(r.Context()),
	}).WithError(err).Error("Status API request failed")
	writeError(w, "internal error", http.StatusInternalServerError)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
