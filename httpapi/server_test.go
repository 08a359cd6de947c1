package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *Server
	accounts *testhelpers.MockAccountService
	bets     *testhelpers.MockBetMarket
	lottery  *testhelpers.MockLotteryPool
}

func newTestEnv() *testEnv {
	env := &testEnv{
		accounts: new(testhelpers.MockAccountService),
		bets:     new(testhelpers.MockBetMarket),
		lottery:  new(testhelpers.MockLotteryPool),
	}
	env.server = NewServer(":0", env.accounts, env.bets, env.lottery)
	env.server.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return env
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.server.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	w := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","service":"wagerbot"}`, w.Body.String())
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		setup      func(e *testEnv)
		wantStatus int
		wantBody   string
	}{
		{
			name: "default limit",
			path: "/leaderboard",
			setup: func(e *testEnv) {
				e.accounts.On("Top", mock.Anything, 10).Return([]entities.LeaderboardEntry{
					{Rank: 1, DiscordID: 5, Balance: 900},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `[{"rank":1,"discord_id":5,"balance":900}]`,
		},
		{
			name: "explicit limit with no accounts",
			path: "/leaderboard?limit=3",
			setup: func(e *testEnv) {
				e.accounts.On("Top", mock.Anything, 3).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name:       "limit out of range",
			path:       "/leaderboard?limit=0",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"limit must be between 1 and 100"}`,
		},
		{
			name:       "limit not a number",
			path:       "/leaderboard?limit=many",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"limit must be between 1 and 100"}`,
		},
		{
			name: "service failure",
			path: "/leaderboard",
			setup: func(e *testEnv) {
				e.accounts.On("Top", mock.Anything, 10).Return(nil, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv()
			if tt.setup != nil {
				tt.setup(env)
			}

			w := env.get(t, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			env.accounts.AssertExpectations(t)
		})
	}
}

func TestBets(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	bet := entities.NewBet("a1b2c3d4", "Who wins?", "Team A", "Team B", 3, now.Add(-time.Minute), 10*time.Minute)
	bet.AddStake(1, 4, 50)
	bet.AddStake(2, 5, 20)
	env.bets.On("ActiveBets", mock.Anything).Return([]*entities.Bet{bet}, nil)

	w := env.get(t, "/bets")
	require.Equal(t, http.StatusOK, w.Code)

	var views []betView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "a1b2c3d4", views[0].ID)
	assert.Equal(t, [2]int64{50, 20}, views[0].Totals)
	assert.Equal(t, int64(540), views[0].SecondsLeft)
}

func TestLottery(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	env.lottery.On("Pot", mock.Anything).Return(int64(15020), nil)
	env.lottery.On("TicketCount", mock.Anything).Return(2, nil)
	env.lottery.On("Participants", mock.Anything).Return([]entities.LotteryParticipantInfo{
		{DiscordID: 4, TicketCount: 2},
	}, nil)

	w := env.get(t, "/lottery")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pot":15020,"ticket_count":2,"participants":[{"discord_id":4,"ticket_count":2}]}`, w.Body.String())
	env.lottery.AssertExpectations(t)
}

func TestLotteryDraws(t *testing.T) {
	t.Parallel()

	t.Run("passes the limit through", func(t *testing.T) {
		env := newTestEnv()
		env.lottery.On("DrawHistory", mock.Anything, 2).Return([]entities.LotteryDraw{}, nil)

		w := env.get(t, "/lottery/draws?limit=2")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		env.lottery.AssertExpectations(t)
	})

	t.Run("rejects a negative limit", func(t *testing.T) {
		env := newTestEnv()
		w := env.get(t, "/lottery/draws?limit=-1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
