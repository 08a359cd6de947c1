package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"wagerbot/bot/common"
	"wagerbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handlerTimeout bounds a single gateway event
const handlerTimeout = 10 * time.Second

// Config holds bot configuration
type Config struct {
	Token         string
	GuildID       string
	Prefix        string
	AdminRoleName string
	TicketCost    int64
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	services Services
	commands *Commands

	voiceMu sync.Mutex
	// voiceByGuild holds the voice states last seen in each guild snapshot
	voiceByGuild map[string]map[int64]entities.VoiceState
}

func New(config Config, services Services) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	bot := &Bot{
		config:   config,
		session:  dg,
		services: services,
		commands: NewCommands(services, config.Prefix, config.AdminRoleName, config.TicketCost),

		voiceByGuild: make(map[string]map[int64]entities.VoiceState),
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleVoiceStateUpdate)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Connected to Discord")
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if b.config.GuildID != "" && m.GuildID != b.config.GuildID {
		return
	}

	userID, err := common.ParseDiscordID(m.Author.ID)
	if err != nil {
		log.WithError(err).WithField("authorID", m.Author.ID).Warn("Ignoring message with unparseable author")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	// Every message counts toward activity, commands included
	if _, err := b.services.Accounts.RewardActivity(ctx, userID); err != nil {
		log.WithFields(log.Fields{
			"userID": userID,
		}).WithError(err).Error("Failed to reward activity")
	}

	inv, ok := b.commands.Parse(m.Content)
	if !ok {
		return
	}
	inv.UserID = userID
	inv.IsAdmin = b.hasAdminRole(s, m)
	inv.BotUserIDs = make(map[int64]bool)
	for _, u := range m.Mentions {
		if !u.Bot {
			continue
		}
		if id, err := strconv.ParseInt(u.ID, 10, 64); err == nil {
			inv.BotUserIDs[id] = true
		}
	}

	reply := b.commands.Dispatch(ctx, inv)
	if reply == nil {
		return
	}
	msg := &discordgo.MessageSend{Content: reply.Content}
	if reply.Embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{reply.Embed}
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
		log.WithFields(log.Fields{
			"command":   inv.Name,
			"channelID": m.ChannelID,
		}).WithError(err).Error("Failed to send reply")
	}
}

// hasAdminRole checks the member's roles by name
func (b *Bot) hasAdminRole(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Member == nil {
		return false
	}
	for _, roleID := range m.Member.Roles {
		role, err := s.State.Role(m.GuildID, roleID)
		if err != nil {
			role = b.fetchRole(s, m.GuildID, roleID)
		}
		if role != nil && role.Name == b.config.AdminRoleName {
			return true
		}
	}
	return false
}

func (b *Bot) fetchRole(s *discordgo.Session, guildID, roleID string) *discordgo.Role {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		log.WithError(err).WithField("guildID", guildID).Warn("Failed to fetch guild roles")
		return nil
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r
		}
	}
	return nil
}

func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil {
		return
	}
	if v.Member != nil && v.Member.User != nil && v.Member.User.Bot {
		return
	}
	if b.config.GuildID != "" && v.GuildID != b.config.GuildID {
		return
	}

	userID, err := common.ParseDiscordID(v.UserID)
	if err != nil {
		log.WithError(err).WithField("userID", v.UserID).Warn("Ignoring voice state with unparseable user")
		return
	}

	var before entities.VoiceState
	if v.BeforeUpdate != nil {
		before = toVoiceState(v.BeforeUpdate)
	}
	after := toVoiceState(v.VoiceState)
	b.rememberVoiceState(v.GuildID, userID, after)

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := b.services.Presence.HandleVoiceState(ctx, userID, before, after); err != nil {
		log.WithFields(log.Fields{
			"userID":    userID,
			"channelID": after.ChannelID,
		}).WithError(err).Error("Failed to apply voice state")
	}
}

// handleGuildCreate reconciles presence sessions with the guild snapshot the
// gateway sends on connect and on every resume that required a new session.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil {
		return
	}
	if b.config.GuildID != "" && g.ID != b.config.GuildID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := b.reconcilePresence(ctx, g.ID, guildVoiceStates(g.Guild)); err != nil {
		log.WithField("guildID", g.ID).WithError(err).Error("Failed to reconcile voice presence")
	}
}

// reconcilePresence records the voice states of one guild and reconciles
// against the union of every guild seen so far.
func (b *Bot) reconcilePresence(ctx context.Context, guildID string, states map[int64]entities.VoiceState) error {
	b.voiceMu.Lock()
	defer b.voiceMu.Unlock()

	if b.voiceByGuild == nil {
		b.voiceByGuild = make(map[string]map[int64]entities.VoiceState)
	}
	b.voiceByGuild[guildID] = states

	present := make(map[int64]entities.VoiceState)
	for _, guild := range b.voiceByGuild {
		for id, state := range guild {
			if current, ok := present[id]; ok && current.IsActive() {
				continue
			}
			present[id] = state
		}
	}
	return b.services.Presence.Reconcile(ctx, present)
}

// rememberVoiceState keeps a guild snapshot current between reconciles
func (b *Bot) rememberVoiceState(guildID string, userID int64, state entities.VoiceState) {
	b.voiceMu.Lock()
	defer b.voiceMu.Unlock()

	guild, ok := b.voiceByGuild[guildID]
	if !ok {
		return
	}
	if state.ChannelID == "" {
		delete(guild, userID)
		return
	}
	guild[userID] = state
}

// guildVoiceStates extracts the voice states of human members
func guildVoiceStates(g *discordgo.Guild) map[int64]entities.VoiceState {
	bots := make(map[string]bool)
	for _, member := range g.Members {
		if member != nil && member.User != nil && member.User.Bot {
			bots[member.User.ID] = true
		}
	}

	states := make(map[int64]entities.VoiceState, len(g.VoiceStates))
	for _, vs := range g.VoiceStates {
		if vs == nil || bots[vs.UserID] {
			continue
		}
		if vs.Member != nil && vs.Member.User != nil && vs.Member.User.Bot {
			continue
		}
		userID, err := common.ParseDiscordID(vs.UserID)
		if err != nil {
			log.WithError(err).WithField("userID", vs.UserID).Warn("Ignoring voice state with unparseable user")
			continue
		}
		states[userID] = toVoiceState(vs)
	}
	return states
}

func toVoiceState(vs *discordgo.VoiceState) entities.VoiceState {
	return entities.VoiceState{
		ChannelID: vs.ChannelID,
		SelfDeaf:  vs.SelfDeaf,
	}
}
