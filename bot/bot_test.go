package bot

import (
	"context"
	"testing"

	"wagerbot/domain/entities"
	"wagerbot/domain/testhelpers"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildVoiceStates(t *testing.T) {
	t.Parallel()

	guild := &discordgo.Guild{
		ID: "1",
		Members: []*discordgo.Member{
			{User: &discordgo.User{ID: "100"}},
			{User: &discordgo.User{ID: "900", Bot: true}},
		},
		VoiceStates: []*discordgo.VoiceState{
			{UserID: "100", ChannelID: "general"},
			{UserID: "200", ChannelID: "general", SelfDeaf: true},
			{UserID: "900", ChannelID: "general"},
			{UserID: "not-a-snowflake", ChannelID: "general"},
			nil,
		},
	}

	states := guildVoiceStates(guild)
	assert.Equal(t, map[int64]entities.VoiceState{
		100: {ChannelID: "general"},
		200: {ChannelID: "general", SelfDeaf: true},
	}, states)
}

func TestBot_ReconcilePresence(t *testing.T) {
	t.Parallel()

	presence := new(testhelpers.MockPresenceTracker)
	b := &Bot{services: Services{Presence: presence}}
	ctx := context.Background()

	first := map[int64]entities.VoiceState{100: {ChannelID: "a"}}
	presence.On("Reconcile", ctx, first).Return(nil).Once()
	require.NoError(t, b.reconcilePresence(ctx, "1", first))

	// A second guild keeps the first guild's users present
	second := map[int64]entities.VoiceState{
		100: {ChannelID: "b", SelfDeaf: true},
		200: {ChannelID: "b"},
	}
	presence.On("Reconcile", ctx, map[int64]entities.VoiceState{
		100: {ChannelID: "a"},
		200: {ChannelID: "b"},
	}).Return(nil).Once()
	require.NoError(t, b.reconcilePresence(ctx, "2", second))

	// Leaving the first guild's channel is reflected in the next reconcile
	b.rememberVoiceState("1", 100, entities.VoiceState{})
	b.rememberVoiceState("3", 300, entities.VoiceState{ChannelID: "c"})
	presence.On("Reconcile", ctx, map[int64]entities.VoiceState{
		100: {ChannelID: "b", SelfDeaf: true},
		200: {ChannelID: "b"},
	}).Return(nil).Once()
	require.NoError(t, b.reconcilePresence(ctx, "2", second))

	presence.AssertExpectations(t)
}
