package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"wagerbot/bot/common"
	"wagerbot/domain/utils"

	"github.com/bwmarrin/discordgo"
)

func (c *Commands) handlePoints(ctx context.Context, inv *Invocation) (*Reply, error) {
	balance, err := c.services.Accounts.EnsureAccount(ctx, inv.UserID)
	if err != nil {
		return nil, err
	}
	return &Reply{Content: fmt.Sprintf("%s, you have %s points.", common.Mention(inv.UserID), utils.FormatPoints(balance))}, nil
}

func (c *Commands) handleVoicePoints(ctx context.Context, inv *Invocation) (*Reply, error) {
	points, err := c.services.Presence.VoicePoints(ctx, inv.UserID)
	if err != nil {
		return nil, err
	}
	return &Reply{Content: fmt.Sprintf("%s, you have earned %s points from voice chat.", common.Mention(inv.UserID), utils.FormatPoints(points))}, nil
}

func (c *Commands) handleDaily(ctx context.Context, inv *Invocation) (*Reply, error) {
	result, err := c.services.Accounts.DailyClaim(ctx, inv.UserID)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildDailyEmbed(inv.UserID, result.Reward, result.NewBalance, result.NextEpoch)}, nil
}

func (c *Commands) handleLeaderboard(ctx context.Context, inv *Invocation) (*Reply, error) {
	entries, err := c.services.Accounts.Top(ctx, common.LeaderboardSize)
	if err != nil {
		return nil, err
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏆 Top 10 Users",
		Color: common.ColorPrimary,
	}
	if len(entries) == 0 {
		embed.Description = "Nobody has any points yet."
	}
	for _, e := range entries {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d.", e.Rank),
			Value: fmt.Sprintf("%s: %s points", common.Mention(e.DiscordID), utils.FormatPoints(e.Balance)),
		})
	}
	return &Reply{Embed: embed}, nil
}

func (c *Commands) handleGivePoints(ctx context.Context, inv *Invocation) (*Reply, error) {
	target, err := common.ParseMention(inv.Args[0])
	if err != nil {
		return nil, common.NewUserError("Please mention the user to give points to.", err.Error())
	}
	if inv.BotUserIDs[target] {
		return nil, common.NewUserError("Cannot give points to bots!", "grant target is a bot")
	}
	amount, err := strconv.ParseInt(inv.Args[1], 10, 64)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Invalid argument: %q is not a whole number.", inv.Args[1]), err.Error())
	}

	newBalance, err := c.services.Accounts.Grant(ctx, target, amount)
	if err != nil {
		return nil, err
	}

	return &Reply{Embed: &discordgo.MessageEmbed{
		Title:       "✅ Points Added",
		Description: fmt.Sprintf("%s gave %s points to %s", common.Mention(inv.UserID), utils.FormatPoints(amount), common.Mention(target)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "New Balance", Value: fmt.Sprintf("%s points", utils.FormatPoints(newBalance))},
		},
	}}, nil
}

func buildDailyEmbed(userID, reward, newBalance int64, nextEpoch time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 Daily Reward Claimed",
		Description: fmt.Sprintf("%s received %s points!", common.Mention(userID), utils.FormatPoints(reward)),
		Color:       common.ColorGold,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "New Balance", Value: fmt.Sprintf("%s points", utils.FormatPoints(newBalance)), Inline: true},
			{Name: "Next Claim", Value: common.FormatDiscordTimestamp(nextEpoch, "R"), Inline: true},
		},
	}
}
