package bot

import (
	"fmt"
	"strings"
	"time"

	"wagerbot/bot/common"
	"wagerbot/domain/entities"
	"wagerbot/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// Embed field values are capped by Discord
const maxFieldValue = 1024

func buildActiveBetsEmbed(bets []*entities.Bet, now time.Time, prefix string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎲 Active Bets",
		Color: common.ColorInfo,
	}
	for _, bet := range bets {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("ID: %s - %s", bet.ID, bet.Name),
			Value: fmt.Sprintf("Creator: %s\nOptions: 1) %s (%s) | 2) %s (%s)\nTime left: %s\nCancel with: `%scancelbet %s`",
				common.Mention(bet.CreatedBy),
				bet.Options[0], utils.FormatPoints(bet.StakeTotal(1)),
				bet.Options[1], utils.FormatPoints(bet.StakeTotal(2)),
				utils.FormatRemaining(bet.ClosesAt.Sub(now)),
				prefix, bet.ID,
			),
		})
	}
	return embed
}

func buildBetCreatedEmbed(bet *entities.Bet, prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎲 New Bet Created",
		Description: fmt.Sprintf("**%s**\nBet ID: `%s`\nCreated by %s", bet.Name, bet.ID, common.Mention(bet.CreatedBy)),
		Color:       common.ColorInfo,
		Timestamp:   bet.ClosesAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Option 1️⃣", Value: bet.Options[0], Inline: true},
			{Name: "Option 2️⃣", Value: bet.Options[1], Inline: true},
			{Name: "How to Bet", Value: fmt.Sprintf("Use `%splacebet %s <1 or 2> <amount>`", prefix, bet.ID)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Betting closes at"},
	}
}

func buildStakePlacedEmbed(userID int64, receipt *entities.StakeReceipt) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "✅ Bet Placed",
		Description: fmt.Sprintf("%s bet %s points on **%s** in `%s`",
			common.Mention(userID), utils.FormatPoints(receipt.Amount), receipt.Bet.OptionName(receipt.Option), receipt.Bet.ID),
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your Stake", Value: utils.FormatPoints(receipt.TotalStake), Inline: true},
			{Name: "New Balance", Value: utils.FormatPoints(receipt.NewBalance), Inline: true},
			{Name: "Total Pot", Value: utils.FormatPoints(receipt.Bet.TotalPot()), Inline: true},
		},
	}
}

func buildSettlementEmbed(s *entities.BetSettlement) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏁 Bet Resolved: %s", s.Bet.Name),
		Color: common.ColorGold,
	}

	if s.Refunded {
		embed.Description = fmt.Sprintf("Winning option: **%s**\nNobody backed the winner, so every stake was refunded.", s.Bet.OptionName(s.WinningOption))
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Refunds", Value: payoutLines(s.Refunds)})
		return embed
	}

	embed.Description = fmt.Sprintf("Winning option: **%s**\nWinning pool %s, losing pool %s",
		s.Bet.OptionName(s.WinningOption), utils.FormatPoints(s.TotalWinning), utils.FormatPoints(s.TotalLosing))
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Winners", Value: payoutLines(s.Winners)})
	if s.RoundingLoss > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d points lost to rounding", s.RoundingLoss)}
	}
	return embed
}

func buildCancellationEmbed(c *entities.BetCancellation) *discordgo.MessageEmbed {
	value := "No stakes were placed."
	if len(c.Refunds) > 0 {
		value = payoutLines(c.Refunds)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🚫 Bet Cancelled: %s", c.Bet.Name),
		Description: fmt.Sprintf("Refunded %s points in total.", utils.FormatPoints(c.TotalRefunded)),
		Color:       common.ColorWarning,
		Fields:      []*discordgo.MessageEmbedField{{Name: "Refunds", Value: value}},
	}
}

func payoutLines(payouts []entities.BetPayout) string {
	if len(payouts) == 0 {
		return "None"
	}
	var b strings.Builder
	for i, p := range payouts {
		line := fmt.Sprintf("%s: %s (staked %s)\n", common.Mention(p.DiscordID), utils.FormatPoints(p.Payout), utils.FormatPoints(p.Stake))
		if b.Len()+len(line) > maxFieldValue-20 {
			fmt.Fprintf(&b, "...and %d more", len(payouts)-i)
			break
		}
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), "\n")
}
