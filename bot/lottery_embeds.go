package bot

import (
	"fmt"
	"strings"

	"wagerbot/bot/common"
	"wagerbot/domain/entities"
	"wagerbot/domain/utils"

	"github.com/bwmarrin/discordgo"
)

var tierLabels = []struct {
	tier  entities.LotteryTier
	label string
}{
	{entities.LotteryTierJackpot, "🎰 Jackpot"},
	{entities.LotteryTierMatch5, "5️⃣ Match 5"},
	{entities.LotteryTierMatch4, "4️⃣ Match 4"},
	{entities.LotteryTierPowerball, "⚡ Powerball"},
}

func buildLotteryEmbed(pot, ticketCost int64, participants []entities.LotteryParticipantInfo, history []entities.LotteryDraw) *discordgo.MessageEmbed {
	participantStr := "No participants yet"
	if len(participants) > 0 {
		lines := make([]string, 0, common.MaxParticipantsShown+1)
		var total int64
		for i, p := range participants {
			total += p.TicketCount
			if i < common.MaxParticipantsShown {
				lines = append(lines, fmt.Sprintf("%s: %d tickets", common.Mention(p.DiscordID), p.TicketCount))
			}
		}
		if len(participants) > common.MaxParticipantsShown {
			lines = append(lines, fmt.Sprintf("...and %d more", len(participants)-common.MaxParticipantsShown))
		}
		lines = append(lines, fmt.Sprintf("Total: %d tickets", total))
		participantStr = strings.Join(lines, "\n")
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎟️ Lottery - %s points", utils.FormatPoints(pot)),
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ticket Cost", Value: utils.FormatPoints(ticketCost), Inline: true},
			{Name: "Numbers", Value: fmt.Sprintf("%d of %d-%d, bonus %d-%d",
				entities.LotteryPickCount, entities.LotteryMainMin, entities.LotteryMainMax,
				entities.LotteryBonusMin, entities.LotteryBonusMax), Inline: true},
			{Name: "Participants", Value: participantStr},
		},
	}
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, d := range history {
			lines = append(lines, fmt.Sprintf("%s `%s`", common.FormatDiscordTimestamp(d.DrawnAt, "d"), d.Format()))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Recent Draws", Value: strings.Join(lines, "\n")})
	}
	return embed
}

func buildPurchaseEmbed(userID int64, purchase *entities.TicketPurchase) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Tickets Purchased!",
		Description: fmt.Sprintf("%s bought %d ticket(s) for %s points",
			common.Mention(userID), len(purchase.Tickets), utils.FormatPoints(purchase.TotalCost)),
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tickets", Value: ticketLines(purchase.Tickets)},
			{Name: "New Balance", Value: utils.FormatPoints(purchase.NewBalance), Inline: true},
			{Name: "Pot", Value: utils.FormatPoints(purchase.Pot), Inline: true},
		},
	}
}

func buildTicketListEmbed(userID int64, tickets []*entities.LotteryTicket) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎟️ Your Tickets",
		Description: fmt.Sprintf("%s has %d ticket(s) in the next draw", common.Mention(userID), len(tickets)),
		Color:       common.ColorInfo,
		Fields:      []*discordgo.MessageEmbedField{{Name: "Tickets", Value: ticketLines(tickets)}},
	}
}

func buildDrawResultEmbed(result *entities.LotteryDrawResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎉 Lottery Draw",
		Description: fmt.Sprintf("Winning numbers: **%s**\n%d tickets entered, pot was %s points",
			result.Draw.Format(), result.TicketCount, utils.FormatPoints(result.PotBefore)),
		Color: common.ColorGold,
	}

	for _, tl := range tierLabels {
		winners := result.WinnersInTier(tl.tier)
		if len(winners) == 0 {
			continue
		}
		lines := make([]string, 0, len(winners))
		for _, w := range winners {
			lines = append(lines, fmt.Sprintf("%s: %s (%s)", common.Mention(w.DiscordID), utils.FormatPoints(w.Payout), w.Ticket.Format()))
		}
		value := strings.Join(lines, "\n")
		if len(value) > maxFieldValue {
			value = fmt.Sprintf("%d winners, %s points in total", len(winners), utils.FormatPoints(result.TierTotals[tl.tier]))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: tl.label, Value: value})
	}

	if len(result.Winners) == 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Winners", Value: "No winning tickets this time."})
	}

	footer := fmt.Sprintf("Pot is now %s points", utils.FormatPoints(result.PotAfter))
	if result.Rollover {
		footer += " (rolled over)"
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	return embed
}

func ticketLines(tickets []*entities.LotteryTicket) string {
	lines := make([]string, 0, len(tickets))
	for _, t := range tickets {
		lines = append(lines, "`"+t.Format()+"`")
	}
	value := strings.Join(lines, "\n")
	if len(value) > maxFieldValue {
		return fmt.Sprintf("%d tickets", len(tickets))
	}
	return value
}
