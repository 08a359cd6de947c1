package bot

import (
	"fmt"
	"testing"
	"time"

	"wagerbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSettlementEmbed(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	bet := entities.NewBet("a1b2c3d4", "Coin flip", "Heads", "Tails", 1, now, time.Minute)

	t.Run("winners with rounding", func(t *testing.T) {
		embed := buildSettlementEmbed(&entities.BetSettlement{
			Bet:           bet,
			WinningOption: 1,
			TotalWinning:  30,
			TotalLosing:   100,
			Winners: []entities.BetPayout{
				{DiscordID: 2, Option: 1, Stake: 20, Payout: 86},
				{DiscordID: 3, Option: 1, Stake: 10, Payout: 43},
			},
			RoundingLoss: 1,
		})
		assert.Contains(t, embed.Description, "**Heads**")
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "<@2>: 86 (staked 20)\n<@3>: 43 (staked 10)", embed.Fields[0].Value)
		require.NotNil(t, embed.Footer)
		assert.Equal(t, "1 points lost to rounding", embed.Footer.Text)
	})

	t.Run("refunded when nobody backed the winner", func(t *testing.T) {
		embed := buildSettlementEmbed(&entities.BetSettlement{
			Bet:           bet,
			WinningOption: 2,
			TotalLosing:   50,
			Refunded:      true,
			Refunds:       []entities.BetPayout{{DiscordID: 2, Option: 1, Stake: 50, Payout: 50}},
		})
		assert.Contains(t, embed.Description, "refunded")
		assert.Equal(t, "Refunds", embed.Fields[0].Name)
		assert.Nil(t, embed.Footer)
	})
}

func TestPayoutLines_Truncates(t *testing.T) {
	t.Parallel()

	payouts := make([]entities.BetPayout, 100)
	for i := range payouts {
		payouts[i] = entities.BetPayout{DiscordID: int64(100000000000000000 + i), Stake: 1000, Payout: 2000}
	}

	value := payoutLines(payouts)
	assert.LessOrEqual(t, len(value), maxFieldValue)
	assert.Contains(t, value, "more")
	assert.Equal(t, "None", payoutLines(nil))
}

func TestBuildDrawResultEmbed(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	winning, err := entities.NewLotteryTicket(5, []int{1, 2, 3, 4, 5}, 6, now)
	require.NoError(t, err)

	t.Run("groups winners by tier", func(t *testing.T) {
		result := &entities.LotteryDrawResult{
			Draw:        entities.LotteryDraw{Numbers: winning.Numbers, Bonus: 6, DrawnAt: now},
			TicketCount: 3,
			PotBefore:   10000,
			PotAfter:    10000,
		}
		result.AddWinner(winning, entities.LotteryTierJackpot, 9000)
		result.AddWinner(winning, entities.LotteryTierPowerball, 500)

		embed := buildDrawResultEmbed(result)
		assert.Contains(t, embed.Description, "1 2 3 4 5 | 6")
		require.Len(t, embed.Fields, 2)
		assert.Equal(t, "🎰 Jackpot", embed.Fields[0].Name)
		assert.Equal(t, "⚡ Powerball", embed.Fields[1].Name)
		assert.Equal(t, "Pot is now 10,000 points", embed.Footer.Text)
	})

	t.Run("rollover without winners", func(t *testing.T) {
		embed := buildDrawResultEmbed(&entities.LotteryDrawResult{
			Draw:        entities.LotteryDraw{Numbers: winning.Numbers, Bonus: 6, DrawnAt: now},
			TicketCount: 2,
			PotBefore:   10200,
			PotAfter:    10200,
			Rollover:    true,
		})
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "Winners", embed.Fields[0].Name)
		assert.Contains(t, embed.Footer.Text, "rolled over")
	})
}

func TestBuildLotteryEmbed(t *testing.T) {
	t.Parallel()

	participants := []entities.LotteryParticipantInfo{
		{DiscordID: 1, TicketCount: 4},
		{DiscordID: 2, TicketCount: 3},
		{DiscordID: 3, TicketCount: 2},
		{DiscordID: 4, TicketCount: 2},
		{DiscordID: 5, TicketCount: 1},
		{DiscordID: 6, TicketCount: 1},
	}

	embed := buildLotteryEmbed(12500, 100, participants, nil)
	assert.Equal(t, "🎟️ Lottery - 12,500 points", embed.Title)
	value := embed.Fields[2].Value
	assert.Contains(t, value, "...and 1 more")
	assert.Contains(t, value, "Total: 13 tickets")
	assert.NotContains(t, value, "<@6>")
	assert.Len(t, embed.Fields, 3)

	drawnAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	withHistory := buildLotteryEmbed(12500, 100, participants, []entities.LotteryDraw{
		{Numbers: [entities.LotteryPickCount]int{1, 2, 3, 4, 5}, Bonus: 6, DrawnAt: drawnAt},
	})
	require.Len(t, withHistory.Fields, 4)
	assert.Equal(t, fmt.Sprintf("<t:%d:d> `1 2 3 4 5 | 6`", drawnAt.Unix()), withHistory.Fields[3].Value)

	empty := buildLotteryEmbed(10000, 100, nil, nil)
	assert.Equal(t, "No participants yet", empty.Fields[2].Value)
}
