package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type commandMocks struct {
	accounts *testhelpers.MockAccountService
	presence *testhelpers.MockPresenceTracker
	bets     *testhelpers.MockBetMarket
	lottery  *testhelpers.MockLotteryPool
}

func (m *commandMocks) assertExpectations(t *testing.T) {
	m.accounts.AssertExpectations(t)
	m.presence.AssertExpectations(t)
	m.bets.AssertExpectations(t)
	m.lottery.AssertExpectations(t)
}

func newTestCommands() (*Commands, *commandMocks) {
	mocks := &commandMocks{
		accounts: new(testhelpers.MockAccountService),
		presence: new(testhelpers.MockPresenceTracker),
		bets:     new(testhelpers.MockBetMarket),
		lottery:  new(testhelpers.MockLotteryPool),
	}
	c := NewCommands(Services{
		Accounts: mocks.accounts,
		Presence: mocks.presence,
		Bets:     mocks.bets,
		Lottery:  mocks.lottery,
	}, "$", "Bot Admin", 100)
	c.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return c, mocks
}

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "plain words", input: "placebet abc 1 50", want: []string{"placebet", "abc", "1", "50"}},
		{name: "extra whitespace", input: "  points   ", want: []string{"points"}},
		{
			name:  "quoted runs",
			input: `createbet "Who wins?" "Team A" "Team B" 30`,
			want:  []string{"createbet", "Who wins?", "Team A", "Team B", "30"},
		},
		{name: "empty quotes", input: `createbet "" x`, want: []string{"createbet", "", "x"}},
		{name: "unterminated quote", input: `createbet "open ended`, want: []string{"createbet", "open ended"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitArgs(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	c, _ := newTestCommands()

	inv, ok := c.Parse("$PlaceBet abc 1 50")
	require.True(t, ok)
	assert.Equal(t, "placebet", inv.Name)
	assert.Equal(t, []string{"abc", "1", "50"}, inv.Args)

	_, ok = c.Parse("hello there")
	assert.False(t, ok)

	_, ok = c.Parse("$")
	assert.False(t, ok)
}

func TestDispatch_Routing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown command", func(t *testing.T) {
		c, _ := newTestCommands()
		reply := c.Dispatch(ctx, &Invocation{Name: "nope", UserID: 1})
		assert.Contains(t, reply.Content, "Command not found")
		assert.Contains(t, reply.Content, "$help")
	})

	t.Run("admin command without role", func(t *testing.T) {
		c, mocks := newTestCommands()
		reply := c.Dispatch(ctx, &Invocation{Name: "draw", UserID: 1})
		assert.Equal(t, "❌ You need the 'Bot Admin' role to use this command.", reply.Content)
		mocks.assertExpectations(t)
	})

	t.Run("missing arguments shows usage", func(t *testing.T) {
		c, mocks := newTestCommands()
		reply := c.Dispatch(ctx, &Invocation{Name: "placebet", Args: []string{"abc"}, UserID: 1})
		require.NotNil(t, reply.Embed)
		assert.Equal(t, "❌ Missing Argument for placebet", reply.Embed.Title)
		assert.Contains(t, reply.Embed.Description, "$placebet <bet_id> <option_number> <amount>")
		mocks.assertExpectations(t)
	})

	t.Run("domain error becomes friendly text", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.accounts.On("DailyClaim", ctx, int64(7)).Return(nil, entities.ErrAlreadyClaimed)

		reply := c.Dispatch(ctx, &Invocation{Name: "daily", UserID: 7})
		assert.Equal(t, "❌ You've already claimed your daily today!", reply.Content)
		mocks.assertExpectations(t)
	})

	t.Run("unexpected error hides details", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.accounts.On("EnsureAccount", ctx, int64(7)).Return(int64(0), errors.New("disk on fire"))

		reply := c.Dispatch(ctx, &Invocation{Name: "points", UserID: 7})
		assert.NotContains(t, reply.Content, "disk on fire")
		assert.Contains(t, reply.Content, "unexpected error")
		mocks.assertExpectations(t)
	})
}

func TestDispatch_Accounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("points provisions the account", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.accounts.On("EnsureAccount", ctx, int64(42)).Return(int64(1500), nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "points", UserID: 42})
		assert.Equal(t, "<@42>, you have 1,500 points.", reply.Content)
		mocks.assertExpectations(t)
	})

	t.Run("leaderboard", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.accounts.On("Top", ctx, 10).Return([]entities.LeaderboardEntry{
			{Rank: 1, DiscordID: 5, Balance: 900},
			{Rank: 2, DiscordID: 6, Balance: 100},
		}, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "leaderboard", UserID: 1})
		require.NotNil(t, reply.Embed)
		require.Len(t, reply.Embed.Fields, 2)
		assert.Equal(t, "1.", reply.Embed.Fields[0].Name)
		assert.Contains(t, reply.Embed.Fields[0].Value, "<@5>")
		mocks.assertExpectations(t)
	})

	tests := []struct {
		name    string
		args    []string
		bots    map[int64]bool
		setup   func(m *commandMocks)
		want    string
		isEmbed bool
	}{
		{
			name: "grant to a user",
			args: []string{"<@!99>", "500"},
			setup: func(m *commandMocks) {
				m.accounts.On("Grant", mock.Anything, int64(99), int64(500)).Return(int64(1500), nil)
			},
			isEmbed: true,
		},
		{
			name: "grant to a bot",
			args: []string{"<@99>", "500"},
			bots: map[int64]bool{99: true},
			want: "❌ Cannot give points to bots!",
		},
		{
			name: "grant without a mention",
			args: []string{"someone", "500"},
			want: "❌ Please mention the user to give points to.",
		},
		{
			name: "grant over the cap",
			args: []string{"<@99>", "20000"},
			setup: func(m *commandMocks) {
				m.accounts.On("Grant", mock.Anything, int64(99), int64(20000)).
					Return(int64(0), fmt.Errorf("%w: max 10,000", entities.ErrGrantTooLarge))
			},
			want: "❌ Cannot give that many points at once (max 10,000).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mocks := newTestCommands()
			if tt.setup != nil {
				tt.setup(mocks)
			}

			reply := c.Dispatch(ctx, &Invocation{Name: "givepoints", Args: tt.args, UserID: 1, IsAdmin: true, BotUserIDs: tt.bots})
			if tt.isEmbed {
				require.NotNil(t, reply.Embed)
				assert.Contains(t, reply.Embed.Description, "<@99>")
			} else {
				assert.Equal(t, tt.want, reply.Content)
			}
			mocks.assertExpectations(t)
		})
	}
}

func TestDispatch_Bets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("createbet defaults the duration", func(t *testing.T) {
		c, mocks := newTestCommands()
		bet := entities.NewBet("a1b2c3d4", "Who wins?", "Team A", "Team B", 3, now, 5*time.Minute)
		mocks.bets.On("CreateBet", ctx, int64(3), "Who wins?", "Team A", "Team B", 5).Return(bet, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "createbet", Args: []string{"Who wins?", "Team A", "Team B"}, UserID: 3})
		require.NotNil(t, reply.Embed)
		mocks.assertExpectations(t)
	})

	t.Run("createbet with a bad duration", func(t *testing.T) {
		c, mocks := newTestCommands()
		reply := c.Dispatch(ctx, &Invocation{Name: "createbet", Args: []string{"n", "a", "b", "soon"}, UserID: 3})
		assert.Contains(t, reply.Content, `"soon" is not a number of minutes`)
		mocks.assertExpectations(t)
	})

	t.Run("placebet parses option and amount", func(t *testing.T) {
		c, mocks := newTestCommands()
		bet := entities.NewBet("a1b2c3d4", "Who wins?", "Team A", "Team B", 3, now, 5*time.Minute)
		bet.AddStake(2, 4, 50)
		mocks.bets.On("PlaceStake", ctx, int64(4), "a1b2c3d4", 2, int64(50)).Return(&entities.StakeReceipt{
			Bet: bet, Option: 2, Amount: 50, TotalStake: 50, NewBalance: 950,
		}, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "placebet", Args: []string{"a1b2c3d4", "2", "50"}, UserID: 4})
		require.NotNil(t, reply.Embed)
		mocks.assertExpectations(t)
	})

	t.Run("placebet on an unknown bet", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.bets.On("PlaceStake", ctx, int64(4), "zzz", 1, int64(10)).Return(nil, entities.ErrUnknownBet)

		reply := c.Dispatch(ctx, &Invocation{Name: "placebet", Args: []string{"zzz", "1", "10"}, UserID: 4})
		assert.Contains(t, reply.Content, "Invalid bet ID")
		mocks.assertExpectations(t)
	})

	t.Run("activebets when empty", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.bets.On("ActiveBets", ctx).Return([]*entities.Bet{}, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "activebets", UserID: 4})
		assert.Equal(t, "No active bets currently running.", reply.Content)
		mocks.assertExpectations(t)
	})
}

func TestDispatch_Lottery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	ticket, err := entities.NewLotteryTicket(4, []int{3, 7, 12, 19, 24}, 6, now)
	require.NoError(t, err)
	purchase := &entities.TicketPurchase{
		Tickets:    []*entities.LotteryTicket{ticket},
		TotalCost:  100,
		NewBalance: 900,
		Pot:        10100,
	}

	t.Run("lottery overview", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.lottery.On("Pot", ctx).Return(int64(10100), nil)
		mocks.lottery.On("Participants", ctx).Return([]entities.LotteryParticipantInfo{{DiscordID: 4, TicketCount: 1}}, nil)
		mocks.lottery.On("DrawHistory", ctx, 5).Return([]entities.LotteryDraw{}, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "lottery", UserID: 4})
		require.NotNil(t, reply.Embed)
		assert.Equal(t, "🎟️ Lottery - 10,100 points", reply.Embed.Title)
		mocks.assertExpectations(t)
	})

	t.Run("buytickets defaults to one", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.lottery.On("BuyRandomTickets", ctx, int64(4), 1).Return(purchase, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "buytickets", UserID: 4})
		require.NotNil(t, reply.Embed)
		assert.Contains(t, reply.Embed.Fields[0].Value, "3 7 12 19 24 | 6")
		mocks.assertExpectations(t)
	})

	t.Run("pickticket splits numbers and bonus", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.lottery.On("BuyChosenTicket", ctx, int64(4), []int{24, 3, 19, 7, 12}, 6).Return(purchase, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "pickticket", Args: []string{"24", "3", "19", "7", "12", "6"}, UserID: 4})
		require.NotNil(t, reply.Embed)
		mocks.assertExpectations(t)
	})

	t.Run("pickticket with a word", func(t *testing.T) {
		c, mocks := newTestCommands()
		reply := c.Dispatch(ctx, &Invocation{Name: "pickticket", Args: []string{"1", "2", "3", "4", "five", "6"}, UserID: 4})
		assert.Contains(t, reply.Content, `"five" is not a number`)
		mocks.assertExpectations(t)
	})

	t.Run("mytickets when empty", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.lottery.On("PendingTickets", ctx, int64(4)).Return([]*entities.LotteryTicket{}, nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "mytickets", UserID: 4})
		assert.Contains(t, reply.Content, "you have no tickets")
		mocks.assertExpectations(t)
	})

	t.Run("draw with too few tickets", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.lottery.On("Draw", ctx).Return(nil, fmt.Errorf("%w: need 2, have 1", entities.ErrInsufficientTickets))

		reply := c.Dispatch(ctx, &Invocation{Name: "draw", UserID: 1, IsAdmin: true})
		assert.Equal(t, "❌ Not enough tickets have been sold for a draw (need 2, have 1).", reply.Content)
		mocks.assertExpectations(t)
	})

	t.Run("resetpot", func(t *testing.T) {
		c, mocks := newTestCommands()
		mocks.lottery.On("ResetPot", ctx).Return(int64(10000), nil)

		reply := c.Dispatch(ctx, &Invocation{Name: "resetpot", UserID: 1, IsAdmin: true})
		assert.Equal(t, "✅ Lottery pot reset to 10,000 points.", reply.Content)
		mocks.assertExpectations(t)
	})
}

func TestHelp_HidesAdminCommands(t *testing.T) {
	t.Parallel()
	c, _ := newTestCommands()
	ctx := context.Background()

	reply := c.Dispatch(ctx, &Invocation{Name: "help", UserID: 1})
	require.NotNil(t, reply.Embed)
	assert.Contains(t, reply.Embed.Description, "$points")
	assert.NotContains(t, reply.Embed.Description, "$draw")

	reply = c.Dispatch(ctx, &Invocation{Name: "help", UserID: 1, IsAdmin: true})
	assert.Contains(t, reply.Embed.Description, "$draw")
}
