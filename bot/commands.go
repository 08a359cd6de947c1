package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"wagerbot/bot/common"
	"wagerbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Invocation is a parsed prefix command
type Invocation struct {
	Name       string
	Args       []string
	UserID     int64
	IsAdmin    bool
	BotUserIDs map[int64]bool // mentioned users that are bots
}

// Reply is what a command sends back to the channel
type Reply struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

type commandHandler func(ctx context.Context, inv *Invocation) (*Reply, error)

// Command describes one prefix command
type Command struct {
	Name      string
	Usage     string
	Example   string
	Help      string
	AdminOnly bool
	MinArgs   int
	handler   commandHandler
}

// Services are the engine operations the gateway drives
type Services struct {
	Accounts interfaces.AccountService
	Presence interfaces.PresenceTracker
	Bets     interfaces.BetMarket
	Lottery  interfaces.LotteryPool
}

// Commands routes invocations to handlers
type Commands struct {
	services      Services
	prefix        string
	adminRoleName string
	ticketCost    int64
	registry      map[string]*Command
	now           func() time.Time
}

// NewCommands builds the command registry
func NewCommands(services Services, prefix, adminRoleName string, ticketCost int64) *Commands {
	c := &Commands{
		services:      services,
		prefix:        prefix,
		adminRoleName: adminRoleName,
		ticketCost:    ticketCost,
		registry:      make(map[string]*Command),
		now:           time.Now,
	}

	c.register(&Command{Name: "points", Help: "Check your points balance", handler: c.handlePoints})
	c.register(&Command{Name: "voicepoints", Help: "Check your voice chat points balance", handler: c.handleVoicePoints})
	c.register(&Command{Name: "daily", Help: "Claim your daily points", handler: c.handleDaily})
	c.register(&Command{Name: "leaderboard", Help: "Show top 10 users by points", handler: c.handleLeaderboard})
	c.register(&Command{
		Name: "givepoints", Usage: "<user> <amount>", Example: "@user 500",
		Help: "Give points to a user (Admin only)", AdminOnly: true, MinArgs: 2, handler: c.handleGivePoints,
	})

	c.register(&Command{Name: "activebets", Help: "Show all active betting events", handler: c.handleActiveBets})
	c.register(&Command{
		Name: "createbet", Usage: "<name> <option1> <option2> [duration_minutes=5]",
		Example: `"Who wins?" "Team A" "Team B" 30`,
		Help:    "Create a new betting event (1 min to 24 hours)", MinArgs: 3, handler: c.handleCreateBet,
	})
	c.register(&Command{
		Name: "placebet", Usage: "<bet_id> <option_number> <amount>", Example: "a1b2c3d4 1 50",
		Help: "Place a bet on an event", MinArgs: 3, handler: c.handlePlaceBet,
	})
	c.register(&Command{
		Name: "resolvebet", Usage: "<bet_id> <winning_option>", Example: "a1b2c3d4 2",
		Help: "Resolve a bet and pay out winners (Admin only)", AdminOnly: true, MinArgs: 2, handler: c.handleResolveBet,
	})
	c.register(&Command{
		Name: "cancelbet", Usage: "<bet_id>", Example: "a1b2c3d4",
		Help: "Cancel an open bet and refund all stakes (Admin only)", AdminOnly: true, MinArgs: 1, handler: c.handleCancelBet,
	})

	c.register(&Command{Name: "lottery", Help: "Show the lottery pot and ticket pool", handler: c.handleLottery})
	c.register(&Command{
		Name: "buytickets", Usage: "[count=1]", Example: "3",
		Help: "Buy quick-pick lottery tickets", handler: c.handleBuyTickets,
	})
	c.register(&Command{
		Name: "pickticket", Usage: "<n1> <n2> <n3> <n4> <n5> <bonus>", Example: "3 7 12 19 24 6",
		Help: "Buy a ticket with your own numbers", MinArgs: 6, handler: c.handlePickTicket,
	})
	c.register(&Command{Name: "mytickets", Help: "Show your tickets for the next draw", handler: c.handleMyTickets})
	c.register(&Command{Name: "draw", Help: "Draw the lottery (Admin only)", AdminOnly: true, handler: c.handleDraw})
	c.register(&Command{Name: "resetpot", Help: "Reset the lottery pot (Admin only)", AdminOnly: true, handler: c.handleResetPot})

	c.register(&Command{Name: "help", Help: "Show available commands", handler: c.handleHelp})
	return c
}

func (c *Commands) register(cmd *Command) {
	c.registry[cmd.Name] = cmd
}

// Lookup returns a registered command
func (c *Commands) Lookup(name string) (*Command, bool) {
	cmd, ok := c.registry[name]
	return cmd, ok
}

// Parse splits a message into an invocation. It reports false when the
// message is not a command.
func (c *Commands) Parse(content string) (*Invocation, bool) {
	if !strings.HasPrefix(content, c.prefix) {
		return nil, false
	}
	fields := SplitArgs(strings.TrimPrefix(content, c.prefix))
	if len(fields) == 0 {
		return nil, false
	}
	return &Invocation{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
	}, true
}

// Dispatch runs an invocation and always produces a reply
func (c *Commands) Dispatch(ctx context.Context, inv *Invocation) *Reply {
	cmd, ok := c.registry[inv.Name]
	if !ok {
		return &Reply{Content: fmt.Sprintf("❌ Command not found. Use `%shelp` for available commands.", c.prefix)}
	}
	if cmd.AdminOnly && !inv.IsAdmin {
		return &Reply{Content: fmt.Sprintf("❌ You need the '%s' role to use this command.", c.adminRoleName)}
	}
	if len(inv.Args) < cmd.MinArgs {
		return &Reply{Embed: c.usageEmbed(cmd)}
	}

	reply, err := cmd.handler(ctx, inv)
	if err != nil {
		message, correctable := common.UserMessage(err)
		fields := log.Fields{
			"command": inv.Name,
			"userID":  inv.UserID,
		}
		if correctable {
			log.WithFields(fields).WithError(err).Debug("Command rejected")
		} else {
			log.WithFields(fields).WithError(err).Error("Command failed")
		}
		return &Reply{Content: "❌ " + message}
	}
	return reply
}

func (c *Commands) usageEmbed(cmd *Command) *discordgo.MessageEmbed {
	description := fmt.Sprintf("**Correct Usage:**\n`%s%s %s`", c.prefix, cmd.Name, cmd.Usage)
	if cmd.Example != "" {
		description += fmt.Sprintf("\n\nExample: `%s%s %s`", c.prefix, cmd.Name, cmd.Example)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("❌ Missing Argument for %s", cmd.Name),
		Description: description,
		Color:       common.ColorDanger,
	}
}

func (c *Commands) handleHelp(ctx context.Context, inv *Invocation) (*Reply, error) {
	names := make([]string, 0, len(c.registry))
	for name := range c.registry {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		cmd := c.registry[name]
		if cmd.AdminOnly && !inv.IsAdmin {
			continue
		}
		fmt.Fprintf(&b, "`%s%s", c.prefix, cmd.Name)
		if cmd.Usage != "" {
			fmt.Fprintf(&b, " %s", cmd.Usage)
		}
		fmt.Fprintf(&b, "` %s\n", cmd.Help)
	}

	return &Reply{Embed: &discordgo.MessageEmbed{
		Title:       "📖 Commands",
		Description: b.String(),
		Color:       common.ColorPrimary,
	}}, nil
}

// SplitArgs splits on whitespace, keeping double-quoted runs together
func SplitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case unicode.IsSpace(r) && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}
