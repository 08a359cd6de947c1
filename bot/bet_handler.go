package bot

import (
	"context"
	"fmt"
	"strconv"

	"wagerbot/bot/common"
)

func (c *Commands) handleActiveBets(ctx context.Context, inv *Invocation) (*Reply, error) {
	bets, err := c.services.Bets.ActiveBets(ctx)
	if err != nil {
		return nil, err
	}
	if len(bets) == 0 {
		return &Reply{Content: "No active bets currently running."}, nil
	}
	return &Reply{Embed: buildActiveBetsEmbed(bets, c.now(), c.prefix)}, nil
}

func (c *Commands) handleCreateBet(ctx context.Context, inv *Invocation) (*Reply, error) {
	duration := common.DefaultBetDurationMinutes
	if len(inv.Args) > 3 {
		parsed, err := strconv.Atoi(inv.Args[3])
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Invalid argument: %q is not a number of minutes.", inv.Args[3]), err.Error())
		}
		duration = parsed
	}

	bet, err := c.services.Bets.CreateBet(ctx, inv.UserID, inv.Args[0], inv.Args[1], inv.Args[2], duration)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildBetCreatedEmbed(bet, c.prefix)}, nil
}

func (c *Commands) handlePlaceBet(ctx context.Context, inv *Invocation) (*Reply, error) {
	option, err := strconv.Atoi(inv.Args[1])
	if err != nil {
		return nil, common.NewUserError("Please choose option 1 or 2.", err.Error())
	}
	amount, err := strconv.ParseInt(inv.Args[2], 10, 64)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Invalid argument: %q is not a whole number.", inv.Args[2]), err.Error())
	}

	receipt, err := c.services.Bets.PlaceStake(ctx, inv.UserID, inv.Args[0], option, amount)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildStakePlacedEmbed(inv.UserID, receipt)}, nil
}

func (c *Commands) handleResolveBet(ctx context.Context, inv *Invocation) (*Reply, error) {
	option, err := strconv.Atoi(inv.Args[1])
	if err != nil {
		return nil, common.NewUserError("Please choose winning option 1 or 2.", err.Error())
	}

	settlement, err := c.services.Bets.Resolve(ctx, inv.Args[0], option)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildSettlementEmbed(settlement)}, nil
}

func (c *Commands) handleCancelBet(ctx context.Context, inv *Invocation) (*Reply, error) {
	cancellation, err := c.services.Bets.Cancel(ctx, inv.Args[0])
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildCancellationEmbed(cancellation)}, nil
}
