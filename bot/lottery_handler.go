package bot

import (
	"context"
	"fmt"
	"strconv"

	"wagerbot/bot/common"
	"wagerbot/domain/utils"
)

func (c *Commands) handleLottery(ctx context.Context, inv *Invocation) (*Reply, error) {
	pot, err := c.services.Lottery.Pot(ctx)
	if err != nil {
		return nil, err
	}
	participants, err := c.services.Lottery.Participants(ctx)
	if err != nil {
		return nil, err
	}
	history, err := c.services.Lottery.DrawHistory(ctx, common.DrawHistoryShown)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildLotteryEmbed(pot, c.ticketCost, participants, history)}, nil
}

func (c *Commands) handleBuyTickets(ctx context.Context, inv *Invocation) (*Reply, error) {
	count := 1
	if len(inv.Args) > 0 {
		parsed, err := strconv.Atoi(inv.Args[0])
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Invalid argument: %q is not a ticket count.", inv.Args[0]), err.Error())
		}
		count = parsed
	}

	purchase, err := c.services.Lottery.BuyRandomTickets(ctx, inv.UserID, count)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildPurchaseEmbed(inv.UserID, purchase)}, nil
}

func (c *Commands) handlePickTicket(ctx context.Context, inv *Invocation) (*Reply, error) {
	values := make([]int, 0, len(inv.Args))
	for _, arg := range inv.Args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Invalid argument: %q is not a number.", arg), err.Error())
		}
		values = append(values, n)
	}

	// The last value is the bonus number
	numbers, bonus := values[:len(values)-1], values[len(values)-1]
	purchase, err := c.services.Lottery.BuyChosenTicket(ctx, inv.UserID, numbers, bonus)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildPurchaseEmbed(inv.UserID, purchase)}, nil
}

func (c *Commands) handleMyTickets(ctx context.Context, inv *Invocation) (*Reply, error) {
	tickets, err := c.services.Lottery.PendingTickets(ctx, inv.UserID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return &Reply{Content: fmt.Sprintf("%s, you have no tickets for the next draw. Use `%sbuytickets` to get some.", common.Mention(inv.UserID), c.prefix)}, nil
	}
	return &Reply{Embed: buildTicketListEmbed(inv.UserID, tickets)}, nil
}

func (c *Commands) handleDraw(ctx context.Context, inv *Invocation) (*Reply, error) {
	result, err := c.services.Lottery.Draw(ctx)
	if err != nil {
		return nil, err
	}
	return &Reply{Embed: buildDrawResultEmbed(result)}, nil
}

func (c *Commands) handleResetPot(ctx context.Context, inv *Invocation) (*Reply, error) {
	pot, err := c.services.Lottery.ResetPot(ctx)
	if err != nil {
		return nil, err
	}
	return &Reply{Content: fmt.Sprintf("✅ Lottery pot reset to %s points.", utils.FormatPoints(pot))}, nil
}
