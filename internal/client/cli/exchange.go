package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/rewear/internal/api"
)

func (a *App) requestSwap(ctx context.Context, args []string) error {
	resp, err := a.market.RequestSwap(ctx, &api.ItemIDRequest{ItemID: args[0]})
	if err != nil {
		return err
	}
	a.say("Swap request %s sent, waiting for the owner", resp.Request.ID)
	return nil
}

func (a *App) redeem(ctx context.Context, args []string) error {
	resp, err := a.market.Redeem(ctx, &api.ItemIDRequest{ItemID: args[0]})
	if err != nil {
		return err
	}
	a.say("Redeemed item %s, balance is now %d", resp.Request.ItemID, resp.Balance)
	return nil
}

func (a *App) swapRows(reqs []*api.SwapRequest) [][]string {
	me := ""
	if s := a.currentSession(); s != nil {
		me = s.UserID
	}

	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		dir := "-"
		switch me {
		case r.RequesterID:
			dir = "outgoing"
		case r.OwnerID:
			dir = "incoming"
		}
		rows = append(rows, []string{r.ID, r.ItemID, r.Type, r.Status, dir, formatTime(r.CreatedAt)})
	}
	return rows
}

const swapHeader = "ID\tITEM\tTYPE\tSTATUS\tDIRECTION\tCREATED"

func (a *App) listRequests(ctx context.Context, _ []string) error {
	resp, err := a.market.ListSwapRequests(ctx)
	if err != nil {
		return err
	}
	a.table(swapHeader, a.swapRows(resp.Requests))
	return nil
}

func (a *App) respond(ctx context.Context, id string, accept bool) error {
	resp, err := a.market.RespondSwap(ctx, &api.RespondSwapRequest{RequestID: id, Accept: accept})
	if err != nil {
		return err
	}
	a.say("Request %s is %s", resp.Request.ID, resp.Request.Status)
	return nil
}

func (a *App) acceptSwap(ctx context.Context, args []string) error {
	return a.respond(ctx, args[0], true)
}

func (a *App) declineSwap(ctx context.Context, args []string) error {
	return a.respond(ctx, args[0], false)
}

func (a *App) ledger(ctx context.Context, args []string) error {
	req := &api.LedgerRequest{}
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid limit %q", args[0])
		}
		req.Limit = int32(n)
	}

	resp, err := a.market.Ledger(ctx, req)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		rows = append(rows, []string{
			formatTime(t.CreatedAt),
			fmt.Sprintf("%+d", t.Amount),
			strconv.FormatInt(t.BalanceAfter, 10),
			t.Kind,
			orDash(t.Note),
		})
	}
	a.table("WHEN\tAMOUNT\tBALANCE\tKIND\tNOTE", rows)
	return nil
}
