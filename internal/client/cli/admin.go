package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/rewear/internal/api"
	"google.golang.org/grpc"
)

func (a *App) pendingItems(ctx context.Context, _ []string) error {
	resp, err := a.market.ListItems(ctx, &api.ListItemsRequest{Status: "pending"})
	if err != nil {
		return err
	}
	a.table(itemHeader, itemRows(resp.Items, false))
	return nil
}

type moderateFn func(context.Context, *api.ItemIDRequest, ...grpc.CallOption) (*api.ItemResponse, error)

func (a *App) moderate(ctx context.Context, fn moderateFn, id string) error {
	resp, err := fn(ctx, &api.ItemIDRequest{ItemID: id})
	if err != nil {
		return err
	}
	a.say("Item %s is %s", resp.Item.ID, resp.Item.Status)
	return nil
}

func (a *App) approveItem(ctx context.Context, args []string) error {
	return a.moderate(ctx, a.market.ApproveItem, args[0])
}

func (a *App) rejectItem(ctx context.Context, args []string) error {
	return a.moderate(ctx, a.market.RejectItem, args[0])
}

func (a *App) unapproveItem(ctx context.Context, args []string) error {
	return a.moderate(ctx, a.market.UnapproveItem, args[0])
}

func (a *App) removeItem(ctx context.Context, args []string) error {
	if err := a.market.AdminDeleteItem(ctx, &api.ItemIDRequest{ItemID: args[0]}); err != nil {
		return err
	}
	a.say("Deleted %s", args[0])
	return nil
}

func (a *App) listUsers(ctx context.Context, _ []string) error {
	resp, err := a.market.ListUsers(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(resp.Users))
	for _, u := range resp.Users {
		rows = append(rows, []string{u.ID, u.Email, u.Name, u.Role, strconv.FormatInt(u.Points, 10)})
	}
	a.table("ID\tEMAIL\tNAME\tROLE\tPOINTS", rows)
	return nil
}

func (a *App) setRole(ctx context.Context, args []string) error {
	if err := a.market.SetUserRole(ctx, &api.SetUserRoleRequest{UserID: args[0], Role: args[1]}); err != nil {
		return err
	}
	a.say("User %s is now %s", args[0], args[1])
	return nil
}

func (a *App) adjustPoints(ctx context.Context, args []string) error {
	delta, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid delta %q", args[1])
	}

	resp, err := a.market.AdjustPoints(ctx, &api.AdjustPointsRequest{
		UserID: args[0],
		Delta:  delta,
		Reason: strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	a.say("Balance of %s is now %d", args[0], resp.Balance)
	return nil
}

func (a *App) adminRejectSwap(ctx context.Context, args []string) error {
	resp, err := a.market.AdminRejectSwap(ctx, &api.RequestIDRequest{RequestID: args[0]})
	if err != nil {
		return err
	}
	a.say("Request %s is %s", resp.Request.ID, resp.Request.Status)
	return nil
}

func (a *App) adminListSwaps(ctx context.Context, args []string) error {
	req := &api.ListSwapRequestsRequest{}
	if len(args) > 0 {
		req.Status = args[0]
	}

	resp, err := a.market.AdminListSwaps(ctx, req)
	if err != nil {
		return err
	}
	a.table(swapHeader, a.swapRows(resp.Requests))
	return nil
}
