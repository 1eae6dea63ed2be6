package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/rewear/internal/api"
)

func itemRows(items []*api.Item, withStatus bool) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		r := []string{it.ID, it.Title, orDash(it.Category), orDash(it.Size), orDash(it.Condition), strconv.FormatInt(it.PointsRequired, 10)}
		if withStatus {
			r = append(r, it.Status)
		}
		rows = append(rows, r)
	}
	return rows
}

const itemHeader = "ID\tTITLE\tCATEGORY\tSIZE\tCONDITION\tPOINTS"

// listItems shows the public catalogue. A "#tag" argument filters by tag,
// any other argument by category.
func (a *App) listItems(ctx context.Context, args []string) error {
	req := &api.ListItemsRequest{Status: "approved"}
	for _, arg := range args {
		if tag, ok := strings.CutPrefix(arg, "#"); ok {
			req.Tag = tag
		} else {
			req.Category = arg
		}
	}

	resp, err := a.market.ListItems(ctx, req)
	if err != nil {
		return err
	}
	a.table(itemHeader, itemRows(resp.Items, false))
	return nil
}

func (a *App) myItems(ctx context.Context, _ []string) error {
	resp, err := a.market.ListItems(ctx, &api.ListItemsRequest{OwnerID: a.currentSession().UserID})
	if err != nil {
		return err
	}
	a.table(itemHeader+"\tSTATUS", itemRows(resp.Items, true))
	return nil
}

func (a *App) showItem(ctx context.Context, args []string) error {
	resp, err := a.market.GetItem(ctx, &api.ItemIDRequest{ItemID: args[0]})
	if err != nil {
		return err
	}
	a.printItem(resp.Item)
	return nil
}

func (a *App) printItem(it *api.Item) {
	a.say("%s  [%s]", it.Title, it.Status)
	a.say("id:        %s", it.ID)
	a.say("owner:     %s", it.OwnerID)
	a.say("category:  %s", orDash(it.Category))
	a.say("type:      %s", orDash(it.Type))
	a.say("size:      %s", orDash(it.Size))
	a.say("condition: %s", orDash(it.Condition))
	a.say("points:    %d", it.PointsRequired)
	a.say("tags:      %s", orDash(strings.Join(it.Tags, ", ")))
	a.say("listed:    %s", formatTime(it.CreatedAt))
	if it.Description != "" {
		a.say("\n%s", it.Description)
	}
	for _, u := range it.ImageURLs {
		a.say("image: %s", u)
	}
}

func (a *App) addItem(ctx context.Context, _ []string) error {
	req := &api.CreateItemRequest{}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Title", &req.Title},
		{"Category (e.g. tops, shoes)", &req.Category},
		{"Type (e.g. men, women, kids)", &req.Type},
		{"Size", &req.Size},
		{"Condition (new, like new, used)", &req.Condition},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	req.Description = desc

	tags, err := getSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}
	req.Tags = parseTags(tags)

	points, err := getSimpleText(a.reader, "Points required", a.out)
	if err != nil {
		return err
	}
	if points != "" {
		req.PointsRequired, err = strconv.ParseInt(points, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid points %q", points)
		}
	}

	resp, err := a.market.CreateItem(ctx, req)
	if err != nil {
		return err
	}
	a.say("Listed %s, waiting for moderation", resp.Item.ID)
	return nil
}

func (a *App) resubmitItem(ctx context.Context, args []string) error {
	resp, err := a.market.ResubmitItem(ctx, &api.ItemIDRequest{ItemID: args[0]})
	if err != nil {
		return err
	}
	a.say("Item %s is %s", resp.Item.ID, resp.Item.Status)
	return nil
}

func (a *App) deleteItem(ctx context.Context, args []string) error {
	if err := a.market.DeleteItem(ctx, &api.ItemIDRequest{ItemID: args[0]}); err != nil {
		return err
	}
	a.say("Deleted %s", args[0])
	return nil
}
