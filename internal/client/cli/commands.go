package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errLoginRequired  = errors.New("login required")
	errAdminOnly      = errors.New("admin only")
)

type access int

const (
	anyone access = iota
	member
	admin
)

type command struct {
	usage  string
	help   string
	args   int
	access access
	run    func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {usage: "register", help: "create an account", access: anyone, run: (*App).register},
	"login":    {usage: "login", help: "sign in", access: anyone, run: (*App).login},
	"items":    {usage: "items [category] [#tag]", help: "browse approved listings", access: anyone, run: (*App).listItems},
	"item":     {usage: "item <item-id>", help: "show one listing", args: 1, access: anyone, run: (*App).showItem},

	"logout":   {usage: "logout", help: "sign out and forget the saved session", access: member, run: (*App).logout},
	"profile":  {usage: "profile", help: "show your account and points", access: member, run: (*App).profile},
	"mine":     {usage: "mine", help: "list your own items in every status", access: member, run: (*App).myItems},
	"add":      {usage: "add", help: "list a new item", access: member, run: (*App).addItem},
	"resubmit": {usage: "resubmit <item-id>", help: "send a rejected item back to moderation", args: 1, access: member, run: (*App).resubmitItem},
	"delete":   {usage: "delete <item-id>", help: "remove your item", args: 1, access: member, run: (*App).deleteItem},
	"swap":     {usage: "swap <item-id>", help: "ask the owner for a swap", args: 1, access: member, run: (*App).requestSwap},
	"redeem":   {usage: "redeem <item-id>", help: "take an item for points", args: 1, access: member, run: (*App).redeem},
	"requests": {usage: "requests", help: "swap requests you sent or received", access: member, run: (*App).listRequests},
	"accept":   {usage: "accept <request-id>", help: "accept a swap request for your item", args: 1, access: member, run: (*App).acceptSwap},
	"decline":  {usage: "decline <request-id>", help: "decline a swap request for your item", args: 1, access: member, run: (*App).declineSwap},
	"ledger":   {usage: "ledger [limit]", help: "your points history", access: member, run: (*App).ledger},

	"pending":    {usage: "pending", help: "items waiting for moderation", access: admin, run: (*App).pendingItems},
	"approve":    {usage: "approve <item-id>", help: "publish a pending item", args: 1, access: admin, run: (*App).approveItem},
	"reject":     {usage: "reject <item-id>", help: "reject a pending item", args: 1, access: admin, run: (*App).rejectItem},
	"unapprove":  {usage: "unapprove <item-id>", help: "take an approved item off the catalogue", args: 1, access: admin, run: (*App).unapproveItem},
	"remove":     {usage: "remove <item-id>", help: "delete any item", args: 1, access: admin, run: (*App).removeItem},
	"users":      {usage: "users", help: "list members", access: admin, run: (*App).listUsers},
	"role":       {usage: "role <user-id> <user|admin|banned>", help: "change a member's role", args: 2, access: admin, run: (*App).setRole},
	"adjust":     {usage: "adjust <user-id> <delta> <reason...>", help: "credit or debit points", args: 3, access: admin, run: (*App).adjustPoints},
	"rejectswap": {usage: "rejectswap <request-id>", help: "cancel a pending swap request", args: 1, access: admin, run: (*App).adminRejectSwap},
	"swaps":      {usage: "swaps [status]", help: "all swap requests", access: admin, run: (*App).adminListSwaps},
}

func (a *App) exec(ctx context.Context, name string, args []string) error {
	c, ok := commands[name]
	if !ok {
		return errUnknownCommand
	}

	switch c.access {
	case member:
		if !a.isLoggedIn() {
			return errLoginRequired
		}
	case admin:
		if !a.isAdmin() {
			return errAdminOnly
		}
	}

	if len(args) < c.args {
		return fmt.Errorf("usage: %s", c.usage)
	}
	return c.run(a, ctx, args)
}

// helpText lists the commands available at the given access level.
func helpText(loggedIn, isAdmin bool) string {
	names := make([]string, 0, len(commands))
	for name, c := range commands {
		switch {
		case c.access == member && !loggedIn:
			continue
		case c.access == admin && !isAdmin:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", commands[name].usage, commands[name].help)
	}
	fmt.Fprintf(w, "  help\tshow this list\n")
	fmt.Fprintf(w, "  exit\tleave the program\n")
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}
