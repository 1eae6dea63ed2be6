package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/client/config"
	"github.com/dmitrijs2005/rewear/internal/client/services"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"google.golang.org/grpc"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Market is the part of the API the REPL commands call.
// *client.GRPCClient satisfies it.
type Market interface {
	Profile(ctx context.Context, opts ...grpc.CallOption) (*api.ProfileResponse, error)
	CreateItem(ctx context.Context, in *api.CreateItemRequest, opts ...grpc.CallOption) (*api.ItemResponse, error)
	GetItem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) (*api.ItemResponse, error)
	ListItems(ctx context.Context, in *api.ListItemsRequest, opts ...grpc.CallOption) (*api.ListItemsResponse, error)
	ResubmitItem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) (*api.ItemResponse, error)
	DeleteItem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) error
	RequestSwap(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) (*api.SwapRequestResponse, error)
	Redeem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) (*api.RedeemResponse, error)
	RespondSwap(ctx context.Context, in *api.RespondSwapRequest, opts ...grpc.CallOption) (*api.SwapRequestResponse, error)
	ListSwapRequests(ctx context.Context, opts ...grpc.CallOption) (*api.ListSwapRequestsResponse, error)
	Ledger(ctx context.Context, in *api.LedgerRequest, opts ...grpc.CallOption) (*api.LedgerResponse, error)
	ApproveItem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) (*api.ItemResponse, error)
	RejectItem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) (*api.ItemResponse, error)
	UnapproveItem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) (*api.ItemResponse, error)
	AdminDeleteItem(ctx context.Context, in *api.ItemIDRequest, opts ...grpc.CallOption) error
	ListUsers(ctx context.Context, opts ...grpc.CallOption) (*api.ListUsersResponse, error)
	SetUserRole(ctx context.Context, in *api.SetUserRoleRequest, opts ...grpc.CallOption) error
	AdjustPoints(ctx context.Context, in *api.AdjustPointsRequest, opts ...grpc.CallOption) (*api.AdjustPointsResponse, error)
	AdminRejectSwap(ctx context.Context, in *api.RequestIDRequest, opts ...grpc.CallOption) (*api.SwapRequestResponse, error)
	AdminListSwaps(ctx context.Context, in *api.ListSwapRequestsRequest, opts ...grpc.CallOption) (*api.ListSwapRequestsResponse, error)
}

type App struct {
	config *config.Config
	auth   services.AuthService
	market Market
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	session *services.Session
	mode    Mode
}

func NewApp(c *config.Config, auth services.AuthService, market Market, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		auth:   auth,
		market: market,
		logger: l.With("module", "cli"),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run resumes the saved session if there is one, starts the connectivity
// watcher and blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to ReWear (type 'help' for commands)")

	a.resume(ctx)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.status, a.reader)

	cancel()
	wg.Wait()
}

func (a *App) resume(ctx context.Context) {
	sess, err := a.auth.Resume(ctx)
	switch {
	case err == nil:
		a.setSession(sess)
		a.setMode(ModeOnline)
		printlnFn("Welcome back,", sess.Email)
	case errors.Is(err, services.ErrNoSession):
	default:
		a.logger.Warn(ctx, "could not resume session", "error", err)
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setSession(s *services.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

func (a *App) currentSession() *services.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) isLoggedIn() bool {
	return a.currentSession() != nil
}

func (a *App) isAdmin() bool {
	return a.currentSession().IsAdmin()
}

func (a *App) status() string {
	s := ""
	if sess := a.currentSession(); sess != nil {
		s = sess.Email + " "
	}
	s += string(a.currentMode())
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
