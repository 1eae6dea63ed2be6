package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/client/config"
	"github.com/dmitrijs2005/rewear/internal/client/services"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"google.golang.org/grpc"
)

type fakeAuth struct {
	mu sync.Mutex

	resumeSess *services.Session
	resumeErr  error
	loginSess  *services.Session
	loginErr   error
	logoutErr  error
	pingErr    error

	gotEmail    string
	gotName     string
	gotPassword string
	logouts     int
	pings       int
}

func (f *fakeAuth) Register(_ context.Context, email string, password []byte, name string) (string, error) {
	f.gotEmail, f.gotName, f.gotPassword = email, name, string(password)
	return "u-1", nil
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) (*services.Session, error) {
	f.gotEmail, f.gotPassword = email, string(password)
	return f.loginSess, f.loginErr
}

func (f *fakeAuth) Resume(context.Context) (*services.Session, error) {
	return f.resumeSess, f.resumeErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	f.pingErr = err
	f.mu.Unlock()
}

// fakeMarket implements only what a test sets; other calls panic on the nil
// embedded interface.
type fakeMarket struct {
	Market

	items    []*api.Item
	item     *api.Item
	requests []*api.SwapRequest
	ledger   []*api.PointTransaction
	users    []*api.User
	err      error

	gotList    *api.ListItemsRequest
	gotCreate  *api.CreateItemRequest
	gotItemID  string
	gotRespond *api.RespondSwapRequest
	gotLedger  *api.LedgerRequest
	gotRole    *api.SetUserRoleRequest
	gotAdjust  *api.AdjustPointsRequest
	gotSwaps   *api.ListSwapRequestsRequest
	calls      []string
}

func (f *fakeMarket) record(name, id string) {
	f.calls = append(f.calls, name)
	f.gotItemID = id
}

func (f *fakeMarket) Profile(context.Context, ...grpc.CallOption) (*api.ProfileResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.ProfileResponse{User: &api.User{ID: "u-1", Name: "Ann", Email: "ann@example.com", Role: "user", Points: 40}}, nil
}

func (f *fakeMarket) ListItems(_ context.Context, in *api.ListItemsRequest, _ ...grpc.CallOption) (*api.ListItemsResponse, error) {
	f.gotList = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.ListItemsResponse{Items: f.items}, nil
}

func (f *fakeMarket) GetItem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) (*api.ItemResponse, error) {
	f.record("get", in.ItemID)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ItemResponse{Item: f.item}, nil
}

func (f *fakeMarket) CreateItem(_ context.Context, in *api.CreateItemRequest, _ ...grpc.CallOption) (*api.ItemResponse, error) {
	f.gotCreate = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.ItemResponse{Item: &api.Item{ID: "i-new", Status: "pending"}}, nil
}

func (f *fakeMarket) itemWithStatus(name, id, status string) (*api.ItemResponse, error) {
	f.record(name, id)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ItemResponse{Item: &api.Item{ID: id, Status: status}}, nil
}

func (f *fakeMarket) ResubmitItem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) (*api.ItemResponse, error) {
	return f.itemWithStatus("resubmit", in.ItemID, "pending")
}

func (f *fakeMarket) ApproveItem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) (*api.ItemResponse, error) {
	return f.itemWithStatus("approve", in.ItemID, "approved")
}

func (f *fakeMarket) RejectItem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) (*api.ItemResponse, error) {
	return f.itemWithStatus("reject", in.ItemID, "rejected")
}

func (f *fakeMarket) UnapproveItem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) (*api.ItemResponse, error) {
	return f.itemWithStatus("unapprove", in.ItemID, "pending")
}

func (f *fakeMarket) DeleteItem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) error {
	f.record("delete", in.ItemID)
	return f.err
}

func (f *fakeMarket) AdminDeleteItem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) error {
	f.record("remove", in.ItemID)
	return f.err
}

func (f *fakeMarket) RequestSwap(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) (*api.SwapRequestResponse, error) {
	f.record("swap", in.ItemID)
	if f.err != nil {
		return nil, f.err
	}
	return &api.SwapRequestResponse{Request: &api.SwapRequest{ID: "s-1", ItemID: in.ItemID, Type: "swap", Status: "pending"}}, nil
}

func (f *fakeMarket) Redeem(_ context.Context, in *api.ItemIDRequest, _ ...grpc.CallOption) (*api.RedeemResponse, error) {
	f.record("redeem", in.ItemID)
	if f.err != nil {
		return nil, f.err
	}
	return &api.RedeemResponse{Request: &api.SwapRequest{ID: "s-2", ItemID: in.ItemID, Type: "points", Status: "accepted"}, Balance: 15}, nil
}

func (f *fakeMarket) RespondSwap(_ context.Context, in *api.RespondSwapRequest, _ ...grpc.CallOption) (*api.SwapRequestResponse, error) {
	f.gotRespond = in
	if f.err != nil {
		return nil, f.err
	}
	st := "rejected"
	if in.Accept {
		st = "accepted"
	}
	return &api.SwapRequestResponse{Request: &api.SwapRequest{ID: in.RequestID, Status: st}}, nil
}

func (f *fakeMarket) ListSwapRequests(context.Context, ...grpc.CallOption) (*api.ListSwapRequestsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.ListSwapRequestsResponse{Requests: f.requests}, nil
}

func (f *fakeMarket) Ledger(_ context.Context, in *api.LedgerRequest, _ ...grpc.CallOption) (*api.LedgerResponse, error) {
	f.gotLedger = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.LedgerResponse{Transactions: f.ledger}, nil
}

func (f *fakeMarket) ListUsers(context.Context, ...grpc.CallOption) (*api.ListUsersResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.ListUsersResponse{Users: f.users}, nil
}

func (f *fakeMarket) SetUserRole(_ context.Context, in *api.SetUserRoleRequest, _ ...grpc.CallOption) error {
	f.gotRole = in
	return f.err
}

func (f *fakeMarket) AdjustPoints(_ context.Context, in *api.AdjustPointsRequest, _ ...grpc.CallOption) (*api.AdjustPointsResponse, error) {
	f.gotAdjust = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.AdjustPointsResponse{Balance: 100 + in.Delta}, nil
}

func (f *fakeMarket) AdminRejectSwap(_ context.Context, in *api.RequestIDRequest, _ ...grpc.CallOption) (*api.SwapRequestResponse, error) {
	f.record("rejectswap", in.RequestID)
	if f.err != nil {
		return nil, f.err
	}
	return &api.SwapRequestResponse{Request: &api.SwapRequest{ID: in.RequestID, Status: "rejected"}}, nil
}

func (f *fakeMarket) AdminListSwaps(_ context.Context, in *api.ListSwapRequestsRequest, _ ...grpc.CallOption) (*api.ListSwapRequestsResponse, error) {
	f.gotSwaps = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.ListSwapRequestsResponse{Requests: f.requests}, nil
}

var (
	memberSession = &services.Session{UserID: "u-1", Email: "ann@example.com", Role: "user"}
	adminSession  = &services.Session{UserID: "u-9", Email: "root@example.com", Role: "admin"}
)

func newTestApp(t *testing.T, auth *fakeAuth, market *fakeMarket, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := &config.Config{OnlineCheckInterval: time.Hour}
	return NewApp(cfg, auth, market, logging.Nop(), strings.NewReader(input), &out), &out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = fmt.Sprint(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}
