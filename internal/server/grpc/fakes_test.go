package grpc

import (
	"context"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/dmitrijs2005/rewear/internal/server/services"
)

type fakeUsers struct {
	sessions map[string]*auth.Session

	registered *models.User
	tokens     *services.TokenPair
	profile    *models.User
	err        error

	gotEmail, gotPassword, gotName string
	gotRefresh                     string
	gotSession                     *auth.Session
}

func (f *fakeUsers) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	f.gotEmail, f.gotPassword, f.gotName = email, password, name
	return f.registered, f.err
}

func (f *fakeUsers) SignIn(ctx context.Context, email, password string) (*services.TokenPair, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.tokens, f.err
}

func (f *fakeUsers) Authenticate(ctx context.Context, accessToken string) (*auth.Session, error) {
	if s, ok := f.sessions[accessToken]; ok {
		return s, nil
	}
	return nil, common.ErrNotAuthenticated
}

func (f *fakeUsers) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.gotRefresh = refreshToken
	return f.tokens, f.err
}

func (f *fakeUsers) SignOut(ctx context.Context, sess *auth.Session) error {
	f.gotSession = sess
	return f.err
}

func (f *fakeUsers) Profile(ctx context.Context, sess *auth.Session) (*models.User, error) {
	f.gotSession = sess
	return f.profile, f.err
}

type fakeItems struct {
	item  *models.Item
	view  *services.ItemView
	list  []*models.Item
	err   error
	draft services.ItemDraft

	gotSession *auth.Session
	gotID      string
	gotFilter  models.ItemFilter
}

func (f *fakeItems) CreateItem(ctx context.Context, sess *auth.Session, draft services.ItemDraft) (*models.Item, error) {
	f.gotSession, f.draft = sess, draft
	return f.item, f.err
}

func (f *fakeItems) GetItem(ctx context.Context, sess *auth.Session, id string) (*services.ItemView, error) {
	f.gotSession, f.gotID = sess, id
	return f.view, f.err
}

func (f *fakeItems) ListItems(ctx context.Context, sess *auth.Session, filter models.ItemFilter) ([]*models.Item, error) {
	f.gotSession, f.gotFilter = sess, filter
	return f.list, f.err
}

func (f *fakeItems) ResubmitItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	f.gotSession, f.gotID = sess, id
	return f.item, f.err
}

func (f *fakeItems) DeleteOwnItem(ctx context.Context, sess *auth.Session, id string) error {
	f.gotSession, f.gotID = sess, id
	return f.err
}

type fakeExchange struct {
	request *models.SwapRequest
	redeem  *services.RedeemResult
	list    []*models.SwapRequest
	ledger  []*models.PointTransaction
	err     error

	gotSession *auth.Session
	gotID      string
	gotAccept  bool
	gotLimit   int
}

func (f *fakeExchange) RequestSwap(ctx context.Context, sess *auth.Session, itemID string) (*models.SwapRequest, error) {
	f.gotSession, f.gotID = sess, itemID
	return f.request, f.err
}

func (f *fakeExchange) Redeem(ctx context.Context, sess *auth.Session, itemID string) (*services.RedeemResult, error) {
	f.gotSession, f.gotID = sess, itemID
	return f.redeem, f.err
}

func (f *fakeExchange) RespondSwap(ctx context.Context, sess *auth.Session, requestID string, accept bool) (*models.SwapRequest, error) {
	f.gotSession, f.gotID, f.gotAccept = sess, requestID, accept
	return f.request, f.err
}

func (f *fakeExchange) ListSwapRequests(ctx context.Context, sess *auth.Session) ([]*models.SwapRequest, error) {
	f.gotSession = sess
	return f.list, f.err
}

func (f *fakeExchange) Ledger(ctx context.Context, sess *auth.Session, limit int) ([]*models.PointTransaction, error) {
	f.gotSession, f.gotLimit = sess, limit
	return f.ledger, f.err
}

type fakeModeration struct {
	item    *models.Item
	users   []*models.User
	request *models.SwapRequest
	list    []*models.SwapRequest
	balance int64
	err     error

	gotSession *auth.Session
	gotID      string
	gotRole    models.Role
	gotDelta   int64
	gotReason  string
	gotStatus  models.SwapStatus
}

func (f *fakeModeration) ApproveItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	f.gotSession, f.gotID = sess, id
	return f.item, f.err
}

func (f *fakeModeration) RejectItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	f.gotSession, f.gotID = sess, id
	return f.item, f.err
}

func (f *fakeModeration) UnapproveItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	f.gotSession, f.gotID = sess, id
	return f.item, f.err
}

func (f *fakeModeration) DeleteItem(ctx context.Context, sess *auth.Session, id string) error {
	f.gotSession, f.gotID = sess, id
	return f.err
}

func (f *fakeModeration) ListUsers(ctx context.Context, sess *auth.Session) ([]*models.User, error) {
	f.gotSession = sess
	return f.users, f.err
}

func (f *fakeModeration) SetUserRole(ctx context.Context, sess *auth.Session, userID string, role models.Role) error {
	f.gotSession, f.gotID, f.gotRole = sess, userID, role
	return f.err
}

func (f *fakeModeration) AdjustPoints(ctx context.Context, sess *auth.Session, userID string, delta int64, reason string) (int64, error) {
	f.gotSession, f.gotID, f.gotDelta, f.gotReason = sess, userID, delta, reason
	return f.balance, f.err
}

func (f *fakeModeration) RejectSwapRequest(ctx context.Context, sess *auth.Session, requestID string) (*models.SwapRequest, error) {
	f.gotSession, f.gotID = sess, requestID
	return f.request, f.err
}

func (f *fakeModeration) ListSwapRequests(ctx context.Context, sess *auth.Session, status models.SwapStatus) ([]*models.SwapRequest, error) {
	f.gotSession, f.gotStatus = sess, status
	return f.list, f.err
}
