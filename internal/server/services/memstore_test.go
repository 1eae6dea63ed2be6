package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/dmitrijs2005/rewear/internal/server/repositories/items"
	"github.com/dmitrijs2005/rewear/internal/server/repositories/pointtransactions"
	"github.com/dmitrijs2005/rewear/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/rewear/internal/server/repositories/swaprequests"
	"github.com/dmitrijs2005/rewear/internal/server/repositories/users"
)

// memStore is an in-memory repository manager plus Transactor. Transactions
// are serialized and roll back to a snapshot on error or panic, which gives
// the same all-or-nothing behaviour the SQL store provides.
type memStore struct {
	txMu sync.Mutex

	mu    sync.Mutex
	st    *memState
	fails map[string]error
	txs   int
}

type memState struct {
	seq    int
	users  map[string]*models.User
	items  map[string]*models.Item
	swaps  map[string]*models.SwapRequest
	ledger []*models.PointTransaction
	tokens map[string]*models.RefreshToken
}

var memEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newMemStore() *memStore {
	return &memStore{
		st: &memState{
			users:  map[string]*models.User{},
			items:  map[string]*models.Item{},
			swaps:  map[string]*models.SwapRequest{},
			tokens: map[string]*models.RefreshToken{},
		},
		fails: map[string]error{},
	}
}

func (m *memStore) store() Store {
	return Store{DB: nil, Tx: m, Repos: m}
}

func (s *memState) clone() *memState {
	c := &memState{
		seq:    s.seq,
		users:  make(map[string]*models.User, len(s.users)),
		items:  make(map[string]*models.Item, len(s.items)),
		swaps:  make(map[string]*models.SwapRequest, len(s.swaps)),
		ledger: make([]*models.PointTransaction, 0, len(s.ledger)),
		tokens: make(map[string]*models.RefreshToken, len(s.tokens)),
	}
	for k, v := range s.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range s.items {
		c.items[k] = copyItem(v)
	}
	for k, v := range s.swaps {
		sr := *v
		c.swaps[k] = &sr
	}
	for _, v := range s.ledger {
		pt := *v
		c.ledger = append(c.ledger, &pt)
	}
	for k, v := range s.tokens {
		rt := *v
		c.tokens[k] = &rt
	}
	return c
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &c
}

func copyItem(it *models.Item) *models.Item {
	c := *it
	c.Tags = append([]string(nil), it.Tags...)
	c.Images = append([]string(nil), it.Images...)
	return &c
}

func (s *memState) next(prefix string) (string, time.Time) {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq), memEpoch.Add(time.Duration(s.seq) * time.Second)
}

// failOn makes the next call of op return err. op is "<repo>.<Method>".
func (m *memStore) failOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[op] = err
}

// enter locks the state and pops an injected failure for op. The caller
// must unlock m.mu.
func (m *memStore) enter(op string) error {
	m.mu.Lock()
	if err, ok := m.fails[op]; ok {
		delete(m.fails, op)
		return err
	}
	return nil
}

func (m *memStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.clone()
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.txs++
	saved := m.st.clone()
	m.mu.Unlock()

	rollback := func() {
		m.mu.Lock()
		m.st = saved
		m.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
		if err != nil {
			rollback()
		}
	}()

	return fn(ctx, nil)
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memStore) Users(dbx.DBTX) users.Repository                 { return memUsers{m} }
func (m *memStore) Items(dbx.DBTX) items.Repository                 { return memItems{m} }
func (m *memStore) SwapRequests(dbx.DBTX) swaprequests.Repository   { return memSwaps{m} }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return memTokens{m} }
func (m *memStore) PointTransactions(dbx.DBTX) pointtransactions.Repository {
	return memLedger{m}
}

// --- users ---

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	err := r.m.enter("users.Create")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, existing := range r.m.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID, u.CreatedAt = r.m.st.next("u")
	r.m.st.users[u.ID] = copyUser(u)
	return copyUser(u), nil
}

func (r memUsers) get(op, id string) (*models.User, error) {
	err := r.m.enter(op)
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	u, ok := r.m.st.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get("users.GetByID", id)
}

func (r memUsers) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.get("users.GetForUpdate", id)
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	err := r.m.enter("users.GetByEmail")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, u := range r.m.st.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) AdjustPoints(ctx context.Context, id string, delta int64) (int64, error) {
	err := r.m.enter("users.AdjustPoints")
	defer r.m.mu.Unlock()
	if err != nil {
		return 0, err
	}

	u, ok := r.m.st.users[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	if u.Points+delta < 0 {
		return 0, common.ErrInsufficientPoints
	}
	u.Points += delta
	return u.Points, nil
}

func (r memUsers) SetRole(ctx context.Context, id string, role models.Role) error {
	err := r.m.enter("users.SetRole")
	defer r.m.mu.Unlock()
	if err != nil {
		return err
	}

	u, ok := r.m.st.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	return nil
}

func (r memUsers) BumpSessionEpoch(ctx context.Context, id string) (int64, error) {
	err := r.m.enter("users.BumpSessionEpoch")
	defer r.m.mu.Unlock()
	if err != nil {
		return 0, err
	}

	u, ok := r.m.st.users[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.SessionEpoch++
	return u.SessionEpoch, nil
}

func (r memUsers) List(ctx context.Context) ([]*models.User, error) {
	err := r.m.enter("users.List")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]*models.User, 0, len(r.m.st.users))
	for _, u := range r.m.st.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- items ---

type memItems struct{ m *memStore }

func (r memItems) Create(ctx context.Context, it *models.Item) (*models.Item, error) {
	err := r.m.enter("items.Create")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	it.ID, it.CreatedAt = r.m.st.next("i")
	it.Status = models.ItemPending
	r.m.st.items[it.ID] = copyItem(it)
	return copyItem(it), nil
}

func (r memItems) get(op, id string) (*models.Item, error) {
	err := r.m.enter(op)
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	it, ok := r.m.st.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyItem(it), nil
}

func (r memItems) Get(ctx context.Context, id string) (*models.Item, error) {
	return r.get("items.Get", id)
}

func (r memItems) GetForUpdate(ctx context.Context, id string) (*models.Item, error) {
	return r.get("items.GetForUpdate", id)
}

func (r memItems) List(ctx context.Context, f models.ItemFilter) ([]*models.Item, error) {
	err := r.m.enter("items.List")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []*models.Item
	for _, it := range r.m.st.items {
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.OwnerID != "" && it.OwnerID != f.OwnerID {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Tag != "" && !contains(it.Tags, f.Tag) {
			continue
		}
		out = append(out, copyItem(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (r memItems) TransitionStatus(ctx context.Context, id string, from, to models.ItemStatus) error {
	err := r.m.enter("items.TransitionStatus")
	defer r.m.mu.Unlock()
	if err != nil {
		return err
	}

	it, ok := r.m.st.items[id]
	if !ok || it.Status != from {
		return common.ErrVersionConflict
	}
	it.Status = to
	return nil
}

func (r memItems) Delete(ctx context.Context, id string) error {
	err := r.m.enter("items.Delete")
	defer r.m.mu.Unlock()
	if err != nil {
		return err
	}

	if _, ok := r.m.st.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.st.items, id)
	return nil
}

// --- swap requests ---

type memSwaps struct{ m *memStore }

func (r memSwaps) Create(ctx context.Context, req *models.SwapRequest) (*models.SwapRequest, error) {
	err := r.m.enter("swaps.Create")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, sr := range r.m.st.swaps {
		if sr.ItemID != req.ItemID {
			continue
		}
		if req.Status == models.SwapAccepted && sr.Status == models.SwapAccepted {
			return nil, common.ErrItemUnavailable
		}
		if req.Type == models.SwapTypeSwap && req.Status == models.SwapPending &&
			sr.Type == models.SwapTypeSwap && sr.Status == models.SwapPending && sr.RequesterID == req.RequesterID {
			return nil, common.ErrAlreadyRequested
		}
	}

	req.ID, req.CreatedAt = r.m.st.next("s")
	req.UpdatedAt = req.CreatedAt
	c := *req
	r.m.st.swaps[req.ID] = &c
	out := *req
	return &out, nil
}

func (r memSwaps) get(op, id string) (*models.SwapRequest, error) {
	err := r.m.enter(op)
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sr, ok := r.m.st.swaps[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *sr
	return &out, nil
}

func (r memSwaps) Get(ctx context.Context, id string) (*models.SwapRequest, error) {
	return r.get("swaps.Get", id)
}

func (r memSwaps) GetForUpdate(ctx context.Context, id string) (*models.SwapRequest, error) {
	return r.get("swaps.GetForUpdate", id)
}

func (r memSwaps) List(ctx context.Context, f models.SwapRequestFilter) ([]*models.SwapRequest, error) {
	err := r.m.enter("swaps.List")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []*models.SwapRequest
	for _, sr := range r.m.st.swaps {
		if f.ParticipantID != "" && sr.RequesterID != f.ParticipantID && sr.OwnerID != f.ParticipantID {
			continue
		}
		if f.ItemID != "" && sr.ItemID != f.ItemID {
			continue
		}
		if f.RequesterID != "" && sr.RequesterID != f.RequesterID {
			continue
		}
		if f.Status != "" && sr.Status != f.Status {
			continue
		}
		c := *sr
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memSwaps) SetStatus(ctx context.Context, id string, from, to models.SwapStatus) error {
	err := r.m.enter("swaps.SetStatus")
	defer r.m.mu.Unlock()
	if err != nil {
		return err
	}

	sr, ok := r.m.st.swaps[id]
	if !ok || sr.Status != from {
		return common.ErrVersionConflict
	}
	if to == models.SwapAccepted {
		for _, other := range r.m.st.swaps {
			if other.ItemID == sr.ItemID && other.Status == models.SwapAccepted {
				return common.ErrItemUnavailable
			}
		}
	}
	sr.Status = to
	return nil
}

func (r memSwaps) RejectPending(ctx context.Context, itemID, exceptID string) (int64, error) {
	err := r.m.enter("swaps.RejectPending")
	defer r.m.mu.Unlock()
	if err != nil {
		return 0, err
	}

	var n int64
	for _, sr := range r.m.st.swaps {
		if sr.ItemID == itemID && sr.Status == models.SwapPending && sr.ID != exceptID {
			sr.Status = models.SwapRejected
			n++
		}
	}
	return n, nil
}

// --- ledger ---

type memLedger struct{ m *memStore }

func (r memLedger) Append(ctx context.Context, pt *models.PointTransaction) (*models.PointTransaction, error) {
	err := r.m.enter("ledger.Append")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	pt.ID, pt.CreatedAt = r.m.st.next("p")
	c := *pt
	r.m.st.ledger = append(r.m.st.ledger, &c)
	out := *pt
	return &out, nil
}

func (r memLedger) ListByUser(ctx context.Context, userID string, limit int) ([]*models.PointTransaction, error) {
	err := r.m.enter("ledger.ListByUser")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []*models.PointTransaction
	for i := len(r.m.st.ledger) - 1; i >= 0; i-- {
		pt := r.m.st.ledger[i]
		if pt.UserID != userID {
			continue
		}
		c := *pt
		out = append(out, &c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- refresh tokens ---

type memTokens struct{ m *memStore }

func (r memTokens) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	err := r.m.enter("tokens.Create")
	defer r.m.mu.Unlock()
	if err != nil {
		return err
	}

	id, now := r.m.st.next("rt")
	r.m.st.tokens[token] = &models.RefreshToken{ID: id, UserID: userID, Token: token, Expires: time.Now().Add(validity), CreatedAt: now}
	return nil
}

func (r memTokens) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	err := r.m.enter("tokens.Consume")
	defer r.m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rt, ok := r.m.st.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.m.st.tokens, token)
	out := *rt
	return &out, nil
}

func (r memTokens) DeleteByUser(ctx context.Context, userID string) error {
	err := r.m.enter("tokens.DeleteByUser")
	defer r.m.mu.Unlock()
	if err != nil {
		return err
	}

	for k, rt := range r.m.st.tokens {
		if rt.UserID == userID {
			delete(r.m.st.tokens, k)
		}
	}
	return nil
}

// --- images ---

type fakeImages struct {
	mu         sync.Mutex
	deleted    []string
	deleteErr  error
	presignErr error
}

func (f *fakeImages) PresignGet(ctx context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://img.test/" + key + "?sig=1", nil
}

func (f *fakeImages) Delete(ctx context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, keys...)
	return nil
}

func (m *memStore) seedUser(points int64, role models.Role) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := &models.User{Role: role, Points: points}
	u.ID, u.CreatedAt = m.st.next("u")
	u.Email = u.ID + "@example.com"
	u.Name = u.ID
	m.st.users[u.ID] = copyUser(u)
	return u
}

func (m *memStore) seedItem(ownerID string, price int64, status models.ItemStatus) *models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := &models.Item{Title: "Wool coat", OwnerID: ownerID, PointsRequired: price, Status: status, Images: []string{"items/coat.jpg"}}
	it.ID, it.CreatedAt = m.st.next("i")
	m.st.items[it.ID] = copyItem(it)
	return it
}

func (m *memStore) user(id string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyUser(m.st.users[id])
}

func (m *memStore) item(id string) *models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.st.items[id]
	if !ok {
		return nil
	}
	return copyItem(it)
}

func (m *memStore) swapsFor(itemID string) []models.SwapRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SwapRequest
	for _, sr := range m.st.swaps {
		if sr.ItemID == itemID {
			out = append(out, *sr)
		}
	}
	return out
}

func (m *memStore) ledgerFor(userID string) []models.PointTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PointTransaction
	for _, pt := range m.st.ledger {
		if pt.UserID == userID {
			out = append(out, *pt)
		}
	}
	return out
}

func sessionOf(u *models.User) *auth.Session {
	return &auth.Session{UserID: u.ID, Role: u.Role}
}
