//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/adapter"
	"food-spot-backend/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// =============================
// Repositories
// =============================

// MockUserRepo is a small in-memory implementation used by unit tests.
// Individual methods can be overridden via the *Func fields.
type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User

	SaveFunc         func(ctx context.Context, tx repository.Tx, u *model.User) error
	GrantPremiumFunc func(ctx context.Context, tx repository.Tx, userID string, expiry time.Time) error
	RevokeExpiredFunc func(ctx context.Context, tx repository.Tx) (int, error)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) List(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) ([]*model.User, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.User
	for _, u := range m.store {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsPremium != nil && u.IsPremium != *filter.IsPremium {
			continue
		}
		if filter.IsBlocked != nil && u.IsBlocked != *filter.IsBlocked {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *MockUserRepo) GrantPremium(ctx context.Context, tx repository.Tx, userID string, expiry time.Time) error {
	if m.GrantPremiumFunc != nil {
		return m.GrantPremiumFunc(ctx, tx, userID, expiry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsPremium = true
	u.SubscriptionExpiryDate = &expiry
	if u.Role != model.RoleAdmin {
		u.Role = model.RolePremium
	}
	return nil
}

func (m *MockUserRepo) SetPremium(ctx context.Context, tx repository.Tx, userID string, isPremium bool, expiry *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsPremium = isPremium
	u.SubscriptionExpiryDate = expiry
	switch {
	case isPremium && u.Role != model.RoleAdmin:
		u.Role = model.RolePremium
	case !isPremium && u.Role == model.RolePremium:
		u.Role = model.RoleUser
	}
	return nil
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) RevokeExpired(ctx context.Context, tx repository.Tx) (int, error) {
	if m.RevokeExpiredFunc != nil {
		return m.RevokeExpiredFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	n := 0
	for _, u := range m.store {
		if u.IsPremium && u.SubscriptionExpiryDate != nil && u.SubscriptionExpiryDate.Before(now) {
			u.IsPremium = false
			u.SubscriptionExpiryDate = nil
			if u.Role == model.RolePremium {
				u.Role = model.RoleUser
			}
			n++
		}
	}
	return n, nil
}

// MockPaymentRepo keeps the ledger in memory. MarkTerminal is implemented
// with the same conditional-update semantics as the Postgres repo, so the
// concurrency tests exercise the real exactly-once behavior.
type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment // keyed by transaction ID

	SaveFunc                          func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	MarkTerminalFunc                  func(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error)
	ListSuccessWithoutEntitlementFunc func(ctx context.Context, tx repository.Tx, limit int) ([]*model.Payment, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.Payment)}
}

func clonePayment(p *model.Payment) *model.Payment {
	cp := *p
	cp.GatewayData = make(map[string]interface{}, len(p.GatewayData))
	for k, v := range p.GatewayData {
		cp.GatewayData[k] = v
	}
	return &cp
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[p.TransactionID] = clonePayment(p)
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.ID == id {
			return clonePayment(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePayment(p), nil
}

func (m *MockPaymentRepo) List(ctx context.Context, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.store {
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, clonePayment(p))
	}
	return out, len(out), nil
}

func (m *MockPaymentRepo) AttachGatewayData(ctx context.Context, tx repository.Tx, paymentID string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.ID == paymentID {
			for k, v := range data {
				p.GatewayData[k] = v
			}
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockPaymentRepo) MarkTerminal(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error) {
	if m.MarkTerminalFunc != nil {
		return m.MarkTerminalFunc(ctx, tx, transactionID, status, extra)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return nil, domain.ErrInvalidTransition
	}
	p.Status = status
	for k, v := range extra {
		p.GatewayData[k] = v
	}
	if status == model.PaymentStatusSuccess {
		now := time.Now()
		p.PaidAt = &now
	}
	p.UpdatedAt = time.Now()
	return clonePayment(p), nil
}

func (m *MockPaymentRepo) ListSuccessWithoutEntitlement(ctx context.Context, tx repository.Tx, limit int) ([]*model.Payment, error) {
	if m.ListSuccessWithoutEntitlementFunc != nil {
		return m.ListSuccessWithoutEntitlementFunc(ctx, tx, limit)
	}
	return nil, nil
}

func (m *MockPaymentRepo) ListPendingWithValidationToken(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status != model.PaymentStatusPending {
			continue
		}
		if _, ok := p.GatewayData["val_id"]; !ok {
			continue
		}
		if !p.UpdatedAt.Before(olderThan) {
			continue
		}
		out = append(out, clonePayment(p))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// MockFoodSpotRepo is an in-memory spot store.
type MockFoodSpotRepo struct {
	mu    sync.RWMutex
	store map[string]*model.FoodSpot

	SaveFunc func(ctx context.Context, tx repository.Tx, f *model.FoodSpot) error
}

var _ repository.FoodSpotRepository = (*MockFoodSpotRepo)(nil)

func NewMockFoodSpotRepo() *MockFoodSpotRepo {
	return &MockFoodSpotRepo{store: make(map[string]*model.FoodSpot)}
}

func (m *MockFoodSpotRepo) Save(ctx context.Context, tx repository.Tx, f *model.FoodSpot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.store[f.ID] = &cp
	return nil
}

func (m *MockFoodSpotRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.FoodSpot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MockFoodSpotRepo) List(ctx context.Context, filter repository.FoodSpotFilter, page repository.PageRequest) ([]*model.FoodSpot, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.FoodSpot
	for _, f := range m.store {
		if filter.ApprovalStatus != "" && f.ApprovalStatus != filter.ApprovalStatus {
			continue
		}
		if !filter.PremiumVisible && f.IsPremiumOnly {
			continue
		}
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *MockFoodSpotRepo) UpdateApproval(ctx context.Context, tx repository.Tx, id string, status model.ApprovalStatus, adminComment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.ApprovalStatus = status
	f.AdminComment = adminComment
	return nil
}

func (m *MockFoodSpotRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// MockReviewRepo is an in-memory review store.
type MockReviewRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Review
}

var _ repository.ReviewRepository = (*MockReviewRepo)(nil)

func NewMockReviewRepo() *MockReviewRepo {
	return &MockReviewRepo{store: make(map[string]*model.Review)}
}

func (m *MockReviewRepo) Save(ctx context.Context, tx repository.Tx, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.store[r.ID] = &cp
	return nil
}

func (m *MockReviewRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockReviewRepo) FindByUserAndSpot(ctx context.Context, tx repository.Tx, userID, foodSpotID string) (*model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.store {
		if r.UserID == userID && r.FoodSpotID == foodSpotID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockReviewRepo) ListForSpot(ctx context.Context, foodSpotID string, page repository.PageRequest) ([]*model.Review, int, error) {
	all, _ := m.ListAllForSpot(ctx, nil, foodSpotID)
	return all, len(all), nil
}

func (m *MockReviewRepo) ListAllForSpot(ctx context.Context, tx repository.Tx, foodSpotID string) ([]*model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Review
	for _, r := range m.store {
		if r.FoodSpotID == foodSpotID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockReviewRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// MockVoteRepo is an in-memory vote store keyed by (user, spot).
type MockVoteRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Vote
}

var _ repository.VoteRepository = (*MockVoteRepo)(nil)

func NewMockVoteRepo() *MockVoteRepo {
	return &MockVoteRepo{store: make(map[string]*model.Vote)}
}

func voteKey(userID, foodSpotID string) string { return userID + "|" + foodSpotID }

func (m *MockVoteRepo) Upsert(ctx context.Context, tx repository.Tx, v *model.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.store[voteKey(v.UserID, v.FoodSpotID)] = &cp
	return nil
}

func (m *MockVoteRepo) FindByUserAndSpot(ctx context.Context, tx repository.Tx, userID, foodSpotID string) (*model.Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[voteKey(userID, foodSpotID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *MockVoteRepo) Delete(ctx context.Context, tx repository.Tx, userID, foodSpotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, voteKey(userID, foodSpotID))
	return nil
}

func (m *MockVoteRepo) TallyForSpot(ctx context.Context, tx repository.Tx, foodSpotID string) (model.VoteTally, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var t model.VoteTally
	for _, v := range m.store {
		if v.FoodSpotID != foodSpotID {
			continue
		}
		if v.Type == model.VoteUp {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
	}
	return t, nil
}

// MockRatingCache is an in-memory rating cache with call counters.
type MockRatingCache struct {
	mu    sync.Mutex
	store map[string]model.RatingStats

	Gets        int
	Sets        int
	Invalidates int
}

var _ repository.RatingCache = (*MockRatingCache)(nil)

func NewMockRatingCache() *MockRatingCache {
	return &MockRatingCache{store: make(map[string]model.RatingStats)}
}

func (m *MockRatingCache) GetRating(ctx context.Context, foodSpotID string) (*model.RatingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	s, ok := m.store[foodSpotID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *MockRatingCache) SetRating(ctx context.Context, foodSpotID string, stats model.RatingStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.store[foodSpotID] = stats
	return nil
}

func (m *MockRatingCache) Invalidate(ctx context.Context, foodSpotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidates++
	delete(m.store, foodSpotID)
	return nil
}

// =============================
// Adapters
// =============================

// MockPaymentGateway simulates the hosted checkout provider.
type MockPaymentGateway struct {
	mu sync.Mutex

	CreateSessionFunc       func(ctx context.Context, req adapter.CreateSessionRequest) (*adapter.Session, error)
	ValidateTransactionFunc func(ctx context.Context, validationToken string) (*adapter.ValidationResult, error)

	Calls struct {
		CreateSession int
		Validate      int
	}
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateSession(ctx context.Context, req adapter.CreateSessionRequest) (*adapter.Session, error) {
	m.mu.Lock()
	m.Calls.CreateSession++
	m.mu.Unlock()
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, req)
	}
	return &adapter.Session{
		RedirectURL: "https://gateway.test/pay/" + req.TransactionID,
		Raw:         map[string]interface{}{"status": "SUCCESS", "sessionkey": "sess-" + req.TransactionID},
	}, nil
}

func (m *MockPaymentGateway) ValidateTransaction(ctx context.Context, validationToken string) (*adapter.ValidationResult, error) {
	m.mu.Lock()
	m.Calls.Validate++
	m.mu.Unlock()
	if m.ValidateTransactionFunc != nil {
		return m.ValidateTransactionFunc(ctx, validationToken)
	}
	return &adapter.ValidationResult{Valid: true, Raw: map[string]interface{}{"status": "VALID"}}, nil
}

// MockTxManager runs the transactional closure without a real transaction.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}
