//go:build !integration

package web_test

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
	"food-spot-backend/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// The HTTP tests drive the real router with stubbed usecases. Each stub
// returns empty data unless the corresponding Func field is set.

type MockAuthUC struct {
	RegisterFunc   func(ctx context.Context, name, email, password string) (*model.User, error)
	LoginFunc      func(ctx context.Context, email, password string) (string, *model.User, error)
	ParseTokenFunc func(tokenString string) (*usecase.Claims, error)
}

var _ usecase.AuthUseCase = (*MockAuthUC)(nil)

func (m *MockAuthUC) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return nil, domain.ErrOperationFailed
}

func (m *MockAuthUC) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", nil, domain.ErrInvalidCredentials
}

func (m *MockAuthUC) ParseToken(tokenString string) (*usecase.Claims, error) {
	if m.ParseTokenFunc != nil {
		return m.ParseTokenFunc(tokenString)
	}
	return nil, domain.ErrInvalidCredentials
}

type MockUserUC struct {
	GetFunc        func(ctx context.Context, id string) (*model.User, error)
	ListFunc       func(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) ([]*model.User, usecase.PageMeta, error)
	UpdateFunc     func(ctx context.Context, id string, name *string, role *model.UserRole, isBlocked *bool) (*model.User, error)
	SetPremiumFunc func(ctx context.Context, id string, isPremium bool, durationDays int) (*model.User, error)
}

var _ usecase.UserUseCase = (*MockUserUC)(nil)

func (m *MockUserUC) Get(ctx context.Context, id string) (*model.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserUC) List(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) ([]*model.User, usecase.PageMeta, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page)
	}
	return nil, usecase.PageMeta{}, nil
}

func (m *MockUserUC) Update(ctx context.Context, id string, name *string, role *model.UserRole, isBlocked *bool) (*model.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, name, role, isBlocked)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserUC) SetPremium(ctx context.Context, id string, isPremium bool, durationDays int) (*model.User, error) {
	if m.SetPremiumFunc != nil {
		return m.SetPremiumFunc(ctx, id, isPremium, durationDays)
	}
	return nil, domain.ErrNotFound
}

type MockFoodSpotUC struct {
	SubmitFunc      func(ctx context.Context, creatorID string, in usecase.FoodSpotInput) (*model.FoodSpot, error)
	GetFunc         func(ctx context.Context, id string, viewer *model.User) (*usecase.FoodSpotDetail, error)
	ListFunc        func(ctx context.Context, viewer *model.User, filter repository.FoodSpotFilter, page repository.PageRequest) ([]*usecase.FoodSpotListed, usecase.PageMeta, error)
	ListPendingFunc func(ctx context.Context, page repository.PageRequest) ([]*model.FoodSpot, usecase.PageMeta, error)
	UpdateFunc      func(ctx context.Context, actor *model.User, id string, in usecase.FoodSpotInput) (*model.FoodSpot, error)
	SetApprovalFunc func(ctx context.Context, id string, status model.ApprovalStatus, adminComment string) (*model.FoodSpot, error)
	DeleteFunc      func(ctx context.Context, actor *model.User, id string) error
}

var _ usecase.FoodSpotUseCase = (*MockFoodSpotUC)(nil)

func (m *MockFoodSpotUC) Submit(ctx context.Context, creatorID string, in usecase.FoodSpotInput) (*model.FoodSpot, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, creatorID, in)
	}
	return nil, domain.ErrOperationFailed
}

func (m *MockFoodSpotUC) Get(ctx context.Context, id string, viewer *model.User) (*usecase.FoodSpotDetail, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, viewer)
	}
	return nil, domain.ErrNotFound
}

func (m *MockFoodSpotUC) List(ctx context.Context, viewer *model.User, filter repository.FoodSpotFilter, page repository.PageRequest) ([]*usecase.FoodSpotListed, usecase.PageMeta, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, viewer, filter, page)
	}
	return nil, usecase.PageMeta{}, nil
}

func (m *MockFoodSpotUC) ListPending(ctx context.Context, page repository.PageRequest) ([]*model.FoodSpot, usecase.PageMeta, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, page)
	}
	return nil, usecase.PageMeta{}, nil
}

func (m *MockFoodSpotUC) Update(ctx context.Context, actor *model.User, id string, in usecase.FoodSpotInput) (*model.FoodSpot, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actor, id, in)
	}
	return nil, domain.ErrNotFound
}

func (m *MockFoodSpotUC) SetApproval(ctx context.Context, id string, status model.ApprovalStatus, adminComment string) (*model.FoodSpot, error) {
	if m.SetApprovalFunc != nil {
		return m.SetApprovalFunc(ctx, id, status, adminComment)
	}
	return nil, domain.ErrNotFound
}

func (m *MockFoodSpotUC) Delete(ctx context.Context, actor *model.User, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return domain.ErrNotFound
}

type MockReviewUC struct {
	CreateFunc      func(ctx context.Context, userID, foodSpotID string, rating int, comment string) (*model.Review, error)
	ListForSpotFunc func(ctx context.Context, foodSpotID string, page repository.PageRequest) ([]*model.Review, usecase.PageMeta, error)
	UpdateFunc      func(ctx context.Context, actor *model.User, reviewID string, rating int, comment string) (*model.Review, error)
	DeleteFunc      func(ctx context.Context, actor *model.User, reviewID string) error
}

var _ usecase.ReviewUseCase = (*MockReviewUC)(nil)

func (m *MockReviewUC) Create(ctx context.Context, userID, foodSpotID string, rating int, comment string) (*model.Review, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, foodSpotID, rating, comment)
	}
	return nil, domain.ErrNotFound
}

func (m *MockReviewUC) ListForSpot(ctx context.Context, foodSpotID string, page repository.PageRequest) ([]*model.Review, usecase.PageMeta, error) {
	if m.ListForSpotFunc != nil {
		return m.ListForSpotFunc(ctx, foodSpotID, page)
	}
	return nil, usecase.PageMeta{}, nil
}

func (m *MockReviewUC) Update(ctx context.Context, actor *model.User, reviewID string, rating int, comment string) (*model.Review, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actor, reviewID, rating, comment)
	}
	return nil, domain.ErrNotFound
}

func (m *MockReviewUC) Delete(ctx context.Context, actor *model.User, reviewID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, reviewID)
	}
	return domain.ErrNotFound
}

type MockVoteUC struct {
	CastFunc    func(ctx context.Context, userID, foodSpotID string, t model.VoteType) (model.VoteTally, error)
	RetractFunc func(ctx context.Context, userID, foodSpotID string) (model.VoteTally, error)
	TallyFunc   func(ctx context.Context, foodSpotID string) (model.VoteTally, error)
}

var _ usecase.VoteUseCase = (*MockVoteUC)(nil)

func (m *MockVoteUC) Cast(ctx context.Context, userID, foodSpotID string, t model.VoteType) (model.VoteTally, error) {
	if m.CastFunc != nil {
		return m.CastFunc(ctx, userID, foodSpotID, t)
	}
	return model.VoteTally{}, nil
}

func (m *MockVoteUC) Retract(ctx context.Context, userID, foodSpotID string) (model.VoteTally, error) {
	if m.RetractFunc != nil {
		return m.RetractFunc(ctx, userID, foodSpotID)
	}
	return model.VoteTally{}, nil
}

func (m *MockVoteUC) Tally(ctx context.Context, foodSpotID string) (model.VoteTally, error) {
	if m.TallyFunc != nil {
		return m.TallyFunc(ctx, foodSpotID)
	}
	return model.VoteTally{}, nil
}

type MockSubscriptionUC struct {
	PlansFunc                 func(ctx context.Context) []model.SubscriptionPlan
	PlanByIDFunc              func(ctx context.Context, planID string) (*model.SubscriptionPlan, error)
	InitiateFunc              func(ctx context.Context, userID, planID string) (*model.Payment, string, error)
	VerifyFunc                func(ctx context.Context, transactionID, validationToken string) (*model.Payment, error)
	CancelFunc                func(ctx context.Context, transactionID string) (*model.Payment, error)
	FailFunc                  func(ctx context.Context, transactionID string) (*model.Payment, error)
	SweepExpiredFunc          func(ctx context.Context) (int, error)
	ReconcileEntitlementsFunc func(ctx context.Context) (int, error)
}

var _ usecase.SubscriptionUseCase = (*MockSubscriptionUC)(nil)

func (m *MockSubscriptionUC) Plans(ctx context.Context) []model.SubscriptionPlan {
	if m.PlansFunc != nil {
		return m.PlansFunc(ctx)
	}
	return model.SubscriptionPlans
}

func (m *MockSubscriptionUC) PlanByID(ctx context.Context, planID string) (*model.SubscriptionPlan, error) {
	if m.PlanByIDFunc != nil {
		return m.PlanByIDFunc(ctx, planID)
	}
	return model.PlanByID(planID)
}

func (m *MockSubscriptionUC) Initiate(ctx context.Context, userID, planID string) (*model.Payment, string, error) {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, userID, planID)
	}
	return nil, "", domain.ErrOperationFailed
}

func (m *MockSubscriptionUC) Verify(ctx context.Context, transactionID, validationToken string) (*model.Payment, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, transactionID, validationToken)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionUC) Cancel(ctx context.Context, transactionID string) (*model.Payment, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionUC) Fail(ctx context.Context, transactionID string) (*model.Payment, error) {
	if m.FailFunc != nil {
		return m.FailFunc(ctx, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionUC) SweepExpired(ctx context.Context) (int, error) {
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx)
	}
	return 0, nil
}

func (m *MockSubscriptionUC) ReconcileEntitlements(ctx context.Context) (int, error) {
	if m.ReconcileEntitlementsFunc != nil {
		return m.ReconcileEntitlementsFunc(ctx)
	}
	return 0, nil
}

type MockPaymentUC struct {
	CreateFunc                        func(ctx context.Context, userID string, plan *model.SubscriptionPlan) (*model.Payment, error)
	AttachGatewaySessionFunc          func(ctx context.Context, paymentID string, raw map[string]interface{}) error
	MarkTerminalFunc                  func(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error)
	FindByTransactionIDFunc           func(ctx context.Context, transactionID string) (*model.Payment, error)
	FindByIDFunc                      func(ctx context.Context, id string) (*model.Payment, error)
	ListForUserFunc                   func(ctx context.Context, userID string, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, usecase.PageMeta, error)
	ListAllFunc                       func(ctx context.Context, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, usecase.PageMeta, error)
	ListSuccessWithoutEntitlementFunc func(ctx context.Context, limit int) ([]*model.Payment, error)
}

var _ usecase.PaymentUseCase = (*MockPaymentUC)(nil)

func (m *MockPaymentUC) Create(ctx context.Context, userID string, plan *model.SubscriptionPlan) (*model.Payment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, plan)
	}
	return nil, domain.ErrOperationFailed
}

func (m *MockPaymentUC) AttachGatewaySession(ctx context.Context, paymentID string, raw map[string]interface{}) error {
	if m.AttachGatewaySessionFunc != nil {
		return m.AttachGatewaySessionFunc(ctx, paymentID, raw)
	}
	return nil
}

func (m *MockPaymentUC) MarkTerminal(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error) {
	if m.MarkTerminalFunc != nil {
		return m.MarkTerminalFunc(ctx, tx, transactionID, status, extra)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentUC) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	if m.FindByTransactionIDFunc != nil {
		return m.FindByTransactionIDFunc(ctx, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentUC) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentUC) ListForUser(ctx context.Context, userID string, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, usecase.PageMeta, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID, filter, page)
	}
	return nil, usecase.PageMeta{}, nil
}

func (m *MockPaymentUC) ListAll(ctx context.Context, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, usecase.PageMeta, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, filter, page)
	}
	return nil, usecase.PageMeta{}, nil
}

func (m *MockPaymentUC) ListSuccessWithoutEntitlement(ctx context.Context, limit int) ([]*model.Payment, error) {
	if m.ListSuccessWithoutEntitlementFunc != nil {
		return m.ListSuccessWithoutEntitlementFunc(ctx, limit)
	}
	return nil, nil
}
