package payment

import (
	"context"
	"fmt"
	"sync"

	"food-spot-backend/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway for local development and
// tests. Every session it opens validates successfully.
type NoopPaymentGateway struct {
	mu       sync.Mutex
	seq      int64
	sessions map[string]string // validation token -> transaction ID
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{
		sessions: make(map[string]string),
	}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) CreateSession(ctx context.Context, req adapter.CreateSessionRequest) (*adapter.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	token := fmt.Sprintf("noop-val-%d", g.seq)
	g.sessions[token] = req.TransactionID
	return &adapter.Session{
		RedirectURL: "https://example.test/pay/" + req.TransactionID,
		Raw: map[string]interface{}{
			"status": "SUCCESS",
			"val_id": token,
		},
	}, nil
}

func (g *NoopPaymentGateway) ValidateTransaction(ctx context.Context, validationToken string) (*adapter.ValidationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tranID, ok := g.sessions[validationToken]
	if !ok {
		return &adapter.ValidationResult{Valid: false, Raw: map[string]interface{}{"status": "INVALID_TRANSACTION"}}, nil
	}
	return &adapter.ValidationResult{
		Valid: true,
		Raw: map[string]interface{}{
			"status":  "VALID",
			"tran_id": tranID,
			"val_id":  validationToken,
		},
	}, nil
}
