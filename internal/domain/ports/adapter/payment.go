package adapter

import "context"

// CreateSessionRequest carries everything the gateway needs to open a hosted
// checkout session. The transaction ID is the correlation key the gateway
// echoes back on every callback.
type CreateSessionRequest struct {
	Amount        int64
	CurrencyCode  string
	TransactionID string
	ProductName   string
	CustomerName  string
	CustomerEmail string
	SuccessURL    string
	FailURL       string
	CancelURL     string
	IPNURL        string
}

// Session is the gateway's answer to a create-session call: where to send the
// user, plus the raw payload for the ledger.
type Session struct {
	RedirectURL string
	Raw         map[string]interface{}
}

// ValidationResult is the authoritative verdict on a transaction. Only
// Valid==true may promote a payment to SUCCESS.
type ValidationResult struct {
	Valid bool
	Raw   map[string]interface{}
}

// PaymentGateway is the hex port for the external payment provider.
type PaymentGateway interface {
	Name() string

	// CreateSession initiates a hosted checkout and returns the redirect URL.
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)

	// ValidateTransaction checks a validation token against the gateway's
	// validator endpoint. Transport or parse failures are errors; a reachable
	// gateway reporting an invalid transaction is Valid==false, nil error.
	ValidateTransaction(ctx context.Context, validationToken string) (*ValidationResult, error)
}
