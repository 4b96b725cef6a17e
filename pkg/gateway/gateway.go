// Package gateway wraps the payment processor behind a two-operation
// interface so the checkout flow can be tested against a fake and the
// production client can be swapped without touching handlers.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// ErrGateway marks a failure obtaining a client token from the processor.
var ErrGateway = errors.New("gateway: client token request failed")

// PaymentError is a settlement attempt the processor rejected or failed.
// The nonce consumed by the attempt is single-use: callers must not retry
// with the same nonce. Surface the failure for manual reconciliation.
type PaymentError struct {
	Status  string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("gateway: payment failed (%s): %s", e.Status, e.Message)
}

// Result is a settled transaction as reported by the processor.
type Result struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"` // minor units
	Gateway       string `json:"gateway"`
}

// Gateway is the payment processor contract.
type Gateway interface {
	// ClientToken requests a short-lived client-side token used by the
	// storefront to collect payment method details.
	ClientToken(ctx context.Context) (string, error)

	// Sale submits a sale for amount (minor units) against a one-time
	// payment method nonce, requesting immediate settlement. Exactly one
	// outcome: a settled Result or an error.
	Sale(ctx context.Context, amount int64, nonce string) (*Result, error)
}
