package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/braintree-go/braintree-go"

	"github.com/shashiranjanraj/ecomstore/config"
)

// Braintree is the production Gateway backed by the Braintree SDK.
// Construct once at boot and inject; never a package singleton.
type Braintree struct {
	bt      *braintree.Braintree
	timeout time.Duration
}

// NewBraintree builds the client from configuration. Every call to the
// processor is bounded by the configured timeout.
func NewBraintree() (*Braintree, error) {
	merchantID := config.BraintreeMerchantID()
	if merchantID == "" {
		return nil, fmt.Errorf("gateway: BRAINTREE_MERCHANT_ID is not configured")
	}

	env := braintree.Sandbox
	if config.BraintreeEnv() == "production" {
		env = braintree.Production
	}

	timeout := config.BraintreeTimeout()

	bt := braintree.NewWithHttpClient(
		env,
		merchantID,
		config.BraintreePublicKey(),
		config.BraintreePrivateKey(),
		&http.Client{Timeout: timeout},
	)

	return &Braintree{bt: bt, timeout: timeout}, nil
}

func (g *Braintree) ClientToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	token, err := g.bt.ClientToken().Generate(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return token, nil
}

func (g *Braintree) Sale(ctx context.Context, amount int64, nonce string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(amount, 2),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return nil, &PaymentError{Status: "failed", Message: err.Error()}
	}

	switch tx.Status {
	case braintree.TransactionStatusSubmittedForSettlement,
		braintree.TransactionStatusSettling,
		braintree.TransactionStatusSettled:
		return &Result{
			TransactionID: tx.Id,
			Status:        string(tx.Status),
			Amount:        amount,
			Gateway:       "braintree",
		}, nil
	default:
		return nil, &PaymentError{Status: string(tx.Status), Message: "transaction not settled"}
	}
}
