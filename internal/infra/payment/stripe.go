package payment

import (
	"context"
	"log/slog"
	"strings"

	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	ErrGatewayNotConfigured = errs.New("payment gateway is not configured")
	ErrGatewayFailure       = errs.New("payment gateway request failed")
)

type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type refundCreator interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

// StripeGateway charges and refunds through Stripe payment intents. Amounts are
// sent in minor units of the money's currency.
type StripeGateway struct {
	intents intentCreator
	refunds refundCreator
	logger  *slog.Logger
}

func NewStripeGateway(secretKey string, logger *slog.Logger) *StripeGateway {
	if secretKey == "" {
		return &StripeGateway{logger: logger}
	}
	sc := client.New(secretKey, nil)
	return &StripeGateway{intents: sc.PaymentIntents, refunds: sc.Refunds, logger: logger}
}

func (g *StripeGateway) Charge(ctx context.Context, amount valueobject.Money, paymentMethodID string) (shared.ChargeResult, error) {
	if g.intents == nil {
		return shared.ChargeResult{}, ErrGatewayNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount.MinorUnits()),
		Currency:      stripe.String(strings.ToLower(amount.Currency())),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	pi, err := g.intents.New(params)
	if err != nil {
		g.logger.Error("stripe charge failed", "amount", amount.String(), "error", err)
		return shared.ChargeResult{}, errs.Mark(errs.Wrap(err, "create payment intent"), ErrGatewayFailure)
	}
	return shared.ChargeResult{
		IntentID: pi.ID,
		Success:  pi.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, intentID string, amount valueobject.Money) (shared.RefundResult, error) {
	if g.refunds == nil {
		return shared.RefundResult{}, ErrGatewayNotConfigured
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(amount.MinorUnits()),
	}
	params.Context = ctx

	r, err := g.refunds.New(params)
	if err != nil {
		g.logger.Error("stripe refund failed", "intent", intentID, "amount", amount.String(), "error", err)
		return shared.RefundResult{}, errs.Mark(errs.Wrap(err, "create refund"), ErrGatewayFailure)
	}
	return shared.RefundResult{
		RefundID: r.ID,
		Success:  r.Status == stripe.RefundStatusSucceeded || r.Status == stripe.RefundStatusPending,
	}, nil
}
