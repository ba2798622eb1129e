package shared

import (
	"context"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../testutil/mock/shared/ports.go -package=sharedmock

type ChargeResult struct {
	IntentID string
	Success  bool
}

type RefundResult struct {
	RefundID string
	Success  bool
}

type PaymentGateway interface {
	Charge(ctx context.Context, amount valueobject.Money, paymentMethodID string) (ChargeResult, error)
	// Refund pays amount back on the intent. Processing fees are not tracked per
	// payment, so the gateway refunds exactly amount.
	Refund(ctx context.Context, intentID string, amount valueobject.Money) (RefundResult, error)
}

type ProviderDirectory interface {
	// BusinessHours returns the provider's open windows on the given date.
	BusinessHours(ctx context.Context, providerID uuid.UUID, date time.Time) ([]valueobject.TimeSlot, error)
}

type GuestContact struct {
	Name  string
	Email string
	Phone string
}

type UserProvisioner interface {
	ProvisionCustomer(ctx context.Context, contact GuestContact) (uuid.UUID, error)
}

type RefundPolicyProvider interface {
	RefundPolicyFor(ctx context.Context, providerID, serviceID uuid.UUID) (policy.RefundPolicy, error)
}

type HeatmapCache interface {
	// Generation returns the provider's current cache generation. Readers pass
	// it to Get and Set so a value computed before an Invalidate is never served.
	Generation(ctx context.Context, providerID uuid.UUID) (int64, error)
	Get(ctx context.Context, providerID uuid.UUID, gen int64, from, to time.Time) (*availability.Heatmap, bool, error)
	Set(ctx context.Context, providerID uuid.UUID, gen int64, from, to time.Time, hm availability.Heatmap, ttl time.Duration) error
	// Invalidate advances the generation and drops every cached heatmap of the provider.
	Invalidate(ctx context.Context, providerID uuid.UUID) error
}

type Metrics interface {
	AllocationConflict(providerID uuid.UUID)
	HoldsReleased(n int)
	BookingTransition(status string)
}
