package identity

import (
	"context"
	"net/mail"
	"strings"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrGuestBookingsDisabled = errs.Rule("guest bookings are disabled")

// guestNamespace seeds deterministic customer ids for guests.
var guestNamespace = uuid.MustParse("6f1c3a52-9d0e-4d55-8f0a-2b7c1e5d9a40")

// GuestProvisioner derives a stable customer id from the guest's email so repeat
// guests map onto the same customer without a user store.
type GuestProvisioner struct {
	enabled bool
}

func NewGuestProvisioner(enabled bool) *GuestProvisioner {
	return &GuestProvisioner{enabled: enabled}
}

func (p *GuestProvisioner) ProvisionCustomer(_ context.Context, contact shared.GuestContact) (uuid.UUID, error) {
	if !p.enabled {
		return uuid.Nil, ErrGuestBookingsDisabled
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(contact.Email))
	if err != nil {
		return uuid.Nil, errs.NewValidation("email", "a valid email is required for guest bookings")
	}
	return uuid.NewSHA1(guestNamespace, []byte(strings.ToLower(addr.Address))), nil
}
