package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/ptr"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	ErrSlotNotFound    = errs.NotFound("availability slot not found")
	ErrNoBusinessHours = errs.Rule("provider has no business hours on this date")
	ErrSlotOverlap     = errs.Conflict("slot overlaps an existing slot")
	ErrSlotUnavailable = errs.Conflict("requested slot is no longer available")
)

const (
	ExpiredHoldReason = "payment hold expired"

	defaultSweepBatch  uint64     = 200
	defaultSweepPerSec rate.Limit = 50
	// slots that started the day before may still run past midnight
	publishLookbackDays = 1
)

type PublishSlotsInput struct {
	ProviderID  uuid.UUID
	Date        time.Time
	SlotMinutes int
	StaffID     *uuid.UUID
}

type AvailabilityEngine interface {
	// FindSlot returns the slot at [start, end) that staffID may take; nil staff
	// matches any slot.
	FindSlot(ctx context.Context, providerID uuid.UUID, date, start, end time.Time, staffID *uuid.UUID) (*availability.Slot, error)
	FindOverlapping(ctx context.Context, providerID uuid.UUID, start, end time.Time, excludeSlotID *uuid.UUID) ([]*availability.Slot, error)
	PublishSlots(ctx context.Context, in PublishSlotsInput) ([]*availability.Slot, error)
	BlockSlot(ctx context.Context, slotID uuid.UUID) (*availability.Slot, error)
	MarkBreak(ctx context.Context, slotID uuid.UUID) (*availability.Slot, error)
	UnblockSlot(ctx context.Context, slotID uuid.UUID) (*availability.Slot, error)
	// ReleaseExpiredHolds frees slots held longer than the hold TTL and cancels
	// their still-unconfirmed bookings. It returns the number of slots released.
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

type availabilityEngineImpl struct {
	uow       shared.UnitOfWork
	directory shared.ProviderDirectory
	cache     shared.HeatmapCache
	metrics   shared.Metrics
	clock     clock.Clock
	logger    *slog.Logger
	limiter   *rate.Limiter
	holdTTL   time.Duration
	batchSize uint64
}

func NewAvailabilityEngine(
	uow shared.UnitOfWork,
	directory shared.ProviderDirectory,
	cache shared.HeatmapCache,
	metrics shared.Metrics,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.BookingConfig,
) AvailabilityEngine {
	perSec := rate.Limit(cfg.SweepRate)
	if perSec <= 0 {
		perSec = defaultSweepPerSec
	}
	batch := cfg.SweepBatchSize
	if batch == 0 {
		batch = defaultSweepBatch
	}
	return &availabilityEngineImpl{
		uow:       uow,
		directory: directory,
		cache:     cache,
		metrics:   metrics,
		clock:     clk,
		logger:    logger,
		limiter:   rate.NewLimiter(perSec, 1),
		holdTTL:   cfg.HoldTTL,
		batchSize: batch,
	}
}

func (e *availabilityEngineImpl) FindSlot(ctx context.Context, providerID uuid.UUID, date, start, end time.Time, staffID *uuid.UUID) (*availability.Slot, error) {
	var slot *availability.Slot
	err := e.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().FindSlot(ctx, providerID, date, start, end, staffID)
		if err != nil {
			return notFoundAs(err, ErrSlotNotFound)
		}
		slot = s
		return nil
	})
	return slot, err
}

func (e *availabilityEngineImpl) FindOverlapping(ctx context.Context, providerID uuid.UUID, start, end time.Time, excludeSlotID *uuid.UUID) ([]*availability.Slot, error) {
	var slots []*availability.Slot
	err := e.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		slots, err = tx.Slots().FindOverlapping(ctx, providerID, start, end, excludeSlotID)
		return err
	})
	return slots, err
}

func (e *availabilityEngineImpl) PublishSlots(ctx context.Context, in PublishSlotsInput) ([]*availability.Slot, error) {
	length, err := valueobject.NewDuration(in.SlotMinutes)
	if err != nil {
		return nil, err
	}
	date := availability.DateOf(in.Date)

	windows, err := e.directory.BusinessHours(ctx, in.ProviderID, date)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load business hours")
	}
	if len(windows) == 0 {
		return nil, ErrNoBusinessHours
	}

	slots, err := availability.GenerateSlots(in.ProviderID, windows, length, in.StaffID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrNoBusinessHours
	}

	err = e.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Slots().LockProvider(ctx, in.ProviderID); err != nil {
			return err
		}
		existing, err := tx.Slots().ListRange(ctx, in.ProviderID, date.AddDate(0, 0, -publishLookbackDays), date)
		if err != nil {
			return err
		}
		for _, s := range slots {
			for _, ex := range existing {
				if ptr.Equal(s.PublishedStaffID(), ex.PublishedStaffID()) && s.TimeSlot().Overlaps(ex.TimeSlot()) {
					return ErrSlotOverlap
				}
			}
		}
		return tx.Slots().Insert(ctx, slots)
	})
	if err != nil {
		return nil, err
	}

	invalidateHeatmaps(ctx, e.cache, e.logger, in.ProviderID)
	e.logger.InfoContext(ctx, "slots published",
		slog.String("provider_id", in.ProviderID.String()),
		slog.Time("date", date),
		slog.Int("count", len(slots)))
	return slots, nil
}

func (e *availabilityEngineImpl) BlockSlot(ctx context.Context, slotID uuid.UUID) (*availability.Slot, error) {
	return e.changeStatus(ctx, slotID, func(s *availability.Slot) error {
		return s.Block(availability.SlotBlocked)
	})
}

func (e *availabilityEngineImpl) MarkBreak(ctx context.Context, slotID uuid.UUID) (*availability.Slot, error) {
	return e.changeStatus(ctx, slotID, func(s *availability.Slot) error {
		return s.Block(availability.SlotBreak)
	})
}

func (e *availabilityEngineImpl) UnblockSlot(ctx context.Context, slotID uuid.UUID) (*availability.Slot, error) {
	return e.changeStatus(ctx, slotID, func(s *availability.Slot) error {
		return s.Unblock()
	})
}

func (e *availabilityEngineImpl) changeStatus(ctx context.Context, slotID uuid.UUID, apply func(*availability.Slot) error) (*availability.Slot, error) {
	var slot *availability.Slot
	err := e.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().FindByID(ctx, slotID)
		if err != nil {
			return notFoundAs(err, ErrSlotNotFound)
		}
		from := s.Status()
		if err := apply(s); err != nil {
			return err
		}
		if err := tx.Slots().UpdateStatus(ctx, s.ID(), from, s.Status()); err != nil {
			return err
		}
		slot = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidateHeatmaps(ctx, e.cache, e.logger, slot.ProviderID())
	return slot, nil
}

func (e *availabilityEngineImpl) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	now := e.clock.Now()
	cutoff := now.Add(-e.holdTTL)

	var expired []*availability.Slot
	err := e.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		expired, err = tx.Slots().FindExpiredHolds(ctx, cutoff, e.batchSize)
		return err
	})
	if err != nil {
		return 0, errs.Wrap(err, "failed to list expired holds")
	}

	var (
		released, failed int
		waitErr          error
	)
	providers := make(map[uuid.UUID]struct{})
	for _, s := range expired {
		if waitErr = e.limiter.Wait(ctx); waitErr != nil {
			break
		}
		ok, err := e.releaseHold(ctx, s, cutoff, now)
		if err != nil {
			failed++
			e.logger.ErrorContext(ctx, "failed to release expired hold",
				slog.String("slot_id", s.ID().String()),
				slog.Any("error", err))
			continue
		}
		if ok {
			released++
			providers[s.ProviderID()] = struct{}{}
		}
	}

	if released > 0 {
		e.metrics.HoldsReleased(released)
		for id := range providers {
			invalidateHeatmaps(ctx, e.cache, e.logger, id)
		}
		e.logger.InfoContext(ctx, "expired holds released", slog.Int("count", released))
	}
	if failed > 0 {
		return released, errs.Newf("%d expired holds could not be released", failed)
	}
	return released, waitErr
}

// releaseHold frees one slot and cancels its still-unconfirmed booking in the
// same transaction. A hold confirmed, paid or released in the meantime is skipped.
func (e *availabilityEngineImpl) releaseHold(ctx context.Context, s *availability.Slot, cutoff, now time.Time) (bool, error) {
	if s.BookingID() == nil {
		return false, nil
	}
	bookingID := *s.BookingID()

	var (
		released  bool
		cancelled bool
	)
	err := e.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		released, cancelled = false, false

		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return notFoundAs(err, ErrBookingNotFound)
		}
		if keepsSlot(b) {
			// only the stale hold marker goes
			return tx.Slots().ConfirmHold(ctx, s.ID(), bookingID)
		}

		ok, err := tx.Slots().ReleaseExpired(ctx, s.ID(), bookingID, cutoff)
		if err != nil || !ok {
			return err
		}
		released = true

		if b.Status() != booking.StatusRequested {
			return nil
		}
		if err := b.Cancel(ExpiredHoldReason, now); err != nil {
			return err
		}
		cancelled = true
		return tx.Bookings().Update(ctx, b)
	})
	if err != nil {
		return false, err
	}
	if cancelled {
		e.metrics.BookingTransition(booking.StatusCancelled.String())
	}
	return released, nil
}

// keepsSlot reports whether a booking is past the pending-payment stage. A
// rescheduled booking starts Requested but carries the payment of its
// predecessor.
func keepsSlot(b *booking.Booking) bool {
	switch b.Status() {
	case booking.StatusConfirmed:
		return true
	case booking.StatusRequested:
		return b.Payment().HasAtLeastPartialPayment()
	}
	return false
}

func notFoundAs(err, sentinel error) error {
	if errs.IsNotFound(err) {
		return errs.Mark(err, sentinel)
	}
	return err
}
