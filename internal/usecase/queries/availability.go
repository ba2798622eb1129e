package queries

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// MaxHeatmapDays bounds a single heatmap request to roughly a quarter.
const MaxHeatmapDays = 92

type SlotView struct {
	ID        uuid.UUID  `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Status    string     `json:"status"`
	StaffID   *uuid.UUID `json:"staff_id,omitempty"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}

type AvailabilityQueries interface {
	Heatmap(ctx context.Context, providerID uuid.UUID, from, to time.Time) (*availability.Heatmap, error)
	ListSlots(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*SlotView, error)
}

type availabilityQueriesImpl struct {
	uow    shared.UnitOfWork
	cache  shared.HeatmapCache
	logger *slog.Logger
	ttl    time.Duration
}

func NewAvailabilityQueries(uow shared.UnitOfWork, cache shared.HeatmapCache, logger *slog.Logger, cfg config.BookingConfig) AvailabilityQueries {
	return &availabilityQueriesImpl{uow: uow, cache: cache, logger: logger, ttl: cfg.HeatmapCacheTTL}
}

func dateRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = availability.DateOf(from), availability.DateOf(to)
	if to.Before(from) {
		return from, to, errs.NewValidation("to", "range end is before its start")
	}
	if to.Sub(from) > MaxHeatmapDays*24*time.Hour {
		return from, to, errs.NewValidation("to", "range is too long")
	}
	return from, to, nil
}

// Heatmap reads through the cache. Cache failures degrade to a direct computation.
// The result is stored under the generation read before the slots, so a write
// invalidating the cache meanwhile leaves the stored value unreachable.
func (q *availabilityQueriesImpl) Heatmap(ctx context.Context, providerID uuid.UUID, from, to time.Time) (*availability.Heatmap, error) {
	from, to, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}

	gen, err := q.cache.Generation(ctx, providerID)
	if err != nil {
		q.logger.WarnContext(ctx, "heatmap cache read failed", slog.Any("error", err))
		return q.computeHeatmap(ctx, providerID, from, to)
	}
	if hm, ok, err := q.cache.Get(ctx, providerID, gen, from, to); err != nil {
		q.logger.WarnContext(ctx, "heatmap cache read failed", slog.Any("error", err))
	} else if ok {
		return hm, nil
	}

	hm, err := q.computeHeatmap(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}
	if err := q.cache.Set(ctx, providerID, gen, from, to, *hm, q.ttl); err != nil {
		q.logger.WarnContext(ctx, "heatmap cache write failed", slog.Any("error", err))
	}
	return hm, nil
}

func (q *availabilityQueriesImpl) computeHeatmap(ctx context.Context, providerID uuid.UUID, from, to time.Time) (*availability.Heatmap, error) {
	slots, err := q.listRange(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}
	hm := availability.ComputeHeatmap(from, to, slots)
	return &hm, nil
}

func (q *availabilityQueriesImpl) ListSlots(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*SlotView, error) {
	from, to, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}
	slots, err := q.listRange(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}

	views := make([]*SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, &SlotView{
			ID:        s.ID(),
			StartTime: s.StartTime(),
			EndTime:   s.EndTime(),
			Status:    s.Status().String(),
			StaffID:   s.StaffID(),
			BookingID: s.BookingID(),
		})
	}
	return views, nil
}

func (q *availabilityQueriesImpl) listRange(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*availability.Slot, error) {
	var slots []*availability.Slot
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		slots, err = tx.Slots().ListRange(ctx, providerID, from, to)
		return err
	})
	return slots, err
}
