package commands

import (
	"context"
	"log/slog"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// retryOnConflict reruns op while it fails with a conflict, at most maxRetries
// extra times. Each attempt opens its own transaction, so it works on a fresh read.
// Errors marked terminal are returned immediately.
func retryOnConflict(ctx context.Context, maxRetries int, op func() error, terminal ...error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = op(); err == nil || !errs.IsConflict(err) {
			return err
		}
		for _, t := range terminal {
			if errs.Is(err, t) {
				return err
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

// invalidateHeatmaps drops cached heatmaps of a provider. Cache failures never
// fail the write that triggered them.
func invalidateHeatmaps(ctx context.Context, cache shared.HeatmapCache, logger *slog.Logger, providerID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, providerID); err != nil {
		logger.WarnContext(ctx, "failed to invalidate heatmap cache",
			slog.String("provider_id", providerID.String()),
			slog.Any("error", err))
	}
}
