package directory

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/valueobject"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresDirectory reads weekly opening hours from provider_business_hours.
type PostgresDirectory struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewPostgresDirectory(db db.DBTX, logger *slog.Logger) *PostgresDirectory {
	return &PostgresDirectory{db: db, logger: logger}
}

// BusinessHours returns the windows open on date, expressed in date's location.
func (d *PostgresDirectory) BusinessHours(ctx context.Context, providerID uuid.UUID, date time.Time) ([]valueobject.TimeSlot, error) {
	query, args, err := psql.Select("opens_at", "closes_at").
		From("provider_business_hours").
		Where(sq.Eq{"provider_id": providerID, "weekday": int(date.Weekday())}).
		OrderBy("opens_at").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(d.logger, infra.KindDBFailure, "build business hours query", err)
	}

	rows, err := d.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(d.logger, infra.ClassifyPgError(err), "failed to load business hours", err)
	}
	defer rows.Close()

	var windows []valueobject.TimeSlot
	for rows.Next() {
		var opens, closes pgtype.Time
		if err := rows.Scan(&opens, &closes); err != nil {
			return nil, infra.WrapRepoErr(d.logger, infra.KindDBFailure, "failed to scan business hours", err)
		}
		w, err := valueobject.NewTimeSlot(atClock(date, opens), atClock(date, closes))
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(d.logger, infra.ClassifyPgError(err), "failed to load business hours", err)
	}
	return windows, nil
}

func atClock(date time.Time, t pgtype.Time) time.Time {
	y, m, day := date.Date()
	midnight := time.Date(y, m, day, 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(t.Microseconds) * time.Microsecond)
}
