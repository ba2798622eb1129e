package repository

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/booking"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/infra/repository/converter"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const (
	bookingsTable = "bookings"
	historyTable  = "booking_history"
)

type BookingRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingRepository(db db.DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{db: db, logger: logger}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	snap := b.Snapshot()
	values, err := converter.BookingValues(snap)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode booking", err)
	}
	values["id"] = snap.ID
	values["version"] = 1

	query, args, err := psql.Insert(bookingsTable).SetMap(values).ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build booking insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to create booking", err)
	}

	if err := r.appendHistory(ctx, snap.ID, snap.History); err != nil {
		return err
	}
	b.MarkPersisted(1)
	return nil
}

// Update is an optimistic write: it only applies when the stored version equals
// the version b was loaded with.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	snap := b.Snapshot()
	values, err := converter.BookingValues(snap)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode booking", err)
	}
	values["version"] = sq.Expr("version + 1")

	query, args, err := psql.Update(bookingsTable).
		SetMap(values).
		Where(sq.Eq{"id": snap.ID, "version": snap.Version}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build booking update", err)
	}

	var version int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&version); err != nil {
		kind := infra.ClassifyPgError(err)
		if kind == infra.KindNotFound {
			kind = infra.KindConflict
		}
		return infra.WrapRepoErr(r.logger, kind, "stale or missing booking", err)
	}

	if err := r.appendHistory(ctx, snap.ID, snap.History); err != nil {
		return err
	}
	b.MarkPersisted(version)
	return nil
}

// appendHistory writes entries idempotently; rows already stored are left untouched.
func (r *BookingRepository) appendHistory(ctx context.Context, bookingID uuid.UUID, entries []booking.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ins := psql.Insert(historyTable).Columns("booking_id", "seq", "occurred_at", "description")
	for _, e := range entries {
		ins = ins.Values(bookingID, e.Sequence, e.Timestamp, e.Description)
	}
	query, args, err := ins.Suffix("ON CONFLICT (booking_id, seq) DO NOTHING").ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build history insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to append booking history", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query, args, err := psql.Select(converter.BookingColumns...).
		From(bookingsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build booking query", err)
	}

	snap, err := converter.ScanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to find booking", err)
	}

	history, err := r.loadHistory(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	snap.History = history[id]
	return booking.Reconstruct(snap), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit uint64) ([]*booking.Booking, error) {
	query, args, err := psql.Select(converter.BookingColumns...).
		From(bookingsTable).
		Where(sq.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build booking list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to list bookings", err)
	}
	defer rows.Close()

	var (
		snaps []booking.Snapshot
		ids   []uuid.UUID
	)
	for rows.Next() {
		snap, err := converter.ScanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan booking", err)
		}
		snaps = append(snaps, snap)
		ids = append(ids, snap.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to list bookings", err)
	}
	rows.Close()

	history, err := r.loadHistory(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*booking.Booking, 0, len(snaps))
	for _, s := range snaps {
		s.History = history[s.ID]
		out = append(out, booking.Reconstruct(s))
	}
	return out, nil
}

func (r *BookingRepository) loadHistory(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]booking.HistoryEntry, error) {
	out := make(map[uuid.UUID][]booking.HistoryEntry, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := psql.Select("booking_id", "seq", "occurred_at", "description").
		From(historyTable).
		Where(sq.Eq{"booking_id": ids}).
		OrderBy("booking_id", "seq").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build history query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to load booking history", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id uuid.UUID
			e  booking.HistoryEntry
		)
		if err := rows.Scan(&id, &e.Sequence, &e.Timestamp, &e.Description); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan booking history", err)
		}
		out[id] = append(out[id], e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to load booking history", err)
	}
	return out, nil
}
