package repository

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const slotsTable = "availability_slots"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var slotColumns = []string{
	"id", "provider_id", "slot_date", "start_time", "end_time",
	"status", "published_staff_id", "staff_id", "booking_id", "held_at",
}

type SlotRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewSlotRepository(db db.DBTX, logger *slog.Logger) *SlotRepository {
	return &SlotRepository{db: db, logger: logger}
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*availability.Slot, error) {
	return r.findOne(ctx, "failed to find slot", sq.Eq{"id": id})
}

// FindSlot returns the slot at [start, end) that staffID may take, preferring an
// available one. With a staff member their own slot wins over a provider-wide
// one, and slots published for other staff are never returned.
func (r *SlotRepository) FindSlot(ctx context.Context, providerID uuid.UUID, date, start, end time.Time, staffID *uuid.UUID) (*availability.Slot, error) {
	where := sq.And{sq.Eq{
		"provider_id": providerID,
		"slot_date":   pgconv.DateToPgtype(date),
		"start_time":  start,
		"end_time":    end,
	}}
	order := "published_staff_id NULLS FIRST"
	if staffID != nil {
		where = append(where, servesStaff(*staffID))
		order = "published_staff_id NULLS LAST"
	}

	query, args, err := psql.Select(slotColumns...).
		From(slotsTable).
		Where(where).
		OrderBy("status = '"+string(availability.SlotAvailable)+"' DESC", order).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build slot query", err)
	}

	slot, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to find slot by time", err)
	}
	return slot, nil
}

func servesStaff(staffID uuid.UUID) sq.Sqlizer {
	return sq.Or{sq.Eq{"published_staff_id": nil}, sq.Eq{"published_staff_id": staffID}}
}

// LockProvider serializes slot allocation for one provider until the
// transaction ends. The exclusion constraint only covers one staff key, so
// provider-wide bookings rely on this lock to see each other's overlaps.
func (r *SlotRepository) LockProvider(ctx context.Context, providerID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))", providerID.String()); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to lock provider slots", err)
	}
	return nil
}

func (r *SlotRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*availability.Slot, error) {
	return r.findOne(ctx, "failed to find slot by booking", sq.Eq{"booking_id": bookingID})
}

func (r *SlotRepository) findOne(ctx context.Context, msg string, where sq.Sqlizer) (*availability.Slot, error) {
	query, args, err := psql.Select(slotColumns...).
		From(slotsTable).
		Where(where).
		OrderBy("published_staff_id NULLS FIRST").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build slot query", err)
	}

	s, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), msg, err)
	}
	return s, nil
}

func (r *SlotRepository) FindOverlapping(ctx context.Context, providerID uuid.UUID, start, end time.Time, excludeSlotID *uuid.UUID) ([]*availability.Slot, error) {
	b := psql.Select(slotColumns...).
		From(slotsTable).
		Where(sq.Eq{"provider_id": providerID}).
		Where(sq.NotEq{"status": string(availability.SlotAvailable)}).
		Where(sq.Lt{"start_time": end}).
		Where(sq.Gt{"end_time": start}).
		OrderBy("start_time")
	if excludeSlotID != nil {
		b = b.Where(sq.NotEq{"id": *excludeSlotID})
	}
	return r.list(ctx, "failed to find overlapping slots", b)
}

func (r *SlotRepository) ListRange(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*availability.Slot, error) {
	b := psql.Select(slotColumns...).
		From(slotsTable).
		Where(sq.Eq{"provider_id": providerID}).
		Where(sq.GtOrEq{"slot_date": pgconv.DateToPgtype(from)}).
		Where(sq.LtOrEq{"slot_date": pgconv.DateToPgtype(to)}).
		OrderBy("start_time", "staff_id NULLS FIRST")
	return r.list(ctx, "failed to list slots", b)
}

func (r *SlotRepository) FindExpiredHolds(ctx context.Context, cutoff time.Time, limit uint64) ([]*availability.Slot, error) {
	b := psql.Select(slotColumns...).
		From(slotsTable).
		Where(sq.Eq{"status": string(availability.SlotBooked)}).
		Where(sq.Lt{"held_at": cutoff}).
		OrderBy("held_at").
		Limit(limit)
	return r.list(ctx, "failed to find expired holds", b)
}

func (r *SlotRepository) list(ctx context.Context, msg string, b sq.SelectBuilder) ([]*availability.Slot, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build slot list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), msg, err)
	}
	defer rows.Close()

	var slots []*availability.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), msg, err)
	}
	return slots, nil
}

func (r *SlotRepository) Insert(ctx context.Context, slots []*availability.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	b := psql.Insert(slotsTable).
		Columns("id", "provider_id", "slot_date", "start_time", "end_time", "status", "published_staff_id", "staff_id")
	for _, s := range slots {
		b = b.Values(s.ID(), s.ProviderID(), pgconv.DateToPgtype(s.Date()), s.StartTime(), s.EndTime(),
			string(s.Status()), pgconv.UUIDPtrToPgtype(s.PublishedStaffID()), pgconv.UUIDPtrToPgtype(s.StaffID()))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build slot insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to insert slots", err)
	}
	return nil
}

// Allocate flips an available slot to booked. A lost race shows up either as zero
// rows (someone else flipped it first) or as an exclusion violation (an
// overlapping slot for the same staff got booked concurrently). A slot published
// for another staff member never matches.
func (r *SlotRepository) Allocate(ctx context.Context, slotID, bookingID uuid.UUID, staffID *uuid.UUID, now time.Time) error {
	b := psql.Update(slotsTable).
		Set("status", string(availability.SlotBooked)).
		Set("booking_id", bookingID).
		Set("held_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": slotID, "status": string(availability.SlotAvailable)})
	if staffID != nil {
		b = b.Set("staff_id", *staffID).Where(servesStaff(*staffID))
	}
	return r.execCAS(ctx, b, "failed to allocate slot", infra.KindConflict)
}

func (r *SlotRepository) ConfirmHold(ctx context.Context, slotID, bookingID uuid.UUID) error {
	b := psql.Update(slotsTable).
		Set("held_at", nil).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": slotID, "booking_id": bookingID, "status": string(availability.SlotBooked)})
	return r.execCAS(ctx, b, "failed to confirm slot hold", infra.KindConflict)
}

func (r *SlotRepository) Release(ctx context.Context, slotID, bookingID uuid.UUID) error {
	b := releaseUpdate().
		Where(sq.Eq{"id": slotID, "booking_id": bookingID})
	return r.execCAS(ctx, b, "failed to release slot", infra.KindConflict)
}

func (r *SlotRepository) ReleaseExpired(ctx context.Context, slotID, bookingID uuid.UUID, cutoff time.Time) (bool, error) {
	b := releaseUpdate().
		Where(sq.Eq{"id": slotID, "booking_id": bookingID, "status": string(availability.SlotBooked)}).
		Where(sq.Lt{"held_at": cutoff})
	err := r.execCAS(ctx, b, "failed to release expired hold", infra.KindConflict)
	if infra.IsKind(err, infra.KindConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// releaseUpdate returns the slot to the staff it was published for.
func releaseUpdate() sq.UpdateBuilder {
	return psql.Update(slotsTable).
		Set("status", string(availability.SlotAvailable)).
		Set("booking_id", nil).
		Set("staff_id", sq.Expr("published_staff_id")).
		Set("held_at", nil).
		Set("updated_at", sq.Expr("now()"))
}

func (r *SlotRepository) UpdateStatus(ctx context.Context, slotID uuid.UUID, from, to availability.SlotStatus) error {
	b := psql.Update(slotsTable).
		Set("status", string(to)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": slotID, "status": string(from)})
	return r.execCAS(ctx, b, "failed to update slot status", infra.KindConflict)
}

// execCAS runs a guarded UPDATE and reports missKind when no row matched the guard.
func (r *SlotRepository) execCAS(ctx context.Context, b sq.UpdateBuilder, msg string, missKind infra.RepositoryErrorKind) error {
	query, args, err := b.ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "build slot update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), msg, err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, missKind, msg, nil)
	}
	return nil
}

func scanSlot(row pgx.Row) (*availability.Slot, error) {
	var (
		id, providerID              uuid.UUID
		date                        pgtype.Date
		start, end                  time.Time
		status                      string
		published, staffID, booking pgtype.UUID
		heldAt                      pgtype.Timestamptz
	)
	if err := row.Scan(&id, &providerID, &date, &start, &end, &status, &published, &staffID, &booking, &heldAt); err != nil {
		return nil, err
	}

	ts, err := valueobject.NewTimeSlot(start, end)
	if err != nil {
		return nil, err
	}
	st := availability.SlotStatus(status)
	if !st.IsValid() {
		return nil, availability.ErrInvalidSlotStatus
	}

	return availability.ReconstructSlot(
		id, providerID, pgconv.DateFromPgtype(date), ts, st,
		pgconv.UUIDPtrFromPgtype(published), pgconv.UUIDPtrFromPgtype(staffID),
		pgconv.UUIDPtrFromPgtype(booking), pgconv.TimePtrFromPgtype(heldAt),
	), nil
}
