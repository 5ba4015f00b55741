package repository

import (
	"context"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/booking"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/pgconv"
	"studio-booking/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingColumns is the column list ScanBooking expects, qualified by alias.
func BookingColumns(alias string) []string {
	cols := []string{
		"id", "slot_id", "user_id", "guest_name", "guest_email", "guest_phone",
		"status", "payment_status", "checkout_session_id", "payment_intent_id", "admission_level",
		"created_at", "updated_at", "cancelled_at",
	}
	if alias == "" {
		return cols
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return cols
}

var occupyingStatuses = []string{string(booking.StatusPending), string(booking.StatusConfirmed)}

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (int64, error) {
	s := b.Snapshot()
	query, args, err := db.Psql.Insert("bookings").
		Columns(BookingColumns("")[1:]...).
		Values(
			s.SlotID, pgconv.Int8PtrToPgtype(s.UserID), s.GuestName, s.GuestEmail, pgconv.StringPtrToPgtype(s.GuestPhone),
			string(s.Status), pgconv.StringPtrToPgtype(s.PaymentStatus.Ptr()),
			pgconv.StringPtrToPgtype(s.CheckoutSessionID), pgconv.StringPtrToPgtype(s.PaymentIntentID),
			string(s.AdmissionLevel), s.CreatedAt, s.UpdatedAt, pgconv.TimePtrToPgtype(s.CancelledAt),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build booking insert", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "")
}

// GetForUpdate locks the booking row. The slot row must already be locked.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id int64) (*booking.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "FOR UPDATE")
}

func (r *BookingRepository) GetByCheckoutSession(ctx context.Context, sessionID string) (*booking.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"checkout_session_id": sessionID}, "")
}

func (r *BookingRepository) getOne(ctx context.Context, where squirrel.Sqlizer, suffix string) (*booking.Booking, error) {
	q := db.Psql.Select(BookingColumns("")...).From("bookings").Where(where)
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking select", err)
	}

	snap, err := ScanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", errs.ErrBookingNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking", err)
	}
	return booking.Reconstruct(*snap), nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	s := b.Snapshot()
	query, args, err := db.Psql.Update("bookings").
		SetMap(map[string]any{
			"status":              string(s.Status),
			"payment_status":      pgconv.StringPtrToPgtype(s.PaymentStatus.Ptr()),
			"checkout_session_id": pgconv.StringPtrToPgtype(s.CheckoutSessionID),
			"payment_intent_id":   pgconv.StringPtrToPgtype(s.PaymentIntentID),
			"updated_at":          s.UpdatedAt,
			"cancelled_at":        pgconv.TimePtrToPgtype(s.CancelledAt),
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build booking update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", errs.ErrBookingNotFound, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) CountOccupied(ctx context.Context, slotID int64) (int, error) {
	query, args, err := db.Psql.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID, "status": occupyingStatuses}).
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build occupancy count", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count occupied seats", err)
	}
	return n, nil
}

// ListExpiredPending returns unpaid pending bookings created before the cutoff.
func (r *BookingRepository) ListExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]shared.BookingRef, error) {
	query, args, err := db.Psql.Select("id", "slot_id").
		From("bookings").
		Where(squirrel.Eq{"status": string(booking.StatusPending)}).
		Where(squirrel.Or{
			squirrel.Eq{"payment_status": nil},
			squirrel.NotEq{"payment_status": string(booking.PaymentPaid)},
		}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		OrderBy("created_at ASC").
		Limit(uint64(max(limit, 1))).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build expired pending query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired pending bookings", err)
	}
	defer rows.Close()

	var refs []shared.BookingRef
	for rows.Next() {
		var ref shared.BookingRef
		if err := rows.Scan(&ref.ID, &ref.SlotID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking ref", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking refs", err)
	}
	return refs, nil
}

// ScanBooking reads the leading BookingColumns of a row.
func ScanBooking(row Scanner, extra ...any) (*booking.Snapshot, error) {
	var (
		s                   booking.Snapshot
		userID              pgtype.Int8
		phone, payStatus    pgtype.Text
		sessionID, intentID pgtype.Text
		cancelledAt         pgtype.Timestamptz
		status, level       string
	)
	dest := []any{
		&s.ID, &s.SlotID, &userID, &s.GuestName, &s.GuestEmail, &phone,
		&status, &payStatus, &sessionID, &intentID, &level,
		&s.CreatedAt, &s.UpdatedAt, &cancelledAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	s.UserID = pgconv.Int8PtrFromPgtype(userID)
	s.GuestPhone = pgconv.StringPtrFromPgtype(phone)
	s.Status = booking.Status(status)
	s.PaymentStatus = booking.PaymentStatusFromPtr(pgconv.StringPtrFromPgtype(payStatus))
	s.CheckoutSessionID = pgconv.StringPtrFromPgtype(sessionID)
	s.PaymentIntentID = pgconv.StringPtrFromPgtype(intentID)
	s.AdmissionLevel = admission.Level(level)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	s.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	return &s, nil
}
