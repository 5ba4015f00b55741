package readstore

import (
	"context"
	"strings"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/infra/repository"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/pgconv"
	"studio-booking/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func bookingRecordQuery() squirrel.SelectBuilder {
	cols := repository.BookingColumns("b")
	cols = append(cols, "s.title", "s.start_time", "s.end_time", "s.studio_id")
	return db.Psql.Select(cols...).
		From("bookings b").
		Join("slots s ON s.id = b.slot_id")
}

func (r *BookingReadStore) FindBooking(ctx context.Context, id int64) (*queries.BookingRecord, error) {
	query, args, err := bookingRecordQuery().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking view query", err)
	}

	rec, err := scanBookingRecord(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", errs.ErrBookingNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return rec, nil
}

// ListBookings returns bookings newest first.
func (r *BookingReadStore) ListBookings(ctx context.Context, f queries.BookingFilter) ([]*queries.BookingRecord, error) {
	f = f.Normalize()
	query, args, err := bookingConditions(bookingRecordQuery(), f).OrderBy("b.created_at DESC", "b.id DESC").
		Offset(uint64(f.Skip)).
		Limit(uint64(f.Limit)).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build booking list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	result := make([]*queries.BookingRecord, 0, f.Limit)
	for rows.Next() {
		rec, err := scanBookingRecord(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return result, nil
}

func (r *BookingReadStore) CountBookings(ctx context.Context, f queries.BookingFilter) (int, error) {
	query, args, err := bookingConditions(db.Psql.Select("COUNT(*)").From("bookings b"), f).ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build booking count query", err)
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count bookings", err)
	}
	return n, nil
}

func bookingConditions(q squirrel.SelectBuilder, f queries.BookingFilter) squirrel.SelectBuilder {
	if f.SlotID != nil {
		q = q.Where(squirrel.Eq{"b.slot_id": *f.SlotID})
	}
	if f.UserID != nil {
		q = q.Where(squirrel.Eq{"b.user_id": *f.UserID})
	}
	if f.GuestEmail != nil {
		q = q.Where(squirrel.Eq{"b.guest_email": strings.ToLower(strings.TrimSpace(*f.GuestEmail))})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"b.status": string(*f.Status)})
	}
	return q
}

func scanBookingRecord(row repository.Scanner) (*queries.BookingRecord, error) {
	var rec queries.BookingRecord
	snap, err := repository.ScanBooking(row, &rec.SlotTitle, &rec.SlotStart, &rec.SlotEnd, &rec.StudioID)
	if err != nil {
		return nil, err
	}
	rec.Booking = *snap
	rec.SlotStart = rec.SlotStart.UTC()
	rec.SlotEnd = rec.SlotEnd.UTC()
	return &rec, nil
}
