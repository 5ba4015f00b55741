package repository

import (
	"context"
	"strconv"

	"studio-booking/internal/domain/slot"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

// SlotColumns is the column list ScanSlot expects, qualified by alias.
func SlotColumns(alias string) []string {
	cols := []string{
		"id", "studio_id", "service_id", "title", "description", "start_time", "end_time",
		"max_capacity", "price_cents", "course_price_cents", "is_active", "created_at", "updated_at",
	}
	if alias == "" {
		return cols
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return cols
}

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(dbtx db.DBTX) *SlotRepository {
	return &SlotRepository{db: dbtx}
}

func (r *SlotRepository) Create(ctx context.Context, s *slot.Slot) (int64, error) {
	query, args, err := db.Psql.Insert("slots").
		Columns(SlotColumns("")[1:]...).
		Values(
			s.StudioID, pgconv.Int8PtrToPgtype(s.ServiceID), s.Title, pgconv.StringPtrToPgtype(s.Description),
			s.StartTime, s.EndTime, s.MaxCapacity, s.PriceCents, pgconv.Int4PtrToPgtype(s.CoursePriceCents),
			s.IsActive, s.CreatedAt, s.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build slot insert", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, infra.WrapRepoErr("failed to create slot", err)
	}
	s.ID = id
	return id, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*slot.Slot, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate holds the slot row lock until the transaction ends.
func (r *SlotRepository) GetForUpdate(ctx context.Context, id int64) (*slot.Slot, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *SlotRepository) get(ctx context.Context, id int64, suffix string) (*slot.Slot, error) {
	q := db.Psql.Select(SlotColumns("")...).
		From("slots").
		Where(squirrel.Eq{"id": id})
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot select", err)
	}

	s, err := ScanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", errs.ErrSlotNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get slot", err)
	}
	return s, nil
}

func (r *SlotRepository) Update(ctx context.Context, s *slot.Slot) error {
	query, args, err := db.Psql.Update("slots").
		SetMap(map[string]any{
			"title":              s.Title,
			"description":        pgconv.StringPtrToPgtype(s.Description),
			"start_time":         s.StartTime,
			"end_time":           s.EndTime,
			"max_capacity":       s.MaxCapacity,
			"price_cents":        s.PriceCents,
			"course_price_cents": pgconv.Int4PtrToPgtype(s.CoursePriceCents),
			"is_active":          s.IsActive,
			"updated_at":         s.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build slot update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot not found", errs.ErrSlotNotFound, infra.KindNotFound)
	}
	return nil
}

// ScanSlot reads the leading SlotColumns of a row.
func ScanSlot(row Scanner, extra ...any) (*slot.Slot, error) {
	var (
		s           slot.Slot
		serviceID   pgtype.Int8
		description pgtype.Text
		course      pgtype.Int4
	)
	dest := []any{
		&s.ID, &s.StudioID, &serviceID, &s.Title, &description, &s.StartTime, &s.EndTime,
		&s.MaxCapacity, &s.PriceCents, &course, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	s.ServiceID = pgconv.Int8PtrFromPgtype(serviceID)
	s.Description = pgconv.StringPtrFromPgtype(description)
	s.CoursePriceCents = pgconv.Int4PtrFromPgtype(course)
	s.StartTime = s.StartTime.UTC()
	s.EndTime = s.EndTime.UTC()
	return &s, nil
}

func strconvFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
