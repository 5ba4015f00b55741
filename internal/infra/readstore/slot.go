package readstore

import (
	"context"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/infra/repository"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/pgconv"
	"studio-booking/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

const occupiedSubquery = "(SELECT COUNT(*) FROM bookings b WHERE b.slot_id = s.id AND b.status IN ('pending', 'confirmed'))"

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

func slotRecordQuery() squirrel.SelectBuilder {
	cols := repository.SlotColumns("s")
	cols = append(cols, "svc.name", "svc.category")
	cols = append(cols, repository.PolicyColumns("svc")...)
	cols = append(cols, occupiedSubquery)
	return db.Psql.Select(cols...).
		From("slots s").
		LeftJoin("services svc ON svc.id = s.service_id")
}

func (r *SlotReadStore) FindSlot(ctx context.Context, id int64) (*queries.SlotRecord, error) {
	query, args, err := slotRecordQuery().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot view query", err)
	}

	rec, err := scanSlotRecord(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", errs.ErrSlotNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot", err)
	}
	return rec, nil
}

func (r *SlotReadStore) ListStudioSlots(ctx context.Context, studioID int64, f queries.SlotFilter) ([]*queries.SlotRecord, error) {
	q := slotRecordQuery().Where(squirrel.Eq{"s.studio_id": studioID})
	if f.StartFrom != nil {
		q = q.Where(squirrel.GtOrEq{"s.start_time": *f.StartFrom})
	}
	if f.StartTo != nil {
		q = q.Where(squirrel.LtOrEq{"s.start_time": *f.StartTo})
	}
	if f.IsActive != nil {
		q = q.Where(squirrel.Eq{"s.is_active": *f.IsActive})
	}
	query, args, err := q.OrderBy("s.start_time ASC", "s.id ASC").ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build studio slots query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list studio slots", err)
	}
	defer rows.Close()

	result := make([]*queries.SlotRecord, 0)
	for rows.Next() {
		rec, err := scanSlotRecord(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slots", err)
	}
	return result, nil
}

func (r *SlotReadStore) CountOccupied(ctx context.Context, slotID int64) (int, error) {
	return repository.NewBookingRepository(r.db).CountOccupied(ctx, slotID)
}

func scanSlotRecord(row repository.Scanner) (*queries.SlotRecord, error) {
	var (
		rec       queries.SlotRecord
		name, cat pgtype.Text
	)
	s, err := repository.ScanSlot(row,
		&name, &cat,
		&rec.Policy.SoftLimitRatio, &rec.Policy.HardLimitRatio, &rec.Policy.MaxOverbookedRatio,
		&rec.Occupied,
	)
	if err != nil {
		return nil, err
	}
	rec.Slot = *s
	rec.ServiceName = pgconv.StringPtrFromPgtype(name)
	rec.ServiceCategory = pgconv.StringPtrFromPgtype(cat)
	return &rec, nil
}
