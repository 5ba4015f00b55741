package repository

import (
	"context"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

var serviceColumns = []string{
	"id", "studio_id", "name", "description", "type", "category",
	"duration_minutes", "max_capacity",
	"soft_limit_ratio", "hard_limit_ratio", "max_overbooked_ratio",
	"price_single_cents", "price_course_cents", "is_active", "created_at", "updated_at",
}

// ServiceColumns qualifies the service columns with alias, in ScanService order.
func ServiceColumns(alias string) []string {
	if alias == "" {
		return serviceColumns
	}
	out := make([]string, len(serviceColumns))
	for i, c := range serviceColumns {
		out[i] = alias + "." + c
	}
	return out
}

type ServiceRepository struct {
	db db.DBTX
}

func NewServiceRepository(dbtx db.DBTX) *ServiceRepository {
	return &ServiceRepository{db: dbtx}
}

func (r *ServiceRepository) Create(ctx context.Context, s *catalog.Service) (int64, error) {
	query, args, err := db.Psql.Insert("services").
		Columns(serviceColumns[1:]...).
		Values(
			s.StudioID, s.Name, pgconv.StringPtrToPgtype(s.Description), string(s.Type), string(s.Category),
			s.DurationMinutes, s.MaxCapacity,
			s.Policy.SoftLimitRatio, s.Policy.HardLimitRatio, s.Policy.MaxOverbookedRatio,
			s.PriceSingleCents, pgconv.Int4PtrToPgtype(s.PriceCourseCents), s.IsActive, s.CreatedAt, s.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build service insert", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, infra.WrapRepoErr("failed to create service", err)
	}
	s.ID = id
	return id, nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*catalog.Service, error) {
	query, args, err := db.Psql.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build service select", err)
	}

	s, err := ScanService(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", errs.ErrServiceNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get service", err)
	}
	return s, nil
}

// Scanner is implemented by pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanService reads a row selected with serviceColumns.
func ScanService(row Scanner) (*catalog.Service, error) {
	var (
		s           catalog.Service
		description pgtype.Text
		course      pgtype.Int4
		typ, cat    string
	)
	err := row.Scan(
		&s.ID, &s.StudioID, &s.Name, &description, &typ, &cat,
		&s.DurationMinutes, &s.MaxCapacity,
		&s.Policy.SoftLimitRatio, &s.Policy.HardLimitRatio, &s.Policy.MaxOverbookedRatio,
		&s.PriceSingleCents, &course, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Description = pgconv.StringPtrFromPgtype(description)
	s.PriceCourseCents = pgconv.Int4PtrFromPgtype(course)
	s.Type = catalog.ServiceType(typ)
	s.Category = catalog.Category(cat)
	return &s, nil
}

// PolicyColumns selects a service's ratios, or the defaults for slots without one.
func PolicyColumns(alias string) []string {
	def := admission.DefaultPolicy()
	return []string{
		coalesceFloat(alias+".soft_limit_ratio", def.SoftLimitRatio),
		coalesceFloat(alias+".hard_limit_ratio", def.HardLimitRatio),
		coalesceFloat(alias+".max_overbooked_ratio", def.MaxOverbookedRatio),
	}
}

func coalesceFloat(col string, def float64) string {
	return "COALESCE(" + col + ", " + strconvFloat(def) + ")"
}
