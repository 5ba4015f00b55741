package repository

import (
	"context"
	"encoding/json"

	"studio-booking/internal/domain/studio"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/pgconv"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

var studioColumns = []string{
	"id", "owner_id", "name", "description", "email", "phone", "address", "city",
	"latitude", "longitude", "amenities", "is_active", "created_at", "updated_at",
}

// StudioColumns qualifies the studio columns with alias, in ScanStudio order.
func StudioColumns(alias string) []string {
	if alias == "" {
		return studioColumns
	}
	out := make([]string, len(studioColumns))
	for i, c := range studioColumns {
		out[i] = alias + "." + c
	}
	return out
}

type StudioRepository struct {
	db db.DBTX
}

func NewStudioRepository(dbtx db.DBTX) *StudioRepository {
	return &StudioRepository{db: dbtx}
}

func (r *StudioRepository) Create(ctx context.Context, s *studio.Studio) (int64, error) {
	amenities, err := marshalAmenities(s.Amenities)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to encode studio amenities", err)
	}
	query, args, err := db.Psql.Insert("studios").
		Columns(studioColumns[1:]...).
		Values(
			s.OwnerID, s.Name, pgconv.StringPtrToPgtype(s.Description), pgconv.StringPtrToPgtype(s.Email),
			pgconv.StringPtrToPgtype(s.Phone), pgconv.StringPtrToPgtype(s.Address), pgconv.StringPtrToPgtype(s.City),
			pgconv.Float8PtrToPgtype(s.Latitude), pgconv.Float8PtrToPgtype(s.Longitude), amenities,
			s.IsActive, s.CreatedAt, s.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build studio insert", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, infra.WrapRepoErr("failed to create studio", err)
	}
	s.ID = id
	return id, nil
}

func (r *StudioRepository) GetByID(ctx context.Context, id int64) (*studio.Studio, error) {
	query, args, err := db.Psql.Select(studioColumns...).
		From("studios").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build studio select", err)
	}

	s, err := ScanStudio(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("studio not found", errs.ErrStudioNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get studio", err)
	}
	return s, nil
}

func (r *StudioRepository) Update(ctx context.Context, s *studio.Studio) error {
	amenities, err := marshalAmenities(s.Amenities)
	if err != nil {
		return infra.WrapRepoErr("failed to encode studio amenities", err)
	}
	query, args, err := db.Psql.Update("studios").
		SetMap(map[string]any{
			"name":        s.Name,
			"description": pgconv.StringPtrToPgtype(s.Description),
			"email":       pgconv.StringPtrToPgtype(s.Email),
			"phone":       pgconv.StringPtrToPgtype(s.Phone),
			"address":     pgconv.StringPtrToPgtype(s.Address),
			"city":        pgconv.StringPtrToPgtype(s.City),
			"latitude":    pgconv.Float8PtrToPgtype(s.Latitude),
			"longitude":   pgconv.Float8PtrToPgtype(s.Longitude),
			"amenities":   amenities,
			"is_active":   s.IsActive,
			"updated_at":  s.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build studio update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update studio", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("studio not found", errs.ErrStudioNotFound, infra.KindNotFound)
	}
	return nil
}

// ScanStudio reads a row selected with studioColumns.
func ScanStudio(row Scanner) (*studio.Studio, error) {
	var (
		s                                        studio.Studio
		description, email, phone, address, city pgtype.Text
		lat, lng                                 pgtype.Float8
		amenities                                []byte
	)
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &description, &email, &phone, &address, &city,
		&lat, &lng, &amenities, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Description = pgconv.StringPtrFromPgtype(description)
	s.Email = pgconv.StringPtrFromPgtype(email)
	s.Phone = pgconv.StringPtrFromPgtype(phone)
	s.Address = pgconv.StringPtrFromPgtype(address)
	s.City = pgconv.StringPtrFromPgtype(city)
	s.Latitude = pgconv.Float8PtrFromPgtype(lat)
	s.Longitude = pgconv.Float8PtrFromPgtype(lng)
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &s.Amenities); err != nil {
			return nil, err
		}
	}
	if s.Amenities == nil {
		s.Amenities = []string{}
	}
	return &s, nil
}

func marshalAmenities(a []string) ([]byte, error) {
	if a == nil {
		a = []string{}
	}
	return json.Marshal(a)
}
