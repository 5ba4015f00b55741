package readstore

import (
	"context"
	"encoding/json"

	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/infra/repository"
	"studio-booking/internal/usecase/queries"

	"github.com/Masterminds/squirrel"
)

// CatalogReadStore serves studios and services outside a transaction.
type CatalogReadStore struct {
	db       db.DBTX
	studios  *repository.StudioRepository
	services *repository.ServiceRepository
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{
		db:       dbtx,
		studios:  repository.NewStudioRepository(dbtx),
		services: repository.NewServiceRepository(dbtx),
	}
}

func (r *CatalogReadStore) FindService(ctx context.Context, id int64) (*catalog.Service, error) {
	return r.services.GetByID(ctx, id)
}

func (r *CatalogReadStore) FindStudio(ctx context.Context, id int64) (*studio.Studio, error) {
	return r.studios.GetByID(ctx, id)
}

func (r *CatalogReadStore) ListStudios(ctx context.Context, f queries.StudioFilter) ([]*studio.Studio, error) {
	f = f.Normalize()
	q, err := studioConditions(db.Psql.Select(repository.StudioColumns("st")...).From("studios st"), f)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build studio filter", err)
	}
	query, args, err := q.OrderBy("st.created_at DESC", "st.id DESC").
		Offset(uint64(f.Skip)).
		Limit(uint64(f.Limit)).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build studio list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list studios", err)
	}
	defer rows.Close()

	result := make([]*studio.Studio, 0, f.Limit)
	for rows.Next() {
		st, err := repository.ScanStudio(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan studio", err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate studios", err)
	}
	return result, nil
}

func (r *CatalogReadStore) CountStudios(ctx context.Context, f queries.StudioFilter) (int, error) {
	q, err := studioConditions(db.Psql.Select("COUNT(*)").From("studios st"), f.Normalize())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build studio filter", err)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build studio count query", err)
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count studios", err)
	}
	return n, nil
}

func (r *CatalogReadStore) ListActiveServices(ctx context.Context, studioIDs []int64, category *catalog.Category) ([]*catalog.Service, error) {
	if len(studioIDs) == 0 {
		return []*catalog.Service{}, nil
	}
	q := db.Psql.Select(repository.ServiceColumns("")...).
		From("services").
		Where(squirrel.Eq{"studio_id": studioIDs, "is_active": true})
	if category != nil {
		q = q.Where(squirrel.Eq{"category": string(*category)})
	}
	query, args, err := q.OrderBy("studio_id", "id").ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build service list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list services", err)
	}
	defer rows.Close()

	result := make([]*catalog.Service, 0)
	for rows.Next() {
		svc, err := repository.ScanService(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan service", err)
		}
		result = append(result, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate services", err)
	}
	return result, nil
}

// studioConditions applies f to a query over "studios st". Service filters
// become an EXISTS over the studio's active services so studios never repeat.
func studioConditions(q squirrel.SelectBuilder, f queries.StudioFilter) (squirrel.SelectBuilder, error) {
	if f.OwnerID != nil {
		q = q.Where(squirrel.Eq{"st.owner_id": *f.OwnerID})
	}
	if f.IsActive != nil {
		q = q.Where(squirrel.Eq{"st.is_active": *f.IsActive})
	}
	if f.City != nil {
		q = q.Where(squirrel.Expr("lower(st.city) = ?", *f.City))
	}
	for _, a := range f.Amenities {
		one, err := json.Marshal([]string{a})
		if err != nil {
			return q, err
		}
		q = q.Where(squirrel.Expr("st.amenities @> ?::jsonb", string(one)))
	}
	if n := f.Near; n != nil {
		d := n.DeltaDegrees()
		q = q.Where(squirrel.And{
			squirrel.NotEq{"st.latitude": nil},
			squirrel.NotEq{"st.longitude": nil},
			squirrel.Expr("abs(st.latitude - ?) <= ?", n.Latitude, d),
			squirrel.Expr("abs(st.longitude - ?) <= ?", n.Longitude, d),
		})
	}
	if f.NeedsServices() {
		sub := squirrel.Select("1").
			From("services sv").
			Where("sv.studio_id = st.id").
			Where(squirrel.Eq{"sv.is_active": true})
		if f.Category != nil {
			sub = sub.Where(squirrel.Eq{"sv.category": string(*f.Category)})
		}
		if f.Query != nil {
			pattern := "%" + *f.Query + "%"
			sub = sub.Where(squirrel.Or{
				squirrel.ILike{"sv.name": pattern},
				squirrel.ILike{"st.name": pattern},
			})
		}
		q = q.Where(squirrel.Expr("EXISTS (?)", sub))
	}
	return q, nil
}
