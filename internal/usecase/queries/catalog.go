package queries

import (
	"context"

	"studio-booking/internal/pkg/errs"
)

type CatalogQueries interface {
	GetService(ctx context.Context, id int64) (*ServiceView, error)
	GetStudio(ctx context.Context, id int64) (*StudioView, error)
	ListStudios(ctx context.Context, f StudioFilter) ([]*StudioView, error)
	CountStudios(ctx context.Context, f StudioFilter) (int, error)
	// Search returns active studios with at least one matching active
	// service, each with the services of the requested category.
	Search(ctx context.Context, f SearchFilter) ([]*SearchResult, error)
}

type catalogQueriesImpl struct {
	store CatalogReadStore
}

func NewCatalogQueries(store CatalogReadStore) CatalogQueries {
	return &catalogQueriesImpl{store: store}
}

func (q *catalogQueriesImpl) GetService(ctx context.Context, id int64) (*ServiceView, error) {
	svc, err := q.store.FindService(ctx, id)
	if err != nil {
		return nil, errs.Wrap(err, "find service")
	}
	return NewServiceView(svc), nil
}

func (q *catalogQueriesImpl) GetStudio(ctx context.Context, id int64) (*StudioView, error) {
	st, err := q.store.FindStudio(ctx, id)
	if err != nil {
		return nil, errs.Wrap(err, "find studio")
	}
	return NewStudioView(st), nil
}

func (q *catalogQueriesImpl) ListStudios(ctx context.Context, f StudioFilter) ([]*StudioView, error) {
	f = f.Normalize()
	if err := f.validate(); err != nil {
		return nil, err
	}
	studios, err := q.store.ListStudios(ctx, f)
	if err != nil {
		return nil, errs.Wrap(err, "list studios")
	}
	views := make([]*StudioView, len(studios))
	for i, st := range studios {
		views[i] = NewStudioView(st)
	}
	return views, nil
}

func (q *catalogQueriesImpl) CountStudios(ctx context.Context, f StudioFilter) (int, error) {
	f = f.Normalize()
	if err := f.validate(); err != nil {
		return 0, err
	}
	n, err := q.store.CountStudios(ctx, f)
	if err != nil {
		return 0, errs.Wrap(err, "count studios")
	}
	return n, nil
}

func (q *catalogQueriesImpl) Search(ctx context.Context, sf SearchFilter) ([]*SearchResult, error) {
	if (sf.Latitude == nil) != (sf.Longitude == nil) {
		return nil, errs.Validationf("lat and lng must be given together")
	}
	if sf.RadiusKm != nil && *sf.RadiusKm < 0 {
		return nil, errs.Validationf("radius_km must not be negative")
	}
	f := sf.StudioFilter()
	if err := f.validate(); err != nil {
		return nil, err
	}
	studios, err := q.store.ListStudios(ctx, f)
	if err != nil {
		return nil, errs.Wrap(err, "search studios")
	}
	results := make([]*SearchResult, 0, len(studios))
	if len(studios) == 0 {
		return results, nil
	}

	ids := make([]int64, len(studios))
	for i, st := range studios {
		ids[i] = st.ID
	}
	services, err := q.store.ListActiveServices(ctx, ids, f.Category)
	if err != nil {
		return nil, errs.Wrap(err, "list matched services")
	}
	byStudio := make(map[int64][]*ServiceView, len(studios))
	for _, svc := range services {
		byStudio[svc.StudioID] = append(byStudio[svc.StudioID], NewServiceView(svc))
	}
	for _, st := range studios {
		matched := byStudio[st.ID]
		if matched == nil {
			matched = []*ServiceView{}
		}
		results = append(results, &SearchResult{Studio: NewStudioView(st), MatchedServices: matched})
	}
	return results, nil
}
