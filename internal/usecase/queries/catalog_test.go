//go:build unit

package queries_test

import (
	"context"
	"testing"

	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/infra/memstore"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
	"studio-booking/internal/usecase/queries"
	"studio-booking/tests/common/builder"

	"github.com/stretchr/testify/suite"
)

type CatalogQueriesTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	q     queries.CatalogQueries

	lotus, ironhouse, closed, faraway int64
}

func (s *CatalogQueriesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.q = queries.NewCatalogQueries(s.store)

	s.lotus = builder.NewStudioBuilder().
		WithOwner(1).
		WithName("Lotus Studio").
		InCity("Berlin").
		At(52.52, 13.40).
		WithAmenities("wifi", "showers").
		Create(s.T(), s.store)
	s.ironhouse = builder.NewStudioBuilder().
		WithOwner(2).
		WithName("Iron House").
		InCity("berlin").
		At(52.50, 13.45).
		WithAmenities("showers").
		Create(s.T(), s.store)
	s.closed = builder.NewStudioBuilder().
		WithOwner(1).
		WithName("Closed Flow").
		InCity("Berlin").
		Inactive().
		Create(s.T(), s.store)
	s.faraway = builder.NewStudioBuilder().
		WithOwner(3).
		WithName("Harbor Yoga").
		InCity("Hamburg").
		At(53.55, 9.99).
		WithAmenities("wifi").
		Create(s.T(), s.store)

	s.service(s.lotus, "Vinyasa Flow", catalog.CategoryYoga, true)
	s.service(s.lotus, "Morning HIIT", catalog.CategoryHIIT, true)
	s.service(s.ironhouse, "Heavy Bag", catalog.CategoryBoxing, true)
	s.service(s.ironhouse, "Power Yoga", catalog.CategoryYoga, false)
	s.service(s.closed, "Slow Flow", catalog.CategoryYoga, true)
	s.service(s.faraway, "Yin", catalog.CategoryYoga, true)
}

func TestCatalogQueriesSuite(t *testing.T) {
	suite.Run(t, new(CatalogQueriesTestSuite))
}

func (s *CatalogQueriesTestSuite) service(studioID int64, name string, cat catalog.Category, active bool) int64 {
	return builder.NewServiceBuilder().
		WithStudio(studioID).
		With(func(b *builder.ServiceBuilder) {
			b.Name = name
			b.Category = cat
			b.IsActive = active
		}).
		Create(s.T(), s.store)
}

func studioIDs(views []*queries.StudioView) []int64 {
	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func resultIDs(results []*queries.SearchResult) []int64 {
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.Studio.ID
	}
	return ids
}

func (s *CatalogQueriesTestSuite) TestListStudios() {
	tests := []struct {
		name   string
		filter queries.StudioFilter
		want   []int64
	}{
		{"all newest first", queries.StudioFilter{}, []int64{s.faraway, s.closed, s.ironhouse, s.lotus}},
		{"by owner", queries.StudioFilter{OwnerID: ptr.Of(int64(1))}, []int64{s.closed, s.lotus}},
		{"active only", queries.StudioFilter{IsActive: ptr.Of(true)}, []int64{s.faraway, s.ironhouse, s.lotus}},
		{"city ignores case and padding", queries.StudioFilter{City: ptr.Of(" BERLIN ")}, []int64{s.closed, s.ironhouse, s.lotus}},
		{"every amenity must be present", queries.StudioFilter{Amenities: []string{"wifi", "showers"}}, []int64{s.lotus}},
		{"paging", queries.StudioFilter{Skip: 1, Limit: 2}, []int64{s.closed, s.ironhouse}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			views, err := s.q.ListStudios(s.ctx, tt.filter)
			s.Require().NoError(err)
			s.Equal(tt.want, studioIDs(views))
		})
	}

	s.Run("unknown category is rejected", func() {
		rowing := catalog.Category("rowing")
		_, err := s.q.ListStudios(s.ctx, queries.StudioFilter{Category: &rowing})
		s.ErrorIs(err, errs.ErrValidation)
	})
}

func (s *CatalogQueriesTestSuite) TestCountStudios() {
	n, err := s.q.CountStudios(s.ctx, queries.StudioFilter{City: ptr.Of("berlin")})
	s.Require().NoError(err)
	s.Equal(3, n)

	n, err = s.q.CountStudios(s.ctx, queries.StudioFilter{City: ptr.Of("berlin"), IsActive: ptr.Of(true), Limit: 1})
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *CatalogQueriesTestSuite) TestSearch() {
	s.Run("query matches service or studio names of active studios", func() {
		results, err := s.q.Search(s.ctx, queries.SearchFilter{Query: ptr.Of("flow")})
		s.Require().NoError(err)
		s.Equal([]int64{s.lotus}, resultIDs(results))
	})

	s.Run("studio name matches too", func() {
		results, err := s.q.Search(s.ctx, queries.SearchFilter{Query: ptr.Of("iron")})
		s.Require().NoError(err)
		s.Equal([]int64{s.ironhouse}, resultIDs(results))
	})

	s.Run("category narrows studios and matched services", func() {
		yoga := catalog.CategoryYoga
		results, err := s.q.Search(s.ctx, queries.SearchFilter{Category: &yoga, City: ptr.Of("Berlin")})
		s.Require().NoError(err)
		s.Require().Equal([]int64{s.lotus}, resultIDs(results))
		s.Require().Len(results[0].MatchedServices, 1)
		s.Equal("Vinyasa Flow", results[0].MatchedServices[0].Name)
	})

	s.Run("without a category every active service is listed", func() {
		results, err := s.q.Search(s.ctx, queries.SearchFilter{Amenities: []string{"showers"}})
		s.Require().NoError(err)
		s.Require().Equal([]int64{s.ironhouse, s.lotus}, resultIDs(results))
		s.Len(results[0].MatchedServices, 1)
		s.Len(results[1].MatchedServices, 2)
	})

	s.Run("geo window keeps nearby studios", func() {
		results, err := s.q.Search(s.ctx, queries.SearchFilter{
			Latitude:  ptr.Of(52.52),
			Longitude: ptr.Of(13.40),
			RadiusKm:  ptr.Of(10.0),
		})
		s.Require().NoError(err)
		s.Equal([]int64{s.ironhouse, s.lotus}, resultIDs(results))
	})

	s.Run("default radius applies when omitted", func() {
		results, err := s.q.Search(s.ctx, queries.SearchFilter{Latitude: ptr.Of(53.55), Longitude: ptr.Of(9.99)})
		s.Require().NoError(err)
		s.Equal([]int64{s.faraway}, resultIDs(results))
	})

	s.Run("no match is an empty list", func() {
		results, err := s.q.Search(s.ctx, queries.SearchFilter{City: ptr.Of("Munich")})
		s.Require().NoError(err)
		s.NotNil(results)
		s.Empty(results)
	})

	s.Run("invalid parameters", func() {
		for name, f := range map[string]queries.SearchFilter{
			"lat without lng":  {Latitude: ptr.Of(52.0)},
			"lng without lat":  {Longitude: ptr.Of(13.0)},
			"negative radius":  {RadiusKm: ptr.Of(-1.0)},
			"latitude too far": {Latitude: ptr.Of(91.0), Longitude: ptr.Of(0.0)},
		} {
			s.Run(name, func() {
				_, err := s.q.Search(s.ctx, f)
				s.ErrorIs(err, errs.ErrValidation)
			})
		}
	})
}
