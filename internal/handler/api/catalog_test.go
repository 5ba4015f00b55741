//go:build unit

package api_test

import (
	"context"
	"net/http"

	"studio-booking/internal/domain/catalog"
	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
	"studio-booking/internal/usecase/queries"
	"studio-booking/tests/common/httptest"

	"go.uber.org/mock/gomock"
)

func studioView(id int64) *queries.StudioView {
	return &queries.StudioView{
		ID:        id,
		OwnerID:   testUserID,
		Name:      "Lotus Studio",
		City:      ptr.Of("Berlin"),
		Amenities: []string{"wifi", "showers"},
		IsActive:  true,
	}
}

func (s *CatalogHandlerTestSuite) TestGetStudio() {
	s.Run("success: 200 with contact and location", func() {
		s.mockQueries.EXPECT().GetStudio(gomock.Any(), int64(3)).Return(studioView(3), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios/3", nil, "")

		var body resdto.StudioResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Berlin", *body.City)
		s.Equal([]string{"wifi", "showers"}, body.Amenities)
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetStudio(gomock.Any(), int64(9)).Return(nil, errs.ErrStudioNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios/9", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}

func (s *CatalogHandlerTestSuite) TestListStudios() {
	s.Run("success: default paging", func() {
		s.mockQueries.EXPECT().ListStudios(gomock.Any(), queries.StudioFilter{}.Normalize()).
			Return([]*queries.StudioView{studioView(1)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios", nil, "")

		var body resdto.StudioListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 1)
		s.Equal(queries.DefaultStudioListLimit, body.Limit)
	})

	s.Run("success: filters are normalized and forwarded", func() {
		yoga := catalog.CategoryYoga
		expected := queries.StudioFilter{
			OwnerID:   ptr.Of(testUserID),
			City:      ptr.Of("berlin"),
			Category:  &yoga,
			Amenities: []string{"wifi", "showers"},
			Skip:      10,
			Limit:     5,
		}
		s.mockQueries.EXPECT().ListStudios(gomock.Any(), expected).Return([]*queries.StudioView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/studios?owner_id=42&city=%20Berlin%20&category=yoga&amenities=wifi&amenities=showers&amenities=wifi&skip=10&limit=5", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on invalid query", func() {
		for _, q := range []string{"limit=101", "owner_id=0", "skip=-1"} {
			s.Run(q, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios?"+q, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
			})
		}
	})

	s.Run("error: unknown category is rejected by the query", func() {
		s.mockQueries.EXPECT().ListStudios(gomock.Any(), gomock.Any()).
			Return(nil, errs.Validationf("unknown category %q", "rowing")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios?category=rowing", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}

func (s *CatalogHandlerTestSuite) TestCountStudios() {
	s.Run("success: count with the list filters", func() {
		s.mockQueries.EXPECT().CountStudios(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f queries.StudioFilter) (int, error) {
				s.Require().NotNil(f.City)
				s.Equal("Berlin", *f.City)
				return 3, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios/count?city=Berlin", nil, "")

		var body resdto.CountResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(3, body.Count)
	})
}

func (s *CatalogHandlerTestSuite) TestUpdateStudio() {
	reqBody := reqdto.UpdateStudioRequest{City: ptr.Of("Berlin"), Amenities: &[]string{"wifi"}}

	s.Run("success: owner update returns the fresh view", func() {
		s.mockCommands.EXPECT().UpdateStudio(gomock.Any(), testUserID, int64(3), reqBody.ToParams()).Return(nil).Times(1)
		s.mockQueries.EXPECT().GetStudio(gomock.Any(), int64(3)).Return(studioView(3), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/studios/3", reqBody, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 403 for a non-owner", func() {
		s.mockCommands.EXPECT().UpdateStudio(gomock.Any(), testUserID, int64(3), gomock.Any()).Return(errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/studios/3", reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, httperr.CodeForbidden)
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/studios/3", reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	s.Run("error: 400 on validation errors", func() {
		for name, body := range map[string]map[string]any{
			"empty name":            {"name": ""},
			"latitude out of range": {"latitude": 91},
			"phone too long":        {"phone": "+49 30 1234 5678 9012 3"},
			"malformed email":       {"email": "nope"},
		} {
			s.Run(name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/studios/3", body, "token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
			})
		}
	})
}

func (s *CatalogHandlerTestSuite) TestSearch() {
	s.Run("success: parameters reach the query and results keep their services", func() {
		yoga := catalog.CategoryYoga
		expected := queries.SearchFilter{
			Query:     ptr.Of("flow"),
			Category:  &yoga,
			Latitude:  ptr.Of(52.5),
			Longitude: ptr.Of(13.4),
			RadiusKm:  ptr.Of(5.0),
			Amenities: []string{"wifi"},
		}
		results := []*queries.SearchResult{{
			Studio:          studioView(1),
			MatchedServices: []*queries.ServiceView{{ID: 4, StudioID: 1, Name: "Vinyasa Flow", Category: "yoga"}},
		}}
		s.mockQueries.EXPECT().Search(gomock.Any(), expected).Return(results, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/search?query=flow&category=yoga&lat=52.5&lng=13.4&radius_km=5&amenities=wifi", nil, "")

		var body []resdto.SearchResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 1)
		s.Equal(int64(1), body[0].Studio.ID)
		s.Require().Len(body[0].MatchedServices, 1)
		s.Equal("Vinyasa Flow", body[0].MatchedServices[0].Name)
	})

	s.Run("success: no matches is an empty array", func() {
		s.mockQueries.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]*queries.SearchResult{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/search?city=Nowhere", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.JSONEq("[]", rec.Body.String())
	})

	s.Run("error: 400 on invalid query", func() {
		for _, q := range []string{"lat=91&lng=0", "lng=-181&lat=0", "radius_km=-1", "limit=101"} {
			s.Run(q, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/search?"+q, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
			})
		}
	})
}
