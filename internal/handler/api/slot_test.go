//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"studio-booking/internal/domain/slot"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/handler/api"
	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"
	"studio-booking/tests/common/builder"
	"studio-booking/tests/common/httptest"
	"studio-booking/tests/common/testutil"
	commandsmock "studio-booking/tests/mock/commands"
	queriesmock "studio-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCatalogCommands
	mockSlots    *queriesmock.MockSlotQueries
	mockBookings *queriesmock.MockBookingQueries
	handler      *api.SlotHandler
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCatalogCommands(s.mockCtrl)
	s.mockSlots = queriesmock.NewMockSlotQueries(s.mockCtrl)
	s.mockBookings = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewSlotHandler(s.mockCommands, s.mockSlots, s.mockBookings)

	s.router.GET("/slots/:id", s.handler.Get)
	s.router.GET("/studios/:id/slots", s.handler.ListByStudio)
	s.router.GET("/slots/:id/bookings", fakeRequireAuth, s.handler.ListBookings)
	s.router.POST("/slots", fakeRequireAuth, s.handler.Create)
	s.router.PATCH("/slots/:id", fakeRequireAuth, s.handler.Update)
	s.router.DELETE("/slots/:id", fakeRequireAuth, s.handler.Delete)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

func slotView(id int64) *queries.SlotView {
	start := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	return &queries.SlotView{
		ID:             id,
		StudioID:       1,
		Title:          "Morning Flow",
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
		MaxCapacity:    10,
		IsActive:       true,
		BookingsCount:  9,
		AvailableSpots: 1,
		CapacityLevel:  "near_capacity",
		LowSpots:       true,
	}
}

func (s *SlotHandlerTestSuite) TestGet() {
	s.Run("success: availability projection is exposed", func() {
		s.mockSlots.EXPECT().GetSlot(gomock.Any(), int64(3)).Return(slotView(3), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/3", nil, "")

		var body resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(9, body.BookingsCount)
		s.Equal(1, body.AvailableSpots)
		s.Equal("near_capacity", body.CapacityLevel)
		s.True(body.LowSpots)
	})

	s.Run("error: 404 when missing", func() {
		s.mockSlots.EXPECT().GetSlot(gomock.Any(), int64(4)).Return(nil, errs.ErrSlotNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/4", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}

func (s *SlotHandlerTestSuite) TestListByStudio() {
	s.Run("success: time window and active flag are forwarded", func() {
		from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		active := true
		s.mockSlots.EXPECT().ListStudioSlots(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ any, _ int64, f queries.SlotFilter) ([]*queries.SlotView, error) {
				s.Require().NotNil(f.StartFrom)
				s.True(from.Equal(*f.StartFrom))
				s.Nil(f.StartTo)
				s.Equal(&active, f.IsActive)
				return []*queries.SlotView{slotView(3), slotView(4)}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios/1/slots?start_from=2030-01-01T00:00:00Z&is_active=true", nil, "")

		var body []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
	})

	s.Run("error: 400 on malformed time", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/studios/1/slots?start_from=yesterday", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}

func (s *SlotHandlerTestSuite) TestListBookings() {
	s.Run("success: owner sees the roster", func() {
		s.mockBookings.EXPECT().ListBySlot(gomock.Any(), testUserID, int64(3)).
			Return([]*queries.BookingView{builder.NewBookingBuilder().ForSlot(3).BuildView(1)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/3/bookings", nil, "token")

		var body []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("error: 403 for someone else's studio", func() {
		s.mockBookings.EXPECT().ListBySlot(gomock.Any(), testUserID, int64(3)).Return(nil, errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/3/bookings", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, httperr.CodeForbidden)
	})

	s.Run("error: 401 when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/3/bookings", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})
}

func (s *SlotHandlerTestSuite) TestCreate() {
	start := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	reqBody := reqdto.CreateSlotRequest{
		StudioID:    1,
		ServiceID:   ptr.Of(int64(2)),
		Title:       "Morning Flow",
		StartTime:   start,
		MaxCapacity: ptr.Of(12),
	}

	s.Run("success: 201", func() {
		s.mockCommands.EXPECT().CreateSlot(gomock.Any(), testUserID, gomock.Any()).
			DoAndReturn(func(_ any, _ int64, in commands.CreateSlotInput) (int64, error) {
				s.Equal(int64(1), in.StudioID)
				s.Equal(ptr.Of(int64(2)), in.ServiceID)
				s.Equal(ptr.Of(12), in.MaxCapacity)
				s.True(start.Equal(in.StartTime))
				s.Nil(in.EndTime)
				return 3, nil
			}).Times(1)
		s.mockSlots.EXPECT().GetSlot(gomock.Any(), int64(3)).Return(slotView(3), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/slots", reqBody, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing field: studio_id", mutate: testutil.Field("studio_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: start_time", mutate: testutil.Field("start_time", nil), expectCode: http.StatusBadRequest},
			{name: "max_capacity boundary invalid (0)", mutate: testutil.Field("max_capacity", 0), expectCode: http.StatusBadRequest},
			{name: "price_cents negative", mutate: testutil.Field("price_cents", -1), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/slots", testutil.DtoMap(s.T(), reqBody, tc.mutate), "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, httperr.CodeValidation)
			})
		}
	})

	s.Run("error: 403 when not the studio owner", func() {
		s.mockCommands.EXPECT().CreateSlot(gomock.Any(), testUserID, gomock.Any()).Return(int64(0), errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/slots", reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, httperr.CodeForbidden)
	})
}

func (s *SlotHandlerTestSuite) TestUpdate() {
	s.Run("success: only sent fields are applied", func() {
		expected := slot.UpdateParams{MaxCapacity: ptr.Of(20), IsActive: ptr.Of(false)}
		s.mockCommands.EXPECT().UpdateSlot(gomock.Any(), testUserID, int64(3), expected).Return(nil).Times(1)
		s.mockSlots.EXPECT().GetSlot(gomock.Any(), int64(3)).Return(slotView(3), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/slots/3",
			map[string]any{"max_capacity": 20, "is_active": false}, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: domain validation surfaces as 400", func() {
		s.mockCommands.EXPECT().UpdateSlot(gomock.Any(), testUserID, int64(3), gomock.Any()).
			Return(errs.Validationf("end_time must be after start_time")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/slots/3",
			map[string]any{"title": "Evening Flow"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}

func (s *SlotHandlerTestSuite) TestDelete() {
	s.Run("success: 204", func() {
		s.mockCommands.EXPECT().DeactivateSlot(gomock.Any(), testUserID, int64(3)).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/slots/3", nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when missing", func() {
		s.mockCommands.EXPECT().DeactivateSlot(gomock.Any(), testUserID, int64(8)).Return(errs.ErrSlotNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/slots/8", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}

type CatalogHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCatalogCommands
	mockQueries  *queriesmock.MockCatalogQueries
}

func (s *CatalogHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCatalogCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCatalogQueries(s.mockCtrl)
	h := api.NewCatalogHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/studios", fakeRequireAuth, h.CreateStudio)
	s.router.GET("/studios", h.ListStudios)
	s.router.GET("/studios/count", h.CountStudios)
	s.router.GET("/studios/:id", h.GetStudio)
	s.router.PATCH("/studios/:id", fakeRequireAuth, h.UpdateStudio)
	s.router.GET("/search", h.Search)
	s.router.POST("/studios/:id/services", fakeRequireAuth, h.CreateService)
	s.router.GET("/services/:id", h.GetService)
}

func (s *CatalogHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCatalogHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogHandlerTestSuite))
}

func (s *CatalogHandlerTestSuite) TestCreateStudio() {
	s.Run("success: caller becomes the owner", func() {
		s.mockCommands.EXPECT().CreateStudio(gomock.Any(), studio.NewStudioParams{OwnerID: testUserID, Name: "Lotus Studio"}).
			Return(int64(1), nil).Times(1)
		s.mockQueries.EXPECT().GetStudio(gomock.Any(), int64(1)).
			Return(&queries.StudioView{ID: 1, OwnerID: testUserID, Name: "Lotus Studio"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/studios", reqdto.CreateStudioRequest{Name: "Lotus Studio"}, "token")

		var body resdto.StudioResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(testUserID, body.OwnerID)
	})

	s.Run("error: 400 without a name", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/studios", map[string]any{}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}

func (s *CatalogHandlerTestSuite) TestCreateService() {
	reqBody := reqdto.CreateServiceRequest{
		Name:            "Vinyasa",
		Category:        "yoga",
		DurationMinutes: 60,
		MaxCapacity:     10,
		SoftLimitRatio:  ptr.Of(0.8),
		HardLimitRatio:  ptr.Of(1.0),
	}

	s.Run("success: 201 with resolved ratios", func() {
		s.mockCommands.EXPECT().CreateService(gomock.Any(), testUserID, reqBody.ToParams(1)).Return(int64(2), nil).Times(1)
		s.mockQueries.EXPECT().GetService(gomock.Any(), int64(2)).
			Return(&queries.ServiceView{ID: 2, StudioID: 1, Name: "Vinyasa", SoftLimitRatio: 0.8, HardLimitRatio: 1.0, MaxOverbookedRatio: 1.0}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/studios/1/services", reqBody, "token")

		var body resdto.ServiceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.InDelta(0.8, body.SoftLimitRatio, 1e-9)
	})

	s.Run("error: 400 on validation errors", func() {
		cases := []testCaseBooking{
			{name: "type not allowed", mutate: testutil.Field("type", "retreat"), expectCode: http.StatusBadRequest},
			{name: "max_capacity boundary invalid (0)", mutate: testutil.Field("max_capacity", 0), expectCode: http.StatusBadRequest},
			{name: "missing field: category", mutate: testutil.Field("category", nil), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/studios/1/services", testutil.DtoMap(s.T(), reqBody, tc.mutate), "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, httperr.CodeValidation)
			})
		}
	})

	s.Run("error: ratio ordering rejected by the domain", func() {
		s.mockCommands.EXPECT().CreateService(gomock.Any(), testUserID, gomock.Any()).
			Return(int64(0), errs.Validationf("soft_limit_ratio must not exceed hard_limit_ratio")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/studios/1/services", reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}
