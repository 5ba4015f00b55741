//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"studio-booking/internal/handler/api"
	"studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/httperr"
	"studio-booking/tests/common/authtest"
	"studio-booking/tests/common/dbtest"
	"studio-booking/tests/common/httptest"

	"github.com/stretchr/testify/suite"
)

const ownerID int64 = 1

type BookingE2ESuite struct {
	SharedSuite
	jwt *authtest.JWTHelper
}

func TestBookingE2E(t *testing.T) {
	suite.Run(t, new(BookingE2ESuite))
}

func (s *BookingE2ESuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

// overbookedSlot creates a capacity 10 slot admitting up to 12 bookings.
func (s *BookingE2ESuite) overbookedSlot(start time.Time, priceCents int) int64 {
	t := s.T()
	studioID := dbtest.CreateTestStudio(t, s.DB, ownerID, "Riverside Yoga")
	serviceID := dbtest.CreateTestService(t, s.DB, studioID, 10, 0.8, 1.0, 1.2)
	return dbtest.CreateTestSlot(t, s.DB, studioID, &serviceID, start, 10, priceCents)
}

func guestBody(slotID int64, n int) map[string]any {
	return map[string]any{
		"slot_id":     slotID,
		"guest_name":  fmt.Sprintf("Guest %d", n),
		"guest_email": fmt.Sprintf("guest%d@example.com", n),
	}
}

func (s *BookingE2ESuite) createBooking(body any, headers map[string]string) *response.BookingResponse {
	w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/v1/bookings", body, "", headers)
	var res response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &res)
	return &res
}

func (s *BookingE2ESuite) TestAdmissionBandsAndCap() {
	slotID := s.overbookedSlot(time.Now().Add(72*time.Hour), 0)

	levels := map[string]int{}
	for i := 1; i <= 12; i++ {
		res := s.createBooking(guestBody(slotID, i), nil)
		s.Equal("confirmed", res.Status)
		levels[res.AdmissionLevel]++
	}
	s.Equal(map[string]int{"normal": 8, "near_capacity": 2, "overbooked": 2}, levels)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/v1/bookings", guestBody(slotID, 13), "")
	httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, httperr.CodeSlotFull)
	s.Equal(12, dbtest.CountBookings(s.T(), s.DB, slotID, "confirmed"))

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf("/api/v1/slots/%d", slotID), nil, "")
	var slot response.SlotResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &slot)
	s.Equal(12, slot.BookingsCount)
	s.Equal(0, slot.AvailableSpots)
	s.Equal("full", slot.CapacityLevel)
}

func (s *BookingE2ESuite) TestConcurrentBookingsNeverExceedCap() {
	slotID := s.overbookedSlot(time.Now().Add(72*time.Hour), 0)

	const attempts = 30
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/v1/bookings", guestBody(slotID, n), "")
			mu.Lock()
			codes[w.Code]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	s.Equal(12, codes[http.StatusCreated])
	s.Equal(attempts-12, codes[http.StatusConflict])
	s.Equal(12, dbtest.CountBookings(s.T(), s.DB, slotID, "confirmed"))
}

func (s *BookingE2ESuite) TestIdempotentCreate() {
	slotID := s.overbookedSlot(time.Now().Add(72*time.Hour), 0)
	headers := map[string]string{"Idempotency-Key": "e2e-key-1"}

	first := s.createBooking(guestBody(slotID, 1), headers)

	w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/v1/bookings", guestBody(slotID, 1), "", headers)
	var again response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &again)
	httptest.AssertHeaders(s.T(), w, map[string]string{"Idempotent-Replayed": "true"})
	s.Equal(first.ID, again.ID)

	w = httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/v1/bookings", guestBody(slotID, 2), "", headers)
	httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, httperr.CodeConflict)
	s.Equal(1, dbtest.CountBookings(s.T(), s.DB, slotID, "confirmed"))
}

func (s *BookingE2ESuite) TestPaidSlotStaysPending() {
	slotID := s.overbookedSlot(time.Now().Add(72*time.Hour), 2500)

	res := s.createBooking(guestBody(slotID, 1), nil)
	s.Equal("pending", res.Status)
	s.Equal(1, dbtest.CountBookings(s.T(), s.DB, slotID, "pending"))
}

func (s *BookingE2ESuite) TestCancel() {
	farSlot := s.overbookedSlot(time.Now().Add(72*time.Hour), 0)
	booked := s.createBooking(guestBody(farSlot, 1), nil)
	s.NotEmpty(booked.AccessToken)
	path := fmt.Sprintf("/api/v1/bookings/%d/cancel", booked.ID)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPatch, path, map[string]string{"guest_email": "guest1@example.com"}, "")
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, httperr.CodeForbidden)

	other := s.createBooking(guestBody(farSlot, 3), nil)
	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPatch, path, map[string]string{"access_token": other.AccessToken}, "")
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, httperr.CodeForbidden)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPatch, path, map[string]string{"access_token": booked.AccessToken}, "")
	var cancelled response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &cancelled)
	s.Equal("cancelled", cancelled.Status)
	s.NotNil(cancelled.CancelledAt)

	w = httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPatch, path, nil, "",
		map[string]string{api.HeaderBookingToken: booked.AccessToken})
	httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, httperr.CodeBookingAlreadyCancelled)

	soonSlot := s.overbookedSlot(time.Now().Add(3*time.Hour), 0)
	soon := s.createBooking(guestBody(soonSlot, 2), nil)
	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", soon.ID),
		map[string]string{"access_token": soon.AccessToken}, "")
	httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, httperr.CodeCancellationWindowExpired)
}

func (s *BookingE2ESuite) TestBookingPrivacy() {
	slotID := s.overbookedSlot(time.Now().Add(72*time.Hour), 0)
	booked := s.createBooking(guestBody(slotID, 1), nil)
	path := fmt.Sprintf("/api/v1/bookings/%d", booked.ID)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, "")
	var public response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &public)
	s.Empty(public.GuestEmail)

	w = httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodGet, path, nil, "",
		map[string]string{api.HeaderBookingToken: booked.AccessToken})
	var private response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &private)
	s.Equal("guest1@example.com", private.GuestEmail)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, s.jwt.GenerateToken(s.T(), ownerID))
	var owner response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &owner)
	s.Equal("guest1@example.com", owner.GuestEmail)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/v1/bookings", nil, "")
	httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, httperr.CodeUnauthorized)

	stranger := s.jwt.GenerateToken(s.T(), 99)
	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/v1/bookings?guest_email=guest1@example.com", nil, stranger)
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, httperr.CodeForbidden)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
		fmt.Sprintf("/api/v1/bookings/count?slot_id=%d", slotID), nil, s.jwt.GenerateToken(s.T(), ownerID))
	var count response.CountResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &count)
	s.Equal(1, count.Count)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
		fmt.Sprintf("/api/v1/bookings/count?slot_id=%d", slotID), nil, stranger)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &count)
	s.Equal(0, count.Count)
}

func (s *BookingE2ESuite) TestSlotRosterRequiresOwner() {
	slotID := s.overbookedSlot(time.Now().Add(72*time.Hour), 0)
	s.createBooking(guestBody(slotID, 1), nil)
	path := fmt.Sprintf("/api/v1/slots/%d/bookings", slotID)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, "")
	httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, httperr.CodeUnauthorized)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, s.jwt.GenerateToken(s.T(), 99))
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, httperr.CodeForbidden)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, s.jwt.GenerateToken(s.T(), ownerID))
	var roster []*response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &roster)
	s.Len(roster, 1)
}

func (s *BookingE2ESuite) TestWebhookRejectsBadSignature() {
	w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/webhooks/stripe",
		[]byte(`{"id":"evt_1","type":"checkout.session.completed"}`), "", map[string]string{"Stripe-Signature": "t=1,v1=deadbeef"})
	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, httperr.CodeInvalidSignature)
}
