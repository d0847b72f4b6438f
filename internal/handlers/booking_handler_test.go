package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/services"
)

type stubBookingService struct {
	bookResult    *models.BookingDetail
	bookErr       error
	getResult     *models.BookingDetail
	getErr        error
	listResult    []models.BookingDetail
	listTotal     int
	listErr       error
	bookCalls     int
	lastBookInput services.BookSlotInput
	lastBookingID uuid.UUID
	lastUserID    uuid.UUID
	lastPage      int
	lastLimit     int
}

func (s *stubBookingService) BookSlot(_ context.Context, input services.BookSlotInput) (*models.BookingDetail, error) {
	s.bookCalls++
	s.lastBookInput = input
	return s.bookResult, s.bookErr
}

func (s *stubBookingService) GetBooking(_ context.Context, bookingID uuid.UUID) (*models.BookingDetail, error) {
	s.lastBookingID = bookingID
	return s.getResult, s.getErr
}

func (s *stubBookingService) ListUserBookings(_ context.Context, userID uuid.UUID, page, limit int) ([]models.BookingDetail, int, error) {
	s.lastUserID = userID
	s.lastPage = page
	s.lastLimit = limit
	return s.listResult, s.listTotal, s.listErr
}

func newBookingTestApp(service *stubBookingService) *fiber.App {
	handler := &BookingHandler{service: service}

	app := fiber.New()
	app.Post("/api/bookings", handler.BookSlot)
	app.Get("/api/bookings/:id", handler.GetBooking)
	app.Get("/api/users/:id/bookings", handler.ListUserBookings)
	return app
}

func postBooking(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestBookSlotReturnsCreatedBooking(t *testing.T) {
	userID := uuid.New()
	slotID := uuid.New()
	bookingID := uuid.New()
	service := &stubBookingService{
		bookResult: &models.BookingDetail{
			Booking: models.Booking{
				ID:            bookingID,
				UserID:        userID,
				SlotID:        slotID,
				QuizRiskScore: 45,
				Status:        models.BookingStatusConfirmed,
			},
			Slot: &models.BookingSlotSummary{ID: slotID.String(), CoachName: "Dr. Priya Sharma"},
		},
	}
	app := newBookingTestApp(service)

	resp := postBooking(t, app, fmt.Sprintf(`{"user_id":%q,"slot_id":%q,"quiz_risk_score":45}`, userID, slotID))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastBookInput.UserID != userID || service.lastBookInput.SlotID != slotID {
		t.Fatalf("unexpected book input: %+v", service.lastBookInput)
	}
	if service.lastBookInput.QuizRiskScore != 45 {
		t.Fatalf("expected score 45, got %d", service.lastBookInput.QuizRiskScore)
	}

	var body struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Data    models.BookingDetail `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Message != "Slot booked successfully" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Data.ID != bookingID || body.Data.Status != models.BookingStatusConfirmed {
		t.Fatalf("unexpected booking: %+v", body.Data.Booking)
	}
	if body.Data.Slot == nil || body.Data.Slot.CoachName != "Dr. Priya Sharma" {
		t.Fatalf("expected slot summary, got %+v", body.Data.Slot)
	}
}

func TestBookSlotRejectsInvalidRequestsBeforeService(t *testing.T) {
	validUser := uuid.NewString()
	validSlot := uuid.NewString()

	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"user_id":`},
		{name: "bad user id", body: fmt.Sprintf(`{"user_id":"nope","slot_id":%q,"quiz_risk_score":10}`, validSlot)},
		{name: "bad slot id", body: fmt.Sprintf(`{"user_id":%q,"slot_id":"nope","quiz_risk_score":10}`, validUser)},
		{name: "missing score", body: fmt.Sprintf(`{"user_id":%q,"slot_id":%q}`, validUser, validSlot)},
		{name: "fractional score", body: fmt.Sprintf(`{"user_id":%q,"slot_id":%q,"quiz_risk_score":10.5}`, validUser, validSlot)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubBookingService{}
			app := newBookingTestApp(service)

			resp := postBooking(t, app, tc.body)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if service.bookCalls != 0 {
				t.Fatalf("service should not be called, got %d calls", service.bookCalls)
			}
		})
	}
}

func TestBookSlotMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantRetry  bool
	}{
		{name: "out of range score", err: services.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "unknown user", err: services.ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "unknown slot", err: services.ErrSlotNotFound, wantStatus: http.StatusNotFound},
		{name: "already booked", err: services.ErrSlotAlreadyBooked, wantStatus: http.StatusConflict},
		{name: "not available", err: services.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{name: "lock timeout", err: services.ErrSlotBusy, wantStatus: http.StatusServiceUnavailable, wantRetry: true},
		{name: "unexpected", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newBookingTestApp(&stubBookingService{bookErr: tc.err})

			resp := postBooking(t, app, fmt.Sprintf(`{"user_id":%q,"slot_id":%q,"quiz_risk_score":50}`, uuid.New(), uuid.New()))
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			if got := resp.Header.Get(fiber.HeaderRetryAfter); (got != "") != tc.wantRetry {
				t.Fatalf("unexpected Retry-After %q", got)
			}
		})
	}
}

func TestBookSlotHidesInternalErrorDetails(t *testing.T) {
	app := newBookingTestApp(&stubBookingService{bookErr: errors.New("pq: password authentication failed")})

	resp := postBooking(t, app, fmt.Sprintf(`{"user_id":%q,"slot_id":%q,"quiz_risk_score":50}`, uuid.New(), uuid.New()))
	defer resp.Body.Close()

	var body errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(body.Message, "password") || strings.Contains(body.Error, "password") {
		t.Fatalf("internal detail leaked: %+v", body)
	}
	if body.Message != "Failed to book slot" {
		t.Fatalf("expected generic message, got %q", body.Message)
	}
}

func TestGetBookingValidatesIDAndMapsNotFound(t *testing.T) {
	service := &stubBookingService{getErr: services.ErrBookingNotFound}
	app := newBookingTestApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/bookings/not-a-uuid", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	bookingID := uuid.New()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/bookings/"+bookingID.String(), nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if service.lastBookingID != bookingID {
		t.Fatalf("expected booking id %s, got %s", bookingID, service.lastBookingID)
	}
}

func TestListUserBookingsPaginates(t *testing.T) {
	userID := uuid.New()
	service := &stubBookingService{
		listResult: []models.BookingDetail{{Booking: models.Booking{ID: uuid.New(), UserID: userID}}},
		listTotal:  21,
	}
	app := newBookingTestApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/"+userID.String()+"/bookings?page=3&limit=10", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, service.lastUserID)
	}
	if service.lastPage != 3 || service.lastLimit != 10 {
		t.Fatalf("expected page 3 limit 10, got page %d limit %d", service.lastPage, service.lastLimit)
	}

	var body struct {
		Data       []models.BookingDetail `json:"data"`
		Pagination models.PaginationMeta  `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Pagination.Total != 21 || body.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
}

func TestListUserBookingsCapsLimit(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/"+uuid.NewString()+"/bookings?page=zero&limit=500", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if service.lastPage != 1 {
		t.Fatalf("expected fallback page 1, got %d", service.lastPage)
	}
	if service.lastLimit != maxPageLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxPageLimit, service.lastLimit)
	}
}
