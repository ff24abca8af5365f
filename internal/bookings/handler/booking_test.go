package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// Mock service for testing
type mockBookingService struct {
	createFunc func(ctx context.Context, params *model.BookingParams) (*model.Booking, error)
	getFunc    func(ctx context.Context, id int) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, params *model.BookingParams) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return &model.Booking{ID: 1, RentalID: params.RentalID, Unit: 1, Start: params.Start, Nights: params.Nights}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id int) (*model.Booking, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func newRouter(service *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewBookingHandler(service, log).RegisterRoutes(router)
	return router
}

func TestCreateBookingEndpoint(t *testing.T) {
	var received model.BookingParams
	router := newRouter(&mockBookingService{
		createFunc: func(ctx context.Context, params *model.BookingParams) (*model.Booking, error) {
			received = *params
			return &model.Booking{ID: 9, RentalID: params.RentalID, Unit: 2, Start: params.Start, Nights: params.Nights}, nil
		},
	})

	body := `{"rental_id":3,"start":"2026-07-01","nights":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body)
	}
	if received.RentalID != 3 || received.Nights != 4 {
		t.Errorf("service received %+v", received)
	}
	if !received.Start.Equal(model.NewDate(2026, time.July, 1)) {
		t.Errorf("start = %s, want 2026-07-01", received.Start)
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != 9 || resp.Data.Unit != 2 {
		t.Errorf("response data = %+v", resp.Data)
	}
}

func TestCreateBookingEndpointConflict(t *testing.T) {
	router := newRouter(&mockBookingService{
		createFunc: func(ctx context.Context, params *model.BookingParams) (*model.Booking, error) {
			return nil, apperrors.Conflict("No available unit for the requested dates")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"rental_id":1,"start":"2026-07-01","nights":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var resp httputil.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", resp.Code, apperrors.CodeConflict)
	}
}

func TestCreateBookingEndpointBadDate(t *testing.T) {
	router := newRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"rental_id":1,"start":"01/07/2026","nights":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetBookingEndpoint(t *testing.T) {
	router := newRouter(&mockBookingService{
		getFunc: func(ctx context.Context, id int) (*model.Booking, error) {
			return &model.Booking{ID: id, RentalID: 1, Unit: 1, Start: model.NewDate(2026, time.July, 1), Nights: 2}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"start":"2026-07-01"`) {
		t.Errorf("start not serialized as plain date: %s", rec.Body)
	}
}

func TestGetBookingEndpointInvalidID(t *testing.T) {
	router := newRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/zzz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
