package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// Mock service for testing
type mockCalendarService struct {
	getFunc func(ctx context.Context, query *model.CalendarQuery) ([]model.CalendarDate, error)
}

func (m *mockCalendarService) GetCalendarDates(ctx context.Context, query *model.CalendarQuery) ([]model.CalendarDate, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, query)
	}
	return []model.CalendarDate{}, nil
}

func newRouter(service *mockCalendarService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewCalendarHandler(service, log).RegisterRoutes(router)
	return router
}

func TestCalendarEndpointParsesQuery(t *testing.T) {
	var received model.CalendarQuery
	router := newRouter(&mockCalendarService{
		getFunc: func(ctx context.Context, query *model.CalendarQuery) ([]model.CalendarDate, error) {
			received = *query
			return []model.CalendarDate{
				{
					Date:             query.Start,
					Bookings:         []model.CalendarBooking{},
					PreparationTimes: []model.CalendarPreparationTime{},
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar?rental_id=3&start=2026-08-01&nights=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body)
	}
	if received.RentalID != 3 || received.Nights != 2 {
		t.Errorf("service received %+v", received)
	}
	if !received.Start.Equal(model.NewDate(2026, time.August, 1)) {
		t.Errorf("start = %s, want 2026-08-01", received.Start)
	}

	var resp struct {
		Data struct {
			RentalID int                  `json:"rental_id"`
			Dates    []model.CalendarDate `json:"dates"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.RentalID != 3 || len(resp.Data.Dates) != 1 {
		t.Errorf("response data = %+v", resp.Data)
	}
}

func TestCalendarEndpointRejectsBadParams(t *testing.T) {
	router := newRouter(&mockCalendarService{})

	cases := []string{
		"/api/v1/calendar",
		"/api/v1/calendar?rental_id=x&start=2026-08-01&nights=2",
		"/api/v1/calendar?rental_id=1&start=bad&nights=2",
		"/api/v1/calendar?rental_id=1&start=2026-08-01&nights=x",
	}
	for _, path := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}
