package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// Mock service for testing
type mockRentalService struct {
	createFunc func(ctx context.Context, params *model.RentalParams) (*model.Rental, error)
	getFunc    func(ctx context.Context, id int) (*model.Rental, error)
	updateFunc func(ctx context.Context, id int, params *model.RentalParams) (*model.Rental, error)
}

func (m *mockRentalService) Create(ctx context.Context, params *model.RentalParams) (*model.Rental, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return &model.Rental{ID: 1, Units: params.Units, PreparationTimeInDays: params.PreparationTimeInDays}, nil
}

func (m *mockRentalService) GetByID(ctx context.Context, id int) (*model.Rental, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Rental", id)
}

func (m *mockRentalService) Update(ctx context.Context, id int, params *model.RentalParams) (*model.Rental, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, params)
	}
	return &model.Rental{ID: id, Units: params.Units, PreparationTimeInDays: params.PreparationTimeInDays}, nil
}

func newRouter(service *mockRentalService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewRentalHandler(service, log).RegisterRoutes(router)
	return router
}

func TestCreateRentalEndpoint(t *testing.T) {
	router := newRouter(&mockRentalService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", strings.NewReader(`{"units":2,"preparation_time_in_days":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body)
	}

	var resp struct {
		Data model.Rental `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != 1 || resp.Data.Units != 2 {
		t.Errorf("response data = %+v", resp.Data)
	}
}

func TestCreateRentalEndpointBadBody(t *testing.T) {
	router := newRouter(&mockRentalService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rentals", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetRentalEndpointInvalidID(t *testing.T) {
	router := newRouter(&mockRentalService{})

	for _, path := range []string{"/api/v1/rentals/abc", "/api/v1/rentals/0", "/api/v1/rentals/-3"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestGetRentalEndpointNotFound(t *testing.T) {
	router := newRouter(&mockRentalService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rentals/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp httputil.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeNotFound {
		t.Errorf("code = %s, want %s", resp.Code, apperrors.CodeNotFound)
	}
}

func TestUpdateRentalEndpointConflicts(t *testing.T) {
	cases := []struct {
		name     string
		err      *apperrors.AppError
		wantCode string
	}{
		{"feasibility conflict", apperrors.Conflict("Units count too small for current bookings: 2 units are claimed on 2026-06-02"), apperrors.CodeConflict},
		{"lost write race", apperrors.ConcurrencyConflict("Rental was updated by another request"), apperrors.CodeConcurrencyConflict},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := newRouter(&mockRentalService{
				updateFunc: func(ctx context.Context, id int, params *model.RentalParams) (*model.Rental, error) {
					return nil, c.err
				},
			})

			req := httptest.NewRequest(http.MethodPut, "/api/v1/rentals/1", strings.NewReader(`{"units":1,"preparation_time_in_days":0}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusConflict {
				t.Fatalf("status = %d, want 409", rec.Code)
			}

			var resp httputil.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != c.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, c.wantCode)
			}
		})
	}
}

func TestUpdateRentalEndpoint(t *testing.T) {
	var gotID int
	router := newRouter(&mockRentalService{
		updateFunc: func(ctx context.Context, id int, params *model.RentalParams) (*model.Rental, error) {
			gotID = id
			return &model.Rental{ID: id, Units: params.Units, PreparationTimeInDays: params.PreparationTimeInDays, Version: 2}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/rentals/7", strings.NewReader(`{"units":4,"preparation_time_in_days":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body)
	}
	if gotID != 7 {
		t.Errorf("service received id %d, want 7", gotID)
	}
	if strings.Contains(rec.Body.String(), "version") {
		t.Error("version must not leak into the API response")
	}
}
