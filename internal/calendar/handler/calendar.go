package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"staybook/internal/calendar/service"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type CalendarHandler struct {
	service service.CalendarService
	log     *logger.Logger
}

func NewCalendarHandler(service service.CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log,
	}
}

type calendarResponse struct {
	RentalID int                  `json:"rental_id"`
	Dates    []model.CalendarDate `json:"dates"`
}

func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query, err := parseQuery(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	dates, err := h.service.GetCalendarDates(r.Context(), query)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resp := calendarResponse{
		RentalID: query.RentalID,
		Dates:    dates,
	}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func parseQuery(r *http.Request) (*model.CalendarQuery, error) {
	values := r.URL.Query()

	rentalID, err := strconv.Atoi(values.Get("rental_id"))
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid rental_id parameter: %s", values.Get("rental_id")))
	}

	start, err := model.ParseDate(values.Get("start"))
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid start parameter: %s", values.Get("start")))
	}

	nights, err := strconv.Atoi(values.Get("nights"))
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid nights parameter: %s", values.Get("nights")))
	}

	return &model.CalendarQuery{
		RentalID: rentalID,
		Start:    start,
		Nights:   nights,
	}, nil
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/calendar", h.Get)
}
