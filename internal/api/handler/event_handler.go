package handler

import (
	"net/http"
	"strconv"

	"remixarena/internal/app/service"
	"remixarena/internal/common"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(es *service.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listEvents)
}

// listEvents serves the poll surface of the fact log: seq-cursor paging with
// an optional contest filter.
func (h *EventHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	after := int64(0)
	if raw := query.Get("after"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid after cursor")
			return
		}
		after = parsed
	}

	limit := queryInt(query.Get("limit"), 100)

	var contestID *int64
	if raw := query.Get("contest_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid contest_id filter")
			return
		}
		contestID = &parsed
	}

	events, err := h.eventService.ListEvents(r.Context(), after, limit, contestID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}
