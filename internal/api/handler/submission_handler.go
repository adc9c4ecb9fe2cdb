package handler

import (
	"encoding/json"
	"net/http"

	"remixarena/internal/api/middleware"
	"remixarena/internal/app/service"
	"remixarena/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

// RegisterContestRoutes mounts the routes nested under a contest.
func (h *SubmissionHandler) RegisterContestRoutes(r chi.Router) {
	r.Get("/{contestID}/submissions", h.listSubmissions)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/{contestID}/submissions", h.submitRemix)
	})
}

// RegisterRoutes mounts the flat submission lookup.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{submissionID}", h.getSubmission)
}

func (h *SubmissionHandler) submitRemix(w http.ResponseWriter, r *http.Request) {
	address, ok := middleware.GetAddressFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Caller identity missing")
		return
	}
	contestID, ok := parseIDParam(r, "contestID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid contest id")
		return
	}

	var req service.SubmitRemixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	submission, err := h.submissionService.SubmitRemix(r.Context(), contestID, address, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	contestID, ok := parseIDParam(r, "contestID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid contest id")
		return
	}

	submissions, err := h.submissionService.GetSubmissions(r.Context(), contestID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID, ok := parseIDParam(r, "submissionID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}

	submission, err := h.submissionService.GetSubmission(r.Context(), submissionID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}
