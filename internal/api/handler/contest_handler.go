package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"remixarena/internal/api/middleware"
	"remixarena/internal/app/service"
	"remixarena/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService    *service.ContestService
	submissionService *service.SubmissionService
	settlementService *service.SettlementService
}

func NewContestHandler(
	cs *service.ContestService,
	ss *service.SubmissionService,
	sts *service.SettlementService,
) *ContestHandler {
	return &ContestHandler{
		contestService:    cs,
		submissionService: ss,
		settlementService: sts,
	}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listContests)
	r.Get("/slug/{slug}", h.getContestBySlug)
	r.Get("/{contestID}", h.getContest)
	r.Get("/{contestID}/leaderboard", h.getLeaderboard)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/", h.createContest)
		auth.Post("/{contestID}/end", h.endContest)
	})
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	address, ok := middleware.GetAddressFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Caller identity missing")
		return
	}

	var req service.CreateContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	contest, err := h.contestService.CreateContest(r.Context(), address, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, contest)
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	activeOnly := query.Get("active") == "true"
	limit := queryInt(query.Get("limit"), 50)
	offset := queryInt(query.Get("offset"), 0)

	contests, err := h.contestService.ListContests(r.Context(), activeOnly, limit, offset)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contestID, ok := parseIDParam(r, "contestID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid contest id")
		return
	}

	contest, err := h.contestService.GetContest(r.Context(), contestID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) getContestBySlug(w http.ResponseWriter, r *http.Request) {
	contestSlug := chi.URLParam(r, "slug")
	if contestSlug == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid contest slug")
		return
	}

	contest, err := h.contestService.GetContestBySlug(r.Context(), contestSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	contestID, ok := parseIDParam(r, "contestID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid contest id")
		return
	}

	leaderboard, err := h.submissionService.GetLeaderboard(r.Context(), contestID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, leaderboard)
}

func (h *ContestHandler) endContest(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.settlementService.EndContest(r.Context(), contestID, address)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func queryInt(raw string, fallback int) int {
	if value, err := strconv.Atoi(raw); err == nil {
		return value
	}
	return fallback
}
