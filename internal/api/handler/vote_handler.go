package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"remixarena/internal/api/middleware"
	"remixarena/internal/app/service"
	"remixarena/internal/common"
	"remixarena/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(vs *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: vs}
}

// RegisterContestRoutes mounts the vote routes nested under a contest.
func (h *VoteHandler) RegisterContestRoutes(r chi.Router) {
	r.Get("/{contestID}/submissions/{submissionID}/votes", h.getVoteCount)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Post("/{contestID}/votes", h.castVote)
		auth.Get("/{contestID}/votes/me", h.hasVoted)
	})
}

type castVoteRequest struct {
	SubmissionID int64 `json:"submission_id"`
}

func (h *VoteHandler) castVote(w http.ResponseWriter, r *http.Request) {
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

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.SubmissionID <= 0 {
		common.RespondWithError(w, http.StatusBadRequest, "submission_id is required")
		return
	}

	vote, err := h.voteService.CastVote(r.Context(), contestID, address, req.SubmissionID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, vote)
}

func (h *VoteHandler) hasVoted(w http.ResponseWriter, r *http.Request) {
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

	vote, err := h.voteService.GetVote(r.Context(), contestID, address)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) && !errors.Is(err, model.ErrContestNotFound) {
			common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"has_voted": false})
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"has_voted": true, "vote": vote})
}

func (h *VoteHandler) getVoteCount(w http.ResponseWriter, r *http.Request) {
	contestID, ok := parseIDParam(r, "contestID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid contest id")
		return
	}
	submissionID, ok := parseIDParam(r, "submissionID")
	if !ok {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}

	count, err := h.voteService.GetVoteCount(r.Context(), contestID, submissionID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int64{"vote_count": count})
}
