package handler

import (
	"encoding/json"
	"net/http"

	"remixarena/internal/api/middleware"
	"remixarena/internal/app/service"
	"remixarena/internal/common"

	"github.com/go-chi/chi/v5"
)

type TokenHandler struct {
	tokenService *service.TokenService
}

func NewTokenHandler(ts *service.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: ts}
}

func (h *TokenHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/balance", h.getBalance)
	r.Get("/allowance", h.getAllowance)
	r.Post("/approve", h.approve)
	r.Post("/faucet", h.faucet)
}

func (h *TokenHandler) getBalance(w http.ResponseWriter, r *http.Request) {
	address, ok := middleware.GetAddressFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Caller identity missing")
		return
	}

	balance, err := h.tokenService.Balance(r.Context(), address)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"balance": balance,
	})
}

func (h *TokenHandler) getAllowance(w http.ResponseWriter, r *http.Request) {
	address, ok := middleware.GetAddressFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Caller identity missing")
		return
	}

	allowance, err := h.tokenService.Allowance(r.Context(), address)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"owner":     address,
		"spender":   h.tokenService.EscrowAddress(),
		"allowance": allowance,
	})
}

type approveRequest struct {
	Amount int64 `json:"amount"`
}

func (h *TokenHandler) approve(w http.ResponseWriter, r *http.Request) {
	address, ok := middleware.GetAddressFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Caller identity missing")
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.tokenService.Approve(r.Context(), address, req.Amount); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"owner":     address,
		"spender":   h.tokenService.EscrowAddress(),
		"allowance": req.Amount,
	})
}

func (h *TokenHandler) faucet(w http.ResponseWriter, r *http.Request) {
	address, ok := middleware.GetAddressFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Caller identity missing")
		return
	}

	balance, err := h.tokenService.Faucet(r.Context(), address)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"balance": balance,
	})
}
