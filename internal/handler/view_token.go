package handler

import (
	"net/http"

	"github.com/shothost/shothost/internal/middleware"
	"github.com/shothost/shothost/internal/service"
)

type viewTokenHandler struct {
	viewTokenService *service.ViewTokenService
}

func NewViewTokenHandler(viewTokenService *service.ViewTokenService) *viewTokenHandler {
	return &viewTokenHandler{viewTokenService: viewTokenService}
}

type redeemRequest struct {
	Password string `json:"password"`
}

// Redeem exchanges a file password for a view token scoped to that file.
// Redemption works without any account credential; knowing the password is
// the authorization.
func (h *viewTokenHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	issue, err := h.viewTokenService.Issue(r.PathValue("id"), req.Password, middleware.ClientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, issue)
}
