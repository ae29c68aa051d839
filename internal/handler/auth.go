package handler

import (
	"net/http"
	"strings"

	"github.com/shothost/shothost/internal/ctxkeys"
	"github.com/shothost/shothost/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	secret, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: secret})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	secret, ok := bearerValue(r)
	if !ok {
		writeError(w, service.ErrUnauthenticated)
		return
	}

	err := h.authService.Logout(secret)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Check reports whether the presented session resolves, for clients that
// want to validate a stored token without side effects.
func (h *authHandler) Check(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())
	if principal == nil {
		writeError(w, service.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":  principal.User.ID,
		"username": principal.User.Username,
	})
}

// bearerValue extracts the credential from the Authorization header. The
// header must split into exactly two space-separated tokens, matching what
// the credential resolver accepts.
func bearerValue(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 {
		return "", false
	}
	return parts[1], true
}
