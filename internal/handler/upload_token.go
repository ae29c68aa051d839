package handler

import (
	"net/http"
	"time"

	"github.com/shothost/shothost/internal/ctxkeys"
	"github.com/shothost/shothost/internal/service"
)

type uploadTokenHandler struct {
	tokenService *service.UploadTokenService
}

func NewUploadTokenHandler(tokenService *service.UploadTokenService) *uploadTokenHandler {
	return &uploadTokenHandler{tokenService: tokenService}
}

type createTokenRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MaxUses     *int    `json:"max_uses"`
}

func (h *uploadTokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	var req createTokenRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.tokenService.Create(principal.User.ID, req.Name, req.Description, req.MaxUses)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

type tokenResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MaxUses     *int      `json:"max_uses,omitempty"`
	Uses        int       `json:"uses"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *uploadTokenHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	tokens, err := h.tokenService.List(principal.User.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Secrets are only returned at mint time
	out := make([]tokenResponse, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, tokenResponse{
			ID:          token.ID,
			Name:        token.Name,
			Description: token.Description,
			MaxUses:     token.MaxUses,
			Uses:        token.Uses,
			CreatedAt:   token.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *uploadTokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	err := h.tokenService.Delete(principal.User.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *uploadTokenHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	created, err := h.tokenService.Regenerate(principal.User.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

type tokenUseResponse struct {
	FileID    string    `json:"file_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *uploadTokenHandler) Usage(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	uses, err := h.tokenService.Usage(principal.User.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]tokenUseResponse, 0, len(uses))
	for _, use := range uses {
		out = append(out, tokenUseResponse{
			FileID:    use.FileID,
			CreatedAt: use.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
