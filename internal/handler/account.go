package handler

import (
	"net/http"

	"github.com/shothost/shothost/internal/ctxkeys"
	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/service"
)

type accountHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
}

func NewAccountHandler(authService *service.AuthService, accountService *service.AccountService) *accountHandler {
	return &accountHandler{
		authService:    authService,
		accountService: accountService,
	}
}

type registerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (h *accountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(req.Username, req.DisplayName, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       user.ID,
		"username": user.Username,
	})
}

type profileResponse struct {
	ID                            string  `json:"id"`
	Username                      string  `json:"username"`
	DisplayName                   string  `json:"display_name"`
	Email                         string  `json:"email"`
	Tier                          string  `json:"tier"`
	TotalViews                    int     `json:"total_views"`
	TotalUploads                  int     `json:"total_uploads"`
	TotalPrivateUploads           int     `json:"total_private_uploads"`
	TotalPasswordProtectedUploads int     `json:"total_password_protected_uploads"`
	StorageUsed                   int64   `json:"storage_used"`
	MaxUploadSize                 int64   `json:"max_upload_size"`
	MaxStorage                    int64   `json:"max_storage"`
	MaxPrivateUploads             int     `json:"max_private_uploads"`
	MaxPasswordProtectedUploads   int     `json:"max_password_protected_uploads"`
	CurrentPlanID                 *string `json:"current_plan_id,omitempty"`
}

func (h *accountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())
	user := principal.User

	tier := model.TierFree
	if principal.Tier != nil {
		tier = *principal.Tier
	}
	limits := tier.Limits()

	writeJSON(w, http.StatusOK, profileResponse{
		ID:                            user.ID,
		Username:                      user.Username,
		DisplayName:                   user.DisplayName,
		Email:                         user.Email,
		Tier:                          tier.String(),
		TotalViews:                    user.TotalViews,
		TotalUploads:                  user.TotalUploads,
		TotalPrivateUploads:           user.TotalPrivateUploads,
		TotalPasswordProtectedUploads: user.TotalPasswordProtectedUploads,
		StorageUsed:                   user.StorageUsed,
		MaxUploadSize:                 limits.MaxUploadSize,
		MaxStorage:                    limits.MaxStorage,
		MaxPrivateUploads:             limits.MaxPrivateUploads,
		MaxPasswordProtectedUploads:   limits.MaxPasswordProtectedUploads,
		CurrentPlanID:                 user.CurrentPlanID,
	})
}

type editAccountRequest struct {
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
}

func (h *accountHandler) Edit(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	var req editAccountRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.accountService.EditAccount(principal.User, req.Username, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *accountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	var req changePasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.authService.ChangePassword(principal.User.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type embedConfigResponse struct {
	Color           string `json:"color"`
	BackgroundColor string `json:"background_color"`
	Title           string `json:"title"`
	WebTitle        string `json:"web_title"`
}

func (h *accountHandler) EmbedConfig(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	cfg, err := h.accountService.EmbedConfig(principal.User.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, embedConfigResponse{
		Color:           cfg.Color,
		BackgroundColor: cfg.BackgroundColor,
		Title:           cfg.Title,
		WebTitle:        cfg.WebTitle,
	})
}

type updateEmbedConfigRequest struct {
	Color           *string `json:"color"`
	BackgroundColor *string `json:"background_color"`
	Title           *string `json:"title"`
	WebTitle        *string `json:"web_title"`
}

func (h *accountHandler) UpdateEmbedConfig(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	var req updateEmbedConfigRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.accountService.UpdateEmbedConfig(principal, service.EmbedConfigUpdate{
		Color:           req.Color,
		BackgroundColor: req.BackgroundColor,
		Title:           req.Title,
		WebTitle:        req.WebTitle,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
