package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shothost/shothost/internal/ctxkeys"
	"github.com/shothost/shothost/internal/middleware"
	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/service"
)

// Multipart parsing buffers up to this much in memory before spilling to disk
const maxUploadMemory = 32 << 20

type uploadHandler struct {
	uploadService *service.UploadService
	resolver      *service.CredentialResolver
}

func NewUploadHandler(uploadService *service.UploadService, resolver *service.CredentialResolver) *uploadHandler {
	return &uploadHandler{
		uploadService: uploadService,
		resolver:      resolver,
	}
}

type uploadResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Private  bool   `json:"private"`
}

// Create accepts a multipart upload authorized by an upload token. The file
// part is required; "private" and "password" parts are optional.
func (h *uploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, token, err := h.resolver.ResolveUploadToken(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, err)
		return
	}

	err = r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer part.Close()

	private := false
	if v := r.FormValue("private"); v != "" {
		private, err = strconv.ParseBool(v)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "private must be a boolean")
			return
		}
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file, err := h.uploadService.Upload(r.Context(), principal, token, service.UploadRequest{
		Content:  part,
		Size:     header.Size,
		MimeType: mimeType,
		Private:  private,
		Password: r.FormValue("password"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:       file.ID,
		URL:      h.uploadService.FileURL(file.ID),
		Size:     file.Size,
		MimeType: file.MimeType,
		Private:  file.Private,
	})
}

// Content streams the file bytes. Access rules depend on the file: private
// files are owner-only, password protected ones need a matching view token
// in the vt query parameter.
func (h *uploadHandler) Content(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("id")
	principal := ctxkeys.Principal(r.Context())

	file, content, err := h.uploadService.Read(
		r.Context(),
		principal,
		fileID,
		r.URL.Query().Get("vt"),
		middleware.ClientIP(r),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))

	_, err = io.Copy(w, content)
	if err != nil {
		// The response is already streaming, nothing to send the client
		slog.Error("content stream failed", "error", err, "file_id", file.ID)
	}
}

type fileMetaResponse struct {
	ID                string    `json:"id"`
	URL               string    `json:"url"`
	Size              int64     `json:"size"`
	MimeType          string    `json:"mime_type"`
	Private           bool      `json:"private"`
	PasswordProtected bool      `json:"password_protected"`
	Views             int       `json:"views"`
	CreatedAt         time.Time `json:"created_at"`
}

func (h *uploadHandler) fileMeta(file *model.File) fileMetaResponse {
	return fileMetaResponse{
		ID:                file.ID,
		URL:               h.uploadService.FileURL(file.ID),
		Size:              file.Size,
		MimeType:          file.MimeType,
		Private:           file.Private,
		PasswordProtected: file.PasswordProtected(),
		Views:             file.Views,
		CreatedAt:         file.CreatedAt,
	}
}

// Meta returns file metadata without counting a view
func (h *uploadHandler) Meta(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("id")
	principal := ctxkeys.Principal(r.Context())

	file, err := h.uploadService.Meta(principal, fileID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.fileMeta(file))
}

// List returns the authenticated user's own uploads
func (h *uploadHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := ctxkeys.Principal(r.Context())

	files, err := h.uploadService.UserUploads(principal.User.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]fileMetaResponse, 0, len(files))
	for _, file := range files {
		out = append(out, h.fileMeta(file))
	}

	writeJSON(w, http.StatusOK, out)
}
