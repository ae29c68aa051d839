package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shothost/shothost/internal/ctxkeys"
	"github.com/shothost/shothost/internal/service"
)

// embedPage is the share page rendered when a file link is opened in a
// browser. The OpenGraph tags are what link unfurlers actually consume; the
// visible body is a thin preview around the content URL.
var embedPage = template.Must(template.New("embed").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.WebTitle}}</title>
<meta name="theme-color" content="{{.Color}}">
<meta property="og:title" content="{{.Title}}">
<meta property="og:url" content="{{.ContentURL}}">
{{if .IsImage}}<meta property="og:image" content="{{.ContentURL}}">
<meta name="twitter:card" content="summary_large_image">
{{else if .IsVideo}}<meta property="og:video" content="{{.ContentURL}}">
<meta property="og:video:type" content="{{.MimeType}}">
{{end}}<style>
body { margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; background: {{.BackgroundColor}}; color: {{.Color}}; font-family: sans-serif; }
img, video { max-width: 95vw; max-height: 95vh; }
a { color: inherit; }
</style>
</head>
<body>
{{if .IsImage}}<img src="{{.ContentURL}}" alt="{{.Title}}">
{{else if .IsVideo}}<video src="{{.ContentURL}}" controls autoplay muted></video>
{{else}}<a href="{{.ContentURL}}">{{.Title}}</a>
{{end}}</body>
</html>
`))

type embedPageData struct {
	Title           string
	WebTitle        string
	Color           string
	BackgroundColor string
	ContentURL      string
	MimeType        string
	IsImage         bool
	IsVideo         bool
}

// contentURLWithToken appends the view token as a query parameter, escaped so
// arbitrary secrets survive the round trip.
func contentURLWithToken(base, vt string) string {
	if vt == "" {
		return base
	}
	q := url.Values{}
	q.Set("vt", vt)
	return base + "?" + q.Encode()
}

type viewsHandler struct {
	uploadService  *service.UploadService
	accountService *service.AccountService
}

func NewViewsHandler(uploadService *service.UploadService, accountService *service.AccountService) *viewsHandler {
	return &viewsHandler{
		uploadService:  uploadService,
		accountService: accountService,
	}
}

// Show renders the embed page for a file. Visibility follows the same rules
// as the content itself, but no view is counted; that happens when the
// browser fetches the content URL.
func (h *viewsHandler) Show(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("id")
	principal := ctxkeys.Principal(r.Context())

	file, err := h.uploadService.Meta(principal, fileID)
	if err != nil {
		writeError(w, err)
		return
	}

	cfg, err := h.accountService.EmbedConfig(file.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	title := cfg.Title
	if title == "" {
		owner, ownerErr := h.accountService.Owner(file.UserID)
		if ownerErr == nil {
			title = owner.DisplayName
		}
	}
	webTitle := cfg.WebTitle
	if webTitle == "" {
		webTitle = title
	}

	contentURL := contentURLWithToken(h.uploadService.FileURL(file.ID), r.URL.Query().Get("vt"))

	data := embedPageData{
		Title:           title,
		WebTitle:        webTitle,
		Color:           cfg.Color,
		BackgroundColor: cfg.BackgroundColor,
		ContentURL:      contentURL,
		MimeType:        file.MimeType,
		IsImage:         strings.HasPrefix(file.MimeType, "image/"),
		IsVideo:         strings.HasPrefix(file.MimeType, "video/"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = embedPage.Execute(w, data)
	if err != nil {
		slog.Error("embed page render failed", "error", err, "file_id", file.ID)
	}
}
