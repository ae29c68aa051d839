package routes

import (
	"net/http"

	"github.com/shothost/shothost/internal/app"
	"github.com/shothost/shothost/internal/handler"
	"github.com/shothost/shothost/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.AuthService, app.AccountService)
	upload := handler.NewUploadHandler(app.UploadService, app.Resolver)
	uploadToken := handler.NewUploadTokenHandler(app.UploadTokenService)
	viewToken := handler.NewViewTokenHandler(app.ViewTokenService)
	views := handler.NewViewsHandler(app.UploadService, app.AccountService)
	billing := handler.NewBillingHandler(app.BillingService)

	mux := http.NewServeMux()

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/register", rateLimiter(account.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/check", auth.Check)

	// Account
	mux.HandleFunc("GET /api/account", middleware.RequireUser(account.Profile))
	mux.HandleFunc("PATCH /api/account", middleware.RequireUser(account.Edit))
	mux.HandleFunc("POST /api/account/password", middleware.RequireUser(account.ChangePassword))
	mux.HandleFunc("GET /api/account/embed", middleware.RequireUser(account.EmbedConfig))
	mux.HandleFunc("PATCH /api/account/embed", middleware.RequireUser(account.UpdateEmbedConfig))

	// Upload tokens
	mux.HandleFunc("POST /api/tokens", middleware.RequireUser(uploadToken.Create))
	mux.HandleFunc("GET /api/tokens", middleware.RequireUser(uploadToken.List))
	mux.HandleFunc("DELETE /api/tokens/{id}", middleware.RequireUser(uploadToken.Delete))
	mux.HandleFunc("POST /api/tokens/{id}/regenerate", middleware.RequireUser(uploadToken.Regenerate))
	mux.HandleFunc("GET /api/tokens/{id}/usage", middleware.RequireUser(uploadToken.Usage))

	// Uploads. Create authorizes with an upload token, not a session, so the
	// handler resolves its own credential.
	mux.HandleFunc("POST /api/uploads", upload.Create)
	mux.HandleFunc("GET /api/uploads", middleware.RequireUser(upload.List))
	mux.HandleFunc("GET /api/uploads/{id}", upload.Meta)
	mux.HandleFunc("GET /api/uploads/content/{id}", upload.Content)

	// View tokens: password redemption needs no account credential
	mux.HandleFunc("POST /api/view-tokens/{id}", viewToken.Redeem)

	// Billing
	mux.HandleFunc("POST /api/billing/subscribe", middleware.RequireUser(billing.Subscribe))
	mux.HandleFunc("POST /api/billing/webhook", billing.Webhook)

	// Embed page for shared links
	mux.HandleFunc("GET /{id}", views.Show)

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.SessionAuth(app.Resolver),
	)
}
