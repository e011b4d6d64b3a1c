package routes

import (
	"net/http"

	"github.com/templui/drivebox/internal/app"
	"github.com/templui/drivebox/internal/handler"
	"github.com/templui/drivebox/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	folders := handler.NewFolderHandler(app.FolderService)
	files := handler.NewFileHandler(app.FileService, app.TrashService)
	shares := handler.NewShareHandler(app.ShareService)

	requireAuth := middleware.RequireAuth
	rateLimit := app.AuthLimiter.Limit

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", handler.Health)

	// Auth (rate limited)
	mux.HandleFunc("POST /signup/", rateLimit(auth.Signup))
	mux.HandleFunc("POST /login/", rateLimit(auth.Login))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Folders
	mux.HandleFunc("POST /folders/", requireAuth(folders.Create))
	mux.HandleFunc("GET /folders/", requireAuth(folders.List))
	mux.HandleFunc("PUT /folders/{id}", requireAuth(folders.Rename))
	mux.HandleFunc("DELETE /folders/{id}", requireAuth(folders.Delete))

	// Files
	mux.HandleFunc("POST /upload/", requireAuth(files.Upload))
	mux.HandleFunc("GET /files/", requireAuth(files.List))
	mux.HandleFunc("PUT /files/{id}", requireAuth(files.Rename))
	mux.HandleFunc("PUT /file/move/{id}", requireAuth(files.Move))
	mux.HandleFunc("DELETE /file/{id}", requireAuth(files.SoftDelete))
	mux.HandleFunc("GET /download/{id}", requireAuth(files.Download))
	mux.HandleFunc("POST /star/{id}", requireAuth(files.ToggleStar))
	mux.HandleFunc("GET /starred/", requireAuth(files.Starred))
	mux.HandleFunc("GET /storage/", requireAuth(files.StorageUsage))

	// Trash
	mux.HandleFunc("GET /trash/", requireAuth(files.Trash))
	mux.HandleFunc("POST /restore/{id}", requireAuth(files.Restore))

	// Sharing
	mux.HandleFunc("POST /share/{id}", requireAuth(shares.Share))
	mux.HandleFunc("GET /share/{id}", requireAuth(shares.Recipients))
	mux.HandleFunc("DELETE /share/{id}", requireAuth(shares.Revoke))
	mux.HandleFunc("GET /shared/", requireAuth(shares.SharedWithMe))
	mux.HandleFunc("GET /shared/download/{id}", requireAuth(shares.Download))

	return middleware.Chain(mux,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.AuthMiddleware(app.AuthService),
		middleware.RequestLogging,
	)
}
