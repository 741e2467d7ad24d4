package routes

import (
	"io/fs"
	"net/http"

	"github.com/mochitomo/mochitomo/assets"
	"github.com/mochitomo/mochitomo/internal/app"
	"github.com/mochitomo/mochitomo/internal/handler"
	"github.com/mochitomo/mochitomo/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.Cfg.AppTagline)
	goalSetting := handler.NewGoalSettingHandler(app.GoalService)
	goalResult := handler.NewGoalResultHandler(app.ResultService, app.ProofService, app.Cfg.Location())
	help := handler.NewHelpHandler(app.HelpService)
	seo := handler.NewSEOHandler(app.SitemapService)

	mux := http.NewServeMux()

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Goal setting
	mux.HandleFunc("GET /goal-setting", goalSetting.GoalSettingPage)
	mux.HandleFunc("POST /goal-setting", goalSetting.Submit)

	// Goal result (live)
	uploadLimiter := middleware.RateLimitUploads(app.Cfg.UploadRateLimit)

	mux.HandleFunc("GET /goal-result", goalResult.ResultPage)
	mux.HandleFunc("GET /goal-result/{id}/events", goalResult.Events)
	mux.HandleFunc("POST /goal-result/{id}/proof", uploadLimiter(goalResult.UploadProof))

	// Content
	mux.HandleFunc("GET /help", help.HelpPage)

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),  // Config first: SecurityHeaders reads it for HSTS, CSRFProtection for the cookie Secure flag
		middleware.NonceMiddleware,  // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders,  // Security headers for all responses
		middleware.RequestLogging,
		middleware.CSRFProtection,   // CSRF protection for all state-changing requests
		middleware.WithURLPath,
	)

	return handler
}
