package routes

import (
	"net/http"
	"time"

	"folio/folio/controllers"
	"folio/folio/middlewares"
	"folio/folio/services/metrics"
	"folio/folio/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers collects everything the router mounts. Nil entries are skipped.
type Handlers struct {
	Chat      *controllers.ChatController
	Content   *controllers.ContentController
	Analytics *controllers.AnalyticsController
	Auth      *controllers.AuthController
	Health    *controllers.HealthController
	Assets    *controllers.AssetsController
	Metrics   *metrics.Metrics
	Limiter   *middlewares.IPRateLimiter
	JWTSecret string

	// OriginPatterns are the cross-origin hosts allowed on the chat socket.
	OriginPatterns []string
	// StaticDir, when set, serves the built front end at /.
	StaticDir string
}

func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Middleware)

	if h.Health != nil {
		r.Mount("/health", HealthRoutes(h.Health))
	}
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}
	if h.Chat != nil {
		// websocket connections outlive the request timeout
		r.Mount("/api/chat", ChatRoutes(h.Chat, h.OriginPatterns))
	}

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(60 * time.Second))
		if h.Content != nil {
			// /api/info, /api/profile, ... ; more specific /api mounts win
			gr.Mount("/api", ContentRoutes(h.Content))
		}
		if h.Analytics != nil {
			var reportAuth func(http.Handler) http.Handler
			if h.Auth != nil {
				reportAuth = middlewares.AuthMiddleware(h.JWTSecret)
			}
			gr.Mount("/api/analytics", AnalyticsRoutes(h.Analytics, h.Limiter, reportAuth))
		}
		if h.Auth != nil {
			gr.Mount("/api/auth", AuthRoutes(h.Auth))
		}
		if h.Assets != nil {
			gr.Mount("/assets", AssetRoutes(h.Assets))
		}
	})

	if h.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(h.StaticDir)))
	}
	return r
}
