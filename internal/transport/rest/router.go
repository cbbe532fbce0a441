package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handler         *Handler
	AllowedOrigins  []string
	RateLimit       int
	RateLimitWindow time.Duration
	Logger          *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Handler == nil {
		panic("rest.NewRouter: nil handler")
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()

	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))

	r.Get("/", cfg.Handler.Root)
	r.Get("/health", cfg.Handler.Health)

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateLimitWindow))
		}
		r.Post("/ingest", cfg.Handler.Ingest)
	})

	r.Get("/sessions", cfg.Handler.Sessions)
	r.Get("/sessions_by_section", cfg.Handler.SessionsBySection)
	r.Get("/events", cfg.Handler.ComplaintEvents)
	r.Get("/blocks", cfg.Handler.ComplaintBlocks)
	r.Get("/sections_by_weekday", cfg.Handler.SectionsByWeekday)
	r.Get("/export.xlsx", cfg.Handler.ExportXLSX)

	r.Post("/subscribe", cfg.Handler.Subscribe)
	r.Post("/admin/clear", cfg.Handler.AdminClear)

	return r
}
