package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/papercast/papercast/internal/config"
	"github.com/papercast/papercast/internal/handler/configedit"
	"github.com/papercast/papercast/internal/handler/logs"
	"github.com/papercast/papercast/internal/handler/podcast"
	middlewarePkg "github.com/papercast/papercast/internal/middleware"
	"github.com/papercast/papercast/internal/service/configstore"
	"github.com/papercast/papercast/internal/web"
	"github.com/papercast/papercast/pkg/httpx"
)

// NewRouter wires HTTP routes to core services. When a proxy prefix is
// configured the whole surface is mounted under it, mirroring how the demo
// is routed behind a workbench proxy.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	store *configstore.Store,
	feed logs.Feed,
	dispatcher podcast.Dispatcher,
	uploads podcast.UploadStore,
) http.Handler {
	app := chi.NewRouter()

	app.Use(middleware.RequestID)
	app.Use(middleware.RealIP)
	app.Use(middleware.Logger)
	app.Use(middleware.Recoverer)
	app.Use(middlewarePkg.CORS)

	app.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "papercast",
		})
	})

	app.Method(http.MethodGet, "/", web.New(cfg.ProxyPrefix, logger))

	app.Route("/api", func(api chi.Router) {
		configedit.New(store).RegisterRoutes(api)
		logs.New(feed, logger).RegisterRoutes(api)
		podcast.New(dispatcher, uploads, cfg.DemoOutputDir).RegisterRoutes(api)
	})

	prefix := strings.TrimRight(cfg.ProxyPrefix, "/")
	if prefix == "" {
		return app
	}
	outer := chi.NewRouter()
	outer.Mount(prefix, app)
	return outer
}
