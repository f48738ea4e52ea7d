// cmd/server/server.go
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/folio/internal/api"
	"github.com/codr1/folio/internal/api/themes"
	"github.com/codr1/folio/internal/config"
	"github.com/codr1/folio/internal/ratelimit"
	"github.com/codr1/folio/internal/templates/layouts"
	"github.com/codr1/folio/internal/theming"
)

type serverDeps struct {
	store       *theming.Store
	history     *theming.History
	catalog     *theming.Catalog
	remote      *theming.RemotePresets
	sheet       *layouts.StyleSheet
	limiter     *ratelimit.Limiter
	healthCheck func(context.Context) error
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	registerRoutes(router, cfg, deps)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, deps serverDeps) {
	themeHandler := themes.NewHandler(themes.Deps{
		Store:      deps.store,
		History:    deps.history,
		Catalog:    deps.catalog,
		Remote:     deps.remote,
		StyleSheet: deps.sheet,
		Limiter:    deps.limiter,
		BaseURL:    cfg.App.BaseURL,
		TrustProxy: cfg.App.TrustProxy,
	})
	themeHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/theme", http.StatusFound)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if deps.healthCheck != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.healthCheck(ctx); err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
				http.Error(w, "Database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "build/bin/static"
	}
	fs := http.FileServer(http.Dir(staticDir))

	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}
