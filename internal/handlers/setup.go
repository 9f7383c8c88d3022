package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"essence-site/internal/metrics"
	"essence-site/internal/models"
	"essence-site/internal/storage"
	inputs "essence-site/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger
var store *storage.Store
var validate *validator.Validate
var allowRegistration = true

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return inputs.Slug(fl.Field().String()) == nil
	})
	if err != nil {
		panic(err)
	}

	return v
}

// NewRouter wires every route. It is split from Setup so tests can drive the router directly.
func NewRouter(cfg *models.ConfigFile, _sugar *zap.SugaredLogger, _store *storage.Store) http.Handler {
	sugar = _sugar
	store = _store
	validate = newValidator()
	allowRegistration = cfg.AllowRegistration

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.Server.BehindProxy {
		r.Use(middleware.RealIP)
	}
	if cfg.Server.PrintHttpRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	if cfg.Server.Cors {
		r.Use(AllowCors)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(60 * time.Second))
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "Not found")
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		})

		api.Get("/health", Health)

		api.Get("/features", GetFeatures)
		api.Get("/command-categories", GetCommandCategories)
		api.Get("/commands", GetCommands)
		api.Get("/commands/{categorySlug}", GetCommandsByCategory)
		api.Get("/statistics", GetStatistics)
		api.Get("/faqs", GetFaqs)
		api.Get("/testimonials", GetTestimonials)
		api.Get("/global-theme", GetGlobalTheme)
		api.Get("/site-config", GetSiteConfig)

		api.Post("/register", Register)
		api.Post("/login", Login)
		api.Post("/logout", Logout)
		api.With(UserVerifier).Get("/user", GetCurrentUser)

		api.Group(func(admin chi.Router) {
			admin.Use(UserVerifier)

			admin.Post("/global-theme", UpdateGlobalTheme)
			admin.Patch("/site-config/{id}", UpdateSiteConfig)

			admin.Post("/command-categories", CreateCommandCategory)
			admin.Patch("/command-categories/{id}", UpdateCommandCategory)
			admin.Delete("/command-categories/{id}", DeleteCommandCategory)

			admin.Post("/commands", CreateCommand)
			admin.Patch("/commands/{id}", UpdateCommand)
			admin.Delete("/commands/{id}", DeleteCommand)

			admin.Patch("/statistics/{id}", UpdateStatistics)
		})
	})

	// websocket connections outlive the api timeout
	r.Get("/ws", HandleWebSocket)
	r.Handle("/metrics", metrics.Handler())

	// behind a proxy the frontend is served by the proxy itself
	if cfg.Server.StaticDir != "" && !cfg.Server.BehindProxy {
		r.Handle("/*", staticSite(cfg.Server.StaticDir))
	}

	return r
}

// Setup serves the router until ctx is cancelled.
func Setup(ctx context.Context, cfg *models.ConfigFile, _sugar *zap.SugaredLogger, _store *storage.Store) error {
	r := NewRouter(cfg, _sugar, _store)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Address, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		isHttps := cfg.Server.TlsCert != "" && cfg.Server.TlsKey != ""
		sugar.Infof("Listening on %s (https: %t)", server.Addr, isHttps)

		var err error
		if isHttps {
			err = server.ListenAndServeTLS(cfg.Server.TlsCert, cfg.Server.TlsKey)
		} else {
			err = server.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sugar.Info("Shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
