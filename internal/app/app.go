package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kairoplan/kairoplan/internal/config"
	"github.com/kairoplan/kairoplan/internal/storage"
	"github.com/kairoplan/kairoplan/pkg/calendar"
	"github.com/kairoplan/kairoplan/pkg/catalog"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg          config.Application
	deps         *Dependencies
	closeStorage func() error
	router       *mux.Router
	srv          *http.Server
}

// NewApplication constructs the full application, ready to Run() or to be
// driven through Store() by the CLI.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewApplicationWithConfig(cfg)
}

func NewApplicationWithConfig(cfg config.Application) (*Application, error) {
	entries, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	slots, closeStorage, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (store, handlers...)
	deps := BuildDependencies(slots, entries, cfg)

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, closeStorage: closeStorage, router: r, srv: srv}, nil
}

func (a *Application) Config() config.Application {
	return a.cfg
}

func (a *Application) Store() *calendar.Store {
	return a.deps.Store
}

func (a *Application) Handler() http.Handler {
	return a.router
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Close releases the storage backend.
func (a *Application) Close() error {
	return a.closeStorage()
}
