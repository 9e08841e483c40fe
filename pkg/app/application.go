package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"tratador/pkg/config"
	"tratador/pkg/contracts"
	"tratador/pkg/metrics"
	"tratador/pkg/middleware"
)

type Application struct {
	cfg            *config.Config
	metrics        *metrics.Metrics
	server         *http.Server
	rateLimiter    *middleware.ClientRateLimiter
	opsHandler     http.Handler
	appHttpHandler http.Handler
	closers        []io.Closer
}

func NewApplication(cfg *config.Config, m *metrics.Metrics) *Application {
	return &Application{
		cfg:     cfg,
		metrics: m,
	}
}

// SetApp builds both handler chains and the server. opsHandler serves the
// health probes; appHandler serves everything else.
func (a *Application) SetApp(opsHandler contracts.Handler, appHandler contracts.Handler) {
	a.setOpsHandler(opsHandler)
	a.setAppHandler(appHandler)
	a.setAppServer()
}

// OnShutdown registers resources closed after the server stops, in order.
func (a *Application) OnShutdown(c io.Closer) {
	a.closers = append(a.closers, c)
}

func (a *Application) setOpsHandler(opsHandler contracts.Handler) {
	opsRouter := httprouter.New()
	opsHandler.RegisterRoutes(opsRouter)
	opsRouter.Handler(http.MethodGet, "/metrics", a.metrics.Handler())

	var opsHTTPHandler http.Handler = opsRouter
	opsHTTPHandler = middleware.Metrics(a.metrics, opsRouter)(opsHTTPHandler)
	opsHTTPHandler = middleware.RequestLogging(a.cfg.Log)(opsHTTPHandler)
	opsHTTPHandler = middleware.Recovery(a.cfg.Log)(opsHTTPHandler)
	a.opsHandler = opsHTTPHandler
	a.cfg.Log.Info("Health and metrics endpoints configured with minimal middleware (Recovery + Logging + Metrics only)")
}

func (a *Application) setAppHandler(appHandler contracts.Handler) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)

	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		nil,
		a.cfg.Log,
	)

	// Middleware order: Recovery → Logging → CORS → Metrics → MaxSize → ContentType → RateLimit → Timeout → Router
	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHttpHandler)
	appHttpHandler = middleware.RateLimit(a.rateLimiter)(appHttpHandler)
	appHttpHandler = middleware.ContentTypeValidation(middleware.MultipartFormData, a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.MaxRequestSize(a.cfg.MaxUploadSize)(appHttpHandler)
	appHttpHandler = middleware.Metrics(a.metrics, appRouter)(appHttpHandler)
	appHttpHandler = middleware.CORS(a.cfg.CORSAllowedOrigins)(appHttpHandler)
	appHttpHandler = middleware.RequestLogging(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.Recovery(a.cfg.Log)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler returns the root mux routing probes and metrics apart from the API.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", a.opsHandler)
	mux.Handle("/ready", a.opsHandler)
	mux.Handle("/metrics", a.opsHandler)
	mux.Handle("/", a.appHttpHandler)
	return mux
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.rateLimiter.Stop()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.cfg.Log.Error("Failed to close resource", "error", err)
		}
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.Log.Info("Server stopped gracefully")
}
