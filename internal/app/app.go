// Package app wires the catalog viewer HTTP server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/handler"
	"github.com/xenking/pokedex/internal/pokeapi"
	"github.com/xenking/pokedex/internal/view/detail"
	"github.com/xenking/pokedex/internal/view/list"
	"github.com/xenking/pokedex/pkg/health"
	"github.com/xenking/pokedex/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("pokeapi", cfg.PokeAPI.BaseURL),
	)

	srv, err := newServer(ctx, lg, m.TracerProvider(), m.MeterProvider(), cfg)
	if err != nil {
		return err
	}
	srv.health.Start(ctx, 10*time.Second)
	go srv.loadCatalog(ctx)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           srv.handler,
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		srv.health.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		srv.health.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// server holds the wired HTTP stack.
type server struct {
	lg         *zap.Logger
	lists      *list.View
	catalogURL string
	health     *health.Health
	handler    http.Handler
}

func newServer(ctx context.Context, lg *zap.Logger, tp trace.TracerProvider, mp metric.MeterProvider, cfg *Config) (*server, error) {
	// Upstream client.
	client, err := pokeapi.New(pokeapi.Options{
		BaseURL: cfg.PokeAPI.BaseURL,
		HTTPClient: &http.Client{
			Timeout: cfg.PokeAPI.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(tp),
				otelhttp.WithMeterProvider(mp),
			),
		},
		TracerProvider: tp,
		MeterProvider:  mp,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create pokeapi client")
	}

	// Views.
	lists := list.New(client, lg.Named("list"), list.Config{
		FetchConcurrency: cfg.PokeAPI.FetchConcurrency,
	})
	details := detail.NewLoader(client, detail.LoaderConfig{
		Language:         cfg.PokeAPI.Language,
		FetchConcurrency: cfg.PokeAPI.FetchConcurrency,
	})

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", time.Second, health.ConditionCheck(
		func() bool { return lists.State().Loaded },
		"catalog not loaded",
	))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("gc", time.Second, health.GCMaxPauseCheck(time.Second))

	// HTTP handlers.
	h, err := handler.New(handler.Config{Headline: cfg.Headline}, lists, details)
	if err != nil {
		return nil, errors.Wrap(err, "create handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)
	route := httpmiddleware.MuxRoute(mux)

	middlewares := []httpmiddleware.Middleware{
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins: cfg.CORS.Origins,
			MaxAge:       cfg.CORS.MaxAge,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
			Skip:   isProbe,
		}),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.RequestID(),
		httpmiddleware.Instrument("pokedex", route, tp, mp),
		httpmiddleware.LogRequests(route),
	}
	if cfg.Compression.Enabled {
		middlewares = append(middlewares, httpmiddleware.Compress(cfg.Compression.Level))
	}

	return &server{
		lg:         lg,
		lists:      lists,
		catalogURL: client.CatalogURL(cfg.PokeAPI.CatalogLimit),
		health:     healthSvc,
		handler:    httpmiddleware.Wrap(mux, middlewares...),
	}, nil
}

// isProbe reports health probe requests, which bypass the rate limiter.
func isProbe(r *http.Request) bool {
	return r.URL.Path == "/livez" || r.URL.Path == "/readyz"
}

// loadCatalog activates the List View once per process and opens the
// readiness gate when the catalog lands. Pages render the loading state until
// then; a failed load leaves them there.
func (s *server) loadCatalog(ctx context.Context) {
	if err := s.lists.Activate(zctx.Base(ctx, s.lg), s.catalogURL); err != nil {
		return
	}
	s.health.SetReady(true)
}
