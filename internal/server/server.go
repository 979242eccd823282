package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

// NewEngine builds a calculator engine from cfg, with its currency overrides
// and display precision.
func NewEngine(cfg *config.Config) (*calculator.Engine, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return calculator.NewEngine(reg,
		calculator.WithLogger(observability.Logger),
		calculator.WithPrecision(cfg.Calculator.Precision),
	)
}

// NewStore builds the session store with the configured limits.
func NewStore(cfg *config.Config, engine *calculator.Engine) *calculator.Store {
	return calculator.NewStore(engine,
		calculator.WithTTL(cfg.Calculator.SessionTTL.Duration),
		calculator.WithMaxSessions(cfg.Calculator.MaxSessions),
		calculator.WithStoreLogger(observability.Logger),
	)
}

// initTelemetry starts the exporters enabled in cfg and the calculator
// instruments. The returned function shuts down whatever was started.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if config.Enabled(cfg.Logs) {
		fn, err := observability.InitLogging(ctx)
		if err != nil {
			return shutdown, fmt.Errorf("init logging: %w", err)
		}
		shutdowns = append(shutdowns, fn)
	}

	if config.Enabled(cfg.Tracing) {
		fn, err := observability.InitTracing(ctx)
		if err != nil {
			return shutdown, fmt.Errorf("init tracing: %w", err)
		}
		shutdowns = append(shutdowns, fn)
	}

	if config.Enabled(cfg.Metrics) {
		fn, err := observability.InitMetrics(ctx)
		if err != nil {
			return shutdown, fmt.Errorf("init metrics: %w", err)
		}
		shutdowns = append(shutdowns, fn)
	}

	if err := calculator.InitMetrics(); err != nil {
		return shutdown, err
	}

	return shutdown, nil
}

// Run starts the HTTP service and blocks until ctx is cancelled or the
// listener fails. The logger, exporters and session janitor are set up from
// cfg and torn down before Run returns.
func Run(ctx context.Context, cfg *config.Config) error {
	observability.SetServiceName(cfg.Telemetry.ServiceName)

	if err := observability.InitLogger(cfg.Telemetry.LogLevel); err != nil {
		return err
	}
	defer observability.SyncLogger()

	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		if err := telemetryShutdown(sctx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()
	if err != nil {
		return err
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	store := NewStore(cfg, engine)
	if err := observability.RegisterCollector(store.Collector()); err != nil {
		return fmt.Errorf("registering session gauge: %w", err)
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go store.Run(janitorCtx, cfg.Calculator.SweepInterval.Duration)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}

	srv := &http.Server{
		Handler:      NewRouter(calculator.NewHandler(store)),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Logger.Info("server started", zap.String("addr", ln.Addr().String()))

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	observability.Logger.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
