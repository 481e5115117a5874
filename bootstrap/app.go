package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/meetscribe/config"
	"github.com/kbukum/meetscribe/llm"
	"github.com/kbukum/meetscribe/llm/ollama"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/meeting"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/provider"
	"github.com/kbukum/meetscribe/repository/memory"
	"github.com/kbukum/meetscribe/summary"
	"github.com/kbukum/meetscribe/transcription"
	"github.com/kbukum/meetscribe/version"
)

// App wires the full application: configuration, logging, telemetry, the
// repository, and the three domain managers. Embedders construct an App, add
// detection sources, and call Run.
type App struct {
	Cfg    *config.Config
	Logger *logger.Logger

	Repo           *memory.Repository
	Meetings       *meeting.Manager
	Transcriptions *transcription.Manager
	Summaries      *summary.Orchestrator
	Generation     *provider.Manager[llm.Provider]
	Metrics        *observability.Metrics

	gracefulTimeout time.Duration
	telemetryStops  []func(context.Context) error
	sourceNames     []string

	onStart []Hook
	onStop  []Hook
}

// New builds a fully wired App. Configuration is loaded from the standard
// locations unless WithConfig supplies one directly.
func New(ctx context.Context, serviceName string, opts ...Option) (*App, error) {
	o := resolveOptions(opts)

	cfg := o.cfg
	if cfg == nil {
		loaded, err := config.Load(serviceName, o.loaderOpts...)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cfg.Version == "" {
		cfg.Version = version.Version
	}

	app := &App{
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout > 0 {
		app.gracefulTimeout = o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if err := app.initTelemetry(ctx); err != nil {
		return nil, err
	}

	app.Repo = memory.New()
	app.Meetings = meeting.NewManager(cfg.Detection, app.Repo)
	for _, src := range o.sources {
		if err := app.Meetings.AddSource(src); err != nil {
			return nil, fmt.Errorf("add detection source %s: %w", src.Name(), err)
		}
		app.sourceNames = append(app.sourceNames, src.Name())
	}

	app.Transcriptions = transcription.NewManager(app.Repo,
		transcription.WithLifecycle(app.Meetings),
		transcription.WithMetrics(app.Metrics),
	)

	if err := app.initGeneration(o); err != nil {
		return nil, err
	}

	app.Summaries = summary.NewOrchestrator(app.Repo, app.Repo, app.Generation,
		summary.WithMetrics(app.Metrics),
		summary.WithIdleTimeout(cfg.Summary.StreamIdleTimeout),
	)

	return app, nil
}

// initTelemetry starts the OTLP trace and metric exporters when enabled and
// creates the domain metric instruments.
func (a *App) initTelemetry(ctx context.Context) error {
	if !a.Cfg.Telemetry.Enabled {
		return nil
	}

	tc := observability.DefaultTracerConfig(a.Cfg.Name)
	tc.ServiceVersion = a.Cfg.Version
	tc.Environment = a.Cfg.Environment
	tc.Endpoint = a.Cfg.Telemetry.Endpoint
	tc.Insecure = a.Cfg.Telemetry.Insecure
	tc.SampleRate = a.Cfg.Telemetry.SampleRate

	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.telemetryStops = append(a.telemetryStops, tp.Shutdown)

	mc := observability.DefaultMeterConfig(a.Cfg.Name)
	mc.ServiceVersion = a.Cfg.Version
	mc.Environment = a.Cfg.Environment
	mc.Endpoint = a.Cfg.Telemetry.Endpoint
	mc.Insecure = a.Cfg.Telemetry.Insecure

	mp, err := observability.InitMeter(ctx, &mc)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	a.telemetryStops = append(a.telemetryStops, mp.Shutdown)

	metrics, err := observability.NewMetrics(observability.Meter(a.Cfg.Name))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}
	a.Metrics = metrics
	return nil
}

// initGeneration registers generation backends and initializes the configured
// default. Every backend is wrapped with retry and circuit breaking.
func (a *App) initGeneration(o *appOptions) error {
	a.Generation = llm.NewManager()

	factories := o.generationFactories
	if len(factories) == 0 {
		factories = map[string]provider.Factory[llm.Provider]{
			ollama.ProviderName: ollama.Factory(),
		}
	}
	for name, factory := range factories {
		inner := factory
		a.Generation.Register(name, func(cfg map[string]any) (llm.Provider, error) {
			p, err := inner(cfg)
			if err != nil {
				return nil, err
			}
			return llm.NewResilientProvider(p), nil
		})
	}

	gen := a.Cfg.Generation
	if _, ok := factories[gen.Provider]; !ok {
		return fmt.Errorf("unknown generation provider %q", gen.Provider)
	}
	if err := a.Generation.Initialize(gen.Provider, map[string]any{
		"base_url":    gen.BaseURL,
		"model":       gen.Model,
		"temperature": gen.Temperature,
		"timeout":     gen.Timeout,
	}); err != nil {
		return fmt.Errorf("initialize generation provider: %w", err)
	}
	return a.Generation.SetDefault(gen.Provider)
}

// Run starts monitoring, executes start hooks, and blocks until ctx is
// cancelled or a termination signal arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Meetings.StartMonitoring(ctx); err != nil {
		return fmt.Errorf("start monitoring: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		a.shutdown()
		return fmt.Errorf("start hooks: %w", err)
	}

	a.logStartupReport()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case <-ctx.Done():
		a.Logger.Info("context cancelled, shutting down")
	}

	return a.shutdown()
}

// shutdown runs stop hooks, stops monitoring, and flushes telemetry within
// the graceful timeout.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var firstErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.WithError(err).Error("stop hooks failed")
		firstErr = err
	}
	if err := a.Meetings.StopMonitoring(); err != nil {
		a.Logger.WithError(err).Error("stop monitoring failed")
		if firstErr == nil {
			firstErr = err
		}
	}
	for _, stop := range a.telemetryStops {
		if err := stop(ctx); err != nil {
			a.Logger.WithError(err).Warn("telemetry shutdown failed")
		}
	}

	a.Logger.Info("application stopped", map[string]interface{}{"name": a.Cfg.Name})
	return firstErr
}
