package bootstrap

import (
	"time"

	"github.com/kbukum/meetscribe/config"
	"github.com/kbukum/meetscribe/detection"
	"github.com/kbukum/meetscribe/llm"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/provider"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	cfg                 *config.Config
	loaderOpts          []config.LoaderOption
	logger              *logger.Logger
	gracefulTimeout     time.Duration
	sources             []detection.Source
	generationFactories map[string]provider.Factory[llm.Provider]
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConfig supplies a pre-built configuration, skipping file loading.
// The config must already have defaults applied and be valid.
func WithConfig(cfg *config.Config) Option {
	return func(o *appOptions) { o.cfg = cfg }
}

// WithLoaderOptions forwards options to the config loader, e.g. an explicit
// config file path.
func WithLoaderOptions(opts ...config.LoaderOption) Option {
	return func(o *appOptions) { o.loaderOpts = append(o.loaderOpts, opts...) }
}

// WithLogger sets a custom logger. If not set, the logger is initialized
// from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithDetectionSources adds scan sources to the lifecycle manager.
func WithDetectionSources(sources ...detection.Source) Option {
	return func(o *appOptions) { o.sources = append(o.sources, sources...) }
}

// WithGenerationFactory registers a generation backend factory. When any
// factory is supplied, only the supplied ones are registered.
func WithGenerationFactory(name string, factory provider.Factory[llm.Provider]) Option {
	return func(o *appOptions) {
		if o.generationFactories == nil {
			o.generationFactories = make(map[string]provider.Factory[llm.Provider])
		}
		o.generationFactories[name] = factory
	}
}
