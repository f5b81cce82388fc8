package app

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/actions"
	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/hcl"
	"github.com/specialistvlad/cecplan/internal/registry"
	"github.com/specialistvlad/cecplan/internal/schema"
	"github.com/specialistvlad/cecplan/internal/yamlcfg"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW     io.Writer
	logger   *zap.Logger
	config   *Config
	registry *registry.Registry
	schemas  *schema.Set
	loaders  map[string]config.Loader
}

// NewApp is the constructor for the main application. Plans and reports are
// written to outW, logs to logW. Each App owns its logger and registry.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(ctx, actions.All()...)
	if err := reg.ValidateRegistry(); err != nil {
		// A broken action module is a programmer error.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	yamlLoader := yamlcfg.NewLoader()
	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		schemas:  schema.NewSet(reg),
		loaders: map[string]config.Loader{
			".hcl":  hcl.NewLoader(),
			".yaml": yamlLoader,
			".yml":  yamlLoader,
		},
	}
}

// Registry returns the application's action registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Schema returns the schema generation the app validates against.
func (a *App) Schema() *schema.Schema {
	s, err := a.schemas.Generation(a.config.Generation)
	if err != nil {
		// NewConfig rejects unknown generations.
		panic(err)
	}
	return s.WithWorkers(a.config.Workers)
}

// withLogger attaches the app's logger to ctx.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
