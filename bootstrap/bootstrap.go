// Package bootstrap wires configuration, logging, metrics and the remote
// gateway into collection services.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/artpar/notionorm/adapters/idgen"
	"github.com/artpar/notionorm/adapters/metrics"
	"github.com/artpar/notionorm/adapters/random"
	"github.com/artpar/notionorm/adapters/remote"
	"github.com/artpar/notionorm/app"
	"github.com/artpar/notionorm/config"
	"github.com/artpar/notionorm/core/schema"
	"github.com/artpar/notionorm/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	// ConfigPath is a YAML config file. When it does not exist the
	// configuration comes from NOTIONORM_* environment variables.
	ConfigPath string

	// Watch reloads the config file on change and on SIGHUP.
	Watch bool

	// Gateway replaces the remote gateway, e.g. with memory.Gateway.
	Gateway ports.Gateway

	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer
}

// App holds the wired dependencies.
type App struct {
	Logger   zerolog.Logger
	Client   *remote.Client
	Gateway  ports.Gateway
	Metrics  *metrics.Collector
	Registry *prometheus.Registry

	holder  *config.Holder
	config  *config.Config
	schemas []*schema.Schema
}

// New loads configuration and model definitions and wires the gateway.
func New(opts Options) (*App, error) {
	cfg, holder, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Logging, opts.LogOutput)
	a := &App{
		Logger: logger,
		holder: holder,
		config: cfg,
	}

	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Metrics = metrics.NewWithRegistry(a.Registry)
		logger.Debug().Msg("prometheus metrics enabled")
	}

	gw := opts.Gateway
	if gw == nil {
		a.Client = remote.NewClient(remote.ClientConfig{
			BaseURL: cfg.Notion.BaseURL,
			Token:   cfg.Notion.Token,
			Version: cfg.Notion.Version,
			Timeout: cfg.Notion.Timeout,
			Headers: cfg.Notion.Headers,
		})
		gw = remote.NewGateway(a.Client)
	}
	if a.Metrics != nil {
		gw = metrics.Instrument(gw, a.Metrics)
	}
	a.Gateway = gw

	schemas, err := loadModels(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	a.schemas = schemas
	logger.Debug().Int("models", len(schemas)).Msg("model definitions loaded")

	if holder != nil {
		holder.SetLogger(logger)
		holder.OnChange(a.applyConfig)
		holder.OnError(func(error) {
			if a.Metrics != nil {
				a.Metrics.ConfigReloadErrors.Inc()
			}
		})
		if opts.Watch {
			if err := holder.WatchFile(); err != nil {
				logger.Warn().Err(err).Msg("config file watch unavailable")
			}
			holder.WatchSignals()
		}
	}

	return a, nil
}

func loadConfig(path string) (*config.Config, *config.Holder, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			holder, err := config.NewHolder(path, zerolog.Nop())
			if err != nil {
				return nil, nil, err
			}
			return holder.Get(), holder, nil
		}
	}
	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, nil, nil
}

func loadModels(cfg config.ModelsConfig) ([]*schema.Schema, error) {
	var schemas []*schema.Schema
	if cfg.Dir != "" {
		parsed, err := schema.ParseDir(cfg.Dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		schemas = append(schemas, parsed...)
	}
	for _, path := range cfg.Files {
		parsed, err := schema.ParseFile(path)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, parsed...)
	}

	seen := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		if seen[s.Name()] {
			return nil, fmt.Errorf("model %s defined more than once", s.Name())
		}
		seen[s.Name()] = true
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name() < schemas[j].Name() })
	return schemas, nil
}

func (a *App) applyConfig(cfg *config.Config) {
	level := SetLevel(cfg.Logging.Level)
	if a.Client != nil {
		a.Client.SetToken(cfg.Notion.Token)
	}
	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
		a.Metrics.ConfigLastReload.Set(float64(time.Now().Unix()))
	}
	a.Logger.Info().Str("level", level.String()).Msg("configuration applied")
}

// Reload rereads the config file. Without a file it is a no-op.
func (a *App) Reload() error {
	if a.holder == nil {
		return nil
	}
	return a.holder.Reload()
}

// Config returns the current configuration.
func (a *App) Config() *config.Config {
	if a.holder != nil {
		return a.holder.Get()
	}
	return a.config
}

// Schemas returns the loaded models, sorted by name.
func (a *App) Schemas() []*schema.Schema {
	return append([]*schema.Schema(nil), a.schemas...)
}

// Schema returns the model named name.
func (a *App) Schema(name string) (*schema.Schema, error) {
	for _, s := range a.schemas {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown model %q", name)
}

// Collection returns a service for the named model, bound to the collection
// id configured for it, if any.
func (a *App) Collection(name string) (*app.Collection, error) {
	s, err := a.Schema(name)
	if err != nil {
		return nil, err
	}
	return a.CollectionFor(s), nil
}

// CollectionFor returns a service for s.
func (a *App) CollectionFor(s *schema.Schema) *app.Collection {
	return app.NewCollection(s, a.Gateway, a.Logger, app.CollectionConfig{
		CollectionID: a.Config().Collections[s.Name()],
		IDs:          idgen.Compact{},
		Colors:       random.Real{},
	})
}

// Close stops config watching and writes metrics to the configured textfile.
func (a *App) Close() error {
	if a.holder != nil {
		a.holder.Stop()
	}
	path := a.Config().Metrics.Textfile
	if a.Registry == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, a.Registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.Logger.Debug().Str("path", path).Msg("metrics written")
	return nil
}
