package config

import (
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// settleDelay coalesces the burst of events an editor produces for one save.
const settleDelay = 100 * time.Millisecond

// setting describes one config field for reload handling.
type setting struct {
	name       string
	reloadable bool
	secret     bool // value is never logged
	value      func(*Config) any
}

var settings = []setting{
	{name: "notion.token", reloadable: true, secret: true, value: func(c *Config) any { return c.Notion.Token }},
	{name: "notion.parent_id", reloadable: true, value: func(c *Config) any { return c.Notion.ParentID }},
	{name: "collections", reloadable: true, value: func(c *Config) any { return c.Collections }},
	{name: "logging.level", reloadable: true, value: func(c *Config) any { return c.Logging.Level }},
	{name: "notion.base_url", value: func(c *Config) any { return c.Notion.BaseURL }},
	{name: "notion.version", value: func(c *Config) any { return c.Notion.Version }},
	{name: "notion.timeout", value: func(c *Config) any { return c.Notion.Timeout }},
	{name: "notion.headers", value: func(c *Config) any { return c.Notion.Headers }},
	{name: "models.dir", value: func(c *Config) any { return c.Models.Dir }},
	{name: "models.files", value: func(c *Config) any { return c.Models.Files }},
	{name: "logging.format", value: func(c *Config) any { return c.Logging.Format }},
	{name: "metrics.enabled", value: func(c *Config) any { return c.Metrics.Enabled }},
	{name: "metrics.textfile", value: func(c *Config) any { return c.Metrics.Textfile }},
}

func (s setting) differs(old, new *Config) bool {
	if s.name == "collections" {
		return !maps.Equal(old.Collections, new.Collections)
	}
	return !reflect.DeepEqual(s.value(old), s.value(new))
}

// Holder serves the current configuration and reloads it from its file.
// Bootstrap binds models to collections through it, so a reload can rotate
// the token and rebind models without a restart.
type Holder struct {
	path string

	mu       sync.RWMutex
	config   *Config
	logger   zerolog.Logger
	onChange []func(*Config)
	onError  []func(error)

	watcher  *fsnotify.Watcher
	settle   *time.Timer
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder loads path and returns a holder serving it.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		path:   absPath,
		config: cfg,
		logger: logger.With().Str("component", "config").Logger(),
		stopCh: make(chan struct{}),
	}, nil
}

// SetLogger replaces the logger used for reload messages.
func (h *Holder) SetLogger(logger zerolog.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger.With().Str("component", "config").Logger()
}

func (h *Holder) log() *zerolog.Logger {
	h.mu.RLock()
	defer h.mu.RUnlock()
	l := h.logger
	return &l
}

// Get returns the current configuration.
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// Path returns the absolute path of the config file.
func (h *Holder) Path() string { return h.path }

// OnChange registers fn to receive every configuration that differs from
// the one it replaces.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnError registers fn to receive reload failures.
func (h *Holder) OnError(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = append(h.onError, fn)
}

// Reload rereads the file. A file that fails to load leaves the current
// configuration in place; an identical file notifies nobody.
func (h *Holder) Reload() error {
	return h.reload("manual")
}

func (h *Holder) reload(source string) error {
	logger := h.log().With().Str("source", source).Logger()

	next, err := Load(h.path)
	if err != nil {
		err = fmt.Errorf("reload config: %w", err)
		logger.Error().Err(err).Msg("config reload failed, keeping current config")
		h.mu.RLock()
		fns := append([]func(error){}, h.onError...)
		h.mu.RUnlock()
		for _, fn := range fns {
			fn(err)
		}
		return err
	}

	h.mu.Lock()
	prev := h.config
	if reflect.DeepEqual(prev, next) {
		h.mu.Unlock()
		logger.Debug().Msg("configuration unchanged")
		return nil
	}
	h.config = next
	fns := append([]func(*Config){}, h.onChange...)
	h.mu.Unlock()

	for _, s := range settings {
		if !s.differs(prev, next) {
			continue
		}
		if !s.reloadable {
			logger.Warn().Str("field", s.name).Msg("change requires restart")
			continue
		}
		ev := logger.Info().Str("field", s.name)
		if !s.secret {
			ev = ev.Interface("value", s.value(next))
		}
		ev.Msg("config changed")
	}

	for _, fn := range fns {
		fn(next)
	}
	return nil
}

// Changed returns the names of the fields that differ between old and new.
func Changed(old, new *Config) []string {
	var out []string
	for _, s := range settings {
		if s.differs(old, new) {
			out = append(out, s.name)
		}
	}
	return out
}

// WatchFile reloads the configuration whenever its file is written.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Editors that save atomically replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	h.watcher = watcher

	go h.watchLoop()

	h.log().Info().Str("path", h.path).Msg("watching config file")
	return nil
}

func (h *Holder) watchLoop() {
	name := filepath.Base(h.path)
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) == name && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.scheduleReload()
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log().Error().Err(err).Msg("config watcher error")
		case <-h.stopCh:
			return
		}
	}
}

// scheduleReload reloads once events have stopped for settleDelay.
func (h *Holder) scheduleReload() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.settle != nil {
		h.settle.Reset(settleDelay)
		return
	}
	h.settle = time.AfterFunc(settleDelay, func() {
		select {
		case <-h.stopCh:
			return
		default:
		}
		_ = h.reload("file")
	})
}

// WatchSignals reloads the configuration on SIGHUP.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-sigCh:
				_ = h.reload("signal")
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop ends file and signal watching. It is safe to call more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		h.mu.Lock()
		if h.settle != nil {
			h.settle.Stop()
		}
		h.mu.Unlock()
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

// ReloadableFields returns the fields a reload applies without restart.
func ReloadableFields() []string {
	return fieldNames(true)
}

// NonReloadableFields returns the fields that only take effect on restart.
func NonReloadableFields() []string {
	return fieldNames(false)
}

func fieldNames(reloadable bool) []string {
	var out []string
	for _, s := range settings {
		if s.reloadable == reloadable {
			out = append(out, s.name)
		}
	}
	return out
}
