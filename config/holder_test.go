package config_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/artpar/notionorm/config"
	"github.com/rs/zerolog"
)

func validConfig() string {
	return `
notion:
  token: "secret_one"
  parent_id: "page-1"

collections:
  Task: "db-1"
`
}

func newHolder(t *testing.T) (*config.Holder, string) {
	t.Helper()
	clearEnv(t)
	path := writeFile(t, validConfig())
	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	t.Cleanup(h.Stop)
	return h, path
}

func rewrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestHolder_Get(t *testing.T) {
	h, _ := newHolder(t)

	got := h.Get()
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.Notion.Token != "secret_one" {
		t.Errorf("Token = %s, want secret_one", got.Notion.Token)
	}
	if h.Path() == "" {
		t.Error("Path is empty")
	}
}

func TestHolder_NewHolderInvalid(t *testing.T) {
	clearEnv(t)
	if _, err := config.NewHolder(writeFile(t, "logging: {level: info}"), zerolog.Nop()); err == nil {
		t.Error("NewHolder should fail without a token")
	}
}

func TestHolder_ReloadAndOnChange(t *testing.T) {
	h, path := newHolder(t)

	var mu sync.Mutex
	var received *config.Config
	h.OnChange(func(cfg *config.Config) {
		mu.Lock()
		received = cfg
		mu.Unlock()
	})

	rewrite(t, path, `
notion:
  token: "secret_two"
collections:
  Task: "db-2"
logging:
  level: debug
`)
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	cfg := h.Get()
	if cfg.Notion.Token != "secret_two" || cfg.Collections["Task"] != "db-2" || cfg.Logging.Level != "debug" {
		t.Errorf("reloaded config = %+v", cfg)
	}

	mu.Lock()
	defer mu.Unlock()
	if received != cfg {
		t.Error("OnChange did not receive the new config")
	}
}

func TestHolder_ReloadInvalidConfig(t *testing.T) {
	h, path := newHolder(t)

	var reloadErr error
	h.OnError(func(err error) { reloadErr = err })
	changed := false
	h.OnChange(func(*config.Config) { changed = true })

	rewrite(t, path, "logging:\n  level: info\n")
	if err := h.Reload(); err == nil {
		t.Error("Reload should fail for invalid config")
	}

	if h.Get().Notion.Token != "secret_one" {
		t.Errorf("should keep old config, got Token = %s", h.Get().Notion.Token)
	}
	if reloadErr == nil {
		t.Error("OnError was not called")
	}
	if changed {
		t.Error("OnChange called for failed reload")
	}
}

func TestHolder_WatchFile(t *testing.T) {
	h, path := newHolder(t)

	done := make(chan struct{})
	var once sync.Once
	h.OnChange(func(cfg *config.Config) {
		if cfg.Notion.Token == "secret_watched" {
			once.Do(func() { close(done) })
		}
	})

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile error: %v", err)
	}

	rewrite(t, path, "notion:\n  token: secret_watched\n")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("file watcher did not trigger reload")
	}
	if h.Get().Notion.Token != "secret_watched" {
		t.Errorf("after file watch, Token = %s", h.Get().Notion.Token)
	}
}

func TestHolder_StopTwice(t *testing.T) {
	h, _ := newHolder(t)
	h.WatchSignals()
	h.Stop()
	h.Stop()
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	h, _ := newHolder(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if h.Get() == nil {
					t.Error("concurrent Get returned nil")
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Reload()
		}()
	}
	wg.Wait()
}

func TestReloadableFields(t *testing.T) {
	reloadable := map[string]bool{}
	for _, f := range config.ReloadableFields() {
		reloadable[f] = true
	}
	for _, want := range []string{"notion.token", "collections", "logging.level"} {
		if !reloadable[want] {
			t.Errorf("%s not in ReloadableFields", want)
		}
	}
	for _, f := range config.NonReloadableFields() {
		if reloadable[f] {
			t.Errorf("%s listed as both reloadable and non-reloadable", f)
		}
	}
}

func TestHolder_ReloadUnchanged(t *testing.T) {
	h, _ := newHolder(t)
	before := h.Get()

	calls := 0
	h.OnChange(func(*config.Config) { calls++ })

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if calls != 0 {
		t.Errorf("OnChange called %d times for an identical file", calls)
	}
	if h.Get() != before {
		t.Error("identical reload replaced the config")
	}
}

func TestChanged(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Notion:      config.NotionConfig{Token: "a", ParentID: "p"},
			Collections: map[string]string{"Task": "db-1"},
			Logging:     config.LoggingConfig{Level: "info"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   []string
	}{
		{"identical", func(*config.Config) {}, nil},
		{"token", func(c *config.Config) { c.Notion.Token = "b" }, []string{"notion.token"}},
		{"rebind", func(c *config.Config) { c.Collections["Task"] = "db-2" }, []string{"collections"}},
		{"same bindings in a new map", func(c *config.Config) { c.Collections = map[string]string{"Task": "db-1"} }, nil},
		{"restart fields", func(c *config.Config) {
			c.Notion.BaseURL = "http://localhost"
			c.Metrics.Enabled = true
		}, []string{"notion.base_url", "metrics.enabled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := base()
			tt.mutate(next)
			got := config.Changed(base(), next)
			if len(got) != len(tt.want) {
				t.Fatalf("Changed = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Changed[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
