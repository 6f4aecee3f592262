package bootstrap_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/notionorm/adapters/memory"
	"github.com/artpar/notionorm/adapters/metrics"
	"github.com/artpar/notionorm/bootstrap"
	"github.com/artpar/notionorm/config"
	"github.com/rs/zerolog"
)

const taskModel = `
model: Task
collection: tasks
fields:
  - attr: title
    property: Name
    type: text
    required: true
  - attr: points
    property: Points
    type: integer
`

const noteModel = `
model: Note
fields:
  - attr: body
    property: Body
    type: text
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NOTIONORM_TOKEN", "NOTION_API_KEY", "NOTIONORM_MODELS_DIR", "NOTIONORM_METRICS_ENABLED", "NOTIONORM_METRICS_FILE", "NOTIONORM_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// workspace writes a config file and two model files and returns the
// config path.
func workspace(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	models := filepath.Join(dir, "models")
	writeFile(t, filepath.Join(models, "task.yaml"), taskModel)
	writeFile(t, filepath.Join(models, "nested", "note.yml"), noteModel)

	path := filepath.Join(dir, "notionorm.yaml")
	writeFile(t, path, "notion:\n  token: secret_one\nmodels:\n  dir: "+models+"\n"+extra)
	return path
}

func TestNew_LoadsModels(t *testing.T) {
	clearEnv(t)
	a, err := bootstrap.New(bootstrap.Options{ConfigPath: workspace(t, ""), Gateway: memory.NewGateway()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	schemas := a.Schemas()
	if len(schemas) != 2 || schemas[0].Name() != "Note" || schemas[1].Name() != "Task" {
		t.Fatalf("schemas = %v", schemas)
	}
	if _, err := a.Schema("Missing"); err == nil {
		t.Error("Schema(Missing) should fail")
	}
	if a.Metrics != nil {
		t.Error("metrics should be off by default")
	}
	if a.Client != nil {
		t.Error("remote client created despite gateway override")
	}
}

func TestNew_RemoteGateway(t *testing.T) {
	clearEnv(t)
	a, err := bootstrap.New(bootstrap.Options{ConfigPath: workspace(t, "")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if a.Client == nil || a.Gateway == nil {
		t.Error("remote gateway not wired")
	}
}

func TestNew_EnvFallback(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "task.yaml"), taskModel)
	t.Setenv("NOTION_API_KEY", "secret_env")
	t.Setenv("NOTIONORM_MODELS_DIR", dir)

	a, err := bootstrap.New(bootstrap.Options{ConfigPath: filepath.Join(dir, "absent.yaml"), Gateway: memory.NewGateway()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if a.Config().Notion.Token != "secret_env" {
		t.Errorf("Token = %s", a.Config().Notion.Token)
	}
	if len(a.Schemas()) != 1 {
		t.Errorf("got %d schemas", len(a.Schemas()))
	}
}

func TestNew_MissingModelsDirIsEmpty(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIONORM_TOKEN", "t")
	t.Setenv("NOTIONORM_MODELS_DIR", filepath.Join(t.TempDir(), "nothing"))

	a, err := bootstrap.New(bootstrap.Options{Gateway: memory.NewGateway()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()
	if len(a.Schemas()) != 0 {
		t.Errorf("schemas = %v", a.Schemas())
	}
}

func TestNew_DuplicateModel(t *testing.T) {
	clearEnv(t)
	path := workspace(t, "")
	writeFile(t, filepath.Join(filepath.Dir(path), "models", "again.yaml"), taskModel)

	_, err := bootstrap.New(bootstrap.Options{ConfigPath: path, Gateway: memory.NewGateway()})
	if err == nil || !strings.Contains(err.Error(), "more than once") {
		t.Errorf("error = %v, want duplicate model error", err)
	}
}

func TestNew_NoConfig(t *testing.T) {
	clearEnv(t)
	if _, err := bootstrap.New(bootstrap.Options{}); err == nil {
		t.Error("New should fail without any configuration")
	}
}

func TestApp_CollectionBindingAndMetrics(t *testing.T) {
	clearEnv(t)
	gw := memory.NewGateway()
	textfile := filepath.Join(t.TempDir(), "notionorm.prom")
	path := workspace(t, "metrics:\n  enabled: true\n  textfile: "+textfile+"\n")

	a, err := bootstrap.New(bootstrap.Options{ConfigPath: path, Gateway: gw})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := a.Gateway.(*metrics.Instrumented); !ok {
		t.Errorf("gateway = %T, want instrumented", a.Gateway)
	}

	ctx := context.Background()
	tasks, err := a.Collection("Task")
	if err != nil {
		t.Fatal(err)
	}
	id, err := tasks.Migrate(ctx, "parent")
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	// Bind the model through the config file and reload.
	writeFile(t, path, "notion:\n  token: secret_two\nmodels:\n  dir: "+filepath.Join(filepath.Dir(path), "models")+
		"\ncollections:\n  Task: "+id+"\nmetrics:\n  enabled: true\n  textfile: "+textfile+"\n")
	if err := a.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	bound, err := a.Collection("Task")
	if err != nil {
		t.Fatal(err)
	}
	if bound.ID() != id {
		t.Errorf("bound ID = %q, want %q", bound.ID(), id)
	}
	if _, err := bound.All(ctx); err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("metrics textfile: %v", err)
	}
	for _, want := range []string{"notionorm_gateway_requests_total", "notionorm_config_reloads_total 1"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics textfile missing %q", want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger := bootstrap.NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("log output = %s", out)
	}

	buf.Reset()
	logger = bootstrap.NewLogger(config.LoggingConfig{Level: "bogus", Format: "console"}, &buf)
	logger.Info().Msg("console line")
	if !strings.Contains(buf.String(), "console line") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output = %s", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := bootstrap.SetLevel(tt.in); got != tt.want {
			t.Errorf("SetLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
