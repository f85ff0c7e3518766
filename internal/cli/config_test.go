package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/waterfall/pkg/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	testEnv(t)

	cfg, err := loadConfig("", nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := defaultConfig()
	if cfg.Render != want.Render {
		t.Errorf("render = %+v, want %+v", cfg.Render, want.Render)
	}
	if cfg.Cache.Backend != cacheFile || cfg.Serve.Store != storeFile {
		t.Errorf("backends = %s/%s", cfg.Cache.Backend, cfg.Serve.Store)
	}
	if cfg.Serve.Timeout().Seconds() != 30 {
		t.Errorf("timeout = %v", cfg.Serve.Timeout())
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir, _ := testEnv(t)
	path := filepath.Join(dir, "waterfall.toml")
	data := `
[render]
width = 1024
height = 512
labels = true

[cache]
backend = "none"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WATERFALL_RENDER_HEIGHT", "300")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("width", 800, "")
	flags.Float64("height", 400, "")
	flags.Bool("labels", false, "")
	if err := flags.Parse([]string{"--width", "640"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, flags)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Render.Width != 640 {
		t.Errorf("width = %v, want flag value 640", cfg.Render.Width)
	}
	if cfg.Render.Height != 300 {
		t.Errorf("height = %v, want env value 300", cfg.Render.Height)
	}
	if !cfg.Render.Labels {
		t.Error("labels = false, want file value true")
	}
	if cfg.Cache.Backend != cacheNone {
		t.Errorf("cache backend = %q, want none", cfg.Cache.Backend)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir, _ := testEnv(t)

	t.Run("explicit path missing", func(t *testing.T) {
		if _, err := loadConfig(filepath.Join(dir, "missing.toml"), nil); err == nil {
			t.Error("expected error for missing explicit config")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		os.WriteFile(path, []byte("[render\nwidth = "), 0o644)
		if _, err := loadConfig(path, nil); err == nil {
			t.Error("expected parse error")
		}
	})

	tests := []struct {
		name string
		env  string
		val  string
		code errors.Code
	}{
		{"zero width", "WATERFALL_RENDER_WIDTH", "0", errors.ErrCodeInvalidViewport},
		{"negative gap", "WATERFALL_RENDER_GAP", "-0.5", errors.ErrCodeInvalidInput},
		{"unknown style", "WATERFALL_RENDER_STYLE", "handdrawn", errors.ErrCodeInvalidStyle},
		{"unknown cache", "WATERFALL_CACHE_BACKEND", "memcached", errors.ErrCodeInvalidInput},
		{"unknown store", "WATERFALL_SERVE_STORE", "postgres", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			_, err := loadConfig("", nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	dir, _ := testEnv(t)
	path := filepath.Join(dir, "nested", "config.toml")

	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[render]", "width = 800.0", "[serve]", `backend = "file"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config missing %q:\n%s", want, data)
		}
	}

	if err := writeDefaultConfig(path, false); err == nil {
		t.Error("expected error when config exists")
	}
	if err := writeDefaultConfig(path, true); err != nil {
		t.Errorf("force overwrite: %v", err)
	}

	cfg, err := loadConfig(path, nil)
	if err != nil {
		t.Fatalf("reload written config: %v", err)
	}
	if *cfg != *defaultConfig() {
		t.Errorf("round-tripped config = %+v", cfg)
	}
}

func TestConfigInitCommand(t *testing.T) {
	dir, _ := testEnv(t)

	if err := execute(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config", appName, "config.toml")); err != nil {
		t.Errorf("config not written to XDG path: %v", err)
	}
}
