package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
width = 1200.0
formats = ["svg", "png"]

[serve]
addr = ":9000"

[watch]
debounce = "250ms"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 1200 {
		t.Errorf("Width = %v, want 1200", cfg.Width)
	}
	if cfg.Height != 600 {
		t.Errorf("Height = %v, want default 600", cfg.Height)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[1] != "png" {
		t.Errorf("Formats = %v, want [svg png]", cfg.Formats)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("Serve.Addr = %q, want :9000", cfg.Serve.Addr)
	}
	if !cfg.Serve.Echo {
		t.Error("Serve.Echo should keep its default")
	}
	if cfg.Watch.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 250ms", cfg.Watch.Debounce.Duration)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
height: 900
cache:
  disabled: true
  redis_url: redis://localhost:6379/0
serve:
  echo: false
watch:
  debounce: 1s
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Height != 900 {
		t.Errorf("Height = %v, want 900", cfg.Height)
	}
	if !cfg.Cache.Disabled {
		t.Error("Cache.Disabled = false, want true")
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
	}
	if cfg.Serve.Echo {
		t.Error("Serve.Echo = true, want false")
	}
	if cfg.Watch.Debounce.Duration != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce.Duration)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error: %v", err)
	}
	if cfg.Width != DefaultConfig().Width {
		t.Errorf("Width = %v, want default", cfg.Width)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig with an explicit missing path should fail")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeFile(t, "config.toml", `width = "wide"`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig should reject a string width")
	}

	path = writeFile(t, "config.toml", "[watch]\ndebounce = \"soon\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig should reject an invalid duration")
	}
}

func TestWithEnv(t *testing.T) {
	t.Setenv(envRedisURL, "redis://cache:6379/1")
	t.Setenv(envAddr, "0.0.0.0:8081")
	t.Setenv(envCacheScope, "sales-q3")

	cfg := DefaultConfig().withEnv()
	if cfg.Cache.Scope != "sales-q3" {
		t.Errorf("Cache.Scope = %q", cfg.Cache.Scope)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
	}
	if cfg.Serve.Addr != "0.0.0.0:8081" {
		t.Errorf("Serve.Addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadEnv(t *testing.T) {
	const key = "SUNBURST_TEST_DOTENV"
	t.Setenv(key, "")
	os.Unsetenv(key)

	path := writeFile(t, ".env", key+"=from-file\n")
	if err := loadEnv(path); err != nil {
		t.Fatalf("loadEnv: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}

	if err := loadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("loadEnv with a missing file: %v", err)
	}
}
