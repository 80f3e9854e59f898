package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lazypower/keepsharp/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keepsharp.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate: %v", err)
	}
	if cfg.ListenAddr() != "127.0.0.1:37778" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr())
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", cfg.Storage.Driver)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
	if cfg.Server.Port != 37778 || cfg.Sweep.At != "09:00" || !cfg.Sweep.Enabled {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[storage]
driver = "file"
path = "/tmp/ks.json"

[log]
level = "debug"

[sweep]
enabled = false
at = "07:30"

[[categories]]
id = "fitness"
default_decay_rate = 2.0

[[categories]]
id = "cooking"
name = "Cooking"
icon = "🍳"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != path {
		t.Errorf("File = %q, want %q", cfg.File, path)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Storage.Driver != DriverFile || cfg.Storage.Path != "/tmp/ks.json" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Mode != "dev" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Sweep.Enabled || cfg.Sweep.At != "07:30" {
		t.Errorf("Sweep = %+v", cfg.Sweep)
	}

	cats := cfg.CategoryList()
	if len(cats) != 8 {
		t.Fatalf("CategoryList len = %d, want 8", len(cats))
	}
	byID := map[string]int{}
	for i, c := range cats {
		byID[c.ID] = i
	}
	fit := cats[byID["fitness"]]
	if fit.DefaultDecayRate != 2.0 || fit.Name != "Fitness" {
		t.Errorf("fitness override = %+v", fit)
	}
	cook := cats[byID["cooking"]]
	if cook.Name != "Cooking" || cook.DefaultDecayRate != 1.0 {
		t.Errorf("cooking = %+v", cook)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 9000\n")
	t.Setenv("KEEPSHARP_SERVER_PORT", "9100")
	t.Setenv("KEEPSHARP_STORAGE_DRIVER", "file")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("Driver = %q, want file", cfg.Storage.Driver)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"sweep time", func(c *Config) { c.Sweep.At = "9am" }},
		{"category id", func(c *Config) { c.Categories = []model.Category{{Name: "Nameless"}} }},
		{"category rate", func(c *Config) { c.Categories = []model.Category{{ID: "music", DefaultDecayRate: -1}} }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "[storage]\ndriver = \"postgres\"\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"info\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	changed := make(chan *Config, 4)
	cfg.Watch(func(next *Config) { changed <- next }, nil)

	if err := os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case next := <-changed:
			if next.Log.Level == "debug" {
				return
			}
		case <-timeout:
			t.Fatal("no config change observed")
		}
	}
}

func TestWatchWithoutFile(t *testing.T) {
	cfg := Default()
	// Must not panic on a config that was never loaded from disk.
	cfg.Watch(func(*Config) { t.Error("unexpected callback") }, nil)
}
