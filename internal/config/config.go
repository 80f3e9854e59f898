package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/lazypower/keepsharp/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. KEEPSHARP_SERVER_PORT.
const EnvPrefix = "KEEPSHARP"

// Config holds all keepsharp configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
	Sweep      SweepConfig      `mapstructure:"sweep"`
	Categories []model.Category `mapstructure:"categories"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-"`

	v *viper.Viper
}

type ServerConfig struct {
	Bind string `mapstructure:"bind"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "file"
	Path   string `mapstructure:"path"`   // empty: backend default under ~/.keepsharp
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"` // "dev" or "prod"
	Level string `mapstructure:"level"`
}

// SweepConfig schedules the daily alert sweep.
type SweepConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	At      string `mapstructure:"at"` // HH:MM, local time
}

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37778,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
		Sweep: SweepConfig{
			Enabled: true,
			At:      "09:00",
		},
	}
}

// Load reads configuration from path, or from keepsharp.toml in the working
// directory or ~/.keepsharp when path is empty. A missing file is not an
// error. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("keepsharp")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.keepsharp")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.v = v
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.bind", d.Server.Bind)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("log.mode", d.Log.Mode)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("sweep.enabled", d.Sweep.Enabled)
	v.SetDefault("sweep.at", d.Sweep.At)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("storage.driver %q: want %s or %s", c.Storage.Driver, DriverSQLite, DriverFile)
	}
	if _, err := c.SweepTime(); err != nil {
		return err
	}
	for _, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("categories: entry without id")
		}
		if cat.DefaultDecayRate < 0 {
			return fmt.Errorf("categories.%s: default_decay_rate must be positive", cat.ID)
		}
	}
	return nil
}

// SweepTime parses Sweep.At.
func (c *Config) SweepTime() (time.Time, error) {
	t, err := time.Parse("15:04", c.Sweep.At)
	if err != nil {
		return t, fmt.Errorf("sweep.at %q: want HH:MM", c.Sweep.At)
	}
	return t, nil
}

// CategoryList returns the seeded categories with configured overrides
// applied. Overrides match by id; unset fields keep the seeded value and
// unknown ids are appended.
func (c *Config) CategoryList() []model.Category {
	out := append([]model.Category{}, model.DefaultCategories...)
	index := make(map[string]int, len(out))
	for i, cat := range out {
		index[cat.ID] = i
	}
	for _, o := range c.Categories {
		i, ok := index[o.ID]
		if !ok {
			if o.Name == "" {
				o.Name = o.ID
			}
			if o.DefaultDecayRate == 0 {
				o.DefaultDecayRate = model.DefaultDecayRate
			}
			index[o.ID] = len(out)
			out = append(out, o)
			continue
		}
		cur := &out[i]
		if o.Name != "" {
			cur.Name = o.Name
		}
		if o.Icon != "" {
			cur.Icon = o.Icon
		}
		if o.DefaultDecayRate > 0 {
			cur.DefaultDecayRate = o.DefaultDecayRate
		}
		if o.Color != "" {
			cur.Color = o.Color
		}
	}
	return out
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Watch calls fn with the re-read configuration each time the config file
// changes. Invalid edits are reported through onErr and otherwise ignored.
// It does nothing when no file was loaded.
func (c *Config) Watch(fn func(*Config), onErr func(error)) {
	if c.v == nil || c.File == "" {
		return
	}
	v := c.v
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(next)
	})
	v.WatchConfig()
}
