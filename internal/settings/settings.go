// Package settings loads process settings from settings.yaml and
// PETGACHA_* environment variables.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xtding233/petgacha/internal/logs"
)

const EnvPrefix = "PETGACHA"

type Settings struct {
	HTTP   HTTPConfig  `mapstructure:"http"`
	GRPC   GRPCConfig  `mapstructure:"grpc"`
	Config EconConfig  `mapstructure:"config"`
	Save   SaveConfig  `mapstructure:"save"`
	Log    logs.Config `mapstructure:"log"`
	Seed   uint64      `mapstructure:"seed"` // 0 = crypto RNG
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests/s; 0 disables
	Burst           int           `mapstructure:"burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type GRPCConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the health service
}

type EconConfig struct {
	Dir      string        `mapstructure:"dir"` // empty = embedded defaults only
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

type SaveConfig struct {
	Backend  string `mapstructure:"backend"` // file | sqlite | memory
	Path     string `mapstructure:"path"`
	Autoload string `mapstructure:"autoload"` // slot loaded at startup, if present
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.rate_limit", 20.0)
	v.SetDefault("http.burst", 40)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
	v.SetDefault("grpc.addr", ":9090")
	v.SetDefault("config.dir", "")
	v.SetDefault("config.watch", true)
	v.SetDefault("config.debounce", 200*time.Millisecond)
	v.SetDefault("save.backend", "file")
	v.SetDefault("save.path", "./saves")
	v.SetDefault("save.autoload", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 64)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.dev", false)
	v.SetDefault("seed", 0)
}

// Load reads path (optional) over the defaults, then applies env overrides
// such as PETGACHA_HTTP_ADDR or PETGACHA_SAVE_BACKEND.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	var errs []string
	if s.HTTP.Addr == "" {
		errs = append(errs, "http.addr is required")
	}
	if s.HTTP.RateLimit < 0 || s.HTTP.Burst < 0 {
		errs = append(errs, "http.rate_limit and http.burst must be >= 0")
	}
	switch s.Save.Backend {
	case "file", "sqlite", "memory":
	default:
		errs = append(errs, "save.backend must be one of: file, sqlite, memory")
	}
	if s.Save.Backend != "memory" && s.Save.Path == "" {
		errs = append(errs, "save.path is required")
	}
	if len(errs) > 0 {
		return fmt.Errorf("settings validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
