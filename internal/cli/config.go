package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FORMWIZARD_ADDR.
const EnvPrefix = "FORMWIZARD"

// Config is the resolved command configuration. Flags win over environment
// variables, which win over the config file.
type Config struct {
	Source      string        `mapstructure:"source"`
	Addr        string        `mapstructure:"addr"`
	BasePath    string        `mapstructure:"base_path"`
	Prefs       string        `mapstructure:"prefs"`
	Theme       string        `mapstructure:"theme"`
	FontSize    string        `mapstructure:"font_size"`
	Format      string        `mapstructure:"format"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Log         LogConfig     `mapstructure:"log"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("source", "")
	v.SetDefault("addr", ":8383")
	v.SetDefault("base_path", "")
	v.SetDefault("prefs", "")
	v.SetDefault("theme", "")
	v.SetDefault("font_size", "")
	v.SetDefault("format", "json")
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the optional config file and decodes every layer into a
// Config.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cli: read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("cli: decode config: %w", err)
	}
	if cfg.HTTPTimeout < 0 {
		return Config{}, errors.New("cli: http_timeout must not be negative")
	}
	return cfg, nil
}
