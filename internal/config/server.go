package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// ServerSettings configure cmd/api. Every key is read from the environment
// under its upper-case name (API_PORT, BATTERY_DIR, ...) and may also come
// from the YAML/TOML/JSON file named by CONFIG_FILE. CORS_ORIGINS is a
// comma-separated list.
type ServerSettings struct {
	Port        string        `mapstructure:"api_port"`
	Env         string        `mapstructure:"api_env"`
	LogLevel    string        `mapstructure:"log_level"`
	BatteryDir  string        `mapstructure:"battery_dir"`
	StaticDir   string        `mapstructure:"static_dir"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("api_port", "8080")
	v.SetDefault("api_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("battery_dir", "examples/batteries")
	v.SetDefault("static_dir", "./web/dist")
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("cors_origins", []string{"*"})
}

func LoadServerSettings() (*ServerSettings, error) {
	v := viper.New()
	setServerDefaults(v)
	v.AutomaticEnv()

	// if defined, try to load settings from a file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", cfgFile, err)
		}
	}

	var s ServerSettings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	if s.CacheTTL <= 0 {
		return nil, fmt.Errorf("cache_ttl must be > 0, got %s", s.CacheTTL)
	}
	return &s, nil
}

// Production reports whether the server runs with API_ENV=production.
func (s ServerSettings) Production() bool {
	return s.Env == "production"
}
