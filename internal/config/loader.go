package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/xpx/internal/domain/models"
	"github.com/turtacn/xpx/pkg/constants"
	"github.com/turtacn/xpx/pkg/logger"
)

// EnvPrefix is prepended to every environment override, e.g. XPX_SERVER_PORT.
const EnvPrefix = "XPX"

// Loader reads configuration from defaults, an optional YAML file and the environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader. An empty configFile searches /etc/xpx and the working directory.
func NewLoader(configFile string) *Loader {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/xpx/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", constants.DefaultHTTPPort)
	v.SetDefault("server.grpc_port", constants.DefaultGRPCPort)
	v.SetDefault("server.read_timeout", constants.DefaultReadTimeout)
	v.SetDefault("server.write_timeout", constants.DefaultWriteTimeout)
	v.SetDefault("server.idle_timeout", constants.DefaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", constants.DefaultShutdownTimeout)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.enable_reflection", false)

	v.SetDefault("scoring.default_mode", string(models.ModeMLPlusRules))

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", constants.DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", constants.DefaultRateLimitBurst)
	v.SetDefault("rate_limit.ttl", constants.DefaultRateLimitTTL)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.sampling_rate", 1.0)
}

// Load reads and validates the configuration. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFile returns the file the configuration was read from, or "" when none was found.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the configuration whenever the config file changes and hands
// each valid result to onChange. Invalid edits are logged and ignored.
// It does nothing when no config file was loaded.
func (l *Loader) Watch(log logger.Logger, onChange func(*Config)) {
	if l.ConfigFile() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		ctx := context.Background()
		cfg, err := l.decode()
		if err != nil {
			log.Error(ctx, "Ignoring invalid config change", err, logger.String("file", e.Name))
			return
		}
		log.Info(ctx, "Config file changed", logger.String("file", e.Name), logger.String("op", e.Op.String()))
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// LoadConfig is a convenience wrapper for one-shot loading.
func LoadConfig(configFile string) (*Config, error) {
	return NewLoader(configFile).Load()
}
