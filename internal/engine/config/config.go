package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/internal/pkg/notify"
	"github.com/lunabeam/lunabeam/pkg/cache"
	"github.com/lunabeam/lunabeam/pkg/database"
	"github.com/lunabeam/lunabeam/pkg/http"
	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
	"github.com/lunabeam/lunabeam/pkg/pprof"
	"github.com/lunabeam/lunabeam/pkg/trace"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LUNABEAM_HTTP_PORT.
const EnvPrefix = "LUNABEAM"

type CronConfig struct {
	Enable    bool   `mapstructure:"enable"`
	SweepSpec string `mapstructure:"sweepSpec"`
}

type AppConfig struct {
	Log      log.Conf              `mapstructure:"log"`
	Http     http.Http             `mapstructure:"http"`
	Database database.Database     `mapstructure:"database"`
	Redis    cache.Redis           `mapstructure:"redis"`
	Claim    claim.Config          `mapstructure:"claim"`
	Notify   notify.Config         `mapstructure:"notify"`
	Metrics  metrics.MetricsConfig `mapstructure:"metrics"`
	Trace    trace.TraceConfig     `mapstructure:"trace"`
	Pprof    pprof.PprofConfig     `mapstructure:"pprof"`
	Cron     CronConfig            `mapstructure:"cron"`
}

// SetDefaults fills every section left empty in the file.
func (c *AppConfig) SetDefaults() {
	defaults := log.SetDefaults()
	if c.Log.Output == "" {
		c.Log.Output = defaults.Output
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Level
	}
	if c.Log.Path == "" {
		c.Log.Path = defaults.Path
	}
	if c.Log.Filename == "" {
		c.Log.Filename = defaults.Filename
	}
	c.Http.SetDefaults()
	c.Database.SetDefaults()
	c.Claim.SetDefaults()
	c.Notify.SetDefaults()
	c.Trace.SetDefaults()
	c.Pprof.SetDefaults()
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Cron.SweepSpec == "" {
		c.Cron.SweepSpec = "@every 5m"
	}
}

func (c *AppConfig) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Claim.Validate(); err != nil {
		return err
	}
	if c.Http.Auth.SecretKey == "" {
		return fmt.Errorf("http.auth.secretKey is required")
	}
	return nil
}

// Loader reads the configuration file and keeps it current when the file
// changes on disk.
type Loader struct {
	v        *viper.Viper
	path     string
	mu       sync.RWMutex
	cfg      AppConfig
	watchers []func(old, cur AppConfig)
	watching bool
}

// Load reads the TOML file at path. Environment variables prefixed with
// EnvPrefix override keys present in the file.
func Load(path string) (*Loader, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	l := &Loader{v: v, path: path}
	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	log.Infow("config file loaded", "path", path)
	return l, nil
}

func (l *Loader) decode() (AppConfig, error) {
	var cfg AppConfig
	if err := l.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration %s: %w", l.path, err)
	}
	return cfg, nil
}

// Config returns the current configuration.
func (l *Loader) Config() AppConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Watch calls fn after every change of the file that still decodes and
// validates. Invalid edits are logged and ignored.
func (l *Loader) Watch(fn func(old, cur AppConfig)) {
	l.mu.Lock()
	l.watchers = append(l.watchers, fn)
	start := !l.watching
	l.watching = true
	l.mu.Unlock()

	if start {
		l.v.OnConfigChange(l.reload)
		l.v.WatchConfig()
	}
}

func (l *Loader) reload(e fsnotify.Event) {
	log.Infow("configuration changed, reloading", "file", e.Name, "op", e.Op.String())
	cfg, err := l.decode()
	if err != nil {
		log.Errorw("configuration reload rejected", "error", err)
		return
	}

	l.mu.Lock()
	old := l.cfg
	l.cfg = cfg
	watchers := append([]func(old, cur AppConfig){}, l.watchers...)
	l.mu.Unlock()

	for _, fn := range watchers {
		fn(old, cfg)
	}
}
