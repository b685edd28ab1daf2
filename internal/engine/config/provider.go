package config

import (
	"github.com/google/wire"
	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/internal/pkg/notify"
	"github.com/lunabeam/lunabeam/pkg/cache"
	"github.com/lunabeam/lunabeam/pkg/database"
	"github.com/lunabeam/lunabeam/pkg/http"
	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
	"github.com/lunabeam/lunabeam/pkg/pprof"
	"github.com/lunabeam/lunabeam/pkg/trace"
)

// ProviderSet exposes every configuration section to wire.
var ProviderSet = wire.NewSet(
	Load,
	ProvideConf,
	ProvideLogConfig,
	ProvideHttpConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideClaimConfig,
	ProvideNotifyConfig,
	ProvideMetricsConfig,
	ProvideTraceConfig,
	ProvidePprofConfig,
	ProvideCronConfig,
)

func ProvideConf(l *Loader) *AppConfig {
	cfg := l.Config()
	return &cfg
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	return &appConf.Http
}

func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideClaimConfig(appConf *AppConfig) claim.Config {
	return appConf.Claim
}

func ProvideNotifyConfig(appConf *AppConfig) notify.Config {
	return appConf.Notify
}

func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

func ProvideTraceConfig(appConf *AppConfig) trace.TraceConfig {
	return appConf.Trace
}

func ProvidePprofConfig(appConf *AppConfig) pprof.PprofConfig {
	return appConf.Pprof
}

func ProvideCronConfig(appConf *AppConfig) CronConfig {
	return appConf.Cron
}
