package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/lunabeam/lunabeam/internal/engine/config"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/internal/engine/router"
	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/pkg/cron"
	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
	"github.com/lunabeam/lunabeam/pkg/pprof"
	"github.com/lunabeam/lunabeam/pkg/shutdown"
	"github.com/lunabeam/lunabeam/pkg/trace"
)

const sweepJob = "claim-expiry-sweep"

type App struct {
	HttpApp   *fiber.App
	Metrics   *metrics.Server
	Pprof     *pprof.Server
	Shutdown  *shutdown.Manager
	Scheduler *cron.Scheduler
	Claims    *claim.Service
	Loader    *config.Loader
	Logger    *log.Logger
	AppConf   *config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	shutdownMgr *shutdown.Manager,
	claims *claim.Service,
	repos *repo.Repositories,
	loader *config.Loader,
	appConf *config.AppConfig,
) (*App, func(), error) {
	if appConf.Database.AutoMigrate {
		if err := repos.Migrate(context.Background()); err != nil {
			return nil, nil, fmt.Errorf("migrate schema: %w", err)
		}
		logger.Log.Info("database schema migrated")
	}

	scheduler := cron.New(cron.WithMetricsRecorder(metrics.CronRecorder{}))
	if appConf.Cron.Enable {
		if err := scheduler.AddFunc(sweepJob, appConf.Cron.SweepSpec, claims.Sweep); err != nil {
			return nil, nil, fmt.Errorf("register %s: %w", sweepJob, err)
		}
	}

	app := &App{
		HttpApp:   rt.Router(),
		Metrics:   metricsServer,
		Pprof:     pprofServer,
		Shutdown:  shutdownMgr,
		Scheduler: scheduler,
		Claims:    claims,
		Loader:    loader,
		Logger:    logger,
		AppConf:   appConf,
	}

	cleanup := func() {
		logger.Log.Info("stopping scheduler...")
		scheduler.Stop()
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run starts every listener and blocks until an exit signal, then shuts down
// in reverse order.
func Run(app *App, cleanup func()) {
	appConf := app.AppConf

	shutdownTrace, err := trace.Init(appConf.Trace)
	if err != nil {
		log.Errorw("tracing disabled", "error", err)
		shutdownTrace = func(context.Context) error { return nil }
	}

	if err := app.Metrics.Start(); err != nil {
		log.Errorw("metrics server failed to start", "error", err)
	}
	if err := app.Pprof.Start(); err != nil {
		log.Errorw("pprof server failed to start", "error", err)
	}

	app.Scheduler.Start()
	if appConf.Cron.Enable {
		log.Infow("claim expiry sweeper scheduled", "spec", appConf.Cron.SweepSpec)
	}

	app.Loader.Watch(func(old, cur config.AppConfig) {
		if old.Log.Level != cur.Log.Level {
			if err := log.Init(&cur.Log); err != nil {
				log.Errorw("reload log config failed", "error", err)
				return
			}
			log.Infow("log level changed", "from", old.Log.Level, "to", cur.Log.Level)
		}
	})

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
		log.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			log.Errorw("HTTP listener failed", "address", addr, "error", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Infof("Received signal: %v, shutting down gracefully...", sig)
		app.Shutdown.Shutdown()
	case <-app.Shutdown.Wait():
		log.Info("Shutdown requested, shutting down gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), appConf.Http.ShutdownTimeout)
	defer cancel()

	if err := app.HttpApp.ShutdownWithContext(ctx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	} else {
		log.Info("HTTP server shut down gracefully")
	}
	if err := app.Metrics.Stop(ctx); err != nil {
		log.Errorf("metrics server shutdown error: %v", err)
	}
	if err := app.Pprof.Stop(ctx); err != nil {
		log.Errorf("pprof server shutdown error: %v", err)
	}

	cleanup()

	if err := shutdownTrace(ctx); err != nil {
		log.Errorf("trace provider shutdown error: %v", err)
	}
	log.Info("Server shutdown complete")
	_ = log.Sync()
}
