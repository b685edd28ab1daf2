package main

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/lunabeam/lunabeam/internal/engine/config"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/internal/pkg/notify"
	"github.com/lunabeam/lunabeam/pkg/cache"
	"github.com/lunabeam/lunabeam/pkg/database"
	"github.com/lunabeam/lunabeam/pkg/log"
)

// runtime is the subset of the server a single command needs.
type runtime struct {
	conf    config.AppConfig
	repos   *repo.Repositories
	claims  *claim.Service
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// openRuntime loads the configuration and opens the database. The claim
// service, its cache and notifier are only built when withService is set.
func openRuntime(confPath string, withService bool) (*runtime, error) {
	loader, err := config.Load(confPath)
	if err != nil {
		return nil, err
	}
	r := &runtime{conf: loader.Config()}

	// stdout carries command output
	if r.conf.Log.Output == "stdout" {
		r.conf.Log.Output = "stderr"
	}
	logger, err := log.ProvideLogger(&r.conf.Log)
	if err != nil {
		return nil, err
	}

	db, closeDB, err := database.ProvideDatabase(r.conf.Database, logger)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, closeDB)
	r.repos = repo.NewRepositories(db)
	if !withService {
		return r, nil
	}

	c, closeCache, err := cache.ProvideCache(r.conf.Redis)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.closers = append(r.closers, closeCache)

	notifier, closeNotifier, err := notify.ProvideNotifier(r.conf.Notify)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.closers = append(r.closers, closeNotifier)

	r.claims, err = claim.NewService(r.conf.Claim, r.repos, c, notifier)
	if err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
