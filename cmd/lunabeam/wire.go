//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/lunabeam/lunabeam/internal/bootstrap"
	"github.com/lunabeam/lunabeam/internal/engine/config"
	"github.com/lunabeam/lunabeam/internal/engine/repo"
	"github.com/lunabeam/lunabeam/internal/engine/router"
	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/internal/pkg/notify"
	"github.com/lunabeam/lunabeam/pkg/cache"
	"github.com/lunabeam/lunabeam/pkg/database"
	"github.com/lunabeam/lunabeam/pkg/log"
	"github.com/lunabeam/lunabeam/pkg/metrics"
	"github.com/lunabeam/lunabeam/pkg/pprof"
	"github.com/lunabeam/lunabeam/pkg/shutdown"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		log.ProviderSet,
		// 基础设施
		database.ProviderSet,
		cache.ProviderSet,
		metrics.ProviderSet,
		pprof.ProviderSet,
		shutdown.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		notify.ProviderSet,
		claim.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}
