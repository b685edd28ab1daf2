// Copyright 2025 LunaBeam Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/pkg/http"
	"github.com/lunabeam/lunabeam/pkg/http/middleware"
	"github.com/lunabeam/lunabeam/pkg/shutdown"
	"github.com/lunabeam/lunabeam/pkg/version"
)

const serviceName = "lunabeam"

type Router struct {
	Http     *http.Http
	Claims   *claim.Service
	Shutdown *shutdown.Manager

	now func() time.Time
}

func NewRouter(httpConf *http.Http, claims *claim.Service, shutdownMgr *shutdown.Manager) *Router {
	return &Router{
		Http:     httpConf,
		Claims:   claims,
		Shutdown: shutdownMgr,
		now:      time.Now,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		BodyLimit:             rt.Http.BodyLimit,
		ReadTimeout:           rt.Http.ReadTimeout,
		WriteTimeout:          rt.Http.WriteTimeout,
		IdleTimeout:           rt.Http.IdleTimeout,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          middleware.ErrorHandler,
	})

	// panic recover
	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.RequestMiddleware())
	app.Use(middleware.TraceMiddleware(serviceName))

	if rt.Http.AccessLog {
		app.Use(http.AccessLogFormat(rt.Http))
	}

	// unified response
	app.Use(middleware.UnifiedResponseMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if rt.Shutdown != nil && rt.Shutdown.IsShuttingDown() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)
	rt.claimRouter(api, auth)

	return app
}
