// Copyright 2026 ILA Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/ilarouter/ila/pkg/log"
	"github.com/ilarouter/ila/pkg/private/processmetrics"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/private/app/launcher"
	"github.com/ilarouter/ila/router"
	"github.com/ilarouter/ila/router/config"
	"github.com/ilarouter/ila/router/control"
	"github.com/ilarouter/ila/router/feature"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/fib/kernel"
	api "github.com/ilarouter/ila/router/mgmtapi"
	"github.com/ilarouter/ila/router/store"
	_ "github.com/ilarouter/ila/router/underlayproviders/tun"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig: &globalCfg,
		ShortName:  "ILA Router",
		Main:       realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	if err := processmetrics.Init(prometheus.DefaultRegisterer); err != nil {
		log.Info("Process metrics are not available", "err", err)
	}
	entries := store.New(globalCfg.ILA.StoreConfig())
	table := fib.New(fib.Config{})
	if dev := globalCfg.Kernel.Device; dev != "" {
		mirror, err := kernel.Open(dev)
		if err != nil {
			return serrors.Wrap("opening kernel route mirror", err, "device", dev)
		}
		table.AddObserver(mirror)
		log.Info("Mirroring host routes into the kernel", "device", dev)
	}
	chains := feature.New()
	dp, err := router.NewDataPlane(router.RunConfig{
		NumProcessors: globalCfg.Router.NumProcessors,
		BatchSize:     globalCfg.Router.BatchSize,
		Underlay:      "tun",
		TraceLimit:    globalCfg.Router.TraceLimit,
	}, entries, table, chains)
	if err != nil {
		return serrors.Wrap("creating dataplane", err)
	}
	manager := control.NewManager(dp, entries, table, chains)
	if err := manager.Apply(&globalCfg.Config); err != nil {
		return serrors.Wrap("configuring dataplane", err)
	}

	g, errCtx := errgroup.WithContext(ctx)

	// Initialize and start service management API.
	if globalCfg.API.Addr != "" {
		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
			},
		}))
		server := api.Server{
			Manager: manager,
			Tracer:  dp.Tracer(),
		}
		log.Info("Exposing API", "addr", globalCfg.API.Addr)
		h := api.HandlerFromMuxWithBaseURL(&server, r, "/api/v1")
		mgmtServer := &http.Server{
			Addr:              globalCfg.API.Addr,
			Handler:           h,
			ReadHeaderTimeout: time.Second,
		}
		g.Go(func() error {
			defer log.HandlePanic()
			<-errCtx.Done()
			return mgmtServer.Close()
		})
		g.Go(func() error {
			defer log.HandlePanic()
			err := mgmtServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return serrors.Wrap("serving service management API", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer log.HandlePanic()
		return globalCfg.Metrics.ServePrometheus(errCtx)
	})
	g.Go(func() error {
		defer log.HandlePanic()
		if err := dp.Run(errCtx); err != nil {
			return serrors.Wrap("running dataplane", err)
		}
		return nil
	})

	return g.Wait()
}
