// Copyright (c) 2026 OneTimeSecret
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command onetimesecret boots the app: it registers the standard initializers,
// loads and runs them through the boot registry, exposes prometheus metrics,
// and drives the fork-sensitive initializers through cleanup/reconnect cycles
// on SIGUSR2 - the signal the worker supervisor uses for a worker refresh.
package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
	"github.com/onetimesecret/onetimesecret.go/pkg/initializers"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/onetimesecret/onetimesecret.go/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logLevel := flag.String("log-level", "info", "zerolog level: debug, info, warn, error")
	metricsAddr := flag.String("metrics-addr", ":9090", "prometheus metrics listen address")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -log-level")
	}
	zerolog.SetGlobalLevel(level)

	initializers.MustRegisterAll(boot.DefaultCatalogue())

	registry := boot.App()
	cfg := &initializers.Config{}
	if err := registry.Load(boot.DefaultCatalogue().Registrations()); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}
	if err := registry.RunAll(cfg); err != nil {
		log.Fatal().Err(err).Msg("boot failed")
	}

	go serveMetrics(*metricsAddr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGUSR2)
	for sig := range sigs {
		switch sig {
		case syscall.SIGUSR2:
			// worker refresh: release shared resources, then rebuild them
			log.Info().Str(logging.SIGNAL, sig.String()).Msg("refreshing workers")
			registry.CleanupBeforeFork()
			if err := registry.ReconnectAfterFork(); err != nil {
				log.Error().Err(err).Msg("reconnect failed - shutting down")
				os.Exit(1)
			}
		default:
			log.Info().Str(logging.SIGNAL, sig.String()).Msg("shutting down")
			registry.CleanupBeforeFork()
			return
		}
	}
}

func serveMetrics(addr string) {
	handler := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
	http.Handle("/metrics", handler)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("metrics endpoint failed")
	}
}
