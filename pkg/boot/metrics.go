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

package boot

import (
	"github.com/onetimesecret/onetimesecret.go/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// metric labels
const (
	METRIC_LABEL_REGISTRY    = "registry"
	METRIC_LABEL_INITIALIZER = "init"
	METRIC_LABEL_PHASE       = "phase"
)

var (
	executeDurations = metrics.GetOrMustRegisterHistogramVec(metrics.NewHistogramVecOpts(
		&prometheus.HistogramOpts{
			Namespace: "onetimesecret",
			Subsystem: "boot",
			Name:      "execute_duration_seconds",
			Help:      "Initializer Execute durations",
			Buckets:   []float64{.0001, .001, .01, .05, .1, .2, .5, 1},
		},
		METRIC_LABEL_REGISTRY, METRIC_LABEL_INITIALIZER,
	))

	loadedInitializers = metrics.GetOrMustRegisterGaugeVec(metrics.NewGaugeVecOpts(
		&prometheus.GaugeOpts{
			Namespace: "onetimesecret",
			Subsystem: "boot",
			Name:      "loaded_initializers",
			Help:      "Number of loaded initializers per phase",
		},
		METRIC_LABEL_REGISTRY, METRIC_LABEL_PHASE,
	))

	cleanupCycles = metrics.GetOrMustRegisterCounterVec(metrics.NewCounterVecOpts(
		&prometheus.CounterOpts{
			Namespace: "onetimesecret",
			Subsystem: "boot",
			Name:      "fork_cleanup_cycles_total",
			Help:      "Number of completed pre-fork cleanup passes",
		},
		METRIC_LABEL_REGISTRY,
	))

	reconnectCycles = metrics.GetOrMustRegisterCounterVec(metrics.NewCounterVecOpts(
		&prometheus.CounterOpts{
			Namespace: "onetimesecret",
			Subsystem: "boot",
			Name:      "fork_reconnect_cycles_total",
			Help:      "Number of completed post-fork reconnect passes",
		},
		METRIC_LABEL_REGISTRY,
	))
)
