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

package metrics

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterOptsMatch(a, b *prometheus.CounterOpts) bool {
	return reflect.DeepEqual(*a, *b)
}

func counterVecOptsMatch(a, b *CounterVecOpts) bool {
	return counterOptsMatch(a.CounterOpts, b.CounterOpts) && reflect.DeepEqual(a.Labels, b.Labels)
}

func gaugeOptsMatch(a, b *prometheus.GaugeOpts) bool {
	return reflect.DeepEqual(*a, *b)
}

func gaugeVecOptsMatch(a, b *GaugeVecOpts) bool {
	return gaugeOptsMatch(a.GaugeOpts, b.GaugeOpts) && reflect.DeepEqual(a.Labels, b.Labels)
}

func histogramVecOptsMatch(a, b *HistogramVecOpts) bool {
	return reflect.DeepEqual(*a.HistogramOpts, *b.HistogramOpts) && reflect.DeepEqual(a.Labels, b.Labels)
}

// FindMetricFamilyByName returns the metric family with the matching name.
// nil is returned if there is no match.
func FindMetricFamilyByName(gatheredMetrics []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, m := range gatheredMetrics {
		if m.GetName() == name {
			return m
		}
	}
	return nil
}
