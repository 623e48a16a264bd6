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

// Package metrics centralizes prometheus metric registration.
// Metrics are registered once against the global Registry and cached along
// with the opts they were registered with, so that concurrent components can
// safely share metrics by name.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// metric registration errors
var (
	ErrMetricAlreadyRegisteredWithDifferentOpts = errors.New("metric is already registered with different opts")
	ErrMetricNameUsedByDifferentMetricType      = errors.New("metric name is already used by a different metric type")
)

// Counter pairs the registered counter with the opts it was registered with
type Counter struct {
	prometheus.Counter
	*prometheus.CounterOpts
}

// CounterVec pairs the registered counter vector with the opts it was registered with
type CounterVec struct {
	*prometheus.CounterVec
	*CounterVecOpts
}

// Gauge pairs the registered gauge with the opts it was registered with
type Gauge struct {
	prometheus.Gauge
	*prometheus.GaugeOpts
}

// GaugeVec pairs the registered gauge vector with the opts it was registered with
type GaugeVec struct {
	*prometheus.GaugeVec
	*GaugeVecOpts
}

// HistogramVec pairs the registered histogram vector with the opts it was registered with
type HistogramVec struct {
	*prometheus.HistogramVec
	*HistogramVecOpts
}

// CounterVecOpts are the opts a CounterVec is created from
type CounterVecOpts struct {
	*prometheus.CounterOpts
	Labels []string
}

// NewCounterVecOpts constructs CounterVecOpts
func NewCounterVecOpts(opts *prometheus.CounterOpts, labels ...string) *CounterVecOpts {
	return &CounterVecOpts{opts, labels}
}

// GaugeVecOpts are the opts a GaugeVec is created from
type GaugeVecOpts struct {
	*prometheus.GaugeOpts
	Labels []string
}

// NewGaugeVecOpts constructs GaugeVecOpts
func NewGaugeVecOpts(opts *prometheus.GaugeOpts, labels ...string) *GaugeVecOpts {
	return &GaugeVecOpts{opts, labels}
}

// HistogramVecOpts are the opts a HistogramVec is created from
type HistogramVecOpts struct {
	*prometheus.HistogramOpts
	Labels []string
}

// NewHistogramVecOpts constructs HistogramVecOpts
func NewHistogramVecOpts(opts *prometheus.HistogramOpts, labels ...string) *HistogramVecOpts {
	return &HistogramVecOpts{opts, labels}
}

// CounterFQName returns the fully qualified counter name
func CounterFQName(opts *prometheus.CounterOpts) string {
	return prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
}

// GaugeFQName returns the fully qualified gauge name
func GaugeFQName(opts *prometheus.GaugeOpts) string {
	return prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
}

// HistogramFQName returns the fully qualified histogram name
func HistogramFQName(opts *prometheus.HistogramOpts) string {
	return prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
}

// GetOrMustRegisterCounter first checks if a counter with the same name is already registered.
// If the counter is already registered, and was registered with the same opts, then the cached counter is returned.
// If the counter is already registered, and was registered with different opts, then a panic is triggered.
// If no such counter exists, then it is registered and cached along with its opts.
func GetOrMustRegisterCounter(opts *prometheus.CounterOpts) prometheus.Counter {
	const FUNC = "GetOrMustRegisterCounter"
	mutex.Lock()
	defer mutex.Unlock()
	name := CounterFQName(opts)
	if counter := countersMap[name]; counter != nil {
		if counterOptsMatch(opts, counter.CounterOpts) {
			return counter
		}
		logger.Panic().Str("func", FUNC).
			Str("registered", fmt.Sprintf("%v", counter.CounterOpts)).
			Str("dup", fmt.Sprintf("%v", opts)).
			Err(ErrMetricAlreadyRegisteredWithDifferentOpts).
			Msg("")
	}

	if registered(name) {
		logger.Panic().Str("func", FUNC).
			Str("name", name).
			Err(ErrMetricNameUsedByDifferentMetricType).
			Msg("")
	}

	counter := prometheus.NewCounter(*opts)
	Registry.MustRegister(counter)
	countersMap[name] = &Counter{counter, opts}
	return counter
}

// GetOrMustRegisterCounterVec follows the same get-or-register-once contract as GetOrMustRegisterCounter.
func GetOrMustRegisterCounterVec(opts *CounterVecOpts) *prometheus.CounterVec {
	const FUNC = "GetOrMustRegisterCounterVec"
	mutex.Lock()
	defer mutex.Unlock()
	name := CounterFQName(opts.CounterOpts)
	if counterVec := counterVecsMap[name]; counterVec != nil {
		if counterVecOptsMatch(opts, counterVec.CounterVecOpts) {
			return counterVec.CounterVec
		}
		logger.Panic().Str("func", FUNC).
			Str("registered", fmt.Sprintf("%v", counterVec.CounterVecOpts)).
			Str("dup", fmt.Sprintf("%v", opts)).
			Err(ErrMetricAlreadyRegisteredWithDifferentOpts).
			Msg("")
	}

	if registered(name) {
		logger.Panic().Str("func", FUNC).
			Str("name", name).
			Err(ErrMetricNameUsedByDifferentMetricType).
			Msg("")
	}

	counterVec := prometheus.NewCounterVec(*opts.CounterOpts, opts.Labels)
	Registry.MustRegister(counterVec)
	counterVecsMap[name] = &CounterVec{counterVec, opts}
	return counterVec
}

// GetOrMustRegisterGauge follows the same get-or-register-once contract as GetOrMustRegisterCounter.
func GetOrMustRegisterGauge(opts *prometheus.GaugeOpts) prometheus.Gauge {
	const FUNC = "GetOrMustRegisterGauge"
	mutex.Lock()
	defer mutex.Unlock()
	name := GaugeFQName(opts)
	if gauge := gaugesMap[name]; gauge != nil {
		if gaugeOptsMatch(opts, gauge.GaugeOpts) {
			return gauge
		}
		logger.Panic().Str("func", FUNC).
			Str("registered", fmt.Sprintf("%v", gauge.GaugeOpts)).
			Str("dup", fmt.Sprintf("%v", opts)).
			Err(ErrMetricAlreadyRegisteredWithDifferentOpts).
			Msg("")
	}

	if registered(name) {
		logger.Panic().Str("func", FUNC).
			Str("name", name).
			Err(ErrMetricNameUsedByDifferentMetricType).
			Msg("")
	}

	gauge := prometheus.NewGauge(*opts)
	Registry.MustRegister(gauge)
	gaugesMap[name] = &Gauge{gauge, opts}
	return gauge
}

// GetOrMustRegisterGaugeVec follows the same get-or-register-once contract as GetOrMustRegisterCounter.
func GetOrMustRegisterGaugeVec(opts *GaugeVecOpts) *prometheus.GaugeVec {
	const FUNC = "GetOrMustRegisterGaugeVec"
	mutex.Lock()
	defer mutex.Unlock()
	name := GaugeFQName(opts.GaugeOpts)
	if gaugeVec := gaugeVecsMap[name]; gaugeVec != nil {
		if gaugeVecOptsMatch(opts, gaugeVec.GaugeVecOpts) {
			return gaugeVec.GaugeVec
		}
		logger.Panic().Str("func", FUNC).
			Str("registered", fmt.Sprintf("%v", gaugeVec.GaugeVecOpts)).
			Str("dup", fmt.Sprintf("%v", opts)).
			Err(ErrMetricAlreadyRegisteredWithDifferentOpts).
			Msg("")
	}

	if registered(name) {
		logger.Panic().Str("func", FUNC).
			Str("name", name).
			Err(ErrMetricNameUsedByDifferentMetricType).
			Msg("")
	}

	gaugeVec := prometheus.NewGaugeVec(*opts.GaugeOpts, opts.Labels)
	Registry.MustRegister(gaugeVec)
	gaugeVecsMap[name] = &GaugeVec{gaugeVec, opts}
	return gaugeVec
}

// GetOrMustRegisterHistogramVec follows the same get-or-register-once contract as GetOrMustRegisterCounter.
func GetOrMustRegisterHistogramVec(opts *HistogramVecOpts) *prometheus.HistogramVec {
	const FUNC = "GetOrMustRegisterHistogramVec"
	mutex.Lock()
	defer mutex.Unlock()
	name := HistogramFQName(opts.HistogramOpts)
	if histogramVec := histogramVecsMap[name]; histogramVec != nil {
		if histogramVecOptsMatch(opts, histogramVec.HistogramVecOpts) {
			return histogramVec.HistogramVec
		}
		logger.Panic().Str("func", FUNC).
			Str("registered", fmt.Sprintf("%v", histogramVec.HistogramVecOpts)).
			Str("dup", fmt.Sprintf("%v", opts)).
			Err(ErrMetricAlreadyRegisteredWithDifferentOpts).
			Msg("")
	}

	if registered(name) {
		logger.Panic().Str("func", FUNC).
			Str("name", name).
			Err(ErrMetricNameUsedByDifferentMetricType).
			Msg("")
	}

	histogramVec := prometheus.NewHistogramVec(*opts.HistogramOpts, opts.Labels)
	Registry.MustRegister(histogramVec)
	histogramVecsMap[name] = &HistogramVec{histogramVec, opts}
	return histogramVec
}

var logger = log.With().Str("pkg", "metrics").Logger()
