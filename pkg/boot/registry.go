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
	"io"
	"sync"
	"time"

	"github.com/nats-io/nuid"
	"github.com/onetimesecret/onetimesecret.go/pkg/commons/collections/sets"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/rs/zerolog"
)

// Settings is used by NewRegistry
type Settings struct {
	// Name identifies the registry in logs and metrics - default is "app"
	Name string

	// Catalogue guards Load - default is the process-wide DefaultCatalogue
	Catalogue *Catalogue

	// LogOutput overrides where the registry logger writes - default is the global zerolog output
	LogOutput io.Writer
	// LogLevel overrides the registry logger level
	LogLevel *zerolog.Level
}

// Registry holds the application's initializers and drives them through the
// boot lifecycle: Load constructs and orders them, RunAll executes them, and
// CleanupBeforeFork / ReconnectAfterFork drive the fork-sensitive subset
// around the process fork boundary.
//
// Load and RunAll are serialized by a mutex. Every read operation works off
// the loaded initializer list, which is replaced wholesale on load and never
// mutated afterwards, so reads are safe to run concurrently without locking.
type Registry struct {
	id        string
	name      string
	catalogue *Catalogue
	logger    zerolog.Logger

	mutex        sync.Mutex // serializes Load / LoadOnly / RunAll
	state        State
	initializers []*LoadedInitializer
}

// NewRegistry constructs a new Registry in the Unloaded state
func NewRegistry(settings Settings) *Registry {
	name := settings.Name
	if name == "" {
		name = "app"
	}
	catalogue := settings.Catalogue
	if catalogue == nil {
		catalogue = DefaultCatalogue()
	}
	id := nuid.Next()
	registryLogger := logging.NewTypeLogger(Registry{}).With().
		Str(logging.REGISTRY, name).
		Str(logging.ID, id).
		Logger()
	if settings.LogOutput != nil {
		registryLogger = registryLogger.Output(settings.LogOutput)
	}
	if settings.LogLevel != nil {
		registryLogger = registryLogger.Level(*settings.LogLevel)
	}
	return &Registry{
		id:        id,
		name:      name,
		catalogue: catalogue,
		logger:    registryLogger,
	}
}

// ID returns the unique registry instance id
func (a *Registry) ID() string { return a.id }

// Name returns the registry name
func (a *Registry) Name() string { return a.name }

// Catalogue returns the catalogue that guards Load
func (a *Registry) Catalogue() *Catalogue { return a.catalogue }

// Logger returns the registry logger
func (a *Registry) Logger() zerolog.Logger { return a.logger }

// State returns the current registry lifecycle state
func (a *Registry) State() State {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state
}

// Load validates the registrations as a set, constructs one instance per
// registration, and stores them in execution order. Every registration name
// must be present in the registry's catalogue - a NotInCatalogueError is
// returned otherwise.
//
// Load is all-or-nothing: on any error the registry's state and previously
// loaded initializers are left untouched. On success the previous set is
// replaced wholesale and the registry transitions to Loaded, discarding any
// prior Run state.
func (a *Registry) Load(registrations []*Registration) error {
	return a.load(registrations, true)
}

// LoadOnly is Load without the catalogue membership check.
// It is meant for tests and tools that boot a subset of ad hoc initializers.
func (a *Registry) LoadOnly(registrations []*Registration) error {
	return a.load(registrations, false)
}

func (a *Registry) load(registrations []*Registration, checkCatalogue bool) error {
	const FUNC = "load"
	a.mutex.Lock()
	defer a.mutex.Unlock()

	descriptors := make([]*Descriptor, len(registrations))
	byName := make(map[string]*Registration, len(registrations))
	for i, registration := range registrations {
		if registration == nil || registration.Descriptor == nil || registration.NewInitializer == nil {
			logger.Panic().Str(logging.FUNC, FUNC).Msg("registration, descriptor, and constructor are required")
		}
		name := registration.Name()
		if checkCatalogue && !a.catalogue.Contains(name) {
			return a.loadFailed(&NotInCatalogueError{Name: name})
		}
		descriptors[i] = registration.Descriptor
		byName[name] = registration
	}

	ordered, err := Resolve(descriptors)
	if err != nil {
		return a.loadFailed(err)
	}

	loaded := make([]*LoadedInitializer, len(ordered))
	for i, desc := range ordered {
		instance := byName[desc.Name()].NewInitializer()
		if instance == nil {
			return a.loadFailed(&NilInitializerError{Name: desc.Name()})
		}
		if desc.Phase().ForkSensitive() {
			if _, ok := instance.(ForkSensitive); !ok {
				return a.loadFailed(&NotForkSensitiveError{Name: desc.Name()})
			}
		}
		loaded[i] = &LoadedInitializer{desc: desc, instance: instance}
	}

	a.initializers = loaded
	a.state = Loaded
	preload, forkSensitive := 0, 0
	for _, li := range loaded {
		if li.desc.Phase().ForkSensitive() {
			forkSensitive++
		} else {
			preload++
		}
	}
	loadedInitializers.WithLabelValues(a.name, PhasePreload.String()).Set(float64(preload))
	loadedInitializers.WithLabelValues(a.name, PhaseForkSensitive.String()).Set(float64(forkSensitive))
	a.logger.Info().Dict(logging.EVENT, REGISTRY_LOADED.Dict()).
		Int("count", len(loaded)).
		Msg("")
	return nil
}

func (a *Registry) loadFailed(err error) error {
	a.logger.Error().Dict(logging.EVENT, REGISTRY_LOAD_FAILED.Dict()).
		Str(logging.STATE, a.state.String()).
		Err(err).
		Msg("")
	return err
}

// RunAll executes every loaded initializer exactly once, in execution order,
// and transitions the registry to Run. The value is handed opaquely to each
// initializer via Context.Value - by convention it is the application config.
//
// RunAll may only be invoked in the Loaded state - an IllegalStateError is
// returned otherwise. The first Execute failure aborts the boot and is
// returned as an ExecuteError; panics are trapped and wrapped in a PanicError.
func (a *Registry) RunAll(value interface{}) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if !a.state.Loaded() {
		err := &IllegalStateError{State: a.state, Message: "initializers can only be run in the Loaded state"}
		a.logger.Info().Str(logging.FUNC, "RunAll").Err(err).Msg("")
		return err
	}
	ctx := &Context{registry: a, value: value}
	for _, li := range a.initializers {
		start := time.Now()
		if err := execute(li.instance, ctx); err != nil {
			executeErr := &ExecuteError{Name: li.desc.Name(), Err: err}
			a.logger.Error().Dict(logging.EVENT, INITIALIZER_EXECUTE_FAILED.Dict()).
				Str(logging.INITIALIZER, li.desc.Name()).
				Err(executeErr).
				Msg("")
			return executeErr
		}
		executeDurations.WithLabelValues(a.name, li.desc.Name()).Observe(time.Since(start).Seconds())
		a.logger.Debug().Dict(logging.EVENT, INITIALIZER_EXECUTED.Dict()).
			Str(logging.INITIALIZER, li.desc.Name()).
			Msg("")
	}
	a.state = Run
	a.logger.Info().Dict(logging.EVENT, REGISTRY_RUN.Dict()).
		Int("count", len(a.initializers)).
		Msg("")
	return nil
}

func execute(initializer Initializer, ctx *Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Panic: p, Message: "Initializer.Execute()"}
		}
	}()
	return initializer.Execute(ctx)
}

// Initializers returns the loaded initializers in execution order
func (a *Registry) Initializers() []*LoadedInitializer {
	initializers := a.initializers
	result := make([]*LoadedInitializer, len(initializers))
	copy(result, initializers)
	return result
}

// InitializerCount returns the number of loaded initializers
func (a *Registry) InitializerCount() int {
	return len(a.initializers)
}

// Initializer returns the named loaded initializer - nil if it is not loaded
func (a *Registry) Initializer(name string) *LoadedInitializer {
	for _, li := range a.initializers {
		if li.desc.Name() == name {
			return li
		}
	}
	return nil
}

// ForkSensitiveInitializers returns the fork-sensitive subsequence of the
// loaded initializers, in execution order. It is computed fresh on each call
// from the loaded list, which never mutates after a load completes, so it is
// safe to invoke concurrently with other reads without locking.
func (a *Registry) ForkSensitiveInitializers() []*LoadedInitializer {
	initializers := a.initializers
	forkSensitive := make([]*LoadedInitializer, 0, len(initializers))
	for _, li := range initializers {
		if li.desc.Phase().ForkSensitive() {
			forkSensitive = append(forkSensitive, li)
		}
	}
	return forkSensitive
}

// ProvidedCapabilities returns the set of capability tokens provided by the loaded initializers
func (a *Registry) ProvidedCapabilities() sets.Strings {
	tokens := sets.NewStrings()
	for _, li := range a.initializers {
		for _, token := range li.desc.provides {
			tokens.Add(string(token))
		}
	}
	return tokens
}

// CleanupBeforeFork invokes Cleanup on every fork-sensitive initializer in
// reverse execution order - dependents are cleaned up before the providers
// they depend on. It is meant to be invoked by the worker supervisor right
// before forking.
//
// Cleanup never fails: panics are trapped and logged, and sibling cleanups
// proceed regardless. CleanupBeforeFork is idempotent as long as the units
// honor the ForkSensitive contract.
func (a *Registry) CleanupBeforeFork() {
	forkSensitive := a.ForkSensitiveInitializers()
	for i := len(forkSensitive) - 1; i >= 0; i-- {
		li := forkSensitive[i]
		cleanup(li, a.logger)
		a.logger.Debug().Dict(logging.EVENT, INITIALIZER_CLEANED_UP.Dict()).
			Str(logging.INITIALIZER, li.desc.Name()).
			Msg("")
	}
	cleanupCycles.WithLabelValues(a.name).Inc()
	a.logger.Info().Dict(logging.EVENT, CLEANUP_BEFORE_FORK.Dict()).
		Int("count", len(forkSensitive)).
		Msg("")
}

func cleanup(li *LoadedInitializer, registryLogger zerolog.Logger) {
	defer func() {
		if p := recover(); p != nil {
			registryLogger.Error().Dict(logging.EVENT, INITIALIZER_CLEANUP_PANIC.Dict()).
				Str(logging.INITIALIZER, li.desc.Name()).
				Err(&PanicError{Panic: p, Message: "ForkSensitive.Cleanup()"}).
				Msg("")
		}
	}()
	li.instance.(ForkSensitive).Cleanup()
}

// ReconnectAfterFork invokes Reconnect on every fork-sensitive initializer in
// execution order - providers reconnect before their dependents. It is meant
// to be invoked inside each freshly forked worker.
//
// The first Reconnect failure aborts the pass and is returned as a
// ReconnectError - the worker is broken and must not serve traffic.
// Panics are trapped and wrapped in a PanicError.
func (a *Registry) ReconnectAfterFork() error {
	for _, li := range a.ForkSensitiveInitializers() {
		if err := reconnect(li); err != nil {
			reconnectErr := &ReconnectError{Name: li.desc.Name(), Err: err}
			a.logger.Error().Dict(logging.EVENT, INITIALIZER_RECONNECT_FAILED.Dict()).
				Str(logging.INITIALIZER, li.desc.Name()).
				Err(reconnectErr).
				Msg("")
			return reconnectErr
		}
		a.logger.Debug().Dict(logging.EVENT, INITIALIZER_RECONNECTED.Dict()).
			Str(logging.INITIALIZER, li.desc.Name()).
			Msg("")
	}
	reconnectCycles.WithLabelValues(a.name).Inc()
	a.logger.Info().Dict(logging.EVENT, RECONNECT_AFTER_FORK.Dict()).
		Msg("")
	return nil
}

func reconnect(li *LoadedInitializer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Panic: p, Message: "ForkSensitive.Reconnect()"}
		}
	}()
	return li.instance.(ForkSensitive).Reconnect()
}
