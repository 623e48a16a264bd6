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
	"fmt"
	"strings"

	opreflect "github.com/onetimesecret/onetimesecret.go/pkg/commons/reflect"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/rs/zerolog"
)

// Initializer is implemented by every startup unit.
//
// Execute performs the unit's one-time setup at process start. The registry
// runs each loaded initializer's Execute exactly once, in dependency order.
// A non-nil error aborts the boot - Execute errors are always fatal, so units
// must not return errors for conditions they can degrade around. Panics are
// trapped by the registry and converted to a PanicError.
type Initializer interface {
	Execute(ctx *Context) error
}

// ForkSensitive is implemented by initializers that hold resources which are
// unsafe to share across a process fork - sockets, connection pools, file locks.
//
// Cleanup releases such resources right before a fork. It must tolerate having
// nothing to clean up, e.g. being invoked before Execute ever ran, or twice in
// a row. Cleanup returns no error: failures while releasing resources must be
// handled and logged by the unit itself so that sibling cleanups are never
// blocked. Panics are trapped and logged by the registry.
//
// Reconnect re-acquires resources inside a freshly forked worker. Transient
// failures, e.g. a backend that is briefly unreachable, should be absorbed by
// the unit - the capability is degraded, not the worker. A non-nil error marks
// the worker broken and stops the reconnect pass.
type ForkSensitive interface {
	Initializer

	Cleanup()

	Reconnect() error
}

// Constructor creates a new Initializer instance. It is invoked once per load.
type Constructor func() Initializer

// Registration binds a Descriptor to the Constructor for the initializer it declares.
type Registration struct {
	*Descriptor
	NewInitializer Constructor
}

// NewRegistration constructs a new Registration
func NewRegistration(descriptor *Descriptor, newInitializer Constructor) *Registration {
	const FUNC = "NewRegistration"
	if descriptor == nil {
		logger.Panic().Str(logging.FUNC, FUNC).Msg("descriptor is required")
	}
	if newInitializer == nil {
		logger.Panic().Str(logging.FUNC, FUNC).Str(logging.NAME, descriptor.Name()).Msg("constructor is required")
	}
	return &Registration{descriptor, newInitializer}
}

// Context is handed to each initializer's Execute.
// It carries the registry and an opaque boot value owned by the caller of RunAll,
// which by convention is the application config that initializers populate and read.
type Context struct {
	registry *Registry
	value    interface{}
}

// Value returns the opaque boot value that was passed to RunAll.
// The registry never inspects it.
func (a *Context) Value() interface{} { return a.value }

// Registry returns the registry that is running the boot.
// The registry mutex is held for the duration of Execute: lifecycle
// operations (State, Load, LoadOnly, RunAll) must not be invoked from inside
// Execute. The read operations off the loaded list (Initializers,
// InitializerCount, Initializer, ForkSensitiveInitializers) are safe.
func (a *Context) Registry() *Registry { return a.registry }

// Logger returns the registry logger
func (a *Context) Logger() zerolog.Logger { return a.registry.logger }

// LoadedInitializer pairs a Descriptor with the instance that was constructed for it during load.
type LoadedInitializer struct {
	desc     *Descriptor
	instance Initializer
}

// Desc returns the initializer descriptor
func (a *LoadedInitializer) Desc() *Descriptor { return a.desc }

// Instance returns the constructed initializer
func (a *LoadedInitializer) Instance() Initializer { return a.instance }

func (a *LoadedInitializer) String() string {
	return fmt.Sprintf("LoadedInitializer{%s}", a.desc.ID())
}

// InitializerName returns the default initializer name for the type that implements it,
// i.e. the lowercased struct type name. It panics for unnamed types.
func InitializerName(o interface{}) string {
	const FUNC = "InitializerName"
	name := opreflect.ObjectTypeName(o)
	if name == "" {
		logger.Panic().Str(logging.FUNC, FUNC).Msg("initializers must be implemented as named types")
	}
	return strings.ToLower(string(name))
}
