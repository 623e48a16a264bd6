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
	"sync"

	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
)

// Catalogue is the record of known initializer registrations.
// Registry.Load only accepts registrations whose names appear in the
// registry's catalogue - it is the guard against booting an initializer the
// application never declared. Registry.LoadOnly bypasses the catalogue.
//
// Catalogue is safe for concurrent use.
type Catalogue struct {
	mutex         sync.RWMutex
	registrations map[string]*Registration
	names         []string // registration order
}

// NewCatalogue constructs a new empty Catalogue
func NewCatalogue() *Catalogue {
	return &Catalogue{registrations: make(map[string]*Registration)}
}

// Register adds the registration to the catalogue.
// A DuplicateNameError is returned if a registration with the same name already exists.
func (c *Catalogue) Register(registration *Registration) error {
	const FUNC = "Register"
	if registration == nil || registration.Descriptor == nil || registration.NewInitializer == nil {
		logger.Panic().Str(logging.FUNC, FUNC).Msg("registration, descriptor, and constructor are required")
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	name := registration.Name()
	if _, exists := c.registrations[name]; exists {
		return &DuplicateNameError{Name: name}
	}
	c.registrations[name] = registration
	c.names = append(c.names, name)
	return nil
}

// MustRegister adds the registration to the catalogue and panics if registration fails
func (c *Catalogue) MustRegister(registration *Registration) {
	const FUNC = "MustRegister"
	if err := c.Register(registration); err != nil {
		logger.Panic().Str(logging.FUNC, FUNC).Err(err).Msg("")
	}
}

// Contains returns true if a registration with the given name exists
func (c *Catalogue) Contains(name string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	_, exists := c.registrations[name]
	return exists
}

// Registration returns the named registration - nil if it does not exist
func (c *Catalogue) Registration(name string) *Registration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.registrations[name]
}

// Registrations returns all registrations in registration order
func (c *Catalogue) Registrations() []*Registration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	registrations := make([]*Registration, len(c.names))
	for i, name := range c.names {
		registrations[i] = c.registrations[name]
	}
	return registrations
}

// Size returns the number of registrations
func (c *Catalogue) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.names)
}

var defaultCatalogue = NewCatalogue()

// DefaultCatalogue returns the process-wide catalogue, used by registries
// whose Settings do not name one. The application's initializers register
// themselves here at startup.
func DefaultCatalogue() *Catalogue {
	return defaultCatalogue
}
