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

// Package initializers implements the application's standard startup units.
//
// EnvConfig and Locales are preload units - they only read files and env vars.
// RedisSessions, Broker, and SecretsStore hold connections and file locks and
// are fork-sensitive: they release their resources before the worker
// supervisor forks and re-acquire them inside each forked worker.
package initializers

import (
	"fmt"

	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
)

// capability tokens provided by the standard initializers
const (
	TokenConfig    boot.Token = "config"
	TokenLocales   boot.Token = "locales"
	TokenSessions  boot.Token = "sessions"
	TokenBroker    boot.Token = "broker"
	TokenDatastore boot.Token = "datastore"
)

// Config is the application configuration. It is passed as the opaque boot
// value through Registry.RunAll: EnvConfig populates it, the other
// initializers read it.
type Config struct {
	// Env is the deployment environment: production, staging, dev
	Env string
	// SiteHost is the canonical host the app is served from
	SiteHost string

	// LocalesDir holds the locale yaml files
	LocalesDir string
	// DefaultLocale is the fallback locale
	DefaultLocale string

	// RedisURL is the session/cache backend, e.g. redis://localhost:6379/0
	RedisURL string
	// NATSURL is the internal event broker
	NATSURL string
	// DataFile is the path of the local secrets datastore
	DataFile string
}

func bootConfig(ctx *boot.Context) (*Config, error) {
	cfg, ok := ctx.Value().(*Config)
	if !ok {
		return nil, fmt.Errorf("the boot value must be a *initializers.Config : %T", ctx.Value())
	}
	return cfg, nil
}

// Registrations returns fresh registrations for all standard initializers.
// Declaration order carries no meaning - execution order is decided entirely
// by the dependency resolver, which breaks ties by initializer name.
func Registrations() []*boot.Registration {
	return []*boot.Registration{
		boot.NewRegistration(EnvConfigDescriptor, NewEnvConfig),
		boot.NewRegistration(LocalesDescriptor, NewLocales),
		boot.NewRegistration(RedisSessionsDescriptor, NewRedisSessions),
		boot.NewRegistration(BrokerDescriptor, NewBroker),
		boot.NewRegistration(SecretsStoreDescriptor, NewSecretsStore),
	}
}

// MustRegisterAll registers all standard initializers in the catalogue.
// It panics if any registration fails, e.g. when invoked twice against the same catalogue.
func MustRegisterAll(catalogue *boot.Catalogue) {
	for _, registration := range Registrations() {
		catalogue.MustRegister(registration)
	}
}
