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

package initializers

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/rs/zerolog"
)

// EnvConfigDescriptor declares the EnvConfig initializer
var EnvConfigDescriptor = boot.NewDescriptor(
	boot.InitializerName(EnvConfig{}),
	boot.PhasePreload,
	"1.0.0",
	[]boot.Token{TokenConfig},
	nil,
)

// EnvConfig populates the Config from the process env, layered over an
// optional .env file. It provides the config capability every other standard
// initializer depends on.
type EnvConfig struct {
	logger zerolog.Logger
}

// NewEnvConfig is the EnvConfig constructor
func NewEnvConfig() boot.Initializer {
	return &EnvConfig{logger: logging.NewTypeLogger(EnvConfig{})}
}

// Execute implements boot.Initializer
func (a *EnvConfig) Execute(ctx *boot.Context) error {
	cfg, err := bootConfig(ctx)
	if err != nil {
		return err
	}
	// the .env file is optional - the process env always wins
	if err := godotenv.Load(); err != nil {
		a.logger.Debug().Err(err).Msg("no .env file")
	}
	cfg.Env = getenv("ONETIME_ENV", "production")
	cfg.SiteHost = getenv("ONETIME_SITE_HOST", "localhost:7143")
	cfg.LocalesDir = getenv("ONETIME_LOCALES_DIR", "etc/locales")
	cfg.DefaultLocale = getenv("ONETIME_DEFAULT_LOCALE", "en")
	cfg.RedisURL = getenv("ONETIME_REDIS_URL", "redis://localhost:6379/0")
	cfg.NATSURL = getenv("ONETIME_NATS_URL", "nats://localhost:4222")
	cfg.DataFile = getenv("ONETIME_DATA_FILE", "onetimesecret.db")
	a.logger.Info().Str("env", cfg.Env).Str("site_host", cfg.SiteHost).Msg("config loaded")
	return nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
