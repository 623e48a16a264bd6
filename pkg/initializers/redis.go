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
	"context"
	"time"

	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisSessionsDescriptor declares the RedisSessions initializer
var RedisSessionsDescriptor = boot.NewDescriptor(
	boot.InitializerName(RedisSessions{}),
	boot.PhaseForkSensitive,
	"1.0.0",
	[]boot.Token{TokenSessions},
	boot.Dependencies{TokenConfig: boot.MustParseConstraints("^1.0")},
)

const redisPingTimeout = 5 * time.Second

// RedisSessions owns the redis connection pool backing sessions and the
// metadata cache. The pool must not be shared across a fork - sharing file
// descriptors between the supervisor and workers corrupts the protocol stream.
type RedisSessions struct {
	logger zerolog.Logger
	url    string
	client *redis.Client
}

// NewRedisSessions is the RedisSessions constructor
func NewRedisSessions() boot.Initializer {
	return &RedisSessions{logger: logging.NewTypeLogger(RedisSessions{})}
}

// Execute implements boot.Initializer.
// An unreachable redis at boot is fatal - the app cannot serve without sessions.
func (a *RedisSessions) Execute(ctx *boot.Context) error {
	cfg, err := bootConfig(ctx)
	if err != nil {
		return err
	}
	a.url = cfg.RedisURL
	return a.connect()
}

func (a *RedisSessions) connect() error {
	opts, err := redis.ParseURL(a.url)
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return err
	}
	a.client = client
	a.logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis connected")
	return nil
}

// Cleanup implements boot.ForkSensitive
func (a *RedisSessions) Cleanup() {
	if a.client == nil {
		return
	}
	if err := a.client.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing the redis pool failed")
	}
	a.client = nil
}

// Reconnect implements boot.ForkSensitive.
// An unreachable redis inside a fresh worker is transient - the pool dials
// lazily on first use, so the worker comes up with the capability degraded
// rather than broken.
func (a *RedisSessions) Reconnect() error {
	if a.url == "" {
		return nil
	}
	if err := a.connect(); err != nil {
		a.logger.Warn().Err(err).Msg("redis is unreachable - continuing degraded")
		opts, parseErr := redis.ParseURL(a.url)
		if parseErr != nil {
			return parseErr
		}
		a.client = redis.NewClient(opts)
	}
	return nil
}

// Client returns the redis client - nil between Cleanup and Reconnect
func (a *RedisSessions) Client() *redis.Client {
	return a.client
}
