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
	"time"

	"github.com/nats-io/nats.go"
	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
	"github.com/onetimesecret/onetimesecret.go/pkg/commons"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

// BrokerDescriptor declares the Broker initializer
var BrokerDescriptor = boot.NewDescriptor(
	boot.InitializerName(Broker{}),
	boot.PhaseForkSensitive,
	"1.0.0",
	[]boot.Token{TokenBroker},
	boot.Dependencies{TokenConfig: boot.MustParseConstraints("^1.0")},
)

const (
	brokerConnectTimeout = 5 * time.Second
	brokerFlushInterval  = time.Second
)

// Broker owns the NATS connection used to publish app events - secret
// created, secret burned, email queued. A background flusher drains the
// publish buffer on an interval; both the connection and the flusher are torn
// down before a fork and rebuilt inside each worker.
type Broker struct {
	logger  zerolog.Logger
	url     string
	conn    *nats.Conn
	flusher *tomb.Tomb
}

// NewBroker is the Broker constructor
func NewBroker() boot.Initializer {
	return &Broker{logger: logging.NewTypeLogger(Broker{})}
}

// Execute implements boot.Initializer
func (a *Broker) Execute(ctx *boot.Context) error {
	cfg, err := bootConfig(ctx)
	if err != nil {
		return err
	}
	a.url = cfg.NATSURL
	if a.url == "" {
		a.url = nats.DefaultURL
	}
	return a.connect()
}

func (a *Broker) connect() error {
	conn, err := nats.Connect(a.url,
		nats.Name("onetimesecret"),
		nats.Timeout(brokerConnectTimeout),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}
	a.conn = conn

	flusher := new(tomb.Tomb)
	flusher.Go(func() error {
		ticker := time.NewTicker(brokerFlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-flusher.Dying():
				return nil
			case <-ticker.C:
				if err := conn.Flush(); err != nil {
					a.logger.Warn().Err(err).Msg("flush failed")
				}
			}
		}
	})
	a.flusher = flusher
	a.logger.Info().Str("url", a.url).Msg("broker connected")
	return nil
}

// Cleanup implements boot.ForkSensitive.
// The connection is closed hard: Drain is asynchronous and would return with
// the socket fd still live, and the fd must not outlive Cleanup - the fork
// happens as soon as Cleanup returns.
func (a *Broker) Cleanup() {
	defer commons.IgnorePanic()
	if a.flusher != nil {
		a.flusher.Kill(nil)
		a.flusher.Wait()
		a.flusher = nil
	}
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
}

// Reconnect implements boot.ForkSensitive.
// An unreachable broker inside a fresh worker is transient - events are
// dropped until the next publish re-establishes the connection.
func (a *Broker) Reconnect() error {
	if a.url == "" {
		return nil
	}
	if err := a.connect(); err != nil {
		a.logger.Warn().Err(err).Msg("broker is unreachable - continuing degraded")
	}
	return nil
}

// Conn returns the NATS connection - nil between Cleanup and Reconnect
func (a *Broker) Conn() *nats.Conn {
	return a.conn
}
