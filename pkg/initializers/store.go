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

	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// SecretsStoreDescriptor declares the SecretsStore initializer
var SecretsStoreDescriptor = boot.NewDescriptor(
	boot.InitializerName(SecretsStore{}),
	boot.PhaseForkSensitive,
	"1.0.0",
	[]boot.Token{TokenDatastore},
	boot.Dependencies{TokenConfig: boot.MustParseConstraints("^1.0")},
)

// SecretsBucket is the bolt bucket holding encrypted secret payloads
var SecretsBucket = []byte("secrets")

const storeOpenTimeout = time.Second

// SecretsStore owns the local bolt datastore for encrypted secret payloads.
// Bolt holds an exclusive file lock, so the handle must be closed before a
// fork and re-opened inside the worker that owns it.
type SecretsStore struct {
	logger zerolog.Logger
	path   string
	db     *bolt.DB
}

// NewSecretsStore is the SecretsStore constructor
func NewSecretsStore() boot.Initializer {
	return &SecretsStore{logger: logging.NewTypeLogger(SecretsStore{})}
}

// Execute implements boot.Initializer
func (a *SecretsStore) Execute(ctx *boot.Context) error {
	cfg, err := bootConfig(ctx)
	if err != nil {
		return err
	}
	a.path = cfg.DataFile
	return a.open()
}

func (a *SecretsStore) open() error {
	db, err := bolt.Open(a.path, 0600, &bolt.Options{Timeout: storeOpenTimeout})
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(SecretsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}
	a.db = db
	a.logger.Info().Str("path", a.path).Msg("secrets store opened")
	return nil
}

// Cleanup implements boot.ForkSensitive
func (a *SecretsStore) Cleanup() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing the secrets store failed")
	}
	a.db = nil
}

// Reconnect implements boot.ForkSensitive.
// The datastore is a local file - failing to re-open it is not transient,
// so the error propagates and marks the worker broken.
func (a *SecretsStore) Reconnect() error {
	if a.path == "" {
		return nil
	}
	return a.open()
}

// DB returns the bolt handle - nil between Cleanup and Reconnect
func (a *SecretsStore) DB() *bolt.DB {
	return a.db
}
