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

var (
	appMutex sync.RWMutex

	// the default application registry
	app = NewRegistry(Settings{})

	// WithApp override stack - the innermost override wins
	overrides []*Registry
)

// App returns the current application registry: the innermost active WithApp
// override, or the process-wide default registry when no override is active.
func App() *Registry {
	appMutex.RLock()
	defer appMutex.RUnlock()
	if n := len(overrides); n > 0 {
		return overrides[n-1]
	}
	return app
}

// WithApp makes registry the current application registry for the duration of
// body, then restores the previous current registry - even if body panics.
// Calls may be nested: overrides stack, and each body sees its own registry
// as App(). It is meant for tests and embedded tooling that must boot against
// an isolated registry without disturbing the process-wide default.
func WithApp(registry *Registry, body func() error) error {
	const FUNC = "WithApp"
	if registry == nil {
		logger.Panic().Str(logging.FUNC, FUNC).Msg("registry is required")
	}
	if body == nil {
		logger.Panic().Str(logging.FUNC, FUNC).Msg("body is required")
	}
	pushOverride(registry)
	defer popOverride()
	return body()
}

func pushOverride(registry *Registry) {
	appMutex.Lock()
	defer appMutex.Unlock()
	overrides = append(overrides, registry)
}

func popOverride() {
	appMutex.Lock()
	defer appMutex.Unlock()
	overrides = overrides[:len(overrides)-1]
}
