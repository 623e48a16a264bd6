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

// Package boot implements the application's startup registry.
//
// The application is booted as a set of independently implemented startup
// units called initializers. Each initializer declares, via a Descriptor,
// the capabilities it provides and the capabilities it depends on. The
// Registry resolves those declarations into a deterministic execution order,
// runs every initializer exactly once at process start, and drives resource
// teardown and reconstruction around the process fork boundary used by
// multi-worker server architectures:
//
//	registry := boot.App()
//	registry.Load(boot.DefaultCatalogue().Registrations())
//	registry.RunAll(cfg)
//	...
//	registry.CleanupBeforeFork()   // invoked by the supervisor right before a fork
//	registry.ReconnectAfterFork()  // invoked inside each freshly forked worker
//
// Initializers are either Preload units, which hold no resources that are
// unsafe to share across a fork, or ForkSensitive units, which hold sockets,
// connection pools, or file locks that must be released before a fork and
// re-acquired after it. Only ForkSensitive units participate in the fork
// hooks. Cleanup runs in reverse load order, Reconnect in load order.
//
// The Registry itself is deliberately thin on error handling: it does not
// retry, does not suppress, and does not classify errors on behalf of units.
// Each unit owns its own resilience policy. See the Initializer and
// ForkSensitive contracts for the error conventions units must follow.
//
// Key Interfaces
//
//	Initializer
//	ForkSensitive
//
// Key Functions
//
//	App() *Registry
//	WithApp(registry, body)
//
// The loaded initializer list never mutates after a load completes, so all
// read operations are safe to use concurrently without locking.
package boot
