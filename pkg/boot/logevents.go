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
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
)

var logger = logging.NewPackageLogger(Registry{})

// boot log events
var (
	// REGISTRY_LOADED - a load completed, the registry holds a new initializer set
	REGISTRY_LOADED = logging.Event{Id: 1100, Name: "REGISTRY_LOADED"}
	// REGISTRY_LOAD_FAILED - a load was rejected, the registry is unchanged
	REGISTRY_LOAD_FAILED = logging.Event{Id: 1101, Name: "REGISTRY_LOAD_FAILED"}
	// REGISTRY_RUN - every loaded initializer executed successfully
	REGISTRY_RUN = logging.Event{Id: 1102, Name: "REGISTRY_RUN"}

	// INITIALIZER_EXECUTED - a single initializer executed successfully
	INITIALIZER_EXECUTED = logging.Event{Id: 1110, Name: "INITIALIZER_EXECUTED"}
	// INITIALIZER_EXECUTE_FAILED - an initializer's Execute failed, the boot is aborted
	INITIALIZER_EXECUTE_FAILED = logging.Event{Id: 1111, Name: "INITIALIZER_EXECUTE_FAILED"}

	// CLEANUP_BEFORE_FORK - all fork-sensitive initializers were cleaned up
	CLEANUP_BEFORE_FORK = logging.Event{Id: 1120, Name: "CLEANUP_BEFORE_FORK"}
	// INITIALIZER_CLEANED_UP - a single fork-sensitive initializer was cleaned up
	INITIALIZER_CLEANED_UP = logging.Event{Id: 1121, Name: "INITIALIZER_CLEANED_UP"}
	// INITIALIZER_CLEANUP_PANIC - a Cleanup panicked; the panic was trapped and sibling cleanups continued
	INITIALIZER_CLEANUP_PANIC = logging.Event{Id: 1122, Name: "INITIALIZER_CLEANUP_PANIC"}

	// RECONNECT_AFTER_FORK - all fork-sensitive initializers reconnected
	RECONNECT_AFTER_FORK = logging.Event{Id: 1130, Name: "RECONNECT_AFTER_FORK"}
	// INITIALIZER_RECONNECTED - a single fork-sensitive initializer reconnected
	INITIALIZER_RECONNECTED = logging.Event{Id: 1131, Name: "INITIALIZER_RECONNECTED"}
	// INITIALIZER_RECONNECT_FAILED - a Reconnect failed, the reconnect pass is aborted
	INITIALIZER_RECONNECT_FAILED = logging.Event{Id: 1132, Name: "INITIALIZER_RECONNECT_FAILED"}
)
