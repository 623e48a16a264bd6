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

// State represents the registry lifecycle state.
// The only legal transitions are Unloaded -> Loaded -> Run,
// plus Loaded -> Loaded when a new set of registrations replaces the current one.
type State int

// registry lifecycle states
const (
	// Unloaded - the registry holds no initializers
	Unloaded State = iota
	// Loaded - initializers are constructed and ordered, but have not been executed
	Loaded
	// Run - every loaded initializer has executed successfully
	Run
)

// Unloaded returns true if the registry holds no initializers
func (s State) Unloaded() bool {
	return s == Unloaded
}

// Loaded returns true if initializers are loaded but not yet executed
func (s State) Loaded() bool {
	return s == Loaded
}

// Run returns true if all loaded initializers have executed
func (s State) Run() bool {
	return s == Run
}

func (s State) String() string {
	switch s {
	case Unloaded:
		return "Unloaded"
	case Loaded:
		return "Loaded"
	case Run:
		return "Run"
	default:
		panic("unknown state")
	}
}
