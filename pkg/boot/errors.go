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
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
)

// UnresolvedDependencyError indicates an initializer depends on a capability
// that no other initializer in the load set provides, or whose provider's
// version does not satisfy the declared constraints.
type UnresolvedDependencyError struct {
	// Name is the dependent initializer
	Name string
	// Token is the capability that could not be resolved
	Token Token
	// Constraints are the declared version constraints - nil means any version
	Constraints *semver.Constraints
	// ProviderVersion is set when a provider exists but its version fails the constraints
	ProviderVersion *semver.Version
}

func (e *UnresolvedDependencyError) Error() string {
	if e.ProviderVersion != nil {
		return fmt.Sprintf("UnresolvedDependency : [%s] requires [%s] with version constraints that the provider version [%s] does not satisfy",
			e.Name, e.Token, e.ProviderVersion)
	}
	return fmt.Sprintf("UnresolvedDependency : [%s] requires [%s], which no initializer provides", e.Name, e.Token)
}

// CyclicDependencyError indicates the declared dependencies contain a cycle.
// Cycle holds the initializer names along the cycle - the first and last entries are the same initializer.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("CyclicDependency : %s", strings.Join(e.Cycle, " -> "))
}

// DuplicateProviderError indicates two initializers in the load set declare the same provided capability token.
type DuplicateProviderError struct {
	Token Token
	// Names are the two conflicting initializers
	Names []string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("DuplicateProvider : [%s] is provided by both [%s] and [%s]", e.Token, e.Names[0], e.Names[1])
}

// DuplicateNameError indicates two registrations in the load set share the same initializer name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("DuplicateName : [%s]", e.Name)
}

// NotForkSensitiveError indicates an initializer was declared with the
// ForkSensitive phase, but the constructed instance does not implement the
// ForkSensitive interface.
type NotForkSensitiveError struct {
	Name string
}

func (e *NotForkSensitiveError) Error() string {
	return fmt.Sprintf("NotForkSensitive : [%s] is declared fork-sensitive but does not implement ForkSensitive", e.Name)
}

// NotInCatalogueError indicates Load was invoked with a registration that was
// never registered in the registry's catalogue. Use LoadOnly to bypass the
// catalogue check.
type NotInCatalogueError struct {
	Name string
}

func (e *NotInCatalogueError) Error() string {
	return fmt.Sprintf("NotInCatalogue : [%s]", e.Name)
}

// NilInitializerError indicates a Constructor returned nil.
type NilInitializerError struct {
	Name string
}

func (e *NilInitializerError) Error() string {
	return fmt.Sprintf("NilInitializer : the constructor for [%s] returned nil", e.Name)
}

// IllegalStateError indicates an operation was invoked while the registry is in an illegal state for it.
type IllegalStateError struct {
	State   State
	Message string
}

func (e *IllegalStateError) Error() string {
	if e.Message == "" {
		return e.State.String()
	}
	return fmt.Sprintf("%v : %v", e.State, e.Message)
}

// ExecuteError indicates an initializer's Execute failed, which aborts the boot.
type ExecuteError struct {
	// Name is the initializer that failed
	Name string
	Err  error
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("Execute failed : [%s] : %v", e.Name, e.Err)
}

func (e *ExecuteError) Unwrap() error { return e.Err }

// ReconnectError indicates an initializer's Reconnect failed inside a freshly forked worker.
type ReconnectError struct {
	// Name is the initializer that failed
	Name string
	Err  error
}

func (e *ReconnectError) Error() string {
	return fmt.Sprintf("Reconnect failed : [%s] : %v", e.Name, e.Err)
}

func (e *ReconnectError) Unwrap() error { return e.Err }

// PanicError is used to wrap recovered panics into an error.
type PanicError struct {
	// Panic is what was recovered
	Panic interface{}
	// Message provides context for where the panic occurred
	Message string
}

func (e *PanicError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("panic : %v", e.Panic)
	}
	return fmt.Sprintf("%s : panic : %v", e.Message, e.Panic)
}
