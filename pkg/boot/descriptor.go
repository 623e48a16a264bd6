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
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/onetimesecret/onetimesecret.go/pkg/commons/collections/sets"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
)

// Token names a capability that one initializer provides and others may depend on, e.g. "config", "sessions".
// Tokens are opaque to the registry - it only matches providers to dependents.
type Token string

// Phase classifies an initializer with regard to the process fork boundary.
type Phase int

// initializer phases
const (
	// PhasePreload - the initializer holds no resources that are unsafe to share across a fork
	PhasePreload Phase = iota
	// PhaseForkSensitive - the initializer holds resources that must be released before a fork
	// and re-acquired after it, e.g. sockets, connection pools, file locks
	PhaseForkSensitive
)

// Preload returns true for the PhasePreload phase
func (p Phase) Preload() bool {
	return p == PhasePreload
}

// ForkSensitive returns true for the PhaseForkSensitive phase
func (p Phase) ForkSensitive() bool {
	return p == PhaseForkSensitive
}

func (p Phase) String() string {
	switch p {
	case PhasePreload:
		return "Preload"
	case PhaseForkSensitive:
		return "ForkSensitive"
	default:
		panic("unknown phase")
	}
}

// Dependencies declares the capabilities an initializer depends on.
// A nil *semver.Constraints value means any provider version satisfies the dependency.
type Dependencies map[Token]*semver.Constraints

// Descriptor declares an initializer: its unique name, phase, version,
// the capability tokens it provides, and the capabilities it depends on.
// Descriptors are immutable.
type Descriptor struct {
	name      string
	phase     Phase
	version   *semver.Version
	provides  []Token
	dependsOn Dependencies
}

var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NewDescriptor constructs a new Descriptor.
// name must start with a lowercase letter and consist of lowercase letters, digits, and underscores.
// It is whitespace trimmed and lowercased.
// provides must not contain blank or duplicate tokens.
// The descriptor is fully validated - any invalid setting triggers a panic,
// because descriptors are meant to be declared as package-level values.
func NewDescriptor(name string, phase Phase, version string, provides []Token, dependsOn Dependencies) *Descriptor {
	const FUNC = "NewDescriptor"
	name = strings.ToLower(strings.TrimSpace(name))
	if !nameRegex.MatchString(name) {
		logger.Panic().Str(logging.FUNC, FUNC).Msgf("invalid name : [%s]", name)
	}

	tokens := sets.NewStrings()
	providesCopy := make([]Token, len(provides))
	for i, token := range provides {
		token = Token(strings.ToLower(strings.TrimSpace(string(token))))
		if token == "" {
			logger.Panic().Str(logging.FUNC, FUNC).Str(logging.NAME, name).Msg("blank provided token")
		}
		if tokens.Contains(string(token)) {
			logger.Panic().Str(logging.FUNC, FUNC).Str(logging.NAME, name).Msgf("duplicate provided token : [%s]", token)
		}
		tokens.Add(string(token))
		providesCopy[i] = token
	}

	dependsOnCopy := make(Dependencies, len(dependsOn))
	for token, constraints := range dependsOn {
		token = Token(strings.ToLower(strings.TrimSpace(string(token))))
		if token == "" {
			logger.Panic().Str(logging.FUNC, FUNC).Str(logging.NAME, name).Msg("blank dependency token")
		}
		if tokens.Contains(string(token)) {
			logger.Panic().Str(logging.FUNC, FUNC).Str(logging.NAME, name).Msgf("initializer depends on a token it provides : [%s]", token)
		}
		dependsOnCopy[token] = constraints
	}

	return &Descriptor{
		name:      name,
		phase:     phase,
		version:   NewVersion(version),
		provides:  providesCopy,
		dependsOn: dependsOnCopy,
	}
}

// NewVersion returns a new semver version. If the version is invalid, then this function panics.
func NewVersion(version string) *semver.Version {
	v, err := semver.NewVersion(version)
	if err != nil {
		logger.Panic().Err(err).Msgf("invalid version : [%s]", version)
	}
	return v
}

// MustParseConstraints returns new semver constraints. If the constraint expression is invalid, then this function panics.
func MustParseConstraints(constraints string) *semver.Constraints {
	c, err := semver.NewConstraint(constraints)
	if err != nil {
		logger.Panic().Err(err).Msgf("invalid constraints : [%s]", constraints)
	}
	return c
}

// Name returns the unique initializer name
func (a *Descriptor) Name() string { return a.name }

// Phase returns the initializer phase
func (a *Descriptor) Phase() Phase { return a.phase }

// Version returns the initializer version
func (a *Descriptor) Version() *semver.Version { return a.version }

// Provides returns the capability tokens the initializer provides
func (a *Descriptor) Provides() []Token {
	provides := make([]Token, len(a.provides))
	copy(provides, a.provides)
	return provides
}

// DependsOn returns the capabilities the initializer depends on
func (a *Descriptor) DependsOn() Dependencies {
	dependsOn := make(Dependencies, len(a.dependsOn))
	for token, constraints := range a.dependsOn {
		dependsOn[token] = constraints
	}
	return dependsOn
}

// dependencyTokens returns the dependency tokens in sorted order.
// Map iteration order is random - sorting is what makes resolution deterministic.
func (a *Descriptor) dependencyTokens() []Token {
	tokens := make([]Token, 0, len(a.dependsOn))
	for token := range a.dependsOn {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// ID returns the descriptor id: {name}-{version}
func (a *Descriptor) ID() string {
	return fmt.Sprintf("%s-%s", a.name, a.version)
}

func (a *Descriptor) String() string {
	return fmt.Sprintf("Descriptor{name=%s, phase=%s, version=%s, provides=%v, dependsOn=%v}",
		a.name, a.phase, a.version, a.provides, a.dependsOn)
}
