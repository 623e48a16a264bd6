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

import "sort"

// Resolve validates the descriptors as a set and returns them in execution order:
// every initializer is ordered after the providers of all capabilities it depends on.
//
// The order is deterministic - the same descriptors produce the same order
// regardless of input permutation and across processes. Ties are broken by
// visiting descriptors in name order and dependency tokens in token order.
//
// Validation failures are reported as one of
// DuplicateNameError, DuplicateProviderError, UnresolvedDependencyError, CyclicDependencyError.
// The first error encountered is returned - names are checked first, then providers,
// then dependency resolution and version constraints, then cycles.
//
// The resolution runs in O(V+E) time for V descriptors and E declared dependencies,
// plus the cost of sorting names and tokens for determinism.
func Resolve(descriptors []*Descriptor) ([]*Descriptor, error) {
	byName := make(map[string]*Descriptor, len(descriptors))
	for _, desc := range descriptors {
		if _, exists := byName[desc.name]; exists {
			return nil, &DuplicateNameError{Name: desc.name}
		}
		byName[desc.name] = desc
	}

	providers := make(map[Token]*Descriptor)
	for _, desc := range sortedByName(byName) {
		for _, token := range desc.provides {
			if provider, exists := providers[token]; exists {
				return nil, &DuplicateProviderError{Token: token, Names: []string{provider.name, desc.name}}
			}
			providers[token] = desc
		}
	}

	sorted := sortedByName(byName)
	for _, desc := range sorted {
		for _, token := range desc.dependencyTokens() {
			provider, exists := providers[token]
			if !exists {
				return nil, &UnresolvedDependencyError{Name: desc.name, Token: token, Constraints: desc.dependsOn[token]}
			}
			if constraints := desc.dependsOn[token]; constraints != nil && !constraints.Check(provider.version) {
				return nil, &UnresolvedDependencyError{
					Name:            desc.name,
					Token:           token,
					Constraints:     constraints,
					ProviderVersion: provider.version,
				}
			}
		}
	}

	// depth-first topological sort with cycle detection
	const (
		unvisited = iota
		visiting
		visited
	)
	marks := make(map[string]int, len(sorted))
	order := make([]*Descriptor, 0, len(sorted))
	var path []string // the DFS stack, used to report the cycle

	var visit func(desc *Descriptor) *CyclicDependencyError
	visit = func(desc *Descriptor) *CyclicDependencyError {
		switch marks[desc.name] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, name := range path {
				if name == desc.name {
					start = i
					break
				}
			}
			cycle := make([]string, 0, len(path)-start+1)
			cycle = append(cycle, path[start:]...)
			cycle = append(cycle, desc.name)
			return &CyclicDependencyError{Cycle: cycle}
		}
		marks[desc.name] = visiting
		path = append(path, desc.name)
		for _, token := range desc.dependencyTokens() {
			if err := visit(providers[token]); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		marks[desc.name] = visited
		order = append(order, desc)
		return nil
	}

	for _, desc := range sorted {
		if err := visit(desc); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func sortedByName(byName map[string]*Descriptor) []*Descriptor {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	sorted := make([]*Descriptor, len(names))
	for i, name := range names {
		sorted[i] = byName[name]
	}
	return sorted
}
