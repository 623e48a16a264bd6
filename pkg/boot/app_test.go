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

package boot_test

import (
	"errors"
	"testing"

	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
)

func TestAppDefault(t *testing.T) {
	if boot.App() == nil {
		t.Fatal("App() must never be nil")
	}
	if boot.App() != boot.App() {
		t.Error("App() must return the same default registry on every call")
	}
}

func TestWithApp(t *testing.T) {
	defaultRegistry := boot.App()
	override := boot.NewRegistry(boot.Settings{Name: "override"})

	err := boot.WithApp(override, func() error {
		if boot.App() != override {
			t.Error("App() must return the override inside the body")
		}

		// overrides nest - the innermost wins
		nested := boot.NewRegistry(boot.Settings{Name: "nested"})
		innerErr := boot.WithApp(nested, func() error {
			if boot.App() != nested {
				t.Error("App() must return the innermost override")
			}
			return nil
		})
		if innerErr != nil {
			t.Error(innerErr)
		}
		if boot.App() != override {
			t.Error("App() must return the outer override after the nested body returns")
		}
		return nil
	})
	if err != nil {
		t.Error(err)
	}
	if boot.App() != defaultRegistry {
		t.Error("App() must return the default registry after the body returns")
	}
}

func TestWithAppReturnsBodyError(t *testing.T) {
	bodyErr := errors.New("boot failed")
	override := boot.NewRegistry(boot.Settings{Name: "override"})
	if err := boot.WithApp(override, func() error { return bodyErr }); err != bodyErr {
		t.Errorf("WithApp must return the body's error : %v", err)
	}
}

func TestWithAppValidatesArgs(t *testing.T) {
	expectPanic := func(name string, f func()) {
		defer func() {
			if p := recover(); p == nil {
				t.Errorf("%s : expected a panic", name)
			}
		}()
		f()
	}
	expectPanic("nil registry", func() {
		boot.WithApp(nil, func() error { return nil })
	})
	expectPanic("nil body", func() {
		boot.WithApp(boot.NewRegistry(boot.Settings{Name: "override"}), nil)
	})
	if boot.App() == nil {
		t.Error("a rejected WithApp must not leave a dangling override")
	}
}

func TestWithAppRestoresAfterPanic(t *testing.T) {
	defaultRegistry := boot.App()
	override := boot.NewRegistry(boot.Settings{Name: "override"})

	func() {
		defer func() {
			if p := recover(); p == nil {
				t.Error("the body's panic must propagate")
			}
		}()
		boot.WithApp(override, func() error {
			panic("boom")
		})
	}()

	if boot.App() != defaultRegistry {
		t.Error("App() must return the default registry after the body panics")
	}
}
