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

package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
)

type Registry struct{}

const pkgPath = "github.com/onetimesecret/onetimesecret.go/pkg/logging_test"

func TestNewTypeLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewTypeLogger(Registry{}).Output(&buf)

	event := logging.Event{Id: 1100, Name: "REGISTRY_LOADED"}
	logger.Info().Dict(logging.EVENT, event.Dict()).Msg("loaded")
	t.Log(buf.String())

	var logEvent logging.LogEvent
	if err := json.Unmarshal(buf.Bytes(), &logEvent); err != nil {
		t.Fatal(err)
	}
	if string(logEvent.Package) != pkgPath {
		t.Errorf("pkg does not match : %v", logEvent.Package)
	}
	if logEvent.Type != "Registry" {
		t.Errorf("type does not match : %v", logEvent.Type)
	}
	if logEvent.Level != logging.INFO {
		t.Errorf("level does not match : %v", logEvent.Level)
	}
	if logEvent.Event == nil || logEvent.Event.Id != 1100 || logEvent.Event.Name != "REGISTRY_LOADED" {
		t.Errorf("event does not match : %v", logEvent.Event)
	}
	if logEvent.Message != "loaded" {
		t.Errorf("message does not match : %v", logEvent.Message)
	}
	if logEvent.Time.IsZero() || time.Since(logEvent.Time) > time.Minute {
		t.Errorf("time does not match : %v", logEvent.Time)
	}
}

func TestNewPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewPackageLogger(Registry{}).Output(&buf)

	logger.Warn().Msg("")
	t.Log(buf.String())

	var logEvent logging.LogEvent
	if err := json.Unmarshal(buf.Bytes(), &logEvent); err != nil {
		t.Fatal(err)
	}
	if string(logEvent.Package) != pkgPath {
		t.Errorf("pkg does not match : %v", logEvent.Package)
	}
	if logEvent.Type != "" {
		t.Errorf("a package logger should have no type : %v", logEvent.Type)
	}
	if logEvent.Level != logging.WARN {
		t.Errorf("level does not match : %v", logEvent.Level)
	}
}

func TestLoggerConstructorsRequireStructs(t *testing.T) {
	expectPanic := func(name string, f func()) {
		defer func() {
			if p := recover(); p == nil {
				t.Errorf("%s : expected a panic", name)
			}
		}()
		f()
	}
	expectPanic("NewTypeLogger", func() { logging.NewTypeLogger("not a struct") })
	expectPanic("NewPackageLogger", func() { logging.NewPackageLogger(1) })
}
