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

// Package logging standardizes structured logging on zerolog.
// Log events that components emit are documented as Event values.
package logging

import (
	"reflect"
	"time"

	opreflect "github.com/onetimesecret/onetimesecret.go/pkg/commons/reflect"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	PACKAGE = "pkg"
	TYPE    = "type"
	FUNC    = "func"
	NAME    = "name"
	EVENT   = "event"
	ID      = "id"
	STATE   = "state"

	REGISTRY    = "registry"
	INITIALIZER = "init"
	PHASE       = "phase"
	TOKEN       = "token"
	VERSION     = "ver"
	SIGNAL      = "signal"
)

// Level is the logging level
type Level string

// log levels
const (
	DEBUG Level = "debug"
	INFO  Level = "info"
	WARN  Level = "warn"
	ERROR Level = "error"
)

// Event represents a documented log event.
// Each component declares the events it logs as package vars.
type Event struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// Dict returns the event as a zerolog sub-dict, to be logged under the EVENT key
func (e Event) Dict() *zerolog.Event {
	return zerolog.Dict().Int(ID, e.Id).Str(NAME, e.Name)
}

// LogEvent is used to parse log messages emitted by loggers from this package
type LogEvent struct {
	Time    time.Time           `json:"time"`
	Level   Level               `json:"level"`
	Package opreflect.PackagePath `json:"pkg"`
	Type    string              `json:"type"`
	Event   *Event              `json:"event"`
	Message string              `json:"message"`
}

// NewTypeLogger returns a new logger with pkg={pkg}, type={type}
// where {pkg} is o's package path and {type} is o's type name
// o must be a struct - the pattern is to use an empty struct
func NewTypeLogger(o interface{}) zerolog.Logger {
	t, err := opreflect.Struct(reflect.TypeOf(o))
	if err != nil {
		panic("NewTypeLogger can only be created for a struct")
	}
	return log.With().
		Str(PACKAGE, string(opreflect.TypePackage(t))).
		Str(TYPE, t.Name()).
		Logger()
}

// NewPackageLogger returns a new logger with pkg={pkg}
// where {pkg} is o's package path
// o must be a struct - the pattern is to use an empty struct
func NewPackageLogger(o interface{}) zerolog.Logger {
	t, err := opreflect.Struct(reflect.TypeOf(o))
	if err != nil {
		panic("NewPackageLogger can only be created for a struct")
	}
	return log.With().Str(PACKAGE, string(opreflect.TypePackage(t))).Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
