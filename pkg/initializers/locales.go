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

package initializers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/onetimesecret/onetimesecret.go/pkg/boot"
	"github.com/onetimesecret/onetimesecret.go/pkg/logging"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// LocalesDescriptor declares the Locales initializer
var LocalesDescriptor = boot.NewDescriptor(
	boot.InitializerName(Locales{}),
	boot.PhasePreload,
	"1.0.0",
	[]boot.Token{TokenLocales},
	boot.Dependencies{TokenConfig: boot.MustParseConstraints("^1.0")},
)

// Locales loads the translation catalog from the locale yaml files.
// Each {locale}.yml file holds a flat map of message keys to translations.
// A missing locales dir is not an error - the app falls back to message keys.
type Locales struct {
	logger        zerolog.Logger
	defaultLocale string
	catalog       map[string]map[string]string
}

// NewLocales is the Locales constructor
func NewLocales() boot.Initializer {
	return &Locales{
		logger:  logging.NewTypeLogger(Locales{}),
		catalog: map[string]map[string]string{},
	}
}

// Execute implements boot.Initializer
func (a *Locales) Execute(ctx *boot.Context) error {
	cfg, err := bootConfig(ctx)
	if err != nil {
		return err
	}
	a.defaultLocale = cfg.DefaultLocale

	entries, err := os.ReadDir(cfg.LocalesDir)
	if err != nil {
		a.logger.Warn().Err(err).Str("dir", cfg.LocalesDir).Msg("locales dir is not readable - falling back to message keys")
		return nil
	}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		locale := strings.TrimSuffix(name, ext)
		data, err := os.ReadFile(filepath.Join(cfg.LocalesDir, name))
		if err != nil {
			return fmt.Errorf("reading locale file %s : %w", name, err)
		}
		messages := map[string]string{}
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return fmt.Errorf("parsing locale file %s : %w", name, err)
		}
		a.catalog[locale] = messages
	}
	a.logger.Info().Strs("locales", a.Available()).Msg("locales loaded")
	return nil
}

// Translate returns the translation for key in the given locale.
// It falls back to the default locale, and finally to the key itself.
func (a *Locales) Translate(locale, key string) string {
	if messages, exists := a.catalog[locale]; exists {
		if translation, exists := messages[key]; exists {
			return translation
		}
	}
	if messages, exists := a.catalog[a.defaultLocale]; exists {
		if translation, exists := messages[key]; exists {
			return translation
		}
	}
	return key
}

// Available returns the loaded locales in sorted order
func (a *Locales) Available() []string {
	locales := make([]string, 0, len(a.catalog))
	for locale := range a.catalog {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}
