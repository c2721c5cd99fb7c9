// Package i18n resolves localized bot texts using dot-separated keys.
//
// Catalogs are YAML files embedded at build time, one file per language.
// Persian is the default and the only shipped language; the layout leaves
// room for more.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator resolves localized strings using dot-separated keys.
type Translator interface {
	T(key string) string
	Tf(key string, args ...any) string
	Lang() string
}

// Manager stores all available translations.
type Manager struct {
	translations map[string]map[string]string
	defaultLang  string
}

// Load parses the embedded catalogs and returns a Manager.
func Load(defaultLang string) (*Manager, error) {
	if defaultLang == "" {
		defaultLang = "fa"
	}

	catalog := make(map[string]map[string]string)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		lang := strings.TrimSuffix(entry.Name(), ".yaml")

		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", entry.Name(), err)
		}

		flat := make(map[string]string)
		flatten("", raw, flat)
		catalog[lang] = flat
	}

	if _, ok := catalog[defaultLang]; !ok {
		return nil, fmt.Errorf("i18n: default language %q is missing", defaultLang)
	}

	return &Manager{translations: catalog, defaultLang: defaultLang}, nil
}

// Translator returns a translator for the requested language, falling back
// to the default language for unknown languages and missing keys.
func (m *Manager) Translator(lang string) Translator {
	if m == nil {
		return translator{}
	}

	norm := strings.ToLower(strings.TrimSpace(lang))
	if norm == "" || m.translations[norm] == nil {
		norm = m.defaultLang
	}

	return translator{
		lang:         norm,
		fallback:     m.defaultLang,
		translations: m.translations,
	}
}

// Languages returns all loaded languages.
func (m *Manager) Languages() []string {
	if m == nil {
		return nil
	}

	languages := make([]string, 0, len(m.translations))
	for lang := range m.translations {
		languages = append(languages, lang)
	}
	return languages
}

type translator struct {
	lang         string
	fallback     string
	translations map[string]map[string]string
}

func (t translator) Lang() string {
	return t.lang
}

// T returns the localized string for the key, or the key itself when no
// catalog has it.
func (t translator) T(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	if value := t.lookup(t.lang, key); value != "" {
		return value
	}

	if value := t.lookup(t.fallback, key); value != "" {
		return value
	}

	return key
}

// Tf resolves the key and applies Sprintf-style arguments.
func (t translator) Tf(key string, args ...any) string {
	format := t.T(key)
	if len(args) == 0 {
		return format
	}

	return fmt.Sprintf(format, args...)
}

func (t translator) lookup(lang, key string) string {
	if lang == "" || t.translations == nil {
		return ""
	}

	if entries := t.translations[lang]; entries != nil {
		if value, ok := entries[key]; ok {
			return value
		}
	}

	return ""
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		default:
			out[full] = fmt.Sprintf("%v", v)
		}
	}
}
