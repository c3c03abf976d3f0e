package i18n

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogsFS embed.FS

const fallbackLang = "en"

// Translator resolves message keys against an embedded per-language catalog,
// falling back to English for keys missing from the selected language.
type Translator struct {
	lang     string
	messages map[string]string
	fallback map[string]string
}

// New loads the catalog for the given language. Unknown languages fall back
// to English entirely.
func New(lang string) (*Translator, error) {
	fallback, err := loadCatalog(fallbackLang)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback catalog: %w", err)
	}

	messages, err := loadCatalog(lang)
	if err != nil {
		messages = fallback
		lang = fallbackLang
	}

	return &Translator{
		lang:     lang,
		messages: messages,
		fallback: fallback,
	}, nil
}

// Lang returns the resolved language code.
func (t *Translator) Lang() string {
	return t.lang
}

// T returns the message for key, falling back to English and finally to the
// key itself so a missing entry never produces an empty string.
func (t *Translator) T(key string) string {
	if msg, ok := t.messages[key]; ok {
		return msg
	}
	if msg, ok := t.fallback[key]; ok {
		return msg
	}
	return key
}

func loadCatalog(lang string) (map[string]string, error) {
	data, err := catalogsFS.ReadFile(fmt.Sprintf("catalogs/%s.yaml", lang))
	if err != nil {
		return nil, fmt.Errorf("no catalog for language %q: %w", lang, err)
	}

	messages := make(map[string]string)
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse catalog for %q: %w", lang, err)
	}
	return messages, nil
}
