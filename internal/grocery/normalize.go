package grocery

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules/*.yaml
var rulesFS embed.FS

const fallbackLocale = "en"

// RuleSet holds the locale-specific cleanup patterns applied to raw
// ingredient lines before grouping. Patterns strip trailing step-reference
// annotations such as "(steg 2)" or a trailing "till <word>" clause.
type RuleSet struct {
	Locale   string   `yaml:"locale"`
	Patterns []string `yaml:"patterns"`

	compiled []*regexp.Regexp
}

// LoadRules loads the embedded rule set for a locale. Unknown locales fall
// back to the English rule set.
func LoadRules(locale string) (*RuleSet, error) {
	data, err := rulesFS.ReadFile(fmt.Sprintf("rules/%s.yaml", locale))
	if err != nil {
		data, err = rulesFS.ReadFile(fmt.Sprintf("rules/%s.yaml", fallbackLocale))
		if err != nil {
			return nil, fmt.Errorf("failed to read fallback rule set: %w", err)
		}
	}

	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rule set for locale %q: %w", locale, err)
	}

	for _, pattern := range rules.Patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q in %s rule set: %w", pattern, rules.Locale, err)
		}
		rules.compiled = append(rules.compiled, re)
	}
	return &rules, nil
}

// Clean strips trailing step-reference annotations from a raw ingredient
// line and trims whitespace, keeping the original casing for display.
// Patterns are applied until the string stops changing, so Clean is
// idempotent: Clean(Clean(s)) == Clean(s).
func (r *RuleSet) Clean(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		before := s
		for _, re := range r.compiled {
			s = re.ReplaceAllString(s, "")
		}
		s = strings.TrimSpace(s)
		if s == before {
			return s
		}
	}
}

// Key produces the grouping key for a raw ingredient line: the cleaned form,
// lowercased. Items whose keys match are merged in the aggregated list.
func (r *RuleSet) Key(raw string) string {
	return strings.ToLower(r.Clean(raw))
}
