package scoring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Terms are the keyword sets the scorer counts.
type Terms struct {
	Seniority []string `json:"seniority" yaml:"seniority"`
	Domain    []string `json:"domain" yaml:"domain"`
}

// DefaultTerms targets senior leadership roles in mobility and automotive strategy.
func DefaultTerms() Terms {
	return Terms{
		Seniority: []string{"director", "vp", "head", "senior"},
		Domain:    []string{"mobility", "automotive", "ev", "strategy", "transformation"},
	}
}

// Normalize lowercases and trims every term, dropping blanks and duplicates.
// First occurrence order is kept.
func (t Terms) Normalize() Terms {
	return Terms{
		Seniority: normalizeSet(t.Seniority),
		Domain:    normalizeSet(t.Domain),
	}
}

// Empty reports whether both sets are empty.
func (t Terms) Empty() bool {
	return len(t.Seniority) == 0 && len(t.Domain) == 0
}

// Merge returns t with any empty set replaced by the matching set from fallback.
func (t Terms) Merge(fallback Terms) Terms {
	if len(t.Seniority) == 0 {
		t.Seniority = fallback.Seniority
	}
	if len(t.Domain) == 0 {
		t.Domain = fallback.Domain
	}
	return t
}

// LoadTerms reads a YAML file with `seniority` and `domain` lists.
func LoadTerms(path string) (Terms, error) {
	if strings.TrimSpace(path) == "" {
		return Terms{}, errors.New("terms file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Terms{}, fmt.Errorf("read terms file %q: %w", path, err)
	}

	var terms Terms
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return Terms{}, fmt.Errorf("parse terms file %q: %w", path, err)
	}
	terms = terms.Normalize()
	if terms.Empty() {
		return Terms{}, fmt.Errorf("terms file %q defines no seniority or domain terms", path)
	}
	return terms, nil
}

func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
