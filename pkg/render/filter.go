package render

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

const DefaultInclude = "**/*"

// Filter selects asset paths by doublestar glob. An empty Include means
// DefaultInclude.
type Filter struct {
	Include []string
	Exclude []string
}

// Validate reports the first malformed pattern.
func (f Filter) Validate() error {
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob %q", p)
		}
	}
	return nil
}

// Match reports whether the slash-separated path p is selected.
func (f Filter) Match(p string) bool {
	include := f.Include
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	return matchAny(include, p) && !matchAny(f.Exclude, p)
}

func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
