// Package pool loads the name pools a persona.Composer samples from.
// Pools come from the embedded defaults or from text and YAML files
// matched by doublestar globs.
package pool

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zarlcorp/zpersona/internal/persona"
	"gopkg.in/yaml.v3"
)

// ErrNoMatch is returned when a pattern matches no files.
var ErrNoMatch = errors.New("pattern matched no files")

// Default returns a copy of the embedded pools.
func Default() persona.Pools {
	return persona.Pools{
		Given:    slices.Clone(defaultGiven),
		Surnames: slices.Clone(defaultSurnames),
	}
}

// Load reads given-name and surname pools from files matching the glob
// patterns. An empty pattern list selects the embedded pool for that side.
func Load(given, surnames []string) (persona.Pools, error) {
	p := Default()

	if len(given) > 0 {
		names, err := loadPatterns(given)
		if err != nil {
			return persona.Pools{}, fmt.Errorf("load given names: %w", err)
		}
		p.Given = names
	}

	if len(surnames) > 0 {
		names, err := loadPatterns(surnames)
		if err != nil {
			return persona.Pools{}, fmt.Errorf("load surnames: %w", err)
		}
		p.Surnames = names
	}

	return p, nil
}

func loadPatterns(patterns []string) ([]string, error) {
	var all []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(expandHome(pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
		}

		// glob order is filesystem order
		slices.Sort(matches)
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			names, err := Parse(path, data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			all = append(all, names...)
		}
	}
	return Clean(all), nil
}

// Parse decodes a pool file. YAML files (.yaml, .yml) hold a list of
// strings; anything else is one name per line with # comments.
func Parse(name string, data []byte) ([]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var names []string
		if err := yaml.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return Clean(names), nil
	}

	var names []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return Clean(names), nil
}

// Clean trims every name, drops blanks and removes duplicates while
// keeping first-seen order.
func Clean(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func expandHome(pattern string) string {
	if !strings.HasPrefix(pattern, "~/") {
		return pattern
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return pattern
	}
	return filepath.Join(home, pattern[2:])
}
