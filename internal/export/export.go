// Package export writes fixtures as JSON, YAML or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zarlcorp/zpersona/internal/fixture"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// csvHeader is the column order of CSV output.
var csvHeader = []string{"id", "given_name", "middle_name", "surname", "date_of_birth", "username", "created_at"}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, YAML, CSV:
		return f, nil
	case "yml":
		return YAML, nil
	case "":
		return JSON, nil
	}
	return "", fmt.Errorf("unknown format %q: want json, yaml or csv", s)
}

// Write encodes fixtures to w.
func Write(w io.Writer, f Format, fixtures []fixture.Fixture) error {
	switch f {
	case JSON:
		return writeJSON(w, fixtures)
	case YAML:
		return writeYAML(w, fixtures)
	case CSV:
		return writeCSV(w, fixtures)
	}
	return fmt.Errorf("unknown format %q", f)
}

func writeJSON(w io.Writer, fixtures []fixture.Fixture) error {
	if fixtures == nil {
		fixtures = []fixture.Fixture{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fixtures); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, fixtures []fixture.Fixture) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fixtures); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, fixtures []fixture.Fixture) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	for _, f := range fixtures {
		row := []string{
			f.ID,
			f.GivenName,
			f.MiddleName,
			f.Surname,
			f.DateOfBirth.UTC().Format(time.RFC3339Nano),
			f.Username,
			f.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}
