package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zarlcorp/zpersona/internal/age"
	"github.com/zarlcorp/zpersona/internal/persona"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MiddleNameRate != 50 {
		t.Errorf("MiddleNameRate = %d, want 50", cfg.MiddleNameRate)
	}
	if cfg.Age != nil {
		t.Errorf("Age = %v, want nil", cfg.Age)
	}
	if cfg.Server.Listen != "127.0.0.1:8080" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
age:
  min: 21
  max: 40
middle_name_rate: 10
log:
  level: debug
  format: json
server:
  listen: ":9090"
pools:
  given: ["/tmp/given/*.txt"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Age == nil || *cfg.Age != (age.Window{Min: 21, Max: 40}) {
		t.Errorf("Age = %v, want 21-40", cfg.Age)
	}
	if cfg.MiddleNameRate != 10 {
		t.Errorf("MiddleNameRate = %d, want 10", cfg.MiddleNameRate)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if len(cfg.Pools.Given) != 1 || len(cfg.Pools.Surnames) != 0 {
		t.Errorf("Pools = %+v", cfg.Pools)
	}
	if cfg.File() != path {
		t.Errorf("File() = %q, want %q", cfg.File(), path)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "age: [1, 2"},
		{"inverted age", "age: {min: 40, max: 20}"},
		{"rate too high", "middle_name_rate: 101"},
		{"bad level", "log: {level: loud}"},
		{"bad format", "log: {format: xml}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadInvertedAgeWrapsWindowError(t *testing.T) {
	_, err := Load(writeConfig(t, "age: {min: 40, max: 20}"))
	if !errors.Is(err, age.ErrInvalidWindow) {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("ZPERSONA_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := Path(); got != "/custom/config/zpersona/config.yaml" {
		t.Errorf("Path() = %s", got)
	}

	t.Setenv("ZPERSONA_CONFIG", "/etc/zpersona.yaml")
	if got := Path(); got != "/etc/zpersona.yaml" {
		t.Errorf("Path() = %s, want explicit override", got)
	}

	t.Setenv("ZPERSONA_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	if got := Path(); !strings.HasSuffix(got, filepath.Join(".config", "zpersona", "config.yaml")) {
		t.Errorf("Path() = %s, want home fallback", got)
	}
}

func TestComposerUsesPools(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "g.txt"), []byte("Ada\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "s.txt"), []byte("Lovelace\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Pools = PoolsConfig{
		Given:    []string{filepath.Join(dir, "g.txt")},
		Surnames: []string{filepath.Join(dir, "s.txt")},
	}
	cfg.MiddleNameRate = 0

	c, err := cfg.Composer()
	if err != nil {
		t.Fatalf("Composer: %v", err)
	}
	id, err := c.BuildRandom(persona.NewSource(1))
	if err != nil {
		t.Fatalf("BuildRandom: %v", err)
	}
	if id.FullName() != "Ada Lovelace" {
		t.Errorf("FullName() = %q, want Ada Lovelace", id.FullName())
	}
}

func TestComposerMissingPool(t *testing.T) {
	cfg := Default()
	cfg.Pools.Given = []string{filepath.Join(t.TempDir(), "none*.txt")}
	if _, err := cfg.Composer(); err == nil {
		t.Error("expected error for unmatched pool pattern")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}

	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected json warn line, got %s", out)
	}
}
