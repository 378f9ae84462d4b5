// Package cli implements zpersona's command-line subcommands.
package cli

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/zpersona/internal/age"
	"github.com/zarlcorp/zpersona/internal/config"
	"github.com/zarlcorp/zpersona/internal/export"
	"github.com/zarlcorp/zpersona/internal/fixture"
	"github.com/zarlcorp/zpersona/internal/httpapi"
	"github.com/zarlcorp/zpersona/internal/persona"
	"github.com/zarlcorp/zpersona/internal/seeddb"
	"github.com/zarlcorp/zpersona/internal/store"
	"golang.org/x/term"
)

// PasswordEnv names the variable that supplies the vault password
// non-interactively.
const PasswordEnv = "ZPERSONA_PASSWORD"

// Env is what every subcommand runs against.
type Env struct {
	Config *config.Config
	Log    *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// DataDir returns the default data directory for zpersona.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zpersona"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zpersona"
	}
	return home + "/.local/share/zpersona"
}

func (e Env) dataDir() string {
	if e.Config != nil && e.Config.DataDir != "" {
		return e.Config.DataDir
	}
	return DataDir()
}

// ReadPassword prompts for a password on w and reads it without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword prompts for a new password with confirmation.
func ReadNewPassword(w io.Writer) (string, error) {
	pass, err := ReadPassword("master password: ", w)
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword("confirm password: ", w)
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

// IsFirstRun checks whether the vault has been initialized.
func IsFirstRun(dir string) bool {
	_, err := os.Stat(dir + "/salt")
	return err != nil
}

// OpenStore opens the vault in dir. The password comes from
// $ZPERSONA_PASSWORD when set, otherwise from a prompt on w.
func OpenStore(dir string, w io.Writer) (*store.Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	pass := os.Getenv(PasswordEnv)
	if pass == "" {
		var err error
		if IsFirstRun(dir) {
			pass, err = ReadNewPassword(w)
		} else {
			pass, err = ReadPassword("master password: ", w)
		}
		if err != nil {
			return nil, err
		}
	}

	return store.Open(zfilesystem.NewOSFileSystem(dir), pass)
}

// CmdIdentity generates and prints one persona.
func CmdIdentity(env Env, args []string) error {
	fs := newFlagSet("identity", env)
	asJSON := fs.Bool("json", false, "print as JSON")
	save := fs.Bool("save", false, "save to the vault")
	seed := fs.String("seed", "", "seed for a reproducible persona")
	minAge := fs.Int("min-age", -1, "minimum age")
	maxAge := fs.Int("max-age", -1, "maximum age (alone, the minimum drops to 0)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gen, err := env.generator(*minAge, *maxAge)
	if err != nil {
		return err
	}
	src, err := env.source(*seed)
	if err != nil {
		return err
	}

	f, err := gen.New(src)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if *asJSON {
		if err := printJSON(env.Stdout, f); err != nil {
			return err
		}
	} else {
		printFixture(env.Stdout, f, gen.Composer.Now())
	}

	if !*save {
		return nil
	}

	s, err := OpenStore(env.dataDir(), env.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Save(f); err != nil {
		return err
	}
	fmt.Fprintln(env.Stderr, "saved")
	return nil
}

// CmdUsername prints several usernames for one persona.
func CmdUsername(env Env, args []string) error {
	fs := newFlagSet("username", env)
	count := fs.Int("count", 5, "number of usernames")
	seed := fs.String("seed", "", "seed for reproducible output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count < 1 {
		return fmt.Errorf("username: count must be positive, got %d", *count)
	}

	gen, err := env.generator(-1, -1)
	if err != nil {
		return err
	}
	src, err := env.source(*seed)
	if err != nil {
		return err
	}

	id, err := gen.Composer.BuildRandom(src)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	fmt.Fprintf(env.Stdout, "  %s (%s)\n", id.FullName(), id.DateOfBirth.Format("2006-01-02"))
	for _, u := range gen.Usernames(src, id, *count) {
		fmt.Fprintf(env.Stdout, "  %s\n", u)
	}
	return nil
}

// CmdBatch writes n personas in an export format.
func CmdBatch(env Env, args []string) error {
	fs := newFlagSet("batch", env)
	n := fs.Int("n", 10, "number of personas")
	format := fs.String("format", "json", "json, yaml or csv")
	seed := fs.String("seed", "", "seed for a reproducible batch")
	out := fs.String("out", "", "output file (default stdout)")
	minAge := fs.Int("min-age", -1, "minimum age")
	maxAge := fs.Int("max-age", -1, "maximum age (alone, the minimum drops to 0)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	gen, err := env.generator(*minAge, *maxAge)
	if err != nil {
		return err
	}
	src, err := env.source(*seed)
	if err != nil {
		return err
	}

	fixtures, err := gen.Batch(src, *n)
	if err != nil {
		return err
	}

	if *out == "" {
		return export.Write(env.Stdout, f, fixtures)
	}

	file, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := export.Write(file, f, fixtures); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	fmt.Fprintf(env.Stderr, "wrote %s personas to %s\n", humanize.Comma(int64(len(fixtures))), *out)
	return nil
}

// CmdSeed inserts n personas into a SQLite database.
func CmdSeed(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("seed", env)
	path := fs.String("db", "", "SQLite database path")
	n := fs.Int("n", 100, "number of personas")
	seed := fs.String("seed", "", "seed for a reproducible batch")
	show := fs.Bool("usernames", false, "print every stored username afterwards")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("seed: --db is required")
	}

	gen, err := env.generator(-1, -1)
	if err != nil {
		return err
	}
	src, err := env.source(*seed)
	if err != nil {
		return err
	}

	fixtures, err := gen.Batch(src, *n)
	if err != nil {
		return err
	}

	db, err := seeddb.Open(*path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	if err := db.Insert(ctx, fixtures); err != nil {
		return err
	}

	total, err := db.Count(ctx)
	if err != nil {
		return err
	}
	env.Log.Info("seeded", "db", db.Path(), "inserted", len(fixtures), "total", total)
	fmt.Fprintf(env.Stdout, "seeded %s personas into %s (%s total)\n",
		humanize.Comma(int64(len(fixtures))), db.Path(), humanize.Comma(int64(total)))

	if !*show {
		return nil
	}
	names, err := db.Usernames(ctx)
	if err != nil {
		return err
	}
	for _, u := range names {
		fmt.Fprintln(env.Stdout, u)
	}
	return nil
}

// CmdList lists all saved personas.
func CmdList(env Env, args []string) error {
	fs := newFlagSet("list", env)
	asJSON := fs.Bool("json", false, "print as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := OpenStore(env.dataDir(), env.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.List()
	if err != nil {
		return err
	}

	if *asJSON {
		if all == nil {
			all = []fixture.Fixture{}
		}
		return printJSON(env.Stdout, all)
	}

	if len(all) == 0 {
		fmt.Fprintln(env.Stdout, "no saved personas")
		return nil
	}

	for _, f := range all {
		fmt.Fprintf(env.Stdout, "  %-36s %-28s %-24s %s\n",
			f.ID,
			f.FullName(),
			f.Username,
			humanize.Time(f.CreatedAt),
		)
	}
	return nil
}

// CmdForget deletes a saved persona by ID.
func CmdForget(env Env, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: zpersona forget <id>")
	}
	id := args[0]

	s, err := OpenStore(env.dataDir(), env.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(id); err != nil {
		return fmt.Errorf("forget: %w", err)
	}
	fmt.Fprintf(env.Stdout, "deleted %s\n", id)
	return nil
}

// CmdServe runs the HTTP fixture endpoint until ctx is cancelled.
func CmdServe(ctx context.Context, env Env, args []string) error {
	fs := newFlagSet("serve", env)
	listen := fs.String("listen", env.Config.Server.Listen, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gen, err := env.generator(-1, -1)
	if err != nil {
		return err
	}
	return httpapi.New(gen, env.Log).ListenAndServe(ctx, *listen)
}

func newFlagSet(name string, env Env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	return fs
}

// generator builds a fixture generator from config. Negative ages leave the
// configured window in place; a maximum given alone starts the window at 0.
func (e Env) generator(minAge, maxAge int) (fixture.Generator, error) {
	c, err := e.Config.Composer()
	if err != nil {
		return fixture.Generator{}, err
	}

	gen := fixture.Generator{Composer: c, Window: e.Config.Age}
	if minAge < 0 && maxAge < 0 {
		return gen, nil
	}

	win := age.Adult
	if gen.Window != nil {
		win = *gen.Window
	}
	switch {
	case minAge < 0:
		// a lone maximum means anyone up to that age
		win = age.Window{Min: 0, Max: maxAge}
	case maxAge < 0:
		win.Min = minAge
	default:
		win = age.Window{Min: minAge, Max: maxAge}
	}
	if err := win.Validate(); err != nil {
		return fixture.Generator{}, err
	}
	gen.Window = &win
	return gen, nil
}

// source parses seed, or draws a fresh one and logs it so the run can be
// repeated.
func (e Env) source(seed string) (persona.Source, error) {
	if seed != "" {
		n, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed %q: must be an unsigned integer", seed)
		}
		return persona.NewSource(n), nil
	}

	b, err := zcrypto.RandBytes(8)
	if err != nil {
		return nil, fmt.Errorf("draw seed: %w", err)
	}
	n := binary.LittleEndian.Uint64(b)
	e.Log.Info("random seed", "seed", n)
	return persona.NewSource(n), nil
}

func printFixture(w io.Writer, f fixture.Fixture, now time.Time) {
	fmt.Fprintf(w, "  id:       %s\n", f.ID)
	fmt.Fprintf(w, "  name:     %s\n", f.FullName())
	fmt.Fprintf(w, "  username: %s\n", f.Username)
	fmt.Fprintf(w, "  dob:      %s (age %d)\n", f.DateOfBirth.Format("2006-01-02"), f.Age(now))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
