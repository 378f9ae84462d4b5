package fixture

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zarlcorp/zpersona/internal/age"
	"github.com/zarlcorp/zpersona/internal/persona"
	"github.com/zarlcorp/zpersona/internal/pool"
)

var fixedNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newGenerator(w *age.Window) Generator {
	c := persona.NewComposer(pool.Default(), persona.WithClock(func() time.Time { return fixedNow }))
	return Generator{Composer: c, Window: w}
}

func TestNew(t *testing.T) {
	g := newGenerator(nil)
	f, err := g.New(persona.NewSource(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := uuid.Parse(f.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", f.ID, err)
	}
	if f.GivenName == "" || f.Surname == "" {
		t.Errorf("empty name in %+v", f)
	}
	if f.Username == "" {
		t.Error("empty username")
	}
	if !f.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %s, want %s", f.CreatedAt, fixedNow)
	}
}

func TestNewReproducible(t *testing.T) {
	g := newGenerator(nil)
	a, err := g.New(persona.NewSource(77))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := g.New(persona.NewSource(77))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a != b {
		t.Errorf("same seed gave different fixtures:\n%+v\n%+v", a, b)
	}
}

func TestNewWithWindow(t *testing.T) {
	w := age.Window{Min: 21, Max: 30}
	g := newGenerator(&w)
	src := persona.NewSource(5)

	for range 500 {
		f, err := g.New(src)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if a := f.Age(fixedNow); a < w.Min || a > w.Max {
			t.Fatalf("age %d outside window %s (dob %s)", a, w, f.DateOfBirth)
		}
	}
}

func TestNewInvalidWindow(t *testing.T) {
	g := newGenerator(&age.Window{Min: 50, Max: 20})
	if _, err := g.New(persona.NewSource(1)); !errors.Is(err, age.ErrInvalidWindow) {
		t.Errorf("New() err = %v, want ErrInvalidWindow", err)
	}
}

func TestNewEmptyPool(t *testing.T) {
	c := persona.NewComposer(persona.Pools{Surnames: []string{"Lovelace"}})
	g := Generator{Composer: c}
	if _, err := g.New(persona.NewSource(1)); !errors.Is(err, persona.ErrEmptyPool) {
		t.Errorf("New() err = %v, want ErrEmptyPool", err)
	}
}

func TestBatch(t *testing.T) {
	g := newGenerator(nil)
	fs, err := g.Batch(persona.NewSource(3), 50)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(fs) != 50 {
		t.Fatalf("Batch returned %d fixtures, want 50", len(fs))
	}

	ids := make(map[string]bool)
	for _, f := range fs {
		ids[f.ID] = true
	}
	if len(ids) != 50 {
		t.Errorf("expected 50 distinct ids, got %d", len(ids))
	}
}

func TestBatchZeroAndNegative(t *testing.T) {
	g := newGenerator(nil)

	fs, err := g.Batch(persona.NewSource(1), 0)
	if err != nil || len(fs) != 0 {
		t.Errorf("Batch(0) = %v, %v; want empty, nil", fs, err)
	}

	if _, err := g.Batch(persona.NewSource(1), -1); err == nil {
		t.Error("Batch(-1) should fail")
	}
}

func TestReroll(t *testing.T) {
	g := newGenerator(nil)
	src := persona.NewSource(9)
	f, err := g.New(src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	changed := false
	for range 20 {
		r := g.Reroll(src, f)
		if r.ID != f.ID || r.Identity != f.Identity {
			t.Fatal("reroll changed more than the username")
		}
		if r.Username != f.Username {
			changed = true
		}
	}
	if !changed {
		t.Error("reroll never produced a different username")
	}
}

func TestUsernames(t *testing.T) {
	g := newGenerator(nil)
	id := persona.Identity{GivenName: "Ada", Surname: "Lovelace", DateOfBirth: time.Unix(0, 0).UTC()}

	names := g.Usernames(persona.NewSource(4), id, 5)
	if len(names) != 5 {
		t.Fatalf("got %d usernames, want 5", len(names))
	}
	for _, n := range names {
		if n == "" || strings.ContainsAny(n, " \t") {
			t.Errorf("bad username %q", n)
		}
	}

	if got := g.Usernames(persona.NewSource(4), id, -2); len(got) != 0 {
		t.Errorf("negative count gave %v", got)
	}
}

func TestFixtureJSONFlattensIdentity(t *testing.T) {
	f := Fixture{
		ID:        "x",
		Identity:  persona.Identity{GivenName: "Ada", Surname: "Lovelace", DateOfBirth: time.Unix(0, 0).UTC()},
		Username:  "ada.lovelace",
		CreatedAt: fixedNow,
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"given_name":"Ada"`, `"surname":"Lovelace"`, `"username":"ada.lovelace"`} {
		if !strings.Contains(s, want) {
			t.Errorf("json %s missing %s", s, want)
		}
	}
	if strings.Contains(s, "middle_name") {
		t.Errorf("json %s should omit empty middle name", s)
	}
}
