// Package fixture turns composed identities into identified fixture records.
package fixture

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zarlcorp/zpersona/internal/age"
	"github.com/zarlcorp/zpersona/internal/persona"
)

// Fixture is a generated persona with a username, ready to save or export.
type Fixture struct {
	ID               string `json:"id" yaml:"id"`
	persona.Identity `yaml:",inline"`
	Username         string    `json:"username" yaml:"username"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
}

// Generator builds fixtures. A nil Window uses the composer's default range.
type Generator struct {
	Composer *persona.Composer
	Window   *age.Window
}

// New builds one fixture. Its ID is drawn from src, so seeded sources
// reproduce IDs as well as identities.
func (g Generator) New(src persona.Source) (Fixture, error) {
	id, err := g.identity(src)
	if err != nil {
		return Fixture{}, err
	}

	uid, err := uuid.NewRandomFromReader(persona.Reader(src))
	if err != nil {
		return Fixture{}, fmt.Errorf("fixture id: %w", err)
	}

	return Fixture{
		ID:        uid.String(),
		Identity:  id,
		Username:  g.Composer.DeriveUsername(src, id),
		CreatedAt: g.Composer.Now().UTC(),
	}, nil
}

// Batch builds n fixtures from one source.
func (g Generator) Batch(src persona.Source, n int) ([]Fixture, error) {
	if n < 0 {
		return nil, fmt.Errorf("batch: negative count %d", n)
	}

	out := make([]Fixture, 0, n)
	for i := range n {
		f, err := g.New(src)
		if err != nil {
			return nil, fmt.Errorf("batch: fixture %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Reroll returns f with a freshly derived username.
func (g Generator) Reroll(src persona.Source, f Fixture) Fixture {
	f.Username = g.Composer.DeriveUsername(src, f.Identity)
	return f
}

// Usernames derives n usernames for the same identity.
func (g Generator) Usernames(src persona.Source, id persona.Identity, n int) []string {
	out := make([]string, 0, max(n, 0))
	for range n {
		out = append(out, g.Composer.DeriveUsername(src, id))
	}
	return out
}

func (g Generator) identity(src persona.Source) (persona.Identity, error) {
	if g.Window == nil {
		return g.Composer.BuildRandom(src)
	}

	start, end, err := g.Window.Range(g.Composer.Now())
	if err != nil {
		return persona.Identity{}, fmt.Errorf("age window %s: %w", g.Window, err)
	}
	return g.Composer.BuildRandomWithDOBRange(src, start, end)
}
