// Package store provides an encrypted vault of saved fixtures.
// fixtures live in a zstore collection on a zfilesystem.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
	"github.com/zarlcorp/zpersona/internal/fixture"
)

const collectionName = "personas"

// ErrNotFound is returned when a fixture does not exist.
var ErrNotFound = errors.New("persona not found")

// ErrWrongPassword is returned when the vault password does not match.
var ErrWrongPassword = zstore.ErrWrongPassword

// Store manages saved fixtures.
type Store struct {
	s   *zstore.Store
	col *zstore.Collection[fixture.Fixture]
}

// Open opens or initializes the vault on fsys.
func Open(fsys zfilesystem.ReadWriteFileFS, password string) (*Store, error) {
	s, err := zstore.Open(fsys, []byte(password))
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	col, err := zstore.NewCollection[fixture.Fixture](s, collectionName)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open vault: %w", err)
	}

	return &Store{s: s, col: col}, nil
}

// Save writes f, replacing any fixture with the same ID.
func (s *Store) Save(f fixture.Fixture) error {
	if f.ID == "" {
		return errors.New("save persona: empty id")
	}
	if err := s.col.Put(f.ID, f); err != nil {
		return fmt.Errorf("save persona %s: %w", f.ID, err)
	}
	return nil
}

// Get returns a single fixture by ID.
func (s *Store) Get(id string) (fixture.Fixture, error) {
	f, err := s.col.Get(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fixture.Fixture{}, ErrNotFound
		}
		return fixture.Fixture{}, fmt.Errorf("get persona %s: %w", id, err)
	}
	return f, nil
}

// List returns all saved fixtures, newest first.
func (s *Store) List() ([]fixture.Fixture, error) {
	all, err := s.col.List()
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}

	// zstore does not guarantee order
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// Count returns the number of saved fixtures.
func (s *Store) Count() (int, error) {
	all, err := s.col.List()
	if err != nil {
		return 0, fmt.Errorf("count personas: %w", err)
	}
	return len(all), nil
}

// Delete removes a fixture by ID.
func (s *Store) Delete(id string) error {
	if err := s.col.Delete(id); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete persona %s: %w", id, err)
	}
	return nil
}

// Close erases the vault key from memory.
func (s *Store) Close() error {
	if s.s == nil {
		return nil
	}
	s.s.Close()
	s.s = nil
	return nil
}
