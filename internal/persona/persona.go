// Package persona generates randomized person identities for fixtures.
// Every operation draws from an explicit Source; nothing here holds a
// global generator or mutable state.
package persona

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zarlcorp/zpersona/internal/age"
)

var (
	// ErrInvalidRange is returned when a date-of-birth range is empty or inverted.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrEmptyPool is returned when a name pool has nothing to sample from.
	ErrEmptyPool = errors.New("empty name pool")
)

// Identity is a generated persona. It is built whole and never mutated.
type Identity struct {
	GivenName   string    `json:"given_name" yaml:"given_name"`
	MiddleName  string    `json:"middle_name,omitempty" yaml:"middle_name,omitempty"`
	Surname     string    `json:"surname" yaml:"surname"`
	DateOfBirth time.Time `json:"date_of_birth" yaml:"date_of_birth"`
}

// Pools holds the candidate names sampled by a Composer.
type Pools struct {
	Given    []string `json:"given" yaml:"given"`
	Surnames []string `json:"surnames" yaml:"surnames"`
}

// FullName returns "Given Middle Surname", skipping an absent middle name.
func (id Identity) FullName() string {
	if !id.HasMiddleName() {
		return id.GivenName + " " + id.Surname
	}
	return id.GivenName + " " + id.MiddleName + " " + id.Surname
}

// ShortFullName abbreviates the middle name to its initial: "Ada B. Lovelace".
func (id Identity) ShortFullName() string {
	if !id.HasMiddleName() {
		return id.GivenName + " " + id.Surname
	}
	r, _ := utf8.DecodeRuneInString(id.MiddleName)
	return id.GivenName + " " + string(r) + ". " + id.Surname
}

// Age returns completed years at now.
func (id Identity) Age(now time.Time) int {
	return age.Years(id.DateOfBirth, now)
}

// HasMiddleName reports whether a middle name was sampled.
func (id Identity) HasMiddleName() bool {
	return strings.TrimSpace(id.MiddleName) != ""
}
