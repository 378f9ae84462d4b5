package persona

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// leet substitutions applied to random runes of a username.
var leet = map[rune]rune{
	'a': '4', 'b': '8', 'c': 'C', 'e': '3', 'f': 'F', 'g': '6',
	'j': 'J', 'l': '1', 'o': '0', 'q': 'Q', 's': '5', 't': '7',
	'y': 'Y', 'z': '2',
}

const (
	givenFirstRate = 70
	leetRate       = 25
)

// DeriveUsername builds a handle from id: sanitized name parts in random
// order, a random separator and a random numeric suffix, with occasional
// leetspeak. The result depends only on src, id and the composer's clock,
// is never empty and never contains whitespace.
func (c *Composer) DeriveUsername(src Source, id Identity) string {
	suffix := c.usernameNumber(src, id)
	sep := pick(src, usernameSeparators(id))

	given := repeatLast(Sanitize(id.GivenName), src.IntN(2))
	surname := repeatLast(Sanitize(id.Surname), src.IntN(2))

	var b strings.Builder
	if chance(src, givenFirstRate) {
		b.WriteString(given)
		b.WriteString(sep)
		b.WriteString(surname)
	} else {
		b.WriteString(surname)
		b.WriteString(sep)
		b.WriteString(given)
	}
	b.WriteString(suffix)

	name := leetify(src, b.String())
	if Sanitize(name) == "" {
		// nothing usable survived sanitizing
		return fmt.Sprintf("%04d", src.IntN(10000))
	}
	return name
}

// usernameNumber picks the numeric suffix: random digits, nothing, the age
// or the birth year.
func (c *Composer) usernameNumber(src Source, id Identity) string {
	switch src.IntN(4) {
	case 0:
		return strconv.Itoa(src.IntN(10000))
	case 1:
		return ""
	case 2:
		return strconv.Itoa(id.Age(c.now()))
	default:
		return strconv.Itoa(id.DateOfBirth.UTC().Year())
	}
}

// usernameSeparators lists candidate separators; the last one is the
// middle initial, or a dot without a middle name.
func usernameSeparators(id Identity) []string {
	initial := "."
	if m := Sanitize(id.MiddleName); m != "" {
		r, _ := utf8.DecodeRuneInString(m)
		initial = string(r)
	}
	return []string{"", "-", "_", ".", initial}
}

// Sanitize lower-cases s and drops every rune that is not a letter or digit,
// so whitespace and pool delimiters never reach a username.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// repeatLast appends the last rune of s n more times.
func repeatLast(s string, n int) string {
	if s == "" || n <= 0 {
		return s
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return s + strings.Repeat(string(r), n)
}

// leetify substitutes runes after the first with leetRate probability.
func leetify(src Source, s string) string {
	var b strings.Builder
	b.Grow(len(s))
	first := true
	for _, r := range s {
		if !first && chance(src, leetRate) {
			if sub, ok := leet[r]; ok {
				r = sub
			}
		}
		first = false
		b.WriteRune(r)
	}
	return b.String()
}
