package persona

import (
	"fmt"
	"time"
)

const (
	defaultSpanYears      = 100
	defaultMiddleNameRate = 50
)

// Composer assembles identities from its pools.
// It holds no mutable state and is safe for concurrent use when each
// caller supplies its own Source.
type Composer struct {
	pools          Pools
	now            func() time.Time
	spanYears      int
	middleNameRate int
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock sets the clock used for the default range and for ages.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMiddleNameRate sets the chance, in percent, of sampling a middle name.
// Values are clamped to 0..100.
func WithMiddleNameRate(percent int) Option {
	return func(c *Composer) {
		c.middleNameRate = min(max(percent, 0), 100)
	}
}

// WithDefaultSpan sets how many years back BuildRandom reaches.
func WithDefaultSpan(years int) Option {
	return func(c *Composer) {
		if years > 0 {
			c.spanYears = years
		}
	}
}

// NewComposer creates a composer sampling from pools.
func NewComposer(pools Pools, opts ...Option) *Composer {
	c := &Composer{
		pools:          pools,
		now:            time.Now,
		spanYears:      defaultSpanYears,
		middleNameRate: defaultMiddleNameRate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the composer's current time.
func (c *Composer) Now() time.Time {
	return c.now()
}

// DefaultRange returns the range BuildRandom samples birth dates from.
func (c *Composer) DefaultRange() (start, end time.Time) {
	end = c.now().UTC()
	return end.AddDate(-c.spanYears, 0, 0), end
}

// BuildRandom builds an identity born within the default span before now.
func (c *Composer) BuildRandom(src Source) (Identity, error) {
	start, end := c.DefaultRange()
	return c.BuildRandomWithDOBRange(src, start, end)
}

// BuildRandomWithDOBRange builds an identity born in [start, end).
// Either every field is sampled or an error is returned.
func (c *Composer) BuildRandomWithDOBRange(src Source, start, end time.Time) (Identity, error) {
	// reject the range before consuming entropy
	if err := checkRange(start, end); err != nil {
		return Identity{}, fmt.Errorf("sample date of birth: %w", err)
	}

	given, err := SampleName(src, c.pools.Given)
	if err != nil {
		return Identity{}, fmt.Errorf("sample given name: %w", err)
	}

	var middle string
	if chance(src, c.middleNameRate) {
		middle = pick(src, c.pools.Given)
	}

	surname, err := SampleName(src, c.pools.Surnames)
	if err != nil {
		return Identity{}, fmt.Errorf("sample surname: %w", err)
	}

	dob, err := SampleTimestamp(src, start, end)
	if err != nil {
		return Identity{}, fmt.Errorf("sample date of birth: %w", err)
	}

	return Identity{
		GivenName:   given,
		MiddleName:  middle,
		Surname:     surname,
		DateOfBirth: dob,
	}, nil
}
