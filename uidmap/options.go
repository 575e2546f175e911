package uidmap

import "math/rand/v2"

// DefaultMaxProbes bounds the number of candidates tried per generated RID.
const DefaultMaxProbes = 1 << 20

type options struct {
	maxProbes int
	rng       *rand.Rand
}

// Option configures a Mapper.
type Option func(*options)

// WithMaxProbes sets how many candidate RIDs are tried before generation
// fails with ErrExhaustedKeyspace. Values < 1 are ignored.
func WithMaxProbes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxProbes = n
		}
	}
}

// WithRand sets the random source used to pick probe start points.
// By default the runtime's automatically seeded generator is used.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}
