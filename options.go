package redsvd

import (
	"fmt"
	"math/rand"
)

// DefaultEpsilon is the rank-deficiency threshold used by the
// orthonormalization step when no WithEpsilon option is given. Its
// right value is scale- and precision-dependent; callers working with
// very small or very large entries should tune it.
const DefaultEpsilon = 1e-4

type config struct {
	eps    float64
	src    rand.Source
	center bool
}

type Option func(*config) error

// WithEpsilon sets the orthonormalization rank-deficiency threshold.
// A projected column whose norm falls below this value collapses the
// remaining basis (see the package documentation). Must be positive.
func WithEpsilon(eps float64) Option {
	return func(c *config) error {
		if eps <= 0 {
			return fmt.Errorf("epsilon must be positive, got %v", eps)
		}
		c.eps = eps
		return nil
	}
}

// WithRandSource sets the source of uniform randomness used to draw
// the Gaussian sketching matrices. Supplying a seeded source makes the
// computation reproducible. The default is a source seeded with 1, so
// repeated runs of an unconfigured engine are also reproducible.
func WithRandSource(src rand.Source) Option {
	return func(c *config) error {
		if src == nil {
			return fmt.Errorf("rand source must not be nil")
		}
		c.src = src
		return nil
	}
}

// WithMeanCentering subtracts the per-column mean from a copy of the
// input before factorizing, so components describe variance around the
// column means. Only the PCA adapter consults this option.
func WithMeanCentering() Option {
	return func(c *config) error {
		c.center = true
		return nil
	}
}

func newConfig(opts []Option) (config, error) {
	var c config
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return config{}, err
		}
	}
	if c.eps == 0 {
		c.eps = DefaultEpsilon
	}
	if c.src == nil {
		c.src = rand.NewSource(1)
	}
	return c, nil
}
