package bitvec

import (
	"fmt"

	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/internal/options"
)

// config holds the cache granularities of a BitVector. A zero granularity
// disables the corresponding cache.
type config struct {
	rank0   int // words between cumulative zero counts
	rank1   int // words between cumulative one counts
	select0 int // zeros between sampled zero positions
	select1 int // ones between sampled one positions
}

// Option configures the rank and select caches built by New.
type Option = options.Option[*config]

// WithRank0Granularity stores the cumulative zero count every words words.
//
// With 0 and no rank1 table, Rank0 counts from the start of the vector.
func WithRank0Granularity(words int) Option {
	return options.New(func(c *config) error {
		if words < 0 {
			return fmt.Errorf("%w: rank0 %d", errs.ErrInvalidGranularity, words)
		}
		c.rank0 = words

		return nil
	})
}

// WithRank1Granularity stores the cumulative one count every words words.
//
// With 0 and no rank0 table, Rank1 counts from the start of the vector.
func WithRank1Granularity(words int) Option {
	return options.New(func(c *config) error {
		if words < 0 {
			return fmt.Errorf("%w: rank1 %d", errs.ErrInvalidGranularity, words)
		}
		c.rank1 = words

		return nil
	})
}

// WithSelect0Granularity samples the position of every bits-th zero.
//
// With 0, Select0 binary searches a rank table when one exists and scans
// from the start otherwise.
func WithSelect0Granularity(bits int) Option {
	return options.New(func(c *config) error {
		if bits < 0 {
			return fmt.Errorf("%w: select0 %d", errs.ErrInvalidGranularity, bits)
		}
		c.select0 = bits

		return nil
	})
}

// WithSelect1Granularity samples the position of every bits-th one.
//
// With 0, Select1 binary searches a rank table when one exists and scans
// from the start otherwise.
func WithSelect1Granularity(bits int) Option {
	return options.New(func(c *config) error {
		if bits < 0 {
			return fmt.Errorf("%w: select1 %d", errs.ErrInvalidGranularity, bits)
		}
		c.select1 = bits

		return nil
	})
}
