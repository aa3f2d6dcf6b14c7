package louds

import (
	"fmt"

	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/internal/options"
)

const (
	// DefaultRankGranularity is the default spacing, in 64-bit words, of the
	// rank tables built over the tree-shape and terminal vectors.
	DefaultRankGranularity = 8
	// DefaultSelectGranularity is the default sampling interval of the
	// select tables built over the tree-shape vector.
	DefaultSelectGranularity = 256
)

// openConfig holds the cache granularities and checks applied by Open.
type openConfig struct {
	treeRank0      int
	treeRank1      int
	treeSelect0    int
	treeSelect1    int
	terminalRank1  int
	verifyChecksum bool
}

func defaultOpenConfig() openConfig {
	return openConfig{
		treeRank1:     DefaultRankGranularity,
		treeSelect0:   DefaultSelectGranularity,
		treeSelect1:   DefaultSelectGranularity,
		terminalRank1: DefaultRankGranularity,
	}
}

// OpenOption configures Open.
type OpenOption = options.Option[*openConfig]

// WithCacheSizes sets all five cache granularities at once.
//
// The first four apply to the tree-shape vector (rank of zeros and ones in
// words, select of zeros and ones in bits), the last to the rank table of
// the terminal vector. Zero disables a cache; results never depend on these
// values, only speed and memory do.
func WithCacheSizes(treeRank0, treeRank1, treeSelect0, treeSelect1, terminalRank1 int) OpenOption {
	return options.New(func(c *openConfig) error {
		for _, v := range []int{treeRank0, treeRank1, treeSelect0, treeSelect1, terminalRank1} {
			if v < 0 {
				return fmt.Errorf("%w: %d", errs.ErrInvalidGranularity, v)
			}
		}
		c.treeRank0 = treeRank0
		c.treeRank1 = treeRank1
		c.treeSelect0 = treeSelect0
		c.treeSelect1 = treeSelect1
		c.terminalRank1 = terminalRank1

		return nil
	})
}

// WithTreeRank0Granularity sets the zero-count table spacing, in words, of the tree-shape vector.
func WithTreeRank0Granularity(words int) OpenOption {
	return granularity(words, func(c *openConfig) *int { return &c.treeRank0 })
}

// WithTreeRank1Granularity sets the one-count table spacing, in words, of the tree-shape vector.
func WithTreeRank1Granularity(words int) OpenOption {
	return granularity(words, func(c *openConfig) *int { return &c.treeRank1 })
}

// WithTreeSelect0Granularity sets the zero sampling interval of the tree-shape vector.
// It speeds up MoveToFirstChild.
func WithTreeSelect0Granularity(bits int) OpenOption {
	return granularity(bits, func(c *openConfig) *int { return &c.treeSelect0 })
}

// WithTreeSelect1Granularity sets the one sampling interval of the tree-shape vector.
// It speeds up Parent, RestoreKeyString and TerminalNodeFromKeyID.
func WithTreeSelect1Granularity(bits int) OpenOption {
	return granularity(bits, func(c *openConfig) *int { return &c.treeSelect1 })
}

// WithTerminalRank1Granularity sets the one-count table spacing, in words, of the terminal vector.
// It speeds up KeyIDOfTerminalNode and TerminalNodeFromKeyID.
func WithTerminalRank1Granularity(words int) OpenOption {
	return granularity(words, func(c *openConfig) *int { return &c.terminalRank1 })
}

func granularity(v int, field func(*openConfig) *int) OpenOption {
	return options.New(func(c *openConfig) error {
		if v < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidGranularity, v)
		}
		*field(c) = v

		return nil
	})
}

// WithChecksumVerification makes Open verify the image checksum when the
// image carries one. Images without a checksum open normally.
func WithChecksumVerification() OpenOption {
	return options.NoError(func(c *openConfig) {
		c.verifyChecksum = true
	})
}
