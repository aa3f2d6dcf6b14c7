package louds

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/internal/options"
)

// DefaultMaxDepth is the default limit on key length accepted by a Builder.
const DefaultMaxDepth = 256

type builderConfig struct {
	maxDepth  int
	bigEndian bool
	checksum  bool
	logger    *slog.Logger
}

// BuilderOption configures NewBuilder.
type BuilderOption = options.Option[*builderConfig]

// WithMaxDepth sets the longest key length Add accepts. Default is DefaultMaxDepth.
func WithMaxDepth(depth int) BuilderOption {
	return options.New(func(c *builderConfig) error {
		if depth < 1 || depth > math.MaxInt32 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidMaxDepth, depth)
		}
		c.maxDepth = depth

		return nil
	})
}

// WithLittleEndian writes the image in little-endian byte order. This is the default.
func WithLittleEndian() BuilderOption {
	return options.NoError(func(c *builderConfig) {
		c.bigEndian = false
	})
}

// WithBigEndian writes the image in big-endian byte order.
// Opening it on a little-endian host decodes the bit vectors instead of
// viewing them in place.
func WithBigEndian() BuilderOption {
	return options.NoError(func(c *builderConfig) {
		c.bigEndian = true
	})
}

// WithChecksum stores an xxHash64 of the whole image in its header.
func WithChecksum() BuilderOption {
	return options.NoError(func(c *builderConfig) {
		c.checksum = true
	})
}

// WithLogger sets the logger that receives build statistics at debug level.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) BuilderOption {
	return options.NoError(func(c *builderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}
