package pack

import (
	"fmt"

	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/format"
	"github.com/arloliu/loudstrie/internal/options"
)

type config struct {
	compression format.CompressionType
	bigEndian   bool
}

// Option configures Encode.
type Option = options.Option[*config]

// WithCompression selects the compression of the packed image.
// Default is format.CompressionZstd.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !compression.IsValid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, compression)
		}
		c.compression = compression

		return nil
	})
}

// WithBigEndianHeader writes the pack header integers in big-endian order.
func WithBigEndianHeader() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = true
	})
}
