package louds

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/arloliu/loudstrie/bitvec"
	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/internal/options"
	"github.com/arloliu/loudstrie/internal/pool"
	"github.com/arloliu/loudstrie/section"
)

// Builder compiles a set of keys into a trie image.
//
// Keys may be added in any order and duplicates collapse. After Build the
// builder is finished: Image returns the image and GetID the assigned IDs,
// while Add and Build fail with errs.ErrBuilderFinished.
//
// Note: Builder is NOT thread-safe.
type Builder struct {
	cfg      builderConfig
	keys     []string
	ids      map[string]int
	image    []byte
	finished bool
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	cfg := builderConfig{
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Builder{cfg: cfg}, nil
}

// Add records key for inclusion in the trie.
func (b *Builder) Add(key string) error {
	if b.finished {
		return errs.ErrBuilderFinished
	}
	if len(key) > b.cfg.maxDepth {
		return fmt.Errorf("%w: %d bytes, limit %d", errs.ErrKeyTooLong, len(key), b.cfg.maxDepth)
	}

	b.keys = append(b.keys, key)

	return nil
}

// KeyCount returns the number of distinct keys after Build, and the number
// of added keys (duplicates included) before it.
func (b *Builder) KeyCount() int {
	if b.finished {
		return len(b.ids)
	}

	return len(b.keys)
}

// keyRange is a trie node under construction: the sorted keys[lo:hi]
// share their first depth bytes.
type keyRange struct {
	lo, hi int
	depth  int
}

// Build compiles the added keys into an image.
//
// A failed Build leaves the builder unfinished and without an image.
func (b *Builder) Build() error {
	if b.finished {
		return errs.ErrBuilderFinished
	}

	start := time.Now()

	keys := slices.Clone(b.keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	var (
		tree     = bitvec.NewBuilder(2*len(keys) + 2)
		terminal = bitvec.NewBuilder(len(keys) + 1)
		labels   = make([]byte, 0, len(keys))
		ids      = make(map[string]int, len(keys))
		maxDepth = 0
		queue    = []keyRange{{lo: 0, hi: len(keys), depth: 0}}
	)

	// super-root with the root as its only child
	tree.Append(true)
	tree.Append(false)

	for head := 0; head < len(queue); head++ {
		node := queue[head]
		lo := node.lo

		// sorting puts the key equal to the shared prefix first
		isTerminal := lo < node.hi && len(keys[lo]) == node.depth
		terminal.Append(isTerminal)
		if isTerminal {
			ids[keys[lo]] = len(ids)
			maxDepth = max(maxDepth, node.depth)
			lo++
		}

		for lo < node.hi {
			label := keys[lo][node.depth]
			hi := lo + 1
			for hi < node.hi && keys[hi][node.depth] == label {
				hi++
			}

			tree.Append(true)
			labels = append(labels, label)
			queue = append(queue, keyRange{lo: lo, hi: hi, depth: node.depth + 1})
			lo = hi
		}
		tree.Append(false)
	}

	nodeCount := len(queue)
	header, err := section.NewTrieHeader(nodeCount, len(ids), maxDepth)
	if err != nil {
		return err
	}
	if b.cfg.bigEndian {
		header.Flag.WithBigEndian()
	}
	engine := header.GetEndianEngine()

	buf := pool.GetImageBuffer()
	defer pool.PutImageBuffer(buf)

	buf.WriteZeros(section.HeaderSize)
	buf.Grow(header.ImageSize() - section.HeaderSize)
	buf.B = tree.AppendTo(buf.B, engine)
	buf.B = terminal.AppendTo(buf.B, engine)
	buf.MustWrite(labels)

	if buf.Len() != header.ImageSize() {
		return fmt.Errorf("%w: wrote %d bytes, header describes %d", errs.ErrInconsistentImage, buf.Len(), header.ImageSize())
	}

	if b.cfg.checksum {
		header.Flag.SetHasChecksum(true)
		copy(buf.B, header.Bytes())
		header.Checksum = imageChecksum(buf.B)
	}
	copy(buf.B, header.Bytes())

	b.image = make([]byte, buf.Len())
	copy(b.image, buf.B)
	b.ids = ids
	b.keys = nil
	b.finished = true

	b.cfg.logger.Debug("trie built",
		slog.Int("keys", len(ids)),
		slog.Int("nodes", nodeCount),
		slog.Int("max_depth", maxDepth),
		slog.Int("image_bytes", len(b.image)),
		slog.Bool("big_endian", b.cfg.bigEndian),
		slog.Duration("elapsed", time.Since(start)),
	)

	return nil
}

// Image returns the built image, or nil before Build.
func (b *Builder) Image() []byte {
	return b.image
}

// GetID returns the ID assigned to key by Build, or NotFound.
func (b *Builder) GetID(key string) int {
	id, ok := b.ids[key]
	if !ok {
		return NotFound
	}

	return id
}
