package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type cacheConfig struct {
	rank   int
	sel    int
	calls  []string
	frozen bool
}

func withRank(n int) Option[*cacheConfig] {
	return New(func(c *cacheConfig) error {
		if n < 0 {
			return errors.New("rank granularity cannot be negative")
		}
		c.rank = n
		c.calls = append(c.calls, "rank")

		return nil
	})
}

func withSelect(n int) Option[*cacheConfig] {
	return NoError(func(c *cacheConfig) {
		c.sel = n
		c.calls = append(c.calls, "select")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &cacheConfig{}
		err := Apply(cfg, withRank(8), withSelect(512), withRank(4))
		require.NoError(t, err)
		require.Equal(t, 4, cfg.rank)
		require.Equal(t, 512, cfg.sel)
		require.Equal(t, []string{"rank", "select", "rank"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &cacheConfig{}
		err := Apply(cfg, withSelect(1), withRank(-1), withSelect(2))
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot be negative")
		require.Equal(t, 1, cfg.sel)
		require.Equal(t, []string{"select"}, cfg.calls)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &cacheConfig{rank: 3}
		require.NoError(t, Apply[*cacheConfig](cfg))
		require.Equal(t, 3, cfg.rank)
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		cfg := &cacheConfig{}
		require.NoError(t, Apply(cfg, nil, withSelect(7)))
		require.Equal(t, 7, cfg.sel)
	})
}

func TestNoError(t *testing.T) {
	cfg := &cacheConfig{}
	opt := NoError(func(c *cacheConfig) { c.frozen = true })

	require.NoError(t, opt.apply(cfg))
	require.True(t, cfg.frozen)
}
