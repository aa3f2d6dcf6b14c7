package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/loudstrie"
	"github.com/arloliu/loudstrie/internal/cmdlogger"
	"github.com/arloliu/loudstrie/keyexp"
	"github.com/arloliu/loudstrie/louds"
)

func verifyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "verify",
		Usage: "verify the image checksum before querying",
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		verifyFlag(),
		&cli.StringFlag{
			Name:      "expansion",
			Aliases:   []string{"e"},
			Usage:     "TOML file mapping input bytes to the labels they also match",
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of results, negative for all",
			Value: keyexp.NoLimit,
		},
	}
}

// openTrie reads and opens the image named by the first argument.
func openTrie(cmd *cli.Command) (*louds.Trie, error) {
	if cmd.Args().Len() < 1 {
		return nil, usageError(cmd, "missing trie image path")
	}

	data, err := os.ReadFile(cmd.Args().First())
	if err != nil {
		return nil, err
	}

	var opts []louds.OpenOption
	if cmd.Bool("verify") {
		opts = append(opts, louds.WithChecksumVerification())
	}

	trie, err := loudstrie.OpenPacked(data, opts...)
	if err != nil {
		return nil, err
	}

	if cmd.Bool("verify") && !trie.Stats().HasChecksum {
		cmdlogger.Warnf("%s carries no checksum, nothing to verify", cmd.Args().First())
	}
	cmdlogger.Debugf("opened %s: %d keys, %d nodes", cmd.Args().First(), trie.KeyCount(), trie.NodeCount())

	return trie, nil
}

func loadTable(cmd *cli.Command) (*keyexp.Table, error) {
	path := cmd.String("expansion")
	if path == "" {
		return nil, nil
	}

	table, err := keyexp.LoadTableFile(path)
	if err != nil {
		return nil, err
	}

	return &table, nil
}

func lookupCommand(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "prints the ID of each key, -1 when absent",
		ArgsUsage: "<image> <key>...",
		Flags:     []cli.Flag{verifyFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			trie, err := openTrie(cmd)
			if err != nil {
				return err
			}
			defer trie.Close()

			missing := 0
			for _, key := range cmd.Args().Tail() {
				id := trie.ExactSearch(key)
				if id == louds.NotFound {
					missing++
				}
				fmt.Fprintf(stdout, "%s\t%d\n", key, id)
			}
			if missing > 0 {
				return fmt.Errorf("%d keys: %w", missing, errNotFound)
			}

			return nil
		},
	}
}

func prefixCommand(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "prefix",
		Usage:     "lists the stored keys that are prefixes of the query",
		ArgsUsage: "<image> <query>",
		Flags:     searchFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return search(stdout, cmd, keyexp.PrefixSearch)
		},
	}
}

func predictCommand(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "predict",
		Usage:     "lists the stored keys that start with the query",
		ArgsUsage: "<image> <query>",
		Flags:     searchFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return search(stdout, cmd, keyexp.PredictiveSearch)
		},
	}
}

type searchFunc = func(t *louds.Trie, key string, table *keyexp.Table, limit int) iter.Seq[keyexp.Result]

func search(stdout io.Writer, cmd *cli.Command, fn searchFunc) error {
	if cmd.Args().Len() != 2 {
		return usageError(cmd, "expected an image and a query, got %d arguments", cmd.Args().Len())
	}

	table, err := loadTable(cmd)
	if err != nil {
		return err
	}

	trie, err := openTrie(cmd)
	if err != nil {
		return err
	}
	defer trie.Close()

	found := 0
	for r := range fn(trie, cmd.Args().Get(1), table, cmd.Int("limit")) {
		found++
		fmt.Fprintf(stdout, "%s\t%d\n", r.ActualKey, r.ID)
	}
	loggerFor(cmd).Debug("search done", "results", found)

	if found == 0 {
		return errNotFound
	}

	return nil
}

func restoreCommand(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "prints the key stored under each ID",
		ArgsUsage: "<image> <id>...",
		Flags:     []cli.Flag{verifyFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			trie, err := openTrie(cmd)
			if err != nil {
				return err
			}
			defer trie.Close()

			for _, arg := range cmd.Args().Tail() {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return usageError(cmd, "invalid key ID %q", arg)
				}
				if id < 0 || id >= trie.KeyCount() {
					return fmt.Errorf("key ID %d of %d keys: %w", id, trie.KeyCount(), errNotFound)
				}
				fmt.Fprintf(stdout, "%d\t%s\n", id, trie.RestoreKey(id))
			}

			return nil
		},
	}
}

func statCommand(stdout, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "prints the size and layout of an image",
		ArgsUsage: "<image>",
		Flags:     []cli.Flag{verifyFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			trie, err := openTrie(cmd)
			if err != nil {
				return err
			}
			defer trie.Close()

			s := trie.Stats()
			fmt.Fprintf(stdout, "keys:          %d\n", s.KeyCount)
			fmt.Fprintf(stdout, "nodes:         %d\n", s.NodeCount)
			fmt.Fprintf(stdout, "max depth:     %d\n", s.MaxDepth)
			fmt.Fprintf(stdout, "image bytes:   %d\n", s.ImageBytes)
			fmt.Fprintf(stdout, "tree bits:     %d\n", s.TreeBits)
			fmt.Fprintf(stdout, "terminal bits: %d\n", s.TerminalBits)
			fmt.Fprintf(stdout, "label bytes:   %d\n", s.LabelBytes)
			fmt.Fprintf(stdout, "cache bytes:   %d\n", s.CacheBytes())
			fmt.Fprintf(stdout, "checksum:      %t\n", s.HasChecksum)
			fmt.Fprintf(stdout, "big endian:    %t\n", s.BigEndian)

			return nil
		},
	}
}
