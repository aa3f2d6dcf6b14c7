package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/loudstrie"
	"github.com/arloliu/loudstrie/format"
	"github.com/arloliu/loudstrie/internal/cmdlogger"
	"github.com/arloliu/loudstrie/internal/keysource"
	"github.com/arloliu/loudstrie/louds"
)

func buildCommand(_, _ io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "builds a trie image from a file of keys",
		ArgsUsage: "<keys-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "output",
				Aliases:   []string{"o"},
				Usage:     "path of the image to write (required)",
				TakesFile: true,
				Required:  true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "layout of the keys file; value can be: lines, json",
				Value: "lines",
			},
			&cli.StringFlag{
				Name:  "json-field",
				Usage: "field of the top-level JSON object holding the key array",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "longest key accepted, in bytes",
				Value: louds.DefaultMaxDepth,
			},
			&cli.BoolFlag{
				Name:  "big-endian",
				Usage: "write the bit vectors in big-endian byte order",
			},
			&cli.BoolFlag{
				Name:  "checksum",
				Usage: "record an xxHash64 checksum of the image",
			},
			&cli.StringFlag{
				Name:  "pack",
				Usage: "compress the image; value can be: none, zstd, s2, lz4",
				Action: func(_ context.Context, _ *cli.Command, s string) error {
					_, err := format.ParseCompression(s)
					return err
				},
			},
		},
		Action: buildAction,
	}
}

func buildAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return usageError(cmd, "expected exactly one keys file, got %d arguments", cmd.Args().Len())
	}
	keyFormat, err := keysource.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	logger := loggerFor(cmd)
	start := time.Now()

	f, err := os.Open(cmd.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	opts := []louds.BuilderOption{
		louds.WithMaxDepth(cmd.Int("max-depth")),
		louds.WithLogger(logger),
	}
	if cmd.Bool("big-endian") {
		opts = append(opts, louds.WithBigEndian())
	}
	if cmd.Bool("checksum") {
		opts = append(opts, louds.WithChecksum())
	}

	source := keysource.New(f, keyFormat, cmd.String("json-field"))
	image, err := loudstrie.BuildSeq(source.Keys(), opts...)
	if err != nil {
		return err
	}
	if err := source.Err(); err != nil {
		return fmt.Errorf("reading keys: %w", err)
	}

	out := image
	if cmd.IsSet("pack") {
		compression, err := format.ParseCompression(cmd.String("pack"))
		if err != nil {
			return err
		}
		if out, err = loudstrie.Pack(image, compression); err != nil {
			return err
		}
		cmdlogger.Infof("packed with %s: %d -> %d bytes", compression, len(image), len(out))
	}

	if err := os.WriteFile(cmd.String("output"), out, 0o644); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("wrote %s", cmd.String("output")),
		"image_bytes", len(image),
		"file_bytes", len(out),
		"fingerprint", fmt.Sprintf("%016x", loudstrie.Fingerprint(out)),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return nil
}
