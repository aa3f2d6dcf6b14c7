// Command loudstrie builds trie images from key lists and queries them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/internal/cmdlogger"
)

const (
	exitOK       = 0
	exitError    = 1
	exitNotFound = 2
	exitBadImage = 3
)

// errNotFound is returned by query commands when a key or ID has no match.
var errNotFound = errors.New("not found")

type commandBuilder = func(stdout, stderr io.Writer) *cli.Command

func commands() []commandBuilder {
	return []commandBuilder{
		buildCommand,
		lookupCommand,
		prefixCommand,
		predictCommand,
		restoreCommand,
		statCommand,
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	logHandler := cmdlogger.New(stdout, stderr)
	cmdlogger.Install(logHandler)

	cmds := make([]*cli.Command, 0, len(commands()))
	for _, build := range commands() {
		cmds = append(cmds, build(stdout, stderr))
	}

	app := &cli.Command{
		Name:      "loudstrie",
		Usage:     "builds and queries succinct LOUDS trie images",
		Suggest:   true,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands:  cmds,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "verbosity",
				Usage: "log level, one of: " + strings.Join(cmdlogger.Levels(), ", "),
				Value: "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := cmdlogger.ParseLevel(cmd.String("verbosity"))
			if err != nil {
				return ctx, err
			}
			logHandler.SetLevel(level)

			return ctx, nil
		},
	}
	app.ExitErrHandler = func(_ context.Context, _ *cli.Command, _ error) {}

	err := app.Run(context.Background(), args)
	if err != nil {
		switch {
		case errors.Is(err, errNotFound):
			return exitNotFound
		case errors.Is(err, errs.ErrInvalidImage), errors.Is(err, errs.ErrNotPacked), errors.Is(err, errs.ErrHashMismatch):
			cmdlogger.Errorf("%v", err)
			return exitBadImage
		}
		cmdlogger.Errorf("%v", err)

		return exitError
	}

	if logHandler.HasErrored() {
		return exitError
	}

	return exitOK
}

// loggerFor returns the default logger tagged with the running command.
func loggerFor(cmd *cli.Command) *slog.Logger {
	return slog.Default().With("cmd", cmd.Name)
}

func usageError(cmd *cli.Command, format string, args ...any) error {
	return fmt.Errorf("%s: %s", cmd.Name, fmt.Sprintf(format, args...))
}
