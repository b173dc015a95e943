package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/strset/internal/app"
	"github.com/vk/strset/internal/cli"
	"github.com/vk/strset/internal/config"
	"github.com/vk/strset/internal/ctxlog"
	"github.com/vk/strset/internal/script"
)

// main is the entrypoint for the strset command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) error {
	ctx := ctxlog.WithLogger(context.Background(), slog.Default())

	appConfig, shouldExit, err := cli.Parse(ctx, args, outW, config.NewLoader())
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	strsetApp := app.NewApp(outW, logW, appConfig)
	if err := strsetApp.Run(ctx); err != nil {
		if errors.Is(err, script.ErrExpectationFailed) {
			return &cli.ExitError{Code: 3, Message: err.Error()}
		}
		return err
	}
	return nil
}
