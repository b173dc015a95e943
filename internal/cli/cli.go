package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vk/strset/internal/app"
	"github.com/vk/strset/internal/config"
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

const usage = `Usage: strset [flags] <script path>

Runs the call blocks of an HCL script, or of every .hcl file in a directory,
against a fresh set registry and prints one line per call.

Flags:
`

// Parse reads args (without the program name). shouldExit is true when the
// caller should stop without error, e.g. after printing help.
func Parse(ctx context.Context, args []string, outW io.Writer, loader config.Loader) (cfg *app.Config, shouldExit bool, err error) {
	fs := flag.NewFlagSet("strset", flag.ContinueOnError)
	fs.SetOutput(outW)
	fs.Usage = func() {
		fmt.Fprint(outW, usage)
		fs.PrintDefaults()
	}

	var flags app.Config
	fs.StringVar(&flags.ConfigPath, "config", "", "path to a settings file (default: ./strset.hcl if present)")
	fs.BoolVar(&flags.Debug, "debug", false, "log every registry operation")
	fs.StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&flags.LogFormat, "log-format", "text", "log format: text, json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, false, &ExitError{Code: 2, Message: "exactly one script path is required"}
	}
	flags.ScriptPath = fs.Arg(0)

	if flags.ConfigPath == "" {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			flags.ConfigPath = config.DefaultFileName
		}
	}

	merged := flags
	if flags.ConfigPath != "" {
		file, err := loader.Load(ctx, flags.ConfigPath)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		merged = merge(flags, file, explicit)
	}

	levels := &config.File{LogLevel: &merged.LogLevel, LogFormat: &merged.LogFormat}
	if err := levels.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg, err = app.NewConfig(merged)
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

// merge applies file values to every setting whose flag was not given.
func merge(flags app.Config, file *config.File, explicit map[string]bool) app.Config {
	if file.Debug != nil && !explicit["debug"] {
		flags.Debug = *file.Debug
	}
	if file.LogLevel != nil && !explicit["log-level"] {
		flags.LogLevel = *file.LogLevel
	}
	if file.LogFormat != nil && !explicit["log-format"] {
		flags.LogFormat = *file.LogFormat
	}
	return flags
}
