package config

import (
	"context"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/strset/internal/ctxlog"
)

// DefaultFileName is the settings file looked up when no path is given.
const DefaultFileName = "strset.hcl"

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// File is the decoded content of a settings file.
type File struct {
	Debug     *bool
	LogLevel  *string
	LogFormat *string
}

// Loader reads a settings file from disk.
type Loader interface {
	Load(ctx context.Context, path string) (*File, error)
}

// hclFile mirrors the settings file for decoding.
type hclFile struct {
	Debug *bool   `hcl:"debug,optional"`
	Log   *hclLog `hcl:"log,block"`
}

type hclLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// HCLLoader is the Loader for HCL settings files.
type HCLLoader struct {
	parser *hclparse.Parser
}

// NewLoader returns an HCLLoader.
func NewLoader() *HCLLoader {
	return &HCLLoader{parser: hclparse.NewParser()}
}

// Load parses and validates the settings file at path.
func (l *HCLLoader) Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading settings file.", "path", path)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	f, err := decode(file.Body, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Settings file loaded.", "path", path)
	return f, nil
}

// Parse decodes settings from in-memory HCL source.
func Parse(src []byte, filename string) (*File, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", filename, diags)
	}
	return decode(file.Body, filename)
}

func decode(body hcl.Body, filename string) (*File, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", filename, diags)
	}

	f := &File{Debug: parsed.Debug}
	if parsed.Log != nil {
		f.LogLevel = parsed.Log.Level
		f.LogFormat = parsed.Log.Format
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings file %s: %w", filename, err)
	}
	return f, nil
}

// Validate checks the enumerated values.
func (f *File) Validate() error {
	if f.LogLevel != nil && !slices.Contains(validLevels, *f.LogLevel) {
		return fmt.Errorf("unknown log level %q, expected one of %v", *f.LogLevel, validLevels)
	}
	if f.LogFormat != nil && !slices.Contains(validFormats, *f.LogFormat) {
		return fmt.Errorf("unknown log format %q, expected one of %v", *f.LogFormat, validFormats)
	}
	return nil
}
