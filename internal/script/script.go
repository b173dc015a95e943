package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/strset/internal/ctxlog"
	"github.com/vk/strset/internal/fsutil"
)

// Script is an ordered list of calls, possibly gathered from several files.
type Script struct {
	Calls []*Call
}

// Call is one `call` block. Argument expressions are nil when the attribute
// was not written.
type Call struct {
	Op       Op
	DefRange hcl.Range

	Set    hcl.Expression
	Left   hcl.Expression
	Right  hcl.Expression
	Value  hcl.Expression
	Expect hcl.Expression

	// As is the name bound to the returned id, empty when unset.
	As string
}

// scriptFileSchema is the top-level structure of a script file.
var scriptFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "call", LabelNames: []string{"op"}},
	},
}

// Load finds every .hcl file under path, or path itself when it is a file,
// and concatenates their calls in file name order. When walking a directory,
// files matching an entry of skip are left out: a bare file name matches by
// base name, anything else must be the same file on disk.
func Load(ctx context.Context, path string, skip ...string) (*Script, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading scripts from path", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find script files in %s: %w", path, err)
	}

	if !(len(files) == 1 && files[0] == path) {
		files = slices.DeleteFunc(files, func(file string) bool {
			if skipped(file, skip) {
				logger.Debug("Skipping non-script file", "file", file)
				return true
			}
			return false
		})
	}

	s := &Script{}
	if len(files) == 0 {
		logger.Warn("No .hcl script files found in path, returning empty script", "path", path)
		return s, nil
	}

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		calls, err := decodeCalls(hclFile.Body, file)
		if err != nil {
			return nil, err
		}
		logger.Debug("Script file loaded", "file", file, "calls", len(calls))
		s.Calls = append(s.Calls, calls...)
	}

	return s, nil
}

// Parse decodes a script from in-memory HCL source.
func Parse(src []byte, filename string) (*Script, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	calls, err := decodeCalls(hclFile.Body, filename)
	if err != nil {
		return nil, err
	}
	return &Script{Calls: calls}, nil
}

func skipped(file string, skip []string) bool {
	for _, entry := range skip {
		if filepath.Base(entry) == entry {
			if filepath.Base(file) == entry {
				return true
			}
			continue
		}
		fileInfo, err := os.Stat(file)
		if err != nil {
			continue
		}
		if entryInfo, err := os.Stat(entry); err == nil && os.SameFile(fileInfo, entryInfo) {
			return true
		}
	}
	return false
}

func decodeCalls(body hcl.Body, filename string) ([]*Call, error) {
	content, diags := body.Content(scriptFileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	calls := make([]*Call, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		call, diags := newCallFromHCL(block)
		if diags.HasErrors() {
			return nil, fmt.Errorf("error parsing call in file %s: %w", filename, diags)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func newCallFromHCL(block *hcl.Block) (*Call, hcl.Diagnostics) {
	op := Op(block.Labels[0])
	def, ok := opSpecs[op]
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown operation",
			Detail:   fmt.Sprintf("%q is not an operation; expected one of %s.", op, strings.Join(knownOps(), ", ")),
			Subject:  block.LabelRanges[0].Ptr(),
		}}
	}

	content, diags := block.Body.Content(def.schema())
	if diags.HasErrors() {
		return nil, diags
	}

	call := &Call{Op: op, DefRange: block.DefRange}
	for name, attr := range content.Attributes {
		switch name {
		case attrSet:
			call.Set = attr.Expr
		case attrLeft:
			call.Left = attr.Expr
		case attrRight:
			call.Right = attr.Expr
		case attrValue:
			call.Value = attr.Expr
		case attrExpect:
			call.Expect = attr.Expr
		case attrAs:
			// The name must be a static identifier so it can be used as set.<name>.
			asDiags := gohcl.DecodeExpression(attr.Expr, nil, &call.As)
			diags = append(diags, asDiags...)
			if !asDiags.HasErrors() && !hclsyntax.ValidIdentifier(call.As) {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid set name",
					Detail:   fmt.Sprintf("%q is not a valid identifier.", call.As),
					Subject:  attr.Expr.Range().Ptr(),
				})
			}
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return call, diags
}
