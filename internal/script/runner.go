package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/strset/internal/ctxlog"
	"github.com/vk/strset/registry"
)

// ErrExpectationFailed is wrapped by every expectation mismatch returned from Run.
var ErrExpectationFailed = errors.New("expectation failed")

// Report summarises a script run.
type Report struct {
	Calls    int
	Failures int
	// Names maps every `as` name to the id it was bound to.
	Names map[string]registry.ID
}

// Runner executes scripts against a single registry. Names bound with `as`
// persist across Run calls on the same Runner.
type Runner struct {
	reg   *registry.Registry
	outW  io.Writer
	names map[string]registry.ID
}

// NewRunner creates a Runner that applies calls to reg and writes one line per
// call to outW.
func NewRunner(reg *registry.Registry, outW io.Writer) *Runner {
	return &Runner{
		reg:   reg,
		outW:  outW,
		names: make(map[string]registry.ID),
	}
}

// Run executes every call in order. Evaluation errors abort the run and are
// returned immediately. Expectation mismatches are collected and returned
// together once all calls have run.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Script run started.", "calls", len(s.Calls))

	report := &Report{}
	var failures []error
	for _, call := range s.Calls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := r.exec(call)
		if err != nil {
			return nil, err
		}
		report.Calls++
		fmt.Fprintln(r.outW, res.line)

		if res.failure != nil {
			report.Failures++
			logger.Warn("Expectation failed.", "call", call.DefRange.String(), "error", res.failure)
			failures = append(failures, res.failure)
		}
	}

	report.Names = make(map[string]registry.ID, len(r.names))
	for name, id := range r.names {
		report.Names[name] = id
	}

	logger.Debug("Script run finished.", "calls", report.Calls, "failures", report.Failures)
	return report, errors.Join(failures...)
}

type result struct {
	line    string
	failure error
}

// exec applies one call to the registry.
func (r *Runner) exec(call *Call) (*result, error) {
	evalCtx := r.evalContext()

	// A fresh id can never match an existing binding, so reject the name
	// before the registry allocates one.
	if call.Op == OpCreate && call.As != "" {
		if prev, ok := r.names[call.As]; ok {
			return nil, fmt.Errorf("%s: set name %q is already bound to id %d", call.DefRange, call.As, prev)
		}
	}

	var (
		line     string
		returned int64
	)
	switch call.Op {
	case OpCreate:
		id := r.reg.Create()
		returned = int64(id)
		line = fmt.Sprintf("create() = %d", id)

	case OpSize:
		id, err := evalID(call.Set, evalCtx)
		if err != nil {
			return nil, err
		}
		returned = int64(r.reg.Size(id))
		line = fmt.Sprintf("size(%d) = %d", id, returned)

	case OpDelete:
		id, err := evalID(call.Set, evalCtx)
		if err != nil {
			return nil, err
		}
		r.reg.Delete(id)
		line = fmt.Sprintf("delete(%d)", id)

	case OpInsert, OpRemove, OpTest:
		id, err := evalID(call.Set, evalCtx)
		if err != nil {
			return nil, err
		}
		value, err := evalString(call.Value, evalCtx)
		if err != nil {
			return nil, err
		}
		switch call.Op {
		case OpInsert:
			r.reg.Insert(id, value)
			line = fmt.Sprintf("insert(%d, %q)", id, value)
		case OpRemove:
			r.reg.Remove(id, value)
			line = fmt.Sprintf("remove(%d, %q)", id, value)
		default:
			returned = int64(r.reg.Test(id, value))
			line = fmt.Sprintf("test(%d, %q) = %d", id, value, returned)
		}

	case OpClear:
		id, err := evalID(call.Set, evalCtx)
		if err != nil {
			return nil, err
		}
		r.reg.Clear(id)
		line = fmt.Sprintf("clear(%d)", id)

	case OpCompare:
		left, err := evalID(call.Left, evalCtx)
		if err != nil {
			return nil, err
		}
		right, err := evalID(call.Right, evalCtx)
		if err != nil {
			return nil, err
		}
		returned = int64(r.reg.Compare(left, right))
		line = fmt.Sprintf("compare(%d, %d) = %d", left, right, returned)

	case OpImmutableSingleton:
		value, err := evalString(call.Value, evalCtx)
		if err != nil {
			return nil, err
		}
		id := r.reg.ImmutableSingleton(value)
		returned = int64(id)
		line = fmt.Sprintf("immutable_singleton(%q) = %d", value, id)

	default:
		return nil, fmt.Errorf("%s: unsupported operation %q", call.DefRange, call.Op)
	}

	if call.As != "" {
		if prev, ok := r.names[call.As]; ok && prev != registry.ID(returned) {
			return nil, fmt.Errorf("%s: set name %q is already bound to id %d", call.DefRange, call.As, prev)
		}
		r.names[call.As] = registry.ID(returned)
	}

	res := &result{line: line}
	if call.Expect != nil {
		want, err := evalInt(call.Expect, evalCtx)
		if err != nil {
			return nil, err
		}
		if want != returned {
			res.failure = fmt.Errorf("%s: %s returned %d, expected %d: %w", call.DefRange, call.Op, returned, want, ErrExpectationFailed)
			res.line += fmt.Sprintf(" (expected %d)", want)
		}
	}
	return res, nil
}

// evalContext exposes the bound names as the `set` object variable.
func (r *Runner) evalContext() *hcl.EvalContext {
	sets := cty.EmptyObjectVal
	if len(r.names) > 0 {
		attrs := make(map[string]cty.Value, len(r.names))
		for name, id := range r.names {
			attrs[name] = cty.NumberUIntVal(uint64(id))
		}
		sets = cty.ObjectVal(attrs)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"set": sets},
	}
}

func evalValue(expr hcl.Expression, evalCtx *hcl.EvalContext, ty cty.Type) (cty.Value, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if val.IsNull() {
		return cty.NilVal, fmt.Errorf("%s: value must not be null", expr.Range())
	}
	if !val.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("%s: value is not known", expr.Range())
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return converted, nil
}

func evalID(expr hcl.Expression, evalCtx *hcl.EvalContext) (registry.ID, error) {
	val, err := evalValue(expr, evalCtx, cty.Number)
	if err != nil {
		return 0, err
	}
	if val.AsBigFloat().Sign() < 0 {
		return 0, fmt.Errorf("%s: set id must not be negative", expr.Range())
	}
	var id uint64
	if err := gocty.FromCtyValue(val, &id); err != nil {
		return 0, fmt.Errorf("%s: invalid set id: %w", expr.Range(), err)
	}
	return registry.ID(id), nil
}

func evalString(expr hcl.Expression, evalCtx *hcl.EvalContext) (string, error) {
	val, err := evalValue(expr, evalCtx, cty.String)
	if err != nil {
		return "", err
	}
	return val.AsString(), nil
}

func evalInt(expr hcl.Expression, evalCtx *hcl.EvalContext) (int64, error) {
	val, err := evalValue(expr, evalCtx, cty.Number)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return 0, fmt.Errorf("%s: expected an integer: %w", expr.Range(), err)
	}
	return n, nil
}
