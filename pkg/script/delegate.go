// Package script is the host boundary to the embedded Starlark dialect:
// the workflow stdlib (variable, tool, action, node, workflow, ...), the
// typed values those functions build, and the run logic that walks them.
package script

import (
	"errors"

	"github.com/ormasoftchile/floe/pkg/tools"
	"github.com/ormasoftchile/floe/pkg/vars"
	"go.starlark.net/starlark"
)

// ErrMissingDelegate indicates a workflow builtin ran without a delegate
// injected into the evaluation. That is a host integration bug, not a user
// error, and it aborts the parse immediately.
var ErrMissingDelegate = errors.New("expected to find a parse delegate but none found")

// ParseDelegate receives declaration events while a workflow module
// evaluates. Implementations own duplicate-name policy and whatever state
// (registry, tool table) the declarations populate.
type ParseDelegate interface {
	// OnVariable is called for each variable(...) declaration with its
	// generated identifier and validated entry.
	OnVariable(identifier string, entry *vars.Entry) error

	// OnTool is called for each tool(...) or builtin_tool(...) declaration.
	OnTool(tool *tools.Tool) error

	// WillParseWorkflow is called once before module evaluation starts.
	WillParseWorkflow(path string)

	// DidParseWorkflow is called exactly once after the module's top-level
	// statements finish evaluating. Variable realization hangs off it.
	DidParseWorkflow() error
}

const delegateLocalKey = "floe.parse.delegate"

// SetDelegate injects the delegate into the thread's opaque local slot so
// builtins can recover it mid-evaluation.
func SetDelegate(th *starlark.Thread, d ParseDelegate) {
	th.SetLocal(delegateLocalKey, d)
}

// delegateFrom recovers the injected delegate, converting the
// downcast-or-die pattern into a typed error at the boundary.
func delegateFrom(th *starlark.Thread) (ParseDelegate, error) {
	d, ok := th.Local(delegateLocalKey).(ParseDelegate)
	if !ok {
		return nil, ErrMissingDelegate
	}
	return d, nil
}
