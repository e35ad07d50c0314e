package script

import (
	"fmt"
	"path/filepath"

	"github.com/ormasoftchile/floe/pkg/tools"
	"github.com/ormasoftchile/floe/pkg/vars"
	"go.starlark.net/starlark"
)

// ToolValue wraps a declared tool for use inside action(...).
type ToolValue struct {
	tool *tools.Tool
}

var _ starlark.Value = (*ToolValue)(nil)

// Tool returns the underlying host tool.
func (t *ToolValue) Tool() *tools.Tool { return t.tool }

func (t *ToolValue) String() string        { return fmt.Sprintf("tool(%s)", t.tool.Name()) }
func (t *ToolValue) Type() string          { return "tool" }
func (t *ToolValue) Freeze()               {}
func (t *ToolValue) Truth() starlark.Bool  { return starlark.True }
func (t *ToolValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: tool") }

// toolFn implements tool(path=, name=). The path may be a literal string,
// a variable reference, or a format value; the last two resolve when the
// tool first runs. For non-literal paths the name cannot be derived, so it
// must be given explicitly.
func toolFn(th *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var pathV, nameV starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path", &pathV, "name?", &nameV); err != nil {
		return nil, err
	}
	name, err := stringOpt(b.Name(), "name", nameV)
	if err != nil {
		return nil, err
	}

	var path vars.LateBound
	switch p := pathV.(type) {
	case starlark.String:
		if err := tools.ValidateLiteralPath(string(p)); err != nil {
			return nil, err
		}
		path = vars.BoundValue(string(p))
		if name == nil {
			base := filepath.Base(string(p))
			name = &base
		}
	case *VariableRef:
		path = vars.BoundIdentifier(p.Identifier())
	case *FormatterValue:
		path = vars.BoundFormatter(p.formatter)
	default:
		return nil, fmt.Errorf("%s: path must be a string, variable, or format value, got %s", b.Name(), pathV.Type())
	}
	if name == nil {
		return nil, fmt.Errorf("%s: name is required when path is not a literal string", b.Name())
	}

	t, err := tools.NewPathBased(*name, path)
	if err != nil {
		return nil, err
	}
	delegate, err := delegateFrom(th)
	if err != nil {
		return nil, err
	}
	if err := delegate.OnTool(t); err != nil {
		return nil, err
	}
	return &ToolValue{tool: t}, nil
}

// builtinToolFn implements builtin_tool(name=), a tool resolved through
// the executable search path rather than the workflow directory.
func builtinToolFn(th *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	t, err := tools.NewBuiltin(name)
	if err != nil {
		return nil, err
	}
	delegate, err := delegateFrom(th)
	if err != nil {
		return nil, err
	}
	if err := delegate.OnTool(t); err != nil {
		return nil, err
	}
	return &ToolValue{tool: t}, nil
}
