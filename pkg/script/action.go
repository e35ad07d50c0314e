package script

import (
	"context"
	"fmt"

	"github.com/ormasoftchile/floe/pkg/tools"
	"github.com/ormasoftchile/floe/pkg/vars"
	"go.starlark.net/starlark"
)

// ActionValue is one command invocation: a tool, the deferred argument
// list, and the setters that harvest its output.
type ActionValue struct {
	tool    *tools.Tool
	args    []vars.LateBound
	setters []*SetterValue
}

var _ starlark.Value = (*ActionValue)(nil)

func (a *ActionValue) String() string        { return fmt.Sprintf("action(%s)", a.tool.Name()) }
func (a *ActionValue) Type() string          { return "action" }
func (a *ActionValue) Freeze()               {}
func (a *ActionValue) Truth() starlark.Bool  { return starlark.True }
func (a *ActionValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: action") }

// Tool returns the tool this action invokes.
func (a *ActionValue) Tool() *tools.Tool { return a.tool }

// Run resolves the tool and arguments, spawns the command, and dispatches
// setters over the captured output. Output is only captured when at least
// one setter needs it; otherwise the streams mirror straight through.
func (a *ActionValue) Run(ctx context.Context, th *starlark.Thread, env *RunEnv) (*ActionCtx, error) {
	reader := env.Registry.Accessor(a.tool.Name())
	program, err := a.tool.ResolvePath(reader, env.WorkingDir)
	if err != nil {
		return nil, err
	}
	argv := make([]string, 0, len(a.args))
	for _, arg := range a.args {
		v, err := arg.Value(reader)
		if err != nil {
			return nil, err
		}
		argv = append(argv, v)
	}

	capture := len(a.setters) > 0
	result, err := env.Runner.Run(ctx, program, argv, capture)
	if err != nil {
		return nil, err
	}
	actx := NewActionCtx(result.Stdout, result.Stderr, result.ExitCode)

	for _, s := range a.setters {
		ret, err := s.call(th, actx)
		if err != nil {
			return nil, fmt.Errorf("setter for variable %s: %w", s.variable.Identifier(), err)
		}
		switch v := ret.(type) {
		case starlark.NoneType:
			// Setter declined to write.
		case starlark.String:
			if err := reader.Update(s.variable.Identifier(), string(v)); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("setter for variable %s returned %s, want string or None", s.variable.Identifier(), ret.Type())
		}
	}
	return actx, nil
}

// actionFn implements action(tool=, args=, setters=).
func actionFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var toolV, argsV, settersV starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "tool", &toolV, "args?", &argsV, "setters?", &settersV); err != nil {
		return nil, err
	}
	tv, ok := toolV.(*ToolValue)
	if !ok {
		return nil, fmt.Errorf("a tool must be passed as the tool in an action, got %s", toolV.Type())
	}

	var bound []vars.LateBound
	if argsV != nil && argsV != starlark.None {
		list, ok := argsV.(*starlark.List)
		if !ok {
			return nil, fmt.Errorf("%s: args must be a list, got %s", b.Name(), argsV.Type())
		}
		bound = make([]vars.LateBound, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			v, err := lateBound(b.Name(), list.Index(i))
			if err != nil {
				return nil, err
			}
			bound = append(bound, v)
		}
	}

	var setters []*SetterValue
	if settersV != nil && settersV != starlark.None {
		list, ok := settersV.(*starlark.List)
		if !ok {
			return nil, fmt.Errorf("%s: setters must be a list, got %s", b.Name(), settersV.Type())
		}
		for i := 0; i < list.Len(); i++ {
			s, ok := list.Index(i).(*SetterValue)
			if !ok {
				return nil, fmt.Errorf("%s: setters entries must be setter values, got %s", b.Name(), list.Index(i).Type())
			}
			setters = append(setters, s)
		}
	}

	return &ActionValue{tool: tv.tool, args: bound, setters: setters}, nil
}
