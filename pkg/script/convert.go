package script

import (
	"fmt"

	"github.com/ormasoftchile/floe/pkg/vars"
	"go.starlark.net/starlark"
)

// noPositional rejects positional arguments for builtins whose surface is
// keyword-only.
func noPositional(b *starlark.Builtin, args starlark.Tuple) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: unexpected positional arguments", b.Name())
	}
	return nil
}

// stringOpt converts an optional keyword value to *string. An unset slot
// and an explicit None both mean absent.
func stringOpt(fn, name string, v starlark.Value) (*string, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a string, got %s", fn, name, v.Type())
	}
	return &s, nil
}

// scopeOpt converts an optional list of tool names to a scope. Absent or
// None means unrestricted.
func scopeOpt(fn, name string, v starlark.Value) (vars.Scope, error) {
	if v == nil || v == starlark.None {
		return vars.GlobalScope(), nil
	}
	list, ok := v.(*starlark.List)
	if !ok {
		return vars.Scope{}, fmt.Errorf("%s: %s must be a list of tool names, got %s", fn, name, v.Type())
	}
	names := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		s, ok := starlark.AsString(list.Index(i))
		if !ok {
			return vars.Scope{}, fmt.Errorf("%s: %s entries must be strings, got %s", fn, name, list.Index(i).Type())
		}
		names = append(names, s)
	}
	scope, err := vars.RestrictedScope(names)
	if err != nil {
		return vars.Scope{}, fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	return scope, nil
}

// lateBound converts a script value to a deferred binding. Strings bind
// immediately, variable references and formatters resolve at run time.
func lateBound(fn string, v starlark.Value) (vars.LateBound, error) {
	switch val := v.(type) {
	case starlark.String:
		return vars.BoundValue(string(val)), nil
	case *VariableRef:
		return vars.BoundIdentifier(val.Identifier()), nil
	case *FormatterValue:
		return vars.BoundFormatter(val.formatter), nil
	default:
		return vars.LateBound{}, fmt.Errorf("%s: unsupported argument type %s", fn, v.Type())
	}
}
