package script

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// StringArg declares a string-typed named argument in a next stub's
// signature.
type StringArg struct {
	required bool
	def      starlark.Value // nil when no default
}

var _ starlark.Value = (*StringArg)(nil)

func (a *StringArg) String() string        { return "string_arg" }
func (a *StringArg) Type() string          { return "string_arg" }
func (a *StringArg) Freeze()               {}
func (a *StringArg) Truth() starlark.Bool  { return starlark.True }
func (a *StringArg) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: string_arg") }

// IntArg declares an integer-typed named argument in a next stub's
// signature.
type IntArg struct {
	required bool
	def      starlark.Value
}

var _ starlark.Value = (*IntArg)(nil)

func (a *IntArg) String() string        { return "int_arg" }
func (a *IntArg) Type() string          { return "int_arg" }
func (a *IntArg) Freeze()               {}
func (a *IntArg) Truth() starlark.Bool  { return starlark.True }
func (a *IntArg) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: int_arg") }

func stringArgFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var defV starlark.Value
	required := false
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &defV, "required?", &required); err != nil {
		return nil, err
	}
	spec := &StringArg{required: required}
	if defV != nil && defV != starlark.None {
		if _, ok := starlark.AsString(defV); !ok {
			return nil, fmt.Errorf("%s: default must be a string, got %s", b.Name(), defV.Type())
		}
		spec.def = defV
	}
	return spec, nil
}

func intArgFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var defV starlark.Value
	required := false
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &defV, "required?", &required); err != nil {
		return nil, err
	}
	spec := &IntArg{required: required}
	if defV != nil && defV != starlark.None {
		if _, ok := defV.(starlark.Int); !ok {
			return nil, fmt.Errorf("%s: default must be an int, got %s", b.Name(), defV.Type())
		}
		spec.def = defV
	}
	return spec, nil
}

// argsModule groups the argument spec constructors under args.string and
// args.int.
var argsModule = &starlarkstruct.Module{
	Name: "args",
	Members: starlark.StringDict{
		"string": starlark.NewBuiltin("args.string", stringArgFn),
		"int":    starlark.NewBuiltin("args.int", intArgFn),
	},
}

// checkArg validates a supplied value against a spec entry, or supplies
// the default when absent. A nil return with nil error means the argument
// is simply omitted.
func checkArg(name string, spec starlark.Value, supplied starlark.Value) (starlark.Value, error) {
	switch s := spec.(type) {
	case *StringArg:
		if supplied == nil {
			if s.required && s.def == nil {
				return nil, fmt.Errorf("missing required argument %q", name)
			}
			return s.def, nil
		}
		if _, ok := supplied.(starlark.String); !ok {
			return nil, fmt.Errorf("argument %q should be a string, got %s", name, supplied.Type())
		}
		return supplied, nil
	case *IntArg:
		if supplied == nil {
			if s.required && s.def == nil {
				return nil, fmt.Errorf("missing required argument %q", name)
			}
			return s.def, nil
		}
		if _, ok := supplied.(starlark.Int); !ok {
			return nil, fmt.Errorf("argument %q should be an int, got %s", name, supplied.Type())
		}
		return supplied, nil
	default:
		return nil, fmt.Errorf("argument %q has an unsupported spec type %s", name, spec.Type())
	}
}
