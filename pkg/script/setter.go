package script

import (
	"fmt"

	"go.starlark.net/starlark"
)

// SetterValue couples a script callback with the variable it writes. After
// an action's command completes, the callback receives the action context
// and its string return value (if any) is stored into the variable.
type SetterValue struct {
	impl     *starlark.Function
	variable *VariableRef
}

var _ starlark.Value = (*SetterValue)(nil)

func (s *SetterValue) String() string        { return fmt.Sprintf("setter(%s)", s.variable.Identifier()) }
func (s *SetterValue) Type() string          { return "setter" }
func (s *SetterValue) Freeze()               {}
func (s *SetterValue) Truth() starlark.Bool  { return starlark.True }
func (s *SetterValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: setter") }

// call invokes the callback, passing the action context when the callback
// declares a parameter for it.
func (s *SetterValue) call(th *starlark.Thread, ctx *ActionCtx) (starlark.Value, error) {
	var callArgs starlark.Tuple
	if s.impl.NumParams() >= 1 {
		callArgs = starlark.Tuple{ctx}
	}
	return starlark.Call(th, s.impl, callArgs, nil)
}

// setterFn implements setter(implementation, variable).
func setterFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var implV, varV starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "implementation", &implV, "variable", &varV); err != nil {
		return nil, err
	}
	impl, ok := implV.(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("expected function type in setter definition, got %s", implV.Type())
	}
	if impl.NumParams() > 1 {
		return nil, fmt.Errorf("setter implementation must take at most one argument, takes %d", impl.NumParams())
	}
	ref, ok := varV.(*VariableRef)
	if !ok {
		return nil, fmt.Errorf("expected variable type in setter definition, got %s", varV.Type())
	}
	return &SetterValue{impl: impl, variable: ref}, nil
}
