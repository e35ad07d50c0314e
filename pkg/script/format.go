package script

import (
	"fmt"

	"github.com/ormasoftchile/floe/pkg/vars"
	"go.starlark.net/starlark"
)

// FormatterValue is a deferred template: format("{}-{}", a, b) captures the
// template and its bindings now, substitutes when a run needs the string.
type FormatterValue struct {
	formatter *vars.Formatter
}

var _ starlark.Value = (*FormatterValue)(nil)

func (f *FormatterValue) String() string        { return f.formatter.String() }
func (f *FormatterValue) Type() string          { return "value_formatter" }
func (f *FormatterValue) Freeze()               {}
func (f *FormatterValue) Truth() starlark.Bool  { return starlark.True }
func (f *FormatterValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: value_formatter") }

// formatFn implements format(template, value...). Every argument after the
// template fills one {} placeholder in order.
func formatFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing template argument", b.Name())
	}
	template, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: template must be a string, got %s", b.Name(), args[0].Type())
	}
	args = args[1:]

	values := make([]vars.LateBound, 0, len(args))
	for _, arg := range args {
		values = append(values, formatValue(arg))
	}
	return &FormatterValue{formatter: vars.NewFormatter(template, values)}, nil
}

// formatValue binds one format argument. Variable references and nested
// formatters stay deferred; everything else is stringified now, so
// format("{}", 1) fills in "1" and None renders as "None".
func formatValue(v starlark.Value) vars.LateBound {
	switch val := v.(type) {
	case *VariableRef:
		return vars.BoundIdentifier(val.Identifier())
	case *FormatterValue:
		return vars.BoundFormatter(val.formatter)
	case starlark.String:
		return vars.BoundValue(string(val))
	default:
		return vars.BoundValue(v.String())
	}
}
