package script

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// specEntry is one declared argument of a next stub, in declaration order.
type specEntry struct {
	name string
	spec starlark.Value
}

// NextStub is a routing callback bound to its argument signature. Scripts
// call the stub inside node bodies; the call validates the named arguments
// against the signature and captures them for the deferred invocation.
type NextStub struct {
	impl *starlark.Function
	spec []specEntry
}

var (
	_ starlark.Value    = (*NextStub)(nil)
	_ starlark.Callable = (*NextStub)(nil)
)

func (n *NextStub) String() string        { return fmt.Sprintf("next_stub(%s)", n.impl.Name()) }
func (n *NextStub) Type() string          { return "next_stub" }
func (n *NextStub) Freeze()               {}
func (n *NextStub) Truth() starlark.Bool  { return starlark.True }
func (n *NextStub) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: next_stub") }
func (n *NextStub) Name() string          { return n.impl.Name() }

// CallInternal validates the supplied named arguments against the declared
// signature and returns a Next carrying the frozen argument struct.
func (n *NextStub) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s: accepts only named arguments", n.impl.Name())
	}
	supplied := make(map[string]starlark.Value, len(kwargs))
	for _, kw := range kwargs {
		k, _ := starlark.AsString(kw[0])
		supplied[k] = kw[1]
	}

	fields := make([]starlark.Tuple, 0, len(n.spec))
	for _, entry := range n.spec {
		v, err := checkArg(entry.name, entry.spec, supplied[entry.name])
		if err != nil {
			return nil, err
		}
		delete(supplied, entry.name)
		if v != nil {
			fields = append(fields, starlark.Tuple{starlark.String(entry.name), v})
		}
	}
	if len(supplied) > 0 {
		return nil, fmt.Errorf("%s: too many arguments", n.impl.Name())
	}

	return &Next{impl: n.impl, args: starlarkstruct.FromKeywords(starlarkstruct.Default, fields)}, nil
}

// Next is a pending routing decision: the callback plus its validated
// arguments, invoked after the node's actions complete.
type Next struct {
	impl *starlark.Function
	args *starlarkstruct.Struct
}

var _ starlark.Value = (*Next)(nil)

func (n *Next) String() string        { return fmt.Sprintf("next(%s)", n.impl.Name()) }
func (n *Next) Type() string          { return "next" }
func (n *Next) Freeze()               {}
func (n *Next) Truth() starlark.Bool  { return starlark.True }
func (n *Next) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: next") }

// invoke calls the callback with the last action context and the captured
// argument struct. The return value names the node to run next; None ends
// the walk.
func (n *Next) invoke(th *starlark.Thread, ctx *ActionCtx) (string, bool, error) {
	var ctxVal starlark.Value = starlark.None
	if ctx != nil {
		ctxVal = ctx
	}
	ret, err := starlark.Call(th, n.impl, starlark.Tuple{ctxVal, n.args}, nil)
	if err != nil {
		return "", false, err
	}
	switch v := ret.(type) {
	case starlark.NoneType:
		return "", false, nil
	case starlark.String:
		return string(v), true, nil
	default:
		return "", false, fmt.Errorf("%s returned %s, want a node name or None", n.impl.Name(), ret.Type())
	}
}

// nextFn implements next(implementation, args). The args dict maps
// argument names to specs built with args.string and args.int; dict order
// is the declaration order.
func nextFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var implV starlark.Value
	var argsDict *starlark.Dict
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "implementation", &implV, "args?", &argsDict); err != nil {
		return nil, err
	}
	impl, ok := implV.(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("expected function type in next definition, got %s", implV.Type())
	}

	var spec []specEntry
	if argsDict != nil {
		for _, item := range argsDict.Items() {
			name, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("%s: argument names must be strings, got %s", b.Name(), item[0].Type())
			}
			switch item[1].(type) {
			case *StringArg, *IntArg:
			default:
				return nil, fmt.Errorf("%s: argument %q must be an args spec, got %s", b.Name(), name, item[1].Type())
			}
			spec = append(spec, specEntry{name: name, spec: item[1]})
		}
	}
	return &NextStub{impl: impl, spec: spec}, nil
}
