package script

import (
	"context"
	"fmt"

	"go.starlark.net/starlark"
)

// NodeValue is a named graph step: one or more actions run in order, then
// an optional routing decision picks the next node.
type NodeValue struct {
	name    string
	actions []*ActionValue
	next    *Next
}

var _ starlark.Value = (*NodeValue)(nil)

func (n *NodeValue) String() string        { return fmt.Sprintf("node(%s)", n.name) }
func (n *NodeValue) Type() string          { return "node" }
func (n *NodeValue) Freeze()               {}
func (n *NodeValue) Truth() starlark.Bool  { return starlark.True }
func (n *NodeValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: node") }

// Name returns the node's graph name. Anonymous nodes return "".
func (n *NodeValue) Name() string { return n.name }

// Run executes the node's actions in order, failing fast on the first
// error. When all actions succeed the routing callback (if any) receives
// the last action's context and names the next node; no callback, or a
// None return, ends the walk.
func (n *NodeValue) Run(ctx context.Context, th *starlark.Thread, env *RunEnv) (string, bool, error) {
	var last *ActionCtx
	for _, a := range n.actions {
		actx, err := a.Run(ctx, th, env)
		if err != nil {
			return "", false, fmt.Errorf("node %q: %w", n.name, err)
		}
		last = actx
	}
	if n.next == nil {
		return "", false, nil
	}
	return n.next.invoke(th, last)
}

func buildNode(b *starlark.Builtin, nameV starlark.Value, actions []*ActionValue, nextV starlark.Value) (starlark.Value, error) {
	name, err := stringOpt(b.Name(), "name", nameV)
	if err != nil {
		return nil, err
	}
	node := &NodeValue{actions: actions}
	if name != nil {
		node.name = *name
	}
	if nextV != nil && nextV != starlark.None {
		nx, ok := nextV.(*Next)
		if !ok {
			return nil, fmt.Errorf("%s: next must be a call of a next stub, got %s", b.Name(), nextV.Type())
		}
		node.next = nx
	}
	return node, nil
}

// nodeFn implements node(action=, name=, next=), a single-action step.
func nodeFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var actionV, nameV, nextV starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "action", &actionV, "name?", &nameV, "next?", &nextV); err != nil {
		return nil, err
	}
	a, ok := actionV.(*ActionValue)
	if !ok {
		return nil, fmt.Errorf("%s: action must be an action value, got %s", b.Name(), actionV.Type())
	}
	return buildNode(b, nameV, []*ActionValue{a}, nextV)
}

// sequenceFn implements sequence(actions=, name=, next=), a step that runs
// several actions back to back under one name.
func sequenceFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var actionsV, nameV, nextV starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "actions", &actionsV, "name?", &nameV, "next?", &nextV); err != nil {
		return nil, err
	}
	list, ok := actionsV.(*starlark.List)
	if !ok {
		return nil, fmt.Errorf("%s: actions must be a list, got %s", b.Name(), actionsV.Type())
	}
	actions := make([]*ActionValue, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		a, ok := list.Index(i).(*ActionValue)
		if !ok {
			return nil, fmt.Errorf("%s: actions entries must be action values, got %s", b.Name(), list.Index(i).Type())
		}
		actions = append(actions, a)
	}
	return buildNode(b, nameV, actions, nextV)
}
