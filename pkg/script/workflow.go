package script

import (
	"context"
	"fmt"

	"go.starlark.net/starlark"
)

// WorkflowValue is the executable graph: named nodes plus the entrypoint
// the walk starts from.
type WorkflowValue struct {
	entrypoint string
	order      []string
	graph      map[string]*NodeValue
}

var _ starlark.Value = (*WorkflowValue)(nil)

func (w *WorkflowValue) String() string        { return fmt.Sprintf("workflow(%d nodes)", len(w.order)) }
func (w *WorkflowValue) Type() string          { return "workflow" }
func (w *WorkflowValue) Freeze()               {}
func (w *WorkflowValue) Truth() starlark.Bool  { return starlark.True }
func (w *WorkflowValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: workflow") }

// Entrypoint returns the name of the node the walk starts from, or ""
// when the graph has a single node.
func (w *WorkflowValue) Entrypoint() string { return w.entrypoint }

// Nodes returns the node names in declaration order.
func (w *WorkflowValue) Nodes() []string { return append([]string(nil), w.order...) }

// Run walks the graph from the entrypoint, following each node's routing
// decision until a node ends the walk. A single-node graph runs that node
// regardless of entrypoint.
func (w *WorkflowValue) Run(ctx context.Context, th *starlark.Thread, env *RunEnv) error {
	if len(w.order) == 0 {
		return fmt.Errorf("workflow graph is empty")
	}
	var node *NodeValue
	if len(w.order) == 1 {
		node = w.graph[w.order[0]]
	} else {
		node = w.graph[w.entrypoint]
		if node == nil {
			return fmt.Errorf("no node with name %q", w.entrypoint)
		}
	}
	for {
		next, cont, err := node.Run(ctx, th, env)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		node = w.graph[next]
		if node == nil {
			return fmt.Errorf("no node with name %q", next)
		}
	}
}

// AsWorkflow downcasts a module global to a workflow value.
func AsWorkflow(v starlark.Value) (*WorkflowValue, bool) {
	w, ok := v.(*WorkflowValue)
	return w, ok
}

// workflowFn implements workflow(graph=, entrypoint=). The graph is a
// single node or a list of nodes; with more than one node the entrypoint
// is required and must name a node in the graph.
func workflowFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var graphV, entryV starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "graph", &graphV, "entrypoint?", &entryV); err != nil {
		return nil, err
	}
	entry, err := stringOpt(b.Name(), "entrypoint", entryV)
	if err != nil {
		return nil, err
	}

	var nodes []*NodeValue
	switch g := graphV.(type) {
	case *NodeValue:
		nodes = []*NodeValue{g}
	case *starlark.List:
		for i := 0; i < g.Len(); i++ {
			n, ok := g.Index(i).(*NodeValue)
			if !ok {
				return nil, fmt.Errorf("%s: graph entries must be node values, got %s", b.Name(), g.Index(i).Type())
			}
			nodes = append(nodes, n)
		}
	default:
		return nil, fmt.Errorf("%s: graph must be a node or a list of nodes, got %s", b.Name(), graphV.Type())
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: graph must contain at least one node", b.Name())
	}

	w := &WorkflowValue{graph: make(map[string]*NodeValue, len(nodes))}
	for _, n := range nodes {
		if _, exists := w.graph[n.name]; exists {
			return nil, fmt.Errorf("%s: duplicate node name %q in graph", b.Name(), n.name)
		}
		w.graph[n.name] = n
		w.order = append(w.order, n.name)
	}
	if len(nodes) > 1 {
		if entry == nil {
			return nil, fmt.Errorf("%s: entrypoint is required when the graph has more than one node", b.Name())
		}
		if _, ok := w.graph[*entry]; !ok {
			return nil, fmt.Errorf("%s: entrypoint %q is not a node in the graph", b.Name(), *entry)
		}
	}
	if entry != nil {
		w.entrypoint = *entry
	}
	return w, nil
}
