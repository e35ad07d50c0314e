package runner

import (
	"fmt"

	"github.com/ormasoftchile/floe/pkg/tools"
	"github.com/ormasoftchile/floe/pkg/vars"
)

// WorkflowDelegate collects declarations while a workflow module
// evaluates. It enforces name uniqueness and realizes variable values once
// the module's top level finishes.
type WorkflowDelegate struct {
	registry  *vars.Registry
	names     map[string]struct{}
	tools     map[string]*tools.Tool
	toolOrder []string
	cliArgs   []string
	path      string
}

// NewWorkflowDelegate builds a delegate. cliArgs are the trailing
// command-line arguments scanned for cli_flag matches during realization.
func NewWorkflowDelegate(cliArgs []string) *WorkflowDelegate {
	return &WorkflowDelegate{
		registry: vars.NewRegistry(),
		names:    make(map[string]struct{}),
		tools:    make(map[string]*tools.Tool),
		cliArgs:  cliArgs,
	}
}

// Registry returns the variable registry populated by the parse.
func (d *WorkflowDelegate) Registry() *vars.Registry { return d.registry }

// Tools returns the declared tools in declaration order.
func (d *WorkflowDelegate) Tools() []*tools.Tool {
	out := make([]*tools.Tool, 0, len(d.toolOrder))
	for _, name := range d.toolOrder {
		out = append(out, d.tools[name])
	}
	return out
}

// Path returns the workflow file path announced by WillParseWorkflow.
func (d *WorkflowDelegate) Path() string { return d.path }

// OnVariable registers a declared variable. Declared names must be unique
// within the workflow; anonymous variables are exempt.
func (d *WorkflowDelegate) OnVariable(identifier string, entry *vars.Entry) error {
	if name := entry.Name(); name != "" {
		if _, dup := d.names[name]; dup {
			return fmt.Errorf("variable %q already declared", name)
		}
		d.names[name] = struct{}{}
	}
	d.registry.Register(identifier, entry)
	return nil
}

// OnTool registers a declared tool, rejecting duplicate names.
func (d *WorkflowDelegate) OnTool(t *tools.Tool) error {
	if _, dup := d.tools[t.Name()]; dup {
		return fmt.Errorf("tool %q already declared", t.Name())
	}
	d.tools[t.Name()] = t
	d.toolOrder = append(d.toolOrder, t.Name())
	return nil
}

// WillParseWorkflow records the file about to be evaluated.
func (d *WorkflowDelegate) WillParseWorkflow(path string) {
	d.path = path
}

// DidParseWorkflow realizes every registered variable from its external
// sources, in registration order.
func (d *WorkflowDelegate) DidParseWorkflow() error {
	d.registry.Realize(d.cliArgs)
	return nil
}
