// Package runner loads workflow files, evaluates them against the script
// stdlib, and drives execution of the resulting graph.
package runner

import (
	"context"
	"fmt"
	"path/filepath"

	floeexec "github.com/ormasoftchile/floe/pkg/exec"
	"github.com/ormasoftchile/floe/pkg/script"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Workflow is the result of a successful parse: the evaluated module
// globals plus the delegate state accumulated while evaluating.
type Workflow struct {
	Path       string
	WorkingDir string
	Globals    starlark.StringDict
	Delegate   *WorkflowDelegate
}

// fileOptions enables the dialect extensions workflow files rely on.
func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		TopLevelControl: true,
	}
}

// ParseWorkflow evaluates the workflow file at path. The path is made
// absolute and symlinks are resolved so the workflow's directory anchors
// relative tool paths. cliArgs feed variable realization.
func ParseWorkflow(path string, cliArgs []string) (*Workflow, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving workflow path %q: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving workflow path %q: %w", path, err)
	}

	delegate := NewWorkflowDelegate(cliArgs)
	th := &starlark.Thread{Name: "workflow:" + filepath.Base(resolved)}
	script.SetDelegate(th, delegate)

	delegate.WillParseWorkflow(resolved)
	globals, err := starlark.ExecFileOptions(fileOptions(), th, resolved, nil, script.Globals())
	if err != nil {
		return nil, fmt.Errorf("parsing workflow %q: %w", resolved, err)
	}
	if err := delegate.DidParseWorkflow(); err != nil {
		return nil, err
	}

	return &Workflow{
		Path:       resolved,
		WorkingDir: filepath.Dir(resolved),
		Globals:    globals,
		Delegate:   delegate,
	}, nil
}

// Main returns the workflow value bound to the module's "main" global.
func (w *Workflow) Main() (*script.WorkflowValue, error) {
	v, ok := w.Globals["main"]
	if !ok {
		return nil, fmt.Errorf("workflow %q does not define main", w.Path)
	}
	wf, ok := script.AsWorkflow(v)
	if !ok {
		return nil, fmt.Errorf("workflow %q: main is %s, want a workflow", w.Path, v.Type())
	}
	return wf, nil
}

// Run walks the main workflow graph with the given command runner.
func (w *Workflow) Run(ctx context.Context, cmdRunner floeexec.CommandRunner) error {
	wf, err := w.Main()
	if err != nil {
		return err
	}
	env := &script.RunEnv{
		Registry:   w.Delegate.Registry(),
		WorkingDir: w.WorkingDir,
		Runner:     cmdRunner,
	}
	th := &starlark.Thread{Name: "run:" + filepath.Base(w.Path)}
	script.SetDelegate(th, w.Delegate)
	return wf.Run(ctx, th, env)
}
