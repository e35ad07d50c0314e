// Package tools models the executables a workflow invokes: builtin tools
// looked up on PATH by name, and path-based tools whose (possibly
// variable-dependent) path is resolved relative to the workflow's directory.
package tools

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ormasoftchile/floe/pkg/vars"
)

// NotFoundError reports a tool whose path did not resolve to an executable.
type NotFoundError struct {
	Name string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tool %q is not executable or not found at %q", e.Name, e.Path)
	}
	return fmt.Sprintf("tool %q not found on PATH", e.Name)
}

// Tool is a resolvable reference to an executable.
type Tool struct {
	name    string
	builtin bool
	path    vars.LateBound
}

// NewBuiltin returns a tool resolved by PATH lookup of its name.
func NewBuiltin(name string) (*Tool, error) {
	if err := vars.ValidateName("name", name); err != nil {
		return nil, err
	}
	return &Tool{name: name, builtin: true}, nil
}

// NewPathBased returns a tool resolved through the given path expression.
// The name identifies the tool for scope checks and display.
func NewPathBased(name string, path vars.LateBound) (*Tool, error) {
	if err := vars.ValidateName("name", name); err != nil {
		return nil, err
	}
	return &Tool{name: name, path: path}, nil
}

// ValidateLiteralPath checks a literal path attribute from a declaration.
func ValidateLiteralPath(path string) error {
	if path == "" {
		return &vars.InvalidAttrError{Attr: "path", Reason: "cannot be empty", Value: path}
	}
	if strings.Contains(path, " ") {
		return &vars.InvalidAttrError{Attr: "path", Reason: "cannot contain spaces", Value: path}
	}
	return nil
}

// Name returns the tool's logical name.
func (t *Tool) Name() string { return t.name }

// Builtin reports whether the tool resolves by PATH lookup.
func (t *Tool) Builtin() bool { return t.builtin }

// Path returns the unresolved path expression for display. Empty for
// builtin tools.
func (t *Tool) Path() string {
	if t.builtin {
		return ""
	}
	return t.path.String()
}

// ResolvePath resolves the tool to an executable filesystem path. Builtin
// tools are looked up on PATH by name; path-based tools evaluate their path
// expression against the resolver and join relative paths onto workingDir,
// the workflow file's directory. Resolution is never cached: variable values
// the path depends on may change between calls.
func (t *Tool) ResolvePath(r vars.Resolver, workingDir string) (string, error) {
	if t.builtin {
		p, err := exec.LookPath(t.name)
		if err != nil {
			return "", &NotFoundError{Name: t.name}
		}
		return p, nil
	}

	p, err := t.path.Value(r)
	if err != nil {
		return "", fmt.Errorf("resolve path for tool %q: %w", t.name, err)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(workingDir, p)
	}
	resolved, err := exec.LookPath(p)
	if err != nil {
		return "", &NotFoundError{Name: t.name, Path: p}
	}
	return resolved, nil
}

// FrozenTool is a detached, display-ready copy of a tool, including the
// executable path it resolves to right now (empty when unresolvable).
type FrozenTool struct {
	Name    string `yaml:"name"`
	Builtin bool   `yaml:"builtin"`
	Path    string `yaml:"path,omitempty"`
	Cmd     string `yaml:"cmd,omitempty"`
}

// Freeze snapshots the tool, attempting resolution for display purposes.
func (t *Tool) Freeze(r vars.Resolver, workingDir string) FrozenTool {
	ft := FrozenTool{Name: t.name, Builtin: t.builtin, Path: t.Path()}
	if cmd, err := t.ResolvePath(r, workingDir); err == nil {
		ft.Cmd = cmd
	}
	return ft
}
