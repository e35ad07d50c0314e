package script

import (
	"fmt"

	"go.starlark.net/starlark"
)

// ActionCtx exposes one completed command to script callbacks: captured
// output and the exit code, read-only.
type ActionCtx struct {
	stdout   string
	stderr   string
	exitCode int
}

var (
	_ starlark.Value    = (*ActionCtx)(nil)
	_ starlark.HasAttrs = (*ActionCtx)(nil)
)

// NewActionCtx builds the callback context for a finished command.
func NewActionCtx(stdout, stderr string, exitCode int) *ActionCtx {
	return &ActionCtx{stdout: stdout, stderr: stderr, exitCode: exitCode}
}

func (c *ActionCtx) String() string        { return fmt.Sprintf("action_ctx(exit_code=%d)", c.exitCode) }
func (c *ActionCtx) Type() string          { return "action_ctx" }
func (c *ActionCtx) Freeze()               {}
func (c *ActionCtx) Truth() starlark.Bool  { return starlark.True }
func (c *ActionCtx) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: action_ctx") }

func (c *ActionCtx) Attr(name string) (starlark.Value, error) {
	switch name {
	case "stdout":
		return starlark.String(c.stdout), nil
	case "stderr":
		return starlark.String(c.stderr), nil
	case "exit_code":
		return starlark.MakeInt(c.exitCode), nil
	}
	return nil, nil
}

func (c *ActionCtx) AttrNames() []string {
	return []string{"exit_code", "stderr", "stdout"}
}
