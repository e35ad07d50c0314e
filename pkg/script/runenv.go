package script

import (
	floeexec "github.com/ormasoftchile/floe/pkg/exec"
	"github.com/ormasoftchile/floe/pkg/vars"
)

// RunEnv carries the host state a workflow run threads through every
// action: the variable registry, the directory tool paths resolve
// against, and the command runner.
type RunEnv struct {
	Registry   *vars.Registry
	WorkingDir string
	Runner     floeexec.CommandRunner
}
