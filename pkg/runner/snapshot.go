package runner

import (
	"github.com/ormasoftchile/floe/pkg/tools"
	"github.com/ormasoftchile/floe/pkg/vars"
)

// Snapshot is a read-only view of a parsed workflow's declarations,
// suitable for inspection output. Taking a snapshot never mutates the
// workflow; two snapshots of an idle workflow are identical.
type Snapshot struct {
	Path      string                `yaml:"path"`
	Variables []vars.FrozenVariable `yaml:"variables"`
	Tools     []tools.FrozenTool    `yaml:"tools"`
}

// Snapshot freezes the workflow's variables and tools. Tool paths resolve
// with the tool's own name as the reader, mirroring how the tool would
// resolve at run time.
func (w *Workflow) Snapshot() Snapshot {
	reg := w.Delegate.Registry()
	declared := w.Delegate.Tools()
	frozen := make([]tools.FrozenTool, 0, len(declared))
	for _, t := range declared {
		frozen = append(frozen, t.Freeze(reg.Accessor(t.Name()), w.WorkingDir))
	}
	return Snapshot{
		Path:      w.Path,
		Variables: reg.Freeze(),
		Tools:     frozen,
	}
}
