package vars

import "fmt"

// Source identifies which mechanism last set a variable's value.
type Source int

const (
	SourceUnset Source = iota
	SourceDefault
	SourceEnv
	SourceCLIFlag
	SourceAction
)

// Provenance records how a value was set. Detail carries the env var name,
// the CLI flag, or the acting tool name depending on the source.
type Provenance struct {
	Source Source
	Detail string
}

func (p Provenance) String() string {
	switch p.Source {
	case SourceDefault:
		return "default"
	case SourceEnv:
		return fmt.Sprintf("env %s", p.Detail)
	case SourceCLIFlag:
		return fmt.Sprintf("flag %s", p.Detail)
	case SourceAction:
		return fmt.Sprintf("action %s", p.Detail)
	default:
		return "unset"
	}
}

// ValueContext is a variable's current value paired with how it was set.
type ValueContext struct {
	Value string
	By    Provenance
}
