package script

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ormasoftchile/floe/pkg/vars"
	"go.starlark.net/starlark"
)

// VariableRef is the script-side handle to a declared variable. It carries
// only the registry identifier; all state lives host-side.
type VariableRef struct {
	id string
}

var _ starlark.Value = (*VariableRef)(nil)

// Identifier returns the registry key this reference resolves through.
func (r *VariableRef) Identifier() string { return r.id }

func (r *VariableRef) String() string        { return fmt.Sprintf("variable_ref(%s)", r.id) }
func (r *VariableRef) Type() string          { return "variable_ref" }
func (r *VariableRef) Freeze()               {}
func (r *VariableRef) Truth() starlark.Bool  { return starlark.True }
func (r *VariableRef) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: variable_ref") }

// variableFn implements variable(name=, default=, env=, cli_flag=,
// readers=, writers=). Every argument is optional; an entry with no value
// sources stays unset until an action writes it.
func variableFn(th *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := noPositional(b, args); err != nil {
		return nil, err
	}
	var nameV, defV, envV, flagV, readersV, writersV starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name?", &nameV,
		"default?", &defV,
		"env?", &envV,
		"cli_flag?", &flagV,
		"readers?", &readersV,
		"writers?", &writersV,
	); err != nil {
		return nil, err
	}

	name, err := stringOpt(b.Name(), "name", nameV)
	if err != nil {
		return nil, err
	}
	def, err := stringOpt(b.Name(), "default", defV)
	if err != nil {
		return nil, err
	}
	env, err := stringOpt(b.Name(), "env", envV)
	if err != nil {
		return nil, err
	}
	flag, err := stringOpt(b.Name(), "cli_flag", flagV)
	if err != nil {
		return nil, err
	}
	readers, err := scopeOpt(b.Name(), "readers", readersV)
	if err != nil {
		return nil, err
	}
	writers, err := scopeOpt(b.Name(), "writers", writersV)
	if err != nil {
		return nil, err
	}

	declared := ""
	if name != nil {
		declared = *name
	}
	entry, err := vars.NewEntry(declared, def, env, flag, readers, writers)
	if err != nil {
		return nil, err
	}

	delegate, err := delegateFrom(th)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := delegate.OnVariable(id, entry); err != nil {
		return nil, err
	}
	return &VariableRef{id: id}, nil
}
