// Package vars owns workflow variable state: entries with default/env/flag
// metadata, reader and writer scopes, value provenance, and the registry
// that resolves and mutates them during a run.
package vars

import "sync"

// Registry maps generated variable identifiers to their entries. It is the
// only state shared across action boundaries in a run, so every access goes
// through its lock and the scope-check plus update pair stays atomic.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register inserts an entry under the given identifier. Identifiers are
// generated UUIDs, so collisions cannot occur naturally; if one is reused
// anyway the last write wins. Duplicate human-readable names are the
// script-binding layer's concern, not the registry's.
func (r *Registry) Register(id string, e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entries[id] = e
}

// Len returns the number of registered variables.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Value returns the current resolved value for the identifier, or false if
// the variable is unknown or has neither a value nor a default.
func (r *Registry) Value(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return "", false
	}
	return e.Value()
}

// Update unconditionally overwrites the value context for the identifier,
// recording the provenance. Unknown identifiers are a no-op.
func (r *Registry) Update(id, value string, by Provenance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.UpdateValue(value, by)
	}
}

// With runs f with the entry for the identifier while holding the registry
// lock. f must not call back into the registry.
func (r *Registry) With(id string, f func(*Entry) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return &UnknownVariableError{ID: id}
	}
	return f(e)
}

// ReadValue returns the variable's value after enforcing its read scope
// against the reader's name.
func (r *Registry) ReadValue(id, reader string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return "", &UnknownVariableError{ID: id}
	}
	return e.ReadValue(reader)
}

// WriteValue updates the variable's value after enforcing its write scope,
// attributing the update to the writing action.
func (r *Registry) WriteValue(id, value, writer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return &UnknownVariableError{ID: id}
	}
	return e.WriteValue(value, writer)
}

// Realize resolves every variable's value from the outside world, in
// registration order: a matching CLI flag wins, then the environment
// variable, then whatever default the entry already carries. It runs exactly
// once, after parsing completes and before the graph walk.
func (r *Registry) Realize(cliArgs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		e := r.entries[id]
		if e.tryUpdateFromCLIFlag(cliArgs) {
			continue
		}
		if e.tryUpdateFromEnv() {
			continue
		}
	}
}

// FrozenVariable is a detached, display-ready copy of a variable. It holds
// no reference into the live registry.
type FrozenVariable struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Default string `yaml:"default,omitempty"`
	Env     string `yaml:"env,omitempty"`
	CLIFlag string `yaml:"cli_flag,omitempty"`
	Readers string `yaml:"readers"`
	Writers string `yaml:"writers"`
	Value   string `yaml:"value,omitempty"`
	SetBy   string `yaml:"set_by"`
	HasVal  bool   `yaml:"-"`
}

// Freeze snapshots every registered variable in registration order.
func (r *Registry) Freeze() []FrozenVariable {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FrozenVariable, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		fv := FrozenVariable{
			ID:      id,
			Name:    e.Name(),
			Readers: e.Readers().String(),
			Writers: e.Writers().String(),
			SetBy:   Provenance{}.String(),
		}
		if d, ok := e.Default(); ok {
			fv.Default = d
		}
		if env, ok := e.EnvName(); ok {
			fv.Env = env
		}
		if flag, ok := e.CLIFlag(); ok {
			fv.CLIFlag = flag
		}
		if c := e.Context(); c != nil {
			fv.Value = c.Value
			fv.SetBy = c.By.String()
			fv.HasVal = true
		}
		out = append(out, fv)
	}
	return out
}
