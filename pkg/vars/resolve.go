package vars

// Resolver returns the current value for a variable identifier, enforcing
// whatever access policy the implementation carries.
type Resolver interface {
	Resolve(identifier string) (string, error)
}

// Updater writes a new value for a variable identifier.
type Updater interface {
	Update(identifier, value string) error
}

// Accessor is a registry view bound to a single accessor name. Reads are
// checked against each variable's read scope and writes against its write
// scope, both under that name.
type Accessor struct {
	reg  *Registry
	name string
}

// Accessor returns a scoped view of the registry for the named accessor,
// typically the tool a running action resolves through.
func (r *Registry) Accessor(name string) *Accessor {
	return &Accessor{reg: r, name: name}
}

// Resolve implements Resolver via the scope-checked read path.
func (a *Accessor) Resolve(identifier string) (string, error) {
	return a.reg.ReadValue(identifier, a.name)
}

// Update implements Updater via the scope-checked write path, attributing
// the update to the accessor's action.
func (a *Accessor) Update(identifier, value string) error {
	return a.reg.WriteValue(identifier, value, a.name)
}

// Name returns the accessor's name.
func (a *Accessor) Name() string { return a.name }

type lateBoundKind int

const (
	boundValue lateBoundKind = iota
	boundIdentifier
	boundFormatter
)

// LateBound is a string that may not be knowable until run time: a literal,
// a variable identifier resolved on demand, or a nested formatter.
type LateBound struct {
	kind      lateBoundKind
	literal   string
	id        string
	formatter *Formatter
}

// BoundValue wraps a literal string.
func BoundValue(s string) LateBound {
	return LateBound{kind: boundValue, literal: s}
}

// BoundIdentifier wraps a variable identifier resolved at evaluation time.
func BoundIdentifier(id string) LateBound {
	return LateBound{kind: boundIdentifier, id: id}
}

// BoundFormatter wraps a formatter evaluated at evaluation time.
func BoundFormatter(f *Formatter) LateBound {
	return LateBound{kind: boundFormatter, formatter: f}
}

// Value evaluates the bound string against the resolver.
func (l LateBound) Value(r Resolver) (string, error) {
	switch l.kind {
	case boundIdentifier:
		return r.Resolve(l.id)
	case boundFormatter:
		return l.formatter.Format(r)
	default:
		return l.literal, nil
	}
}

// String renders the bound string for display without resolving it.
func (l LateBound) String() string {
	switch l.kind {
	case boundIdentifier:
		return "variable(" + l.id + ")"
	case boundFormatter:
		return l.formatter.String()
	default:
		return l.literal
	}
}
