package vars

import "fmt"

// InvalidAttrError reports a declaration attribute that failed validation,
// naming the attribute and the offending value.
type InvalidAttrError struct {
	Attr   string
	Reason string
	Value  string
}

func (e *InvalidAttrError) Error() string {
	return fmt.Sprintf("invalid attribute %q, %s got %q", e.Attr, e.Reason, e.Value)
}

func newInvalidAttr(attr, reason, value string) *InvalidAttrError {
	return &InvalidAttrError{Attr: attr, Reason: reason, Value: value}
}

// UnknownVariableError reports a lookup of an identifier that was never registered.
type UnknownVariableError struct {
	ID string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable with id %q", e.ID)
}

// NoValueError reports a read of a variable that has neither a value nor a default.
type NoValueError struct {
	Name string
}

func (e *NoValueError) Error() string {
	return fmt.Sprintf("variable %q has no value set", e.Name)
}

// ScopeError reports a reader or writer that the variable's scope does not permit.
type ScopeError struct {
	Access   string // "read" or "write"
	Accessor string
	Name     string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("%q is not permitted to %s variable %q", e.Accessor, e.Access, e.Name)
}
