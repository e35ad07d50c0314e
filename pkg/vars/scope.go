package vars

import "strings"

// Scope restricts which named entities may read or write a variable.
// The zero value is the global scope, which permits every accessor.
type Scope struct {
	restricted bool
	names      []string
}

// GlobalScope returns a scope that permits any accessor.
func GlobalScope() Scope {
	return Scope{}
}

// RestrictedScope returns a scope that permits only the given names.
// Names must be non-empty and contain no spaces.
func RestrictedScope(names []string) (Scope, error) {
	for _, n := range names {
		if n == "" {
			return Scope{}, newInvalidAttr("scope", "scopes cannot contain empty strings", n)
		}
		if strings.Contains(n, " ") {
			return Scope{}, newInvalidAttr("scope", "scopes cannot contain spaces", n)
		}
	}
	return Scope{restricted: true, names: append([]string(nil), names...)}, nil
}

// IsGlobal reports whether the scope permits every accessor.
func (s Scope) IsGlobal() bool {
	return !s.restricted
}

// Permits reports whether the scope allows the named accessor.
func (s Scope) Permits(name string) bool {
	if !s.restricted {
		return true
	}
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns a copy of the permitted names. Nil for the global scope.
func (s Scope) Names() []string {
	if !s.restricted {
		return nil
	}
	return append([]string(nil), s.names...)
}

func (s Scope) String() string {
	if !s.restricted {
		return "*"
	}
	return strings.Join(s.names, ",")
}
