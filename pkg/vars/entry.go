package vars

import (
	"os"
	"strings"
)

// Entry holds one variable's metadata and its current value context.
// Entries are owned by a Registry; all mutation goes through it.
type Entry struct {
	name    string
	def     *string
	env     *string
	cliFlag *string
	readers Scope
	writers Scope
	value   *ValueContext
}

// ValidateName checks a declaration name attribute: non-empty, no spaces.
func ValidateName(attr, name string) error {
	if name == "" {
		return newInvalidAttr(attr, "cannot be empty", name)
	}
	if strings.Contains(name, " ") {
		return newInvalidAttr(attr, "cannot contain spaces", name)
	}
	return nil
}

func validateEnv(env *string) error {
	if env == nil {
		return nil
	}
	return ValidateName("env", *env)
}

// ValidateCLIFlag checks the flag shape: -x for short flags, --xxx for long ones.
func ValidateCLIFlag(flag string) error {
	if flag == "" {
		return newInvalidAttr("cli_flag", "cannot be empty", flag)
	}
	if strings.Contains(flag, " ") {
		return newInvalidAttr("cli_flag", "cannot contain spaces", flag)
	}
	if len(flag) == 2 && (!strings.HasPrefix(flag, "-") || flag == "--") {
		return newInvalidAttr("cli_flag", "short flags must take the form -v", flag)
	}
	if len(flag) > 2 && !strings.HasPrefix(flag, "--") {
		return newInvalidAttr("cli_flag", "long flags must take the form --value", flag)
	}
	if len(flag) < 2 {
		return newInvalidAttr("cli_flag", "short flags must take the form -v", flag)
	}
	return nil
}

// NewEntry validates the attributes and builds an entry. Name may be empty
// for anonymous variables; optional attributes are nil when absent.
func NewEntry(name string, def, env, cliFlag *string, readers, writers Scope) (*Entry, error) {
	if name != "" {
		if err := ValidateName("name", name); err != nil {
			return nil, err
		}
	}
	if err := validateEnv(env); err != nil {
		return nil, err
	}
	if cliFlag != nil {
		if err := ValidateCLIFlag(*cliFlag); err != nil {
			return nil, err
		}
	}
	return &Entry{
		name:    name,
		def:     def,
		env:     env,
		cliFlag: cliFlag,
		readers: readers,
		writers: writers,
	}, nil
}

// Name returns the declared name, which may be empty.
func (e *Entry) Name() string { return e.name }

// Default returns the declared default value, if any.
func (e *Entry) Default() (string, bool) {
	if e.def == nil {
		return "", false
	}
	return *e.def, true
}

// EnvName returns the environment variable to realize from, if any.
func (e *Entry) EnvName() (string, bool) {
	if e.env == nil {
		return "", false
	}
	return *e.env, true
}

// CLIFlag returns the CLI flag to realize from, if any.
func (e *Entry) CLIFlag() (string, bool) {
	if e.cliFlag == nil {
		return "", false
	}
	return *e.cliFlag, true
}

// Readers returns the read scope.
func (e *Entry) Readers() Scope { return e.readers }

// Writers returns the write scope.
func (e *Entry) Writers() Scope { return e.writers }

// Context returns the current value context, or the default wrapped in a
// default-provenance context, or nil when the entry has neither.
func (e *Entry) Context() *ValueContext {
	if e.value != nil {
		c := *e.value
		return &c
	}
	if e.def != nil {
		return &ValueContext{Value: *e.def, By: Provenance{Source: SourceDefault}}
	}
	return nil
}

// Value returns the current value, falling back to the default.
func (e *Entry) Value() (string, bool) {
	c := e.Context()
	if c == nil {
		return "", false
	}
	return c.Value, true
}

// UpdateValue overwrites the value context, recording its provenance.
func (e *Entry) UpdateValue(value string, by Provenance) {
	e.value = &ValueContext{Value: value, By: by}
}

// ReadValue returns the value after checking the reader against the read scope.
// A variable with neither value nor default fails with NoValueError.
func (e *Entry) ReadValue(reader string) (string, error) {
	if !e.readers.Permits(reader) {
		return "", &ScopeError{Access: "read", Accessor: reader, Name: e.name}
	}
	v, ok := e.Value()
	if !ok {
		return "", &NoValueError{Name: e.name}
	}
	return v, nil
}

// WriteValue updates the value after checking the writer against the write
// scope, attributing the update to the writing action.
func (e *Entry) WriteValue(value, writer string) error {
	if !e.writers.Permits(writer) {
		return &ScopeError{Access: "write", Accessor: writer, Name: e.name}
	}
	e.UpdateValue(value, Provenance{Source: SourceAction, Detail: writer})
	return nil
}

// tryUpdateFromCLIFlag scans args pairwise for the entry's flag; the element
// after an exact flag match is the value. A trailing flag with no value does
// not resolve.
func (e *Entry) tryUpdateFromCLIFlag(args []string) bool {
	if e.cliFlag == nil {
		return false
	}
	for i, a := range args {
		if a != *e.cliFlag {
			continue
		}
		if i+1 >= len(args) {
			return false
		}
		e.UpdateValue(args[i+1], Provenance{Source: SourceCLIFlag, Detail: *e.cliFlag})
		return true
	}
	return false
}

// tryUpdateFromEnv reads the entry's environment variable, if declared and set.
func (e *Entry) tryUpdateFromEnv() bool {
	if e.env == nil {
		return false
	}
	v, ok := os.LookupEnv(*e.env)
	if !ok {
		return false
	}
	e.UpdateValue(v, Provenance{Source: SourceEnv, Detail: *e.env})
	return true
}
