package vars

import (
	"errors"
	"testing"
)

func TestFormatFillsPlaceholdersInOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register("v1", mustEntry(t, "v1", strp("alpha"), nil, nil, GlobalScope(), GlobalScope()))

	f := NewFormatter("{}-{}", []LateBound{BoundIdentifier("v1"), BoundValue("beta")})
	out, err := f.Format(reg.Accessor("test"))
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if out != "alpha-beta" {
		t.Fatalf("Format = %q, want alpha-beta", out)
	}
}

func TestFormatTooManyArgs(t *testing.T) {
	f := NewFormatter("{}", []LateBound{BoundValue("a"), BoundValue("b")})
	_, err := f.Format(nil)
	if !errors.Is(err, ErrTooManyFormatArgs) {
		t.Fatalf("error = %v, want ErrTooManyFormatArgs", err)
	}
}

func TestFormatFewerArgsLeavesPlaceholders(t *testing.T) {
	f := NewFormatter("{}-{}", []LateBound{BoundValue("a")})
	out, err := f.Format(nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if out != "a-{}" {
		t.Fatalf("Format = %q, want a-{}", out)
	}
}

func TestFormatNested(t *testing.T) {
	inner := NewFormatter("{}.txt", []LateBound{BoundValue("report")})
	f := NewFormatter("out/{}", []LateBound{BoundFormatter(inner)})
	out, err := f.Format(nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if out != "out/report.txt" {
		t.Fatalf("Format = %q, want out/report.txt", out)
	}
}

func TestFormatPropagatesResolverError(t *testing.T) {
	reg := NewRegistry()
	readScope, err := RestrictedScope([]string{"deploy"})
	if err != nil {
		t.Fatalf("RestrictedScope: %v", err)
	}
	reg.Register("secret", mustEntry(t, "secret", strp("x"), nil, nil, readScope, GlobalScope()))

	f := NewFormatter("{}", []LateBound{BoundIdentifier("secret")})
	_, err = f.Format(reg.Accessor("other"))
	var scopeErr *ScopeError
	if !errors.As(err, &scopeErr) {
		t.Fatalf("error = %v, want *ScopeError", err)
	}
}
