package vars

import (
	"errors"
	"testing"
)

func TestRealizePrecedence(t *testing.T) {
	t.Setenv("FLOE_TEST_A", "from-env")
	t.Setenv("FLOE_TEST_B", "from-env")

	reg := NewRegistry()
	// a: flag and env both available, flag wins.
	reg.Register("a", mustEntry(t, "a", strp("dflt"), strp("FLOE_TEST_A"), strp("--a"), GlobalScope(), GlobalScope()))
	// b: env only.
	reg.Register("b", mustEntry(t, "b", strp("dflt"), strp("FLOE_TEST_B"), strp("--b"), GlobalScope(), GlobalScope()))
	// c: nothing external, default shows through.
	reg.Register("c", mustEntry(t, "c", strp("dflt"), nil, nil, GlobalScope(), GlobalScope()))

	reg.Realize([]string{"--a", "from-flag"})

	for _, tc := range []struct {
		id     string
		want   string
		source Source
	}{
		{"a", "from-flag", SourceCLIFlag},
		{"b", "from-env", SourceEnv},
		{"c", "dflt", SourceDefault},
	} {
		v, ok := reg.Value(tc.id)
		if !ok || v != tc.want {
			t.Errorf("Value(%s) = %q, %v, want %q", tc.id, v, ok, tc.want)
		}
		if err := reg.With(tc.id, func(e *Entry) error {
			if c := e.Context(); c.By.Source != tc.source {
				t.Errorf("%s provenance = %v, want %v", tc.id, c.By, tc.source)
			}
			return nil
		}); err != nil {
			t.Fatalf("With(%s): %v", tc.id, err)
		}
	}
}

func TestRegisterLastWriteWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x", mustEntry(t, "first", strp("1"), nil, nil, GlobalScope(), GlobalScope()))
	reg.Register("x", mustEntry(t, "second", strp("2"), nil, nil, GlobalScope(), GlobalScope()))

	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
	v, _ := reg.Value("x")
	if v != "2" {
		t.Fatalf("Value(x) = %q, want 2", v)
	}
}

func TestUnknownIdentifier(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Value("missing"); ok {
		t.Fatal("Value on unknown id reported ok")
	}
	_, err := reg.ReadValue("missing", "anyone")
	var unknown *UnknownVariableError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownVariableError", err)
	}
	// Update on an unknown id is a no-op, not a panic.
	reg.Update("missing", "v", Provenance{Source: SourceAction, Detail: "t"})
}

func TestAccessorRoundTrip(t *testing.T) {
	writeScope, err := RestrictedScope([]string{"build"})
	if err != nil {
		t.Fatalf("RestrictedScope: %v", err)
	}
	reg := NewRegistry()
	reg.Register("sha", mustEntry(t, "sha", nil, nil, nil, GlobalScope(), writeScope))

	build := reg.Accessor("build")
	if err := build.Update("sha", "abc123"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	v, err := build.Resolve("sha")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v != "abc123" {
		t.Fatalf("Resolve = %q", v)
	}

	other := reg.Accessor("other")
	if err := other.Update("sha", "nope"); err == nil {
		t.Fatal("out-of-scope accessor write permitted")
	}
}

func TestFreezeOrderAndIdempotence(t *testing.T) {
	reg := NewRegistry()
	reg.Register("one", mustEntry(t, "one", strp("1"), nil, nil, GlobalScope(), GlobalScope()))
	reg.Register("two", mustEntry(t, "two", nil, nil, nil, GlobalScope(), GlobalScope()))

	first := reg.Freeze()
	second := reg.Freeze()
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Freeze lengths = %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("freeze not idempotent at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].Name != "one" || first[1].Name != "two" {
		t.Fatalf("freeze order = %q, %q", first[0].Name, first[1].Name)
	}
	if !first[0].HasVal || first[0].SetBy != "default" {
		t.Fatalf("one = %+v, want default value", first[0])
	}
	if first[1].HasVal || first[1].SetBy != "unset" {
		t.Fatalf("two = %+v, want unset", first[1])
	}
}
