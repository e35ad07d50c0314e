package exec

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func testRunner() (*StreamRunner, *bytes.Buffer, *bytes.Buffer) {
	var out, errb bytes.Buffer
	return &StreamRunner{Stdout: &out, Stderr: &errb}, &out, &errb
}

func TestRunCapturesAndMirrors(t *testing.T) {
	r, out, errb := testRunner()
	res, err := r.Run(context.Background(), "sh", []string{"-c", "echo stdout-line; echo stderr-line >&2"}, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "stdout-line\n" {
		t.Fatalf("Stdout = %q", res.Stdout)
	}
	if res.Stderr != "stderr-line\n" {
		t.Fatalf("Stderr = %q", res.Stderr)
	}
	// Mirroring happens whether or not capture is on.
	if out.String() != "stdout-line\n" || errb.String() != "stderr-line\n" {
		t.Fatalf("mirrors = %q, %q", out.String(), errb.String())
	}
}

func TestRunWithoutCapture(t *testing.T) {
	r, out, _ := testRunner()
	res, err := r.Run(context.Background(), "sh", []string{"-c", "echo hello"}, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout != "" {
		t.Fatalf("Stdout = %q, want empty without capture", res.Stdout)
	}
	if out.String() != "hello\n" {
		t.Fatalf("mirror = %q", out.String())
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r, _, _ := testRunner()
	res, err := r.Run(context.Background(), "sh", []string{"-c", "exit 3"}, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRunSignalExit(t *testing.T) {
	r, _, _ := testRunner()
	res, err := r.Run(context.Background(), "sh", []string{"-c", "kill -TERM $$"}, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// SIGTERM is 15.
	if res.ExitCode != 15 {
		t.Fatalf("ExitCode = %d, want 15", res.ExitCode)
	}
}

func TestRunMissingProgram(t *testing.T) {
	r, _, _ := testRunner()
	_, err := r.Run(context.Background(), "/nonexistent/floe-test-binary", nil, false)
	if err == nil {
		t.Fatal("Run succeeded for a missing program")
	}
	if !strings.Contains(err.Error(), "spawn") {
		t.Fatalf("error = %v, want spawn failure", err)
	}
}

func TestRunStdinSeesEOF(t *testing.T) {
	r, _, _ := testRunner()
	// cat exits immediately only when its stdin reaches EOF.
	res, err := r.Run(context.Background(), "cat", nil, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 || res.Stdout != "" {
		t.Fatalf("result = %+v", res)
	}
}
