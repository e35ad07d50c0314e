// Package exec spawns workflow tools as subprocesses, mirroring their output
// to the host process live and capturing it for setter callbacks.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"sync"
	"syscall"
	"unicode/utf8"
)

// Result holds the outcome of one subprocess run. Stdout and Stderr are only
// populated when capture was requested.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner runs a resolved program with arguments. Implementations may
// be real, recording, or inert; the engine never cares which.
type CommandRunner interface {
	Run(ctx context.Context, program string, args []string, capture bool) (*Result, error)
}

// StreamRunner runs commands via os/exec, pumping stdout and stderr to its
// mirror writers as bytes arrive. The child's stdin is attached as a pipe
// that is never written to.
type StreamRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewStreamRunner returns a runner mirroring to the host's stdout and stderr.
func NewStreamRunner() *StreamRunner {
	return &StreamRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run spawns the program and blocks until it exits and both streams hit EOF.
// There is no timeout: a hung child hangs the run unless the caller's ctx
// carries a deadline.
func (s *StreamRunner) Run(ctx context.Context, program string, args []string, capture bool) (*Result, error) {
	cmd := osexec.CommandContext(ctx, program, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("attach stdin for %q: %w", program, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("attach stdout for %q: %w", program, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("attach stderr for %q: %w", program, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %q: %w", program, err)
	}
	// Nothing is ever fed to the child; close our end so it sees EOF if it reads.
	stdin.Close()

	var outBuf, errBuf bytes.Buffer
	var wg sync.WaitGroup
	pumpErrs := make([]error, 2)

	pump := func(idx int, src io.Reader, mirror io.Writer, buf *bytes.Buffer) {
		defer wg.Done()
		dst := mirror
		if capture {
			dst = io.MultiWriter(mirror, buf)
		}
		if _, err := io.Copy(dst, src); err != nil {
			pumpErrs[idx] = err
		}
	}

	wg.Add(2)
	go pump(0, stdout, s.Stdout, &outBuf)
	go pump(1, stderr, s.Stderr, &errBuf)
	wg.Wait()

	waitErr := cmd.Wait()

	for _, perr := range pumpErrs {
		if perr != nil {
			return nil, fmt.Errorf("stream output of %q: %w", program, perr)
		}
	}

	code, err := exitCode(waitErr)
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", program, err)
	}

	res := &Result{ExitCode: code}
	if capture {
		if !utf8.Valid(outBuf.Bytes()) {
			return nil, fmt.Errorf("stdout of %q is not valid UTF-8", program)
		}
		if !utf8.Valid(errBuf.Bytes()) {
			return nil, fmt.Errorf("stderr of %q is not valid UTF-8", program)
		}
		res.Stdout = outBuf.String()
		res.Stderr = errBuf.String()
	}
	return res, nil
}

// exitCode maps a Wait error to an exit status: the primary exit code when
// present, else the terminating signal number, else -1.
func exitCode(waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}
	var exitErr *osexec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return 0, waitErr
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code, nil
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return int(ws.Signal()), nil
	}
	return -1, nil
}
