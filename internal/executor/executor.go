// internal/executor/executor.go
// Package executor shells out to a local inference runtime, one process per
// prompt, and normalizes failures into coded errors.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Error codes surfaced across the runtime boundary.
const (
	CodeUnsupportedRuntime = "UNSUPPORTED_RUNTIME"
	CodeTimeout            = "RUNTIME_TIMEOUT"
	CodeExecution          = "RUNTIME_EXECUTION"
)

// Error is a coded runtime-boundary failure.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode extracts the runtime error code from err, or "" if err carries none.
func ErrorCode(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// fullModeRuntimes is the set of runtime families wired for real execution.
// Other runtimes are accepted elsewhere for static command generation but
// must be rejected here before any process is spawned.
var fullModeRuntimes = map[string]bool{
	"ollama": true,
}

// SupportsFullMode reports whether the named runtime can execute prompts.
func SupportsFullMode(runtime string) bool {
	return fullModeRuntimes[strings.ToLower(strings.TrimSpace(runtime))]
}

const (
	defaultBinary         = "ollama"
	defaultMaxOutputBytes = 1 << 20
	maxStderrBytes        = 64 << 10
)

// Result is a single prompt execution outcome.
type Result struct {
	Output    string
	LatencyMs float64
	TTFTMs    *float64
}

// Executor runs prompts against a local runtime binary.
type Executor struct {
	// Binary overrides the runtime binary path; defaults to "ollama".
	Binary string
	// MaxOutputBytes caps captured stdout; defaults to 1 MiB.
	MaxOutputBytes int64
}

func (e *Executor) binary() string {
	if strings.TrimSpace(e.Binary) != "" {
		return e.Binary
	}
	return defaultBinary
}

func (e *Executor) maxOutput() int64 {
	if e.MaxOutputBytes > 0 {
		return e.MaxOutputBytes
	}
	return defaultMaxOutputBytes
}

// Execute runs one prompt against one model with the given timeout. Non-zero
// exits, spawn failures, and timeouts all come back as *Error.
func (e *Executor) Execute(ctx context.Context, runtime, model, prompt string, timeout time.Duration) (*Result, error) {
	if !SupportsFullMode(runtime) {
		return nil, &Error{
			Code:    CodeUnsupportedRuntime,
			Message: fmt.Sprintf("runtime %q is not wired for prompt execution", runtime),
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.binary(), "run", model, prompt)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &Error{Code: CodeExecution, Message: "could not open stdout pipe", Err: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &Error{Code: CodeExecution, Message: "could not open stderr pipe", Err: err}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &Error{Code: CodeExecution, Message: fmt.Sprintf("could not spawn %s", e.binary()), Err: err}
	}

	var outBuf, errBuf bytes.Buffer
	var firstByteAt time.Time
	outDone := make(chan error, 1)
	errDone := make(chan error, 1)

	go func() {
		reader := &firstByteReader{r: io.LimitReader(stdoutPipe, e.maxOutput()), seen: &firstByteAt}
		_, copyErr := io.Copy(&outBuf, reader)
		// Drain past the cap so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stdoutPipe)
		outDone <- copyErr
	}()
	go func() {
		_, copyErr := io.Copy(&errBuf, io.LimitReader(stderrPipe, maxStderrBytes))
		_, _ = io.Copy(io.Discard, stderrPipe)
		errDone <- copyErr
	}()

	// Pipes must be fully consumed before Wait closes them.
	<-outDone
	<-errDone
	waitErr := cmd.Wait()
	latency := time.Since(start)

	if waitErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &Error{
				Code:    CodeTimeout,
				Message: fmt.Sprintf("model %s timed out after %s", model, timeout),
				Err:     waitErr,
			}
		}
		return nil, &Error{
			Code:    CodeExecution,
			Message: fmt.Sprintf("model %s exited with code %d: %s", model, exitStatus(waitErr), strings.TrimSpace(errBuf.String())),
			Err:     waitErr,
		}
	}

	res := &Result{
		Output:    strings.TrimSpace(outBuf.String()),
		LatencyMs: float64(latency) / float64(time.Millisecond),
	}
	if !firstByteAt.IsZero() {
		ttft := float64(firstByteAt.Sub(start)) / float64(time.Millisecond)
		res.TTFTMs = &ttft
	}
	return res, nil
}

// firstByteReader records the time of the first non-empty read.
type firstByteReader struct {
	r    io.Reader
	seen *time.Time
}

func (f *firstByteReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if n > 0 && f.seen.IsZero() {
		*f.seen = time.Now()
	}
	return n, err
}

func exitStatus(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}
