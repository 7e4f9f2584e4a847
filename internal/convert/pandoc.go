package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single external conversion, matching the original
// pipeline's per-invocation limit.
const DefaultTimeout = 60 * time.Second

// PandocRunner shells out to pandoc for format conversion. Timeouts and
// non-zero exits surface as errors; retry policy belongs to the caller.
type PandocRunner struct {
	Binary  string
	Timeout time.Duration
	Log     *slog.Logger
}

func NewPandocRunner(binary string, timeout time.Duration, log *slog.Logger) *PandocRunner {
	if binary == "" {
		binary = "pandoc"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &PandocRunner{Binary: binary, Timeout: timeout, Log: log}
}

// Available reports whether the pandoc binary can be found.
func (r *PandocRunner) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// Version returns the first line of `pandoc --version`, or "" if unavailable.
func (r *PandocRunner) Version(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, r.Binary, "--version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}

func (r *PandocRunner) Transform(ctx context.Context, input []byte, from, to Format) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Binary, "-f", string(from), "-t", string(to))
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.Log.Debug("pandoc transform",
		"from", string(from),
		"to", string(to),
		"duration_ms", time.Since(start).Milliseconds(),
		"ok", err == nil,
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("pandoc %s->%s: timed out after %s", from, to, r.Timeout)
		}
		return nil, fmt.Errorf("pandoc %s->%s: %w: %s", from, to, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// TidyRunner normalizes HTML to well-formed XHTML with the tidy tool, the
// cleanup step applied to both sides before structural comparison.
type TidyRunner struct {
	Binary  string
	Timeout time.Duration
}

func NewTidyRunner(binary string, timeout time.Duration) *TidyRunner {
	if binary == "" {
		binary = "tidy"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TidyRunner{Binary: binary, Timeout: timeout}
}

func (r *TidyRunner) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// Normalize runs `tidy -q -xml -asxhtml` over the input. Tidy exits 1 for
// warnings while still producing output, so only exit codes above 1 fail.
func (r *TidyRunner) Normalize(ctx context.Context, input []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Binary, "-q", "-xml", "-asxhtml")
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return stdout.Bytes(), nil
		}
		return nil, fmt.Errorf("tidy: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
