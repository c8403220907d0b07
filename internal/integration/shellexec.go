package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"
)

const waitDelay = 2 * time.Second

// ShellExecConfig holds all parameters needed to run one shell command line.
type ShellExecConfig struct {
	Shell   string // defaults to "sh"
	Command string
	Dir     string
	Env     map[string]string
	Stdout  io.Writer
	Stderr  io.Writer
}

// ShellExecResult captures the outcome of a shell invocation.
type ShellExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ShellExecutor runs command lines through a shell.
type ShellExecutor interface {
	// Exec runs the command line with "<shell> -c". A non-zero exit is
	// reported through the result; an error means the shell could not run.
	Exec(ctx context.Context, config ShellExecConfig) (*ShellExecResult, error)
	// BuildEnv appends the extra variables to base in key order.
	BuildEnv(base []string, extra map[string]string) []string
}

// shellExecutor implements ShellExecutor with os/exec.
type shellExecutor struct{}

// NewShellExecutor creates a new ShellExecutor.
func NewShellExecutor() ShellExecutor {
	return &shellExecutor{}
}

// BuildEnv returns base with KEY=value entries appended for every extra
// variable. When extra is empty, base is returned unchanged.
func (e *shellExecutor) BuildEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, len(base), len(base)+len(keys))
	copy(env, base)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// Exec runs the command line and captures its output. Output is also teed to
// the configured writers when they are set.
func (e *shellExecutor) Exec(ctx context.Context, config ShellExecConfig) (*ShellExecResult, error) {
	shell := config.Shell
	if shell == "" {
		shell = "sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", config.Command) //nolint:gosec // G204: command lines come from the user's own step script
	cmd.Dir = config.Dir
	cmd.Env = e.BuildEnv(os.Environ(), config.Env)
	// Children of the shell can keep the output pipes open after a kill.
	cmd.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	if config.Stdout != nil {
		cmd.Stdout = io.MultiWriter(&stdoutBuf, config.Stdout)
	} else {
		cmd.Stdout = &stdoutBuf
	}
	if config.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, config.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	result := &ShellExecResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("executing %s: %w", shell, err)
	}

	return result, nil
}
