package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valter-silva-au/evrec/internal/observability"
	"gopkg.in/yaml.v3"
)

// Step is a single named command line within a Script.
type Step struct {
	Name         string            `yaml:"name"`
	Run          string            `yaml:"run"`
	Dir          string            `yaml:"dir,omitempty"`
	Env          map[string]string `yaml:"env,omitempty"`
	Timeout      time.Duration     `yaml:"timeout,omitempty"`
	AllowFailure bool              `yaml:"allow_failure,omitempty"`
}

// Script is a parsed step script.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StepPassed   StepStatus = "passed"
	StepFailed   StepStatus = "failed"
	StepTimedOut StepStatus = "timed_out"
	StepSkipped  StepStatus = "skipped"
)

// StepResult records what happened to one step.
type StepResult struct {
	Name     string
	Status   StepStatus
	ExitCode int
}

// RunResult summarises a script run.
type RunResult struct {
	Steps []StepResult
	// Failed is true when a step that does not allow failure failed or timed out.
	Failed bool
}

// StepRunConfig holds the settings for a script run.
type StepRunConfig struct {
	Shell       string
	StopOnError bool
	// BaseDir resolves relative step directories. Defaults to the working directory.
	BaseDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// StepRunner defines the interface for loading step scripts and executing
// them into a Recorder.
type StepRunner interface {
	// Load reads and parses a step script from path.
	Load(path string) (*Script, error)
	// Run executes every step in order and records its progress in rec.
	Run(ctx context.Context, script *Script, rec *observability.Recorder, config StepRunConfig) (*RunResult, error)
}

// stepRunner implements StepRunner using a ShellExecutor for command execution.
type stepRunner struct {
	executor ShellExecutor
	logger   *slog.Logger
}

// NewStepRunner creates a new StepRunner backed by the given ShellExecutor.
// A nil logger discards diagnostics.
func NewStepRunner(executor ShellExecutor, logger *slog.Logger) StepRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &stepRunner{executor: executor, logger: logger}
}

// Load reads the script file and fills in missing names. The script name
// defaults to the file name without extension and step names default to
// "step N".
func (r *stepRunner) Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading a user-specified script
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("step script %s not found", path)
		}
		return nil, fmt.Errorf("reading step script: %w", err)
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parsing step script %s: %w", path, err)
	}

	if script.Name == "" {
		base := filepath.Base(path)
		script.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for i := range script.Steps {
		if script.Steps[i].Name == "" {
			script.Steps[i].Name = fmt.Sprintf("step %d", i+1)
		}
		if strings.TrimSpace(script.Steps[i].Run) == "" {
			return nil, fmt.Errorf("step %q in %s has no run command", script.Steps[i].Name, path)
		}
	}

	return &script, nil
}

// Run executes the steps sequentially. Each step records "<name> started"
// followed by "<name> passed" or an Error event. Once a step fails without
// allow_failure and StopOnError is set, the remaining steps are recorded as
// skipped. A step that cannot be started or a cancelled context ends the run
// with an error.
func (r *stepRunner) Run(ctx context.Context, script *Script, rec *observability.Recorder, config StepRunConfig) (*RunResult, error) {
	result := &RunResult{Steps: make([]StepResult, 0, len(script.Steps))}

	for i, step := range script.Steps {
		if result.Failed && config.StopOnError {
			for _, rest := range script.Steps[i:] {
				rec.AddEvent(rest.Name + " skipped")
				result.Steps = append(result.Steps, StepResult{Name: rest.Name, Status: StepSkipped})
			}
			break
		}

		if err := ctx.Err(); err != nil {
			rec.AddError(step.Name + " cancelled")
			return result, fmt.Errorf("running step %q: %w", step.Name, err)
		}

		sr, err := r.runStep(ctx, step, rec, config)
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, sr)
		if sr.Status != StepPassed && !step.AllowFailure {
			result.Failed = true
		}
	}

	return result, nil
}

func (r *stepRunner) runStep(ctx context.Context, step Step, rec *observability.Recorder, config StepRunConfig) (StepResult, error) {
	stepCtx := ctx
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	dir := step.Dir
	if dir != "" && !filepath.IsAbs(dir) && config.BaseDir != "" {
		dir = filepath.Join(config.BaseDir, dir)
	}

	r.logger.Debug("running step", "step", step.Name, "command", step.Run, "dir", dir)
	rec.AddEvent(step.Name + " started")

	res, err := r.executor.Exec(stepCtx, ShellExecConfig{
		Shell:   config.Shell,
		Command: step.Run,
		Dir:     dir,
		Env:     step.Env,
		Stdout:  config.Stdout,
		Stderr:  config.Stderr,
	})

	switch {
	case ctx.Err() != nil:
		rec.AddError(step.Name + " cancelled")
		return StepResult{}, fmt.Errorf("running step %q: %w", step.Name, ctx.Err())
	case errors.Is(stepCtx.Err(), context.DeadlineExceeded):
		rec.AddError(fmt.Sprintf("%s timed out after %s", step.Name, step.Timeout))
		r.logger.Debug("step timed out", "step", step.Name, "timeout", step.Timeout)
		return StepResult{Name: step.Name, Status: StepTimedOut, ExitCode: -1}, nil
	case err != nil:
		rec.AddError(fmt.Sprintf("%s could not start: %v", step.Name, err))
		return StepResult{}, fmt.Errorf("running step %q: %w", step.Name, err)
	}

	if res.ExitCode != 0 {
		rec.AddError(fmt.Sprintf("%s failed (exit %d)", step.Name, res.ExitCode))
		r.logger.Debug("step failed", "step", step.Name, "exit_code", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
		return StepResult{Name: step.Name, Status: StepFailed, ExitCode: res.ExitCode}, nil
	}

	rec.AddEvent(step.Name + " passed")
	return StepResult{Name: step.Name, Status: StepPassed}, nil
}
