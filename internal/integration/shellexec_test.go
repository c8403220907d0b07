package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// --- BuildEnv tests ---

func TestBuildEnv_AppendsSortedExtras(t *testing.T) {
	executor := NewShellExecutor()
	base := []string{"PATH=/usr/bin"}

	env := executor.BuildEnv(base, map[string]string{"ZED": "1", "ALPHA": "2"})

	want := []string{"PATH=/usr/bin", "ALPHA=2", "ZED=1"}
	if len(env) != len(want) {
		t.Fatalf("env = %v, want %v", env, want)
	}
	for i := range want {
		if env[i] != want[i] {
			t.Errorf("env[%d] = %q, want %q", i, env[i], want[i])
		}
	}
	if len(base) != 1 {
		t.Errorf("base was modified: %v", base)
	}
}

func TestBuildEnv_NoExtras(t *testing.T) {
	executor := NewShellExecutor()
	base := []string{"A=1"}

	env := executor.BuildEnv(base, nil)
	if len(env) != 1 || env[0] != "A=1" {
		t.Errorf("env = %v, want base unchanged", env)
	}
}

// --- Exec tests ---

func TestExec_SimpleCommand(t *testing.T) {
	skipOnWindows(t)
	executor := NewShellExecutor()

	result, err := executor.Exec(context.Background(), ShellExecConfig{Command: "echo hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
	if !strings.Contains(result.Stdout, "hello") {
		t.Errorf("stdout = %q, want to contain 'hello'", result.Stdout)
	}
}

func TestExec_FailingCommand(t *testing.T) {
	skipOnWindows(t)
	executor := NewShellExecutor()

	result, err := executor.Exec(context.Background(), ShellExecConfig{Command: "exit 3"})
	if err != nil {
		t.Fatalf("unexpected error (should return result with exit code): %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
}

func TestExec_InjectsEnvAndDir(t *testing.T) {
	skipOnWindows(t)
	executor := NewShellExecutor()
	dir := t.TempDir()

	result, err := executor.Exec(context.Background(), ShellExecConfig{
		Command: `echo "$EVREC_TEST_VALUE"; pwd`,
		Dir:     dir,
		Env:     map[string]string{"EVREC_TEST_VALUE": "injected"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Stdout, "injected") {
		t.Errorf("stdout = %q, want injected env value", result.Stdout)
	}
	if !strings.Contains(result.Stdout, filepath.Base(dir)) {
		t.Errorf("stdout = %q, want working directory %s", result.Stdout, dir)
	}
}

func TestExec_MissingShell(t *testing.T) {
	executor := NewShellExecutor()

	_, err := executor.Exec(context.Background(), ShellExecConfig{
		Shell:   "nonexistent_shell_xyz_12345",
		Command: "true",
	})
	if err == nil {
		t.Fatal("expected error for non-existent shell")
	}
}
