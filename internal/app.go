// Package internal provides the App struct that wires all components of
// evrec together and initializes the CLI layer.
package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/evrec/internal/cli"
	"github.com/valter-silva-au/evrec/internal/core"
	"github.com/valter-silva-au/evrec/internal/integration"
	"github.com/valter-silva-au/evrec/pkg/models"
)

// App holds all service dependencies for evrec.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.RecorderConfig

	// Integration services
	Executor integration.ShellExecutor
	Runner   integration.StepRunner

	Logger *slog.Logger
}

// NewApp creates and wires all components of evrec. basePath is the directory
// holding .evrecconfig (typically the current directory).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Logging ---
	app.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cli.LogLevel}))

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	app.Config = cfg

	// --- Integration services ---
	app.Executor = integration.NewShellExecutor()
	app.Runner = integration.NewStepRunner(app.Executor, app.Logger)

	// --- Wire CLI ---
	cli.Config = app.Config
	cli.Runner = app.Runner

	app.Logger.Debug("app initialized", "base_path", basePath)
	return app, nil
}

// ResolveBasePath determines the evrec base directory. It checks the
// EVREC_HOME environment variable first, then walks up from the current
// directory looking for .evrecconfig.yaml, falling back to the current
// directory.
func ResolveBasePath() string {
	if home := os.Getenv("EVREC_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	cwd := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".evrecconfig.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}
