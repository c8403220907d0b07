package cli

import (
	"log/slog"

	"github.com/valter-silva-au/evrec/internal/integration"
	"github.com/valter-silva-au/evrec/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	Config *models.RecorderConfig
	Runner integration.StepRunner
)

// LogLevel controls the diagnostic logger shared with the services. The
// --verbose flag lowers it to debug.
var LogLevel = new(slog.LevelVar)
