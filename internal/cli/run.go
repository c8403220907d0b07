package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/evrec/internal/core"
	"github.com/valter-silva-au/evrec/internal/integration"
	"github.com/valter-silva-au/evrec/internal/observability"
	"github.com/valter-silva-au/evrec/pkg/models"
)

var (
	runJSON    bool
	runSummary bool
	runOut     string
	runNoColor bool
	runVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Run a step script and print the recorded events",
	Long: `Run every step of a YAML step script through the configured shell and
record a notice when each step starts, passes, fails or is skipped.

The recorded events are printed as text lines ("<offset>: <message>") or,
with --json, as an indented JSON array. Failed steps are tagged [error].
The command exits with an error when a step that does not allow failure
fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Runner == nil {
			return fmt.Errorf("step runner not initialized")
		}
		cfg := Config
		if cfg == nil {
			cfg = core.DefaultConfig()
		}
		if runVerbose {
			prev := LogLevel.Level()
			LogLevel.Set(slog.LevelDebug)
			defer LogLevel.Set(prev)
		}

		script, err := Runner.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading script: %w", err)
		}
		cmd.SilenceUsage = true

		rec := observability.NewRecorder(script.Name, observability.WithTimeLayout(cfg.Output.TimeLayout))

		runCfg := integration.StepRunConfig{
			Shell:       cfg.Run.Shell,
			StopOnError: cfg.Run.StopOnError,
			BaseDir:     filepath.Dir(args[0]),
		}
		if runVerbose {
			runCfg.Stdout = cmd.ErrOrStderr()
			runCfg.Stderr = cmd.ErrOrStderr()
		}

		result, runErr := Runner.Run(cmd.Context(), script, rec, runCfg)

		asJSON := runJSON || cfg.Output.Format == models.FormatJSON
		if err := writeRender(cmd.OutOrStdout(), rec, asJSON, cfg.Output.Color && !runNoColor && runOut == ""); err != nil {
			return err
		}
		if runSummary {
			if err := writeSummary(cmd.ErrOrStderr(), observability.Summarize(rec), asJSON); err != nil {
				return err
			}
		}

		if runErr != nil {
			return fmt.Errorf("running script %q: %w", script.Name, runErr)
		}
		if result.Failed {
			return fmt.Errorf("script %q failed", script.Name)
		}
		return nil
	},
}

// writeRender writes the recorder to --out when set, otherwise to w.
func writeRender(w io.Writer, rec *observability.Recorder, asJSON, color bool) error {
	var rendered string
	switch {
	case asJSON:
		rendered = rec.RenderJSON()
	case color:
		rendered = renderStyledText(rec)
	default:
		rendered = rec.RenderText()
	}

	if runOut != "" {
		if err := os.WriteFile(runOut, []byte(rendered+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", runOut, err)
		}
		return nil
	}

	if rendered == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, rendered)
	return err
}

func writeSummary(w io.Writer, s observability.Summary, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("formatting summary as JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	_, err := fmt.Fprintf(w, "%s: %d events, %d errors", s.Name, s.EventCount, s.ErrorCount)
	if err != nil {
		return err
	}
	if s.LastOffset != "" {
		_, err = fmt.Fprintf(w, ", last at %s", s.LastOffset)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the events as JSON")
	runCmd.Flags().BoolVar(&runSummary, "summary", false, "Print event counts to stderr after the run")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Write the rendered events to a file instead of stdout")
	runCmd.Flags().BoolVar(&runNoColor, "no-color", false, "Disable colored text output")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Stream step output and debug logs to stderr")
	rootCmd.AddCommand(runCmd)
}
