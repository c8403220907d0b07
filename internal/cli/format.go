package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/evrec/internal/observability"
)

var formatCmd = &cobra.Command{
	Use:   "format <seconds>...",
	Short: "Format durations the way event offsets are printed",
	Long: `Print each argument as an elapsed-time string, one per line.

Arguments are seconds ("65", "5.3", "-5") or Go durations ("1m5s",
"1h1m5.5s"). Leading zero hours, minutes and seconds are dropped: 65 prints
as 1:05.00. Negative values are accepted as plain arguments.`,
	// Flag parsing would read "-5" as a shorthand flag.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var values []string
		for _, arg := range args {
			switch arg {
			case "-h", "--help":
				return cmd.Help()
			case "--":
				continue
			}
			values = append(values, arg)
		}
		if len(values) == 0 {
			return fmt.Errorf("requires at least 1 arg(s), only received 0")
		}

		for _, arg := range values {
			seconds, err := parseSeconds(arg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), observability.FormatElapsed(seconds))
		}
		return nil
	},
}

// parseSeconds accepts a plain number of seconds or a time.Duration string.
func parseSeconds(s string) (float64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use e.g. 65, 5.3 or 1m5s)", s)
	}
	return d.Seconds(), nil
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
