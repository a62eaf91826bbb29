package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/fauna/internal/config"
	"github.com/five82/fauna/internal/logging"
	"github.com/five82/fauna/internal/logtail"
)

const defaultLogLines = 200

// NewLogsCommand creates the logs command.
func NewLogsCommand(root *rootOptions) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of fauna's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			floor, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}

			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			styler := logtail.NewStyler(out)
			for _, line := range styler.Lines(logtail.Filter(tail, floor)) {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to read from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "trace", "lowest level to print (trace|debug|info|warn|error)")
	return cmd
}
