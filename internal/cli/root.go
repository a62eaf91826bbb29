// Package cli provides the command-line interface for fauna.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/fauna/internal/app"
	"github.com/five82/fauna/internal/dashboard"
)

// Version information (set at build time).
var Version = "0.1.0"

type rootOptions struct {
	configPath string
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{ConfigPath: o.configPath}
}

// NewRootCmd creates and returns the root command. Without a subcommand it
// opens the console, like browse.
func NewRootCmd() *cobra.Command {
	root := &rootOptions{}
	flags := &browseFlags{}

	rootCmd := &cobra.Command{
		Use:   "fauna [resource]",
		Short: "Browse biodiversity dashboard lists from the terminal",
		Long: `fauna browses the paginated lists of a biodiversity dashboard: records,
traits, biomes, species and ecosystems.

Each list remembers its search, page, page size and sort between runs, as
well as its column layout. A location such as "species?q=lynx&page=2" opens
a list at exact criteria.`,
		Version:           Version,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, root, flags, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&root.configPath, "config", "", "config file (default: ~/.config/fauna/config.toml)")
	flags.register(rootCmd.Flags())

	rootCmd.AddCommand(NewBrowseCommand(root))
	rootCmd.AddCommand(NewListCommand(root))
	rootCmd.AddCommand(NewLayoutCommand(root))
	rootCmd.AddCommand(NewLogsCommand(root))
	rootCmd.AddCommand(NewVersionCommand(Version))
	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func completeResources(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, r := range dashboard.Resources {
		if strings.HasPrefix(string(r), toComplete) {
			out = append(out, string(r))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
