package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/fauna/internal/app"
)

// runConsole starts the interactive console. Tests swap it out.
var runConsole = app.Run

type browseFlags struct {
	location   string
	noAutoload bool
}

func (f *browseFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.location, "location", "", `open at a location, e.g. "species?q=lynx&page=2"`)
	fs.BoolVar(&f.noAutoload, "no-autoload", false, "wait for Enter before the first fetch of each list")
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(root *rootOptions) *cobra.Command {
	flags := &browseFlags{}
	cmd := &cobra.Command{
		Use:   "browse [resource]",
		Short: "Open the interactive console",
		Long: `Open the interactive console on a list (default: species).

Every list gets a tab. Type / to search, n and p to page, s to sort on the
focused column and ? for all keys.`,
		Example: `  fauna browse biomes
  fauna browse --location "species?q=lynx&pageSize=50"`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, root, flags, args)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func runBrowse(cmd *cobra.Command, root *rootOptions, flags *browseFlags, args []string) error {
	opts := root.appOptions()
	opts.Location = flags.location
	opts.NoAutoload = flags.noAutoload
	if len(args) > 0 {
		opts.Resource = args[0]
	}
	return runConsole(cmd.Context(), opts)
}
