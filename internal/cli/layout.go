package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/fauna/internal/app"
	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/layout"
)

// NewLayoutCommand creates the layout command group.
func NewLayoutCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or reset saved column layouts",
	}
	cmd.AddCommand(newLayoutShowCommand(root))
	cmd.AddCommand(newLayoutResetCommand(root))
	return cmd
}

func newLayoutShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "show <resource>",
		Short:             "Print the column layout of a list",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, root, args[0], func(t *layout.Table) error {
				renderLayout(cmd, t)
				return nil
			})
		},
	}
}

func newLayoutResetCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "reset <resource>",
		Short:             "Forget the saved column layout of a list",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, root, args[0], func(t *layout.Table) error {
				t.Reset()
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Reset column layout of %s\n", t.ID())
				return err
			})
		},
	}
}

func withTable(cmd *cobra.Command, root *rootOptions, name string, fn func(*layout.Table) error) error {
	res, err := dashboard.ParseResource(name)
	if err != nil {
		return err
	}
	a, err := app.Open(cmd.Context(), root.appOptions())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(layout.Mount(string(res), res.Columns(), a.Store, a.Logger))
}

func renderLayout(cmd *cobra.Command, t *layout.Table) {
	l := t.Layout()

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Column", "Title", "Width", "Visible", "Pinned"})
	for _, p := range layout.Project(t.Columns(), l, 0) {
		tw.AppendRow(table.Row{p.ID, p.Title, strconv.Itoa(p.Width), "yes", p.Pin.String()})
	}
	for _, c := range t.Columns() {
		if !l.Visible(c.ID) {
			tw.AppendRow(table.Row{c.ID, c.Title, "", "no", l.PinnedSide(c.ID).String()})
		}
	}
	tw.Render()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "density: %s\n", l.Density)
}
