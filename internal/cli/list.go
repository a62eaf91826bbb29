package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/fauna/internal/app"
	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/layout"
)

type listFlags struct {
	query    string
	page     int
	pageSize int
	sort     string
	order    string
	location string
}

// NewListCommand creates the list command.
func NewListCommand(root *rootOptions) *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Print one page of a list",
		Long: `Fetch one page of a list and print it as a table.

Columns follow the layout saved by the console: hidden columns are left out
and pinned columns come first or last. The footer shows the page, the total
and the location of the page.`,
		Example: `  fauna list species --q lynx --sort commonName --order desc
  fauna list --location "biomes?page=1&pageSize=10"`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.query, "q", "", "search text")
	cmd.Flags().IntVar(&flags.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "rows per page (snapped to the allowed sizes)")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "column id to sort on")
	cmd.Flags().StringVar(&flags.order, "order", "asc", "sort order (asc|desc)")
	cmd.Flags().StringVar(&flags.location, "location", "", `start from a location, e.g. "species?q=lynx"`)

	_ = cmd.RegisterFlagCompletionFunc("order", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"asc", "desc"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, flags *listFlags, args []string) error {
	var resource string
	if len(args) > 0 {
		resource = args[0]
	}
	if resource == "" && flags.location == "" {
		return errors.New("list needs a resource or --location")
	}

	a, err := app.Open(cmd.Context(), root.appOptions())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	limits := a.Config.Limits()
	res, start, err := app.Resolve(resource, flags.location, limits)
	if err != nil {
		return err
	}
	crit := limits.Default()
	if start != nil {
		crit = *start
	}
	if crit, err = flags.apply(cmd, res, crit); err != nil {
		return err
	}

	page, err := a.FetchPage(cmd.Context(), res, crit)
	if err != nil {
		return err
	}
	renderPage(cmd.OutOrStdout(), page, crit.Query)
	return nil
}

// apply overrides crit with the flags set on the command line.
func (f *listFlags) apply(cmd *cobra.Command, res dashboard.Resource, crit criteria.Criteria) (criteria.Criteria, error) {
	changed := cmd.Flags().Changed
	if changed("q") {
		crit.Query = f.query
	}
	if changed("page") {
		if f.page < 1 {
			return crit, fmt.Errorf("--page must be at least 1, got %d", f.page)
		}
		crit.Page = f.page - 1
	}
	if changed("page-size") {
		crit.PageSize = f.pageSize
	}
	if changed("sort") || changed("order") {
		field := f.sort
		if field == "" {
			field = crit.Sort.Field
		}
		if field == "" {
			return crit, errors.New("--order needs --sort")
		}
		if !sortable(res, field) {
			return crit, fmt.Errorf("cannot sort %s by %q", res, field)
		}
		dir := criteria.Direction(strings.ToLower(f.order))
		if dir != criteria.Asc && dir != criteria.Desc {
			return crit, fmt.Errorf("--order must be asc or desc, got %q", f.order)
		}
		crit.Sort = criteria.Sort{Field: field, Direction: dir}
	}
	return crit, nil
}

func sortable(res dashboard.Resource, field string) bool {
	for _, c := range res.Columns() {
		if c.ID == field {
			return c.Sortable
		}
	}
	return false
}

// renderPage prints the rows through the saved column layout followed by a
// one-line footer.
func renderPage(w io.Writer, p app.Page, query string) {
	placed := layout.Project(p.Table.Columns(), p.Table.Layout(), 0)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(placed))
	configs := make([]table.ColumnConfig, 0, len(placed))
	for i, c := range placed {
		header = append(header, c.Title)
		configs = append(configs, table.ColumnConfig{Number: i + 1, WidthMax: c.Width})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, row := range p.Rows {
		r := make(table.Row, 0, len(placed))
		for _, c := range placed {
			r = append(r, row.Cell(c.ID))
		}
		t.AppendRow(r)
	}
	t.Render()

	if len(p.Rows) == 0 {
		if query != "" {
			_, _ = fmt.Fprintf(w, "No matches for %q\n", query)
		} else {
			_, _ = fmt.Fprintln(w, "No rows")
		}
	}
	_, _ = fmt.Fprintf(w, "page %d/%d · %d total · %s\n", p.Page+1, max(p.Pages, 1), p.Total, p.Location)
}
