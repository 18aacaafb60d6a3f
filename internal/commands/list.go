package commands

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"dreamlog/internal/display"
	"dreamlog/internal/dream"
)

type listOptions struct {
	search string
	filter string
	sort   string
	limit  string
	page   int
	start  string
	end    string
}

func addList(topLevel *cobra.Command, o *rootOptions) {
	lo := &listOptions{}
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List dreams.",
		Example: `
dreamlog list --filter lucid --sort oldest
dreamlog list --search ocean --limit 20 --page 2
dreamlog list --from 2024-01-01 --to 2024-01-31 --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context(), surface{notifier: newPrinter(cmd), logTo: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			a.controls.Update(func(q *display.Query) { lo.apply(q, a.engine.Settings().DefaultPageSize) })
			v, err := a.engine.GoToPage(cmd.Context(), lo.page)
			if err != nil {
				return err
			}
			if oo.JSON {
				return writeJSON(cmd.OutOrStdout(), listJSON(v))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), formatList(v))
			return nil
		},
	}
	cmd.Flags().StringVar(&lo.search, "search", "", "Only dreams containing this text.")
	cmd.Flags().StringVar(&lo.filter, "filter", "", "all, lucid or non-lucid.")
	cmd.Flags().StringVar(&lo.sort, "sort", "", "newest, oldest, lucid-first or longest.")
	cmd.Flags().StringVar(&lo.limit, "limit", "", "Dreams per page, or all.")
	cmd.Flags().IntVar(&lo.page, "page", 1, "Page to show.")
	cmd.Flags().StringVar(&lo.start, "from", "", "Earliest date, YYYY-MM-DD.")
	cmd.Flags().StringVar(&lo.end, "to", "", "Latest date, YYYY-MM-DD.")
	addOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

// apply sets only the query fields given on the command line.
func (lo *listOptions) apply(q *display.Query, pageSize int) {
	q.Search = lo.search
	if lo.filter != "" {
		q.Filter = display.ParseFilterType(lo.filter)
	}
	if lo.sort != "" {
		q.Sort = display.ParseSortKey(lo.sort)
	}
	if lo.limit != "" {
		q.Limit = display.ParseLimit(lo.limit, pageSize)
	}
	q.Start = display.ParseDate(lo.start)
	q.End = display.ParseDate(lo.end)
}

func formatList(v display.View) string {
	if len(v.Items) == 0 {
		switch {
		case v.Degraded:
			return "Your dreams could not be loaded right now."
		case v.Total > 0:
			return "No dreams match your current filters."
		default:
			return "No dreams recorded yet. Add one with: dreamlog add <content>"
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("DATE"), bold.Sprint("TITLE"), "", bold.Sprint("TAGS"))
	for _, it := range v.Items {
		d := it.Dream
		lucid := ""
		if d.IsLucid {
			lucid = lucidFg.Sprint("lucid")
		}
		tbl.AddRow(shortID(d.ID), shortDate(d), d.Title, lucid, tagFg.Sprint(strings.Join(d.Tags, ", ")))
	}

	var b strings.Builder
	b.WriteString(tbl.String())
	b.WriteString("\n")
	w := v.Window
	switch w.Mode {
	case display.LimitFixed:
		b.WriteString(faint.Sprintf("Page %d of %d (%d dreams)", w.Page, w.TotalPages, v.Filtered))
	case display.LimitEndless:
		b.WriteString(faint.Sprintf("Showing %d of %d dreams", w.End-w.Start, v.Filtered))
	default:
		b.WriteString(faint.Sprintf("%d dreams", v.Filtered))
	}
	return b.String()
}

type listPage struct {
	Dreams   []dream.Dream `json:"dreams"`
	Page     int           `json:"page"`
	Pages    int           `json:"pages"`
	Filtered int           `json:"filtered"`
	Total    int           `json:"total"`
}

func listJSON(v display.View) listPage {
	out := listPage{
		Dreams:   make([]dream.Dream, 0, len(v.Items)),
		Page:     v.Window.Page,
		Pages:    v.Window.TotalPages,
		Filtered: v.Filtered,
		Total:    v.Total,
	}
	for _, it := range v.Items {
		out.Dreams = append(out.Dreams, it.Dream)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortDate(d dream.Dream) string {
	if t, ok := d.Time(); ok {
		return t.Local().Format("2006-01-02 15:04")
	}
	return "unknown"
}
