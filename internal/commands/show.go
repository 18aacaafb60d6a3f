package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"dreamlog/internal/dream"
)

var errAmbiguousID = errors.New("id prefix matches more than one dream")

func addShow(topLevel *cobra.Command, o *rootOptions) {
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one dream. The id may be shortened to a unique prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context(), surface{notifier: newPrinter(cmd), logTo: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := findDream(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if oo.JSON {
				return writeJSON(cmd.OutOrStdout(), d)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), formatDream(d, 80))
			return nil
		},
	}
	addOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

// findDream resolves an id or a unique id prefix.
func findDream(ctx context.Context, a *app, id string) (dream.Dream, error) {
	id = strings.TrimSpace(id)
	if d, err := a.repo.Get(ctx, id); err == nil {
		return d, nil
	}
	all, err := a.repo.Load(ctx)
	if err != nil {
		return dream.Dream{}, err
	}
	var match []dream.Dream
	for _, d := range all {
		if id != "" && strings.HasPrefix(d.ID, id) {
			match = append(match, d)
		}
	}
	switch len(match) {
	case 0:
		return dream.Dream{}, fmt.Errorf("%w: %s", dream.ErrNotFound, id)
	case 1:
		return match[0], nil
	default:
		return dream.Dream{}, fmt.Errorf("%w: %s", errAmbiguousID, id)
	}
}

func formatDream(d dream.Dream, width int) string {
	var b strings.Builder
	b.WriteString(bold.Sprint(d.Title))
	if d.IsLucid {
		b.WriteString(" " + lucidFg.Sprint("[lucid]"))
	}
	b.WriteString("\n")
	b.WriteString(faint.Sprint(d.Display()))
	b.WriteString("\n\n")
	b.WriteString(wordwrap.String(d.Content, width))
	b.WriteString("\n")
	if e := strings.TrimSpace(d.Emotions); e != "" {
		b.WriteString("\nEmotions: " + e)
	}
	if len(d.Tags) > 0 {
		b.WriteString("\nTags: " + tagFg.Sprint(strings.Join(d.Tags, ", ")))
	}
	if len(d.DreamSigns) > 0 {
		b.WriteString("\nDream Signs: " + signFg.Sprint(strings.Join(d.DreamSigns, ", ")))
	}
	b.WriteString("\n" + faint.Sprint(d.ID))
	return b.String()
}
