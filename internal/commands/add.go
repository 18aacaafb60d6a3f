package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dreamlog/internal/dream"
)

type addOptions struct {
	title      string
	emotions   string
	tags       string
	dreamSigns string
	lucid      bool
}

func addAdd(topLevel *cobra.Command, o *rootOptions) {
	ao := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add [content...]",
		Short: "Record a dream.",
		Example: `
dreamlog add --title "Flying" --tags "flying, ocean" --lucid I flew over the sea
echo "a long dream" | dreamlog add -
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if content == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				content = string(b)
			}

			a, err := o.open(cmd.Context(), surface{notifier: newPrinter(cmd), logTo: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.svc.Save(cmd.Context(), dream.Draft{
				Title:      ao.title,
				Content:    content,
				Emotions:   ao.emotions,
				Tags:       ao.tags,
				DreamSigns: ao.dreamSigns,
				IsLucid:    ao.lucid,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), faint.Sprint(d.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&ao.title, "title", "", "Dream title.")
	cmd.Flags().StringVar(&ao.emotions, "emotions", "", "Emotions felt.")
	cmd.Flags().StringVar(&ao.tags, "tags", "", "Comma separated tags.")
	cmd.Flags().StringVar(&ao.dreamSigns, "signs", "", "Comma separated dream signs.")
	cmd.Flags().BoolVar(&ao.lucid, "lucid", false, "Mark the dream as lucid.")

	topLevel.AddCommand(cmd)
}
