package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func addDelete(topLevel *cobra.Command, o *rootOptions) {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a dream after confirmation.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := o.open(ctx, surface{notifier: newPrinter(cmd), logTo: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := findDream(ctx, a, args[0])
			if err != nil {
				return err
			}
			if _, err := a.engine.RequestDelete(ctx, d.ID); err != nil {
				return err
			}
			if !yes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Delete %q? [y/N]: ", d.Title)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					_, err := a.engine.CancelDelete(ctx, d.ID)
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return err
				}
			}
			return a.engine.ConfirmDelete(ctx, d.ID)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt.")

	topLevel.AddCommand(cmd)
}
