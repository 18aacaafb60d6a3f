package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func addExport(topLevel *cobra.Command, o *rootOptions) {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every dream as JSON.",
		Example: `
dreamlog export > dreams.json
dreamlog export --out backup.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd.Context(), surface{logTo: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			all, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := writeJSON(w, all); err != nil {
				return err
			}
			if out != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d dreams to %s\n", len(all), out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout.")

	topLevel.AddCommand(cmd)
}
