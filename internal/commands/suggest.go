package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dreamlog/internal/autocomplete"
)

func addSuggest(topLevel *cobra.Command, o *rootOptions) {
	var limit int

	cmd := &cobra.Command{
		Use:       "suggest <tags|signs> [prefix]",
		Short:     "List autocomplete suggestions for tags or dream signs.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"tags", "signs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := suggestCategory(args[0])
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) > 1 {
				prefix = args[1]
			}

			a, err := o.open(cmd.Context(), surface{logTo: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.learner.Suggest(cmd.Context(), category, prefix, limit)
			if err != nil {
				return err
			}
			for _, it := range items {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), it)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of suggestions, 0 for all.")

	topLevel.AddCommand(cmd)
}

func suggestCategory(arg string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "tags", "tag":
		return autocomplete.CategoryTags, nil
	case "signs", "sign", "dream-signs", "dreamsigns":
		return autocomplete.CategoryDreamSigns, nil
	}
	return "", fmt.Errorf("unknown category %q, want tags or signs", arg)
}
