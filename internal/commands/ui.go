package commands

import (
	"github.com/spf13/cobra"

	"dreamlog/internal/ui"
)

func addUI(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive journal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, o)
		},
	}
	topLevel.AddCommand(cmd)
}

func runUI(cmd *cobra.Command, o *rootOptions) error {
	ctx := cmd.Context()
	bridge := ui.NewBridge()
	a, err := o.open(ctx, surface{presenter: bridge, notifier: bridge, debounce: true})
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.Run(ctx, ui.Deps{
		Router:    a.router,
		Engine:    a.engine,
		Controls:  a.controls,
		Suggester: a.learner,
		Bridge:    bridge,
		Keys:      a.cfg.Keys,
		Log:       a.log,
	})
}
