package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"dreamlog/internal/config"
	"dreamlog/internal/web"
)

func addServe(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inbox := &web.Inbox{}
			a, err := o.open(ctx, surface{notifier: inbox, logTo: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			srv, err := web.NewServer(web.Config{Router: a.router, Engine: a.engine, Health: a.repo, Log: a.log}, inbox)
			if err != nil {
				return err
			}
			hs := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- hs.ListenAndServe() }()
			a.log.Info(ctx, "listening", "addr", hs.Addr)

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return hs.Shutdown(shutdown)
			}
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config).")
	_ = o.v.BindPFlag(config.KeyAddr, cmd.Flags().Lookup("addr"))

	topLevel.AddCommand(cmd)
}
