package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetsheet/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var attach bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP order intake server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, cfg, false, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Runner:        runner,
				Logger:        c.Logger,
				MaxPhotoBytes: cfg.Server.MaxPhotoBytes,
				Attach:        attach,
				CutList:       cfg.Render.CutList,
			})
			c.Logger.Info("serving",
				"store", runner.Store.Kind(),
				"mail", runner.Notifier.Transport.Name(),
				"cache", cfg.Cache.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().BoolVar(&attach, "attach", false, "mail sheets as attachments instead of uploading them")
	return cmd
}
