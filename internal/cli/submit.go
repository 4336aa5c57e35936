package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/order"
)

// submitCommand creates the submit command.
func (c *CLI) submitCommand() *cobra.Command {
	var flags renderFlags
	var attach, yes bool

	cmd := &cobra.Command{
		Use:   "submit <order-file>",
		Short: "Render an order and send it to the print shop",
		Long: `Validate and render an order file, deliver the sheets and notify the print shop.

Sheets are uploaded to the configured store and linked from the
notification, or attached to it with --attach. Before anything is sent the
order is shown for review; --yes skips the review.`,
		Example: `  magnetsheet submit order.toml
  magnetsheet submit order.toml --attach --yes`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeOrderFile,
		RunE:              func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			info, sources, err := order.Load(args[0])
			if err != nil {
				return err
			}

			if !yes {
				final, err := tea.NewProgram(NewOrderConfirmModel(info, sources)).Run()
				if err != nil {
					return fmt.Errorf("review order: %w", err)
				}
				m := final.(OrderConfirmModel)
				if !m.Confirmed {
					printInfo("Submission cancelled")
					return nil
				}
				sources = m.Sources
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(c, info, cfg.Render.Mode, cfg.Render.CutList)
			opts.Attach = attach

			spinner := newSpinner(ctx, os.Stderr, "Order "+info.OrderNumber)
			opts.Progress = spinner.OnStage
			spinner.Start()
			res, err := runner.Submit(ctx, info, sources, opts)
			if err != nil {
				spinner.StopWithError(errors.UserMessage(err))
				if res == nil {
					return err
				}
				for _, f := range res.Files {
					printFile(f.URL)
				}
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Order %s sent via %s", StyleHighlight.Render(info.OrderNumber), runner.Notifier.Transport.Name()))

			printStats(res.Stats.Instances, res.Stats.Pages, len(res.Diagnostics), res.CacheHit)
			printStages(res.Stats, opts.Attach)
			for _, f := range res.Files {
				if f.URL != "" {
					printFile(StyleLink.Render(f.URL))
				} else {
					printFile(f.Name + StyleDim.Render(" (attached)"))
				}
			}
			printDiagnostics(res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&attach, "attach", false, "mail the sheets as attachments instead of uploading them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "submit without review")
	return cmd
}
