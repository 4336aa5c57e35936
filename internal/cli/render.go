package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/order"
	"github.com/matzehuels/magnetsheet/pkg/pipeline"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// renderFlags holds flags shared by render and submit.
type renderFlags struct {
	pages   bool
	cutList bool
	workers int
	noCache bool
	refresh bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.pages, "pages", false, "one PNG per page instead of one stacked PNG")
	cmd.Flags().BoolVar(&f.cutList, "cutlist", false, "also write an .xlsx cut list")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel crop decoders (default: config, then one per CPU)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the sheet cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached sheets and uploads")
}

func (f *renderFlags) options(c *CLI, info order.Info, defaultMode string, cutList bool) pipeline.Options {
	mode := defaultMode
	if f.pages {
		mode = string(sheet.ModePages)
	}
	return pipeline.Options{
		Mode:    mode,
		CutList: f.cutList || cutList,
		Workers: f.workers,
		Refresh: f.refresh,
		Logger:  orderLogger(c.Logger, info),
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	var output string

	cmd := &cobra.Command{
		Use:   "render <order-file>",
		Short: "Render an order file into printable sheets",
		Long: `Render an order file (.toml, .yaml or .json) into A4 sheet PNGs.

The order is drawn as given. Quantities that do not add up to the declared
total are reported but still rendered, so a sheet can be previewed while
the order is being put together.`,
		Example: `  magnetsheet render order.toml
  magnetsheet render order.toml --pages -o out/
  magnetsheet render order.yaml -o sheet.png --cutlist`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeOrderFile,
		RunE:              func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Render.OutputDir
			}

			info, sources, err := order.Load(args[0])
			if err != nil {
				return err
			}
			if err := order.Validate(info, sources); err != nil {
				printWarning("%s", errors.UserMessage(err))
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			res, hit, err := runner.RenderWithCacheInfo(ctx, info, sources, flags.options(c, info, cfg.Render.Mode, cfg.Render.CutList))
			if err != nil {
				return err
			}
			if len(res.Files) == 0 {
				printWarning("Order %s has no magnets to print", info.OrderNumber)
				return nil
			}
			prog.done(fmt.Sprintf("Rendered order %s", info.OrderNumber))

			paths := outputPaths(output, res.Files)
			for i, f := range res.Files {
				if err := writeFile(paths[i], f.Data); err != nil {
					return err
				}
			}

			printSuccess("Order %s", StyleHighlight.Render(info.OrderNumber))
			printStats(res.Stats.Instances, res.Stats.Pages, len(res.Diagnostics), hit)
			for i, f := range res.Files {
				printFile(fmt.Sprintf("%s %s", paths[i], StyleDim.Render("("+humanize.Bytes(uint64(f.Size))+")")))
			}
			printDiagnostics(res)
			printNewline()
			printNextStep("Send it to the print shop", fmt.Sprintf("%s submit %s", appName, args[0]))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory, or file path for a single PNG (default: config render.output_dir)")
	return cmd
}

// outputPaths places files under out. When out names a .png file and there
// is exactly one PNG, the PNG is written there and any other file sits
// beside it.
func outputPaths(out string, files []pipeline.File) []string {
	pngs := 0
	for _, f := range files {
		if strings.HasSuffix(f.Name, ".png") {
			pngs++
		}
	}

	dir, target := out, ""
	if strings.EqualFold(filepath.Ext(out), ".png") && pngs == 1 {
		dir, target = filepath.Dir(out), out
	}

	paths := make([]string, len(files))
	for i, f := range files {
		if target != "" && strings.HasSuffix(f.Name, ".png") {
			paths[i] = target
			continue
		}
		paths[i] = filepath.Join(dir, f.Name)
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printDiagnostics lists magnets left blank.
func printDiagnostics(res *pipeline.Result) {
	for _, d := range res.Diagnostics {
		printWarning("Magnet %d (photo %s) left blank: %s", d.Index+1, d.SourceID, d.Message)
	}
}
