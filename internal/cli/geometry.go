package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// geometryCommand creates the geometry command.
func (c *CLI) geometryCommand() *cobra.Command {
	var count int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Print the page and grid measures",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := sheet.A4
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			}

			px := func(n int) string { return strconv.Itoa(n) + " px" }
			printKeyValue("DPI", strconv.Itoa(g.DPI))
			printKeyValue("Page", fmt.Sprintf("%d × %d px", g.PageWidth, g.PageHeight))
			printKeyValue("Margin", px(g.Margin))
			printKeyValue("Magnet", px(g.Magnet))
			printKeyValue("Gap", fmt.Sprintf("%.1f px", g.Gap))
			printKeyValue("Grid", fmt.Sprintf("%d × %d (%d per page)", g.Cols, g.Rows, g.PerPage()))
			printKeyValue("Grid top", px(g.GridTop))
			if cmd.Flags().Changed("count") {
				printKeyValue("Magnets", strconv.Itoa(count))
				printKeyValue("Pages", strconv.Itoa(g.Pages(count)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "also print how many pages this many magnets need")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
