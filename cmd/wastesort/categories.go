package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pbaille/wastesort/internal/catalog"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [id]",
		Short: "List waste categories or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				listCategories(out, cat)
				return nil
			}
			return showCategory(out, cat, strings.ToUpper(args[0]))
		},
	}
}

func listCategories(out io.Writer, cat *catalog.Catalog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("Name"),
		headerStyle.Render("Recyclable"),
		headerStyle.Render("Bin"))

	for _, c := range cat.All() {
		recyclable := "no"
		if c.IsRecyclable {
			recyclable = "yes"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", c.Icon, c.ID, c.Name, recyclable, c.DisposalBin)
	}
}

func showCategory(out io.Writer, cat *catalog.Catalog, id string) error {
	c, err := cat.Lookup(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", c.Icon, badge(cat, c.ID, c.Name))
	fmt.Fprintf(out, "  Bin:        %s\n", c.DisposalBin)
	fmt.Fprintf(out, "  Prep time:  %s\n", c.PreparationTime)
	fmt.Fprintf(out, "  Collection: %s\n", c.CollectionSchedule)
	fmt.Fprintf(out, "  Impact:     %.1f kg CO2, %.1f kWh, %.0f L water\n", c.CO2Impact, c.EnergyImpact, c.WaterImpact)

	fmt.Fprintf(out, "\n  %s\n", headerStyle.Render("How to dispose:"))
	for i, step := range c.DisposalInstructions {
		fmt.Fprintf(out, "    %d. %s\n", i+1, step)
	}
	for _, warn := range c.Warnings {
		fmt.Fprintf(out, "    %s\n", warningStyle.Render("! "+warn))
	}
	fmt.Fprintf(out, "\n  Tip: %s\n", c.EnvironmentalTip)
	return nil
}
