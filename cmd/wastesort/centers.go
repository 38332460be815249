package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pbaille/wastesort/internal/centers"
	"github.com/pbaille/wastesort/internal/domain"
	"github.com/spf13/cobra"
)

func centersCmd() *cobra.Command {
	var (
		wasteType string
		openOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "centers",
		Short: "List nearby recycling centers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := centers.Filter{Category: strings.ToUpper(wasteType), OpenOnly: openOnly}

			if f.Category != "" {
				cat, err := loadCatalog()
				if err != nil {
					return err
				}
				if _, err := cat.Lookup(f.Category); err != nil {
					return err
				}
			}

			list := centers.Default().Find(f)
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching centers found.")
				return nil
			}

			for _, c := range list {
				printCenter(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&wasteType, "type", "t", "", "only centers accepting this waste type (e.g. BATTERY)")
	cmd.Flags().BoolVar(&openOnly, "open", false, "only centers open now")
	return cmd
}

func printCenter(w io.Writer, c domain.Center) {
	status := warningStyle.Render("closed")
	if c.IsOpen {
		status = successStyle.Render("open")
	}

	fmt.Fprintf(w, "%s  %s  %s\n", headerStyle.Render(c.Name), mutedStyle.Render(fmt.Sprintf("%.1f km", c.DistanceKm)), status)
	fmt.Fprintf(w, "  %s\n", c.Address)
	fmt.Fprintf(w, "  %s  |  %s\n", c.Phone, c.Hours)
	fmt.Fprintf(w, "  Accepts: %s\n\n", strings.Join(c.AcceptedTypes, ", "))
}
