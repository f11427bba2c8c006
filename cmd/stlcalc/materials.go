package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMaterialsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "materials",
		Aliases: []string{"mat"},
		Short:   "List the known materials and their densities",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "[Materials]")
			for _, e := range c.catalog.List() {
				fmt.Fprintf(out, "%s (%.2f g/cm³)\n", e, e.Density)
			}
		},
	}
}
