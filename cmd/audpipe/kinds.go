// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func kindsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the stage kinds and container formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, k := range a.env.Registry.Kinds() {
				role := "filter"
				if k.Source {
					role = "source"
				}
				fmt.Fprintf(w, "%-9s %-7s %s\n", k.Name, role, k.Description)
				if k.Help != "" {
					fmt.Fprintf(w, "%-17s %s\n", "", k.Help)
				}
			}
			fmt.Fprintf(w, "formats: %s\n", strings.Join(a.env.Registry.Formats(), ", "))
			return nil
		},
	}
}
