package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List monitored sites",
		Example: `  ntt sites
  ntt sites --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			sites, err := c.ListSites(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(sites)
			}
			if len(sites) == 0 {
				fmt.Println("No sites configured.")
				return nil
			}
			return printSiteTable(sites)
		},
	}
}

func siteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "site <key>",
		Short: "Show site details",
		Args:  cobra.ExactArgs(1),
		Example: `  ntt site aiims
  ntt site aiims --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			st, err := c.GetSite(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(st)
			}
			return printSiteDetail(st)
		},
	}
}
