package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newListingsCmd() *cobra.Command {
	var area string
	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Print listings without logging in",
		Long: `Print all listings, or only those whose area contains the text given
with --area. This is the read-only equivalent of "View all listings".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			svc, stores, err := openService(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := stores.Close(); err != nil {
					log.Error("close databases", "error", err)
				}
			}()

			listings, err := svc.SearchListings(cmd.Context(), strings.TrimSpace(area))
			if err != nil {
				return err
			}
			if len(listings) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No listings found.")
				return nil
			}
			renderListings(cmd.OutOrStdout(), listings, cfg.Output.Format)
			return nil
		},
	}
	cmd.Flags().StringVarP(&area, "area", "a", "", "Only show listings whose area contains this text")
	return cmd
}
