package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the server's readiness (or liveness with --live)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			get := client.GetReadiness
			if live {
				get = client.GetLiveness
			}
			h, err := get(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:  %s\nversion: %s\nuptime:  %s\n", h.Status, h.Version, h.Uptime)
			if c := h.Checks; c != nil {
				fmt.Fprintf(out, "database: %s\nsigner:   %s\n", c.Database, c.Signer)
				if c.Cache != "" {
					fmt.Fprintf(out, "cache:    %s\n", c.Cache)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "only check that the process answers")
	return cmd
}
