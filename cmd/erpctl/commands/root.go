// Package commands implements erpctl, the operator CLI for the ERP API.
package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
)

var (
	home      string
	serverURL string
	timeout   time.Duration

	// serverExplicit is set when --server or $ERP_SERVER chose the API, so
	// the server saved at login does not override it.
	serverExplicit bool

	client *erpsdk.Client
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "erpctl",
		Short:         "Command line client for the Outrenational ERP",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".erpctl")
			}
			if serverURL == "" {
				serverURL = os.Getenv("ERP_SERVER")
			}
			serverExplicit = serverURL != ""
			if serverURL == "" {
				serverURL = "http://localhost:8080"
			}
			client = erpsdk.NewClient(serverURL)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir holding the saved session (default ~/.erpctl)")
	root.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "API base URL (default $ERP_SERVER or http://localhost:8080)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		signupCmd(),
		loginCmd(),
		logoutCmd(),
		productsCmd(),
		poCmd(),
		healthCmd(),
		keygenCmd(),
	)
	return root
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
