package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/OolalaDXB/outrenational/pkg/cryptox"
)

func keygenCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen [path]",
		Short: "Write a new Ed25519 signing key (PKCS8 PEM) for ERP_SIGNING_KEY_FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists, use --force to replace it", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			pemBytes, err := cryptox.GenerateEd25519Key()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote signing key to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key")
	return cmd
}
