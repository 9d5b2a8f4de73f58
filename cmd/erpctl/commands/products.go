package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Catalog import and export",
	}
	cmd.AddCommand(productsImportCmd(), productsExportCmd())
	return cmd
}

func productsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Upsert products by SKU from a CSV file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			sess, save, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = save() }()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			report, err := sess.ImportProducts(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d, updated %d, rejected %d\n", report.Created, report.Updated, len(report.Errors))
			for _, e := range report.Errors {
				fmt.Fprintf(out, "  line %d: %s\n", e.Line, e.Message)
			}
			if len(report.Errors) > 0 {
				return fmt.Errorf("%d rows rejected", len(report.Errors))
			}
			return nil
		},
	}
}

func productsExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, save, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = save() }()

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			return sess.ExportProducts(ctx, w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}
