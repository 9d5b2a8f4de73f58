package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
)

func poCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "po",
		Aliases: []string{"purchase-orders"},
		Short:   "Purchase order workflow",
	}
	cmd.AddCommand(poListCmd(), poTransitionCmd())
	return cmd
}

func poListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchase orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, save, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = save() }()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			pos, err := sess.ListPurchaseOrders(ctx, status)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tSTATUS\tLINES\tID")
			for _, po := range pos {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", po.Number, po.Status, len(po.Items), po.ID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only orders in this status")
	return cmd
}

func poTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transition [id] [status]",
		Short: "Move a purchase order to sent, confirmed, closed or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, save, err := openSession()
			if err != nil {
				return err
			}
			defer func() { _ = save() }()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			po, err := sess.TransitionPurchaseOrder(ctx, args[0], args[1])
			if err != nil {
				var apiErr *erpsdk.APIError
				if errors.As(err, &apiErr) && apiErr.Code == erpsdk.ErrorCodeInvalidTransition {
					return fmt.Errorf("refused: %s", apiErr.Description)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", po.Number, po.Status)
			return nil
		},
	}
}
