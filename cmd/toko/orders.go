package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/spf13/cobra"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Review your orders",
	}

	cmd.AddCommand(listOrdersCmd())

	return cmd
}

func listOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your orders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			format, err := cli.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			client, _, err := a.account(ctx)
			if err != nil {
				return err
			}

			var orders []model.Order
			err = a.spinner().Run(ctx, "Loading orders", func(ctx context.Context) error {
				var err error
				orders, err = client.Orders(ctx)
				return err
			})
			if err != nil {
				return a.accountError(ctx, fmt.Errorf("failed to load orders: %w", err))
			}

			if format != cli.FormatTable {
				return cli.Encode(a.out, format, cli.NewOrderViews(orders))
			}
			return a.renderer().Orders(orders)
		},
	}
}
