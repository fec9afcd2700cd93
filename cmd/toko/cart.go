package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/spf13/cobra"
)

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your shopping cart",
	}

	cmd.AddCommand(listCartCmd())
	cmd.AddCommand(addCartCmd())

	return cmd
}

func listCartCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "show"},
		Short:   "Show the cart",
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

			var cart *model.Cart
			err = a.spinner().Run(ctx, "Loading cart", func(ctx context.Context) error {
				var err error
				cart, err = client.Cart(ctx)
				return err
			})
			if err != nil {
				return a.accountError(ctx, fmt.Errorf("failed to load cart: %w", err))
			}

			if format != cli.FormatTable {
				return cli.Encode(a.out, format, cli.NewCartView(*cart))
			}
			return a.renderer().Cart(*cart)
		},
	}
}

func addCartCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <book-id>",
		Short: "Add a book to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if quantity < 1 {
				return fmt.Errorf("quantity must be at least 1")
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

			book, err := client.GetBook(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load book %s: %w", args[0], err)
			}
			if !book.IsAvailable() {
				return fmt.Errorf("%q is out of stock", book.Title)
			}

			if err := client.AddToCart(ctx, book.ID, quantity); err != nil {
				return a.accountError(ctx, fmt.Errorf("failed to add to cart: %w", err))
			}

			fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Added %d × %q to your cart", quantity, book.Title)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "number of copies")

	return cmd
}
