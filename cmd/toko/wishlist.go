package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/model"
	"github.com/spf13/cobra"
)

func wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage your wishlist",
	}

	cmd.AddCommand(listWishlistCmd())
	cmd.AddCommand(addWishlistCmd())
	cmd.AddCommand(removeWishlistCmd())

	return cmd
}

func listWishlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the wishlist",
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

			var items []model.WishlistItem
			err = a.spinner().Run(ctx, "Loading wishlist", func(ctx context.Context) error {
				var err error
				items, err = client.Wishlist(ctx)
				return err
			})
			if err != nil {
				return a.accountError(ctx, fmt.Errorf("failed to load wishlist: %w", err))
			}

			if format != cli.FormatTable {
				return cli.Encode(a.out, format, cli.NewWishlistView(items))
			}
			return a.renderer().Wishlist(items)
		},
	}
}

func addWishlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <book-id>",
		Short: "Save a book to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			client, _, err := a.account(ctx)
			if err != nil {
				return err
			}

			if err := client.AddToWishlist(ctx, args[0]); err != nil {
				return a.accountError(ctx, fmt.Errorf("failed to add to wishlist: %w", err))
			}

			fmt.Fprintln(a.out, cli.FormatSuccess("Saved to your wishlist"))
			return nil
		},
	}
}

func removeWishlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an entry from the wishlist",
		Long:    `Remove an entry from the wishlist. Use the item id shown by 'toko wishlist list'.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			client, _, err := a.account(ctx)
			if err != nil {
				return err
			}

			if err := client.RemoveFromWishlist(ctx, args[0]); err != nil {
				return a.accountError(ctx, fmt.Errorf("failed to remove from wishlist: %w", err))
			}

			fmt.Fprintln(a.out, cli.FormatSuccess("Removed from your wishlist"))
			return nil
		},
	}
}
