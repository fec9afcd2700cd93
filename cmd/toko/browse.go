package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/tui"
	"github.com/Veraticus/toko/internal/tui/themes"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func browseCmd() *cobra.Command {
	var (
		themeName string
		noStats   bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Open the full-screen catalog browser. Filter by category, search titles,
set a price range, sort and page through the books, open a book for its
reviews and add it to your cart or wishlist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			// Without a session the catalog still works; cart and wishlist
			// actions report that a login is needed.
			store := a.client
			client, _, err := a.account(ctx)
			switch {
			case err == nil:
				store = client
			case errors.Is(err, common.ErrNoSession), errors.Is(err, common.ErrSessionExpired):
				slog.Debug("Browsing without a session", "reason", err)
			default:
				return err
			}

			if !cmd.Flags().Changed("theme") {
				themeName = a.settings.Theme
			}
			if !themes.Exists(themeName) {
				slog.Warn("Unknown theme, using default", "theme", themeName, "available", themes.Names())
			}

			opts := []tui.Option{
				tui.WithStorefront(store),
				tui.WithTheme(themes.GetTheme(themeName)),
				tui.WithMoney(a.money()),
				tui.WithLocale(a.settings.Locale),
				tui.WithPageSize(a.settings.PageSize),
				tui.WithStats(!noStats),
			}
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				opts = append(opts, tui.WithSize(w, h))
			}

			return tui.Run(ctx, opts...)
		},
	}

	cmd.Flags().StringVar(&themeName, "theme", "default", "color theme (default, catppuccin-mocha, paper)")
	cmd.Flags().BoolVar(&noStats, "no-stats", false, "hide the catalog statistics panel")

	return cmd
}
