package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFormat string
	version      = "dev"
	rootCmd      = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toko",
		Short: "📚 Terminal storefront for the bookstore",
		Long: `toko: browse the bookstore catalog, manage your cart and wishlist,
and check out without leaving the terminal.

Run 'toko browse' for the interactive catalog.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/toko/config.yaml)")
	cmd.PersistentFlags().String("api-url", "", "store API base URL (default: http://localhost:3000/api)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyAPIBaseURL, cmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag(config.KeyLoggingLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLoggingFormat, cmd.PersistentFlags().Lookup("log-format"))

	// Add commands
	cmd.AddCommand(loginCmd())
	cmd.AddCommand(registerCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(whoamiCmd())
	cmd.AddCommand(booksCmd())
	cmd.AddCommand(cartCmd())
	cmd.AddCommand(wishlistCmd())
	cmd.AddCommand(checkoutCmd())
	cmd.AddCommand(ordersCmd())
	cmd.AddCommand(browseCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, cli.ErrInputCancelled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	config.SetDefaults(viper.GetViper())

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: TOKO_API_BASE_URL, TOKO_CATALOG_PAGE_SIZE, ...
	viper.SetEnvPrefix("TOKO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := common.SetupLogger(viper.GetString(config.KeyLoggingLevel), viper.GetString(config.KeyLoggingFormat)); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "toko version %s\n", version)
		},
	}
}
