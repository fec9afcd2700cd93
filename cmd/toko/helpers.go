package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/toko/internal/api"
	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/common"
	"github.com/Veraticus/toko/internal/config"
	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/service"
	"github.com/Veraticus/toko/internal/session"
	"github.com/Veraticus/toko/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// app holds what a command needs to talk to the store. Storage is opened
// lazily; catalog commands never touch it.
type app struct {
	settings *config.Settings
	client   *api.Client
	store    service.Storage
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
}

// newApp resolves the configuration and builds an unauthenticated client.
func newApp(cmd *cobra.Command) (*app, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	client, err := api.New(api.Config{
		BaseURL:   settings.APIBaseURL,
		Timeout:   settings.APITimeout,
		Retries:   settings.APIRetries,
		UserAgent: "toko/" + version,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		settings: settings,
		client:   client,
		in:       cmd.InOrStdin(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}, nil
}

// Close releases the client and storage.
func (a *app) Close() {
	a.client.Close()
	if a.store != nil {
		_ = a.store.Close()
	}
}

// storage opens the local database on first use.
func (a *app) storage(ctx context.Context) (service.Storage, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := initStorage(ctx, a.settings.DatabasePath)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// sessions returns the session manager for the configured store.
func (a *app) sessions(ctx context.Context) (*session.Manager, error) {
	store, err := a.storage(ctx)
	if err != nil {
		return nil, err
	}
	return session.NewManager(store, a.client, a.client.BaseURL(),
		session.WithProfileLookup(func(ctx context.Context, token string) (*model.User, error) {
			return a.client.WithToken(token).Me(ctx)
		}),
	), nil
}

// account loads the saved session and returns a client that sends its token.
func (a *app) account(ctx context.Context) (*api.Client, *session.Session, error) {
	manager, err := a.sessions(ctx)
	if err != nil {
		return nil, nil, err
	}

	sess, err := manager.Current(ctx)
	switch {
	case errors.Is(err, common.ErrNoSession):
		return nil, nil, common.NewUserError("You are not logged in. Run 'toko login' first.", err)
	case errors.Is(err, common.ErrSessionExpired):
		return nil, nil, common.NewUserError("Your session has expired. Run 'toko login' again.", err)
	case err != nil:
		return nil, nil, err
	}

	return a.client.WithToken(sess.Token), sess, nil
}

// accountError drops the saved session when the store rejected its token.
func (a *app) accountError(ctx context.Context, err error) error {
	if !errors.Is(err, common.ErrUnauthorized) {
		return err
	}
	if manager, mErr := a.sessions(ctx); mErr == nil {
		manager.Invalidate(ctx)
	}
	return common.NewUserError("The store rejected your session. Run 'toko login' again.", err)
}

func (a *app) money() cli.Money {
	return cli.NewMoney(a.settings.Locale, a.settings.Currency)
}

// renderer writes styled tables to the command output.
func (a *app) renderer() *cli.Renderer {
	return cli.NewRenderer(a.out, a.money())
}

// spinner animates on stderr when it is a terminal.
func (a *app) spinner() *cli.Spinner {
	return cli.NewSpinner(a.errOut, isTerminal(a.errOut))
}

func (a *app) prompter() *cli.Prompter {
	return cli.NewPrompter(a.in, a.out)
}

// initStorage opens the database at dbPath and runs migrations.
func initStorage(ctx context.Context, dbPath string) (service.Storage, error) {
	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
