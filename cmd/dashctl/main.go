package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-crypto-dash/internal/config"
	"github.com/jrsteele09/go-crypto-dash/internal/logging"
	"github.com/jrsteele09/go-crypto-dash/market"
	"github.com/jrsteele09/go-crypto-dash/session"
	"github.com/jrsteele09/go-crypto-dash/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := execute(context.Background(), os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs one command line. Storage is released here rather than in a
// post-run hook because cobra skips those when a command fails.
func execute(ctx context.Context, out io.Writer, args []string) error {
	a := &app{out: out}
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	err := cmd.ExecuteContext(ctx)
	if closeErr := a.shutdown(); err == nil {
		err = closeErr
	}
	return err
}

// app is what every subcommand works with once the root command has run.
type app struct {
	cfg    config.Config
	out    io.Writer
	logger zerolog.Logger
	close  func() error
	store  *session.Store
	market *market.Client
}

type rootFlags struct {
	apiBaseURL string
	backend    string
}

func newRootCommand(a *app) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Crypto dashboard session client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(a.out, a.cfg.GetAppName())
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.init(ctx, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.apiBaseURL, "api", "", "Backend base URL (default API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&flags.backend, "storage", "", "Session storage: memory, bolt or redis (default STORAGE_BACKEND)")

	cmd.AddCommand(newLoginCommand(a))
	cmd.AddCommand(newSignupCommand(a))
	cmd.AddCommand(newLogoutCommand(a))
	cmd.AddCommand(newWhoamiCommand(a))
	cmd.AddCommand(newNewsCommand(a))
	cmd.AddCommand(newICOsCommand(a))
	cmd.AddCommand(newTickersCommand(a))
	cmd.AddCommand(newPricesCommand(a))
	cmd.AddCommand(newPortfoliosCommand(a))
	cmd.AddCommand(newWatchlistsCommand(a))
	cmd.AddCommand(newWatchCommand(a))
	return cmd
}

func (a *app) init(ctx context.Context, flags rootFlags) error {
	a.cfg = config.New()
	a.logger = logging.New(logging.Config{
		Level:  a.cfg.GetLogLevel(),
		Format: a.cfg.GetLogFormat(),
		App:    "dashctl",
	})

	backend := a.cfg.GetStorageBackend()
	if flags.backend != "" {
		backend = config.StorageBackend(flags.backend)
	}
	repo, closeRepo, err := openRepo(ctx, backend, a.cfg)
	if err != nil {
		return err
	}
	a.close = closeRepo

	baseURL := a.cfg.GetAPIBaseURL()
	if flags.apiBaseURL != "" {
		baseURL = flags.apiBaseURL
	}

	// A one-shot command has no scrape endpoint, so it runs without collectors.
	authClient := transport.NewClient(baseURL, transport.New(nil, nil,
		transport.WithLogger(a.logger),
		transport.WithTracing(a.cfg.GetTracingEnabled()),
	), a.cfg.GetHTTPTimeout())

	a.store = session.New(repo, authClient, a.navigate,
		session.WithLogger(a.logger),
		session.WithNotifier(session.NotifierFunc(a.notify)),
		session.WithInactivityTimeout(a.cfg.GetInactivityTimeout()),
		session.WithExpiryNotice(a.cfg.GetExpiryNotice()),
	)
	if err := a.store.Hydrate(ctx); err != nil {
		return fmt.Errorf("reading stored session: %w", err)
	}

	dataClient := transport.NewClient(baseURL, transport.New(a.store, a.store,
		transport.WithLogger(a.logger),
		transport.WithTracing(a.cfg.GetTracingEnabled()),
	), a.cfg.GetHTTPTimeout())
	a.market = market.NewClient(dataClient)
	return nil
}

func (a *app) shutdown() error {
	if a.store != nil {
		a.store.Close()
	}
	if a.close == nil {
		return nil
	}
	closeRepo := a.close
	a.close = nil
	return closeRepo()
}

// navigate is the Redirector: a CLI has no views, so it only logs the move.
func (a *app) navigate(path string) {
	a.logger.Debug().Str("view", path).Msg("navigate")
}

func (a *app) notify(message string) {
	fmt.Fprintln(a.out, message)
}

// report prints the Store's pending messages and turns an error message into
// a command failure.
func (a *app) report() error {
	msgs := a.store.Messages()
	a.store.ClearMessages()
	if msgs.Error != "" {
		return fmt.Errorf("%s", msgs.Error)
	}
	if msgs.Success != "" {
		fmt.Fprintln(a.out, msgs.Success)
	}
	return nil
}

func displayAppname(out io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(out, myFigure.String())
}
