package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/internal/utils"
	"github.com/jrsteele09/go-crypto-dash/market"
	"github.com/spf13/cobra"
)

// requireSession rejects data commands before they reach the backend anonymously.
func requireSession(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !a.store.Snapshot().IsAuthenticated() {
			return errNotLoggedIn
		}
		a.store.Activity()
		return nil
	}
}

func newNewsCommand(a *app) *cobra.Command {
	var (
		filter apimodel.NewsFilter
		page   int
	)

	cmd := &cobra.Command{
		Use:     "news",
		Short:   "List news items",
		PreRunE: requireSession(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("page must be at least 1, got %d", page)
			}
			filter.Offset = (page - 1) * apimodel.NewsPageSize

			result, err := a.market.News(commandContext(cmd), filter)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTICKER\tHEADING")
			for _, item := range result.News {
				fmt.Fprintf(w, "%s\t%s\t%s\n", item.Date, item.Ticker, utils.ValueOr(item.Heading, "-"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			pages := max(1, (result.TotalCount+apimodel.NewsPageSize-1)/apimodel.NewsPageSize)
			fmt.Fprintf(a.out, "page %d of %d, %d items\n", page, pages, result.TotalCount)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&filter.TickerList, "ticker", nil, "Only news for these tickers")
	cmd.Flags().IntVar(&page, "page", 1, "Page to show, 1 based")
	return cmd
}

func newICOsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "icos",
		Short:   "List ICO rounds",
		PreRunE: requireSession(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			icos, err := a.market.ICOs(commandContext(cmd))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tPROJECT\tTICKER\tROUND\tRAISED")
			for _, ico := range icos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ico.Date, ico.Project, ico.Ticker, ico.Round, ico.TotalRaised)
			}
			return w.Flush()
		},
	}
}

func newTickersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tickers",
		Short:   "List known tickers",
		PreRunE: requireSession(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			tickers, err := a.market.Tickers(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, strings.Join(tickers, "\n"))
			return nil
		},
	}
}

func newPricesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "prices [period]",
		Short:   "Show closing prices, period like 7d, 4w, 6m or 1y",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireSession(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			period := market.PeriodWeek
			if len(args) == 1 {
				period = args[0]
			}
			points, err := a.market.Prices(commandContext(cmd), period)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "DATE\tTICKER\tCLOSE\tVOLUME\t")
			for _, p := range points {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.0f\t\n", p.Date, p.Ticker, p.Close, p.Volume)
			}
			return w.Flush()
		},
	}
}

func newPortfoliosCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "portfolios",
		Short:   "List portfolios",
		PreRunE: requireSession(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolios, err := a.market.Portfolios(commandContext(cmd))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, p := range portfolios {
				fmt.Fprintf(w, "%d\t%s\n", p.ID, p.Name)
			}
			return w.Flush()
		},
	}
}

func newWatchlistsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "watchlists",
		Short:   "List watchlists",
		PreRunE: requireSession(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := a.market.Watchlists(commandContext(cmd))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTICKERS")
			for _, wl := range lists {
				fmt.Fprintf(w, "%d\t%s\t%s\n", wl.ID, wl.Name, strings.Join(wl.Tickers, ","))
			}
			return w.Flush()
		},
	}
}

// newWatchCommand creates the named watchlist, or replaces its tickers when
// one with that name already exists.
func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "watch <name> [ticker...]",
		Short:   "Create a watchlist or replace its tickers",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: requireSession(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			name, tickers := args[0], args[1:]

			lists, err := a.market.Watchlists(ctx)
			if err != nil {
				return err
			}
			for _, wl := range lists {
				if wl.Name != name {
					continue
				}
				if err := a.market.UpdateWatchlist(ctx, wl.ID, tickers); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "watchlist %s updated\n", name)
				return nil
			}

			if _, err := a.market.CreateWatchlist(ctx, name, tickers); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "watchlist %s created\n", name)
			return nil
		},
	}
}
