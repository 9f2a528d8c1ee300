// Package market is the typed client for the dashboard's market data endpoints.
// Every call goes through the session's refreshing transport, so an expired
// access token is renewed and the call replayed transparently.
package market

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/transport"
)

// Periods accepted by Prices.
const (
	PeriodDay   = "1d"
	PeriodWeek  = "7d"
	PeriodMonth = "30d"
	PeriodYear  = "365d"
)

var periodPattern = regexp.MustCompile(`^[0-9]+[dwmy]$`)

// ErrInvalidPeriod is returned by Prices for a period the backend would not route.
var ErrInvalidPeriod = errors.New("market: invalid period")

type Client struct {
	api *transport.Client
}

// NewClient wraps api, which should be built on a refreshing transport.
func NewClient(api *transport.Client) *Client {
	return &Client{api: api}
}

// News returns one page of the news feed. Pages hold apimodel.NewsPageSize
// items; filter.Offset selects the page.
func (c *Client) News(ctx context.Context, filter apimodel.NewsFilter) (apimodel.NewsPage, error) {
	var page apimodel.NewsPage
	if err := c.api.PostJSON(ctx, apimodel.RouteNews, filter, &page); err != nil {
		return apimodel.NewsPage{}, fmt.Errorf("fetching news: %w", err)
	}
	return page, nil
}

func (c *Client) ICOs(ctx context.Context) ([]apimodel.IcoData, error) {
	var icos []apimodel.IcoData
	if err := c.api.GetJSON(ctx, apimodel.RouteICOs, &icos); err != nil {
		return nil, fmt.Errorf("fetching ICO data: %w", err)
	}
	return icos, nil
}

func (c *Client) Tickers(ctx context.Context) ([]string, error) {
	var tickers []string
	if err := c.api.GetJSON(ctx, apimodel.RouteTickers, &tickers); err != nil {
		return nil, fmt.Errorf("fetching tickers: %w", err)
	}
	return tickers, nil
}

// Prices returns closing prices over period, e.g. "7d".
func (c *Client) Prices(ctx context.Context, period string) ([]apimodel.PricePoint, error) {
	if !periodPattern.MatchString(period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	var points []apimodel.PricePoint
	if err := c.api.GetJSON(ctx, apimodel.PricesRoute(period), &points); err != nil {
		return nil, fmt.Errorf("fetching %s prices: %w", period, err)
	}
	return points, nil
}

func (c *Client) Portfolios(ctx context.Context) ([]apimodel.Portfolio, error) {
	var portfolios []apimodel.Portfolio
	if err := c.api.GetJSON(ctx, apimodel.RoutePortfolios, &portfolios); err != nil {
		return nil, fmt.Errorf("fetching portfolios: %w", err)
	}
	return portfolios, nil
}

func (c *Client) Watchlists(ctx context.Context) ([]apimodel.Watchlist, error) {
	var lists []apimodel.Watchlist
	if err := c.api.GetJSON(ctx, apimodel.RouteWatchlists, &lists); err != nil {
		return nil, fmt.Errorf("fetching watchlists: %w", err)
	}
	return lists, nil
}

// CreateWatchlist creates a watchlist and returns it as stored by the backend.
func (c *Client) CreateWatchlist(ctx context.Context, name string, tickers []string) (apimodel.Watchlist, error) {
	var created apimodel.Watchlist
	err := c.api.PostJSON(ctx, apimodel.RouteCreateWatchlist, apimodel.WatchlistCreate{
		Name:    name,
		Tickers: nonNil(tickers),
	}, &created)
	if err != nil {
		return apimodel.Watchlist{}, fmt.Errorf("creating watchlist %q: %w", name, err)
	}
	return created, nil
}

// UpdateWatchlist replaces the tickers of watchlist id.
func (c *Client) UpdateWatchlist(ctx context.Context, id int, tickers []string) error {
	err := c.api.PostJSON(ctx, apimodel.RouteUpdateWatchlist, apimodel.WatchlistUpdate{
		ID:      id,
		Tickers: nonNil(tickers),
	}, nil)
	if err != nil {
		return fmt.Errorf("updating watchlist %d: %w", id, err)
	}
	return nil
}

// nonNil keeps an empty ticker list encoding as [] rather than null.
func nonNil(tickers []string) []string {
	if tickers == nil {
		return []string{}
	}
	return tickers
}
