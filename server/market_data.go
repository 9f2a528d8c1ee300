package server

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/internal/errors"
	"github.com/jrsteele09/go-crypto-dash/internal/utils"
)

// MarketData is the in-memory dataset the market routes serve.
type MarketData struct {
	mu         sync.RWMutex
	news       []apimodel.NewsItem
	icos       []apimodel.IcoData
	basePrices map[string]float64
	portfolios map[string][]apimodel.Portfolio // by username
	watchlists map[string][]apimodel.Watchlist // by username
	nextID     int
}

var periodPattern = regexp.MustCompile(`^([0-9]+)([dwmy])$`)

const maxPeriodDays = 5 * 365

// NewMarketData returns a small fixed dataset.
func NewMarketData() *MarketData {
	return &MarketData{
		news: []apimodel.NewsItem{
			{ID: 1, Date: "2024-03-01", Ticker: "BTC", Heading: utils.Ptr("Bitcoin ETF inflows hit a weekly record"), Description: utils.Ptr("Spot products took in more than in any week since launch.")},
			{ID: 2, Date: "2024-03-04", Ticker: "ETH", Heading: utils.Ptr("Ethereum developers set upgrade date"), Description: nil},
			{ID: 3, Date: "2024-03-08", Ticker: "SOL", Heading: utils.Ptr("Solana network fees climb"), Description: utils.Ptr("Memecoin activity pushed priority fees higher.")},
			{ID: 4, Date: "2024-03-12", Ticker: "BTC", Heading: nil, Description: utils.Ptr("Miners move coins to exchanges ahead of the halving.")},
		},
		icos: []apimodel.IcoData{
			{
				ID: "ico-1", Date: "2024-02-20", Project: "Nimbus", Ticker: "NMB",
				Overview: "Modular data availability layer", Round: "Seed", TotalRaised: "$4.5M",
				PreValuation: "$40M", TotalRounds: 2, Investors: "Alpha Ventures", Ecosystem: "Ethereum",
				TokenType: "Utility", Categories: "Infrastructure", ListingDate: "2024-06-01",
				ProjectWebsite: "https://nimbus.example", Source: "press release",
				SocialLinks: apimodel.SocialLinks{Twitter: utils.Ptr("https://x.com/nimbus"), Github: utils.Ptr("https://github.com/nimbus")},
			},
			{
				ID: "ico-2", Date: "2024-03-02", Project: "Harbor", Ticker: "HBR",
				Overview: "Cross chain lending", Round: "Series A", TotalRaised: "$12M",
				TotalRounds: 3, Ecosystem: "Solana", TokenType: "Governance", Categories: "DeFi",
			},
		},
		basePrices: map[string]float64{
			"BTC": 62000,
			"ETH": 3400,
			"SOL": 140,
			"ADA": 0.62,
		},
		portfolios: make(map[string][]apimodel.Portfolio),
		watchlists: make(map[string][]apimodel.Watchlist),
		nextID:     1,
	}
}

// News returns the page of items starting at filter.Offset, keeping only the
// tickers in filter.TickerList when it is non-empty.
func (m *MarketData) News(filter apimodel.NewsFilter) apimodel.NewsPage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]apimodel.NewsItem, 0, len(m.news))
	for _, item := range m.news {
		if len(filter.TickerList) > 0 && !slices.Contains(filter.TickerList, item.Ticker) {
			continue
		}
		matched = append(matched, item)
	}

	start := min(max(filter.Offset, 0), len(matched))
	end := min(start+apimodel.NewsPageSize, len(matched))
	return apimodel.NewsPage{
		News:       append([]apimodel.NewsItem{}, matched[start:end]...),
		TotalCount: len(matched),
	}
}

func (m *MarketData) ICOs() []apimodel.IcoData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]apimodel.IcoData(nil), m.icos...)
}

func (m *MarketData) Tickers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tickers := make([]string, 0, len(m.basePrices))
	for t := range m.basePrices {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// PeriodDays converts "7d", "2w", "3m" or "1y" to a number of days.
func PeriodDays(period string) (int, error) {
	match := periodPattern.FindStringSubmatch(period)
	if match == nil {
		return 0, fmt.Errorf("invalid period %q", period)
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid period %q", period)
	}
	days := n
	switch match[2] {
	case "w":
		days = n * 7
	case "m":
		days = n * 30
	case "y":
		days = n * 365
	}
	if days > maxPeriodDays {
		return 0, fmt.Errorf("period %q exceeds %d days", period, maxPeriodDays)
	}
	return days, nil
}

// Prices returns one synthetic daily close per ticker for the days ending at until.
func (m *MarketData) Prices(days int, until time.Time) []apimodel.PricePoint {
	tickers := m.Tickers()

	m.mu.RLock()
	defer m.mu.RUnlock()

	points := make([]apimodel.PricePoint, 0, days*len(tickers))
	for _, ticker := range tickers {
		base := m.basePrices[ticker]
		for i := days - 1; i >= 0; i-- {
			day := until.AddDate(0, 0, -i)
			wave := math.Sin(float64(day.YearDay()) / 9)
			points = append(points, apimodel.PricePoint{
				Ticker: ticker,
				Date:   day.Format(time.DateOnly),
				Close:  math.Round(base*(1+0.05*wave)*100) / 100,
				Volume: math.Round(base * 1000 * (1.5 + wave)),
			})
		}
	}
	return points
}

func (m *MarketData) Portfolios(username string) []apimodel.Portfolio {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]apimodel.Portfolio{}, m.portfolios[username]...)
}

func (m *MarketData) Watchlists(username string) []apimodel.Watchlist {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]apimodel.Watchlist, 0, len(m.watchlists[username]))
	for _, wl := range m.watchlists[username] {
		wl.Tickers = append([]string{}, wl.Tickers...)
		out = append(out, wl)
	}
	return out
}

// CreateWatchlist adds a watchlist for username and returns it with its id.
func (m *MarketData) CreateWatchlist(username string, create apimodel.WatchlistCreate) (apimodel.Watchlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTickersLocked(create.Tickers); err != nil {
		return apimodel.Watchlist{}, err
	}
	for _, wl := range m.watchlists[username] {
		if wl.Name == create.Name {
			return apimodel.Watchlist{}, fmt.Errorf("watchlist %q already exists", create.Name)
		}
	}
	wl := apimodel.Watchlist{ID: m.nextID, Name: create.Name, Tickers: append([]string{}, create.Tickers...)}
	m.nextID++
	m.watchlists[username] = append(m.watchlists[username], wl)

	wl.Tickers = append([]string{}, wl.Tickers...)
	return wl, nil
}

// UpdateWatchlist replaces the tickers of the watchlist with update.ID. Only
// the owner's watchlists are visible; any other id is not found.
func (m *MarketData) UpdateWatchlist(username string, update apimodel.WatchlistUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTickersLocked(update.Tickers); err != nil {
		return err
	}
	lists := m.watchlists[username]
	for i := range lists {
		if lists[i].ID == update.ID {
			lists[i].Tickers = append([]string{}, update.Tickers...)
			return nil
		}
	}
	return errors.Wrapf(errors.ErrWatchlistNotFound, "id %d", update.ID)
}

func (m *MarketData) checkTickersLocked(tickers []string) error {
	for _, t := range tickers {
		if _, ok := m.basePrices[t]; !ok {
			return fmt.Errorf("unknown ticker %q", t)
		}
	}
	return nil
}
