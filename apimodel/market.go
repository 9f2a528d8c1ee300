package apimodel

// NewsItem is one entry of the crypto news feed.
type NewsItem struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"`
	Ticker      string  `json:"ticker"`
	Heading     *string `json:"heading"`
	Description *string `json:"description"`
}

// NewsPageSize is how many items one news page carries.
const NewsPageSize = 10

// NewsFilter is the body of POST /api/get-crypto-news/. Offset is always sent;
// an empty TickerList means every ticker.
type NewsFilter struct {
	TickerList []string `json:"ticker_list,omitempty"`
	Offset     int      `json:"offset"`
}

// NewsPage is one page of the news feed. TotalCount counts every matching
// item, not just those in News.
type NewsPage struct {
	News       []NewsItem `json:"news"`
	TotalCount int        `json:"total_count"`
}

// SocialLinks of an ICO project; any of them may be null.
type SocialLinks struct {
	LinkedIn     *string `json:"linkedin,omitempty"`
	Twitter      *string `json:"twitter,omitempty"`
	TelegramChat *string `json:"telegram_chat,omitempty"`
	Github       *string `json:"github,omitempty"`
	Discord      *string `json:"discord,omitempty"`
	Reddit       *string `json:"reddit,omitempty"`
	Youtube      *string `json:"youtube,omitempty"`
	Other        *string `json:"other,omitempty"`
}

// IcoData describes one ICO drop.
type IcoData struct {
	ID             string      `json:"id"`
	Date           string      `json:"date"`
	Project        string      `json:"project"`
	Ticker         string      `json:"ticker"`
	Overview       string      `json:"overview"`
	Round          string      `json:"round"`
	TotalRaised    string      `json:"total_raised"`
	PreValuation   string      `json:"pre_valuation"`
	TotalRounds    int         `json:"total_rounds"`
	Investors      string      `json:"investors"`
	Ecosystem      string      `json:"ecosystem"`
	TokenType      string      `json:"token_type"`
	Categories     string      `json:"categories"`
	ListingDate    string      `json:"listing_date"`
	ProjectWebsite string      `json:"project_website"`
	Whitepaper     string      `json:"whitepaper"`
	Source         string      `json:"source"`
	SocialLinks    SocialLinks `json:"social_links"`
}

// PricePoint is one row of GET /api/crypto-prices/{period}/.
type PricePoint struct {
	Ticker string  `json:"ticker"`
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Portfolio as listed by GET /api/list-portfolios/.
type Portfolio struct {
	ID   int    `json:"id"`
	Name string `json:"portfolio_name"`
}

// Watchlist as returned by GET /api/get-watchlist-data/.
type Watchlist struct {
	ID      int      `json:"id"`
	Name    string   `json:"watchlist_name"`
	Tickers []string `json:"ticker_list"`
}

// WatchlistCreate is the body of POST /api/create-watchlists/.
type WatchlistCreate struct {
	Name    string   `json:"watchlist_name"`
	Tickers []string `json:"ticker_list"`
}

// WatchlistUpdate is the body of POST /api/update-watchlist/. The watchlist is
// addressed by id and its ticker list replaced.
type WatchlistUpdate struct {
	ID      int      `json:"id"`
	Tickers []string `json:"ticker_list"`
}
