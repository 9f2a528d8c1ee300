package apimodel

// Backend endpoints the session layer depends on.
const (
	RouteToken        = "/api/token/"
	RouteTokenRefresh = "/api/token/refresh/"
	RouteSignup       = "/api/signup/"
	RouteLogout       = "/api/logout/"
)

// Market data endpoints used by the dashboard views.
const (
	RouteNews            = "/api/get-crypto-news/"
	RouteICOs            = "/api/crypto-ico-data/"
	RouteTickers         = "/api/ticker-list/"
	RoutePricesPattern   = "/api/crypto-prices/{period}/"
	RoutePortfolios      = "/api/list-portfolios/"
	RouteWatchlists      = "/api/get-watchlist-data/"
	RouteCreateWatchlist = "/api/create-watchlists/"
	RouteUpdateWatchlist = "/api/update-watchlist/"
)

// PricesRoute expands RoutePricesPattern for period.
func PricesRoute(period string) string {
	return "/api/crypto-prices/" + period + "/"
}
