package server

import "github.com/jrsteele09/go-crypto-dash/apimodel"

// Route path constants
// The client facing paths come from apimodel so both sides agree on them
const (
	// Auth Routes
	RouteToken        = apimodel.RouteToken
	RouteTokenRefresh = apimodel.RouteTokenRefresh
	RouteSignup       = apimodel.RouteSignup
	RouteLogout       = apimodel.RouteLogout

	// Market Routes
	RouteNews            = apimodel.RouteNews
	RouteICOs            = apimodel.RouteICOs
	RouteTickers         = apimodel.RouteTickers
	RoutePrices          = apimodel.RoutePricesPattern
	RoutePortfolios      = apimodel.RoutePortfolios
	RouteWatchlists      = apimodel.RouteWatchlists
	RouteCreateWatchlist = apimodel.RouteCreateWatchlist
	RouteUpdateWatchlist = apimodel.RouteUpdateWatchlist

	// Admin Routes
	RouteAdminUsers = "/api/admin/users/"

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
