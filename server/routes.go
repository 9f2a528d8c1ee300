package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("POST "+RouteToken, ChainMiddleware(s.TokenHandler(), s.APIMiddleware("token")...))
	s.RegisterRouteHandler("POST "+RouteTokenRefresh, ChainMiddleware(s.TokenRefreshHandler(), s.APIMiddleware("token_refresh")...))
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware("signup")...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware("logout", s.RequireAuth())...))

	// MARKET (require a valid access token)
	s.RegisterRouteHandler("POST "+RouteNews, ChainMiddleware(s.NewsHandler(), s.APIMiddleware("", s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteICOs, ChainMiddleware(s.ICOsHandler(), s.APIMiddleware("", s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteTickers, ChainMiddleware(s.TickersHandler(), s.APIMiddleware("", s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RoutePrices, ChainMiddleware(s.PricesHandler(), s.APIMiddleware("", s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RoutePortfolios, ChainMiddleware(s.PortfoliosHandler(), s.APIMiddleware("", s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteWatchlists, ChainMiddleware(s.WatchlistsHandler(), s.APIMiddleware("", s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteCreateWatchlist, ChainMiddleware(s.CreateWatchlistHandler(), s.APIMiddleware("", s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteUpdateWatchlist, ChainMiddleware(s.UpdateWatchlistHandler(), s.APIMiddleware("", s.RequireAuth())...))

	// ADMIN
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersHandler(), s.APIMiddleware("", s.RequireAuth(), s.RequireSuperuser)...))

	// Preflight for every API route
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(func(w http.ResponseWriter, _ *http.Request) {}, s.CorsMiddleware))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}
