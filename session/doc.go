// Package session is the single source of truth for who is logged in to the
// dashboard.
//
// A Store holds the current username, access token and superuser flag in memory
// and mirrors them into a storage.Repo. It logs in, signs up, refreshes and logs
// out against the backend, and owns the inactivity timer that logs an idle user
// out. Navigation is never performed here: the host injects a Redirector and the
// Store calls it with the target path.
//
// Lifecycle: New, then Hydrate once at startup, then Close at teardown.
//
// States:
//
//	Anonymous     --Login / Hydrate with stored credentials-->  Authenticated
//	Authenticated --Refresh success-->                          Authenticated
//	Authenticated --Logout / failed Refresh / inactivity-->     Anonymous
//
// The Store implements oauth2.TokenSource and transport.Refresher so it can be
// plugged straight into a transport.Transport.
package session
