package session

// Guard decides whether a view may be shown for snap. When it may not, redirect
// is the path to send the user to instead.
func Guard(snap Session, superuserOnly bool) (allowed bool, redirect string) {
	if !snap.IsAuthenticated() {
		return false, RouteLogin
	}
	if superuserOnly && !snap.IsSuperuser {
		return false, RouteHome
	}
	return true, ""
}
