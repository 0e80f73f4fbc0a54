package session

import (
	"strings"
	"time"

	"github.com/eventra/gateway/core"
)

// PendingRedirectTTL bounds how long a recorded "intended destination"
// survives before a login consumes it. One slot exists at a time; a newer
// redirect overwrites an unconsumed older one.
const PendingRedirectTTL = 10 * time.Minute

// ValidPendingPath reports whether a stored pending path is safe to navigate
// to after login: app-internal, absolute, and free of a scheme or authority
// (an open-redirect guard for the cookie-persisted slot).
func ValidPendingPath(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") {
		return false
	}
	if strings.HasPrefix(p, "//") || strings.Contains(p, "://") {
		return false
	}
	if strings.ContainsAny(p, "\r\n") {
		return false
	}
	return true
}

// ResolveLanding picks the navigation target after a successful login: the
// pending redirect when one exists and validates, otherwise the role's
// default dashboard. The caller clears the slot regardless of the outcome so
// a bad value cannot cause a redirect loop.
func ResolveLanding(role core.Role, pending string) string {
	if ValidPendingPath(pending) {
		return pending
	}
	return role.DashboardPath()
}
