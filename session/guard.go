package session

import (
	"strings"

	"github.com/eventra/gateway/core"
)

// Decision is the route guard's verdict for one navigation. It is an
// explicit value so the caller owns any redirect bookkeeping; the guard
// itself holds no state.
type Decision struct {
	Allowed bool

	// RedirectTo is the login route to send the visitor to when not allowed.
	RedirectTo string

	// RememberPath is the full path (including query) to record as the
	// pending redirect. It is only set for the anonymous case; a role
	// mismatch is an own-area correction and records nothing.
	RememberPath string
}

// Decide evaluates the route guard contract for a resolved session and a
// request URL (path with optional query string). It is a pure function of
// its inputs and is re-evaluated on every navigation.
func Decide(sess *core.Session, requestURL string) Decision {
	class := core.ClassifyRoute(requestURL)
	if class == core.RoutePublic {
		return Decision{Allowed: true}
	}

	if !sess.IsAuthenticated() {
		return Decision{
			RedirectTo:   class.LoginPath(),
			RememberPath: sanitizeRememberPath(requestURL),
		}
	}

	if !class.Allows(sess.User.Role) {
		// Send the visitor to their own area's login, not an error page.
		return Decision{RedirectTo: sess.User.Role.LoginPath()}
	}

	return Decision{Allowed: true}
}

func sanitizeRememberPath(requestURL string) string {
	if !strings.HasPrefix(requestURL, "/") || strings.HasPrefix(requestURL, "//") {
		return ""
	}
	return requestURL
}
