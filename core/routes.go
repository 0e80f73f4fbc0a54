package core

import "strings"

// RouteClass labels every application route as public, student-only or
// manager-only. Classification is derived from the path prefix and never
// changes at runtime.
type RouteClass string

const (
	RoutePublic      RouteClass = "public"
	RouteStudentOnly RouteClass = "student-only"
	RouteManagerOnly RouteClass = "manager-only"
)

// ClassifyRoute classifies a request path. The login and registration pages
// under the role prefixes stay public so an anonymous redirect can land on
// them.
func ClassifyRoute(path string) RouteClass {
	p := path
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		p = "/"
	}

	switch p {
	case "/student/login", "/student/register", "/manager/login", "/manager/register":
		return RoutePublic
	}

	switch {
	case p == "/student" || strings.HasPrefix(p, "/student/"):
		return RouteStudentOnly
	case p == "/manager" || strings.HasPrefix(p, "/manager/"):
		return RouteManagerOnly
	default:
		return RoutePublic
	}
}

// Allows reports whether a session role may view routes of this class.
func (c RouteClass) Allows(role Role) bool {
	switch c {
	case RouteStudentOnly:
		return role == RoleStudent
	case RouteManagerOnly:
		return role == RoleManager
	default:
		return true
	}
}

// LoginPath returns the login route an anonymous visitor is sent to for this
// class. Anything protected that is not student-only goes to the manager
// login.
func (c RouteClass) LoginPath() string {
	if c == RouteStudentOnly {
		return RoleStudent.LoginPath()
	}
	return RoleManager.LoginPath()
}
