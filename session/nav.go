package session

import "github.com/eventra/gateway/core"

// NavLink is one navigation affordance in the shared chrome.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavFor returns the navigation set for a session role. An empty role means
// anonymous. The result is purely derived from the role and carries no
// state; callers recompute it on every render.
func NavFor(role core.Role) []NavLink {
	switch role {
	case core.RoleStudent:
		return []NavLink{
			{Label: "Dashboard", Path: "/student/dashboard"},
			{Label: "Browse Events", Path: "/events"},
			{Label: "My Registrations", Path: "/student/registered"},
		}
	case core.RoleManager:
		return []NavLink{
			{Label: "Dashboard", Path: "/manager/dashboard"},
			{Label: "Create Event", Path: "/manager/events/new"},
			{Label: "My Events", Path: "/manager/events"},
		}
	default:
		return []NavLink{
			{Label: "Browse Events", Path: "/events"},
			{Label: "About", Path: "/about"},
			{Label: "Contact", Path: "/contact"},
			{Label: "Student Login", Path: "/student/login"},
			{Label: "Manager Login", Path: "/manager/login"},
		}
	}
}
