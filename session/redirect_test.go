package session

import (
	"testing"

	"github.com/eventra/gateway/core"
)

func TestValidPendingPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "plain path", path: "/manager/events/42/teams", want: true},
		{name: "path with query", path: "/student/dashboard?tab=upcoming", want: true},
		{name: "empty", path: "", want: false},
		{name: "relative", path: "manager/events", want: false},
		{name: "protocol-relative", path: "//evil.example/phish", want: false},
		{name: "absolute url", path: "https://evil.example/", want: false},
		{name: "embedded scheme", path: "/redirect?to=https://evil.example", want: false},
		{name: "header injection", path: "/a\r\nSet-Cookie: x=1", want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ValidPendingPath(test.path); got != test.want {
				t.Errorf("ValidPendingPath(%q) = %v, want %v", test.path, got, test.want)
			}
		})
	}
}

func TestResolveLanding(t *testing.T) {
	tests := []struct {
		name    string
		role    core.Role
		pending string
		want    string
	}{
		{name: "pending wins", role: core.RoleManager, pending: "/manager/events/42/teams", want: "/manager/events/42/teams"},
		{name: "no pending student default", role: core.RoleStudent, pending: "", want: "/student/dashboard"},
		{name: "no pending manager default", role: core.RoleManager, pending: "", want: "/manager/dashboard"},
		{name: "invalid pending falls back", role: core.RoleStudent, pending: "//evil.example", want: "/student/dashboard"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ResolveLanding(test.role, test.pending); got != test.want {
				t.Errorf("ResolveLanding(%q, %q) = %q, want %q", test.role, test.pending, got, test.want)
			}
		})
	}
}
