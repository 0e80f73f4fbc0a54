package core

import (
	"io"
	"time"
)

// Role determines which routes and navigation options are available.
type Role string

const (
	RoleStudent Role = "student"
	RoleManager Role = "manager"
)

// Valid reports whether the role is one the platform knows about.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleManager
}

// LoginPath returns the login route for this role.
func (r Role) LoginPath() string {
	if r == RoleStudent {
		return "/student/login"
	}
	return "/manager/login"
}

// DashboardPath returns the default landing route after a login with no
// pending redirect.
func (r Role) DashboardPath() string {
	if r == RoleStudent {
		return "/student/dashboard"
	}
	return "/manager/dashboard"
}

// Identity is the authenticated user as reported by the platform API.
//
// This is the "identity" - who someone is
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the resolved in-memory session for one request.
//
// User and Token are set together on login/register and cleared together on
// logout or upstream invalidation; an anonymous session has neither.
type Session struct {
	User  *Identity `json:"user"`
	Token string    `json:"-"` // upstream bearer credential, never exposed in JSON
}

// Anonymous returns the empty, unauthenticated session.
func Anonymous() *Session {
	return &Session{}
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil && s.Token != ""
}

func (s *Session) IsStudent() bool {
	return s.IsAuthenticated() && s.User.Role == RoleStudent
}

// Role returns the session's role, or "" when anonymous.
func (s *Session) Role() Role {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.User.Role
}

// SessionRecord is the durable copy of a session held by the gateway.
//
// The browser only ever sees the raw cookie token; the record stores its
// hash alongside the upstream bearer token and the cached identity.
type SessionRecord struct {
	ID        string    `json:"id"`
	TokenHash string    `json:"-"` // never expose in JSON
	APIToken  string    `json:"-"` // never expose in JSON
	Role      Role      `json:"role"`
	User      Identity  `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credentials is a login form submission, forwarded verbatim upstream.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is a sign-up form submission, forwarded verbatim upstream.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what the platform API returns from a successful login or
// registration call.
type AuthResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Event is a platform event as exposed to the gateway's pages.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"descriptionHtml,omitempty"`
	Venue           string    `json:"venue"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Fee             int       `json:"fee"`
	MaxTeamSize     int       `json:"maxTeamSize"`
	CreatedBy       string    `json:"createdBy,omitempty"`
}

// EventInput is the create/edit event form payload.
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Fee         int       `json:"fee"`
	MaxTeamSize int       `json:"maxTeamSize"`
}

// TeamMember is one entry on a team registration form.
type TeamMember struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Team is a registered team as reported by the platform API.
type Team struct {
	ID              string       `json:"id"`
	EventID         string       `json:"eventId"`
	Name            string       `json:"name"`
	Members         []TeamMember `json:"members"`
	PaymentStatus   string       `json:"paymentStatus"`
	PaymentVerified bool         `json:"paymentVerified"`
	RegisteredAt    time.Time    `json:"registeredAt"`
}

// TeamInput is the team registration form payload.
type TeamInput struct {
	Name    string       `json:"name"`
	Members []TeamMember `json:"members"`
}

// Export is a CSV/PDF export stream fetched from the platform API. The
// caller owns Body and must close it.
type Export struct {
	ContentType string
	Filename    string
	Body        io.ReadCloser
}
