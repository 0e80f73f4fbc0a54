package core

import "context"

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORT (durable session records)
// ============================================

// SessionStorage is the durable store for gateway session records. The
// session store is the only writer; adapters exist for SQLite and Postgres.
type SessionStorage interface {
	CreateSession(ctx context.Context, rec *SessionRecord) error
	GetSessionByHash(ctx context.Context, tokenHash string) (*SessionRecord, error)
	UpdateSession(ctx context.Context, rec *SessionRecord) error
	DeleteSessionByHash(ctx context.Context, tokenHash string) error

	// Cleanup
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// ============================================
// CACHE PORT
// ============================================

// Cache holds resolved sessions keyed by cookie-token hash so a restore does
// not hit the platform API on every request.
type Cache interface {
	Get(tokenHash string) (*Session, error)
	Set(tokenHash string, session *Session) error
	Delete(tokenHash string) error
	Clear() error
}

// ============================================
// PLATFORM API PORTS (outbound REST calls)
// ============================================

// AuthAPI is the slice of the platform API the session store depends on.
type AuthAPI interface {
	Login(ctx context.Context, role Role, creds Credentials) (*AuthResult, error)
	Register(ctx context.Context, role Role, reg Registration) (*AuthResult, error)
	Profile(ctx context.Context, role Role, token string) (*Identity, error)
}

// EventAPI covers the event CRUD surface used by the page handlers.
type EventAPI interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListManagerEvents(ctx context.Context, token string) ([]Event, error)
	CreateEvent(ctx context.Context, token string, input EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, token, id string, input EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, token, id string) error
}

// TeamAPI covers team registration and review.
type TeamAPI interface {
	RegisterTeam(ctx context.Context, token, eventID string, input TeamInput) (*Team, error)
	ListEventTeams(ctx context.Context, token, eventID string) ([]Team, error)
	ListMyRegistrations(ctx context.Context, token string) ([]Team, error)
	VerifyPayment(ctx context.Context, token, teamID string) (*Team, error)
}

// ExportAPI streams CSV/PDF exports straight through to the browser.
type ExportAPI interface {
	ExportTeams(ctx context.Context, token, eventID, format string) (*Export, error)
}

// PlatformAPI is the full outbound surface.
type PlatformAPI interface {
	AuthAPI
	EventAPI
	TeamAPI
	ExportAPI
}
