// Package gateway assembles the Eventra gateway: a thin server in front of
// the event platform API that owns browser sessions, enforces role-based
// route access, and forwards page actions upstream with the right bearer
// token.
package gateway

import (
	"log/slog"
	"time"

	"github.com/eventra/gateway/core"
	"github.com/eventra/gateway/session"
)

// interfaces
type (
	SessionStorage = core.SessionStorage
	Cache          = core.Cache
	PlatformAPI    = core.PlatformAPI
)

// structs
type (
	Session       = core.Session
	SessionRecord = core.SessionRecord
	Identity      = core.Identity
	Role          = core.Role
	NavLink       = session.NavLink
	Decision      = session.Decision
)

// Convenience re-exports
var (
	Anonymous      = core.Anonymous
	ClassifyRoute  = core.ClassifyRoute
	NavFor         = session.NavFor
	Decide         = session.Decide
	ResolveLanding = session.ResolveLanding
)

var (
	ErrSessionNotFound    = core.ErrSessionNotFound
	ErrSessionExpired     = core.ErrSessionExpired
	ErrSessionInvalidated = core.ErrSessionInvalidated
	ErrCacheNotFound      = core.ErrCacheNotFound
)

var (
	ErrAPIClientRequired   = core.ErrAPIClientRequired
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
)

const (
	defaultCookieName        = "eventra_session"
	defaultPendingCookieName = "eventra_return_to"
)

// HTTPAdapter binds the gateway's routes onto a concrete HTTP framework.
type HTTPAdapter interface {
	RegisterRoutes(gw *Gateway) error
}

// Config wires the gateway's dependencies. API, Storage, and HTTP are
// required; everything else has a sensible default.
type Config struct {
	API     core.PlatformAPI
	Storage core.SessionStorage
	HTTP    HTTPAdapter

	// Cache is optional; nil disables session caching.
	Cache core.Cache

	SessionMaxAge     time.Duration
	CookieName        string
	PendingCookieName string

	Logger *slog.Logger
}

// Gateway is the assembled application handed to the HTTP adapter.
type Gateway struct {
	Store *session.Store
	API   core.PlatformAPI

	CookieName        string
	PendingCookieName string
	SessionMaxAge     time.Duration

	Log *slog.Logger
}

func New(config Config) (*Gateway, error) {
	if config.API == nil {
		return nil, ErrAPIClientRequired
	}
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	maxAge := config.SessionMaxAge
	if maxAge <= 0 {
		maxAge = session.DefaultMaxAge
	}

	cookieName := config.CookieName
	if cookieName == "" {
		cookieName = defaultCookieName
	}

	pendingCookieName := config.PendingCookieName
	if pendingCookieName == "" {
		pendingCookieName = defaultPendingCookieName
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := session.NewStore(config.API, config.Storage, config.Cache, maxAge)

	gw := &Gateway{
		Store:             store,
		API:               config.API,
		CookieName:        cookieName,
		PendingCookieName: pendingCookieName,
		SessionMaxAge:     maxAge,
		Log:               logger,
	}

	if err := config.HTTP.RegisterRoutes(gw); err != nil {
		return nil, err
	}

	return gw, nil
}
