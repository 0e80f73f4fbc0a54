package session

import (
	"context"
	"sync"

	"github.com/eventra/gateway/core"
)

// FakeSessionStorage is a test-only fake implementing core.SessionStorage.
// It stores records in a map and exposes error fields for behavior injection.
type FakeSessionStorage struct {
	mu        sync.RWMutex
	records   map[string]*core.SessionRecord // key: token hash
	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func NewFakeSessionStorage() *FakeSessionStorage {
	return &FakeSessionStorage{records: make(map[string]*core.SessionRecord)}
}

func (f *FakeSessionStorage) CreateSession(ctx context.Context, rec *core.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	clone := *rec
	f.records[rec.TokenHash] = &clone
	return nil
}

func (f *FakeSessionStorage) GetSessionByHash(ctx context.Context, tokenHash string) (*core.SessionRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.records[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	clone := *rec
	return &clone, nil
}

func (f *FakeSessionStorage) UpdateSession(ctx context.Context, rec *core.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.records[rec.TokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	clone := *rec
	f.records[rec.TokenHash] = &clone
	return nil
}

func (f *FakeSessionStorage) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, tokenHash)
	return nil
}

func (f *FakeSessionStorage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	return 0, nil
}

func (f *FakeSessionStorage) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.records)
}

// FakeAuthAPI is a test-only fake implementing core.AuthAPI.
type FakeAuthAPI struct {
	mu sync.Mutex

	loginErr    error
	registerErr error
	profileErr  error

	loginCalls   int
	profileCalls int

	// identity returned from all successful calls
	user  core.Identity
	token string
}

func NewFakeAuthAPI(user core.Identity, token string) *FakeAuthAPI {
	return &FakeAuthAPI{user: user, token: token}
}

func (f *FakeAuthAPI) Login(ctx context.Context, role core.Role, creds core.Credentials) (*core.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	user := f.user
	user.Role = role
	return &core.AuthResult{Token: f.token, User: user}, nil
}

func (f *FakeAuthAPI) Register(ctx context.Context, role core.Role, reg core.Registration) (*core.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	user := f.user
	user.Role = role
	if reg.Email != "" {
		user.Email = reg.Email
	}
	if reg.Name != "" {
		user.Name = reg.Name
	}
	return &core.AuthResult{Token: f.token, User: user}, nil
}

func (f *FakeAuthAPI) Profile(ctx context.Context, role core.Role, token string) (*core.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if token != f.token {
		return nil, core.ErrSessionInvalidated
	}
	user := f.user
	user.Role = role
	return &user, nil
}

func (f *FakeAuthAPI) ProfileCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileCalls
}
