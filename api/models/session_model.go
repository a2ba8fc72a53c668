package models

import (
	"slices"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
)

// DefaultSessionTTL bounds how long an upload batch stays resolvable. Expired
// tokens behave exactly like tokens that were never issued.
var DefaultSessionTTL = 60 * time.Minute

var (
	uploadSessionMu sync.RWMutex
	uploadSessions  = ttlworker.NewCache[string, []string](DefaultSessionTTL)
)

// InitSessionStore replaces the session cache with one using the given TTL.
// Call once at startup, before any requests are served.
func InitSessionStore(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	uploadSessionMu.Lock()
	defer uploadSessionMu.Unlock()
	uploadSessions = ttlworker.NewCache[string, []string](ttl)
}

// PutUploadSession registers the staged file paths for a fresh token. Tokens
// are generated per upload, so there is never a second writer for one token.
func PutUploadSession(token string, paths []string) {
	uploadSessionMu.Lock()
	defer uploadSessionMu.Unlock()
	uploadSessions.Set(token, slices.Clone(paths))
}

// GetUploadSession returns the staged file paths for a token. The returned
// slice is a copy, readers cannot mutate batch state.
func GetUploadSession(token string) ([]string, bool) {
	uploadSessionMu.RLock()
	defer uploadSessionMu.RUnlock()
	paths := uploadSessions.Get(token)
	if paths == nil {
		return nil, false
	}
	return slices.Clone(paths), true
}

// RemoveUploadSession drops a token ahead of its TTL.
func RemoveUploadSession(token string) {
	uploadSessionMu.Lock()
	defer uploadSessionMu.Unlock()
	uploadSessions.Delete(token)
}
