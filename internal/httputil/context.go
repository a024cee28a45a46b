package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated principal extracted from the verified
// token. Every attributed write (creator, uploader, assignee) reads the
// ID back from here rather than from ambient state.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// WithIdentity adds the acting user's identity to the request context
func WithIdentity(r *http.Request, id Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, id)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the acting identity, zero value if not set
func GetIdentity(r *http.Request) Identity {
	id, _ := r.Context().Value(identityKey).(Identity)
	return id
}

// GetUserID retrieves the acting user id, empty string if not set
func GetUserID(r *http.Request) string {
	return GetIdentity(r).UserID
}
