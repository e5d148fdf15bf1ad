package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthenticated is returned by operations that need a verified identity.
var ErrUnauthenticated = errors.New("authentication required")

// Identity is the caller derived from a request's bearer token. The zero
// value is the anonymous identity.
type Identity struct {
	Subject string
	Claims  map[string]any
}

// Anonymous returns the unauthenticated identity.
func Anonymous() Identity { return Identity{} }

// Authenticated reports whether the identity came from a verified token.
func (i Identity) Authenticated() bool { return i.Claims != nil }

// Claim returns a single claim value.
func (i Identity) Claim(name string) (any, bool) {
	if i.Claims == nil {
		return nil, false
	}
	v, ok := i.Claims[name]
	return v, ok
}

type contextKey struct{}

// WithIdentity stores the identity on the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity on ctx, or anonymous when none was set.
func FromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Anonymous()
	}
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}

// Policy decides what happens to a request presenting a token that fails verification.
type Policy string

const (
	// PolicyDowngrade treats the request as anonymous.
	PolicyDowngrade Policy = "downgrade"
	// PolicyReject answers 401 before the request reaches any handler.
	PolicyReject Policy = "reject"
)

// ParsePolicy maps a configuration value to a Policy. Empty means downgrade.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyDowngrade:
		return PolicyDowngrade, nil
	case PolicyReject:
		return PolicyReject, nil
	default:
		return "", fmt.Errorf("unknown invalid-token policy %q (want downgrade or reject)", raw)
	}
}
