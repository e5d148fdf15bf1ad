package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/identity/domain"
)

// BearerPrefix is the literal scheme prefix expected on the Authorization header.
const BearerPrefix = "Bearer "

var (
	ErrMissingToken    = errors.New("authorization header is absent")
	ErrMalformedHeader = errors.New("authorization header is not a bearer token")
	ErrInvalidToken    = errors.New("bearer token is invalid")
	ErrExpiredToken    = errors.New("bearer token has expired")
	ErrEmptySecret     = errors.New("token signing secret is empty")
)

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Resolver turns Authorization header values into identities. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	secret []byte
	parser *jwt.Parser
}

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverOptions)

type resolverOptions struct {
	now    func() time.Time
	leeway time.Duration
}

// WithNow overrides the clock used for expiry checks.
func WithNow(now func() time.Time) ResolverOption {
	return func(o *resolverOptions) {
		o.now = now
	}
}

// WithLeeway tolerates small clock skew on time-based claims.
func WithLeeway(d time.Duration) ResolverOption {
	return func(o *resolverOptions) {
		o.leeway = d
	}
}

// NewResolver builds a resolver verifying HMAC-signed tokens with secret.
func NewResolver(secret string, opts ...ResolverOption) (*Resolver, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	var o resolverOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods(hmacMethods)}
	if o.now != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(o.now))
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(o.leeway))
	}
	return &Resolver{secret: []byte(secret), parser: jwt.NewParser(parserOpts...)}, nil
}

// Resolve returns the identity for header, downgrading every failure to anonymous.
func (r *Resolver) Resolve(header string) domain.Identity {
	id, err := r.Verify(header)
	if err != nil {
		return domain.Anonymous()
	}
	return id
}

// Verify returns the identity for header or the reason it could not be verified.
func (r *Resolver) Verify(header string) (domain.Identity, error) {
	if header == "" {
		return domain.Anonymous(), ErrMissingToken
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return domain.Anonymous(), ErrMalformedHeader
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if raw == "" {
		return domain.Anonymous(), fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	token, err := r.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Anonymous(), fmt.Errorf("%w: %w", ErrExpiredToken, err)
		}
		return domain.Anonymous(), fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return domain.Anonymous(), ErrInvalidToken
	}
	subject, _ := claims.GetSubject()
	return domain.Identity{Subject: subject, Claims: map[string]any(claims)}, nil
}
