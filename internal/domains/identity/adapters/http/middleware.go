package http

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/identity/application"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/identity/domain"
	problems "github.com/Apurer/agro-sales-dashboard/internal/shared/errors"
)

// Verifier is the part of the resolver the middleware depends on.
type Verifier interface {
	Verify(header string) (domain.Identity, error)
}

// Middleware resolves the caller identity once per request and stores it on
// the request context.
type Middleware struct {
	verifier  Verifier
	policy    domain.Policy
	logger    *slog.Logger
	responder *problems.Responder
}

type Option func(*Middleware)

func WithPolicy(policy domain.Policy) Option {
	return func(m *Middleware) {
		m.policy = policy
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func WithResponder(r *problems.Responder) Option {
	return func(m *Middleware) {
		m.responder = r
	}
}

// NewMiddleware builds the identity middleware. The default policy downgrades
// failed tokens to anonymous.
func NewMiddleware(verifier Verifier, opts ...Option) *Middleware {
	m := &Middleware{
		verifier:  verifier,
		policy:    domain.PolicyDowngrade,
		logger:    slog.Default(),
		responder: problems.DefaultResponder,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Handler returns the gin handler.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		id, err := m.verifier.Verify(header)
		if err != nil {
			id = domain.Anonymous()
			if presented(err) {
				if m.policy == domain.PolicyReject {
					m.logger.WarnContext(c.Request.Context(), "rejected request with invalid bearer token",
						slog.String("path", c.Request.URL.Path),
						slog.String("error", err.Error()))
					m.responder.Respond(c, problems.ErrUnauthorized.WithDetail(reason(err)))
					c.Abort()
					return
				}
				m.logger.WarnContext(c.Request.Context(), "bearer token failed verification, continuing as anonymous",
					slog.String("path", c.Request.URL.Path),
					slog.String("error", err.Error()))
			}
		}
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// presented reports whether the failure concerns a bearer token the caller
// actually sent, as opposed to no token at all.
func presented(err error) bool {
	return errors.Is(err, application.ErrInvalidToken) || errors.Is(err, application.ErrExpiredToken)
}

func reason(err error) string {
	if errors.Is(err, application.ErrExpiredToken) {
		return application.ErrExpiredToken.Error()
	}
	return application.ErrInvalidToken.Error()
}
