package application

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/identity/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func payloadOf(t *testing.T, token string) map[string]any {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(testSecret)
	require.NoError(t, err)
	return r
}

func TestResolve_ValidTokenReturnsExactClaims(t *testing.T) {
	r := newTestResolver(t)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"tags": []any{"ventas", "campo"},
	})

	id := r.Resolve(BearerPrefix + token)

	require.True(t, id.Authenticated())
	require.Equal(t, "user-1", id.Subject)
	require.Equal(t, payloadOf(t, token), id.Claims)
	role, ok := id.Claim("role")
	require.True(t, ok)
	require.Equal(t, "admin", role)
}

func TestVerify_FailuresDowngradeToAnonymous(t *testing.T) {
	r := newTestResolver(t)
	expired := signToken(t, testSecret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})
	wrongSecret := signToken(t, "other-secret", jwt.MapClaims{"sub": "u"})
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"absent", "", ErrMissingToken},
		{"basic scheme", "Basic dXNlcjpwYXNz", ErrMalformedHeader},
		{"lowercase scheme", "bearer " + wrongSecret, ErrMalformedHeader},
		{"empty token", "Bearer ", ErrInvalidToken},
		{"garbage", "Bearer not-a-jwt", ErrInvalidToken},
		{"wrong secret", "Bearer " + wrongSecret, ErrInvalidToken},
		{"alg none", "Bearer " + none, ErrInvalidToken},
		{"expired", "Bearer " + expired, ErrExpiredToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := r.Verify(tc.header)
			require.ErrorIs(t, err, tc.want)
			require.False(t, id.Authenticated())

			require.Equal(t, domain.Anonymous(), r.Resolve(tc.header))
		})
	}
}

func TestVerify_UsesInjectedClock(t *testing.T) {
	issuedAt := time.Date(2025, 6, 19, 10, 0, 0, 0, time.UTC)
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "u", "exp": issuedAt.Add(time.Hour).Unix()})

	before, err := NewResolver(testSecret, WithNow(func() time.Time { return issuedAt }))
	require.NoError(t, err)
	require.True(t, before.Resolve(BearerPrefix+token).Authenticated())

	after, err := NewResolver(testSecret, WithNow(func() time.Time { return issuedAt.Add(2 * time.Hour) }))
	require.NoError(t, err)
	_, err = after.Verify(BearerPrefix + token)
	require.ErrorIs(t, err, ErrExpiredToken)

	lenient, err := NewResolver(testSecret,
		WithNow(func() time.Time { return issuedAt.Add(time.Hour + 30*time.Second) }),
		WithLeeway(time.Minute))
	require.NoError(t, err)
	require.True(t, lenient.Resolve(BearerPrefix+token).Authenticated())
}

func TestNewResolver_RequiresSecret(t *testing.T) {
	_, err := NewResolver("")
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestResolve_ConcurrentCallsAreIndependent(t *testing.T) {
	r := newTestResolver(t)
	good := BearerPrefix + signToken(t, testSecret, jwt.MapClaims{"sub": "u"})
	bad := BearerPrefix + signToken(t, "nope", jwt.MapClaims{"sub": "u"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if !r.Resolve(good).Authenticated() {
				t.Error("valid token resolved as anonymous")
			}
		}()
		go func() {
			defer wg.Done()
			if r.Resolve(bad).Authenticated() {
				t.Error("invalid token resolved as authenticated")
			}
		}()
	}
	wg.Wait()
}

func TestIssuer_RoundTripsThroughResolver(t *testing.T) {
	issuer, err := NewIssuer(testSecret)
	require.NoError(t, err)
	token, err := issuer.Issue("ana", map[string]any{"role": "ventas"}, time.Hour)
	require.NoError(t, err)

	id := newTestResolver(t).Resolve(BearerPrefix + token)

	require.True(t, id.Authenticated())
	require.Equal(t, "ana", id.Subject)
	require.Equal(t, "ventas", id.Claims["role"])
	require.Contains(t, id.Claims, "exp")

	_, err = issuer.Issue(" ", nil, time.Hour)
	require.Error(t, err)
}
