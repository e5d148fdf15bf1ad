package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/dolar", handler)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dolar", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespond_UpstreamProblemCarriesLegacyErrorField(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		Respond(c, NewUpstreamProblem("currency", "No se pudo obtener el valor del dólar"))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "No se pudo obtener el valor del dólar", body["error"])
	require.Equal(t, body["error"], body["detail"])
	require.Equal(t, TypeUpstream, body["type"])
	require.Equal(t, "/api/dolar", body["instance"])
	require.Equal(t, map[string]any{"source": "currency"}, body["extensions"])
}

func TestRespondError_UnwrapsProblemsAndDefaultsToInternal(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		RespondError(c, fmt.Errorf("wrapped: %w", ErrUnauthorized.WithDetail("bad token")))
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "bad token", body["detail"])
	require.NotContains(t, body, "error")

	rec, body = serve(t, func(c *gin.Context) {
		RespondError(c, errors.New("boom"))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal Server Error", body["title"])
	require.NotContains(t, body, "detail")
}

func TestResponder_BaseURIAndStatus(t *testing.T) {
	responder := NewResponder("https://errors.example.com")
	rec, body := serve(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("graphql: %w", ErrMethodNotAllowed.WithDetail("mutations require POST")))
	})
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "https://errors.example.com"+TypeMethodNotAllowed, body["type"])

	require.Equal(t, http.StatusUnauthorized, StatusOf(fmt.Errorf("x: %w", ErrUnauthorized)))
	require.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestWithExtension_LeavesTemplateUntouched(t *testing.T) {
	first := ErrUpstream.WithExtension("source", "currency")
	second := first.WithExtension("attempt", 2)
	require.Nil(t, ErrUpstream.Extensions)
	require.Len(t, first.Extensions, 1)
	require.Len(t, second.Extensions, 2)
}
