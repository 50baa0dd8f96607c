package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "gymlife"}

func signToken(t *testing.T, sub, jti string, cfg Config) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"jti": jti,
		"iss": cfg.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.Secret))
	require.NoError(t, err)
	return signed
}

func TestParseValidToken(t *testing.T) {
	claims, err := Parse(signToken(t, "42", "token-1", testConfig), testConfig)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "token-1", claims.TokenID)
}

func TestParseRejectsNonNumericSubject(t *testing.T) {
	_, err := Parse(signToken(t, "alice", "token-1", testConfig), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "42", "token-1", Config{Secret: "other", Issuer: "gymlife"})
	_, err := Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

type listRevoker map[string]bool

func (l listRevoker) IsRevoked(jti string) bool { return l[jti] }

func TestMiddlewareStoresClaimsAndChecksRevocation(t *testing.T) {
	mw := NewMiddleware(testConfig, listRevoker{"revoked-token": true}, nil)

	var got *Claims
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "7", "live-token", testConfig))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, int64(7), got.UserID)

	req = httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "7", "revoked-token", testConfig))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareMissingHeader(t *testing.T) {
	mw := NewMiddleware(testConfig, nil, nil)
	handler := mw.Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
