package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(userID))
	})
}

func TestAuthRoundTrip(t *testing.T) {
	auth := NewAuthenticator("test-secret", time.Hour)

	token, err := auth.Generate("user-42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	auth.Auth(echoUserID()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestAuthRejectsBadRequests(t *testing.T) {
	auth := NewAuthenticator("test-secret", time.Hour)

	validToken, err := auth.Generate("user-42")
	require.NoError(t, err)

	otherSecret := NewAuthenticator("other-secret", time.Hour)
	foreignToken, err := otherSecret.Generate("user-42")
	require.NoError(t, err)

	expiring := NewAuthenticator("test-secret", -time.Minute)
	expiredToken, err := expiring.Generate("user-42")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic " + validToken},
		{"malformed header", "Bearer"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong signing secret", "Bearer " + foreignToken},
		{"expired token", "Bearer " + expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			auth.Auth(echoUserID()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestTestUserMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Test-User-ID", "dev-user")
	rec := httptest.NewRecorder()

	TestUserMiddleware(echoUserID()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev-user", rec.Body.String())
}

func TestTestUserMiddlewareNoHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	TestUserMiddleware(echoUserID()).ServeHTTP(rec, req)

	// Without the header no user is injected.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
