package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier([]byte("test-secret"))
	require.NoError(t, err)
	return v
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t)
	token, err := v.Issue("user-42", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t)

	other, err := NewVerifier([]byte("other-secret"))
	require.NoError(t, err)
	foreign, err := other.Issue("user-42", time.Hour)
	require.NoError(t, err)

	expired := newTestVerifier(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue("user-42", time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      stale,
		"alg none":     none,
		"no subject":   noSubject,
	} {
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestIssueValidation(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t)
	_, err := v.Issue(" ", time.Hour)
	assert.Error(t, err)
	_, err = v.Issue("u", 0)
	assert.Error(t, err)

	_, err = NewVerifier(nil)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	v := newTestVerifier(t)
	token, err := v.Issue("user-7", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", Middleware(v), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusOK, body: "user-7"},
		{name: "lowercase scheme", header: "bearer " + token, status: http.StatusOK, body: "user-7"},
		{name: "missing", status: http.StatusUnauthorized, body: `"error":"no token provided"`},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, body: `"error":"invalid token"`},
		{name: "bad token", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized, body: `"success":false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
