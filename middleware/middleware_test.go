package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aventra/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func echoUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	w.Write([]byte(userID))
}

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuth("secret")
	token := sign(t, "secret", Claims{UserID: "user-a", Username: "ana"})

	handler := auth.Authenticate(echoUser)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusOK, body: "user-a"},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "no bearer prefix", header: token, status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req, nil)

			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestValidateJWTRejectsWrongSecretAndExpired(t *testing.T) {
	auth := NewAuth("secret")

	other := sign(t, "other", Claims{UserID: "user-a"})
	_, err := auth.ValidateJWT("Bearer " + other)
	assert.Error(t, err)

	expired := sign(t, "secret", Claims{
		UserID:           "user-a",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	_, err = auth.ValidateJWT("Bearer " + expired)
	assert.Error(t, err)

	noUser := sign(t, "secret", Claims{Username: "ghost"})
	_, err = auth.ValidateJWT("Bearer " + noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestLogger(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/itineraries", nil)
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "/api/itineraries", fields["path"])
}
