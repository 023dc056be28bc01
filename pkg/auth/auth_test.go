package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Issue("user-1", "branch", "branch@gym.com", "Downtown", 3)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "branch", claims.Role)
	assert.Equal(t, "Downtown", claims.Gym)
	assert.Equal(t, 3, claims.CredentialVersion)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret, time.Hour).Issue("user-1", "user", "a@b.com", "", 0)
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-another-secret-000", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Issue("user-1", "user", "a@b.com", "", 0)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager(testSecret, time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestRequireRole(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}
	h := RequireRole(ok, "admin")

	tests := []struct {
		name   string
		claims *Claims
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"wrong role", &Claims{Role: "user"}, http.StatusForbidden},
		{"admin", &Claims{Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				r = r.WithContext(WithClaims(r.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h(rec, r, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
