package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidstream/accounts/internal/adapters/auth"
	"github.com/vidstream/accounts/internal/core/domain"
)

type stubUserService struct {
	user *domain.User
	err  error
}

func (s *stubUserService) GetByID(_ context.Context, _ uuid.UUID) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserService) UpdateProfile(_ context.Context, _ uuid.UUID, _ domain.ProfileUpdate) (*domain.User, error) {
	return s.user, s.err
}

func guardFixture(t *testing.T) (*AuthGuard, *auth.JWTCodec, *domain.User) {
	t.Helper()
	codec := auth.NewJWTCodec("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	user := &domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice Example",
	}
	guard := NewAuthGuard(codec, &stubUserService{user: user})
	return guard, codec, user
}

func protectedEcho(t *testing.T, captured **domain.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		require.True(t, ok)
		*captured = principal
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthGuard_AdmitsCookieToken(t *testing.T) {
	guard, codec, user := guardFixture(t)
	token, err := codec.Issue(domain.TokenKindAccess, domain.TokenClaims{UserID: user.ID})
	require.NoError(t, err)

	var principal *domain.User
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()

	guard.RequireAuth(protectedEcho(t, &principal)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, user.ID, principal.ID)
}

func TestAuthGuard_AdmitsBearerToken(t *testing.T) {
	guard, codec, user := guardFixture(t)
	token, err := codec.Issue(domain.TokenKindAccess, domain.TokenClaims{UserID: user.ID})
	require.NoError(t, err)

	var principal *domain.User
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.RequireAuth(protectedEcho(t, &principal)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
}

func TestAuthGuard_CookieTakesPrecedenceOverHeader(t *testing.T) {
	guard, codec, user := guardFixture(t)
	token, err := codec.Issue(domain.TokenKindAccess, domain.TokenClaims{UserID: user.ID})
	require.NoError(t, err)

	var principal *domain.User
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	req.Header.Set("Authorization", "Bearer not-even-a-token")
	rec := httptest.NewRecorder()

	guard.RequireAuth(protectedEcho(t, &principal)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthGuard_RejectsMissingToken(t *testing.T) {
	guard, _, _ := guardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()

	guard.RequireAuth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuard_RejectsGarbageToken(t *testing.T) {
	guard, _, _ := guardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	guard.RequireAuth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuard_RejectsExpiredToken(t *testing.T) {
	_, _, user := guardFixture(t)
	expiredCodec := auth.NewJWTCodec("access-secret", "refresh-secret", -time.Minute, time.Hour)
	guard := NewAuthGuard(expiredCodec, &stubUserService{user: user})

	token, err := expiredCodec.Issue(domain.TokenKindAccess, domain.TokenClaims{UserID: user.ID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()

	guard.RequireAuth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuard_RejectsRefreshTokenOnProtectedRoute(t *testing.T) {
	guard, codec, user := guardFixture(t)
	refresh, err := codec.Issue(domain.TokenKindRefresh, domain.TokenClaims{UserID: user.ID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: refresh})
	rec := httptest.NewRecorder()

	guard.RequireAuth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuard_RejectsVanishedPrincipal(t *testing.T) {
	codec := auth.NewJWTCodec("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	guard := NewAuthGuard(codec, &stubUserService{user: nil})

	token, err := codec.Issue(domain.TokenKindAccess, domain.TokenClaims{UserID: uuid.New()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()

	guard.RequireAuth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClientRateLimiter_Throttles(t *testing.T) {
	limiter := NewClientRateLimiter(2)
	handler := limiter.Throttle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client has its own bucket.
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientRateLimiter_EvictsIdleClients(t *testing.T) {
	limiter := NewClientRateLimiter(30)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.limiter("10.0.0.1")
	limiter.limiter("10.0.0.2")
	require.Len(t, limiter.clients, 2)

	// One client stays active across the idle window, the other goes quiet.
	now = now.Add(3 * limiter.idleTTL / 4)
	limiter.limiter("10.0.0.1")

	now = now.Add(limiter.idleTTL / 2)
	limiter.limiter("10.0.0.3")

	assert.Contains(t, limiter.clients, "10.0.0.1")
	assert.NotContains(t, limiter.clients, "10.0.0.2")
	assert.Contains(t, limiter.clients, "10.0.0.3")
}
