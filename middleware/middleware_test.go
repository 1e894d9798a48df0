package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"investplan/database/repository/memstore"
	"investplan/models"
	"investplan/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	mr    *miniredis.Miniredis
	store *memstore.Store
	auth  *JWTAuthenticator
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}))
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "a1", Username: "root", Role: models.RoleAdmin}))

	return &authFixture{mr: mr, store: store, auth: NewJWTAuthenticator(secret, store.Users(), client, nil)}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, sub, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuthenticateCachesVerifiedToken(t *testing.T) {
	f := newAuthFixture(t)
	tok := token(t, "u1", models.RoleUser)

	p, err := f.auth.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, models.RoleUser, p.Role)

	key := utils.AuthCachePrefix + "u1:" + utils.HashToken(tok)
	assert.True(t, f.mr.Exists(key))
	assert.Greater(t, f.mr.TTL(key), time.Duration(0))

	// A cache hit answers without the user store.
	noStore := NewJWTAuthenticator(secret, memstore.New().Users(), redis.NewClient(&redis.Options{Addr: f.mr.Addr()}), nil)
	p, err = noStore.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
}

func TestAuthCacheDoesNotSlide(t *testing.T) {
	f := newAuthFixture(t)
	tok := token(t, "a1", models.RoleAdmin)
	key := utils.AuthCachePrefix + "a1:" + utils.HashToken(tok)
	ctx := context.Background()

	_, err := f.auth.Authenticate(ctx, tok)
	require.NoError(t, err)
	f.mr.FastForward(30 * time.Minute)
	p, err := f.auth.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.LessOrEqual(t, f.mr.TTL(key), 30*time.Minute, "a hit must not extend the entry")

	// After the entry lapses a demotion in the store takes effect.
	f.mr.FastForward(31 * time.Minute)
	require.False(t, f.mr.Exists(key))
	demoted := memstore.New()
	require.NoError(t, demoted.Users().Create(ctx, &models.User{ID: "a1", Username: "root", Role: models.RoleUser}))
	client := redis.NewClient(&redis.Options{Addr: f.mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	p, err = NewJWTAuthenticator(secret, demoted.Users(), client, nil).Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)
}

func TestAuthCacheBoundedByTokenExpiry(t *testing.T) {
	f := newAuthFixture(t)
	tok, err := utils.GenerateToken(secret, "u1", models.RoleUser, 10*time.Minute)
	require.NoError(t, err)

	_, err = f.auth.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	ttl := f.mr.TTL(utils.AuthCachePrefix + "u1:" + utils.HashToken(tok))
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}

func TestAuthenticateUsesStoredRole(t *testing.T) {
	f := newAuthFixture(t)
	p, err := f.auth.Authenticate(context.Background(), token(t, "u1", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role, "a role claim cannot escalate privileges")
}

func TestAuthenticateRejects(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	other, err := utils.GenerateToken([]byte("other"), "u1", models.RoleUser, time.Hour)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(context.Background(), other)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.auth.Authenticate(context.Background(), token(t, "ghost", models.RoleUser))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateWithoutCache(t *testing.T) {
	f := newAuthFixture(t)
	auth := NewJWTAuthenticator(secret, f.store.Users(), nil, nil)
	p, err := auth.Authenticate(context.Background(), token(t, "a1", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)
}

func protectedRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireUser(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c), "admin": IsAdmin(c)})
	})
	r.GET("/admin", RequireUser(auth), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	f := newAuthFixture(t)
	r := protectedRouter(f.auth)

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Insufficient authorization"}`, w.Body.String())

	w = do(r, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/me", token(t, "u1", models.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"u1","admin":false}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)
	r := protectedRouter(f.auth)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", token(t, "u1", models.RoleUser)).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", token(t, "a1", models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, get("1.1.1.1"))
	assert.Equal(t, http.StatusOK, get("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("1.1.1.1"))
	assert.Equal(t, http.StatusOK, get("2.2.2.2"), "limits are per client")
}
