package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"investplan/database"
	userRepo "investplan/database/repository/user"
	"investplan/models"
	"investplan/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// ErrUnauthenticated covers every credential failure; callers answer 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   string
}

// Authenticator resolves a bearer token to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// JWTAuthenticator validates HS256 tokens and confirms the subject still exists.
// Verified tokens are cached in redis by hash so repeat requests skip the store.
type JWTAuthenticator struct {
	secret []byte
	users  userRepo.UserRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewJWTAuthenticator accepts a nil cache; every request then hits the user store.
func NewJWTAuthenticator(secret []byte, users userRepo.UserRepository, cache *redis.Client, logger *zap.Logger) *JWTAuthenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTAuthenticator{secret: secret, users: users, cache: cache, logger: logger}
}

func (a *JWTAuthenticator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := utils.ParseToken(a.secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	cacheKey := utils.AuthCachePrefix + claims.Subject + ":" + utils.HashToken(token)
	if a.cache != nil {
		role, err := a.cache.Get(ctx, cacheKey).Result()
		if err == nil && role != "" {
			return &Principal{UserID: claims.Subject, Role: role}, nil
		}
		if err != nil && err != redis.Nil {
			a.logger.Warn("Auth cache unavailable, falling back to user store", zap.Error(err))
		}
	}

	// The stored role is authoritative; the token claim only matters for caching.
	user, err := a.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown subject", ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	if ttl := cacheTTL(claims); a.cache != nil && ttl > 0 {
		if err := a.cache.Set(ctx, cacheKey, role, ttl).Err(); err != nil {
			a.logger.Warn("Failed to cache auth token", zap.Error(err))
		}
	}
	return &Principal{UserID: user.ID, Role: role}, nil
}

// cacheTTL bounds a cached role by the token's own expiry. Hits never extend
// it, so a role change is seen within one TTL.
func cacheTTL(claims *utils.TokenClaims) time.Duration {
	ttl := utils.AuthCacheTTL
	if claims.ExpiresAt.IsZero() {
		return ttl
	}
	if left := time.Until(claims.ExpiresAt); left < ttl {
		return left
	}
	return ttl
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// RequireUser authenticates the request and stores the principal in the context.
func RequireUser(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, ErrUnauthenticated) {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
			return
		}
		if err != nil {
			zap.L().Error("RequireUser: authentication error", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Authentication error")
			return
		}

		c.Set(ctxUserID, principal.UserID)
		c.Set(ctxRole, principal.Role)
		c.Next()
	}
}

// RequireRole must run after RequireUser.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "Forbidden")
	}
}

// UserID returns the authenticated user id, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

func IsAdmin(c *gin.Context) bool {
	return Role(c) == models.RoleAdmin
}
