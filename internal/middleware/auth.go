package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrms/internal/auth"
	"hrms/internal/model"
	"hrms/pkg/apperrors"
	"hrms/pkg/response"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxCompanyID = "companyID"
	CtxTokenID   = "tokenID"
	CtxTokenExp  = "tokenExp"
)

func releaseMode() bool {
	return os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != ""
}

// AccessCookieName returns the access-token cookie name. Release builds use
// the __Host- prefix, which browsers only accept with Secure, Path=/ and no
// Domain attribute.
func AccessCookieName() string {
	if releaseMode() {
		return "__Host-hrms-access"
	}
	return "hrms_access"
}

// RefreshCookieName returns the refresh-token cookie name.
func RefreshCookieName() string {
	if releaseMode() {
		return "__Host-hrms-refresh"
	}
	return "hrms_refresh"
}

// SetTokenCookies sets the access and refresh tokens as HttpOnly cookies.
// Tokens travel only here, never in a response body.
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Release: SameSite=Strict + Secure (__Host- prefixed names)
	// Development: SameSite=Lax, Secure=false so plain http works
	sameSite := http.SameSiteLaxMode
	secure := false
	if releaseMode() {
		sameSite = http.SameSiteStrictMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie(AccessCookieName(), accessToken, 3600, "/", "", secure, true)
	c.SetCookie(RefreshCookieName(), refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes both token cookies (Max-Age<0).
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if releaseMode() {
		sameSite = http.SameSiteStrictMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie(AccessCookieName(), "", -1, "/", "", secure, true)
	c.SetCookie(RefreshCookieName(), "", -1, "/", "", secure, true)
}

// TokenStore answers revocation queries. Implemented by the token
// repository; presence in the blacklist overrides a valid signature.
type TokenStore interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PermissionSource resolves a user's effective permissions for a company
// context. Implemented by the auth service.
type PermissionSource interface {
	PermissionsFor(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) ([]string, error)
}

// permCacheEntry stores cached permission codes with TTL
type permCacheEntry struct {
	codes     []string
	expiresAt time.Time
}

// Auth bundles the authenticated-request middleware. Dependencies are
// injected so tests can substitute fakes without global state.
type Auth struct {
	tokens TokenStore
	perms  PermissionSource

	permCache    sync.Map // "userID|companyID" -> permCacheEntry
	permCacheTTL time.Duration
}

// NewAuth builds the middleware set around a token store and a permission
// source.
func NewAuth(tokens TokenStore, perms PermissionSource) *Auth {
	return &Auth{tokens: tokens, perms: perms, permCacheTTL: 5 * time.Minute}
}

func abortUnauthenticated(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		response.ErrorCode(http.StatusUnauthorized, string(apperrors.CodeAuthentication), reason))
}

func abortForbidden(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		response.ErrorCode(http.StatusForbidden, string(apperrors.CodeAuthorization), reason))
}

// extractToken reads the access cookie first, then the Authorization header.
func extractToken(c *gin.Context) (string, string) {
	if tok, err := c.Cookie(AccessCookieName()); err == nil && tok != "" {
		return tok, ""
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "authorization is missing"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "invalid authorization format, expected 'Bearer <token>'"
	}
	return parts[1], ""
}

// RequireAuth validates the access token and the revocation blacklist, then
// stores the caller's identity on the context. Invalid, expired or revoked
// tokens are a hard 401; state-changing handlers never run as anonymous.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, reason := extractToken(c)
		if tokenString == "" {
			abortUnauthenticated(c, reason)
			return
		}

		claims, err := auth.ParseAccessToken(tokenString)
		if err != nil {
			abortUnauthenticated(c, "invalid or expired token")
			return
		}

		revoked, err := a.tokens.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.ErrorCode(http.StatusInternalServerError, string(apperrors.CodeInternal), "failed to verify token"))
			return
		}
		if revoked {
			abortUnauthenticated(c, "token has been revoked")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthenticated(c, "invalid token subject")
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxTokenID, claims.ID)
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		if cid := claims.Company(); cid != nil {
			c.Set(CtxCompanyID, *cid)
		}

		c.Next()
	}
}

// RequirePermission chains RequireAuth with a permission check against the
// caller's effective set in the token's company context. All listed
// permissions must be present.
func (a *Auth) RequirePermission(requiredPerms ...string) gin.HandlerFunc {
	requireAuth := a.RequireAuth()
	return func(c *gin.Context) {
		requireAuth(c)
		if c.IsAborted() {
			return
		}

		userID := c.MustGet(CtxUserID).(uuid.UUID)
		var companyID *uuid.UUID
		if v, ok := c.Get(CtxCompanyID); ok {
			id := v.(uuid.UUID)
			companyID = &id
		}

		userPerms, err := a.permissionsFor(c.Request.Context(), userID, companyID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.ErrorCode(http.StatusInternalServerError, string(apperrors.CodeInternal), "failed to verify permissions"))
			return
		}

		if !auth.HasAllPermissions(userPerms, requiredPerms) {
			abortForbidden(c, "access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// RequireRole chains RequireAuth with a role membership check.
func (a *Auth) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	requireAuth := a.RequireAuth()
	return func(c *gin.Context) {
		requireAuth(c)
		if c.IsAborted() {
			return
		}

		roleStr := string(c.MustGet(CtxUserRole).(model.Role))
		allowed := false
		for _, r := range allowedRoles {
			if roleStr == r {
				allowed = true
				break
			}
		}
		if !allowed {
			abortForbidden(c, "access denied: insufficient role")
			return
		}
		c.Next()
	}
}

// permissionsFor consults the TTL cache before hitting the source.
func (a *Auth) permissionsFor(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) ([]string, error) {
	key := userID.String()
	if companyID != nil {
		key += "|" + companyID.String()
	}
	if entry, ok := a.permCache.Load(key); ok {
		cached := entry.(permCacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.codes, nil
		}
	}

	codes, err := a.perms.PermissionsFor(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}

	a.permCache.Store(key, permCacheEntry{
		codes:     codes,
		expiresAt: time.Now().Add(a.permCacheTTL),
	})
	return codes, nil
}

// InvalidatePermissions drops cached permissions for a user (all company
// contexts). Called after role or membership changes.
func (a *Auth) InvalidatePermissions(userID uuid.UUID) {
	prefix := userID.String()
	a.permCache.Range(func(key, _ interface{}) bool {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			a.permCache.Delete(key)
		}
		return true
	})
}
