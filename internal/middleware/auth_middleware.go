package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/errors"
	"github.com/scentvault/scentvault-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey      = "user_id"
	UserEmailKey   = "user_email"
	UserRoleKey    = "user_role"
	IsAnonymousKey = "is_anonymous"
)

// UserSyncer maps a verified identity-provider token to a local user
type UserSyncer interface {
	SyncUser(claims *util.AuthClaims) (*model.User, error)
}

type AuthMiddleware struct {
	jwtSecret string
	issuer    string
	users     UserSyncer
}

func NewAuthMiddleware(jwtSecret, issuer string, users UserSyncer) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		issuer:    issuer,
		users:     users,
	}
}

// extractToken reads "Bearer <token>" or, for WebSocket upgrades, the token query parameter
func extractToken(c *gin.Context) (token string, malformed bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return c.Query("token"), false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true
	}
	return parts[1], false
}

// Authenticate validates the provider token (required) and loads the local user
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, malformed := extractToken(c)
		if malformed {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "인증 형식이 올바르지 않습니다")
			c.Abort()
			return
		}
		if token == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "로그인이 필요합니다")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret, m.issuer)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			// 토큰 만료 에러인 경우 명확히 표시
			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "로그인이 만료되었습니다")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "유효하지 않은 인증 토큰입니다")
			}
			c.Abort()
			return
		}

		user, err := m.users.SyncUser(claims)
		if err != nil {
			log.Error("Failed to sync authenticated user", err, map[string]interface{}{
				"path":    c.Request.URL.Path,
				"auth_id": claims.Subject,
			})
			errors.InternalError(c, "사용자 정보를 불러오지 못했습니다")
			c.Abort()
			return
		}

		setUser(c, user)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id":      user.ID,
			"role":         user.Role,
			"is_anonymous": user.IsAnonymous,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates the token if present
// - valid token: sets user info in context
// - missing or invalid token: continues as guest
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, malformed := extractToken(c)
		if malformed || token == "" {
			c.Next()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret, m.issuer)
		if err != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		user, err := m.users.SyncUser(claims)
		if err != nil {
			log.Warn("Failed to sync user - continuing as guest", map[string]interface{}{
				"auth_id": claims.Subject,
				"error":   err.Error(),
			})
			c.Next()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

func setUser(c *gin.Context, user *model.User) {
	c.Set(UserIDKey, user.ID)
	c.Set(UserEmailKey, user.Email)
	c.Set(UserRoleKey, user.Role)
	c.Set(IsAnonymousKey, user.IsAnonymous)
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "권한 정보를 찾을 수 없습니다")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "접근 권한이 없습니다")
		c.Abort()
	}
}

// RequireAdmin shorthand for RequireRole(model.RoleAdmin)
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(model.RoleAdmin)
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

// IsAnonymous reports whether the authenticated session is an anonymous provider session
func IsAnonymous(c *gin.Context) bool {
	return c.GetBool(IsAnonymousKey)
}
