package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/utils/jwt"
	"github.com/edulane/edulane-server-go/pkg/response"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// User represents the authenticated principal in middleware context. The
// users table is owned by the external identity provider; this service only
// reads it.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;primaryKey"`
	Email     string         `gorm:"column:email"`
	FullName  string         `gorm:"column:full_name"`
	UserType  types.UserType `gorm:"column:user_type"`
	Active    bool           `gorm:"column:is_active"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user may manage catalog content.
func (u *User) IsStaff() bool {
	return u.UserType == types.UserTypeInstructor || u.UserType == types.UserTypeAdmin
}

const userContextKey = "auth_user"

// Global instance to be initialized once at startup
var global *AuthMiddleware

// AuthMiddleware holds dependencies for authentication middleware
type AuthMiddleware struct {
	db        *gorm.DB
	jwtSecret string
	logger    *slog.Logger
}

// Initialize sets up the global middleware instance (call once at startup)
func Initialize(db *gorm.DB, jwtSecret string, logger *slog.Logger) {
	global = &AuthMiddleware{
		db:        db,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Authenticate validates the bearer token and loads the user into context.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := global.ensureAuthenticated(c); !ok {
			return
		}
		c.Next()
	}
}

// AuthenticateOptional loads the user into context when a valid bearer token
// is present, but lets anonymous requests through untouched.
func AuthenticateOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := jwt.VerifyToken(tokenString, global.jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		var usr User
		if err := global.db.First(&usr, "id = ?", claims.UserID).Error; err != nil || !usr.Active {
			c.Next()
			return
		}

		c.Set(userContextKey, &usr)
		c.Next()
	}
}

// RequireRoles authorizes users based on their user type. Admin always has
// access; UserTypeAll admits any authenticated user.
func RequireRoles(roles ...types.UserType) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		Authenticate(),
		func(c *gin.Context) {
			usr, ok := GetUserFromContext(c)
			if !ok {
				response.ErrorWithLog(global.logger, c, http.StatusUnauthorized, "User not authenticated", nil)
				c.Abort()
				return
			}

			if usr.UserType == types.UserTypeAdmin || containsRole(roles, types.UserTypeAll) {
				c.Next()
				return
			}

			if !containsRole(roles, usr.UserType) {
				response.ErrorWithLog(global.logger, c, http.StatusForbidden, "Access denied: Insufficient permissions.", nil)
				c.Abort()
				return
			}

			c.Next()
		},
	}
}

// GetUserFromContext retrieves the authenticated user loaded by Authenticate.
func GetUserFromContext(c *gin.Context) (*User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}

	usr, ok := value.(*User)
	return usr, ok
}

func (m *AuthMiddleware) ensureAuthenticated(c *gin.Context) (*User, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		c.Abort()
		return nil, false
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	claims, err := jwt.VerifyToken(tokenString, m.jwtSecret)
	if err != nil {
		status := http.StatusUnauthorized
		message := "Invalid token."
		if errors.Is(err, jwt.ErrExpiredToken) {
			message = "Token expired."
		}
		response.ErrorWithLog(m.logger, c, status, message, err)
		c.Abort()
		return nil, false
	}

	var usr User
	if err := m.db.First(&usr, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "User not found.", nil)
		} else {
			response.ErrorWithLog(m.logger, c, http.StatusInternalServerError, "Failed to load user.", err)
		}
		c.Abort()
		return nil, false
	}

	if !usr.Active {
		response.ErrorWithLog(m.logger, c, http.StatusForbidden, "Account is deactivated.", nil)
		c.Abort()
		return nil, false
	}

	c.Set(userContextKey, &usr)
	return &usr, true
}

func containsRole(roles []types.UserType, role types.UserType) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
