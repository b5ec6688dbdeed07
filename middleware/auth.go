package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/models"
	"github.com/kgn-corner/restaurant-api/services"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Role string `json:"role"`
}

// Validate accepts any role; authorization uses the stored user, not the token.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken rejects requests without a valid bearer token and
// attaches the token's user to the context.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	return newAuthMiddleware(cfg, false)
}

// OptionalAuth attaches the caller when a bearer token is present.
// A missing token passes through; an invalid one is rejected.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return newAuthMiddleware(cfg, true)
}

func newAuthMiddleware(cfg *config.Config, optional bool) gin.HandlerFunc {
	secret := cfg.SigningSecret()
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		// issuer and audience always have defaults, so this is a programming error
		panic("failed to set up the jwt validator: " + err.Error())
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		code, message := "INVALID_TOKEN", "Failed to validate JWT."
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code, message = "MISSING_TOKEN", "Authorization token is required"
		} else {
			slog.WarnContext(r.Context(), "encountered error while validating JWT", slog.String("error", err.Error()))
		}
		writeAuthError(w, http.StatusUnauthorized, code, message)
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(optional),
	)

	return func(c *gin.Context) {
		reached := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			reached = true
			c.Request = r

			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				// optional auth without a token
				c.Next()
				return
			}

			user, err := resolveUser(r.Context(), claims.RegisteredClaims.Subject)
			if err != nil {
				abortUnauthorized(c, "INVALID_TOKEN", "User for this token no longer exists")
				return
			}

			c.Set(userIDKey, user.ID)
			c.Set(userKey, user)
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !reached {
			c.Abort()
		}
	}
}

func resolveUser(ctx context.Context, subject string) (*models.User, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return nil, &AuthError{Code: "INVALID_TOKEN", Message: "Token subject is not a user id"}
	}
	return services.GetUserByID(ctx, config.GetDB(), uint(id))
}

// RequireRole is a middleware that checks the authenticated user has one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Insufficient permissions to access this resource",
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
	}
}

// GetUserID extracts the authenticated user's ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a uint"}
	}

	return id, nil
}

// GetCurrentUser extracts the authenticated user from the Gin context
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

// CurrentUserOrNil returns the authenticated user, or nil for anonymous callers
func CurrentUserOrNil(c *gin.Context) *models.User {
	user, err := GetCurrentUser(c)
	if err != nil {
		return nil
	}
	return user
}

// SetCurrentUser stores user in the context the same way the token middleware does
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userIDKey, user.ID)
	c.Set(userKey, user)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := `{"success":false,"message":"` + message + `","error":{"code":"` + code + `","message":"` + message + `"}}`
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write error response", slog.String("error", err.Error()))
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
