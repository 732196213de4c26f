package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bloomfeed/profile-api/pkg/response"
)

const (
	ctxProfileIDKey = "profile_id"
	ctxIsStaffKey   = "is_staff"
)

// ProfileClaims is the bearer token payload. Subject is the profile id.
type ProfileClaims struct {
	jwt.RegisteredClaims
	Staff bool `json:"staff"`
}

// AuthMiddleware parses an optional Bearer token and stores the caller's
// profile id and staff flag in the gin context. It never rejects by itself;
// enforcement belongs to the owner/staff guards below.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if claims, err := parseToken(token, jwtSecret); err == nil {
				c.Set(ctxProfileIDKey, claims.Subject)
				c.Set(ctxIsStaffKey, claims.Staff)
			}
		}
		c.Next()
	}
}

func parseToken(token, secret string) (*ProfileClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &ProfileClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*ProfileClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// CallerProfileID returns the authenticated caller's profile id, if any.
func CallerProfileID(c *gin.Context) (string, bool) {
	id := c.GetString(ctxProfileIDKey)
	return id, id != ""
}

// IsStaff reports whether the caller carries the staff flag.
func IsStaff(c *gin.Context) bool {
	return c.GetBool(ctxIsStaffKey)
}

// IsOwnerOrStaff reports whether the caller owns profileID or is staff.
func IsOwnerOrStaff(c *gin.Context, profileID string) bool {
	if IsStaff(c) {
		return true
	}
	id, ok := CallerProfileID(c)
	return ok && id == profileID
}

// RequireStaff aborts with a forbidden envelope unless the caller is staff.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaff(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, nil))
			return
		}
		c.Next()
	}
}
