package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"goddit/internal/db"
	"goddit/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const CurrentUserKey = "user"

// Browser clients carry a session cookie; API clients may send a Bearer
// token instead. Both resolve to the same context user.
const tokenTTL = 15 * 24 * time.Hour

// IssueToken signs a Bearer token for the user, handed out at login.
func IssueToken(user *models.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(tokenStr, secret string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	return uint(id), nil
}

// LoadUser resolves the caller from session or Bearer token and sets the
// user on the context. It never aborts; AuthRequired does that.
func LoadUser(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint

		session := sessions.Default(c)
		if v := session.Get("user_id"); v != nil {
			if id, ok := v.(uint); ok {
				userID = id
			}
		}

		if userID == 0 {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				if id, err := parseToken(strings.TrimPrefix(header, "Bearer "), jwtSecret); err == nil {
					userID = id
				}
			}
		}

		if userID != 0 {
			var user models.User
			if err := db.DB.First(&user, userID).Error; err == nil {
				c.Set(CurrentUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests that did not resolve to a user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(CurrentUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
