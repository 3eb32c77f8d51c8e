package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"recolecta/internal/models"
)

// Context keys set by RequireAuth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

var ErrInvalidToken = errors.New("middleware: invalid token")

// Claims is the token payload.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// RoleLookup resolves the current role of an account.
type RoleLookup func(userID string) (models.Role, bool)

// TokenIssuer signs and checks HS256 tokens with one shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	roles  RoleLookup
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithRoleLookup makes the guards authorize against the role returned by
// lookup instead of the one in the token, so role changes apply to tokens
// already issued. Tokens for unknown accounts are rejected.
func (t *TokenIssuer) WithRoleLookup(lookup RoleLookup) *TokenIssuer {
	t.roles = lookup
	return t
}

func (t *TokenIssuer) GenerateToken(userID string, role models.Role) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// bearer reads the token from the Authorization header, falling back to the
// token query parameter for websocket upgrades.
func bearer(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		return strings.TrimPrefix(header, "Bearer "), true
	}
	if q := c.Query("token"); q != "" {
		return q, true
	}
	return "", false
}

// authenticate validates the token and stores its claims on c. It aborts
// and returns false on failure.
func (t *TokenIssuer) authenticate(c *gin.Context) bool {
	tokenString, ok := bearer(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	claims, err := t.ValidateToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	role := claims.Role
	if t.roles != nil {
		current, ok := t.roles(claims.UserID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown account"})
			return false
		}
		role = current
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, role)
	return true
}

// RequireAuth ensures a valid JWT is present
func (t *TokenIssuer) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if t.authenticate(c) {
			c.Next()
		}
	}
}

// RequireAuthWithRole ensures the JWT is valid and carries one of roles.
func (t *TokenIssuer) RequireAuthWithRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.authenticate(c) {
			return
		}
		if !slices.Contains(roles, RoleFrom(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// UserIDFrom returns the authenticated user id, or "" outside RequireAuth.
func UserIDFrom(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// RoleFrom returns the authenticated role, or "" outside RequireAuth.
func RoleFrom(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}
