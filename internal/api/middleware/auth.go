package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie carries the session token for browser clients.
const TokenCookie = "academy_token"

// Decision is the outcome of checking one request.
type Decision struct {
	Allowed bool
	Subject string
	Role    string
	Reason  string
}

// Policy decides whether a request may reach a protected route.
type Policy interface {
	Check(r *http.Request) Decision
}

// AllowAll lets every request through as an anonymous admin.
type AllowAll struct{}

func (AllowAll) Check(*http.Request) Decision {
	return Decision{Allowed: true, Subject: "anonymous", Role: RoleAdmin}
}

// JWTPolicy accepts HS256 tokens from the Authorization header or the
// session cookie.
type JWTPolicy struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTPolicy(secret string, ttl time.Duration) *JWTPolicy {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTPolicy{Secret: []byte(secret), TTL: ttl}
}

// Issue signs a token for the given user.
func (p *JWTPolicy) Issue(userID uint, role string) (string, time.Time, error) {
	expires := time.Now().Add(p.TTL)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"role": role,
		"exp":  expires.Unix(),
		"iat":  time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func (p *JWTPolicy) Check(r *http.Request) Decision {
	raw := tokenFrom(r)
	if raw == "" {
		return Decision{Reason: "missing token"}
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.Secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Decision{Reason: "token expired"}
		}
		return Decision{Reason: "invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Decision{Reason: "invalid token payload"}
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	return Decision{Allowed: true, Subject: sub, Role: role}
}

// RequireAuth runs policy and stores the caller in the gin context.
func RequireAuth(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := policy.Check(c.Request)
		if !d.Allowed {
			deny(c, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		c.Set("user_id", d.Subject)
		c.Set("user_role", d.Role)
		c.Next()
	}
}
