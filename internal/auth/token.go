package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential covers every verification failure. Callers must not
// distinguish between a missing, malformed, expired or forged credential.
var ErrInvalidCredential = errors.New("invalid credential")

// Authenticator resolves a connection credential to a user identity.
type Authenticator interface {
	Authenticate(credential string) (uint, error)
}

// Claims is the payload of tokens issued by the REST API.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type JWTAuthenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Authenticate verifies signature and expiry and returns the user_id claim.
func (a *JWTAuthenticator) Authenticate(credential string) (uint, error) {
	credential = strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))
	if credential == "" {
		return 0, ErrInvalidCredential
	}

	claims := &Claims{}
	token, err := a.parser.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredential
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidCredential
	}
	return claims.UserID, nil
}

// GenerateToken signs a token the authenticator accepts.
func GenerateToken(secret string, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "chat-realtime",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ExtractCredential reads the token from the "token" query parameter,
// falling back to the Authorization header.
func ExtractCredential(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return r.Header.Get("Authorization")
}
