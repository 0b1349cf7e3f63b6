package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token identifiers
)

// TokenTTL is how long an issued session token stays valid
const TokenTTL = 24 * time.Hour

// ErrEmptySecret is returned when tokens are requested without a signing secret
var ErrEmptySecret = errors.New("jwt secret is empty")

// JWT Claims
type Claims struct {
	Username             string `json:"username"` // Custom claim for the session username
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token for a given username
func GenerateJWT(username, secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	// Set token claims
	claims := Claims{
		Username: username, // Custom claim for username
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),                      // Unique token id
			Subject:   username,                              // Subject mirrors the username
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)), // Token expires in 24 hours
			IssuedAt:  jwt.NewNumericDate(now),               // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Username != "" {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrTokenInvalidClaims
}
