package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenTTL is how long a visitor cookie stays valid. Carts persist
// across visits, so this is deliberately long.
const SessionTokenTTL = 30 * 24 * time.Hour

type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

func getSessionSecret() string {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		panic("FATAL: SESSION_SECRET environment variable is not set. Refusing to start with an insecure configuration.")
	}
	return secret
}

// GenerateSessionToken signs a visitor cookie carrying the session id.
func GenerateSessionToken(sessionID string) (string, error) {
	secret := getSessionSecret()

	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "carvewood-storefront",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken parses and verifies a visitor cookie.
func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	secret := getSessionSecret()

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.SessionID != "" {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
