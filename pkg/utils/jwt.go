package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Token scopes: three disjoint identity systems share the signing key but
// never each other's scope.
const (
	ScopeAdmin    = "admin"
	ScopeDriver   = "driver"
	ScopeCustomer = "customer"
)

func GenerateJWT(subjectID, role, scope string) (string, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return "", fmt.Errorf("SECRET_KEY is not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    subjectID,
		"role":  role,
		"scope": scope,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func ParseJWT(tokenString string) (jwt.MapClaims, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("SECRET_KEY is not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if token == nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	if err := claims.Valid(); err != nil {
		return nil, fmt.Errorf("token claims invalid: %w", err)
	}

	return claims, nil
}

// ParseJWTScoped parses the token and rejects it unless it carries the
// expected scope claim.
func ParseJWTScoped(tokenString, scope string) (jwt.MapClaims, error) {
	claims, err := ParseJWT(tokenString)
	if err != nil {
		return nil, err
	}

	got, _ := claims["scope"].(string)
	if got != scope {
		return nil, errors.New("token scope mismatch")
	}

	return claims, nil
}
