package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const adminRole = "admin"

// ErrInvalidToken covers malformed, expired and non-admin tokens.
var ErrInvalidToken = errors.New("invalid token")

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ValidateAdminToken validates tokenString and requires the admin role.
func ValidateAdminToken(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return nil, fmt.Errorf("%w: missing admin role", ErrInvalidToken)
	}
	return claims, nil
}

// IssueAdminToken signs an HS256 admin token valid for lifetime.
func IssueAdminToken(subject, jwtSecret string, lifetime time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(lifetime)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": adminRole,
		"jti":  GenerateULID(),
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, expires, nil
}
