package utils

import (
	"errors"
	"time"

	"courtconnect/models"

	"github.com/golang-jwt/jwt"
)

// GenerateToken creates a signed JWT carrying the caller identity.
// The token expires after the specified duration.
func GenerateToken(caller models.Caller, secret string, duration time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	claims := jwt.MapClaims{
		"sub":      caller.ID,
		"username": caller.Username,
		"email":    caller.Email,
		"role":     caller.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString, secret string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
}

// ExtractCallerFromToken returns the caller identity held in a valid JWT.
func ExtractCallerFromToken(tokenString, secret string) (models.Caller, error) {
	token, err := ValidateToken(tokenString, secret)
	if err != nil {
		return models.Caller{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Caller{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Caller{}, errors.New("token does not contain a valid 'sub' claim")
	}

	caller := models.Caller{ID: sub, Role: models.RoleStudent}
	if v, ok := claims["username"].(string); ok {
		caller.Username = v
	}
	if v, ok := claims["email"].(string); ok {
		caller.Email = v
	}
	if v, ok := claims["role"].(string); ok && v != "" {
		caller.Role = models.Role(v)
	}
	return caller, nil
}
