package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL bounds how long an issued token stays valid.
const TokenTTL = 8 * time.Hour

var jwtSecret []byte

// InitJWTSecret installs the signing secret. Must be called once at startup
// before any token is issued or verified.
func InitJWTSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("JWT secret is not set")
	}
	jwtSecret = []byte(secret)
	return nil
}

// Claims is the identity a verified token resolves to.
type Claims struct {
	UserID uint
	Role   Role
}

func GenerateJWT(userID uint, role Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// VerifyJWT checks the signature and expiry and extracts identity claims.
// Any failure is terminal for the request; callers must not retry.
func VerifyJWT(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userIDFloat, ok := mapClaims["user_id"].(float64)

	if !ok {
		return nil, fmt.Errorf("invalid user ID in token claims")
	}

	roleString, ok := mapClaims["role"].(string)

	if !ok {
		return nil, fmt.Errorf("invalid role in token claims")
	}

	role, err := ParseRole(roleString)

	if err != nil {
		return nil, fmt.Errorf("invalid role in token claims")
	}

	return &Claims{UserID: uint(userIDFloat), Role: role}, nil
}
