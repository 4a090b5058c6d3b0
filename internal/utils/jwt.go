package utils

import (
	"errors"
	"strings"

	"progress-service/internal/configs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is required")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(configs.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// CurrentUserID resolves the caller's identity. The gateway forwards
// X-User-ID on protected routes; direct callers may present a bearer token
// instead.
func CurrentUserID(c *gin.Context) (string, error) {
	if userID := c.GetHeader("X-User-ID"); userID != "" {
		return userID, nil
	}

	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		return "", errors.New("authentication required")
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
