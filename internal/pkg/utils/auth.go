package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/spf13/viper"
)

type AdminClaims struct {
	Secret string `json:"secret"`
	jwt.StandardClaims
}

// NewAuthToken signs an admin token with the configured signing key.
func NewAuthToken(secret string, ttl time.Duration) (string, error) {
	claims := AdminClaims{
		Secret: secret,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: time.Now().Unix(),
		},
	}
	if ttl != 0 {
		claims.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(viper.GetString(constants.ViperSigningKey)))
	if err != nil {
		return "", fmt.Errorf("SignedString: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(raw string) (*AdminClaims, error) {
	claims := new(AdminClaims)
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(viper.GetString(constants.ViperSigningKey)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnauthorized, err.Error())
	}
	if !token.Valid {
		return nil, constants.ErrUnauthorized
	}

	return claims, nil
}
