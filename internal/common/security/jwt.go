package security

import (
	"errors"
	"time"

	"remixarena/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues a token carrying the user id and the on-platform
// address. The address is what services receive as the caller identity.
func GenerateToken(userID, address string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"address": address,
		"exp":     time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetAddressFromClaims(claims jwt.MapClaims) (string, error) {
	address, ok := claims["address"].(string)
	if !ok {
		return "", errors.New("address claim is missing or not a string")
	}
	return address, nil
}
