package service

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"unikurs_backend/internals/configs"
)

const (
	AccessTokenTTL  = 2 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// IssueAccessToken signs an access token carrying the role claim, so the
// frontend can route by role without an extra profile call.
func IssueAccessToken(userID uuid.UUID, hemisID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID.String(),
		"hemis_id": hemisID,
		"role":     role,
		"exp":      time.Now().Add(AccessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

func IssueRefreshToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(RefreshTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTRefreshSecret))
}

// ParseRefreshToken verifies the refresh token and returns the user id.
func ParseRefreshToken(raw string) (uuid.UUID, error) {
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTRefreshSecret), nil
	}); err != nil {
		return uuid.Nil, err
	}
	idRaw, _ := claims["user_id"].(string)
	return uuid.Parse(idRaw)
}
