package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"unikurs_backend/internals/configs"
	"unikurs_backend/internals/constants"
)

func TestAccessTokenCarriesClaims(t *testing.T) {
	configs.JWTSecret = "test-secret"

	userID := uuid.New()
	raw, err := IssueAccessToken(userID, "390121100001", constants.RoleStudent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if claims["user_id"] != userID.String() {
		t.Fatalf("user_id claim mismatch: %v", claims["user_id"])
	}
	if claims["hemis_id"] != "390121100001" {
		t.Fatalf("hemis_id claim mismatch: %v", claims["hemis_id"])
	}
	if claims["role"] != constants.RoleStudent {
		t.Fatalf("role claim mismatch: %v", claims["role"])
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	configs.JWTRefreshSecret = "refresh-secret"

	userID := uuid.New()
	raw, err := IssueRefreshToken(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := ParseRefreshToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != userID {
		t.Fatalf("round trip mismatch: %s != %s", got, userID)
	}
}

func TestRefreshTokenRejectsWrongSecret(t *testing.T) {
	configs.JWTRefreshSecret = "refresh-secret"
	raw, err := IssueRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	configs.JWTRefreshSecret = "another-secret"
	if _, err := ParseRefreshToken(raw); err == nil {
		t.Fatal("token signed with a different secret must not parse")
	}
}
