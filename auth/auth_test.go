package auth

import (
	"testing"
	"time"

	"farmermall/middleware"
	"farmermall/models"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hashed == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if !VerifyPassword(hashed, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hashed, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	user := models.User{ID: "u1", Email: "a@b.c", Role: models.RoleFarmer}

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := middleware.ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("token failed validation: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@b.c" || claims.Role != models.RoleFarmer {
		t.Errorf("claims = %+v, want id u1, email a@b.c, role farmer", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("token missing expiry or issue time")
	}
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime < 6*24*time.Hour || lifetime > 8*24*time.Hour {
		t.Errorf("token lifetime = %v, want about 7 days", lifetime)
	}
}
