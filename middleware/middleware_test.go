package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmermall/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, userID, role string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthenticateSetsContext(t *testing.T) {
	token := signToken(t, "u1", "farmer", time.Now().Add(time.Hour))

	var gotUser, gotRole string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRole, _ = r.Context().Value(globals.RoleKey).(string)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "u1" || gotRole != "farmer" {
		t.Errorf("context = (%q, %q), want (u1, farmer)", gotUser, gotRole)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler should not run without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	token := signToken(t, "u1", "buyer", time.Now().Add(-time.Hour))

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler should not run with an expired token")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	token := signToken(t, "u1", "buyer", time.Now().Add(time.Hour))

	ran := false
	handler := RequireRole("farmer", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ran = true
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if ran {
		t.Error("handler ran despite role mismatch")
	}

	// Matching role passes
	token = signToken(t, "u2", "farmer", time.Now().Add(time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusOK || !ran {
		t.Errorf("farmer token rejected: status %d, ran %v", rec.Code, ran)
	}
}

func TestValidateJWT(t *testing.T) {
	token := signToken(t, "u9", "farmer", time.Now().Add(time.Hour))

	claims, err := ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("ValidateJWT error: %v", err)
	}
	if claims.UserID != "u9" || claims.Role != "farmer" {
		t.Errorf("claims = (%q, %q), want (u9, farmer)", claims.UserID, claims.Role)
	}

	if _, err := ValidateJWT(""); err == nil {
		t.Error("empty token should fail")
	}
	if _, err := ValidateJWT("Bearer garbage"); err == nil {
		t.Error("garbage token should fail")
	}
}
