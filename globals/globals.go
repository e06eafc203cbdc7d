package globals

import (
	"context"
	"os"

	"github.com/joho/godotenv"
)

// JwtSecret signs and verifies session tokens. Assigned in init so a
// .env file is loaded before the environment is read; package-level var
// initializers would run first and miss it.
var JwtSecret []byte

func init() {
	_ = godotenv.Load()
	JwtSecret = []byte(envOr("JWT_SECRET", "FARMER_MALL_SECRET_KEY"))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

var Ctx = context.Background()
