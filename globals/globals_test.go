package globals

import "testing"

func TestEnvOr(t *testing.T) {
	t.Setenv("FARMERMALL_TEST_KEY", "from-env")
	if got := envOr("FARMERMALL_TEST_KEY", "fallback"); got != "from-env" {
		t.Errorf("envOr = %q, want from-env", got)
	}
	if got := envOr("FARMERMALL_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("envOr = %q, want fallback", got)
	}
}

func TestJwtSecretInitialized(t *testing.T) {
	if len(JwtSecret) == 0 {
		t.Fatal("JwtSecret must be resolved at package init")
	}
}
