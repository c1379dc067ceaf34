package testutil

import (
	"os"
	"testing"
)

// WithEnv points key at val (an empty val unsets it) and returns the func
// that puts the previous value back:
//
//	defer testutil.WithEnv(t, "XDG_CONFIG_HOME", t.TempDir())()
func WithEnv(t *testing.T, key, val string) func() {
	t.Helper()
	old, had := os.LookupEnv(key)
	if val == "" {
		_ = os.Unsetenv(key)
	} else {
		_ = os.Setenv(key, val)
	}
	return func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}
}
