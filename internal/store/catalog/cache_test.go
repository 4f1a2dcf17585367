package catalog

import (
	"testing"
	"time"
)

func TestCacheTTL(t *testing.T) {
	cases := []struct {
		name string
		env  string
		want time.Duration
	}{
		{"unset uses default", "", 5 * time.Minute},
		{"duration honored", "10m", 10 * time.Minute},
		{"seconds form honored", "600s", 10 * time.Minute},
		{"garbage falls back", "not-a-duration", 5 * time.Minute},
		{"bare integer falls back", "300", 5 * time.Minute},
		{"negative falls back", "-5m", 5 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CATALOG_CACHE_TTL", tc.env)
			if got := cacheTTL(); got != tc.want {
				t.Fatalf("cacheTTL() with %q = %v, want %v", tc.env, got, tc.want)
			}
		})
	}
}
