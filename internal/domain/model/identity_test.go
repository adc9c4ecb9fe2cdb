package model

import (
	"strings"
	"testing"
)

func TestValidIdentity(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		want     bool
	}{
		{"standard 20-byte address", "0xc0ffee254729296a45a3885639ac7e10f9d54979", true},
		{"short but well formed", "0xab", true},
		{"uppercase hex", "0xDEADBEEF", true},
		{"empty", "", false},
		{"missing prefix", "c0ffee254729296a45a3885639ac7e10f9d54979", false},
		{"prefix only", "0x", false},
		{"non-hex characters", "0xzzzz", false},
		{"whitespace", "0xab cd", false},
		{"too long", "0x" + strings.Repeat("a", 80), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidIdentity(tt.identity); got != tt.want {
				t.Errorf("ValidIdentity(%q) = %v, want %v", tt.identity, got, tt.want)
			}
		})
	}
}
