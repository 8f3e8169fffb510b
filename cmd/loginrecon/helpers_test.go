package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}

	t.Setenv("LOGINRECON_TEST_DIR", "/tmp/loginrecon")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty path", in: "", want: ""},
		{name: "plain path unchanged", in: "/var/data/recon.db", want: "/var/data/recon.db"},
		{name: "tilde expands to home", in: "~/recon.db", want: filepath.Join(home, "recon.db")},
		{name: "bare tilde expands to home", in: "~", want: home},
		{name: "env var expands", in: "$LOGINRECON_TEST_DIR/recon.db", want: "/tmp/loginrecon/recon.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.in); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
