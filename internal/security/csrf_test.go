package security

import (
	"testing"
)

func TestCSRFGenerateAndValidate(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	token, err := g.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	tampered := "0" + token[1:]
	if tampered == token {
		tampered = "1" + token[1:]
	}

	tests := []struct {
		name      string
		sessionID string
		token     string
		want      bool
	}{
		{"valid token", "session-abc", token, true},
		{"wrong session", "session-xyz", token, false},
		{"tampered token", "session-abc", tampered, false},
		{"empty token", "session-abc", "", false},
		{"empty session", "", token, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.ValidateToken(tt.sessionID, tt.token); got != tt.want {
				t.Errorf("ValidateToken(%q, ...) = %v, want %v", tt.sessionID, got, tt.want)
			}
		})
	}
}

func TestCSRFTokenIsDeterministic(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	first, err := g.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	second, err := g.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if first != second {
		t.Errorf("GenerateToken() = %q, want %q on repeat call", second, first)
	}

	other := NewCSRFGenerator("other-secret")
	token, err := other.GenerateToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == first {
		t.Error("tokens from different secrets should differ")
	}

	if _, err := g.GenerateToken(""); err == nil {
		t.Error("GenerateToken(\"\") expected error")
	}
}
