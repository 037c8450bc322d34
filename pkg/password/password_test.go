package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Sup3r$ecret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "Sup3r$ecret" {
		t.Fatal("hash equals plaintext")
	}
	if !Verify("Sup3r$ecret", hash) {
		t.Fatal("Verify rejected the correct password")
	}
	if Verify("wrong-password", hash) {
		t.Fatal("Verify accepted a wrong password")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if Verify("anything", "not-a-bcrypt-hash") {
		t.Fatal("Verify accepted a malformed hash")
	}
}

func TestValidateStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
		contains string
	}{
		{"too short", "Ab1$", false, "8 characters"},
		{"no uppercase", "abcdef1$", false, "uppercase"},
		{"no lowercase", "ABCDEF1$", false, "lowercase"},
		{"no digit", "Abcdefg$", false, "digit"},
		{"no symbol", "Abcdefg1", false, "symbol"},
		{"strong", "Abcdef1$", true, "strong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateStrength(tt.password)
			if res.IsValid != tt.valid {
				t.Fatalf("ValidateStrength(%q).IsValid = %v, want %v", tt.password, res.IsValid, tt.valid)
			}
			if !strings.Contains(res.Message, tt.contains) {
				t.Fatalf("message %q does not mention %q", res.Message, tt.contains)
			}
		})
	}
}

func TestValidateStrengthReportsFirstViolationOnly(t *testing.T) {
	// Missing everything: only the length rule should be reported.
	res := ValidateStrength("abc")
	if res.IsValid {
		t.Fatal("expected invalid")
	}
	if !strings.Contains(res.Message, "8 characters") {
		t.Fatalf("expected the length message first, got %q", res.Message)
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(64)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	b, err := GenerateSecureToken(64)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	if a == b {
		t.Fatal("two generated tokens are identical")
	}
	if len(a) < 64 {
		t.Fatalf("token too short: %d", len(a))
	}
}

func TestIsDifferent(t *testing.T) {
	hash, err := Hash("Sup3r$ecret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if IsDifferent("Sup3r$ecret", hash) {
		t.Fatal("same password reported as different")
	}
	if !IsDifferent("An0ther$ecret", hash) {
		t.Fatal("different password reported as same")
	}
}
