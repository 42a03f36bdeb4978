package auth

import (
	"testing"

	"github.com/erazemk/servis/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", 42, "mojca", model.RoleTechnician)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Username != "mojca" {
		t.Errorf("expected username 'mojca', got %q", claims.Username)
	}
	if claims.Role != model.RoleTechnician {
		t.Errorf("expected role 'technician', got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected non-empty JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 1, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestUniqueJTI(t *testing.T) {
	t1, _ := GenerateToken("secret", 1, "admin", model.RoleAdmin)
	t2, _ := GenerateToken("secret", 1, "admin", model.RoleAdmin)

	c1, _ := ValidateToken("secret", t1)
	c2, _ := ValidateToken("secret", t2)
	if c1.ID == c2.ID {
		t.Error("expected distinct JTIs for separate tokens")
	}
}
