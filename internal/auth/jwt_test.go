package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user 7, got %d", claims.UserID)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("expected foreign signature rejected")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	token, err := m.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Error("expected expired token rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewManager("test-secret", time.Hour).Verify("not-a-token"); err == nil {
		t.Error("expected garbage rejected")
	}
}
