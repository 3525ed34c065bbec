package validator

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "alice", "alice@", "@example.com", "a b@example.com"} {
		if err := ValidateEmail(bad); err != ErrInvalidEmail {
			t.Fatalf("expected ErrInvalidEmail for %q, got %v", bad, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("alice_99"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"ab", "has space", strings.Repeat("x", 31)} {
		if err := ValidateUsername(bad); err != ErrInvalidUsername {
			t.Fatalf("expected ErrInvalidUsername for %q, got %v", bad, err)
		}
	}
}

func TestValidateReason(t *testing.T) {
	if err := ValidateReason("quarterly top-up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateReason(""); err != ErrReasonRequired {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
	if err := ValidateReason(strings.Repeat("x", 501)); err != ErrReasonTooLong {
		t.Fatalf("expected ErrReasonTooLong, got %v", err)
	}
}
