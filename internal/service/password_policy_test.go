package service

import (
	"errors"
	"testing"

	"github.com/mazraa-market/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	cases := []struct {
		password string
		key      string
	}{
		{"Ab1!xyzw", ""},
		{"Ab1!", "error.password_too_short"},
		{"ab1!xyzw", "error.password_need_upper"},
		{"AB1!XYZW", "error.password_need_lower"},
		{"Abc!xyzw", "error.password_need_number"},
		{"Ab1cxyzw", "error.password_need_special"},
	}

	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.key == "" {
			if err != nil {
				t.Fatalf("%q: expected valid, got %v", tc.password, err)
			}
			continue
		}
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("%q: expected ErrWeakPassword, got %v", tc.password, err)
		}
		var policyErr *passwordPolicyError
		if !errors.As(err, &policyErr) || policyErr.Key() != tc.key {
			t.Fatalf("%q: expected key %s, got %v", tc.password, tc.key, err)
		}
	}
}

func TestValidatePasswordDefaults(t *testing.T) {
	// A zero policy still enforces a minimum length.
	if err := validatePassword(config.PasswordPolicyConfig{}, "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{}, "longenough"); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	var policyErr *passwordPolicyError
	err := validatePassword(config.PasswordPolicyConfig{MinLength: 12}, "short")
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected passwordPolicyError, got %v", err)
	}
	if len(policyErr.Args()) != 1 || policyErr.Args()[0] != 12 {
		t.Fatalf("expected the configured minimum in args, got %v", policyErr.Args())
	}
}
