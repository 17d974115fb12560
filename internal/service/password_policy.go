package service

import (
	"fmt"
	"unicode"

	"github.com/mazraa-market/internal/config"
)

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e *passwordPolicyError) Error() string {
	if len(e.args) == 0 {
		return e.key
	}
	return fmt.Sprintf("%s %v", e.key, e.args)
}

func (e *passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Key returns the i18n message key describing the failed rule.
func (e *passwordPolicyError) Key() string { return e.key }

// Args returns format arguments for the message, if any.
func (e *passwordPolicyError) Args() []interface{} { return e.args }

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength <= 0 {
		minLength = 8
	}
	if len(password) < minLength {
		return &passwordPolicyError{key: "error.password_too_short", args: []interface{}{minLength}}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsNumber(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return &passwordPolicyError{key: "error.password_need_upper"}
	}
	if policy.RequireLower && !hasLower {
		return &passwordPolicyError{key: "error.password_need_lower"}
	}
	if policy.RequireNumber && !hasNumber {
		return &passwordPolicyError{key: "error.password_need_number"}
	}
	if policy.RequireSpecial && !hasSpecial {
		return &passwordPolicyError{key: "error.password_need_special"}
	}
	return nil
}
