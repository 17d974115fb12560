package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"
)

func newAuthTestService(t *testing.T, name string) (*AuthService, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-0123456789abcdef-0123"
	cfg.JWT.ExpireHours = 24
	cfg.JWT.RememberMeExpireHours = 720
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	userRepo := repository.NewUserRepository(db)
	return NewAuthService(cfg, userRepo, nil), userRepo
}

func TestRegisterDefaultsToConsumer(t *testing.T) {
	svc, _ := newAuthTestService(t, "auth_register")

	user, token, expiresAt, err := svc.Register(RegisterInput{
		Email:    "Fatimah@Example.com",
		Password: "Consumer123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "fatimah@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	if user.Username != "fatimah" {
		t.Fatalf("username must derive from email, got %q", user.Username)
	}
	if !user.IsConsumer || user.IsFarmer || user.IsAdmin {
		t.Fatalf("expected plain consumer account: %+v", user)
	}
	if user.Locale != "ar" {
		t.Fatalf("default locale must be ar, got %q", user.Locale)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected a live session token")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("ParseUserJWT failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthTestService(t, "auth_register_validate")

	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "Consumer123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "weak"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, _, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Consumer123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	// Same address with different casing is still a duplicate.
	if _, _, _, err := svc.Register(RegisterInput{Email: "A@B.COM", Password: "Consumer123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, userRepo := newAuthTestService(t, "auth_login")
	if _, _, _, err := svc.Register(RegisterInput{Email: "farmer@example.com", Password: "Farmer123", IsFarmer: true}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, token, _, err := svc.Login("FARMER@example.com", "Farmer123", false)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" || !user.IsFarmer {
		t.Fatalf("unexpected login result: %+v", user)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login must be stamped")
	}

	if _, _, _, err := svc.Login("farmer@example.com", "wrong", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "Farmer123", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	// A suspended account cannot sign in.
	if err := userRepo.UpdateStatus(user.ID, "suspended"); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if _, _, _, err := svc.Login("farmer@example.com", "Farmer123", false); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestLoginRememberMeExtendsExpiry(t *testing.T) {
	svc, _ := newAuthTestService(t, "auth_remember")
	if _, _, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Consumer123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, shortExpiry, err := svc.Login("a@b.com", "Consumer123", false)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	_, _, longExpiry, err := svc.Login("a@b.com", "Consumer123", true)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !longExpiry.After(shortExpiry.Add(24 * time.Hour)) {
		t.Fatalf("remember-me must extend the session: %v vs %v", shortExpiry, longExpiry)
	}
}

func TestLogoutRevokesOutstandingTokens(t *testing.T) {
	svc, userRepo := newAuthTestService(t, "auth_logout")
	user, token, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Consumer123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("ParseUserJWT failed: %v", err)
	}

	if err := svc.Logout(user.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	refreshed, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if refreshed.TokenVersion != claims.TokenVersion+1 {
		t.Fatalf("logout must bump the token version: %d vs %d", refreshed.TokenVersion, claims.TokenVersion)
	}
	if refreshed.TokenInvalidBefore == nil {
		t.Fatalf("logout must stamp the invalidation time")
	}
}

func TestChangePassword(t *testing.T) {
	svc, userRepo := newAuthTestService(t, "auth_change_password")
	user, _, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Consumer123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong", "NewSecret123"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Consumer123", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Consumer123", "NewSecret123"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	// Old sessions are revoked, the new password signs in.
	refreshed, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if refreshed.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("password change must bump the token version")
	}
	if _, _, _, err := svc.Login("a@b.com", "NewSecret123", false); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, _, err := svc.Login("a@b.com", "Consumer123", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must be rejected, got %v", err)
	}
}

func TestParseUserJWTRejectsWrongSecret(t *testing.T) {
	svc, _ := newAuthTestService(t, "auth_jwt_secret")
	other, _ := newAuthTestService(t, "auth_jwt_secret_other")
	other.cfg.JWT.SecretKey = "another-secret-key-0123456789abcdef"

	_, token, _, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Consumer123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := other.ParseUserJWT(token); err == nil {
		t.Fatalf("token signed with a different secret must be rejected")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got, err := normalizeEmail("  Ali@Example.COM "); err != nil || got != "ali@example.com" {
		t.Fatalf("unexpected result: %q %v", got, err)
	}
	for _, bad := range []string{"", "   ", "plain", "@example.com", "user@"} {
		if _, err := normalizeEmail(bad); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail for %q, got %v", bad, err)
		}
	}
}
