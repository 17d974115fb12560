package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mazraa-market/internal/authz"
	"github.com/mazraa-market/internal/cache"
	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserJWTClaims carries the authenticated user identity inside the token.
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
	IsFarmer    bool
	IsConsumer  bool
	Locale      string
}

// ProfileUpdateInput carries optional profile changes. Nil means keep.
type ProfileUpdateInput struct {
	Username    *string
	PhoneNumber *string
	Locale      *string
}

// AuthService handles registration, login and the user session lifecycle.
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	authzService *authz.Service
}

// NewAuthService creates the auth service.
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, authzService *authz.Service) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, authzService: authzService}
}

// GenerateUserJWT signs a token for the user. expireHours <= 0 uses the
// configured default.
func (s *AuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	if expireHours <= 0 {
		expireHours = s.cfg.JWT.ExpireHours
	}
	if expireHours <= 0 {
		expireHours = 24
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseUserJWT validates a token and returns the claims.
func (s *AuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &UserJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserJWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Register creates a user account and returns a signed session token.
func (s *AuthService) Register(in RegisterInput) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, in.Password); err != nil {
		return nil, "", time.Time{}, err
	}
	if !in.IsFarmer && !in.IsConsumer {
		in.IsConsumer = true
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = usernameFromEmail(normalized)
	}
	locale := strings.TrimSpace(in.Locale)
	if locale != constants.LocaleEn {
		locale = constants.LocaleAr
	}
	user := &models.User{
		Email:        normalized,
		Username:     username,
		PasswordHash: string(hashedPassword),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		IsFarmer:     in.IsFarmer,
		IsConsumer:   in.IsConsumer,
		Locale:       locale,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}
	syncUserRoles(s.authzService, user)

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(email, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	expireHours := s.cfg.JWT.ExpireHours
	if rememberMe && s.cfg.JWT.RememberMeExpireHours > expireHours {
		expireHours = s.cfg.JWT.RememberMeExpireHours
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	syncUserRoles(s.authzService, user)

	return user, token, expiresAt, nil
}

// Logout bumps the token version so every outstanding token is rejected.
func (s *AuthService) Logout(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	now := time.Now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// Profile returns the user record.
func (s *AuthService) Profile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies the provided profile changes.
func (s *AuthService) UpdateProfile(userID uint, in ProfileUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if in.Username != nil {
		if trimmed := strings.TrimSpace(*in.Username); trimmed != "" {
			user.Username = trimmed
		}
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Locale != nil {
		locale := strings.TrimSpace(*in.Locale)
		if locale == constants.LocaleAr || locale == constants.LocaleEn {
			user.Locale = locale
		}
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the old password before setting the new one.
// All existing sessions are revoked.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || !strings.Contains(normalized, "@") || strings.HasPrefix(normalized, "@") || strings.HasSuffix(normalized, "@") {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func usernameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return fmt.Sprintf("user_%d", time.Now().Unix())
	}
	return email[:at]
}
