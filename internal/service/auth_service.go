package service

import (
	"context"
	"strings"
	"time"

	"quiz-backend/internal/apperr"
	"quiz-backend/internal/auth"
	"quiz-backend/internal/models"
	"quiz-backend/internal/otp"
)

type AuthService struct {
	Users       UserStore
	Verifier    otp.Verifier
	JWTSecret   string
	TokenExpiry time.Duration
}

func NewAuthService(users UserStore, verifier otp.Verifier, secret string, expiry time.Duration) *AuthService {
	return &AuthService{Users: users, Verifier: verifier, JWTSecret: secret, TokenExpiry: expiry}
}

// StartVerification asks the verification provider to send an OTP to the
// given phone number.
func (s *AuthService) StartVerification(ctx context.Context, phone string) error {
	if !validPhone(phone) {
		return apperr.New(apperr.InvalidReference, "phone number must be in E.164 format")
	}
	if err := s.Verifier.SendVerification(ctx, phone); err != nil {
		return apperr.Wrap(apperr.Upstream, "sending verification", err)
	}
	return nil
}

// ConfirmRegister checks the OTP and, if valid, creates the account. The
// requested role goes through ParseRole, so anything but "admin"/"Admin"
// becomes a regular user.
func (s *AuthService) ConfirmRegister(ctx context.Context, phone, code, username, password, role string) (*models.User, error) {
	if !validPhone(phone) {
		return nil, apperr.New(apperr.InvalidReference, "phone number must be in E.164 format")
	}
	if strings.TrimSpace(username) == "" {
		return nil, apperr.New(apperr.InvalidReference, "username is required")
	}
	if len(password) < 8 {
		return nil, apperr.New(apperr.InvalidReference, "password must be at least 8 characters")
	}

	approved, err := s.Verifier.CheckVerification(ctx, phone, code)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "checking verification", err)
	}
	if !approved {
		return nil, apperr.New(apperr.Unauthorized, "invalid OTP")
	}

	if err := s.ensureUnusedPhone(ctx, phone); err != nil {
		return nil, err
	}
	if err := s.ensureUnusedUsername(ctx, username); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		PhoneNumber:  phone,
		Username:     username,
		PasswordHash: hash,
		Role:         models.ParseRole(role),
		XP:           0,
		QuizHistory:  []string{},
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the phone/password pair and issues a signed token.
func (s *AuthService) Login(ctx context.Context, phone, password string) (string, *models.User, error) {
	user, err := s.Users.FindByPhone(ctx, phone)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return "", nil, apperr.New(apperr.Unauthorized, "invalid credentials")
		}
		return "", nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	token, err := auth.GenerateToken(user.ID.Hex(), string(user.Role), s.JWTSecret, s.TokenExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) ensureUnusedPhone(ctx context.Context, phone string) error {
	_, err := s.Users.FindByPhone(ctx, phone)
	if err == nil {
		return apperr.New(apperr.InvalidState, "phone number already in use")
	}
	if apperr.Is(err, apperr.NotFound) {
		return nil
	}
	return err
}

func (s *AuthService) ensureUnusedUsername(ctx context.Context, username string) error {
	_, err := s.Users.FindByUsername(ctx, username)
	if err == nil {
		return apperr.New(apperr.InvalidState, "username already in use")
	}
	if apperr.Is(err, apperr.NotFound) {
		return nil
	}
	return err
}

// validPhone does a light E.164 shape check; the verification provider is
// the real authority on number validity.
func validPhone(phone string) bool {
	if len(phone) < 8 || len(phone) > 16 || phone[0] != '+' {
		return false
	}
	for _, r := range phone[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
