package services

import (
	"errors"
	"time"

	"github.com/chhotalabhavik/cleanout/app/jobs"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/pkg/auth"
	"github.com/chhotalabhavik/cleanout/pkg/crypt"
	"gorm.io/gorm"
)

// resetGrant replaces a verified reset code on the account; the password
// overwrite must present within its window or restart the handshake.
const (
	resetGrant    = "RESET_GRANTED"
	resetGrantTTL = 5 * time.Minute
)

// AuthService handles login, token refresh and the password-reset OTP
// handshake.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	ID           uint   `json:"id"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates by phone and password.
func (s *AuthService) Login(phone, password string) (LoginResult, error) {
	user, err := s.users.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResult{}, Fail("Invalid contact number")
	}
	if err != nil {
		return LoginResult{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return LoginResult{}, Fail("Invalid password")
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{ID: user.ID, Role: user.Role, Token: token, RefreshToken: refresh}, nil
}

// Refresh issues a fresh access token from a valid refresh token.
func (s *AuthService) Refresh(refreshToken string) (LoginResult, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return LoginResult{}, Fail("Invalid token")
	}

	user, err := s.users.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResult{}, Fail("User not found")
	}
	if err != nil {
		return LoginResult{}, err
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{ID: user.ID, Role: user.Role, Token: token, RefreshToken: refreshToken}, nil
}

// SendResetOTP stores an encrypted reset code on the account and mails
// it out through the outbox.
func (s *AuthService) SendResetOTP(phone string) error {
	user, err := s.users.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("User not found")
	}
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	sealed, expiry, err := sealOTP(code)
	if err != nil {
		return err
	}

	user.OTP = sealed
	user.OTPExpiresAt = &expiry
	if err := s.users.Save(&user); err != nil {
		return err
	}

	jobs.NotificationJob{
		Addresses: []string{user.Phone},
		Purpose:   jobs.PurposeResetPassword,
		Message:   "Your password reset code is " + code,
	}.Dispatch()
	return nil
}

// VerifyResetOTP checks the code. A correct code is consumed and
// replaced with a short-lived grant that ResetPassword requires.
func (s *AuthService) VerifyResetOTP(phone, code string) error {
	user, err := s.users.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("User not found")
	}
	if err != nil {
		return err
	}

	if otpExpired(user.OTPExpiresAt) || !otpMatches(user.OTP, code) {
		return Fail("Incorrect OTP")
	}

	sealed, err := crypt.Encrypt(resetGrant)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(resetGrantTTL)
	user.OTP = sealed
	user.OTPExpiresAt = &expiry
	return s.users.Save(&user)
}

// ResetPassword overwrites the password. It requires the live grant left
// by VerifyResetOTP and consumes it, so the overwrite cannot happen
// without the OTP handshake and cannot happen twice.
func (s *AuthService) ResetPassword(phone, newPassword string) error {
	user, err := s.users.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail("User not found")
	}
	if err != nil {
		return err
	}

	if otpExpired(user.OTPExpiresAt) || !otpMatches(user.OTP, resetGrant) {
		return Fail("OTP verification required")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	user.OTP = ""
	user.OTPExpiresAt = nil
	return s.users.Save(&user)
}
