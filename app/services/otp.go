package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/chhotalabhavik/cleanout/config"
	"github.com/chhotalabhavik/cleanout/pkg/crypt"
)

// generateOTP returns a 6-digit zero-padded one-time code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1e6))
	if err != nil {
		return "", fmt.Errorf("otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// sealOTP encrypts a code for storage and returns it with its expiry.
func sealOTP(code string) (string, time.Time, error) {
	sealed, err := crypt.Encrypt(code)
	if err != nil {
		return "", time.Time{}, err
	}
	expiry := time.Now().Add(time.Duration(config.OTPTTLMinutes()) * time.Minute)
	return sealed, expiry, nil
}

// otpMatches decrypts the stored code and compares. Returns false for a
// missing, undecryptable or mismatched code; expiry is the caller's
// concern.
func otpMatches(sealed, candidate string) bool {
	if sealed == "" || candidate == "" {
		return false
	}
	plain, err := crypt.Decrypt(sealed)
	if err != nil {
		return false
	}
	return plain == candidate
}

// otpExpired reports whether the stored code is past its expiry.
func otpExpired(expiresAt *time.Time) bool {
	return expiresAt == nil || time.Now().After(*expiresAt)
}
