package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/auth"
	"github.com/chhotalabhavik/cleanout/pkg/crypt"
)

func createCredentialedUser(t *testing.T, db *gorm.DB, phone, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := models.User{UserName: "Asha", Phone: phone, Password: hash, Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestLoginAndRefresh(t *testing.T) {
	db := setupDB(t)
	user := createCredentialedUser(t, db, "9000000001", "secret123")
	svc := services.NewAuthService()

	_, err := svc.Login("9999999999", "secret123")
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid contact number", msg)

	_, err = svc.Login("9000000001", "wrong")
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid password", msg)

	result, err := svc.Login("9000000001", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.ID)
	assert.Equal(t, models.RoleUser, result.Role)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)

	refreshed, err := svc.Refresh(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEmpty(t, refreshed.Token)

	_, err = svc.Refresh("not-a-token")
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid token", msg)
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupDB(t)
	createCredentialedUser(t, db, "9000000001", "secret123")
	svc := services.NewAuthService()

	require.NoError(t, svc.SendResetOTP("9000000001"))

	// Plant a known code so the test can present it.
	sealed, err := crypt.Encrypt("424242")
	require.NoError(t, err)
	expiry := time.Now().Add(10 * time.Minute)
	require.NoError(t, db.Model(&models.User{}).Where("phone = ?", "9000000001").
		Updates(map[string]interface{}{"otp": sealed, "otp_expires_at": expiry}).Error)

	err = svc.VerifyResetOTP("9000000001", "111111")
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Incorrect OTP", msg)

	// A wrong attempt leaves the code in place for another try.
	require.NoError(t, svc.VerifyResetOTP("9000000001", "424242"))

	// A correct attempt consumes it.
	err = svc.VerifyResetOTP("9000000001", "424242")
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Incorrect OTP", msg)

	require.NoError(t, svc.ResetPassword("9000000001", "brandnew1"))

	_, err = svc.Login("9000000001", "secret123")
	require.Error(t, err)
	result, err := svc.Login("9000000001", "brandnew1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// The grant is consumed with the overwrite.
	err = svc.ResetPassword("9000000001", "another99")
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "OTP verification required", msg)
}

func TestResetPasswordRequiresVerifiedOTP(t *testing.T) {
	db := setupDB(t)
	createCredentialedUser(t, db, "9000000001", "secret123")
	svc := services.NewAuthService()

	// No handshake at all.
	err := svc.ResetPassword("9000000001", "hijacked1")
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "OTP verification required", msg)

	// A pending, unverified code is not a grant.
	require.NoError(t, svc.SendResetOTP("9000000001"))
	err = svc.ResetPassword("9000000001", "hijacked1")
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "OTP verification required", msg)

	// An expired grant is no grant.
	sealed, err := crypt.Encrypt("RESET_GRANTED")
	require.NoError(t, err)
	expiry := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).Where("phone = ?", "9000000001").
		Updates(map[string]interface{}{"otp": sealed, "otp_expires_at": expiry}).Error)
	err = svc.ResetPassword("9000000001", "hijacked1")
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "OTP verification required", msg)

	result, err := svc.Login("9000000001", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestRegisterRejectsDuplicatePhone(t *testing.T) {
	db := setupDB(t)
	createCredentialedUser(t, db, "9000000001", "secret123")

	_, err := services.NewUserService().Register(services.RegisterUserInput{
		UserName: "Other", Phone: "9000000001", Password: "secret123",
		Society: "Green Park", Area: "Navrangpura", Pincode: "380009",
		City: "Ahmedabad", State: "Gujarat",
	})
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Registered phone number already", msg)
}

func TestRegisterCreatesAddress(t *testing.T) {
	setupDB(t)

	user, err := services.NewUserService().Register(services.RegisterUserInput{
		UserName: "Asha", Phone: "9000000002", Password: "secret123",
		Society: "Green Park", Area: "Navrangpura", Pincode: "380009",
		City: "Ahmedabad", State: "Gujarat",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	address, err := services.NewUserService().Address(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "380009", address.Pincode)
}
