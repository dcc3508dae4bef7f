package controllers

import (
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/ctx"
	"github.com/chhotalabhavik/cleanout/pkg/response"
)

// AuthController handles login, token refresh and the password-reset
// handshake.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

func (ac *AuthController) Login(c *ctx.Context) {
	var body struct {
		Phone    string `json:"phone"    validate:"required,digits=10"`
		Password string `json:"password" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	result, err := ac.service.Login(body.Phone, body.Password)
	if err != nil {
		renderError(c, err)
		return
	}

	c.OK("Logged In", response.M{
		"id":           result.ID,
		"role":         result.Role,
		"token":        result.Token,
		"refreshToken": result.RefreshToken,
	})
}

func (ac *AuthController) Refresh(c *ctx.Context) {
	var body struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	result, err := ac.service.Refresh(body.RefreshToken)
	if err != nil {
		renderError(c, err)
		return
	}

	c.OK("Logged In", response.M{
		"id":           result.ID,
		"role":         result.Role,
		"token":        result.Token,
		"refreshToken": result.RefreshToken,
	})
}

// Logout is stateless: the client drops its tokens, the server just
// acknowledges.
func (ac *AuthController) Logout(c *ctx.Context) {
	c.OK("Logged out", nil)
}

func (ac *AuthController) SendResetOTP(c *ctx.Context) {
	var body struct {
		Phone string `json:"phone" validate:"required,digits=10"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := ac.service.SendResetOTP(body.Phone); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Sent OTP", nil)
}

func (ac *AuthController) VerifyResetOTP(c *ctx.Context) {
	var body struct {
		Phone string `json:"phone" validate:"required,digits=10"`
		OTP   string `json:"otp"   validate:"required,digits=6"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := ac.service.VerifyResetOTP(body.Phone, body.OTP); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Correct OTP", nil)
}

func (ac *AuthController) ResetPassword(c *ctx.Context) {
	var body struct {
		Phone    string `json:"phone"    validate:"required,digits=10"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := ac.service.ResetPassword(body.Phone, body.Password); err != nil {
		renderError(c, err)
		return
	}
	c.OK("Updated password", nil)
}
