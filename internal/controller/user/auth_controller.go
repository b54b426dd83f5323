package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/internal/controller"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/service"
)

const (
	sessionCookieMaxAge = 3600 // 1 hour, matches the token TTL
	otpCookieMaxAge     = 300
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description Creates an account and starts an authenticated session.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "User already exists or invalid input"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	user, token, err := c.authService.Register(req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}

	ctx.SetCookie(controller.SessionCookie, token, sessionCookieMaxAge, "/", "", false, true)
	ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: "User registered successfully", Data: user})
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid mobile number or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	user, token, err := c.authService.Login(req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}

	ctx.SetCookie(controller.SessionCookie, token, sessionCookieMaxAge, "/", "", false, true)
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Login successful", Data: user})
}

// SendOTP godoc
// @Summary Send a password-reset OTP
// @Description Issues a 6-digit code valid for 5 minutes, bound to a signed cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SendOTPRequest true "Mobile number"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "User not found"
// @Router /auth/send-otp [post]
func (c *AuthController) SendOTP(ctx *gin.Context) {
	var req dto.SendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	token, err := c.authService.IssueOTP(req.Mobile)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}

	ctx.SetCookie(controller.OTPCookie, token, otpCookieMaxAge, "/", "", false, true)
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "OTP sent"})
}

// VerifyOTP godoc
// @Summary Verify a password-reset OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Mobile and code"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired OTP"
// @Router /auth/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	token, err := ctx.Cookie(controller.OTPCookie)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid or expired OTP"})
		return
	}
	if err := c.authService.VerifyOTP(token, req.Mobile, req.OTP); err != nil {
		controller.WriteError(ctx, err)
		return
	}

	ctx.SetCookie(controller.OTPCookie, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "OTP verified successfully"})
}

// ResetPassword godoc
// @Summary Reset a password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Mobile and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "User not found"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.authService.ResetPassword(req); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset successful"})
}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(controller.SessionCookie, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Session godoc
// @Summary Check the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /auth/session [get]
func (c *AuthController) Session(ctx *gin.Context) {
	token, err := ctx.Cookie(controller.SessionCookie)
	if err != nil || token == "" {
		ctx.JSON(http.StatusOK, dto.SessionResponse{IsAuthenticated: false})
		return
	}
	claims, err := c.authService.ParseSession(token)
	if err != nil {
		log.Debug().Err(err).Msg("Session check: invalid token")
		ctx.JSON(http.StatusOK, dto.SessionResponse{IsAuthenticated: false})
		return
	}
	ctx.JSON(http.StatusOK, dto.SessionResponse{
		IsAuthenticated: true,
		User: &dto.UserDTO{
			ID:     claims.UserID,
			Mobile: claims.Mobile,
			Name:   claims.Name,
			Branch: claims.Branch,
			Role:   claims.Role,
		},
	})
}
