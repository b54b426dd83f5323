package dto

type RegisterRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Branch   string `json:"branch" binding:"required"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SendOTPRequest struct {
	Mobile string `json:"mobile" binding:"required"`
}

type VerifyOTPRequest struct {
	Mobile string `json:"mobile" binding:"required"`
	OTP    string `json:"otp" binding:"required"`
}

type ResetPasswordRequest struct {
	Mobile      string `json:"mobile" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type SessionResponse struct {
	IsAuthenticated bool     `json:"isAuthenticated"`
	User            *UserDTO `json:"user,omitempty"`
}
