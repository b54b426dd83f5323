// Package controller holds the helpers shared by the user and admin HTTP
// controllers: error-to-status mapping and the session context accessors.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopsetu/checklist/internal/apperr"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/service"
)

// SessionCookie is the httpOnly cookie carrying the session token.
const SessionCookie = "session_token"

// OTPCookie carries the signed OTP challenge during password reset.
const OTPCookie = "otp_token"

const currentUserKey = "currentUser"

// WriteError maps a service error onto the HTTP response. Persistence errors
// keep their diagnostic detail in the details list.
func WriteError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Validation:
		status = http.StatusBadRequest
	case apperr.Auth:
		status = http.StatusUnauthorized
	case apperr.NotFound:
		status = http.StatusNotFound
	}

	resp := dto.ErrorResponse{Message: apperr.MessageOf(err)}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Err != nil {
		resp.Details = []string{appErr.Err.Error()}
	}
	ctx.JSON(status, resp)
}

// SetCurrentUser stores the authenticated session claims on the context.
func SetCurrentUser(ctx *gin.Context, claims *service.SessionClaims) {
	ctx.Set(currentUserKey, claims)
}

// CurrentUser returns the authenticated session claims, or nil when the
// request carried no valid session.
func CurrentUser(ctx *gin.Context) *service.SessionClaims {
	if v, ok := ctx.Get(currentUserKey); ok {
		if claims, ok := v.(*service.SessionClaims); ok {
			return claims
		}
	}
	return nil
}
