package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/config"
	"github.com/shopsetu/checklist/internal/apperr"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/model"
	"github.com/shopsetu/checklist/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionTTL = time.Hour
	otpTTL     = 5 * time.Minute
)

// SessionClaims is the authenticated identity carried in the session token.
type SessionClaims struct {
	UserID uint   `json:"uid"`
	Mobile string `json:"mobile"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type otpClaims struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
	jwt.RegisteredClaims
}

// AuthService handles account registration, login, the OTP password-reset
// flow, and session token issue/verify. Sessions are stateless signed tokens
// set as an httpOnly cookie by the controller.
type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.UserDTO, string, error)
	Login(req dto.LoginRequest) (*dto.UserDTO, string, error)
	IssueOTP(mobile string) (string, error)
	VerifyOTP(token, mobile, code string) error
	ResetPassword(req dto.ResetPasswordRequest) error
	ParseSession(token string) (*SessionClaims, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, secret: []byte(cfg.SessionSecret)}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.UserDTO, string, error) {
	if _, err := s.userRepo.FindByMobile(req.Mobile); err == nil {
		return nil, "", apperr.New(apperr.Validation, "User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperr.Wrap(apperr.Persistence, "Error registering user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Persistence, "Error registering user", err)
	}

	user := model.User{
		Mobile:   req.Mobile,
		Password: string(hashed),
		Name:     req.Name,
		Branch:   req.Branch,
		Role:     "user",
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, "", apperr.Wrap(apperr.Persistence, "Error registering user", err)
	}

	token, err := s.issueSession(&user)
	if err != nil {
		return nil, "", err
	}
	log.Info().Uint("userID", user.ID).Msg("User registered")
	return userToDTO(&user), token, nil
}

func (s *authService) Login(req dto.LoginRequest) (*dto.UserDTO, string, error) {
	user, err := s.userRepo.FindByMobile(req.Mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.New(apperr.Validation, "Invalid mobile number or password")
		}
		return nil, "", apperr.Wrap(apperr.Persistence, "Error logging in", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, "", apperr.New(apperr.Validation, "Invalid mobile number or password")
	}

	token, err := s.issueSession(user)
	if err != nil {
		return nil, "", err
	}
	return userToDTO(user), token, nil
}

// IssueOTP generates a 6-digit code for mobile and returns a signed token
// binding the two for the next 5 minutes. The code is logged in place of an
// SMS gateway.
func (s *authService) IssueOTP(mobile string) (string, error) {
	if _, err := s.userRepo.FindByMobile(mobile); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.Validation, "User not found")
		}
		return "", apperr.Wrap(apperr.Persistence, "Error sending OTP", err)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", apperr.Wrap(apperr.Persistence, "Error sending OTP", err)
	}
	code := fmt.Sprintf("%d", n.Int64()+100000)

	claims := otpClaims{
		Mobile: mobile,
		Code:   code,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(otpTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Persistence, "Error sending OTP", err)
	}

	// TODO: wire an SMS gateway; until then the code only reaches the logs.
	log.Info().Str("mobile", mobile).Str("otp", code).Msg("OTP issued")
	return token, nil
}

func (s *authService) VerifyOTP(token, mobile, code string) error {
	var claims otpClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, s.keyFunc)
	if err != nil || !parsed.Valid {
		return apperr.New(apperr.Validation, "Invalid or expired OTP")
	}
	if claims.Mobile != mobile || claims.Code != code {
		return apperr.New(apperr.Validation, "Invalid or expired OTP")
	}
	return nil
}

func (s *authService) ResetPassword(req dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByMobile(req.Mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.Validation, "User not found")
		}
		return apperr.Wrap(apperr.Persistence, "Error resetting password", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Persistence, "Error resetting password", err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Save(user); err != nil {
		return apperr.Wrap(apperr.Persistence, "Error resetting password", err)
	}
	log.Info().Uint("userID", user.ID).Msg("Password reset")
	return nil
}

func (s *authService) ParseSession(token string) (*SessionClaims, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, s.keyFunc)
	if err != nil || !parsed.Valid {
		return nil, apperr.New(apperr.Auth, "Access denied, no valid session")
	}
	return &claims, nil
}

func (s *authService) issueSession(user *model.User) (string, error) {
	claims := SessionClaims{
		UserID: user.ID,
		Mobile: user.Mobile,
		Name:   user.Name,
		Branch: user.Branch,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Persistence, "Error creating session", err)
	}
	return token, nil
}

func (s *authService) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}
