package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mevent/event-manager/backend/cmd/server"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/handlers/middlewares"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/response"
	"github.com/mevent/event-manager/backend/internal/adapters/database/postgres"
	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/dto"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/internal/domain/service"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
	"github.com/mevent/event-manager/backend/pkg/token"
)

type userService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input dto.LoginInput) (*entity.User, error)
	ChangePassword(ctx context.Context, userID uint, input dto.ChangePasswordInput) error
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error
}

type Handler struct {
	userService userService
	tokens      *token.Manager
	logger      *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		userService: service.NewUserService(
			s.Logger,
			postgres.NewUserStorage(s.DB),
			s.Redis.Codes,
			s.Mailer,
			service.OTPOptions{
				TTL:       s.Settings.OTP.TTL,
				PerMinute: s.Settings.OTP.PerMinute,
			},
		),
		tokens: s.Tokens,
		logger: s.Logger,
	}
}

func (h Handler) Setup(mux *http.ServeMux, middle *middlewares.Handler) {
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("POST /api/auth/token/refresh", h.refresh)
	mux.HandleFunc("POST /api/auth/forgot-password", h.forgotPassword)
	mux.HandleFunc("POST /api/auth/verify-otp", h.verifyOTP)
	mux.HandleFunc("POST /api/auth/reset-password", h.resetPassword)
	mux.HandleFunc("POST /api/auth/change-password", middle.Authorized(h.changePassword))
	mux.HandleFunc("GET /api/auth/profile", middle.Authorized(h.profile))
}

func (h Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterInput
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	h.writeTokens(w, http.StatusCreated, "Registration successful", user)
}

func (h Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginInput
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		response.Fail(w, http.StatusBadRequest, "Email, password and role are required")
		return
	}

	user, err := h.userService.Login(r.Context(), req)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	h.writeTokens(w, http.StatusOK, "Login successful", user)
}

func (h Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		response.Fail(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	response.OK(w, http.StatusOK, "", response.M{"access": access})
}

func (h Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if err := h.userService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "OTP has been sent to your email address", nil)
}

func (h Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if err := h.userService.VerifyResetCode(r.Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, errorz.ErrInvalidCode) {
			response.Fail(w, http.StatusBadRequest, "Invalid or expired OTP")
			return
		}
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "OTP verified successfully", nil)
}

func (h Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordInput
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if err := h.userService.ResetPassword(r.Context(), req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "Password has been reset successfully", nil)
}

func (h Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordInput
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	user := middlewares.User(r)
	if err := h.userService.ChangePassword(r.Context(), user.ID, req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "Password changed successfully", nil)
}

func (h Handler) profile(w http.ResponseWriter, r *http.Request) {
	response.OK(w, http.StatusOK, "", response.M{"user": middlewares.User(r)})
}

func (h Handler) writeTokens(w http.ResponseWriter, status int, message string, user *entity.User) {
	pair, err := h.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		response.Error(w, h.logger, fmt.Errorf("issue tokens: %w", err))
		return
	}
	response.OK(w, status, message, response.M{"user": user, "tokens": pair})
}
