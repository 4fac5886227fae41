package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/dto"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/internal/domain/utils/validator"
	"github.com/mevent/event-manager/backend/pkg/generator"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
	"github.com/mevent/event-manager/backend/pkg/smtp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const otpLength = 6

type UserStorage interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
}

type codesStorage interface {
	Get(ctx context.Context, email string) (string, error)
	Set(ctx context.Context, email string, code string, expiration time.Duration) error
	Clear(ctx context.Context, email string) error
}

type OTPOptions struct {
	TTL       time.Duration
	PerMinute int
}

type UserService struct {
	userStorage  UserStorage
	codesStorage codesStorage
	mailer       mailer
	logger       *types.Logger

	otp      OTPOptions
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewUserService(
	logger *types.Logger,
	userStorage UserStorage,
	codesStorage codesStorage,
	mailer mailer,
	otp OTPOptions,
) *UserService {
	if otp.TTL <= 0 {
		otp.TTL = 10 * time.Minute
	}
	if otp.PerMinute <= 0 {
		otp.PerMinute = 3
	}
	return &UserService{
		userStorage:  userStorage,
		codesStorage: codesStorage,
		mailer:       mailer,
		logger:       logger,
		otp:          otp,
		limiters:     make(map[string]*rate.Limiter),
	}
}

func (s *UserService) Get(ctx context.Context, id uint) (*entity.User, error) {
	return s.userStorage.Get(ctx, id)
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)
	if !validator.Email(email) {
		return nil, fmt.Errorf("%w: invalid email", errorz.ErrValidation)
	}
	if !validator.Name(input.Name) {
		return nil, fmt.Errorf("%w: name is required", errorz.ErrValidation)
	}
	if err := checkNewPassword(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	role := entity.Role(input.Role)
	if role == "" {
		role = entity.Student
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", errorz.ErrValidation, input.Role)
	}

	_, err := s.userStorage.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: user with this email already exists: %w", errorz.ErrValidation, errorz.ErrConflict)
	case !errors.Is(err, errorz.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.userStorage.Create(ctx, &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	})
}

// Login checks the credentials and that the account has the requested role.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*entity.User, error) {
	user, err := s.userStorage.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", errorz.ErrUnauthorized)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, fmt.Errorf("%w: invalid email or password", errorz.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is disabled", errorz.ErrUnauthorized)
	}
	if input.Role != "" && entity.Role(input.Role) != user.Role {
		return nil, fmt.Errorf("%w: invalid role for this user", errorz.ErrUnauthorized)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, input dto.ChangePasswordInput) error {
	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)) != nil {
		return fmt.Errorf("%w: old password is incorrect", errorz.ErrValidation)
	}
	if err = checkNewPassword(input.NewPassword, input.ConfirmPassword); err != nil {
		return err
	}
	return s.setPassword(ctx, user, input.NewPassword)
}

// RequestPasswordReset emails a fresh one-time code to a registered address,
// replacing any code issued before.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.userStorage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return fmt.Errorf("%w: no user found with this email", errorz.ErrValidation)
		}
		return err
	}
	if !s.limiter(email).Allow() {
		return fmt.Errorf("%w: too many reset requests for %s", errorz.ErrTooManyRequests, email)
	}

	code, err := generator.Digits(otpLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err = s.codesStorage.Set(ctx, email, code, s.otp.TTL); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	minutes := int(s.otp.TTL / time.Minute)
	err = s.mailer.Send(ctx, smtp.Message{
		To:      user.Email,
		Subject: "Password Reset OTP - Event Manager",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour OTP for password reset is: %s\n\n"+
				"This OTP will expire in %d minutes.\n\n"+
				"If you did not request this, please ignore this email.\n\n"+
				"Best regards,\nEvent Manager Team",
			user.Name, code, minutes,
		),
	})
	if err != nil {
		s.logger.Errorf("failed to send reset code to %s: %v", email, err)
		return fmt.Errorf("%w: %w", errorz.ErrDelivery, err)
	}
	s.logger.Infof("Sent password reset code (user_id=%d)", user.ID)
	return nil
}

func (s *UserService) VerifyResetCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if !validator.OTP(code, otpLength) {
		return errorz.ErrInvalidCode
	}
	stored, err := s.codesStorage.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored != code {
		return errorz.ErrInvalidCode
	}
	return nil
}

// ResetPassword sets a new password when code is the live one for email and
// consumes the code.
func (s *UserService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	if err := checkNewPassword(input.NewPassword, input.ConfirmPassword); err != nil {
		return err
	}
	email := normalizeEmail(input.Email)
	if err := s.VerifyResetCode(ctx, email, input.OTP); err != nil {
		return err
	}

	user, err := s.userStorage.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = s.setPassword(ctx, user, input.NewPassword); err != nil {
		return err
	}
	if err = s.codesStorage.Clear(ctx, email); err != nil {
		s.logger.Warnf("failed to clear reset code for %s: %v", email, err)
	}
	return nil
}

func (s *UserService) setPassword(ctx context.Context, user *entity.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	_, err = s.userStorage.Update(ctx, user)
	return err
}

func (s *UserService) limiter(email string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[email]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.otp.PerMinute)), s.otp.PerMinute)
		s.limiters[email] = l
	}
	return l
}

func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return fmt.Errorf("%w: passwords don't match", errorz.ErrValidation)
	}
	if !validator.Password(password) {
		return fmt.Errorf("%w: password must be at least %d characters", errorz.ErrValidation, validator.MinPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
