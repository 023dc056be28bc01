package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	userserrors "gymstore/internal/users/errors"
	"gymstore/internal/users/repository"
	"gymstore/internal/users/validator"
	"gymstore/pkg/auth"
	"gymstore/pkg/config"
	apperrors "gymstore/pkg/errors"
	"gymstore/pkg/mailer"
	"gymstore/pkg/metrics"
	"gymstore/pkg/model"
	"gymstore/pkg/sanitizer"
	"gymstore/pkg/validation"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgSessionExpired     = "Not authorized, login again"
	MsgInvalidOTP         = "Invalid or expired OTP"
	MsgOTPSent            = "OTP sent to your email"
)

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	AdminLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	SendOTP(ctx context.Context, req *model.OTPRequest) error
	VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.User, error)
	CreateBranchUser(ctx context.Context, req *model.BranchUserRequest) (*model.User, error)
	ChangePassword(ctx context.Context, claims *auth.Claims, req *model.ChangePasswordRequest) (*model.AuthResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) error
	GetCart(ctx context.Context, userID string) (model.CartData, error)
	AddToCart(ctx context.Context, userID string, req *model.CartItemRequest) (model.CartData, error)
	UpdateCart(ctx context.Context, userID string, req *model.CartItemRequest) (model.CartData, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tokens    *auth.TokenManager
	notifier  *mailer.Notifier
	cfg       *config.Config
	now       func() time.Time
}

func NewUserService(repo repository.UserRepository, validator *validator.UserValidator, tokens *auth.TokenManager, notifier *mailer.Notifier, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		tokens:    tokens,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.ForContext(ctx).Warn("Registration validation failed", "email", req.Email, "error", err)
		return nil, validation.AsAppError("Please provide all required fields", err)
	}

	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, model.RoleUser, "")
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *userService) CreateBranchUser(ctx context.Context, req *model.BranchUserRequest) (*model.User, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Gym = sanitizer.NormalizeIdentifier(req.Gym)

	if err := s.validator.Validate(req); err != nil {
		return nil, validation.AsAppError("Please provide all required fields", err)
	}
	return s.createUser(ctx, req.Name, req.Email, req.Password, model.RoleBranch, req.Gym)
}

func (s *userService) createUser(ctx context.Context, name, email, password, role, gym string) (*model.User, error) {
	log := s.cfg.Log.ForContext(ctx)

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("Failed to hash password", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	user := &model.User{
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		Gym:               gym,
		CredentialVersion: 1,
		PasswordUpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("User already exists")
		}
		log.Error("Failed to create user", "email", email, "role", role, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	log.Info("User created", "id", user.ID, "role", role, "gym", gym)
	return user, nil
}

// Login is a two step exchange when login codes are enabled: a correct
// password without a code mails a fresh code and answers RequiresOTP, the
// same password with that code returns the token.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !s.cfg.LoginOTPEnabled {
		return s.authResponse(user)
	}

	if req.OTP == "" {
		if err := s.sendCode(ctx, user); err != nil {
			return nil, err
		}
		return &model.AuthResponse{RequiresOTP: true, Message: MsgOTPSent}, nil
	}

	verified, err := s.consumeCode(ctx, user, req.OTP)
	if err != nil {
		return nil, err
	}
	return s.authResponse(verified)
}

func (s *userService) AdminLogin(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleAdmin {
		s.cfg.Log.ForContext(ctx).Warn("Admin login by non-admin user", "id", user.ID, "role", user.Role)
		return nil, apperrors.Unauthorized(MsgInvalidCredentials)
	}
	return s.authResponse(user)
}

// SendOTP mails a new login code, replacing the previous one. Unknown
// emails get the same answer, so the response does not reveal which
// emails are registered.
func (s *userService) SendOTP(ctx context.Context, req *model.OTPRequest) error {
	log := s.cfg.Log.ForContext(ctx)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return validation.AsAppError("Please provide a valid email", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			log.Warn("Login code requested for unknown email", "email", req.Email)
			return nil
		}
		log.Error("Failed to load user", "email", req.Email, "error", err)
		return apperrors.Internal("Failed to send OTP", err)
	}
	return s.sendCode(ctx, user)
}

// VerifyOTP accepts a login code once and marks the email verified. It does
// not log the user in; Login does that with the password.
func (s *userService) VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.User, error) {
	log := s.cfg.Log.ForContext(ctx)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, validation.AsAppError("Please provide email and OTP", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			log.Warn("Login code check for unknown email", "email", req.Email)
			return nil, apperrors.Unauthorized(MsgInvalidOTP)
		}
		log.Error("Failed to load user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to verify OTP", err)
	}
	return s.consumeCode(ctx, user, req.OTP)
}

func (s *userService) sendCode(ctx context.Context, user *model.User) error {
	log := s.cfg.Log.ForContext(ctx)

	code, err := newOTP()
	if err != nil {
		log.Error("Failed to generate login code", "id", user.ID, "error", err)
		return apperrors.Internal("Failed to send OTP", err)
	}
	hash, err := auth.HashPassword(code)
	if err != nil {
		log.Error("Failed to hash login code", "id", user.ID, "error", err)
		return apperrors.Internal("Failed to send OTP", err)
	}

	expiresAt := s.now().UTC().Add(s.cfg.LoginOTPTTL).Truncate(time.Millisecond)
	if err := s.repo.SetOTP(ctx, user.ID, hash, expiresAt); err != nil {
		return s.translateError(ctx, user.ID, "Failed to send OTP", err)
	}

	subject, body, err := mailer.LoginCode(mailer.LoginCodeData{Name: user.Name, Code: code, ValidFor: s.cfg.LoginOTPTTL})
	if err != nil {
		log.Error("Failed to render login code email", "id", user.ID, "error", err)
		return apperrors.Internal("Failed to send OTP", err)
	}

	sent := s.notifier.Notify(ctx, user.Email, subject, body)
	var notifyErr error
	if !sent.Sent {
		notifyErr = errors.New(sent.Error)
	}
	metrics.IncNotification("login_otp", notifyErr)
	if notifyErr != nil {
		return apperrors.Unavailable("Email delivery")
	}

	log.Info("Login code sent", "id", user.ID, "expires_at", expiresAt)
	return nil
}

func (s *userService) consumeCode(ctx context.Context, user *model.User, code string) (*model.User, error) {
	log := s.cfg.Log.ForContext(ctx)

	if !user.HasLiveOTP(s.now()) {
		log.Warn("Login code missing or expired", "id", user.ID)
		return nil, apperrors.Unauthorized(MsgInvalidOTP)
	}
	if err := auth.CheckPassword(user.OTPHash, code); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Warn("Wrong login code", "id", user.ID)
			return nil, apperrors.Unauthorized(MsgInvalidOTP)
		}
		log.Error("Failed to check login code", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to verify OTP", err)
	}

	if err := s.repo.ConsumeOTP(ctx, user.ID, user.OTPHash); err != nil {
		if errors.Is(err, userserrors.ErrOTPConsumed) {
			return nil, apperrors.Unauthorized(MsgInvalidOTP)
		}
		return nil, s.translateError(ctx, user.ID, "Failed to verify OTP", err)
	}

	user.OTPHash = ""
	user.OTPExpiresAt = time.Time{}
	user.EmailVerified = true
	log.Info("Login code accepted", "id", user.ID)
	return user, nil
}

// newOTP returns a random six digit code without a leading zero.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to read random code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// authenticate reports unknown emails and wrong passwords the same way.
func (s *userService) authenticate(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	log := s.cfg.Log.ForContext(ctx)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, validation.AsAppError("Please provide email and password", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			log.Warn("Login for unknown email", "email", req.Email)
			return nil, apperrors.Unauthorized(MsgInvalidCredentials)
		}
		log.Error("Failed to load user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to login", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Warn("Login with wrong password", "id", user.ID)
			return nil, apperrors.Unauthorized(MsgInvalidCredentials)
		}
		log.Error("Failed to check password", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to login", err)
	}
	return user, nil
}

// ChangePassword requires the token to carry the current credential
// version. The new version invalidates every other token on the next
// change, and the caller gets a fresh token.
func (s *userService) ChangePassword(ctx context.Context, claims *auth.Claims, req *model.ChangePasswordRequest) (*model.AuthResponse, error) {
	log := s.cfg.Log.ForContext(ctx)

	if err := s.validator.Validate(req); err != nil {
		return nil, validation.AsAppError("Invalid password change", err)
	}

	user, err := s.getUser(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if user.CredentialVersion != claims.CredentialVersion {
		log.Warn("Password change with stale token", "id", user.ID)
		return nil, apperrors.Unauthorized(MsgSessionExpired)
	}
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.Unauthorized("Current password is incorrect")
		}
		return nil, apperrors.Internal("Failed to change password", err)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperrors.Internal("Failed to change password", err)
	}

	updated, err := s.repo.UpdatePassword(ctx, user.ID, hash, user.CredentialVersion)
	if err != nil {
		if errors.Is(err, userserrors.ErrCredentialsChanged) {
			return nil, apperrors.Unauthorized(MsgSessionExpired)
		}
		return nil, s.translateError(ctx, user.ID, "Failed to change password", err)
	}

	log.Info("Password changed", "id", updated.ID, "credential_version", updated.CredentialVersion)
	return s.authResponse(updated)
}

// EnsureAdmin creates the admin account on first start. An existing account
// is left alone so a changed password survives restarts.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	log := s.cfg.Log.ForContext(ctx)
	email = sanitizer.NormalizeEmail(email)
	if email == "" || password == "" {
		log.Warn("Admin bootstrap skipped, credentials not configured")
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != model.RoleAdmin {
			log.Warn("Admin email belongs to a non-admin account", "id", existing.ID, "role", existing.Role)
		}
		return nil
	case !errors.Is(err, userserrors.ErrNotFound):
		return err
	}

	_, err = s.createUser(ctx, "Admin", email, password, model.RoleAdmin, "")
	if apperrors.HasCode(err, apperrors.CodeConflict) {
		return nil
	}
	return err
}

func (s *userService) GetCart(ctx context.Context, userID string) (model.CartData, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CartData == nil {
		return model.CartData{}, nil
	}
	return user.CartData, nil
}

func (s *userService) AddToCart(ctx context.Context, userID string, req *model.CartItemRequest) (model.CartData, error) {
	if err := s.validateCartItem(req); err != nil {
		return nil, err
	}

	cart, err := s.repo.IncrementCartItem(ctx, userID, req.ItemID, req.Size)
	if err != nil {
		return nil, s.translateError(ctx, userID, "Failed to add to cart", err)
	}
	return cart, nil
}

// UpdateCart sets an item size quantity. Quantity 0 removes the entry.
func (s *userService) UpdateCart(ctx context.Context, userID string, req *model.CartItemRequest) (model.CartData, error) {
	if err := s.validateCartItem(req); err != nil {
		return nil, err
	}

	cart, err := s.repo.SetCartQuantity(ctx, userID, req.ItemID, req.Size, req.Quantity)
	if err != nil {
		return nil, s.translateError(ctx, userID, "Failed to update cart", err)
	}
	return cart, nil
}

// validateCartItem also rejects keys that would break the cart_data
// document path.
func (s *userService) validateCartItem(req *model.CartItemRequest) error {
	req.ItemID = sanitizer.NormalizeIdentifier(req.ItemID)
	req.Size = sanitizer.NormalizeIdentifier(req.Size)

	if err := s.validator.Validate(req); err != nil {
		return validation.AsAppError("Invalid cart item", err)
	}
	if strings.ContainsAny(req.ItemID, ".$") || strings.ContainsAny(req.Size, ".$") {
		return apperrors.InvalidInput("Item id and size cannot contain '.' or '$'")
	}
	return nil
}

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(ctx, id, "Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) authResponse(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Role, user.Email, user.Gym, user.CredentialVersion)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}

func (s *userService) translateError(ctx context.Context, id, message string, err error) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFound("User")
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	default:
		s.cfg.Log.ForContext(ctx).Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
