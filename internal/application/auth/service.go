package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode"

	"github.com/go-shop-api/internal/domain"
	"github.com/go-shop-api/internal/infrastructure/smtp"
	"github.com/go-shop-api/internal/pkg/password"
)

// TokenResponse is the login/refresh payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, userID int64) (*TokenResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkVerified(ctx context.Context, userID int64) error
}

type tokenManager interface {
	CreateForUser(ctx context.Context, userID int64) (*domain.VerificationToken, error)
	Validate(ctx context.Context, token string) (*domain.VerificationToken, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

type tokenSigner interface {
	Sign(userID int64) (string, error)
}

type service struct {
	users        userStore
	tokens       tokenManager
	signer       tokenSigner
	mailer       smtp.Mailer
	emailEnabled bool
}

type ServiceDeps struct {
	UserRepo     userStore
	Tokens       tokenManager
	Signer       tokenSigner
	Mailer       smtp.Mailer
	EmailEnabled bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:        deps.UserRepo,
		tokens:       deps.Tokens,
		signer:       deps.Signer,
		mailer:       deps.Mailer,
		emailEnabled: deps.EmailEnabled,
	}
}

// Register creates an unverified account. When email delivery is configured a
// verification token is issued and mailed; a delivery failure is logged but
// never fails the registration. When delivery is NOT configured the account is
// verified immediately (development fallback, gated by config).
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := checkPasswordStrength(req.Password); err != nil {
		return nil, err
	}
	switch _, err := s.users.GetByEmail(ctx, req.Email); {
	case err == nil:
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
		IsVerified:   false,
		Role:         domain.RoleCustomer,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if !s.emailEnabled {
		if err := s.users.MarkVerified(ctx, u.ID); err != nil {
			return nil, err
		}
		u.IsVerified = true
		return u, nil
	}

	vt, err := s.tokens.CreateForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.SendVerificationEmail(u.Email, u.FullName(), vt.Token); err != nil {
		slog.Warn("verification email delivery failed", "user_id", u.ID, "err", err)
	}
	return u, nil
}

// Login checks credentials first (one generic failure for unknown email and
// wrong password), then the active flag, then the verified flag. The order is
// deliberate: nothing before the credential check may reveal account existence.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("incorrect email or password: %w", domain.ErrInvalidCredentials)
		}
		return nil, err
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, fmt.Errorf("incorrect email or password: %w", domain.ErrInvalidCredentials)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("login rejected: %w", domain.ErrInactiveAccount)
	}
	if !u.IsVerified {
		return nil, fmt.Errorf("login rejected: %w", domain.ErrEmailNotVerified)
	}

	token, err := s.signer.Sign(u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Refresh issues a fresh token for a subject already authenticated upstream.
func (s *service) Refresh(ctx context.Context, userID int64) (*TokenResponse, error) {
	token, err := s.signer.Sign(userID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// VerifyEmail consumes a verification token and flips the owner to verified.
// Verifying an already-verified user succeeds as a no-op, so retries and
// double-clicks on the email link are harmless.
func (s *service) VerifyEmail(ctx context.Context, token string) error {
	vt, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return err
	}
	u, err := s.users.Get(ctx, vt.UserID)
	if err != nil {
		return fmt.Errorf("token owner no longer exists: %w", domain.ErrNotFound)
	}
	if u.IsVerified {
		return nil
	}

	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return err
	}
	if _, err := s.tokens.DeleteByToken(ctx, vt.Token); err != nil {
		slog.Warn("failed to delete consumed verification token", "user_id", u.ID, "err", err)
	}
	if s.emailEnabled {
		if err := s.mailer.SendWelcomeEmail(u.Email, u.FullName()); err != nil {
			slog.Warn("welcome email delivery failed", "user_id", u.ID, "err", err)
		}
	}
	return nil
}

// ResendVerification reissues a token for an unverified account. An unknown
// email succeeds without doing anything, so the endpoint cannot be used to
// probe which addresses have accounts. Unlike registration, a delivery
// failure here is surfaced: the caller explicitly asked for the email.
func (s *service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if u.IsVerified {
		return fmt.Errorf("resend rejected: %w", domain.ErrAlreadyVerified)
	}

	if _, err := s.tokens.DeleteByUser(ctx, u.ID); err != nil {
		return err
	}
	vt, err := s.tokens.CreateForUser(ctx, u.ID)
	if err != nil {
		return err
	}
	if err := s.mailer.SendVerificationEmail(u.Email, u.FullName(), vt.Token); err != nil {
		return fmt.Errorf("could not send verification email: %w", domain.ErrEmailDelivery)
	}
	return nil
}

// checkPasswordStrength enforces the registration password policy: at least
// one digit and one uppercase letter. Length bounds come from the request
// validate tags.
func checkPasswordStrength(pw string) error {
	var hasDigit, hasUpper bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit: %w", domain.ErrBadRequest)
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter: %w", domain.ErrBadRequest)
	}
	return nil
}
