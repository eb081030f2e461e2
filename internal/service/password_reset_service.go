package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/metrics"
	"tourcatalog/internal/repository"
)

const (
	// PasswordResetTTL is the absolute lifetime of a reset ticket.
	PasswordResetTTL = time.Hour
	// resetTokenBytes is the entropy of a raw reset token.
	resetTokenBytes = 32
	// MinPasswordLength and MaxPasswordLength bound new passwords. bcrypt
	// ignores input past 72 bytes.
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// ResetMailer delivers the reset link.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, toEmail, resetURL string, expiresIn time.Duration) error
}

// ResetTokenStatus is the outcome of ValidateToken. ExpiresAt is set only
// when Valid is true.
type ResetTokenStatus struct {
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// PasswordResetService issues, validates and consumes password reset tickets.
type PasswordResetService interface {
	// RequestReset issues a ticket for an active account and mails the link.
	// The result does not reveal whether the account exists.
	RequestReset(ctx context.Context, email string) error
	// ValidateToken reports whether rawToken is the live ticket of email.
	ValidateToken(ctx context.Context, rawToken, email string) (*ResetTokenStatus, error)
	// ConsumeReset sets a new password and clears the ticket in one write.
	ConsumeReset(ctx context.Context, rawToken, email, newPassword string) error
}

// PasswordResetOption customizes the reset service.
type PasswordResetOption func(*passwordResetService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) PasswordResetOption {
	return func(s *passwordResetService) {
		s.now = now
	}
}

// WithRandom replaces crypto/rand as the token source.
func WithRandom(r io.Reader) PasswordResetOption {
	return func(s *passwordResetService) {
		s.random = r
	}
}

type passwordResetService struct {
	users        repository.UserRepository
	mailer       ResetMailer
	clientOrigin string
	now          func() time.Time
	random       io.Reader
	logger       *slog.Logger
}

// NewPasswordResetService builds the reset service. clientOrigin is the base
// URL of the web client hosting the reset-password page.
func NewPasswordResetService(
	users repository.UserRepository,
	mailer ResetMailer,
	clientOrigin string,
	logger *slog.Logger,
	opts ...PasswordResetOption,
) PasswordResetService {
	s := &passwordResetService{
		users:        users,
		mailer:       mailer,
		clientOrigin: strings.TrimRight(clientOrigin, "/"),
		now:          time.Now,
		random:       rand.Reader,
		logger:       logger.With(slog.String("component", "password_reset")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	// The token is generated on every path so that known and unknown accounts
	// do the same work up to the lookup.
	rawToken, tokenHash, err := newResetToken(s.random)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.PasswordResetTotal.WithLabelValues("request", "skipped").Inc()
		return nil
	}
	if err != nil {
		metrics.PasswordResetTotal.WithLabelValues("request", "error").Inc()
		return apperrors.NewStoreError("find user for reset", err)
	}
	if !user.IsActive {
		metrics.PasswordResetTotal.WithLabelValues("request", "skipped").Inc()
		return nil
	}

	expiresAt := s.now().UTC().Add(PasswordResetTTL)
	if err := s.users.SetResetTicket(ctx, user.ID, tokenHash, expiresAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.PasswordResetTotal.WithLabelValues("request", "skipped").Inc()
			return nil
		}
		metrics.PasswordResetTotal.WithLabelValues("request", "error").Inc()
		return apperrors.NewStoreError("store reset ticket", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.resetURL(rawToken, user.Email), PasswordResetTTL); err != nil {
		metrics.PasswordResetTotal.WithLabelValues("request", "mail_failed").Inc()
		s.logger.ErrorContext(ctx, "send password reset email failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.Any("error", err),
		)
		return nil
	}

	metrics.PasswordResetTotal.WithLabelValues("request", "issued").Inc()
	s.logger.InfoContext(ctx, "password reset issued",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.Time("expires_at", expiresAt),
	)
	return nil
}

func (s *passwordResetService) ValidateToken(ctx context.Context, rawToken, email string) (*ResetTokenStatus, error) {
	rawToken = strings.TrimSpace(rawToken)
	email = normalizeEmail(email)
	if rawToken == "" || email == "" {
		metrics.PasswordResetTotal.WithLabelValues("validate", "invalid").Inc()
		return &ResetTokenStatus{Valid: false}, nil
	}

	user, err := s.users.FindByResetTicket(ctx, email, hashResetToken(rawToken), s.now().UTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.PasswordResetTotal.WithLabelValues("validate", "invalid").Inc()
		return &ResetTokenStatus{Valid: false}, nil
	}
	if err != nil {
		metrics.PasswordResetTotal.WithLabelValues("validate", "error").Inc()
		return nil, apperrors.NewStoreError("validate reset ticket", err)
	}

	metrics.PasswordResetTotal.WithLabelValues("validate", "valid").Inc()
	return &ResetTokenStatus{Valid: true, ExpiresAt: user.ResetTokenExpiresAt}, nil
}

func (s *passwordResetService) ConsumeReset(ctx context.Context, rawToken, email, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	rawToken = strings.TrimSpace(rawToken)
	email = normalizeEmail(email)
	if rawToken == "" || email == "" {
		metrics.PasswordResetTotal.WithLabelValues("consume", "invalid").Inc()
		return apperrors.ErrInvalidOrExpiredToken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ok, err := s.users.ConsumeResetTicket(ctx, email, hashResetToken(rawToken), s.now().UTC(), string(passwordHash))
	if err != nil {
		metrics.PasswordResetTotal.WithLabelValues("consume", "error").Inc()
		return apperrors.NewStoreError("consume reset ticket", err)
	}
	if !ok {
		metrics.PasswordResetTotal.WithLabelValues("consume", "invalid").Inc()
		return apperrors.ErrInvalidOrExpiredToken
	}

	metrics.PasswordResetTotal.WithLabelValues("consume", "consumed").Inc()
	s.logger.InfoContext(ctx, "password reset completed")
	return nil
}

func (s *passwordResetService) resetURL(rawToken, email string) string {
	return fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.clientOrigin, url.QueryEscape(rawToken), url.QueryEscape(email))
}

// newResetToken returns a random hex token and its SHA-256 digest.
func newResetToken(r io.Reader) (rawToken, tokenHash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", "", err
	}
	rawToken = hex.EncodeToString(buf)
	return rawToken, hashResetToken(rawToken), nil
}

func hashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

func validateNewPassword(password string) error {
	verr := &apperrors.ValidationError{}
	switch {
	case len(password) < MinPasswordLength:
		verr.Add("newPassword", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	case len(password) > MaxPasswordLength:
		verr.Add("newPassword", fmt.Sprintf("must be at most %d bytes", MaxPasswordLength))
	}
	return verr.OrNil()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
