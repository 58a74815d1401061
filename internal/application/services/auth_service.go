package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/security"
	"github.com/smartengage/smartengage-go/pkg/config"
)

// ErrInvalidCredentials is returned for a wrong admin password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAuthNotConfigured is returned when no admin password hash is
// configured. Admin routes stay locked until one is set.
var ErrAuthNotConfigured = errors.New("admin auth not configured")

// AuthService issues and validates admin tokens.
type AuthService struct {
	logger *logging.ChanneledLogger
	secret string
}

// NewAuthService creates an auth service. When ADMIN_JWT_SECRET is unset
// it falls back to a generated signing key, so issued tokens stay valid
// for this process only and expire on restart.
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	secret := config.AdminJWTSecret
	if secret == "" {
		generated, err := security.GenerateSecureKey(64)
		if err != nil {
			logger.Auth().Error("Failed to generate a signing key, admin auth disabled", "error", err.Error())
		} else {
			secret = generated
			logger.Auth().Warn("ADMIN_JWT_SECRET not set, using an ephemeral signing key; admin tokens will not survive a restart")
		}
	}
	return &AuthService{logger: logger, secret: secret}
}

// Login verifies the admin password and returns a signed admin token.
func (s *AuthService) Login(password string) (string, error) {
	if config.AdminPassHash == "" || s.secret == "" {
		return "", ErrAuthNotConfigured
	}

	if err := bcrypt.CompareHashAndPassword([]byte(config.AdminPassHash), []byte(password)); err != nil {
		s.logger.Auth().Warn("Admin login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateAdminToken(s.secret, config.TokenLifetime)
	if err != nil {
		return "", err
	}

	s.logger.Auth().Info("Admin token issued", "lifetime", config.TokenLifetime)
	return token, nil
}

// Validate checks an admin token and reports whether it grants admin access.
func (s *AuthService) Validate(token string) bool {
	if s.secret == "" {
		return false
	}
	claims, err := security.ValidateJWT(token, s.secret)
	if err != nil {
		return false
	}
	return security.IsAdminClaims(claims)
}
