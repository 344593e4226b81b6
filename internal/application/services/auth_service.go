package services

import (
	"errors"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/security"
)

// ErrAuthDisabled is returned when no admin credentials are configured.
var ErrAuthDisabled = errors.New("admin authentication is not configured")

// AuthResult holds authentication result data
type AuthResult struct {
	Token     string    `json:"token,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// AuthService issues and checks admin tokens for the insights API.
type AuthService struct {
	jwtSecret    string
	passwordHash string
	lifetime     time.Duration
	logger       *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(jwtSecret, passwordHash string, lifetime time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		jwtSecret:    jwtSecret,
		passwordHash: passwordHash,
		lifetime:     lifetime,
		logger:       logger,
	}
}

// Enabled reports whether admin routes are protected.
func (a *AuthService) Enabled() bool {
	return a.jwtSecret != ""
}

// AuthenticateAdmin checks password against the configured bcrypt hash and
// issues a signed admin token.
func (a *AuthService) AuthenticateAdmin(password string) (*AuthResult, error) {
	if !a.Enabled() || a.passwordHash == "" {
		return nil, ErrAuthDisabled
	}

	if !security.CheckPassword(a.passwordHash, password) {
		a.logger.HTTP().Warn("Admin authentication failed")
		return &AuthResult{Success: false, Error: "Invalid credentials"}, nil
	}

	token, expires, err := security.IssueAdminToken("admin", a.jwtSecret, a.lifetime)
	if err != nil {
		a.logger.HTTP().Error("Admin token generation failed", "error", err)
		return &AuthResult{Success: false, Error: "Token generation failed"}, nil
	}

	a.logger.HTTP().Info("Admin authenticated", "expiresAt", expires)
	return &AuthResult{Token: token, Role: "admin", ExpiresAt: expires, Success: true}, nil
}

// ValidateAdminToken reports whether token is a live admin token.
func (a *AuthService) ValidateAdminToken(token string) bool {
	if !a.Enabled() {
		return false
	}
	_, err := security.ValidateAdminToken(token, a.jwtSecret)
	return err == nil
}
