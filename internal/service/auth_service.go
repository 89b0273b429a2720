package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/alpercimsit/emlak-website/internal/config"
	"github.com/alpercimsit/emlak-website/internal/logging"
)

var (
	// ErrInvalidCredentials is returned by Login on a username or password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid wraps every bearer token parse failure.
	ErrTokenInvalid = errors.New("invalid token")
)

const bearerPrefix = "Bearer "

// Claims is the payload of an admin bearer token.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthService checks the configured admin credentials and issues HS512 bearer tokens.
type AuthService struct {
	username    string
	password    string
	staticToken string
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	logger      *logging.Logger
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now for token issuance and expiry checks.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(admin config.AdminConfig, jwtCfg config.JWTConfig, logger *logging.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		username:    admin.Username,
		password:    admin.Password,
		staticToken: admin.Token,
		secret:      []byte(jwtCfg.Secret),
		ttl:         jwtCfg.TTL,
		now:         time.Now,
		logger:      logger.With("component", "auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login issues a token when username and password both match the admin pair exactly.
func (s *AuthService) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		s.logger.Debug("login rejected", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(username)
	if err != nil {
		return "", fmt.Errorf("AuthService.Login: %w", err)
	}
	s.logger.Info("admin logged in", "username", username)
	return token, nil
}

// IssueToken signs a token for subject valid for the configured TTL.
func (s *AuthService) IssueToken(subject string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken checks signature (HS512 only) and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return claims, nil
}

// VerifyToken reports whether token is a live admin token. Failures are never surfaced.
func (s *AuthService) VerifyToken(token string) (bool, string) {
	claims, err := s.ParseToken(token)
	if err != nil {
		s.logger.Debug("token rejected", "error", err)
		return false, ""
	}
	if claims.Subject != s.username {
		s.logger.Debug("token subject is not the admin", "subject", claims.Subject)
		return false, ""
	}
	return true, claims.Subject
}

// Verify is VerifyToken applied to an Authorization header value.
func (s *AuthService) Verify(authHeader string) (bool, string) {
	token, ok := BearerToken(authHeader)
	if !ok {
		return false, ""
	}
	return s.VerifyToken(token)
}

// IsAdmin accepts either a valid bearer token or, when one is configured,
// the static admin token compared by exact equality.
func (s *AuthService) IsAdmin(authHeader, adminToken string) bool {
	if s.staticToken != "" && adminToken != "" &&
		subtle.ConstantTimeCompare([]byte(adminToken), []byte(s.staticToken)) == 1 {
		return true
	}
	valid, _ := s.Verify(authHeader)
	return valid
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	return token, token != ""
}
