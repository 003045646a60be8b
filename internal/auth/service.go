package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanavida/clinic-booking-platform/pkg/logging"
)

// AccountStore is the lookup surface the service needs.
type AccountStore interface {
	GetByEmail(ctx context.Context, role Role, email string) (*Account, error)
}

// Service verifies credentials and issues session tokens.
type Service struct {
	store      AccountStore
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     *logging.Logger
}

// NewService constructs an auth service. An empty secret disables token
// issuance and fails logins with ErrMissingHash-class config errors.
func NewService(store AccountStore, jwtSecret string, sessionTTL time.Duration, logger *logging.Logger) *Service {
	if store == nil {
		panic("auth: account store required")
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:      store,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// ErrNotConfigured means the session secret is missing from the server
// environment.
var ErrNotConfigured = errors.New("session secret not configured")

// Login verifies the password for the role's account and returns the
// profile with a signed session token. Account gating runs before the
// hash comparison so a valid password never unlocks a disabled account.
func (s *Service) Login(ctx context.Context, role Role, email, password string) (*Profile, string, error) {
	if len(s.jwtSecret) == 0 {
		return nil, "", ErrNotConfigured
	}
	account, err := s.store.GetByEmail(ctx, role, email)
	if err != nil {
		return nil, "", err
	}
	if account.DeletedAt != nil {
		return nil, "", ErrAccountDeleted
	}
	if !account.Active {
		return nil, "", ErrAccountInactive
	}
	if role == RoleDoctor && !account.Approved {
		return nil, "", ErrAccountNotApproved
	}
	if account.PasswordHash == nil || *account.PasswordHash == "" {
		s.logger.Error("account has no password hash", "role", role, "account_id", account.ID)
		return nil, "", ErrMissingHash
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("login succeeded", "role", role, "account_id", account.ID)
	return account.Profile(), token, nil
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(account *Account) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken parses a session token and returns the subject and role.
func VerifyToken(secret, tokenString string) (subject string, role Role, err error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidCredentials
	}
	return claims.Subject, Role(claims.Role), nil
}
