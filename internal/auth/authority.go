// Package auth verifies case credentials and issues and validates the signed
// session tokens that gate every protected request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JustJay7/case-status-portal/internal/database"
	"github.com/JustJay7/case-status-portal/internal/store"
	"github.com/JustJay7/case-status-portal/pkg/logger"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissingFields is returned when any credential field is empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrInvalidCredentials covers unknown case, name mismatch and wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers every token rejection.
	ErrInvalidToken = errors.New("invalid token")
)

// LastNameMatch selects how the submitted last name is compared.
type LastNameMatch string

const (
	MatchInsensitive LastNameMatch = "insensitive"
	MatchExact       LastNameMatch = "exact"
)

// DefaultTokenTTL is the session lifetime when Config.TokenTTL is unset.
const DefaultTokenTTL = 8 * time.Hour

// Config configures an Authority.
type Config struct {
	Secret        []byte
	TokenTTL      time.Duration
	LastNameMatch LastNameMatch
	// Revocation makes Logout deny the token until it expires. Without it
	// logout is advisory and tokens stay valid until expiry.
	Revocation bool
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	Claims    *Claims
	ExpiresAt time.Time
	Profile   database.Profile
}

// Authority is the credential and session authority. It keeps no per-session
// state unless revocation is enabled.
type Authority struct {
	store    store.Store
	cfg      Config
	denylist *gocache.Cache
	logger   *logger.Logger
}

// NewAuthority validates cfg and fills its defaults. A non-empty secret is
// required.
func NewAuthority(s store.Store, cfg Config, log *logger.Logger) (*Authority, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("auth: invalid token ttl %s", cfg.TokenTTL)
	}
	switch cfg.LastNameMatch {
	case "":
		cfg.LastNameMatch = MatchInsensitive
	case MatchInsensitive, MatchExact:
	default:
		return nil, fmt.Errorf("auth: unknown last name match mode %q", cfg.LastNameMatch)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	a := &Authority{
		store:  s,
		cfg:    cfg,
		logger: log,
	}
	if cfg.Revocation {
		a.denylist = gocache.New(gocache.NoExpiration, 10*time.Minute)
	}
	return a, nil
}

// Authenticate checks the credentials and issues a session token.
func (a *Authority) Authenticate(ctx context.Context, caseNumber, lastName, password string) (*Session, error) {
	caseNumber = strings.TrimSpace(caseNumber)
	lastName = strings.TrimSpace(lastName)
	if caseNumber == "" || lastName == "" || password == "" {
		return nil, ErrMissingFields
	}

	users, err := a.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	user := a.findUser(users, caseNumber, lastName)
	// a token without a user id could never validate
	if user == nil || user.PasswordHash == "" || user.ID == "" {
		// keep the response time of unknown cases close to a wrong password
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		if user != nil {
			a.logger.Warn("User record is incomplete", "case_number", caseNumber,
				"has_id", user.ID != "", "has_password_hash", user.PasswordHash != "")
		}
		a.logger.Info("Login rejected", "case_number", caseNumber)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.Info("Login rejected", "case_number", caseNumber)
		return nil, ErrInvalidCredentials
	}

	token, claims, err := signToken(a.cfg.Secret, user.ID.String(), user.CaseNumber, a.cfg.Now(), a.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	a.logger.Info("Login succeeded", "case_number", user.CaseNumber, "user_id", user.ID.String())

	return &Session{
		Token:     token,
		Claims:    claims,
		ExpiresAt: claims.ExpiresAtTime(),
		Profile:   user.Profile(),
	}, nil
}

// Validate verifies signature, expiry and revocation. Every failure is
// reported as ErrInvalidToken.
func (a *Authority) Validate(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := parseToken(a.cfg.Secret, token, a.cfg.Now)
	if err != nil {
		a.logger.Debug("Token rejected", "error", err)
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.CaseNumber == "" {
		return nil, ErrInvalidToken
	}
	if a.isRevoked(claims.ID) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Logout ends a session. The token is denied for the rest of its lifetime
// when revocation is enabled; otherwise the call only acknowledges.
func (a *Authority) Logout(token string) error {
	claims, err := a.Validate(token)
	if err != nil {
		return err
	}

	if a.denylist != nil && claims.ID != "" {
		remaining := claims.ExpiresAtTime().Sub(a.cfg.Now())
		if remaining > 0 {
			a.denylist.Set(claims.ID, struct{}{}, remaining)
		}
	}

	a.logger.Info("Logout", "case_number", claims.CaseNumber, "revoked", a.denylist != nil)
	return nil
}

// RevocationEnabled reports whether Logout revokes tokens.
func (a *Authority) RevocationEnabled() bool {
	return a.denylist != nil
}

// TokenTTL returns the configured session lifetime.
func (a *Authority) TokenTTL() time.Duration {
	return a.cfg.TokenTTL
}

func (a *Authority) isRevoked(jti string) bool {
	if a.denylist == nil || jti == "" {
		return false
	}
	_, found := a.denylist.Get(jti)
	return found
}

func (a *Authority) findUser(users []database.CaseUser, caseNumber, lastName string) *database.CaseUser {
	for i := range users {
		u := &users[i]
		if u.CaseNumber != caseNumber {
			continue
		}
		if a.lastNameMatches(u.LastName, lastName) {
			return u
		}
	}
	return nil
}

func (a *Authority) lastNameMatches(stored, submitted string) bool {
	if a.cfg.LastNameMatch == MatchExact {
		return stored == submitted
	}
	return strings.EqualFold(stored, submitted)
}

// HashPassword returns a bcrypt hash suitable for CaseUser.PasswordHash.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("case-portal-dummy-password"), bcrypt.DefaultCost)
	})
	return dummy
}
