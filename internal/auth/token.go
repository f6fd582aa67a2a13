package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userTypeClient = "client"

// Claims is the payload of a session token.
type Claims struct {
	UserID     string `json:"user_id"`
	CaseNumber string `json:"case_number"`
	UserType   string `json:"user_type"`
	jwt.RegisteredClaims
}

// ExpiresAtTime returns the expiry as a time.Time, or zero if unset.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func signToken(secret []byte, userID, caseNumber string, issuedAt time.Time, ttl time.Duration) (string, *Claims, error) {
	claims := &Claims{
		UserID:     userID,
		CaseNumber: caseNumber,
		UserType:   userTypeClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func parseToken(secret []byte, tokenString string, now func() time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
