package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const purposeActivation = "activation"

var ErrInvalidToken = errors.New("invalid token")

// Activator issues and verifies account activation tokens.
type Activator interface {
	Issue(userID uint64) (string, error)
	Verify(token string) (uint64, error)
}

type activationClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTActivator signs activation tokens with HMAC-SHA256 and a fixed lifetime.
type JWTActivator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTActivator creates an activator. now may be nil to use time.Now.
func NewJWTActivator(secret string, ttl time.Duration, now func() time.Time) *JWTActivator {
	if now == nil {
		now = time.Now
	}
	return &JWTActivator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

// Issue creates a token bound to userID.
func (a *JWTActivator) Issue(userID uint64) (string, error) {
	issuedAt := a.now()
	claims := activationClaims{
		Purpose: purposeActivation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.ttl)),
			ID:        uuid.New().String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify returns the user id a valid, unexpired activation token was issued for.
func (a *JWTActivator) Verify(tokenString string) (uint64, error) {
	claims := &activationClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Purpose != purposeActivation {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
