// Package session validates the bearer tokens issued by the identity
// provider in front of the mailroom.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/ports"
	"mailroom/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

var _ ports.SessionValidator = (*JWTValidator)(nil)

// JWTValidator accepts HS256 tokens whose subject is the staff user id.
type JWTValidator struct {
	secret []byte
	issuer string
	clock  kernel.Clock
}

// NewJWTValidator returns a validator. An empty issuer disables the issuer check.
func NewJWTValidator(secret, issuer string, clock kernel.Clock) (*JWTValidator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return &JWTValidator{secret: []byte(secret), issuer: issuer, clock: clock}, nil
}

// Validate returns an error wrapping ports.ErrUnauthenticated for any token
// that is malformed, badly signed, expired or has no usable subject.
func (v *JWTValidator) Validate(_ context.Context, bearer string) (ports.Identity, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return ports.Identity{}, fmt.Errorf("%w: missing token", ports.ErrUnauthenticated)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(bearer, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return ports.Identity{}, fmt.Errorf("%w: invalid token", ports.ErrUnauthenticated)
	}

	userID, err := kernel.ParseUUID(claims.Subject)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: subject: %w", ports.ErrUnauthenticated, err)
	}

	return ports.Identity{UserID: userID}, nil
}

// IssueToken signs a token for userID. It is used by operators and tests to
// mint credentials for the same secret.
func (v *JWTValidator) IssueToken(userID kernel.UUID, ttl time.Duration) (string, error) {
	now := v.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
