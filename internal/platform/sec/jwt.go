// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, token management and the
// permission model shared by the authentication pipeline.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, JWT signing,
// permission bitfields) from the domain logic. Nothing here performs I/O.
package sec

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// # Session Token Claims

const (
	// Issuer is the fixed 'iss' claim of every session token.
	Issuer = "Noelware"

	// Audience is the fixed 'aud' claim of every session token.
	Audience = "charted-server"

	// MinSecretLength is the smallest HMAC secret accepted for HS512.
	MinSecretLength = 32
)

var (
	ErrTokenMalformed    = errors.New("sec: malformed token")
	ErrTokenSignature    = errors.New("sec: token signature is invalid")
	ErrTokenExpired      = errors.New("sec: token has expired")
	ErrTokenClaimMissing = errors.New("sec: token is missing a required claim")
	ErrTokenClaimInvalid = errors.New("sec: token claim has an unexpected value")
)

// Claims is the payload of a session token.
//
// All of exp, iss, aud, uid and sid are mandatory. A [Claims] value returned by
// [TokenService.Decode] has passed every check.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the account the session belongs to.
	UserID string `json:"uid"`
	// SessionID is the session the token was issued for.
	SessionID string `json:"sid"`
}

// TokenService signs and verifies HS512 session tokens.
//
// It is safe for concurrent use; the secret is read-only after construction.
type TokenService struct {
	secret []byte
	clock  func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock overrides the time source used for 'exp' checks and issuing.
func WithClock(clock func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.clock = clock
	}
}

// NewTokenService creates a [TokenService] from an HMAC secret.
func NewTokenService(secret []byte, options ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("sec: jwt secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}

	service := &TokenService{
		secret: slices.Clone(secret),
		clock:  time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service, nil
}

// Issue signs a token for the given account and session, valid for timeToLive.
func (service *TokenService) Issue(userID, sessionID string, timeToLive time.Duration) (string, error) {
	currentTime := service.clock()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:    userID,
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

/*
Decode verifies a raw session token and returns its claims.

Checks run in a fixed order and the first failure wins:

 1. HS512 signature against the configured secret.
 2. 'exp' present and in the future.
 3. 'iss' equals [Issuer].
 4. 'aud' contains [Audience].
 5. 'uid' and 'sid' present and parseable as UUIDs.

Errors wrap one of [ErrTokenMalformed], [ErrTokenSignature], [ErrTokenExpired],
[ErrTokenClaimMissing] or [ErrTokenClaimInvalid].
*/
func (service *TokenService) Decode(raw string) (*Claims, error) {
	// ── 1. Signature ──────────────────────────────────────────────────────
	// Claims validation is disabled so the remaining checks keep their order.
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return service.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithoutClaimsValidation())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	// ── 2. Expiry ─────────────────────────────────────────────────────────
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: exp", ErrTokenClaimMissing)
	}
	if !service.clock().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	// ── 3. Issuer ─────────────────────────────────────────────────────────
	if claims.Issuer == "" {
		return nil, fmt.Errorf("%w: iss", ErrTokenClaimMissing)
	}
	if claims.Issuer != Issuer {
		return nil, fmt.Errorf("%w: iss", ErrTokenClaimInvalid)
	}

	// ── 4. Audience ───────────────────────────────────────────────────────
	if len(claims.Audience) == 0 {
		return nil, fmt.Errorf("%w: aud", ErrTokenClaimMissing)
	}
	if !slices.Contains(claims.Audience, Audience) {
		return nil, fmt.Errorf("%w: aud", ErrTokenClaimInvalid)
	}

	// ── 5. Identifiers ────────────────────────────────────────────────────
	if err := requireUUID("uid", claims.UserID); err != nil {
		return nil, err
	}
	if err := requireUUID("sid", claims.SessionID); err != nil {
		return nil, err
	}

	return claims, nil
}

func requireUUID(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrTokenClaimMissing, name)
	}
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%w: %s", ErrTokenClaimInvalid, name)
	}
	return nil
}
