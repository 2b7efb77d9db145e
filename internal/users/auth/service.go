// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/constants"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/pkg/uuid"
)

// # Contracts & Types

// PasswordChecker verifies a password with the configured backend.
//
// [*authn.Resolver] implements it, so login and Basic authentication share
// the same backend and rejection mapping.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, account *authn.Account, password string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, sessionID string, timeToLive time.Duration) (string, error)
}

// Service implements the session lifecycle.
type Service struct {
	accountRepository AccountRepository
	sessionRepository SessionRepository
	passwords         PasswordChecker
	tokens            TokenIssuer
	clock             func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	passwords PasswordChecker,
	tokens TokenIssuer,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRepository: sessionRepo,
		passwords:         passwords,
		tokens:            tokens,
		clock:             time.Now,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Username or email
	Password string
}

/*
Login verifies the credentials and opens a new session.

Description: The account is looked up by email when the login contains '@',
by canonical username otherwise. Unknown logins are reported exactly like a
wrong password.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *SessionTokens: Access and refresh tokens sharing one session ID
  - error: [*authn.Rejection] or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*SessionTokens, error) {
	account, err := service.findLogin(context, input.Login)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, authn.Reject(authn.ReasonInvalidPassword, "unknown login", nil)
		}
		return nil, authn.Reject(authn.ReasonBackendUnavailable, "account lookup", err)
	}

	if err := service.passwords.CheckPassword(context, account, input.Password); err != nil {
		return nil, err
	}

	return service.openSession(context, account)
}

func (service *Service) findLogin(context context.Context, login string) (*authn.Account, error) {
	if strings.Contains(login, "@") {
		return service.accountRepository.FindByEmail(context, login)
	}

	username, err := authn.NormalizeUsername(login)
	if err != nil {
		return nil, apperr.NotFound("User")
	}
	return service.accountRepository.FindByUsername(context, username)
}

/*
Logout deletes the session the caller authenticated with.

Returns:
  - error: apperr.Unauthorized when the caller did not use a session token
*/
func (service *Service) Logout(context context.Context, identity *sec.Identity) error {
	session, err := service.currentSession(context, identity)
	if err != nil {
		return err
	}

	if err := service.sessionRepository.Delete(context, session); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
Refresh rotates the caller's session.

Description: The route only accepts the refresh token, so identity always
carries a session. The old session is deleted before a new one is opened,
which invalidates both of its tokens.
*/
func (service *Service) Refresh(context context.Context, identity *sec.Identity) (*SessionTokens, error) {
	session, err := service.currentSession(context, identity)
	if err != nil {
		return nil, err
	}

	account, err := service.accountRepository.FindByID(context, session.Owner)
	if err != nil {
		return nil, err
	}

	if err := service.sessionRepository.Delete(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	return service.openSession(context, account)
}

// Sessions lists the live session IDs of the caller.
func (service *Service) Sessions(context context.Context, identity *sec.Identity) ([]string, error) {
	return service.sessionRepository.ListForUser(context, identity.UserID)
}

/*
Revoke deletes one of the caller's sessions.

Description: Sessions owned by another account are reported as missing.
*/
func (service *Service) Revoke(context context.Context, identity *sec.Identity, sessionID string) error {
	session, err := service.sessionRepository.FindByID(context, sessionID)
	if err != nil {
		return err
	}
	if session.Owner != identity.UserID {
		return apperr.NotFound("Session")
	}

	if err := service.sessionRepository.Delete(context, session); err != nil {
		return fmt.Errorf("auth_service_revoke_failed: %w", err)
	}
	return nil
}

// RevokeOthers deletes every session of the caller except the one in use,
// and returns how many were removed.
func (service *Service) RevokeOthers(context context.Context, identity *sec.Identity) (int, error) {
	ids, err := service.sessionRepository.ListForUser(context, identity.UserID)
	if err != nil {
		return 0, err
	}

	revoked := 0
	for _, id := range ids {
		if id == identity.SessionID {
			continue
		}
		if err := service.Revoke(context, identity, id); err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return revoked, err
		}
		revoked++
	}
	return revoked, nil
}

// Account returns the caller's account.
func (service *Service) Account(context context.Context, identity *sec.Identity) (*authn.Account, error) {
	return service.accountRepository.FindByID(context, identity.UserID)
}

func (service *Service) currentSession(context context.Context, identity *sec.Identity) (*authn.Session, error) {
	if !identity.HasSession() {
		return nil, apperr.Unauthorized("A session token is required")
	}
	return service.sessionRepository.FindByID(context, identity.SessionID)
}

func (service *Service) openSession(context context.Context, account *authn.Account) (*SessionTokens, error) {
	sessionID := uuid.New()
	now := service.clock()

	// ── 1. Tokens ─────────────────────────────────────────────────────────
	accessToken, err := service.tokens.Issue(account.ID, sessionID, constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.Issue(account.ID, sessionID, constants.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// ── 2. Persist ────────────────────────────────────────────────────────
	session := &authn.Session{
		ID:           sessionID,
		Owner:        account.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		CreatedAt:    now,
	}
	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &SessionTokens{
		SessionID:             sessionID,
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(constants.AccessTokenTTL),
		RefreshTokenExpiresAt: now.Add(constants.RefreshTokenTTL),
		Account:               account,
	}, nil
}
