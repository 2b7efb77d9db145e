// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// LDAPOptions configures the directory used by [LDAP].
type LDAPOptions struct {
	// Server is an ldap:// or ldaps:// URL.
	Server string
	// BindDN is a DN template where '%u' is replaced with the escaped username.
	BindDN                string
	StartTLS              bool
	InsecureSkipTLSVerify bool
	ConnectionTimeout     time.Duration
}

// LDAPConn is the part of an LDAP connection the backend uses.
type LDAPConn interface {
	StartTLS(config *tls.Config) error
	Bind(username, password string) error
	Unbind() error
}

// LDAPDialer opens a fresh directory connection.
type LDAPDialer func(ctx context.Context) (LDAPConn, error)

// Bind result codes that mean the password was wrong.
var ldapInvalidPasswordCodes = map[uint16]bool{
	6:                                 true,
	ldap.LDAPResultInvalidCredentials: true,
}

// LDAP authenticates with a simple bind against a directory server.
//
// A connection is opened per attempt and torn down in the background after
// the result is known; nothing is pooled.
type LDAP struct {
	options LDAPOptions
	dial    LDAPDialer
	logger  *slog.Logger
}

// NewLDAP creates an [LDAP] backend. A nil dialer uses the network.
func NewLDAP(options LDAPOptions, dialer LDAPDialer, logger *slog.Logger) *LDAP {
	backend := &LDAP{options: options, dial: dialer, logger: logger}
	if backend.dial == nil {
		backend.dial = backend.dialDirectory
	}
	return backend
}

func (backend *LDAP) Name() string { return "ldap" }

// BindDN renders the bind DN for username.
func (backend *LDAP) BindDN(username string) string {
	return strings.ReplaceAll(backend.options.BindDN, "%u", ldap.EscapeDN(username))
}

/*
Authenticate binds as the account with the supplied password.

Bind result 0 is success, 6 and 49 are [ErrInvalidPassword], anything else is
a [*BackendError]. When ctx ends before the directory answers, the attempt is
abandoned and reported as a backend failure.
*/
func (backend *LDAP) Authenticate(ctx context.Context, request Request) error {
	if request.Account == nil {
		return ErrInvalidPassword
	}

	// An empty password would turn into an unauthenticated bind.
	if request.Password == "" {
		return ErrInvalidPassword
	}

	// ── 1. Connect ────────────────────────────────────────────────────────
	connection, err := backend.dial(ctx)
	if err != nil {
		return &BackendError{Backend: backend.Name(), Err: err}
	}
	defer backend.teardown(connection)

	// ── 2. StartTLS ───────────────────────────────────────────────────────
	if backend.options.StartTLS {
		if err := connection.StartTLS(backend.tlsConfig()); err != nil {
			return &BackendError{Backend: backend.Name(), Err: fmt.Errorf("starttls: %w", err)}
		}
	}

	// ── 3. Bind ───────────────────────────────────────────────────────────
	result := make(chan error, 1)
	go func() {
		result <- connection.Bind(backend.BindDN(request.Account.Username), request.Password)
	}()

	select {
	case err := <-result:
		return backend.classify(err)
	case <-ctx.Done():
		return &BackendError{Backend: backend.Name(), Err: ctx.Err()}
	}
}

func (backend *LDAP) classify(err error) error {
	if err == nil {
		return nil
	}

	var ldapErr *ldap.Error
	if errors.As(err, &ldapErr) && ldapInvalidPasswordCodes[ldapErr.ResultCode] {
		return ErrInvalidPassword
	}

	return &BackendError{Backend: backend.Name(), Err: err}
}

// teardown unbinds without making the caller wait for the directory.
func (backend *LDAP) teardown(connection LDAPConn) {
	go func() {
		if err := connection.Unbind(); err != nil {
			backend.logger.Warn("ldap_unbind_failed", slog.Any("error", err))
		}
	}()
}

func (backend *LDAP) dialDirectory(_ context.Context) (LDAPConn, error) {
	options := []ldap.DialOpt{
		ldap.DialWithDialer(&net.Dialer{Timeout: backend.options.ConnectionTimeout}),
	}
	if strings.HasPrefix(backend.options.Server, "ldaps://") {
		options = append(options, ldap.DialWithTLSConfig(backend.tlsConfig()))
	}

	connection, err := ldap.DialURL(backend.options.Server, options...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", backend.options.Server, err)
	}
	connection.SetTimeout(backend.options.ConnectionTimeout)

	return connection, nil
}

func (backend *LDAP) tlsConfig() *tls.Config {
	config := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: backend.options.InsecureSkipTLSVerify, //nolint:gosec // opt-in via SESSIONS_LDAP_INSECURE_SKIP_TLS_VERIFY
	}
	if parsed, err := url.Parse(backend.options.Server); err == nil {
		config.ServerName = parsed.Hostname()
	}
	return config
}
