// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn_test

import (
	"context"
	"crypto/tls"
	"errors"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charted-dev/charted/internal/authn"
)

type fakeLDAPConn struct {
	bindErr     error
	startTLSErr error
	release     chan struct{}

	boundDN       string
	boundPassword string
	startedTLS    bool
	unbound       chan struct{}
}

func newFakeLDAPConn(bindErr error) *fakeLDAPConn {
	return &fakeLDAPConn{bindErr: bindErr, unbound: make(chan struct{}, 1)}
}

func (conn *fakeLDAPConn) StartTLS(_ *tls.Config) error {
	conn.startedTLS = true
	return conn.startTLSErr
}

func (conn *fakeLDAPConn) Bind(username, password string) error {
	if conn.release != nil {
		<-conn.release
	}
	conn.boundDN = username
	conn.boundPassword = password
	return conn.bindErr
}

func (conn *fakeLDAPConn) Unbind() error {
	conn.unbound <- struct{}{}
	return nil
}

func ldapOptions() authn.LDAPOptions {
	return authn.LDAPOptions{
		Server:            "ldap://localhost:389",
		BindDN:            "uid=%u,dc=domain,dc=com",
		ConnectionTimeout: 5 * time.Second,
	}
}

func dialerFor(conn *fakeLDAPConn) authn.LDAPDialer {
	return func(context.Context) (authn.LDAPConn, error) { return conn, nil }
}

func ldapRequest(password string) authn.Request {
	return authn.Request{Account: &authn.Account{Username: "noel"}, Password: password}
}

/*
TestLDAP_Authenticate verifies how bind result codes map to backend outcomes.
*/
func TestLDAP_Authenticate(t *testing.T) {
	tests := []struct {
		name        string
		bindErr     error
		wantErr     error
		wantBackend bool
	}{
		{name: "success", bindErr: nil},
		{name: "code 6", bindErr: &ldap.Error{ResultCode: 6, Err: errors.New("bad password")}, wantErr: authn.ErrInvalidPassword},
		{name: "code 49", bindErr: &ldap.Error{ResultCode: ldap.LDAPResultInvalidCredentials, Err: errors.New("invalid credentials")}, wantErr: authn.ErrInvalidPassword},
		{name: "unwilling to perform", bindErr: &ldap.Error{ResultCode: ldap.LDAPResultUnwillingToPerform, Err: errors.New("no")}, wantBackend: true},
		{name: "transport error", bindErr: errors.New("connection reset"), wantBackend: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeLDAPConn(tt.bindErr)
			backend := authn.NewLDAP(ldapOptions(), dialerFor(conn), discardLogger())

			err := backend.Authenticate(context.Background(), ldapRequest("noeliscutieuwu"))

			switch {
			case tt.wantBackend:
				assert.True(t, authn.IsBackendError(err))
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, authn.IsBackendError(err))
			default:
				assert.NoError(t, err)
			}

			assert.Equal(t, "uid=noel,dc=domain,dc=com", conn.boundDN)
			assert.Equal(t, "noeliscutieuwu", conn.boundPassword)

			select {
			case <-conn.unbound:
			case <-time.After(time.Second):
				t.Fatal("connection was never unbound")
			}
		})
	}
}

func TestLDAP_EmptyPasswordNeverBinds(t *testing.T) {
	dialed := false
	backend := authn.NewLDAP(ldapOptions(), func(context.Context) (authn.LDAPConn, error) {
		dialed = true
		return newFakeLDAPConn(nil), nil
	}, discardLogger())

	err := backend.Authenticate(context.Background(), ldapRequest(""))

	assert.ErrorIs(t, err, authn.ErrInvalidPassword)
	assert.False(t, dialed)
}

func TestLDAP_DialFailure(t *testing.T) {
	backend := authn.NewLDAP(ldapOptions(), func(context.Context) (authn.LDAPConn, error) {
		return nil, errors.New("connection refused")
	}, discardLogger())

	err := backend.Authenticate(context.Background(), ldapRequest("hunter2"))
	assert.True(t, authn.IsBackendError(err))
}

func TestLDAP_StartTLS(t *testing.T) {
	options := ldapOptions()
	options.StartTLS = true

	t.Run("upgrades before binding", func(t *testing.T) {
		conn := newFakeLDAPConn(nil)
		backend := authn.NewLDAP(options, dialerFor(conn), discardLogger())

		require.NoError(t, backend.Authenticate(context.Background(), ldapRequest("hunter2")))
		assert.True(t, conn.startedTLS)
	})

	t.Run("failure is a backend error", func(t *testing.T) {
		conn := newFakeLDAPConn(nil)
		conn.startTLSErr = errors.New("tls handshake")
		backend := authn.NewLDAP(options, dialerFor(conn), discardLogger())

		err := backend.Authenticate(context.Background(), ldapRequest("hunter2"))
		assert.True(t, authn.IsBackendError(err))
		assert.Empty(t, conn.boundDN)
	})
}

/*
TestLDAP_ContextCanceled verifies that a slow directory does not hold the
caller past its deadline.
*/
func TestLDAP_ContextCanceled(t *testing.T) {
	conn := newFakeLDAPConn(nil)
	conn.release = make(chan struct{})
	defer close(conn.release)

	backend := authn.NewLDAP(ldapOptions(), dialerFor(conn), discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := backend.Authenticate(ctx, ldapRequest("hunter2"))

	assert.True(t, authn.IsBackendError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLDAP_BindDN(t *testing.T) {
	backend := authn.NewLDAP(ldapOptions(), nil, discardLogger())

	assert.Equal(t, "uid=noel,dc=domain,dc=com", backend.BindDN("noel"))
	assert.Equal(t, `uid=a\,b,dc=domain,dc=com`, backend.BindDN("a,b"))
	assert.Equal(t, "ldap", backend.Name())
}
