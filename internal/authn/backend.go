// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"fmt"
	"log/slog"

	"github.com/charted-dev/charted/internal/platform/config"
)

// NewAuthenticator selects the single password backend configured for the process.
func NewAuthenticator(cfg config.Sessions, logger *slog.Logger) (Authenticator, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		return NewLocal(cfg.MaxConcurrentHashes), nil

	case config.BackendLDAP:
		return NewLDAP(LDAPOptions{
			Server:                cfg.LDAP.Server,
			BindDN:                cfg.LDAP.BindDN,
			StartTLS:              cfg.LDAP.StartTLS,
			InsecureSkipTLSVerify: cfg.LDAP.InsecureSkipTLSVerify,
			ConnectionTimeout:     cfg.LDAP.ConnectionTimeout,
		}, nil, logger), nil

	case config.BackendStatic:
		return NewStatic(cfg.StaticUsers, logger), nil
	}

	return nil, fmt.Errorf("authn: unknown sessions backend %q", cfg.Backend)
}
