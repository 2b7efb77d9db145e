// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authn turns the Authorization header of a request into a validated
[sec.Identity].

Pipeline:

  - Extract parses the header into a [Credential]. It never fails hard.
  - A [Resolver] validates the credential: Basic through the configured
    [Authenticator], Bearer through the session token and session store,
    ApiKey through the API key store.
  - Failures are [*Rejection] values with a stable [Reason].

Exactly one [Authenticator] backend (local, ldap or static) is active per process.
*/
package authn

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/secure/precis"
)

// # Credentials

// Scheme identifies the kind of credential a request carried.
type Scheme int

const (
	SchemeAnonymous Scheme = iota
	SchemeBasic
	SchemeBearer
	SchemeAPIKey
)

func (s Scheme) String() string {
	switch s {
	case SchemeBasic:
		return "basic"
	case SchemeBearer:
		return "bearer"
	case SchemeAPIKey:
		return "apikey"
	default:
		return "anonymous"
	}
}

var (
	ErrMalformedCredential = errors.New("authn: malformed credential")
	ErrUnsupportedScheme   = errors.New("authn: unsupported authorization scheme")
)

// Credential is the unvalidated authentication material of one request.
//
// Exactly one scheme is set. A malformed header yields [SchemeAnonymous] with
// a non-nil Diagnostic and no other field populated.
type Credential struct {
	Scheme Scheme

	// Basic
	Username string
	Password string

	// Bearer and ApiKey
	Token string

	// Diagnostic explains why a present header was not usable.
	Diagnostic error
}

// IsMalformed reports whether a header was present but unusable.
func (c Credential) IsMalformed() bool {
	return c.Scheme == SchemeAnonymous && c.Diagnostic != nil
}

// Extract parses the Authorization header. It performs no I/O and never panics.
func Extract(header http.Header) Credential {
	if len(header.Values("Authorization")) == 0 {
		return Credential{Scheme: SchemeAnonymous}
	}

	value := strings.TrimSpace(header.Get("Authorization"))
	scheme, rest, _ := strings.Cut(value, " ")
	rest = strings.TrimSpace(rest)

	switch {
	case value == "":
		return malformed("empty authorization header")
	case strings.EqualFold(scheme, "Basic"):
		return extractBasic(rest)
	case strings.EqualFold(scheme, "Bearer"):
		return extractToken(SchemeBearer, rest)
	case strings.EqualFold(scheme, "ApiKey"):
		return extractToken(SchemeAPIKey, rest)
	default:
		return Credential{
			Scheme:     SchemeAnonymous,
			Diagnostic: fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme),
		}
	}
}

func extractBasic(encoded string) Credential {
	if encoded == "" {
		return malformed("missing basic credentials")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return malformed("invalid base64 in basic credentials")
	}
	if !utf8.Valid(decoded) {
		return malformed("basic credentials are not valid utf-8")
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return malformed("basic credentials are missing the ':' separator")
	}

	username, err = NormalizeUsername(username)
	if err != nil {
		return malformed("invalid username in basic credentials")
	}

	return Credential{Scheme: SchemeBasic, Username: username, Password: password}
}

func extractToken(scheme Scheme, token string) Credential {
	if token == "" {
		return malformed(fmt.Sprintf("missing %s token", scheme))
	}
	if strings.ContainsAny(token, " \t") {
		return malformed(fmt.Sprintf("%s token contains whitespace", scheme))
	}
	return Credential{Scheme: scheme, Token: token}
}

func malformed(reason string) Credential {
	return Credential{
		Scheme:     SchemeAnonymous,
		Diagnostic: fmt.Errorf("%w: %s", ErrMalformedCredential, reason),
	}
}

// NormalizeUsername applies the PRECIS UsernameCaseMapped profile so that
// lookups compare canonical forms.
func NormalizeUsername(username string) (string, error) {
	normalized, err := precis.UsernameCaseMapped.String(username)
	if err != nil {
		return "", fmt.Errorf("authn: invalid username %q: %w", username, err)
	}
	return normalized, nil
}
