// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charted-dev/charted/internal/authn"
)

/*
TestExtract verifies header parsing for every scheme, including the malformed
forms that fall back to an anonymous credential.
*/
func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		header     []string
		wantScheme authn.Scheme
		wantUser   string
		wantPass   string
		wantToken  string
		wantErr    error
	}{
		{name: "no header", wantScheme: authn.SchemeAnonymous},
		{name: "basic", header: []string{"Basic bm9lbDpodW50ZXIy"}, wantScheme: authn.SchemeBasic, wantUser: "noel", wantPass: "hunter2"},
		{name: "basic lowercase scheme", header: []string{"basic bm9lbDpodW50ZXIy"}, wantScheme: authn.SchemeBasic, wantUser: "noel", wantPass: "hunter2"},
		{name: "password keeps later colons", header: []string{"Basic bm9lbDphOmI="}, wantScheme: authn.SchemeBasic, wantUser: "noel", wantPass: "a:b"},
		{name: "username is case mapped", header: []string{"Basic Tm9lbDpwdw=="}, wantScheme: authn.SchemeBasic, wantUser: "noel", wantPass: "pw"},
		{name: "basic invalid base64", header: []string{"Basic !!!"}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "basic without colon", header: []string{"Basic bm9lbA=="}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "basic invalid utf-8", header: []string{"Basic /zphYg=="}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "basic empty username", header: []string{"Basic OnB3"}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "basic missing payload", header: []string{"Basic"}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "bearer", header: []string{"Bearer eyJhbGciOi.abc.def"}, wantScheme: authn.SchemeBearer, wantToken: "eyJhbGciOi.abc.def"},
		{name: "bearer trailing space", header: []string{"Bearer tok "}, wantScheme: authn.SchemeBearer, wantToken: "tok"},
		{name: "bearer empty", header: []string{"Bearer "}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "apikey", header: []string{"ApiKey charted_abc"}, wantScheme: authn.SchemeAPIKey, wantToken: "charted_abc"},
		{name: "apikey mixed case", header: []string{"APIKEY charted_abc"}, wantScheme: authn.SchemeAPIKey, wantToken: "charted_abc"},
		{name: "apikey empty", header: []string{"ApiKey"}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "empty header", header: []string{""}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrMalformedCredential},
		{name: "unsupported scheme", header: []string{"Digest username=noel"}, wantScheme: authn.SchemeAnonymous, wantErr: authn.ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != nil {
				header["Authorization"] = tt.header
			}

			credential := authn.Extract(header)

			assert.Equal(t, tt.wantScheme, credential.Scheme)
			assert.Equal(t, tt.wantUser, credential.Username)
			assert.Equal(t, tt.wantPass, credential.Password)
			assert.Equal(t, tt.wantToken, credential.Token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, credential.Diagnostic, tt.wantErr)
				assert.True(t, credential.IsMalformed())
				assert.Empty(t, credential.Username)
				assert.Empty(t, credential.Token)
			} else {
				assert.NoError(t, credential.Diagnostic)
				assert.False(t, credential.IsMalformed())
			}
		})
	}
}

func TestScheme_String(t *testing.T) {
	assert.Equal(t, "anonymous", authn.SchemeAnonymous.String())
	assert.Equal(t, "basic", authn.SchemeBasic.String())
	assert.Equal(t, "bearer", authn.SchemeBearer.String())
	assert.Equal(t, "apikey", authn.SchemeAPIKey.String())
}
