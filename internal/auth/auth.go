// Package auth builds credentials for the Azure DevOps REST API and encodes
// them for HTTP Basic authentication. A personal access token can come from
// a plaintext flag, an encrypted token file, or an interactive prompt.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports mutually-exclusive or missing parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTokenFileNotFound reports a token file path that does not exist or
	// is not a regular file.
	ErrTokenFileNotFound = errors.New("token file not found")
	// ErrDecrypt reports a token file that cannot be decrypted, typically
	// because it was written by a different user or on a different machine.
	ErrDecrypt = errors.New("failed to decrypt token file")
)

// Credential holds a personal access token in memory. Azure DevOps Basic
// auth uses an empty user name, so the token is the only material. The
// secret is never persisted and is redacted from formatted output.
type Credential struct {
	secret string
}

// NewCredential wraps a personal access token.
func NewCredential(secret string) *Credential {
	return &Credential{secret: secret}
}

// Secret returns the plaintext token. Callers must keep the returned value
// scoped to the computation that needs it.
func (c *Credential) Secret() string {
	return c.secret
}

// String redacts the secret so credentials are safe to log with %v or %s.
func (c *Credential) String() string {
	return "Credential(****)"
}

// GoString redacts the secret for %#v as well.
func (c *Credential) GoString() string {
	return c.String()
}

// SourceKind identifies where a credential comes from.
type SourceKind int

const (
	// SourceToken wraps a plaintext token passed by the caller.
	SourceToken SourceKind = iota
	// SourceTokenFile decrypts a token file written by CreateTokenFile.
	SourceTokenFile
	// SourceInteractive prompts on the terminal with echo disabled.
	SourceInteractive
)

// Source is a tagged credential origin: exactly one of a plaintext token, a
// token file path, or interactive input.
type Source struct {
	Kind      SourceKind
	Token     string
	TokenFile string
}

// NewSource selects a credential source from the optional token and
// tokenFile parameters. Both set is an error; neither set selects
// interactive input.
func NewSource(token, tokenFile string) (Source, error) {
	switch {
	case token != "" && tokenFile != "":
		return Source{}, fmt.Errorf("%w: token and token file are mutually exclusive", ErrInvalidArgument)
	case token != "":
		return Source{Kind: SourceToken, Token: token}, nil
	case tokenFile != "":
		return Source{Kind: SourceTokenFile, TokenFile: tokenFile}, nil
	default:
		return Source{Kind: SourceInteractive}, nil
	}
}

// EncodeAuth returns the Basic auth payload for exactly one of a credential
// or a raw token: the Base64 encoding of ":" + token. Azure DevOps ignores
// the user name portion, hence the leading colon.
func EncodeAuth(cred *Credential, token string) (string, error) {
	secret, err := resolveSecret(cred, token)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(":" + secret)), nil
}

// AuthorizationHeader returns the full Authorization header value for the
// given credential or raw token.
func AuthorizationHeader(cred *Credential, token string) (string, error) {
	encoded, err := EncodeAuth(cred, token)
	if err != nil {
		return "", err
	}
	return "Basic " + encoded, nil
}

func resolveSecret(cred *Credential, token string) (string, error) {
	hasCred := cred != nil && cred.secret != ""
	switch {
	case hasCred && token != "":
		return "", fmt.Errorf("%w: credential and token are mutually exclusive", ErrInvalidArgument)
	case hasCred:
		return cred.secret, nil
	case token != "":
		return token, nil
	default:
		return "", fmt.Errorf("%w: a credential or token is required", ErrInvalidArgument)
	}
}
