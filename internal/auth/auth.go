// Package auth guards the remote view of the shopping list.
//
// Only the remote view is authenticated. The terminal UI runs as the local
// user and never consults this package.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Method names the way a household member proved who they are.
type Method string

const (
	// MethodNone means authentication is disabled.
	MethodNone Method = "none"
	// MethodBasic means HTTP Basic authentication with a bcrypt hash.
	MethodBasic Method = "basic"
	// MethodAPIKey means a shared device key.
	MethodAPIKey Method = "apikey"
	// MethodMulti means any of the configured methods.
	MethodMulti Method = "multi"
)

// Member identifies who is editing the list.
type Member struct {
	Method Method
	Name   string
}

// Authenticator validates a request and returns the member behind it.
type Authenticator interface {
	Authenticate(r *http.Request) (*Member, error)
	Method() Method
}

// Sentinel errors for authentication failures.
var (
	ErrUnauthenticated    = errors.New("unauthenticated: no credentials provided")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownMode        = errors.New("unknown auth mode")
)

// New builds the authenticator for mode. It returns nil for MethodNone.
// basicUsers and apiKeys use the formats accepted by NewBasicAuthenticator
// and NewAPIKeyAuthenticator.
func New(mode Method, basicUsers, apiKeys string) (Authenticator, error) {
	switch mode {
	case MethodNone, "":
		return nil, nil //nolint:nilnil // disabled auth has no authenticator
	case MethodBasic:
		return NewBasicAuthenticator(basicUsers)
	case MethodAPIKey:
		return NewAPIKeyAuthenticator(apiKeys)
	case MethodMulti:
		var authenticators []Authenticator
		if basicUsers != "" {
			basic, err := NewBasicAuthenticator(basicUsers)
			if err != nil {
				return nil, err
			}
			authenticators = append(authenticators, basic)
		}
		if apiKeys != "" {
			keys, err := NewAPIKeyAuthenticator(apiKeys)
			if err != nil {
				return nil, err
			}
			authenticators = append(authenticators, keys)
		}
		return NewMultiAuthenticator(authenticators...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

type contextKey string

const memberKey contextKey = "member"

// FromContext returns the member stored by WithMember.
func FromContext(ctx context.Context) (*Member, bool) {
	m, ok := ctx.Value(memberKey).(*Member)
	return m, ok
}

// WithMember stores m in ctx.
func WithMember(ctx context.Context, m *Member) context.Context {
	return context.WithValue(ctx, memberKey, m)
}
