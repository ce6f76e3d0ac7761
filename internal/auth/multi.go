package auth

import (
	"errors"
	"net/http"
)

// MultiAuthenticator accepts any of several methods. A method that finds no
// credentials passes to the next one. A method that finds bad credentials
// fails the request.
type MultiAuthenticator struct {
	authenticators []Authenticator
}

// NewMultiAuthenticator tries authenticators in the given order.
func NewMultiAuthenticator(authenticators ...Authenticator) *MultiAuthenticator {
	return &MultiAuthenticator{authenticators: authenticators}
}

// Authenticate implements Authenticator.
func (a *MultiAuthenticator) Authenticate(r *http.Request) (*Member, error) {
	for _, authenticator := range a.authenticators {
		member, err := authenticator.Authenticate(r)
		if err == nil {
			return member, nil
		}
		if !errors.Is(err, ErrUnauthenticated) {
			return nil, err
		}
	}

	return nil, ErrUnauthenticated
}

// Method implements Authenticator.
func (a *MultiAuthenticator) Method() Method {
	return MethodMulti
}
