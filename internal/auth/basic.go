package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthenticator authenticates household members with HTTP Basic
// credentials checked against bcrypt hashes.
type BasicAuthenticator struct {
	members map[string]string // name -> bcrypt hash
	// dummyHash is compared for unknown names so both failure paths cost
	// one bcrypt comparison.
	dummyHash []byte
}

// NewBasicAuthenticator parses "alice:$2a$...,bob:$2a$...".
func NewBasicAuthenticator(usersConfig string) (*BasicAuthenticator, error) {
	members, err := parsePairs(usersConfig, "basic auth", "user:hash")
	if err != nil {
		return nil, err
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("shoppinglist"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	return &BasicAuthenticator{members: members, dummyHash: dummy}, nil
}

// Authenticate implements Authenticator.
func (a *BasicAuthenticator) Authenticate(r *http.Request) (*Member, error) {
	name, password, ok := r.BasicAuth()
	if !ok {
		return nil, ErrUnauthenticated
	}

	hash, exists := a.members[name]
	if !exists {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Member{Method: MethodBasic, Name: name}, nil
}

// Method implements Authenticator.
func (a *BasicAuthenticator) Method() Method {
	return MethodBasic
}
