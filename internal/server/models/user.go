// Package models holds the entities shared by the server layers.
package models

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/signkeeper/internal/common"
)

// LocalProvider is the provider tag of accounts created with a password.
const LocalProvider = ""

// User is a stored account. A local account has an empty Provider and a
// PasswordHash; a social account has a Provider tag, the provider's user id
// as UID and no hash. (UID, Provider) is unique.
type User struct {
	ID           int64
	UID          string
	Provider     string
	PasswordHash string
	Name         string
	Roles        []string
	CreatedAt    time.Time
}

// NewUser builds an unsaved account and rejects records that would break the
// account invariants: an empty uid or name, an empty role set, or a local
// account without a password hash.
func NewUser(uid, provider, passwordHash, name string, roles []string) (*User, error) {
	switch {
	case uid == "":
		return nil, errors.New("user: empty uid")
	case name == "":
		return nil, errors.New("user: empty name")
	case len(roles) == 0:
		return nil, errors.New("user: empty role set")
	case provider == LocalProvider && passwordHash == "":
		return nil, errors.New("user: local account without password hash")
	}
	r := make([]string, len(roles))
	copy(r, roles)
	return &User{UID: uid, Provider: provider, PasswordHash: passwordHash, Name: name, Roles: r}, nil
}

// NewLocalUser builds an unsaved password account holding ROLE_USER.
func NewLocalUser(uid, passwordHash, name string) (*User, error) {
	return NewUser(uid, LocalProvider, passwordHash, name, []string{common.RoleUser})
}

// NewSocialUser builds an unsaved account bound to a provider identity and
// holding ROLE_USER.
func NewSocialUser(providerUserID, provider, name string) (*User, error) {
	if provider == LocalProvider {
		return nil, errors.New("user: empty provider")
	}
	return NewUser(providerUserID, provider, "", name, []string{common.RoleUser})
}

// IsLocal reports whether the account signs in with a password.
func (u *User) IsLocal() bool {
	return u.Provider == LocalProvider
}

// HasRole reports whether role was granted to the account.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Subject is the token subject for this account: the username for local
// accounts, the decimal surrogate id for social ones.
func (u *User) Subject() string {
	if u.IsLocal() {
		return u.UID
	}
	return strconv.FormatInt(u.ID, 10)
}

// UserView is the outward representation of a User. It never carries the
// password hash.
type UserView struct {
	ID        int64     `json:"msrl"`
	UID       string    `json:"uid"`
	Provider  string    `json:"provider,omitempty"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// View returns the public fields of u.
func (u *User) View() UserView {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return UserView{
		ID:        u.ID,
		UID:       u.UID,
		Provider:  u.Provider,
		Name:      u.Name,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}
