package auth

import (
	"errors"
	"time"
)

// Role identifies which account table a login targets.
type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RoleEmployee Role = "employee"
)

var (
	// ErrInvalidCredentials covers unknown email and password mismatch.
	// Both surface identically so login cannot be used to probe accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned for deactivated accounts.
	ErrAccountInactive = errors.New("account inactive")

	// ErrAccountDeleted is returned for soft-deleted accounts.
	ErrAccountDeleted = errors.New("account deleted")

	// ErrAccountNotApproved is returned for doctors awaiting approval.
	ErrAccountNotApproved = errors.New("account not approved")

	// ErrMissingHash means the account row has no stored password hash;
	// this is a server configuration problem, not a caller error.
	ErrMissingHash = errors.New("account has no password hash")
)

// Account is a credential record from one of the role tables.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	PasswordHash *string    `json:"-"`
	Active       bool       `json:"active"`
	Approved     bool       `json:"approved"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Profile is the caller-visible slice of an account.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// Profile strips credential fields from the account.
func (a *Account) Profile() *Profile {
	return &Profile{ID: a.ID, Email: a.Email, FullName: a.FullName, Role: a.Role}
}
