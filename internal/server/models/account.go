// Package models defines server-side data models persisted in the database.
package models

import "time"

// AccountStatus is the verification state of an account. The only
// transition is StatusUnverified -> StatusVerified.
type AccountStatus string

const (
	StatusUnverified AccountStatus = "unverified"
	StatusVerified   AccountStatus = "verified"
)

type Account struct {
	ID           string        `db:"id" json:"_id"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Status       AccountStatus `db:"status" json:"-"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

func (a *Account) Verified() bool {
	return a.Status == StatusVerified
}

// Claims is the identity asserted by a session token.
type Claims struct {
	AccountID string
	Email     string
	Verified  bool
}
