package models

import "time"

// CodePurpose scopes a one-time code. An account holds at most one
// outstanding code per purpose.
type CodePurpose string

const (
	PurposeSignupVerify  CodePurpose = "signup-verify"
	PurposePasswordReset CodePurpose = "password-reset"
)

// PendingCode is an outstanding one-time code. Only the keyed digest of the
// code is kept.
type PendingCode struct {
	AccountID string
	Purpose   CodePurpose
	Digest    string
	IssuedAt  time.Time
}
