package repository

import "time"

// Account type keys.
const (
	TypeRMAIndividual  = "RMA_INDIVIDUAL"
	TypeRMAJoint       = "RMA_JOINT"
	TypeTrust          = "TRUST"
	TypeIRARoth        = "IRA_ROTH"
	TypeIRATraditional = "IRA_TRADITIONAL"
)

// Account represents an account row plus its ordered signers.
type Account struct {
	AccountNumber  string
	AccountName    string
	AccountTypeKey string
	Signers        []Signer
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsIRA reports whether the account is an individually owned retirement account.
func (a Account) IsIRA() bool {
	return a.AccountTypeKey == TypeIRARoth || a.AccountTypeKey == TypeIRATraditional
}

// IsTrust reports whether the account is a trust.
func (a Account) IsTrust() bool {
	return a.AccountTypeKey == TypeTrust
}

// Signer represents a signer row. Signers belong to exactly one account and
// are compared across accounts by case-insensitive name equality.
type Signer struct {
	ID            string
	AccountNumber string
	Name          string
	Role          string
	SignOrder     int
}

// Form represents a forms-catalog row.
type Form struct {
	Code               string
	Name               string
	Category           string
	RequiresESignature bool
	UpdatedAt          time.Time
}
