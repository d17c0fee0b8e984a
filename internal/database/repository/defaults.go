package repository

import (
	"context"
	"database/sql"
)

// SeedDefaults ensures baseline reference data exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	acctRepo := NewAccountRepo(db)
	existing, err := acctRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return seedForms(ctx, db)
	}

	accounts := []Account{
		{
			AccountNumber:  "RMA4821",
			AccountName:    "Whitfield Household",
			AccountTypeKey: TypeRMAJoint,
			Signers: []Signer{
				{Name: "Eleanor Whitfield", Role: "Primary"},
				{Name: "Marcus Whitfield", Role: "Joint"},
			},
		},
		{
			AccountNumber:  "RMA4822",
			AccountName:    "Eleanor Whitfield",
			AccountTypeKey: TypeRMAIndividual,
			Signers: []Signer{
				{Name: "Eleanor Whitfield", Role: "Primary"},
			},
		},
		{
			AccountNumber:  "TRU1190",
			AccountName:    "Whitfield Family Trust",
			AccountTypeKey: TypeTrust,
			Signers: []Signer{
				{Name: "Eleanor Whitfield", Role: "Trustee"},
				{Name: "Marcus Whitfield", Role: "Trustee"},
			},
		},
		{
			AccountNumber:  "IRA7731",
			AccountName:    "Eleanor Whitfield Roth IRA",
			AccountTypeKey: TypeIRARoth,
			Signers: []Signer{
				{Name: "Eleanor Whitfield", Role: "Owner"},
			},
		},
		{
			AccountNumber:  "IRA7732",
			AccountName:    "Marcus Whitfield Traditional IRA",
			AccountTypeKey: TypeIRATraditional,
			Signers: []Signer{
				{Name: "Marcus Whitfield", Role: "Owner"},
			},
		},
		{
			AccountNumber:  "RMA5510",
			AccountName:    "Priya Raman",
			AccountTypeKey: TypeRMAIndividual,
			Signers: []Signer{
				{Name: "Priya Raman", Role: "Primary"},
			},
		},
		{
			AccountNumber:  "TRU2284",
			AccountName:    "Raman Living Trust",
			AccountTypeKey: TypeTrust,
			Signers: []Signer{
				{Name: "Priya Raman", Role: "Trustee"},
				{Name: "Dev Raman", Role: "Trustee"},
			},
		},
		{
			AccountNumber:  "RMA6003",
			AccountName:    "Okafor Household",
			AccountTypeKey: TypeRMAJoint,
			Signers: []Signer{
				{Name: "Chinedu Okafor", Role: "Primary"},
				{Name: "Amara Okafor", Role: "Joint"},
			},
		},
	}
	for _, a := range accounts {
		if err := acctRepo.Upsert(ctx, a); err != nil {
			return err
		}
	}
	return seedForms(ctx, db)
}

func seedForms(ctx context.Context, db *sql.DB) error {
	formRepo := NewFormRepo(db)
	existing, err := formRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	forms := []Form{
		{Code: "ACH-AUTH", Name: "ACH Transfer Authorization", Category: "Money Movement", RequiresESignature: true},
		{Code: "WIRE-DOM", Name: "Domestic Wire Request", Category: "Money Movement", RequiresESignature: true},
		{Code: "BEN-CHG", Name: "Beneficiary Change", Category: "Account Maintenance", RequiresESignature: true},
		{Code: "ADDR-CHG", Name: "Address Change", Category: "Account Maintenance", RequiresESignature: false},
		{Code: "TOD-DESIG", Name: "Transfer on Death Designation", Category: "Account Maintenance", RequiresESignature: true},
		{Code: "MARGIN-AGR", Name: "Margin Agreement", Category: "Agreements", RequiresESignature: true},
		{Code: "OPT-AGR", Name: "Options Agreement", Category: "Agreements", RequiresESignature: true},
		{Code: "STMT-PREF", Name: "Statement Delivery Preference", Category: "Preferences", RequiresESignature: false},
		{Code: "TRUST-CERT", Name: "Trustee Certification", Category: "Trust", RequiresESignature: true},
		{Code: "IRA-DIST", Name: "IRA Distribution Request", Category: "Retirement", RequiresESignature: true},
	}
	for _, f := range forms {
		if err := formRepo.Upsert(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
