// Package compat decides whether a set of accounts may be combined into a
// single signature envelope.
package compat

import (
	"strings"

	"github.com/timbranthover/envelopedesk/internal/database/repository"
)

// Result reports a compatibility decision. Reason is user-facing and stable.
type Result struct {
	Compatible bool
	Reason     string
}

// Candidate pairs an account with the outcome of checking it against a
// primary account.
type Candidate struct {
	Account repository.Account
	Reason  string
}

// Options partitions a primary account's shared-signer relatives.
type Options struct {
	Compatible   []Candidate
	Incompatible []Candidate
}

// Stable user-facing incompatibility reasons.
const (
	ReasonTrustWithIRA       = "Trust accounts cannot be combined with IRA accounts"
	ReasonIRANotSoleOwner    = "IRA accounts are individually owned and can only be combined with accounts held solely by the IRA owner"
	ReasonTrusteeSetMismatch = "Trust accounts with different trustees cannot share an envelope"
)

// SignerNames returns the case-insensitive signer-name set of an account.
func SignerNames(a repository.Account) map[string]bool {
	set := make(map[string]bool, len(a.Signers))
	for _, s := range a.Signers {
		set[strings.ToLower(strings.TrimSpace(s.Name))] = true
	}
	return set
}

// SharesSigner reports whether candidate has at least one signer name in
// common with primary. This is the pre-filter for envelope assembly, not the
// compatibility rule itself.
func SharesSigner(primary, candidate repository.Account) bool {
	names := SignerNames(primary)
	for _, s := range candidate.Signers {
		if names[strings.ToLower(strings.TrimSpace(s.Name))] {
			return true
		}
	}
	return false
}

// CanShareEnvelope decides whether the given accounts may be combined into
// one envelope. The first account is the primary. Results are computed fresh
// on every call; account data is static within a session but candidate sets
// vary per query.
func CanShareEnvelope(accounts []repository.Account) Result {
	if len(accounts) <= 1 {
		return Result{Compatible: true}
	}

	var hasTrust, hasIRA bool
	for _, a := range accounts {
		if a.IsTrust() {
			hasTrust = true
		}
		if a.IsIRA() {
			hasIRA = true
		}
	}
	if hasTrust && hasIRA {
		return Result{Reason: ReasonTrustWithIRA}
	}

	// An IRA has a single owner; every other account in the envelope must be
	// held solely by that owner.
	for _, ira := range accounts {
		if !ira.IsIRA() || len(ira.Signers) == 0 {
			continue
		}
		owner := strings.ToLower(strings.TrimSpace(ira.Signers[0].Name))
		for _, other := range accounts {
			if other.AccountNumber == ira.AccountNumber {
				continue
			}
			names := SignerNames(other)
			if len(names) != 1 || !names[owner] {
				return Result{Reason: ReasonIRANotSoleOwner}
			}
		}
	}

	// Trusts may only be combined with trusts sharing the exact trustee set.
	var firstTrust *repository.Account
	for i := range accounts {
		if !accounts[i].IsTrust() {
			continue
		}
		if firstTrust == nil {
			firstTrust = &accounts[i]
			continue
		}
		if !sameSignerSet(*firstTrust, accounts[i]) {
			return Result{Reason: ReasonTrusteeSetMismatch}
		}
	}

	return Result{Compatible: true}
}

// CheckOptions evaluates every other account that shares a signer with
// primary, partitioning into compatible and incompatible candidates.
// Accounts with no signer overlap are excluded entirely: that is surfaced as
// "no shared signers" by the caller, never as an incompatibility reason.
func CheckOptions(primary repository.Account, all []repository.Account) Options {
	var opts Options
	for _, cand := range all {
		if cand.AccountNumber == primary.AccountNumber {
			continue
		}
		if !SharesSigner(primary, cand) {
			continue
		}
		res := CanShareEnvelope([]repository.Account{primary, cand})
		if res.Compatible {
			opts.Compatible = append(opts.Compatible, Candidate{Account: cand})
		} else {
			opts.Incompatible = append(opts.Incompatible, Candidate{Account: cand, Reason: res.Reason})
		}
	}
	return opts
}

func sameSignerSet(a, b repository.Account) bool {
	as, bs := SignerNames(a), SignerNames(b)
	if len(as) != len(bs) {
		return false
	}
	for name := range as {
		if !bs[name] {
			return false
		}
	}
	return true
}
