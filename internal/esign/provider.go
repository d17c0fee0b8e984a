// Package esign defines the signature-provider collaborator. The application
// only depends on the Provider interface; the shipped Simulator keeps the rest
// of the app non-blocking while real API wiring is added later.
package esign

import "context"

// Provider defines the envelope operations the application consumes. All
// calls may fail with a transport error (the returned error), which is
// distinct from an application-level failure (Success=false).
type Provider interface {
	SendEnvelope(ctx context.Context, pkg Package, accountNumber string) (SendResult, error)
	SendMultiAccount(ctx context.Context, pkg MultiPackage) (SendResult, error)
	VoidEnvelope(ctx context.Context, envelopeID, reason string) (VoidResult, error)
}

// Recipient is a signer routed on an envelope.
type Recipient struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Package is a single-account form package ready for routing.
type Package struct {
	Forms      []string          `json:"forms"`
	Fields     map[string]string `json:"fields,omitempty"`
	Recipients []Recipient       `json:"recipients"`
}

// AccountPackage pairs one account's number with its form selection inside a
// multi-account envelope.
type AccountPackage struct {
	AccountNumber string   `json:"accountNumber"`
	Forms         []string `json:"forms"`
}

// MultiPackage is a combined envelope spanning accounts with shared signers.
type MultiPackage struct {
	Accounts   []AccountPackage  `json:"accounts"`
	Fields     map[string]string `json:"fields,omitempty"`
	Recipients []Recipient       `json:"recipients"`
}

// SendResult reports the provider's answer to a send.
type SendResult struct {
	Success    bool   `json:"success"`
	EnvelopeID string `json:"envelopeId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// VoidResult reports the provider's answer to a void.
type VoidResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
