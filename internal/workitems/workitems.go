// Package workitems holds the persisted collection of drafts and in-progress
// envelopes. The store is the sole owner of work-item lifetime; all
// operations are pure value transforms so callers never hold references into
// a superseded store.
package workitems

import (
	"time"

	"github.com/google/uuid"

	"github.com/timbranthover/envelopedesk/internal/database/repository"
)

// Kind distinguishes drafts from sent work.
type Kind string

const (
	KindDraft      Kind = "draft"
	KindInProgress Kind = "in-progress"
)

// Provider-reported envelope statuses.
const (
	StatusSent      = "sent"
	StatusVoided    = "voided"
	StatusDelivered = "delivered"
	StatusCompleted = "completed"
)

// WorkItem is a draft or an in-progress envelope.
type WorkItem struct {
	ID             string            `json:"id"`
	Kind           Kind              `json:"kind"`
	AccountNumber  string            `json:"accountNumber,omitempty"`
	AccountNumbers []string          `json:"accountNumbers,omitempty"`
	Forms          []string          `json:"forms"`
	DraftName      string            `json:"draftName,omitempty"`
	DraftData      map[string]string `json:"draftData,omitempty"`
	EnvelopeID     string            `json:"docusignEnvelopeId,omitempty"`
	Status         string            `json:"status,omitempty"`
	VoidReason     string            `json:"voidReason,omitempty"`
	VoidedAt       time.Time         `json:"voidedAt,omitzero"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Store holds both collections, most-recent-first.
type Store struct {
	Drafts     []WorkItem `json:"drafts"`
	InProgress []WorkItem `json:"inProgress"`
}

// StatusChange carries a provider status payload.
type StatusChange struct {
	Status     string
	EnvelopeID string
}

// NewInProgress builds an in-progress item for a single account.
func NewInProgress(account repository.Account, forms []string, envelopeID string, now time.Time) WorkItem {
	item := WorkItem{
		ID:            uuid.NewString(),
		Kind:          KindInProgress,
		AccountNumber: account.AccountNumber,
		Forms:         append([]string(nil), forms...),
		EnvelopeID:    envelopeID,
		CreatedAt:     now,
	}
	if envelopeID != "" {
		item.Status = StatusSent
	}
	return item
}

// NewMultiAccountInProgress builds an in-progress item spanning accounts.
// The first account is the primary.
func NewMultiAccountInProgress(accounts []repository.Account, forms []string, envelopeID string, now time.Time) WorkItem {
	numbers := make([]string, len(accounts))
	for i, a := range accounts {
		numbers[i] = a.AccountNumber
	}
	item := WorkItem{
		ID:             uuid.NewString(),
		Kind:           KindInProgress,
		AccountNumbers: numbers,
		Forms:          append([]string(nil), forms...),
		EnvelopeID:     envelopeID,
		CreatedAt:      now,
	}
	if len(numbers) > 0 {
		item.AccountNumber = numbers[0]
	}
	if envelopeID != "" {
		item.Status = StatusSent
	}
	return item
}

// NewDraft builds a draft item. Saving twice for the same account and forms
// yields two drafts with distinct ids; there is no implicit merge.
func NewDraft(account repository.Account, forms []string, name string, data map[string]string, now time.Time) WorkItem {
	return WorkItem{
		ID:            uuid.NewString(),
		Kind:          KindDraft,
		AccountNumber: account.AccountNumber,
		Forms:         append([]string(nil), forms...),
		DraftName:     name,
		DraftData:     data,
		CreatedAt:     now,
	}
}

// AddInProgress prepends item. If an item with the same id already exists it
// is replaced in place instead, so a later status update with the same id
// never duplicates.
func AddInProgress(s Store, item WorkItem) Store {
	for i, existing := range s.InProgress {
		if existing.ID == item.ID {
			next := cloneItems(s.InProgress)
			next[i] = item
			s.InProgress = next
			return s
		}
	}
	s.InProgress = append([]WorkItem{item}, s.InProgress...)
	return s
}

// AddDraft prepends a new draft entry unconditionally.
func AddDraft(s Store, draft WorkItem) Store {
	s.Drafts = append([]WorkItem{draft}, s.Drafts...)
	return s
}

// RemoveDraft removes a draft by id. Absent ids are a no-op, not an error.
func RemoveDraft(s Store, id string) Store {
	for i, d := range s.Drafts {
		if d.ID == id {
			next := make([]WorkItem, 0, len(s.Drafts)-1)
			next = append(next, s.Drafts[:i]...)
			next = append(next, s.Drafts[i+1:]...)
			s.Drafts = next
			return s
		}
	}
	return s
}

// Void transitions the matched in-progress item to voided, attaching the
// reason and timestamp. A miss is a silent no-op.
func Void(s Store, id, reason string, at time.Time) Store {
	for i, item := range s.InProgress {
		if item.ID == id {
			next := cloneItems(s.InProgress)
			next[i].Status = StatusVoided
			next[i].VoidReason = reason
			next[i].VoidedAt = at
			s.InProgress = next
			return s
		}
	}
	return s
}

// ApplyStatusChange updates the matched item from a provider status payload.
// A miss is a no-op.
func ApplyStatusChange(s Store, id string, change StatusChange) Store {
	for i, item := range s.InProgress {
		if item.ID == id {
			next := cloneItems(s.InProgress)
			if change.Status != "" {
				next[i].Status = change.Status
			}
			if change.EnvelopeID != "" {
				next[i].EnvelopeID = change.EnvelopeID
			}
			s.InProgress = next
			return s
		}
	}
	return s
}

// LatestDraft returns the most recently saved draft.
func (s Store) LatestDraft() (WorkItem, bool) {
	if len(s.Drafts) == 0 {
		return WorkItem{}, false
	}
	return s.Drafts[0], true
}

func cloneItems(items []WorkItem) []WorkItem {
	return append([]WorkItem(nil), items...)
}
