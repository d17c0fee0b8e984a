package tui

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/timbranthover/envelopedesk/internal/kv"
)

const savedFormsKey = "saved_form_codes"

// SavedForms is the persisted most-recent-first list of bookmarked form
// codes. Malformed snapshots degrade to an empty list.
type SavedForms struct {
	store kv.Store
	log   *zap.Logger
	codes []string
}

func NewSavedForms(store kv.Store, log *zap.Logger) *SavedForms {
	if log == nil {
		log = zap.NewNop()
	}
	s := &SavedForms{store: store, log: log}
	raw, ok := store.Get(savedFormsKey)
	if !ok {
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s.codes); err != nil {
		log.Warn("saved forms snapshot malformed, starting empty", zap.Error(err))
		s.codes = nil
	}
	return s
}

// Toggle bookmarks a code, or removes an existing bookmark. New codes go to
// the front.
func (s *SavedForms) Toggle(code string) {
	for i, c := range s.codes {
		if c == code {
			s.codes = append(s.codes[:i:i], s.codes[i+1:]...)
			s.persist()
			return
		}
	}
	s.codes = append([]string{code}, s.codes...)
	s.persist()
}

func (s *SavedForms) Contains(code string) bool {
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

func (s *SavedForms) Codes() []string {
	return s.codes
}

func (s *SavedForms) Count() int {
	return len(s.codes)
}

func (s *SavedForms) persist() {
	data, err := json.Marshal(s.codes)
	if err != nil {
		return
	}
	if err := s.store.Set(savedFormsKey, string(data)); err != nil {
		s.log.Warn("saved forms write failed", zap.Error(err))
	}
}
