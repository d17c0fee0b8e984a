package workitems

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/timbranthover/envelopedesk/internal/kv"
)

// StorageKey is the single key the whole store serializes under.
const StorageKey = "workitems"

// Persister snapshots the whole store to durable storage on every mutation
// and restores it at session start.
type Persister struct {
	store kv.Store
	log   *zap.Logger
}

func NewPersister(store kv.Store, log *zap.Logger) *Persister {
	if log == nil {
		log = zap.NewNop()
	}
	return &Persister{store: store, log: log}
}

// Load restores the store from durable storage. Missing or malformed
// payloads fall back to an empty store; this never fails the caller.
func (p *Persister) Load() Store {
	raw, ok := p.store.Get(StorageKey)
	if !ok {
		return Store{}
	}
	var s Store
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		p.log.Warn("work item snapshot malformed, starting empty", zap.Error(err))
		return Store{}
	}
	return s
}

// Save re-serializes the whole store. Write failures are logged and
// swallowed; persistence errors never surface to the user flow.
func (p *Persister) Save(s Store) {
	data, err := json.Marshal(s)
	if err != nil {
		p.log.Warn("work item snapshot encode failed", zap.Error(err))
		return
	}
	if err := p.store.Set(StorageKey, string(data)); err != nil {
		p.log.Warn("work item snapshot write failed", zap.Error(err))
	}
}
