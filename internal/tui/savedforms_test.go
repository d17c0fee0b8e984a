package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timbranthover/envelopedesk/internal/kv"
)

func TestSavedFormsToggle(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	saved := NewSavedForms(store, nil)

	saved.Toggle("ACH-AUTH")
	saved.Toggle("WIRE-DOM")
	require.Equal(t, []string{"WIRE-DOM", "ACH-AUTH"}, saved.Codes())
	require.True(t, saved.Contains("ACH-AUTH"))

	// toggling an existing code removes it
	saved.Toggle("ACH-AUTH")
	require.False(t, saved.Contains("ACH-AUTH"))
	require.Equal(t, 1, saved.Count())
}

func TestSavedFormsPersistAcrossLoads(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	first := NewSavedForms(store, nil)
	first.Toggle("TRUST-CERT")
	first.Toggle("BEN-CHG")

	second := NewSavedForms(store, nil)
	require.Equal(t, []string{"BEN-CHG", "TRUST-CERT"}, second.Codes())
}

func TestSavedFormsMalformedSnapshot(t *testing.T) {
	t.Parallel()

	store := kv.NewMemStore()
	require.NoError(t, store.Set(savedFormsKey, "{not json"))

	saved := NewSavedForms(store, nil)
	require.Equal(t, 0, saved.Count())

	saved.Toggle("ACH-AUTH")
	require.True(t, saved.Contains("ACH-AUTH"))
}
