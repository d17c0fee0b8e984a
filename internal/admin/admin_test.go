package admin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timbranthover/envelopedesk/internal/config"
	"github.com/timbranthover/envelopedesk/internal/database"
	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/kv"
)

func TestSessionFromConfigAndEnv(t *testing.T) {
	require.True(t, NewSession(config.AdminConfig{Enabled: true}).IsAdmin())
	require.False(t, NewSession(config.AdminConfig{}).IsAdmin())

	t.Setenv("ENVELOPEDESK_TEST_ADMIN", "true")
	require.True(t, NewSession(config.AdminConfig{UserEnv: "ENVELOPEDESK_TEST_ADMIN"}).IsAdmin())

	t.Setenv("ENVELOPEDESK_TEST_ADMIN", "0")
	require.False(t, NewSession(config.AdminConfig{UserEnv: "ENVELOPEDESK_TEST_ADMIN"}).IsAdmin())
}

func TestBannerSaveAndReset(t *testing.T) {
	t.Parallel()

	b := NewBanner(kv.NewMemStore())
	require.Equal(t, DefaultOperationsUpdate, b.Get())

	require.Equal(t, "Wire cutoff moved to 3pm ET today.", b.Save("Wire cutoff moved to 3pm ET today."))
	require.Equal(t, "Wire cutoff moved to 3pm ET today.", b.Get())

	require.Equal(t, DefaultOperationsUpdate, b.Reset())
	require.Equal(t, DefaultOperationsUpdate, b.Get())
}

func TestCatalogValidatesAndNormalizes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := NewCatalog(repository.NewFormRepo(db))

	require.ErrorIs(t, c.Upsert(ctx, repository.Form{Code: "X-1"}), ErrInvalidForm)
	require.ErrorIs(t, c.Upsert(ctx, repository.Form{Name: "No Code"}), ErrInvalidForm)

	require.NoError(t, c.Upsert(ctx, repository.Form{Code: " ach-auth ", Name: " ACH Authorization "}))
	forms, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	require.Equal(t, "ACH-AUTH", forms[0].Code)
	require.Equal(t, "ACH Authorization", forms[0].Name)

	require.NoError(t, c.Delete(ctx, "ach-auth"))
	forms, err = c.List(ctx)
	require.NoError(t, err)
	require.Empty(t, forms)
}
