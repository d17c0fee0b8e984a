package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/timbranthover/envelopedesk/internal/database"
	"github.com/timbranthover/envelopedesk/internal/database/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAccountUpsertReplacesSigners(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := openTestDB(t)
	repo := repository.NewAccountRepo(db)

	acct := repository.Account{
		AccountNumber:  "RMA9001",
		AccountName:    "Dana Whitcomb",
		AccountTypeKey: repository.TypeRMAIndividual,
		Signers: []repository.Signer{
			{Name: "Dana Whitcomb", Role: "Owner"},
		},
	}
	require.NoError(t, repo.Upsert(ctx, acct))

	acct.AccountName = "Dana & Lee Whitcomb"
	acct.AccountTypeKey = repository.TypeRMAJoint
	acct.Signers = []repository.Signer{
		{Name: "Dana Whitcomb", Role: "Primary Owner"},
		{Name: "Lee Whitcomb", Role: "Joint Owner"},
	}
	require.NoError(t, repo.Upsert(ctx, acct))

	got, err := repo.Get(ctx, "RMA9001")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Dana & Lee Whitcomb", got.AccountName)
	require.Equal(t, repository.TypeRMAJoint, got.AccountTypeKey)
	require.Len(t, got.Signers, 2)
	require.Equal(t, "Dana Whitcomb", got.Signers[0].Name)
	require.Equal(t, 1, got.Signers[1].SignOrder)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM signers").Scan(&count))
	require.Equal(t, 2, count)
}

func TestAccountGetMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewAccountRepo(openTestDB(t))

	got, err := repo.Get(ctx, "NOPE")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAccountListAttachesSigners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	repo := repository.NewAccountRepo(db)

	require.NoError(t, repo.Upsert(ctx, repository.Account{
		AccountNumber:  "TRU9100",
		AccountName:    "Whitcomb Family Trust",
		AccountTypeKey: repository.TypeTrust,
		Signers: []repository.Signer{
			{Name: "Dana Whitcomb", Role: "Trustee"},
			{Name: "Lee Whitcomb", Role: "Trustee"},
		},
	}))
	require.NoError(t, repo.Upsert(ctx, repository.Account{
		AccountNumber:  "IRA9200",
		AccountName:    "Dana Whitcomb Roth IRA",
		AccountTypeKey: repository.TypeIRARoth,
		Signers: []repository.Signer{
			{Name: "Dana Whitcomb", Role: "Owner"},
		},
	}))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	// ordered by account number
	require.Equal(t, "IRA9200", accounts[0].AccountNumber)
	require.Len(t, accounts[0].Signers, 1)
	require.Len(t, accounts[1].Signers, 2)
	require.True(t, accounts[1].IsTrust())
}

func TestFormRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewFormRepo(openTestDB(t))

	f := repository.Form{
		Code:               "TEST-FORM",
		Name:               "Test Form",
		Category:           "Testing",
		RequiresESignature: true,
	}
	require.NoError(t, repo.Upsert(ctx, f))

	got, err := repo.Get(ctx, "TEST-FORM")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.RequiresESignature)

	f.Name = "Renamed Form"
	require.NoError(t, repo.Upsert(ctx, f))
	forms, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	require.Equal(t, "Renamed Form", forms[0].Name)

	require.NoError(t, repo.Delete(ctx, "TEST-FORM"))
	got, err = repo.Get(ctx, "TEST-FORM")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, repository.SeedDefaults(ctx, db))
	require.NoError(t, repository.SeedDefaults(ctx, db))

	repo := repository.NewAccountRepo(db)
	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 8)
	for _, a := range accounts {
		require.NotEmpty(t, a.Signers, "account %s has no signers", a.AccountNumber)
	}

	forms, err := repository.NewFormRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 10)
}
