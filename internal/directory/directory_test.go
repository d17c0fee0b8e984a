package directory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timbranthover/envelopedesk/internal/database/repository"
)

func acct(number, name, typeKey string, signers ...string) repository.Account {
	a := repository.Account{AccountNumber: number, AccountName: name, AccountTypeKey: typeKey}
	for _, s := range signers {
		a.Signers = append(a.Signers, repository.Signer{Name: s})
	}
	return a
}

func TestFindNormalizesNumber(t *testing.T) {
	t.Parallel()

	d := New([]repository.Account{
		acct("RMA4821", "Whitfield Household", repository.TypeRMAJoint, "Eleanor Whitfield"),
	}, 0)

	for _, q := range []string{"rma4821", "  RMA4821  ", "rma 4821"} {
		got, ok := d.Find(q)
		require.True(t, ok, "query %q", q)
		require.Equal(t, "RMA4821", got.AccountNumber)
	}

	_, ok := d.Find("AB1234")
	require.False(t, ok)
}

func TestSearchMatchesNumberOrName(t *testing.T) {
	t.Parallel()

	d := New([]repository.Account{
		acct("RMA4821", "Whitfield Household", repository.TypeRMAJoint),
		acct("TRU1190", "Whitfield Family Trust", repository.TypeTrust),
		acct("RMA5510", "Priya Raman", repository.TypeRMAIndividual),
	}, 0)

	byName := d.Search("whitfield")
	require.Len(t, byName, 2)

	byNumber := d.Search("tru")
	require.Len(t, byNumber, 1)
	require.Equal(t, "TRU1190", byNumber[0].AccountNumber)

	require.Empty(t, d.Search("   "))
	require.Empty(t, d.Search("zzz"))
}

func TestSearchCapAndOrdering(t *testing.T) {
	t.Parallel()

	var accounts []repository.Account
	for i := 0; i < 10; i++ {
		num := fmt.Sprintf("RMA%04d", i)
		accounts = append(accounts, acct(num, "Bulk Account", repository.TypeRMAIndividual))
	}
	d := New(accounts, 6)

	got := d.Search("RMA")
	require.Len(t, got, 6)

	// exact-number query ranks its account first
	got = d.Search("RMA0007")
	require.NotEmpty(t, got)
	require.Equal(t, "RMA0007", got[0].AccountNumber)
}
