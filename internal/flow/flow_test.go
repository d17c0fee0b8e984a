package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/directory"
	"github.com/timbranthover/envelopedesk/internal/workitems"
)

func testController(admin bool) Controller {
	dir := directory.New([]repository.Account{
		{
			AccountNumber:  "RMA4821",
			AccountName:    "Whitfield Household",
			AccountTypeKey: repository.TypeRMAJoint,
			Signers: []repository.Signer{
				{Name: "Eleanor Whitfield"}, {Name: "Marcus Whitfield"},
			},
		},
		{
			AccountNumber:  "RMA5510",
			AccountName:    "Priya Raman",
			AccountTypeKey: repository.TypeRMAIndividual,
			Signers:        []repository.Signer{{Name: "Priya Raman"}},
		},
	}, 0)
	return Controller{Dir: dir, Admin: admin}
}

func notices(effects []Effect) []Notice {
	var out []Notice
	for _, e := range effects {
		if e.Notice != nil {
			out = append(out, *e.Notice)
		}
	}
	return out
}

func locationWrites(effects []Effect) []Location {
	var out []Location
	for _, e := range effects {
		if e.SetLocation != nil {
			out = append(out, *e.SetLocation)
		}
	}
	return out
}

func TestSearchMissStaysOnLanding(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	s, effects := c.Apply(s, Search{Number: "AB1234"})
	require.Equal(t, StateLanding, s.State)
	require.Equal(t, SearchErrNotFound, s.SearchError)
	require.Empty(t, effects)
}

func TestSearchHitEntersResults(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	s, _ = c.Apply(s, Search{Number: "rma 4821"})
	require.Equal(t, StateResults, s.State)
	require.NotNil(t, s.Account)
	require.Equal(t, "RMA4821", s.Account.AccountNumber)
	require.Empty(t, s.SearchError)
}

func TestPackageRequiresAccount(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	next, effects := c.Apply(s, ContinueToPackage{Forms: []string{"ACH-AUTH"}})
	require.Equal(t, s, next, "entering package without an account is a no-op")
	require.Empty(t, effects)
}

func TestBackTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from State
		to   State
	}{
		{StatePackage, StateResults},
		{StateResults, StateLanding},
		{StateFormsLibrary, StateLanding},
		{StateSavedForms, StateLanding},
		{StateWork, StateLanding},
		{StateAdmin, StateLanding},
		{StateMultiPackage, StateResults},
		{StateLanding, StateLanding},
	}
	c := testController(true)
	for _, tc := range cases {
		s := Session{State: tc.from}
		if tc.from == StateAdmin {
			s.Location = LocationAdmin
		}
		next, _ := c.Apply(s, Back{})
		require.Equal(t, tc.to, next.State, "back from %s", tc.from)
	}
}

func TestBackFromResultsClearsSearchContext(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)
	s, _ = c.Apply(s, Search{Number: "RMA4821"})
	s.AdditionalAccounts = []repository.Account{{AccountNumber: "RMA5510"}}

	s, _ = c.Apply(s, Back{})
	require.Equal(t, StateLanding, s.State)
	require.Nil(t, s.Account)
	require.Empty(t, s.SearchError)
	require.Empty(t, s.AdditionalAccounts)
}

func TestAdminDeniedViaDeepLink(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, effects := c.NewSession(LocationAdmin)

	require.Equal(t, StateLanding, s.State)
	require.Equal(t, LocationNone, s.Location, "admin marker stripped")
	require.Equal(t, []Location{LocationNone}, locationWrites(effects))
	ns := notices(effects)
	require.Len(t, ns, 1)
	require.Equal(t, "Admin access required", ns[0].Message)
}

func TestAdminDeniedViaHashChange(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	s, effects := c.Apply(s, LocationChanged{Location: LocationAdmin})
	require.Equal(t, StateLanding, s.State)
	require.Equal(t, LocationNone, s.Location)
	require.Equal(t, []Location{LocationNone}, locationWrites(effects))
	require.Len(t, notices(effects), 1)
}

func TestAdminAllowed(t *testing.T) {
	t.Parallel()

	c := testController(true)
	s, _ := c.NewSession(LocationNone)

	s, effects := c.Apply(s, NavigateAdmin{})
	require.Equal(t, StateAdmin, s.State)
	require.Equal(t, LocationAdmin, s.Location)
	require.Equal(t, []Location{LocationAdmin}, locationWrites(effects))
	require.Empty(t, notices(effects))

	// re-entering with a matching location does not re-write it
	s, effects = c.Apply(s, LocationChanged{Location: LocationAdmin})
	require.Equal(t, StateAdmin, s.State)
	require.Empty(t, locationWrites(effects))
}

func TestLoadDraftMissingAccountNotifies(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	draft := workitems.NewDraft(
		repository.Account{AccountNumber: "GONE99"},
		[]string{"ACH-AUTH"}, "old draft", nil,
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	)
	next, effects := c.Apply(s, LoadDraft{Draft: draft})
	require.Equal(t, StateLanding, next.State)
	ns := notices(effects)
	require.Len(t, ns, 1)
	require.Equal(t, "Draft account not found", ns[0].Message)
}

func TestLoadDraftRestoresPackage(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	draft := workitems.NewDraft(
		repository.Account{AccountNumber: "RMA4821"},
		[]string{"ACH-AUTH", "BEN-CHG"}, "whitfield pkg",
		map[string]string{"amount": "100"},
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	)
	s, _ = c.Apply(s, LoadDraft{Draft: draft})
	require.Equal(t, StatePackage, s.State)
	require.Equal(t, "RMA4821", s.Account.AccountNumber)
	require.Equal(t, []string{"ACH-AUTH", "BEN-CHG"}, s.SelectedForms)
	require.Equal(t, map[string]string{"amount": "100"}, s.DraftData)
}

func TestMultiEnvelopeStart(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	primary, _ := c.Dir.Find("RMA4821")
	extra, _ := c.Dir.Find("RMA5510")
	s, _ = c.Apply(s, StartMulti{Primary: primary, Additional: []repository.Account{extra}})
	require.Equal(t, StateResults, s.State)
	require.Equal(t, "RMA4821", s.Account.AccountNumber)
	require.Len(t, s.AdditionalAccounts, 1)

	multi := &MultiAccountData{Accounts: []AccountSelection{
		{Account: primary, Forms: []string{"ACH-AUTH"}},
		{Account: extra, Forms: []string{"ADDR-CHG"}},
	}}
	s, _ = c.Apply(s, ContinueToPackage{Forms: []string{"ACH-AUTH"}, Multi: multi})
	require.Equal(t, StateMultiPackage, s.State)
	require.NotNil(t, s.MultiAccount)

	s, _ = c.Apply(s, Back{})
	require.Equal(t, StateResults, s.State)
}

func TestBrowseSeedClearedOnBack(t *testing.T) {
	t.Parallel()

	c := testController(false)
	s, _ := c.NewSession(LocationNone)

	s, _ = c.Apply(s, BrowseSeeded{Seed: BrowseSeed{Label: "Move money", Query: "wire"}})
	require.Equal(t, StateFormsLibrary, s.State)
	require.NotNil(t, s.BrowseSeed)

	s, _ = c.Apply(s, Back{})
	require.Equal(t, StateLanding, s.State)
	require.Nil(t, s.BrowseSeed)
}
