// Package flow is the view controller: a pure reducer over
// {session, event} -> session. It owns which screen is shown, the navigable
// location, and the guards around admin entry and account availability. All
// side effects are returned as values for the shell to perform.
package flow

import (
	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/directory"
	"github.com/timbranthover/envelopedesk/internal/workitems"
)

// State names a screen.
type State string

const (
	StateLanding      State = "landing"
	StateResults      State = "results"
	StatePackage      State = "package"
	StateMultiPackage State = "multiPackage"
	StateWork         State = "work"
	StateAdmin        State = "admin"
	StateFormsLibrary State = "formsLibrary"
	StateSavedForms   State = "savedForms"
)

// Location mirrors the navigable-location contract: the admin state both
// reflects and drives the "#admin" fragment; every other state clears it.
type Location string

const (
	LocationNone  Location = ""
	LocationAdmin Location = "#admin"
)

// Notice is a fire-and-forget notification for the sink.
type Notice struct {
	Type     string
	Message  string
	Subtitle string
}

// Notice types.
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
)

// Effect is a side effect the shell must perform after a transition.
// Exactly one field is set.
type Effect struct {
	Notice      *Notice
	SetLocation *Location
}

// AccountSelection pairs an account with its chosen forms inside a
// multi-account envelope.
type AccountSelection struct {
	Account repository.Account
	Forms   []string
}

// MultiAccountData is the payload behind the multiPackage screen. The first
// selection is the primary account.
type MultiAccountData struct {
	Accounts []AccountSelection
}

// BrowseSeed pre-populates the forms library from a scenario shortcut.
type BrowseSeed struct {
	Label            string
	Query            string
	Category         string
	RecommendedCodes []string
}

// Session is the application view state. It is a value; Apply returns the
// next session rather than mutating in place.
type Session struct {
	State    State
	Location Location

	Account            *repository.Account
	AdditionalAccounts []repository.Account
	SelectedForms      []string
	DraftData          map[string]string
	MultiAccount       *MultiAccountData
	SearchError        string
	BrowseSeed         *BrowseSeed
}

// Controller resolves events against the immutable session collaborators.
type Controller struct {
	Dir   *directory.Directory
	Admin bool
}

// SearchErrNotFound is the inline message for a search miss.
const SearchErrNotFound = "Account not found. Verify and retry."

// NewSession builds the startup session, honoring a deep-link location.
// Unauthorized admin deep links land on the landing screen with the fragment
// stripped and a notification queued.
func (c Controller) NewSession(loc Location) (Session, []Effect) {
	s := Session{State: StateLanding, Location: loc}
	var effects []Effect
	if loc == LocationAdmin {
		if c.Admin {
			s.State = StateAdmin
		} else {
			effects = append(effects, notify(Notice{
				Type:     NoticeInfo,
				Message:  "Admin access required",
				Subtitle: "Direct access to #admin is blocked for non-admin users.",
			}))
		}
	}
	return syncLocation(s, effects)
}

// Event is a discrete user or external action.
type Event interface{ isEvent() }

type (
	// Search resolves an account number against the directory.
	Search struct{ Number string }
	// ContinueToPackage moves from results into package assembly. A non-nil
	// Multi payload selects the multi-account screen instead.
	ContinueToPackage struct {
		Forms []string
		Multi *MultiAccountData
	}
	// ContinueFromFormsLibrary jumps into package assembly with an account
	// chosen inside the library.
	ContinueFromFormsLibrary struct {
		Forms   []string
		Account repository.Account
	}
	// Back walks the exhaustive back-transition table.
	Back struct{}
	// NavigateWork opens the work screen.
	NavigateWork struct{}
	// NavigateAdmin attempts to open the admin workspace.
	NavigateAdmin struct{}
	// BrowseForms opens the forms library unseeded.
	BrowseForms struct{}
	// BrowseSeeded opens the forms library from a scenario shortcut.
	BrowseSeeded struct{ Seed BrowseSeed }
	// BrowseSavedForms opens the saved-forms view.
	BrowseSavedForms struct{}
	// StartMulti begins a multi-account envelope from the wizard.
	StartMulti struct {
		Primary    repository.Account
		Additional []repository.Account
	}
	// LoadDraft resumes a saved draft.
	LoadDraft struct{ Draft workitems.WorkItem }
	// LocationChanged reports an external navigable-location change
	// (the hash-change analogue).
	LocationChanged struct{ Location Location }
)

func (Search) isEvent()                   {}
func (ContinueToPackage) isEvent()        {}
func (ContinueFromFormsLibrary) isEvent() {}
func (Back) isEvent()                     {}
func (NavigateWork) isEvent()             {}
func (NavigateAdmin) isEvent()            {}
func (BrowseForms) isEvent()              {}
func (BrowseSeeded) isEvent()             {}
func (BrowseSavedForms) isEvent()         {}
func (StartMulti) isEvent()               {}
func (LoadDraft) isEvent()                {}
func (LocationChanged) isEvent()          {}

// Apply computes the next session for an event. It never fails; invalid
// transitions are no-ops, optionally with a notification effect.
func (c Controller) Apply(s Session, e Event) (Session, []Effect) {
	var effects []Effect

	switch ev := e.(type) {
	case Search:
		acct, ok := c.Dir.Find(ev.Number)
		if !ok {
			s.SearchError = SearchErrNotFound
			return s, nil
		}
		s.Account = &acct
		s.SearchError = ""
		s.State = StateResults

	case ContinueToPackage:
		if ev.Multi != nil {
			s.SelectedForms = ev.Forms
			s.DraftData = nil
			s.MultiAccount = ev.Multi
			s.State = StateMultiPackage
			break
		}
		if s.Account == nil {
			return s, nil
		}
		s.SelectedForms = ev.Forms
		s.DraftData = nil
		s.MultiAccount = nil
		s.State = StatePackage

	case ContinueFromFormsLibrary:
		acct := ev.Account
		s.Account = &acct
		s.SelectedForms = ev.Forms
		s.DraftData = nil
		s.SearchError = ""
		s.State = StatePackage

	case Back:
		s = back(s)

	case NavigateWork:
		s.State = StateWork

	case NavigateAdmin:
		if !c.Admin {
			s.State = StateLanding
			effects = append(effects, notify(Notice{
				Type:     NoticeInfo,
				Message:  "Admin access required",
				Subtitle: "This workspace is only available to admin users.",
			}))
			break
		}
		s.State = StateAdmin

	case BrowseForms:
		s.BrowseSeed = nil
		s.State = StateFormsLibrary

	case BrowseSeeded:
		seed := ev.Seed
		s.BrowseSeed = &seed
		s.State = StateFormsLibrary

	case BrowseSavedForms:
		s.State = StateSavedForms

	case StartMulti:
		primary := ev.Primary
		s.Account = &primary
		s.AdditionalAccounts = ev.Additional
		s.State = StateResults

	case LoadDraft:
		acct, ok := c.Dir.Find(ev.Draft.AccountNumber)
		if !ok {
			effects = append(effects, notify(Notice{
				Type:     NoticeInfo,
				Message:  "Draft account not found",
				Subtitle: "Account " + ev.Draft.AccountNumber + " no longer exists",
			}))
			return s, effects
		}
		s.Account = &acct
		s.SelectedForms = ev.Draft.Forms
		s.DraftData = ev.Draft.DraftData
		s.State = StatePackage

	case LocationChanged:
		if ev.Location != LocationAdmin {
			return s, nil
		}
		s.Location = ev.Location
		if c.Admin {
			s.State = StateAdmin
			break
		}
		s.State = StateLanding
		effects = append(effects, notify(Notice{
			Type:     NoticeInfo,
			Message:  "Admin access required",
			Subtitle: "Direct access to #admin is blocked for non-admin users.",
		}))
	}

	return syncLocation(s, effects)
}

// back implements the exhaustive back-transition table.
func back(s Session) Session {
	switch s.State {
	case StatePackage:
		s.State = StateResults
	case StateResults:
		s.State = StateLanding
		s.Account = nil
		s.SearchError = ""
		s.AdditionalAccounts = nil
	case StateFormsLibrary, StateSavedForms:
		s.BrowseSeed = nil
		s.State = StateLanding
	case StateWork, StateAdmin:
		s.State = StateLanding
	case StateMultiPackage:
		s.State = StateResults
	}
	return s
}

// syncLocation reconciles the navigable location with the state. The write
// effect is only emitted when the location actually changes, so re-entering
// a state with an already-matching location is quiet.
func syncLocation(s Session, effects []Effect) (Session, []Effect) {
	want := LocationNone
	if s.State == StateAdmin {
		want = LocationAdmin
	}
	if s.Location != want {
		s.Location = want
		loc := want
		effects = append(effects, Effect{SetLocation: &loc})
	}
	return s, effects
}

func notify(n Notice) Effect {
	return Effect{Notice: &n}
}
