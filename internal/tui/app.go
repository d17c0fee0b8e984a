package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/timbranthover/envelopedesk/internal/admin"
	"github.com/timbranthover/envelopedesk/internal/compat"
	"github.com/timbranthover/envelopedesk/internal/config"
	"github.com/timbranthover/envelopedesk/internal/database"
	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/directory"
	"github.com/timbranthover/envelopedesk/internal/esign"
	"github.com/timbranthover/envelopedesk/internal/flow"
	"github.com/timbranthover/envelopedesk/internal/workitems"
)

// App ties the flow reducer, the work item store and the collaborators into
// a Bubble Tea program. There is one logical writer: every mutation happens
// inside Update.
type App struct {
	ctx      context.Context
	cfg      config.Config
	log      *zap.Logger
	dir      *directory.Directory
	flow     flow.Controller
	session  flow.Session
	store    workitems.Store
	persist  *workitems.Persister
	provider esign.Provider
	adminSes admin.Session
	banner   *admin.Banner
	catalog  *admin.Catalog

	forms      []repository.Form
	formByCode map[string]repository.Form

	saved *SavedForms

	status   string
	input    textinput.Model
	mode     inputMode
	modal    modalState
	wizard   wizardState
	location string

	formCursor  int
	workCursor  int
	workSection workSection
	libCursor   int
	draftNotes  string
	voidTarget  string
	tz          *time.Location
}

type inputMode string

const (
	modeIdle      inputMode = ""
	modeSearch    inputMode = "search"
	modeDraftName inputMode = "draftName"
	modeVoid      inputMode = "voidReason"
	modeNotes     inputMode = "notes"
)

type modalState string

const (
	modalNone       modalState = ""
	modalMultiStart modalState = "multiStart"
)

type workSection string

const (
	sectionInProgress workSection = "inProgress"
	sectionDrafts     workSection = "drafts"
)

// wizardState drives the two-step multi-account start wizard: search for the
// primary, then pick compatible extras.
type wizardState struct {
	step     string // "search" | "addMore"
	input    textinput.Model
	results  []repository.Account
	cursor   int
	primary  *repository.Account
	options  compat.Options
	selected map[string]bool
}

// Deps is everything main wires into the TUI.
type Deps struct {
	Dir      *directory.Directory
	Persist  *workitems.Persister
	Provider esign.Provider
	Admin    admin.Session
	Banner   *admin.Banner
	Catalog  *admin.Catalog
	Saved    *SavedForms
	Log      *zap.Logger
}

// New builds the app, restoring persisted work items and honoring a startup
// deep link into the admin workspace.
func New(ctx context.Context, cfg config.Config, deps Deps, startLocation string, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "account number or name"
	input.CharLimit = 64

	ctl := flow.Controller{Dir: deps.Dir, Admin: deps.Admin.IsAdmin()}
	session, effects := ctl.NewSession(flow.Location(startLocation))

	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		dir:      deps.Dir,
		flow:     ctl,
		session:  session,
		store:    deps.Persist.Load(),
		persist:  deps.Persist,
		provider: deps.Provider,
		adminSes: deps.Admin,
		banner:   deps.Banner,
		catalog:  deps.Catalog,
		saved:    deps.Saved,
		input:    input,
		tz:       tz,
	}
	a.runEffects(effects)
	return a
}

func (a *App) Init() tea.Cmd {
	return a.loadForms()
}

func (a *App) loadForms() tea.Cmd {
	return func() tea.Msg {
		forms, err := a.catalog.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return formListMsg(forms)
	}
}

// applyFlow routes an event through the reducer and performs its effects.
func (a *App) applyFlow(e flow.Event) {
	next, effects := a.flow.Apply(a.session, e)
	a.session = next
	a.runEffects(effects)
}

func (a *App) runEffects(effects []flow.Effect) {
	for _, e := range effects {
		if e.Notice != nil {
			a.showNotice(*e.Notice)
		}
		if e.SetLocation != nil {
			a.location = string(*e.SetLocation)
		}
	}
}

// showNotice is the notification sink: best effort, never blocks.
func (a *App) showNotice(n flow.Notice) {
	a.status = n.Message
	if n.Subtitle != "" {
		a.status += " — " + n.Subtitle
	}
	a.log.Info("notice", zap.String("type", n.Type), zap.String("message", n.Message))
}

func (a *App) saveStore() {
	a.persist.Save(a.store)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal == modalMultiStart {
			return a.handleWizardKey(m)
		}
		if a.mode != modeIdle {
			return a.handleInputKey(m)
		}
		return a.handleKey(m)

	case formListMsg:
		a.forms = []repository.Form(m)
		a.formByCode = make(map[string]repository.Form, len(a.forms))
		for _, f := range a.forms {
			a.formByCode[f.Code] = f
		}
		if a.formCursor >= len(a.forms) {
			a.formCursor = 0
		}

	case noticeMsg:
		a.showNotice(flow.Notice(m))

	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Warn("update error", zap.Error(m.error))

	case sendDoneMsg:
		return a, a.finishSend(m)

	case voidDoneMsg:
		return a, a.finishVoid(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "b":
		a.applyFlow(flow.Back{})
	case "w":
		a.applyFlow(flow.NavigateWork{})
		a.workCursor = 0
		a.workSection = sectionInProgress
	case "A":
		a.applyFlow(flow.NavigateAdmin{})
	}

	switch a.session.State {
	case flow.StateLanding:
		return a.handleLandingKey(m)
	case flow.StateResults:
		return a.handleResultsKey(m)
	case flow.StatePackage, flow.StateMultiPackage:
		return a.handlePackageKey(m)
	case flow.StateWork:
		return a.handleWorkKey(m)
	case flow.StateFormsLibrary, flow.StateSavedForms:
		return a.handleLibraryKey(m)
	}
	return a, nil
}

func (a *App) handleLandingKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "s", "/":
		a.mode = modeSearch
		a.input.Placeholder = "account number or name"
		a.input.SetValue("")
		a.input.Focus()
	case "f":
		a.applyFlow(flow.BrowseForms{})
		a.libCursor = 0
	case "v":
		a.applyFlow(flow.BrowseSavedForms{})
		a.libCursor = 0
	case "m":
		a.openWizard()
	case "r":
		if draft, ok := a.store.LatestDraft(); ok {
			a.applyFlow(flow.LoadDraft{Draft: draft})
			a.syncNotesFromDraft()
		}
	case "1", "2", "3":
		i := int(m.String()[0] - '1')
		if i < len(scenarios) {
			a.applyFlow(flow.BrowseSeeded{Seed: scenarios[i]})
			a.libCursor = 0
		}
	}
	return a, nil
}

// scenarios are the landing-screen shortcuts into a pre-filtered forms
// library view.
var scenarios = []flow.BrowseSeed{
	{
		Label:            "Move money",
		Category:         "Money Movement",
		RecommendedCodes: []string{"ACH-AUTH", "WIRE-DOM"},
	},
	{
		Label:            "Update beneficiaries",
		Query:            "benef",
		RecommendedCodes: []string{"BEN-CHG", "TOD-DESIG"},
	},
	{
		Label:            "Trust paperwork",
		Category:         "Trust",
		RecommendedCodes: []string{"TRUST-CERT"},
	},
}

func (a *App) handleResultsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.formCursor > 0 {
			a.formCursor--
		}
	case "down", "j":
		if a.formCursor < len(a.forms)-1 {
			a.formCursor++
		}
	case " ":
		if len(a.forms) > 0 {
			a.toggleSelectedForm(a.forms[a.formCursor].Code)
		}
	case "enter", "c":
		forms := a.session.SelectedForms
		if len(forms) == 0 {
			a.status = "select at least one form"
			return a, nil
		}
		a.draftNotes = ""
		if len(a.session.AdditionalAccounts) > 0 && a.session.Account != nil {
			multi := &flow.MultiAccountData{}
			multi.Accounts = append(multi.Accounts, flow.AccountSelection{Account: *a.session.Account, Forms: forms})
			for _, extra := range a.session.AdditionalAccounts {
				multi.Accounts = append(multi.Accounts, flow.AccountSelection{Account: extra, Forms: forms})
			}
			a.applyFlow(flow.ContinueToPackage{Forms: forms, Multi: multi})
		} else {
			a.applyFlow(flow.ContinueToPackage{Forms: forms})
		}
	}
	return a, nil
}

func (a *App) toggleSelectedForm(code string) {
	selected := a.session.SelectedForms
	for i, c := range selected {
		if c == code {
			a.session.SelectedForms = append(selected[:i:i], selected[i+1:]...)
			return
		}
	}
	a.session.SelectedForms = append(selected, code)
}

func (a *App) handlePackageKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "n":
		a.mode = modeNotes
		a.input.Placeholder = "package notes"
		a.input.SetValue(a.draftNotes)
		a.input.Focus()
	case "d":
		a.mode = modeDraftName
		a.input.Placeholder = "draft name"
		a.input.SetValue("")
		a.input.Focus()
	case "S", "enter":
		if a.session.State == flow.StateMultiPackage {
			return a, a.sendMultiPackage()
		}
		return a, a.sendSinglePackage()
	}
	return a, nil
}

func (a *App) handleWorkKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.currentWorkItems()
	switch m.String() {
	case "tab":
		if a.workSection == sectionInProgress {
			a.workSection = sectionDrafts
		} else {
			a.workSection = sectionInProgress
		}
		a.workCursor = 0
	case "up", "k":
		if a.workCursor > 0 {
			a.workCursor--
		}
	case "down", "j":
		if a.workCursor < len(items)-1 {
			a.workCursor++
		}
	case "x":
		if a.workSection == sectionInProgress && len(items) > 0 {
			item := items[a.workCursor]
			if item.EnvelopeID == "" || item.Status == workitems.StatusVoided {
				a.status = "nothing to void for this item"
				return a, nil
			}
			a.voidTarget = item.ID
			a.mode = modeVoid
			a.input.Placeholder = "void reason"
			a.input.SetValue("")
			a.input.Focus()
		}
	case "u":
		if a.workSection == sectionInProgress && len(items) > 0 {
			a.advanceStatus(items[a.workCursor])
		}
	case "backspace", "delete":
		if a.workSection == sectionDrafts && len(items) > 0 {
			a.store = workitems.RemoveDraft(a.store, items[a.workCursor].ID)
			a.saveStore()
			if a.workCursor >= len(a.store.Drafts) && a.workCursor > 0 {
				a.workCursor--
			}
			a.status = "draft deleted"
		}
	case "enter", "l":
		if a.workSection == sectionDrafts && len(items) > 0 {
			a.applyFlow(flow.LoadDraft{Draft: items[a.workCursor]})
			a.syncNotesFromDraft()
		}
	}
	return a, nil
}

func (a *App) handleLibraryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := a.libraryForms()
	switch m.String() {
	case "up", "k":
		if a.libCursor > 0 {
			a.libCursor--
		}
	case "down", "j":
		if a.libCursor < len(visible)-1 {
			a.libCursor++
		}
	case " ":
		if len(visible) > 0 {
			a.saved.Toggle(visible[a.libCursor].Code)
		}
	case "enter", "c":
		if a.session.Account == nil {
			a.status = "search for an account first"
			return a, nil
		}
		if len(visible) == 0 {
			return a, nil
		}
		a.applyFlow(flow.ContinueFromFormsLibrary{
			Forms:   []string{visible[a.libCursor].Code},
			Account: *a.session.Account,
		})
		a.draftNotes = ""
	}
	return a, nil
}

// handleInputKey collects text for whichever single-line input is active.
func (a *App) handleInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.mode = modeIdle
		a.input.Blur()
		return a, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(a.input.Value())
		mode := a.mode
		a.mode = modeIdle
		a.input.Blur()
		return a.submitInput(mode, text)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) submitInput(mode inputMode, text string) (tea.Model, tea.Cmd) {
	switch mode {
	case modeSearch:
		if text == "" {
			return a, nil
		}
		a.formCursor = 0
		a.applyFlow(flow.Search{Number: text})
	case modeDraftName:
		return a, a.saveDraft(text)
	case modeVoid:
		return a, a.voidEnvelope(a.voidTarget, text)
	case modeNotes:
		a.draftNotes = text
	}
	return a, nil
}

func (a *App) syncNotesFromDraft() {
	a.draftNotes = a.session.DraftData["notes"]
}

func (a *App) currentWorkItems() []workitems.WorkItem {
	if a.workSection == sectionDrafts {
		return a.store.Drafts
	}
	return a.store.InProgress
}

// advanceStatus steps a sent envelope through the provider-reported
// lifecycle, exercising the status-change path locally.
func (a *App) advanceStatus(item workitems.WorkItem) {
	next := map[string]string{
		workitems.StatusSent:      workitems.StatusDelivered,
		workitems.StatusDelivered: workitems.StatusCompleted,
	}[item.Status]
	if next == "" {
		a.status = "no further status for this item"
		return
	}
	a.store = workitems.ApplyStatusChange(a.store, item.ID, workitems.StatusChange{Status: next})
	a.saveStore()
	a.status = "status: " + next
}

func now() time.Time {
	return database.Now()
}

// messages
type formListMsg []repository.Form

type noticeMsg flow.Notice

type errMsg struct{ error }

type sendDoneMsg struct {
	itemID  string
	signers []string
	res     esign.SendResult
	err     error
}

type voidDoneMsg struct {
	itemID string
	reason string
	res    esign.VoidResult
	err    error
}
