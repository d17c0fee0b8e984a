package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/flow"
	"github.com/timbranthover/envelopedesk/internal/workitems"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	bannerStyle = lipgloss.NewStyle().Italic(true)
)

func (a *App) View() string {
	var body string
	switch a.session.State {
	case flow.StateResults:
		body = a.renderResults()
	case flow.StatePackage, flow.StateMultiPackage:
		body = a.renderPackage()
	case flow.StateWork:
		body = a.renderWork()
	case flow.StateAdmin:
		body = a.renderAdmin()
	case flow.StateFormsLibrary, flow.StateSavedForms:
		body = a.renderLibrary()
	default:
		body = a.renderLanding()
	}

	if a.modal == modalMultiStart {
		body += "\n\n" + a.renderWizard()
	}
	if a.mode != modeIdle {
		body += "\n\n" + a.renderInput()
	}
	if a.status != "" {
		body += "\n\n" + a.status
	}
	return body
}

func (a *App) header(name string) string {
	title := "Envelope Desk — " + name
	if a.location != "" {
		title += "  " + dimStyle.Render(a.location)
	}
	return titleStyle.Render(title)
}

func (a *App) renderLanding() string {
	out := a.header("Landing") + "\n"
	out += bannerStyle.Render(a.banner.Get()) + "\n\n"

	out += fmt.Sprintf("Drafts: %d   In progress: %d   Saved forms: %d\n",
		len(a.store.Drafts), len(a.store.InProgress), a.saved.Count())
	if a.session.SearchError != "" {
		out += "\n" + a.session.SearchError + "\n"
	}
	if draft, ok := a.store.LatestDraft(); ok {
		out += fmt.Sprintf("\nLatest draft: %s (%s)\n", draft.DraftName, draft.AccountNumber)
	}

	out += "\nScenarios: "
	for i, sc := range scenarios {
		if i > 0 {
			out += "  "
		}
		out += fmt.Sprintf("[%d] %s", i+1, sc.Label)
	}
	if _, ok := a.store.LatestDraft(); ok {
		out += "  [r] Resume latest draft"
	}
	out += "\n\n[s] Search account  [m] Multi-account envelope  [f] Forms library  [v] Saved forms  [w] My work"
	if a.adminSes.IsAdmin() {
		out += "  [A] Admin"
	}
	out += "  [q] Quit"
	return out
}

func (a *App) renderResults() string {
	acct := a.session.Account
	if acct == nil {
		return ""
	}
	out := a.header("Account") + "\n"
	out += fmt.Sprintf("%s  %s  (%s)\n", acct.AccountNumber, acct.AccountName, acct.AccountTypeKey)
	var names []string
	for _, s := range acct.Signers {
		names = append(names, s.Name)
	}
	out += "Signers: " + strings.Join(names, " · ") + "\n"

	if len(a.session.AdditionalAccounts) > 0 {
		out += "\nAlso in this envelope:\n"
		for _, extra := range a.session.AdditionalAccounts {
			out += fmt.Sprintf("  %s  %s\n", extra.AccountNumber, extra.AccountName)
		}
	}

	out += "\nForms:\n"
	selected := map[string]bool{}
	for _, code := range a.session.SelectedForms {
		selected[code] = true
	}
	for i, f := range a.forms {
		marker := " "
		if i == a.formCursor {
			marker = "▶"
		}
		check := "[ ]"
		if selected[f.Code] {
			check = "[x]"
		}
		esign := ""
		if f.RequiresESignature {
			esign = "  (e-sign)"
		}
		out += fmt.Sprintf("%s %s %-10s %s%s\n", marker, check, f.Code, f.Name, esign)
	}
	out += "\n[space] Toggle form  [enter] Continue  [b] Back  [q] Quit"
	return out
}

func (a *App) renderPackage() string {
	out := a.header("Package") + "\n"
	if a.session.State == flow.StateMultiPackage && a.session.MultiAccount != nil {
		out += "Accounts:\n"
		for _, sel := range a.session.MultiAccount.Accounts {
			out += fmt.Sprintf("  %s  %s  forms: %s\n",
				sel.Account.AccountNumber, sel.Account.AccountName, strings.Join(sel.Forms, ", "))
		}
	} else if a.session.Account != nil {
		out += fmt.Sprintf("Account: %s  %s\n", a.session.Account.AccountNumber, a.session.Account.AccountName)
		out += "Forms: " + strings.Join(a.session.SelectedForms, ", ") + "\n"
	} else {
		return ""
	}

	if a.requiresESignature(a.session.SelectedForms) {
		out += dimStyle.Render("This package routes through DocuSign.") + "\n"
	} else {
		out += dimStyle.Render("No e-signature required; recorded locally on send.") + "\n"
	}
	if a.draftNotes != "" {
		out += "Notes: " + a.draftNotes + "\n"
	}
	out += "\n[enter] Send for signature  [d] Save draft  [n] Notes  [b] Back  [q] Quit"
	return out
}

func (a *App) renderWork() string {
	out := a.header("My Work") + "\n"

	section := func(name string, items []workitems.WorkItem, active bool, renderItem func(workitems.WorkItem) string) string {
		s := "\n" + name + ":\n"
		if len(items) == 0 {
			s += dimStyle.Render("  (none)") + "\n"
			return s
		}
		for i, item := range items {
			marker := " "
			if active && i == a.workCursor {
				marker = "▶"
			}
			s += fmt.Sprintf("%s %s\n", marker, renderItem(item))
		}
		return s
	}

	out += section("In progress", a.store.InProgress, a.workSection == sectionInProgress, func(item workitems.WorkItem) string {
		accounts := item.AccountNumber
		if len(item.AccountNumbers) > 1 {
			accounts = strings.Join(item.AccountNumbers, "+")
		}
		status := item.Status
		if status == "" {
			status = "recorded"
		}
		line := fmt.Sprintf("%s  %-12s  %s  %s", item.CreatedAt.In(a.tz).Format(a.cfg.UI.DateFormat), status, accounts, strings.Join(item.Forms, ", "))
		if item.Status == workitems.StatusVoided && item.VoidReason != "" {
			line += "  (" + item.VoidReason + ")"
		}
		return line
	})

	out += section("Drafts", a.store.Drafts, a.workSection == sectionDrafts, func(item workitems.WorkItem) string {
		return fmt.Sprintf("%s  %-20s  %s  %s", item.CreatedAt.In(a.tz).Format(a.cfg.UI.DateFormat), item.DraftName, item.AccountNumber, strings.Join(item.Forms, ", "))
	})

	out += "\n[tab] Switch section  [enter] Load draft  [backspace] Delete draft  [x] Void  [u] Advance status  [b] Back  [q] Quit"
	return out
}

func (a *App) renderLibrary() string {
	name := "Forms Library"
	if a.session.State == flow.StateSavedForms {
		name = "Saved Forms"
	}
	out := a.header(name) + "\n"

	if seed := a.session.BrowseSeed; seed != nil {
		out += dimStyle.Render("Scenario: "+seed.Label) + "\n"
	}
	visible := a.libraryForms()
	if len(visible) == 0 {
		out += dimStyle.Render("No forms here yet.") + "\n"
	}
	for i, f := range visible {
		marker := " "
		if i == a.libCursor {
			marker = "▶"
		}
		star := " "
		if a.saved.Contains(f.Code) {
			star = "★"
		}
		out += fmt.Sprintf("%s %s %-10s %-35s %s\n", marker, star, f.Code, f.Name, dimStyle.Render(f.Category))
	}
	out += "\n[space] Save/unsave  [enter] Continue with account  [b] Back  [q] Quit"
	return out
}

func (a *App) renderAdmin() string {
	out := a.header("Admin Workspace") + "\n"
	out += "Operations update: " + bannerStyle.Render(a.banner.Get()) + "\n"
	out += "\nForms catalog:\n"
	for _, f := range a.forms {
		esign := "  "
		if f.RequiresESignature {
			esign = "e-sign"
		}
		out += fmt.Sprintf("  %-10s %-35s %-20s %s\n", f.Code, f.Name, f.Category, esign)
	}
	out += "\n[b] Back  [q] Quit"
	return out
}

func (a *App) renderWizard() string {
	w := a.wizard
	if w.step == "addMore" && w.primary != nil {
		out := titleStyle.Render("Add accounts to envelope") + "\n"
		out += fmt.Sprintf("Primary: %s  %s\n", w.primary.AccountNumber, w.primary.AccountName)

		if len(w.options.Compatible) == 0 && len(w.options.Incompatible) == 0 {
			out += dimStyle.Render("No other accounts share signers with this account.") + "\n"
		}
		for i, cand := range w.options.Compatible {
			marker := " "
			if i == w.cursor {
				marker = "▶"
			}
			check := "[ ]"
			if w.selected[cand.Account.AccountNumber] {
				check = "[x]"
			}
			out += fmt.Sprintf("%s %s %s  %s\n", marker, check, cand.Account.AccountNumber, cand.Account.AccountName)
		}
		if len(w.options.Incompatible) > 0 {
			out += dimStyle.Render("Not compatible with this envelope:") + "\n"
			for _, cand := range w.options.Incompatible {
				out += dimStyle.Render(fmt.Sprintf("      %s  %s — %s", cand.Account.AccountNumber, cand.Account.AccountName, cand.Reason)) + "\n"
			}
		}
		out += "\n[space] Toggle  [enter] Start  [backspace] Change primary  [esc] Cancel"
		return out
	}

	out := titleStyle.Render("Start a multi-account envelope") + "\n"
	out += w.input.View() + "\n"
	for i, acct := range w.results {
		marker := " "
		if i == w.cursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %s  (%s)\n", marker, acct.AccountNumber, acct.AccountName, acct.AccountTypeKey)
	}
	if strings.TrimSpace(w.input.Value()) != "" && len(w.results) == 0 {
		out += dimStyle.Render("No accounts found.") + "\n"
	}
	out += "\n[enter] Select primary  [esc] Cancel"
	return out
}

// libraryForms resolves the visible form list for the library screens:
// saved forms in bookmark order, or the full catalog narrowed by a scenario
// seed (recommended codes float to the top).
func (a *App) libraryForms() []repository.Form {
	if a.session.State == flow.StateSavedForms {
		out := make([]repository.Form, 0, a.saved.Count())
		for _, code := range a.saved.Codes() {
			if f, ok := a.formByCode[code]; ok {
				out = append(out, f)
			}
		}
		return out
	}

	seed := a.session.BrowseSeed
	if seed == nil {
		return a.forms
	}
	recommended := map[string]bool{}
	for _, code := range seed.RecommendedCodes {
		recommended[code] = true
	}
	query := strings.ToUpper(strings.TrimSpace(seed.Query))
	var head, tail []repository.Form
	for _, f := range a.forms {
		if recommended[f.Code] {
			head = append(head, f)
			continue
		}
		if seed.Category != "" && f.Category != seed.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToUpper(f.Code), query) &&
			!strings.Contains(strings.ToUpper(f.Name), query) {
			continue
		}
		tail = append(tail, f)
	}
	return append(head, tail...)
}

func (a *App) renderInput() string {
	labels := map[inputMode]string{
		modeSearch:    "Search account",
		modeDraftName: "Draft name",
		modeVoid:      "Void reason",
		modeNotes:     "Package notes",
	}
	return labels[a.mode] + ": " + a.input.View() + "\n[enter] Confirm  [esc] Cancel"
}
