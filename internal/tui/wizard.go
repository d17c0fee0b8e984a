package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/timbranthover/envelopedesk/internal/compat"
	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/flow"
)

// openWizard starts the two-step multi-account envelope flow.
func (a *App) openWizard() {
	input := textinput.New()
	input.Placeholder = "account number or name"
	input.CharLimit = 64
	input.Focus()
	a.wizard = wizardState{
		step:     "search",
		input:    input,
		selected: map[string]bool{},
	}
	a.modal = modalMultiStart
}

func (a *App) closeWizard() {
	a.modal = modalNone
	a.wizard = wizardState{}
}

func (a *App) handleWizardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Type == tea.KeyEsc {
		a.closeWizard()
		return a, nil
	}
	if a.wizard.step == "addMore" {
		return a.handleWizardPickKey(m)
	}
	return a.handleWizardSearchKey(m)
}

func (a *App) handleWizardSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up":
		if a.wizard.cursor > 0 {
			a.wizard.cursor--
		}
		return a, nil
	case "down":
		if a.wizard.cursor < len(a.wizard.results)-1 {
			a.wizard.cursor++
		}
		return a, nil
	case "enter":
		if len(a.wizard.results) == 0 {
			return a, nil
		}
		primary := a.wizard.results[a.wizard.cursor]
		a.wizard.primary = &primary
		a.wizard.options = compat.CheckOptions(primary, a.dir.All())
		a.wizard.selected = map[string]bool{}
		a.wizard.cursor = 0
		a.wizard.step = "addMore"
		return a, nil
	}

	var cmd tea.Cmd
	a.wizard.input, cmd = a.wizard.input.Update(m)
	a.wizard.results = a.dir.Search(a.wizard.input.Value())
	if a.wizard.cursor >= len(a.wizard.results) {
		a.wizard.cursor = 0
	}
	return a, cmd
}

func (a *App) handleWizardPickKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	compatible := a.wizard.options.Compatible
	switch m.String() {
	case "backspace":
		// back to primary search
		a.wizard.step = "search"
		a.wizard.primary = nil
		a.wizard.selected = map[string]bool{}
		a.wizard.cursor = 0
		a.wizard.input.Focus()
	case "up", "k":
		if a.wizard.cursor > 0 {
			a.wizard.cursor--
		}
	case "down", "j":
		if a.wizard.cursor < len(compatible)-1 {
			a.wizard.cursor++
		}
	case " ":
		if len(compatible) > 0 {
			num := compatible[a.wizard.cursor].Account.AccountNumber
			a.wizard.selected[num] = !a.wizard.selected[num]
		}
	case "enter":
		if a.wizard.primary == nil {
			return a, nil
		}
		var additional []repository.Account
		for _, cand := range compatible {
			if a.wizard.selected[cand.Account.AccountNumber] {
				additional = append(additional, cand.Account)
			}
		}
		primary := *a.wizard.primary
		a.closeWizard()
		a.formCursor = 0
		a.applyFlow(flow.StartMulti{Primary: primary, Additional: additional})
	}
	return a, nil
}
