package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/esign"
	"github.com/timbranthover/envelopedesk/internal/flow"
	"github.com/timbranthover/envelopedesk/internal/workitems"
)

// sendSinglePackage performs the optimistic send: the work item is recorded
// and the view switches immediately; the provider call runs as a command and
// reports back through sendDoneMsg. Local state never depends on the timing
// of the remote response.
func (a *App) sendSinglePackage() tea.Cmd {
	if a.session.Account == nil {
		return nil
	}
	acct := *a.session.Account
	forms := append([]string(nil), a.session.SelectedForms...)

	item := workitems.NewInProgress(acct, forms, "", now())
	a.store = workitems.AddInProgress(a.store, item)
	a.saveStore()
	a.applyFlow(flow.NavigateWork{})
	a.workSection = sectionInProgress
	a.workCursor = 0

	if !a.requiresESignature(forms) {
		a.status = "package recorded — no e-signature required"
		return nil
	}

	pkg := esign.Package{
		Forms:      forms,
		Fields:     a.packageFields(),
		Recipients: recipients(acct),
	}
	signers := signerNames([]repository.Account{acct})
	return func() tea.Msg {
		res, err := a.provider.SendEnvelope(a.ctx, pkg, acct.AccountNumber)
		return sendDoneMsg{itemID: item.ID, signers: signers, res: res, err: err}
	}
}

// sendMultiPackage is the multi-account variant; one envelope spans every
// selected account and routes to the union of their signers.
func (a *App) sendMultiPackage() tea.Cmd {
	multi := a.session.MultiAccount
	if multi == nil || len(multi.Accounts) == 0 {
		return nil
	}

	accounts := make([]repository.Account, len(multi.Accounts))
	for i, sel := range multi.Accounts {
		accounts[i] = sel.Account
	}
	forms := unionForms(multi.Accounts)

	item := workitems.NewMultiAccountInProgress(accounts, forms, "", now())
	a.store = workitems.AddInProgress(a.store, item)
	a.saveStore()
	a.applyFlow(flow.NavigateWork{})
	a.workSection = sectionInProgress
	a.workCursor = 0

	if !a.requiresESignature(forms) {
		a.status = "package recorded — no e-signature required"
		return nil
	}

	pkg := esign.MultiPackage{Fields: a.packageFields()}
	for _, sel := range multi.Accounts {
		pkg.Accounts = append(pkg.Accounts, esign.AccountPackage{
			AccountNumber: sel.Account.AccountNumber,
			Forms:         sel.Forms,
		})
	}
	signers := signerNames(accounts)
	for _, name := range signers {
		pkg.Recipients = append(pkg.Recipients, esign.Recipient{Name: name})
	}
	return func() tea.Msg {
		res, err := a.provider.SendMultiAccount(a.ctx, pkg)
		return sendDoneMsg{itemID: item.ID, signers: signers, res: res, err: err}
	}
}

// finishSend applies the provider outcome. Failures only notify: the item was
// already recorded, so the user's action is never silently lost. Success is
// routed through the status-change path so timing cannot matter.
func (a *App) finishSend(m sendDoneMsg) tea.Cmd {
	if m.err != nil {
		a.showNotice(flow.Notice{
			Message:  "DocuSign error",
			Subtitle: m.err.Error() + " — item still added to My Work",
		})
		return nil
	}
	if !m.res.Success {
		a.showNotice(flow.Notice{
			Message:  "DocuSign error",
			Subtitle: orUnknown(m.res.Error) + " — item still added to My Work",
		})
		return nil
	}
	a.store = workitems.ApplyStatusChange(a.store, m.itemID, workitems.StatusChange{
		Status:     workitems.StatusSent,
		EnvelopeID: m.res.EnvelopeID,
	})
	a.saveStore()
	a.showNotice(flow.Notice{
		Type:    flow.NoticeSuccess,
		Message: "DocuSign envelope sent to " + strings.Join(m.signers, ", "),
	})
	return nil
}

// saveDraft snapshots the current package as a named draft. Saving twice for
// the same account and forms creates two entries; drafts never merge.
func (a *App) saveDraft(name string) tea.Cmd {
	if name == "" {
		name = "Untitled draft"
	}
	var draft workitems.WorkItem
	switch {
	case a.session.State == flow.StateMultiPackage && a.session.MultiAccount != nil:
		multi := a.session.MultiAccount
		if len(multi.Accounts) == 0 {
			return nil
		}
		primary := multi.Accounts[0].Account
		draft = workitems.NewDraft(primary, unionForms(multi.Accounts), name, a.draftData(), now())
	case a.session.Account != nil:
		draft = workitems.NewDraft(*a.session.Account, a.session.SelectedForms, name, a.draftData(), now())
	default:
		return nil
	}
	a.store = workitems.AddDraft(a.store, draft)
	a.saveStore()
	a.status = "draft saved: " + name
	return nil
}

// voidEnvelope dispatches the provider void; the local item is only marked
// voided once the provider confirms.
func (a *App) voidEnvelope(itemID, reason string) tea.Cmd {
	a.voidTarget = ""
	var item *workitems.WorkItem
	for i := range a.store.InProgress {
		if a.store.InProgress[i].ID == itemID {
			item = &a.store.InProgress[i]
			break
		}
	}
	if item == nil || item.EnvelopeID == "" {
		return nil
	}
	envelopeID := item.EnvelopeID
	return func() tea.Msg {
		res, err := a.provider.VoidEnvelope(a.ctx, envelopeID, reason)
		return voidDoneMsg{itemID: itemID, reason: reason, res: res, err: err}
	}
}

func (a *App) finishVoid(m voidDoneMsg) tea.Cmd {
	if m.err != nil {
		a.showNotice(flow.Notice{Message: "Failed to void envelope", Subtitle: m.err.Error()})
		return nil
	}
	if !m.res.Success {
		a.showNotice(flow.Notice{Message: "Failed to void envelope", Subtitle: orUnknown(m.res.Error)})
		return nil
	}
	a.store = workitems.Void(a.store, m.itemID, m.reason, now())
	a.saveStore()
	a.showNotice(flow.Notice{Type: flow.NoticeSuccess, Message: "Envelope voided successfully"})
	return nil
}

// requiresESignature reports whether any selected form is flagged for
// provider routing; packages without one are recorded locally only.
func (a *App) requiresESignature(forms []string) bool {
	for _, code := range forms {
		if f, ok := a.formByCode[code]; ok && f.RequiresESignature {
			return true
		}
	}
	return false
}

func (a *App) packageFields() map[string]string {
	if a.draftNotes == "" {
		return nil
	}
	return map[string]string{"notes": a.draftNotes}
}

func (a *App) draftData() map[string]string {
	return a.packageFields()
}

func recipients(acct repository.Account) []esign.Recipient {
	out := make([]esign.Recipient, len(acct.Signers))
	for i, s := range acct.Signers {
		out[i] = esign.Recipient{Name: s.Name, Role: s.Role}
	}
	return out
}

// signerNames returns the deduplicated signer names across accounts, in
// first-seen order.
func signerNames(accounts []repository.Account) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range accounts {
		for _, s := range a.Signers {
			key := strings.ToLower(s.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s.Name)
		}
	}
	return out
}

// unionForms flattens each account's form selection into a deduplicated set,
// in first-seen order.
func unionForms(selections []flow.AccountSelection) []string {
	seen := map[string]bool{}
	var out []string
	for _, sel := range selections {
		for _, code := range sel.Forms {
			if seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown error"
	}
	return s
}
