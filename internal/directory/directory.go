// Package directory provides the in-session lookup over account reference
// data. It is loaded once at startup and read-only after that.
package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/timbranthover/envelopedesk/internal/database/repository"
)

// DefaultResultLimit caps Search output.
const DefaultResultLimit = 6

// Directory is an immutable account lookup snapshot.
type Directory struct {
	byNumber map[string]repository.Account
	ordered  []repository.Account
	limit    int
}

// Loader is the subset of the account repository the directory needs.
type Loader interface {
	List(ctx context.Context) ([]repository.Account, error)
}

// Load builds a directory from the account repository.
func Load(ctx context.Context, repo Loader, resultLimit int) (*Directory, error) {
	accounts, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return New(accounts, resultLimit), nil
}

// New builds a directory from an account slice.
func New(accounts []repository.Account, resultLimit int) *Directory {
	if resultLimit <= 0 {
		resultLimit = DefaultResultLimit
	}
	d := &Directory{
		byNumber: make(map[string]repository.Account, len(accounts)),
		ordered:  append([]repository.Account(nil), accounts...),
		limit:    resultLimit,
	}
	for _, a := range accounts {
		d.byNumber[Normalize(a.AccountNumber)] = a
	}
	return d
}

// Normalize canonicalizes an account number for lookup: trimmed, spaces
// removed, uppercased.
func Normalize(number string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(number), " ", ""))
}

// Find looks up an account by normalized number.
func (d *Directory) Find(number string) (repository.Account, bool) {
	a, ok := d.byNumber[Normalize(number)]
	return a, ok
}

// All returns every account in stable order.
func (d *Directory) All() []repository.Account {
	return d.ordered
}

// Search matches the query as a case-insensitive substring of account number
// or account name, capped at the result limit. Hits are ranked by edit
// distance between the query and the account number, ties by account number,
// so short queries surface the closest account codes first.
func (d *Directory) Search(query string) []repository.Account {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	type hit struct {
		acct repository.Account
		dist int
	}
	var hits []hit
	for _, a := range d.ordered {
		num := strings.ToUpper(a.AccountNumber)
		name := strings.ToUpper(a.AccountName)
		if !strings.Contains(num, q) && !strings.Contains(name, q) {
			continue
		}
		dist := levenshtein.ComputeDistance(q, num)
		if nd := levenshtein.ComputeDistance(q, name); nd < dist {
			dist = nd
		}
		hits = append(hits, hit{acct: a, dist: dist})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].acct.AccountNumber < hits[j].acct.AccountNumber
	})
	if len(hits) > d.limit {
		hits = hits[:d.limit]
	}
	out := make([]repository.Account, len(hits))
	for i, h := range hits {
		out[i] = h.acct
	}
	return out
}
