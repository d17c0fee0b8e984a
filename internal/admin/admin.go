// Package admin is the session and content authority behind the admin
// workspace: who may enter it, the forms catalog, and the operations banner.
package admin

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/timbranthover/envelopedesk/internal/config"
	"github.com/timbranthover/envelopedesk/internal/database/repository"
	"github.com/timbranthover/envelopedesk/internal/kv"
)

// Session resolves admin rights once at startup; they do not change within a
// session.
type Session struct {
	admin bool
}

// NewSession grants admin when config enables it, or when the configured env
// var is set truthy (the deep-link analogue of an admin session marker).
func NewSession(cfg config.AdminConfig) Session {
	if cfg.Enabled {
		return Session{admin: true}
	}
	env := strings.TrimSpace(cfg.UserEnv)
	if env == "" {
		return Session{}
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(env))) {
	case "1", "true", "yes":
		return Session{admin: true}
	}
	return Session{}
}

// IsAdmin reports whether the current session may enter the admin workspace.
func (s Session) IsAdmin() bool {
	return s.admin
}

// DefaultOperationsUpdate is the banner shown until an admin saves one.
const DefaultOperationsUpdate = "Operations: envelope processing is running normally."

const bannerKey = "operations_update"

// Banner stores the operations update line.
type Banner struct {
	store kv.Store
}

func NewBanner(store kv.Store) *Banner {
	return &Banner{store: store}
}

// Get returns the saved banner, falling back to the default.
func (b *Banner) Get() string {
	if v, ok := b.store.Get(bannerKey); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return DefaultOperationsUpdate
}

// Save persists and returns the new banner value.
func (b *Banner) Save(value string) string {
	_ = b.store.Set(bannerKey, value)
	return value
}

// Reset restores and returns the default banner.
func (b *Banner) Reset() string {
	_ = b.store.Set(bannerKey, "")
	return DefaultOperationsUpdate
}

// Catalog exposes forms-catalog CRUD to the admin workspace.
type Catalog struct {
	forms *repository.FormRepo
}

func NewCatalog(forms *repository.FormRepo) *Catalog {
	return &Catalog{forms: forms}
}

func (c *Catalog) List(ctx context.Context) ([]repository.Form, error) {
	return c.forms.List(ctx)
}

// Upsert validates and writes a form definition.
func (c *Catalog) Upsert(ctx context.Context, f repository.Form) error {
	f.Code = strings.ToUpper(strings.TrimSpace(f.Code))
	f.Name = strings.TrimSpace(f.Name)
	if f.Code == "" || f.Name == "" {
		return ErrInvalidForm
	}
	return c.forms.Upsert(ctx, f)
}

func (c *Catalog) Delete(ctx context.Context, code string) error {
	return c.forms.Delete(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// ErrInvalidForm rejects catalog writes missing a code or name.
var ErrInvalidForm = errors.New("form code and name are required")
