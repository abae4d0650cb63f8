// Package wizard implements the setup assistant independently of any
// rendering: pages of field bindings, Next/Prev navigation, the printer
// selection sub-flow, and the final commit.
//
// An Engine is not safe for concurrent use. Front ends call it from a single
// event loop.
package wizard

import (
	"context"
	"fmt"
	"slices"

	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
	"github.com/touchselfie/boothsetup/internal/printers"
)

// Button labels.
const (
	LabelPrev = "Prev"
	LabelNext = "Next"
	LabelSave = "Save"
)

// Engine owns the page sequence, the current page and the in-memory
// configuration of one wizard session.
type Engine struct {
	store      config.Store
	directory  printers.Directory
	capability printers.Capability

	cfg   *config.Configuration
	saved *config.Configuration // last loaded or committed state

	pages  []*Page
	index  int
	notice *Notice

	commits int
}

// New loads the configuration once, probes the printer directory once and
// builds the page sequence. A nil directory counts as unavailable.
//
// Feature flags the store does not hold are seeded from config.Defaults, so
// every checkbox on screen is backed by a key that the commit persists.
func New(ctx context.Context, store config.Store, directory printers.Directory) (*Engine, error) {
	cfg, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	seedDefaults(cfg)

	if directory == nil {
		directory = printers.Disabled{}
	}
	capability := directory.Probe(ctx)
	if !capability.Available {
		logger.Info("Printer selection unavailable: %s", capability.Reason)
		cfg.Delete(config.KeyEnablePrint)
		cfg.Delete(config.KeyPrinterName)
	}

	e := &Engine{
		store:      store,
		directory:  directory,
		capability: capability,
		cfg:        cfg,
		saved:      cfg.Clone(),
	}
	e.pages = buildPages(cfg, capability.Available)
	if p := e.page(PagePrinting); p != nil {
		p.Field(config.KeyEnablePrint).trigger = e.onPrintChange
	}

	e.render(-1)
	logger.Debug("Wizard started with %d pages", len(e.pages))
	return e, nil
}

func seedDefaults(cfg *config.Configuration) {
	for key, def := range config.Defaults() {
		if !cfg.Has(key) {
			_ = cfg.Set(key, def)
		}
	}
}

func (e *Engine) page(id string) *Page {
	for _, p := range e.pages {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Index returns the current page index.
func (e *Engine) Index() int {
	return e.index
}

// PageCount returns the number of pages in the session.
func (e *Engine) PageCount() int {
	return len(e.pages)
}

// Pages returns the page sequence.
func (e *Engine) Pages() []*Page {
	return slices.Clone(e.pages)
}

// Current returns the page on screen.
func (e *Engine) Current() *Page {
	return e.pages[e.index]
}

// IsLast reports whether Next will commit.
func (e *Engine) IsLast() bool {
	return e.index == len(e.pages)-1
}

// PrevEnabled reports whether Prev can move.
func (e *Engine) PrevEnabled() bool {
	return e.index > 0
}

// NextLabel returns "Save" on the last page and "Next" elsewhere.
func (e *Engine) NextLabel() string {
	if e.IsLast() {
		return LabelSave
	}
	return LabelNext
}

// Capability returns the result of the startup printer probe.
func (e *Engine) Capability() printers.Capability {
	return e.capability
}

// Configuration returns a copy of the in-memory configuration.
func (e *Engine) Configuration() *config.Configuration {
	return e.cfg.Clone()
}

// Commits returns how many times the configuration was saved.
func (e *Engine) Commits() int {
	return e.commits
}

// Committed reports whether at least one commit succeeded.
func (e *Engine) Committed() bool {
	return e.commits > 0
}

// Notice returns the notice awaiting dismissal, or nil.
func (e *Engine) Notice() *Notice {
	return e.notice
}

// DismissNotice clears the current notice.
func (e *Engine) DismissNotice() {
	e.notice = nil
}

// Field returns the binding for attribute on any page, or nil.
func (e *Engine) Field(attribute string) *Binding {
	for _, p := range e.pages {
		if b := p.Field(attribute); b != nil {
			return b
		}
	}
	return nil
}

// SetField routes a user change to the binding of attribute on the current
// page. It reports whether the value was stored; a value the control cannot
// hold is dropped without error.
func (e *Engine) SetField(ctx context.Context, attribute string, value any) (bool, error) {
	b := e.Current().Field(attribute)
	if b == nil {
		if e.Field(attribute) == nil {
			return false, fmt.Errorf("%w: %s", ErrUnknownField, attribute)
		}
		return false, fmt.Errorf("%w: %s", ErrFieldNotShown, attribute)
	}
	if !b.Visible() {
		return false, fmt.Errorf("%w: %s", ErrFieldNotShown, attribute)
	}
	return b.Write(ctx, value), nil
}

// Next advances one page, or commits when already on the last page.
// It reports whether a commit happened. A page that fails validation keeps
// the wizard in place and raises a notice.
func (e *Engine) Next(ctx context.Context) (bool, error) {
	if e.IsLast() {
		if err := e.Commit(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	if problem := e.Current().problem(); problem != "" {
		e.notice = &Notice{Kind: NoticeWarning, Title: "Incomplete", Message: problem}
		logger.Debug("Next blocked on page %s: %s", e.Current().ID, problem)
		return false, nil
	}

	e.move(e.index + 1)
	return false, nil
}

// Prev goes back one page. It is a no-op on the first page and reports
// whether the wizard moved.
func (e *Engine) Prev() bool {
	if !e.PrevEnabled() {
		return false
	}
	e.move(e.index - 1)
	return true
}

func (e *Engine) move(to int) {
	from := e.index
	e.index = to
	e.notice = nil
	e.render(from)
	logger.Debug("Page %d -> %d (%s)", from, to, e.Current().ID)
}

// render hides the outgoing page and shows the incoming one.
func (e *Engine) render(from int) {
	if from >= 0 && from < len(e.pages) {
		e.pages[from].visible = false
	}
	e.pages[e.index].visible = true
}

// Commit saves the in-memory configuration. On failure the wizard stays on
// the current page with an error notice so the user can retry.
func (e *Engine) Commit(ctx context.Context) error {
	payload := e.cfg.Clone()
	if err := e.store.Save(ctx, payload); err != nil {
		logger.Error("Saving configuration failed: %v", err)
		e.notice = &Notice{
			Kind:    NoticeError,
			Title:   "Save Error",
			Message: fmt.Sprintf("Failed to save configuration: %v", err),
		}
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	e.commits++
	e.saved = payload
	e.notice = nil
	logger.Info("Configuration committed (%d keys)", payload.Len())
	return nil
}
