// Package setup is the full-screen front end of the setup wizard. It renders
// the pages of a wizard.Engine and turns key presses into engine calls.
package setup

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
	"github.com/touchselfie/boothsetup/internal/wizard"
)

// ErrCancelled is returned by Run when the user leaves before saving.
var ErrCancelled = errors.New("setup cancelled by user")

const prevLabel = wizard.LabelPrev

// Result holds the outcome of a completed setup.
type Result struct {
	Configuration *config.Configuration // as saved
	Commits       int
}

// row is one focusable line on a page: a checkbox, or one entry of a
// selection list.
type row struct {
	binding *wizard.Binding
	option  string // selection entry; empty for checkboxes
}

// SetupModel is the BubbleTea model for the setup wizard.
type SetupModel struct {
	ctx    context.Context
	engine *wizard.Engine

	focus     int  // index into rows()
	cancelled bool // user left via ctrl+c
	done      bool // configuration committed

	width  int
	height int

	markdown markdownCache
}

// NewSetupModel creates a model driving engine.
func NewSetupModel(ctx context.Context, engine *wizard.Engine) *SetupModel {
	return &SetupModel{
		ctx:    ctx,
		engine: engine,
	}
}

// Run shows the wizard until the configuration is saved or the user leaves.
func Run(ctx context.Context, engine *wizard.Engine) (*Result, error) {
	m := NewSetupModel(ctx, engine)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}

	setupModel, ok := finalModel.(*SetupModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if !setupModel.done {
		return nil, ErrCancelled
	}

	return &Result{
		Configuration: engine.Configuration(),
		Commits:       engine.Commits(),
	}, nil
}

// Init initializes the setup model.
func (m *SetupModel) Init() tea.Cmd {
	return nil
}

// rows lists the focusable lines of the current page.
func (m *SetupModel) rows() []row {
	var rows []row
	for _, b := range m.engine.Current().Bindings {
		if !b.Visible() {
			continue
		}
		switch b.Kind {
		case wizard.Selection:
			for _, opt := range b.Options() {
				rows = append(rows, row{binding: b, option: opt})
			}
		default:
			rows = append(rows, row{binding: b})
		}
	}
	return rows
}

// clampFocus keeps the focus on an existing row after the page changed.
func (m *SetupModel) clampFocus() {
	n := len(m.rows())
	if m.focus >= n {
		m.focus = n - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
}

// Update handles messages for the setup wizard.
func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if key.Matches(msg, keys.Quit) {
			m.cancelled = true
			return m, tea.Quit
		}

		// A notice must be dismissed before anything else happens.
		if m.engine.Notice() != nil {
			if key.Matches(msg, keys.Next, keys.Prev, keys.Toggle) {
				m.engine.DismissNotice()
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if m.focus > 0 {
				m.focus--
			}
		case key.Matches(msg, keys.Down):
			if m.focus < len(m.rows())-1 {
				m.focus++
			}
		case key.Matches(msg, keys.Toggle):
			m.toggle()
		case key.Matches(msg, keys.Next):
			return m, m.next()
		case key.Matches(msg, keys.Prev):
			// Prev is disabled on the first page; leaving is ctrl+c only.
			if m.engine.Prev() {
				m.focus = 0
			}
		}
	}

	return m, nil
}

// toggle flips the focused checkbox or picks the focused list entry.
func (m *SetupModel) toggle() {
	rows := m.rows()
	if len(rows) == 0 {
		return
	}
	r := rows[m.focus]

	var value any
	switch r.binding.Kind {
	case wizard.Selection:
		value = r.option
	default:
		value = !r.binding.Checked()
	}

	if _, err := m.engine.SetField(m.ctx, r.binding.Attribute, value); err != nil {
		logger.Warn("Setting %s: %v", r.binding.Attribute, err)
	}
	m.clampFocus()
}

// next advances, or saves on the last page.
func (m *SetupModel) next() tea.Cmd {
	before := m.engine.Index()
	committed, err := m.engine.Next(m.ctx)
	if err != nil {
		// The engine raised a notice; stay for a retry.
		logger.Warn("Commit failed: %v", err)
		return nil
	}
	if committed {
		m.done = true
		return tea.Quit
	}
	if m.engine.Index() != before {
		m.focus = 0
	}
	return nil
}

// Done reports whether the configuration was saved.
func (m *SetupModel) Done() bool {
	return m.done
}

// Cancelled reports whether the user left without saving.
func (m *SetupModel) Cancelled() bool {
	return m.cancelled
}
