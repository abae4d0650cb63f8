package wizard

import (
	"fmt"

	"github.com/aymanbagabas/go-udiff"
	"github.com/touchselfie/boothsetup/internal/config"
)

// NoticeKind classifies a notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeWarning
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// MarshalText encodes the kind by name.
func (k NoticeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Notice is a dismissable message for the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// FieldState describes one control as it should be displayed.
type FieldState struct {
	Attribute string   `json:"attribute"`
	Label     string   `json:"label"`
	Kind      string   `json:"kind"`
	Value     any      `json:"value"`
	Options   []string `json:"options,omitempty"`
	Visible   bool     `json:"visible"`
}

// State is a read-only picture of the session for front ends.
type State struct {
	Index            int          `json:"index"`
	PageCount        int          `json:"page_count"`
	PageID           string       `json:"page_id"`
	PageTitle        string       `json:"page_title"`
	Fields           []FieldState `json:"fields"`
	PrevEnabled      bool         `json:"prev_enabled"`
	NextLabel        string       `json:"next_label"`
	Notice           *Notice      `json:"notice,omitempty"`
	Commits          int          `json:"commits"`
	PrinterAvailable bool         `json:"printer_available"`
}

// State returns the current session state.
func (e *Engine) State() State {
	p := e.Current()
	fields := make([]FieldState, 0, len(p.Bindings))
	for _, b := range p.Bindings {
		fields = append(fields, FieldState{
			Attribute: b.Attribute,
			Label:     b.Label,
			Kind:      b.Kind.String(),
			Value:     b.Value(),
			Options:   b.Options(),
			Visible:   b.Visible(),
		})
	}
	return State{
		Index:            e.index,
		PageCount:        len(e.pages),
		PageID:           p.ID,
		PageTitle:        p.Title,
		Fields:           fields,
		PrevEnabled:      e.PrevEnabled(),
		NextLabel:        e.NextLabel(),
		Notice:           e.notice,
		Commits:          e.commits,
		PrinterAvailable: e.capability.Available,
	}
}

// PendingDiff returns a unified diff from the last saved configuration to
// the in-memory one, or "" when nothing changed.
func (e *Engine) PendingDiff() (string, error) {
	before, err := config.Marshal(e.saved)
	if err != nil {
		return "", fmt.Errorf("rendering saved configuration: %w", err)
	}
	after, err := config.Marshal(e.cfg)
	if err != nil {
		return "", fmt.Errorf("rendering pending configuration: %w", err)
	}
	if before == after {
		return "", nil
	}
	return udiff.Unified("saved", "pending", before, after), nil
}
