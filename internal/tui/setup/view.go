package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/tui/theme"
	"github.com/touchselfie/boothsetup/internal/wizard"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

func (m *SetupModel) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// modalWidth is the width of the wizard box for the current terminal.
func (m *SetupModel) modalWidth() int {
	w, _ := m.size()
	return max(min(w-10, 90), 50)
}

// View renders the setup UI.
func (m *SetupModel) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.BackgroundColor = theme.HexToColor(theme.Current().BgBase)

	w, h := m.size()
	content := lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.renderModal())

	canvas := uv.NewScreenBuffer(w, h)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: w, Y: h},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderModal renders the current page inside the wizard box.
func (m *SetupModel) renderModal() string {
	s := theme.Current().S()
	page := m.engine.Current()
	inner := m.modalWidth() - 6

	title := s.ModalTitle.Render("Photobooth Setup") + "  " +
		s.PageIndicator.Render(fmt.Sprintf("Step %d of %d: %s", m.engine.Index()+1, m.engine.PageCount(), page.Title))

	sections := []string{title, ""}
	if page.Intro != "" {
		sections = append(sections, m.markdown.render(page.Intro, inner), "")
	}

	if page.Summary {
		sections = append(sections, m.renderSummary(inner))
	} else {
		sections = append(sections, m.renderFields())
	}

	if n := m.engine.Notice(); n != nil {
		sections = append(sections, "", renderNotice(n, inner))
	}

	bar := NewButtonBar(CreatePrevNextButtons(prevLabel, m.engine.NextLabel(), m.engine.PrevEnabled(), m.engine.IsLast()))
	bar.SetWidth(inner)
	sections = append(sections, "", bar.Render(), "", m.renderHints())

	return s.ModalContainer.Width(m.modalWidth()).Render(strings.Join(sections, "\n"))
}

// renderFields renders the controls of the current page.
func (m *SetupModel) renderFields() string {
	s := theme.Current().S()

	var lines []string
	i := 0
	for _, b := range m.engine.Current().Bindings {
		if !b.Visible() {
			continue
		}
		switch b.Kind {
		case wizard.Selection:
			lines = append(lines, s.Field.Render(b.Label+":"))
			for _, opt := range b.Options() {
				mark := "( )"
				if b.Selected() == opt {
					mark = "(•)"
				}
				lines = append(lines, renderRow(fmt.Sprintf("  %s %s", mark, opt), i == m.focus))
				i++
			}
		default:
			mark := "[ ]"
			if b.Checked() {
				mark = "[x]"
			}
			lines = append(lines, renderRow(fmt.Sprintf("%s %s", mark, b.Label), i == m.focus))
			i++
		}
	}

	if len(lines) == 0 {
		return s.FieldMuted.Render("Nothing to configure on this page.")
	}
	return strings.Join(lines, "\n")
}

func renderRow(text string, focused bool) string {
	s := theme.Current().S()
	if focused {
		return s.FieldFocused.Render("› " + text)
	}
	return s.Field.Render("  " + text)
}

// renderSummary shows the configuration that Save writes and the changes
// since it was loaded.
func (m *SetupModel) renderSummary(width int) string {
	s := theme.Current().S()

	cfg := m.engine.Configuration()
	yml, err := config.Marshal(cfg)
	if err != nil {
		return s.FieldMuted.Render(fmt.Sprintf("Cannot render configuration: %v", err))
	}
	sections := []string{m.markdown.render("```yaml\n"+yml+"```", width)}

	diff, err := m.engine.PendingDiff()
	switch {
	case err != nil:
		sections = append(sections, s.FieldMuted.Render(fmt.Sprintf("Cannot compute changes: %v", err)))
	case diff == "":
		sections = append(sections, s.FieldMuted.Render("No changes since the configuration was loaded."))
	default:
		sections = append(sections, s.DiffHeader.Render("Pending changes:"), renderDiff(diff))
	}
	return strings.Join(sections, "\n")
}

// renderDiff colours a unified diff, leaving out the file headers.
func renderDiff(diff string) string {
	s := theme.Current().S()

	var lines []string
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			continue
		case strings.HasPrefix(line, "@@"):
			lines = append(lines, s.DiffHeader.Render(line))
		case strings.HasPrefix(line, "+"):
			lines = append(lines, s.DiffInsert.Render(line))
		case strings.HasPrefix(line, "-"):
			lines = append(lines, s.DiffDelete.Render(line))
		default:
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// renderNotice renders a notice box.
func renderNotice(n *wizard.Notice, width int) string {
	s := theme.Current().S()

	style := s.NoticeInfo
	switch n.Kind {
	case wizard.NoticeWarning:
		style = s.NoticeWarning
	case wizard.NoticeError:
		style = s.NoticeError
	}

	body := lipgloss.NewStyle().Bold(true).Render(n.Title) + "\n" + n.Message
	return style.Width(width).Render(body)
}

func (m *SetupModel) renderHints() string {
	if m.engine.Notice() != nil {
		dismiss := keys.Next
		dismiss.SetHelp("enter", "dismiss")
		return renderHintBar(dismiss, keys.Quit)
	}

	next := keys.Next
	if m.engine.IsLast() {
		next.SetHelp("enter", "save")
	}
	prev := keys.Prev
	prev.SetEnabled(m.engine.PrevEnabled())

	toggle := keys.Toggle
	if len(m.rows()) == 0 {
		toggle.SetEnabled(false)
	}
	return renderHintBar(keys.Down, toggle, next, prev, keys.Quit)
}
