package wizard

import (
	"github.com/touchselfie/boothsetup/internal/config"
)

// Page identifiers.
const (
	PageSharing  = "sharing"
	PageEffects  = "effects"
	PagePrinting = "printing"
	PageFinish   = "finish"
)

// Page is one wizard screen: a fixed group of bindings shown and hidden
// together.
type Page struct {
	ID       string
	Title    string
	Intro    string // markdown
	Bindings []*Binding
	// Summary marks the page that shows the pending configuration.
	Summary bool

	visible bool
	validate func(p *Page) string
}

// Visible reports whether the page is the one on screen.
func (p *Page) Visible() bool {
	return p.visible
}

// Field returns the binding for attribute, or nil.
func (p *Page) Field(attribute string) *Binding {
	for _, b := range p.Bindings {
		if b.Attribute == attribute {
			return b
		}
	}
	return nil
}

// problem returns why the page cannot be left forward, or "".
func (p *Page) problem() string {
	if p.validate == nil {
		return ""
	}
	return p.validate(p)
}

// buildPages creates the page sequence once per session. The printing page
// only exists when the printer directory is available.
func buildPages(cfg *config.Configuration, printing bool) []*Page {
	pages := []*Page{
		{
			ID:    PageSharing,
			Title: "Sharing",
			Intro: "Choose how guests can take their pictures home.",
			Bindings: []*Binding{
				Bind(cfg, config.KeyEnableEmail, "Enable Email sending", Checkbox),
				Bind(cfg, config.KeyEnableUpload, "Enable photo upload", Checkbox),
			},
		},
		{
			ID:    PageEffects,
			Title: "Effects",
			Intro: "Image effects let guests apply filters before a picture is shared.",
			Bindings: []*Binding{
				Bind(cfg, config.KeyEnableEffects, "Enable image effects", Checkbox),
			},
		},
	}

	if printing {
		pages = append(pages, &Page{
			ID:    PagePrinting,
			Title: "Printing",
			Intro: "Print every picture on a local printer. Enabling printing looks up the printers known to CUPS.",
			Bindings: []*Binding{
				Bind(cfg, config.KeyEnablePrint, "Enable photo print", Checkbox),
				Bind(cfg, config.KeyPrinterName, "Printer", Selection),
			},
			validate: func(p *Page) string {
				printer := p.Field(config.KeyPrinterName)
				if p.Field(config.KeyEnablePrint).Checked() && printer.Visible() && printer.Selected() == "" {
					return "Select a printer or disable photo print."
				}
				return ""
			},
		})
	}

	pages = append(pages, &Page{
		ID:      PageFinish,
		Title:   "Finish",
		Intro:   "Review the settings below. **Save** writes them to the configuration file.",
		Summary: true,
	})
	return pages
}
