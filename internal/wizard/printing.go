package wizard

import (
	"context"
	"fmt"
	"slices"

	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
)

// onPrintChange runs after every write to enable_print.
//
// Turning printing on lists the available printers. If the listing fails or
// comes back empty, enable_print is forced back to false and an error notice
// is raised, so the session never holds a half-enabled printer. Turning it
// off hides the list without asking the directory.
func (e *Engine) onPrintChange(ctx context.Context, b *Binding, previous any) {
	printer := e.Field(config.KeyPrinterName)

	if !b.Checked() {
		printer.clear()
		logger.Debug("Printing disabled, printer list cleared")
		return
	}

	wasOn, _ := CheckboxCoercion.ToControl(previous, true).(bool)
	if wasOn && printer.Visible() {
		return
	}

	names, err := e.directory.ListPrinters(ctx)
	if err == nil && len(names) == 0 {
		err = ErrNoPrinters
	}
	if err != nil {
		b.force(false)
		printer.clear()
		e.notice = &Notice{
			Kind:    NoticeError,
			Title:   "Printer Error",
			Message: fmt.Sprintf("Failed to load printers: %v", err),
		}
		logger.Warn("%v", fmt.Errorf("%w: %w", ErrQueryFailed, err))
		return
	}

	printer.setOptions(names)
	// Keep an earlier pick only if that printer is still listed.
	if current := printer.Selected(); current != "" && !slices.Contains(names, current) {
		printer.cfg.Delete(printer.Attribute)
		printer.refresh()
	}
	logger.Info("Found %d printers", len(names))
}
