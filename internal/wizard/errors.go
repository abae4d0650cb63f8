package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrQueryFailed wraps a printer listing failure.
	ErrQueryFailed = errors.New("printer query failed")
	// ErrNoPrinters is reported when the directory answers with an empty list.
	ErrNoPrinters = errors.New("no printers found")
	// ErrPersistence wraps a failed save at commit.
	ErrPersistence = errors.New("saving configuration failed")
	// ErrUnknownField is returned for an attribute that no page binds.
	ErrUnknownField = errors.New("unknown field")
	// ErrFieldNotShown is returned when editing a control that is not on screen.
	ErrFieldNotShown = errors.New("field is not on the current page")
)

// CoercionError describes a control value that could not be stored.
type CoercionError struct {
	Attribute string
	Value     any
	Reason    string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot store %v (%T) in %s: %s", e.Value, e.Value, e.Attribute, e.Reason)
}
