package wizard

import (
	"context"
	"slices"

	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/logger"
)

// ControlKind is the type of input a binding drives.
type ControlKind int

const (
	Checkbox  ControlKind = iota // bool
	Selection                    // one entry of a list of strings
)

func (k ControlKind) String() string {
	switch k {
	case Checkbox:
		return "checkbox"
	case Selection:
		return "selection"
	default:
		return "unknown"
	}
}

// Coercion converts between a control's displayed value and the stored one.
type Coercion struct {
	// ToControl derives the displayed value from the stored one.
	ToControl func(stored any, present bool) any
	// ToConfig converts a displayed value for storage. A non-empty reason
	// rejects the value.
	ToConfig func(displayed any) (stored any, reason string)
}

// CheckboxCoercion maps a checkbox state to a boolean. Integer states are
// accepted with non-zero meaning checked.
var CheckboxCoercion = Coercion{
	ToControl: func(stored any, present bool) any {
		switch v := stored.(type) {
		case bool:
			return v
		case int:
			return v != 0
		case float64:
			return v != 0
		default:
			return false
		}
	},
	ToConfig: func(displayed any) (any, string) {
		switch v := displayed.(type) {
		case bool:
			return v, ""
		case int:
			return v != 0, ""
		default:
			return nil, "checkbox state must be a bool or int"
		}
	},
}

// SelectionCoercion maps a list selection to a non-empty string.
var SelectionCoercion = Coercion{
	ToControl: func(stored any, present bool) any {
		s, _ := stored.(string)
		return s
	},
	ToConfig: func(displayed any) (any, string) {
		s, ok := displayed.(string)
		if !ok {
			return nil, "selection must be a string"
		}
		if s == "" {
			return nil, "selection is empty"
		}
		return s, ""
	},
}

// trigger runs after a binding stored a new value.
type trigger func(ctx context.Context, b *Binding, previous any)

// Binding links one control to one configuration attribute. Writes go
// straight to the configuration; there is no apply step.
type Binding struct {
	Attribute string
	Label     string
	Kind      ControlKind

	coerce  Coercion
	cfg     *config.Configuration
	display any
	options []string // Selection only; nil hides the control
	trigger trigger
}

// Bind creates a binding and seeds the control from the configuration.
func Bind(cfg *config.Configuration, attribute, label string, kind ControlKind) *Binding {
	b := &Binding{
		Attribute: attribute,
		Label:     label,
		Kind:      kind,
		cfg:       cfg,
	}
	switch kind {
	case Selection:
		b.coerce = SelectionCoercion
	default:
		b.coerce = CheckboxCoercion
	}
	b.refresh()
	return b
}

// refresh re-seeds the displayed value from the configuration.
func (b *Binding) refresh() {
	stored, present := b.cfg.Get(b.Attribute)
	b.display = b.coerce.ToControl(stored, present)
}

// Write applies a user change. The coerced value is stored before Write
// returns and before any trigger runs. A value that cannot be coerced is
// dropped, leaving both the control and the configuration unchanged; Write
// then returns false.
func (b *Binding) Write(ctx context.Context, v any) bool {
	stored, err := b.coerceValue(v)
	if err != nil {
		logger.Warn("Ignoring write: %v", err)
		return false
	}

	previous, _ := b.cfg.Get(b.Attribute)
	if err := b.cfg.Set(b.Attribute, stored); err != nil {
		logger.Warn("Ignoring write to %s: %v", b.Attribute, err)
		return false
	}
	b.refresh()
	logger.Debug("Field %s = %v", b.Attribute, stored)

	if b.trigger != nil {
		b.trigger(ctx, b, previous)
	}
	return true
}

func (b *Binding) coerceValue(v any) (any, error) {
	stored, reason := b.coerce.ToConfig(v)
	if reason != "" {
		return nil, &CoercionError{Attribute: b.Attribute, Value: v, Reason: reason}
	}
	if b.Kind == Selection && !slices.Contains(b.options, stored.(string)) {
		return nil, &CoercionError{Attribute: b.Attribute, Value: v, Reason: "not one of the listed entries"}
	}
	return stored, nil
}

// force sets both the control and the configuration without running the
// trigger.
func (b *Binding) force(v any) {
	if stored, reason := b.coerce.ToConfig(v); reason == "" {
		_ = b.cfg.Set(b.Attribute, stored)
	}
	b.refresh()
}

// clear removes the attribute and hides a selection's entries.
func (b *Binding) clear() {
	b.cfg.Delete(b.Attribute)
	b.options = nil
	b.refresh()
}

// setOptions shows a selection with the given entries.
func (b *Binding) setOptions(options []string) {
	b.options = slices.Clone(options)
}

// Value returns the displayed value.
func (b *Binding) Value() any {
	return b.display
}

// Checked returns the displayed state of a checkbox.
func (b *Binding) Checked() bool {
	v, _ := b.display.(bool)
	return v
}

// Selected returns the displayed entry of a selection.
func (b *Binding) Selected() string {
	s, _ := b.display.(string)
	return s
}

// Options returns the entries of a selection.
func (b *Binding) Options() []string {
	return slices.Clone(b.options)
}

// Visible reports whether the control is shown. Checkboxes always are;
// selections only once they have entries.
func (b *Binding) Visible() bool {
	return b.Kind != Selection || len(b.options) > 0
}

// Triggering reports whether writes have a side effect beyond storage.
func (b *Binding) Triggering() bool {
	return b.trigger != nil
}
