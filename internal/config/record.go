package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Attribute names used by the setup wizard.
const (
	KeyEnableEmail   = "enable_email"
	KeyEnableUpload  = "enable_upload"
	KeyEnableEffects = "enable_effects"
	KeyEnablePrint   = "enable_print"
	KeyPrinterName   = "printer_name"
)

// ErrNotPrimitive is returned when a value is not a bool, string or number.
var ErrNotPrimitive = errors.New("value is not a primitive")

// Defaults returns the values seeded when a record has no setting yet.
func Defaults() map[string]any {
	return map[string]any{
		KeyEnableEmail:   false,
		KeyEnableUpload:  false,
		KeyEnableEffects: false,
		KeyEnablePrint:   false,
	}
}

// Configuration is the flat record of named settings edited by the wizard.
// Values are always primitives: bool, string, int or float64.
type Configuration struct {
	values map[string]any
}

// New returns an empty configuration.
func New() *Configuration {
	return &Configuration{values: make(map[string]any)}
}

// FromMap builds a configuration from a map, rejecting non-primitive values.
func FromMap(m map[string]any) (*Configuration, error) {
	c := New()
	for k, v := range m {
		if err := c.Set(k, v); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// normalize maps the numeric types produced by the various decoders onto int
// and float64 so that equal records compare equal regardless of origin.
func normalize(v any) (any, bool) {
	switch t := v.(type) {
	case bool, string, float64:
		return t, true
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint:
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint64:
		return int(t), true
	case float32:
		return float64(t), true
	default:
		return nil, false
	}
}

// Set assigns a primitive value to key.
func (c *Configuration) Set(key string, v any) error {
	n, ok := normalize(v)
	if !ok {
		return fmt.Errorf("%s: %w (%T)", key, ErrNotPrimitive, v)
	}
	c.values[key] = n
	return nil
}

// Get returns the raw value stored under key.
func (c *Configuration) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Configuration) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Bool returns the value of key as a boolean. Numbers are true when non-zero;
// missing keys and strings read as false.
func (c *Configuration) Bool(key string) bool {
	switch v := c.values[key].(type) {
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// String returns the value of key if it is a string, or "".
func (c *Configuration) String(key string) string {
	s, _ := c.values[key].(string)
	return s
}

// Delete removes key.
func (c *Configuration) Delete(key string) {
	delete(c.values, key)
}

// Keys returns the attribute names in sorted order.
func (c *Configuration) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// Len returns the number of attributes.
func (c *Configuration) Len() int {
	return len(c.values)
}

// Map returns a copy of the underlying values.
func (c *Configuration) Map() map[string]any {
	return maps.Clone(c.values)
}

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	return &Configuration{values: maps.Clone(c.values)}
}

// Equal reports whether both records hold the same keys and values.
func (c *Configuration) Equal(other *Configuration) bool {
	if other == nil {
		return false
	}
	return maps.Equal(c.values, other.values)
}
