package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/touchselfie/boothsetup/internal/config"
)

func TestBind_SeedsControlFromConfiguration(t *testing.T) {
	cfg, err := config.FromMap(map[string]any{
		config.KeyEnableEmail:  true,
		config.KeyEnableUpload: 0,
		config.KeyPrinterName:  "Inkjet",
	})
	require.NoError(t, err)

	require.True(t, Bind(cfg, config.KeyEnableEmail, "Email", Checkbox).Checked())
	require.False(t, Bind(cfg, config.KeyEnableUpload, "Upload", Checkbox).Checked())
	require.False(t, Bind(cfg, "missing", "Missing", Checkbox).Checked())
	require.Equal(t, "Inkjet", Bind(cfg, config.KeyPrinterName, "Printer", Selection).Selected())
}

func TestBinding_WriteIsImmediate(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"int checked", 1, true},
		{"int unchecked", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			b := Bind(cfg, config.KeyEnableEffects, "Effects", Checkbox)

			require.True(t, b.Write(ctx, tt.value))
			got, ok := cfg.Get(config.KeyEnableEffects)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want, b.Checked())
		})
	}
}

func TestBinding_CoercionFailureKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.FromMap(map[string]any{config.KeyEnableEmail: true})
	require.NoError(t, err)
	b := Bind(cfg, config.KeyEnableEmail, "Email", Checkbox)

	for _, bad := range []any{"yes", 1.5, nil, []bool{true}} {
		require.False(t, b.Write(ctx, bad), "value %v", bad)
		require.True(t, cfg.Bool(config.KeyEnableEmail))
		require.True(t, b.Checked())
	}
}

func TestBinding_SelectionOnlyAcceptsListedEntries(t *testing.T) {
	ctx := context.Background()
	cfg := config.New()
	b := Bind(cfg, config.KeyPrinterName, "Printer", Selection)
	require.False(t, b.Visible())

	// Hidden selection has no entries to pick from.
	require.False(t, b.Write(ctx, "Inkjet"))

	b.setOptions([]string{"LaserJet", "Inkjet"})
	require.True(t, b.Visible())
	require.False(t, b.Write(ctx, "Plotter"))
	require.False(t, b.Write(ctx, ""))
	require.False(t, b.Write(ctx, 3))
	require.False(t, cfg.Has(config.KeyPrinterName))

	require.True(t, b.Write(ctx, "Inkjet"))
	require.Equal(t, "Inkjet", cfg.String(config.KeyPrinterName))
	require.Equal(t, "Inkjet", b.Selected())

	b.clear()
	require.False(t, cfg.Has(config.KeyPrinterName))
	require.False(t, b.Visible())
	require.Empty(t, b.Selected())
}

func TestBinding_TriggerRunsAfterStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.New()
	b := Bind(cfg, config.KeyEnablePrint, "Print", Checkbox)

	var seen []bool
	var previous []any
	b.trigger = func(_ context.Context, b *Binding, prev any) {
		seen = append(seen, cfg.Bool(config.KeyEnablePrint))
		previous = append(previous, prev)
	}
	require.True(t, b.Triggering())

	b.Write(ctx, true)
	b.Write(ctx, false)
	require.Equal(t, []bool{true, false}, seen)
	require.Equal(t, []any{nil, true}, previous)

	// A rejected write never reaches the trigger.
	b.Write(ctx, "on")
	require.Len(t, seen, 2)
}

func TestCoercionError(t *testing.T) {
	b := Bind(config.New(), config.KeyEnableEmail, "Email", Checkbox)
	_, err := b.coerceValue("yes")

	var ce *CoercionError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, config.KeyEnableEmail, ce.Attribute)
	require.Contains(t, ce.Error(), "enable_email")
}

func TestControlKindString(t *testing.T) {
	require.Equal(t, "checkbox", Checkbox.String())
	require.Equal(t, "selection", Selection.String())
	require.Equal(t, "unknown", ControlKind(9).String())
}
