package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/touchselfie/boothsetup/internal/config"
	"github.com/touchselfie/boothsetup/internal/printers"
	"github.com/touchselfie/boothsetup/internal/testfixtures"
)

func newEngine(t *testing.T, store config.Store, dir printers.Directory) *Engine {
	t.Helper()
	e, err := New(context.Background(), store, dir)
	require.NoError(t, err)
	return e
}

func pageIDs(e *Engine) []string {
	var ids []string
	for _, p := range e.Pages() {
		ids = append(ids, p.ID)
	}
	return ids
}

func visiblePages(e *Engine) int {
	n := 0
	for _, p := range e.Pages() {
		if p.Visible() {
			n++
		}
	}
	return n
}

func TestNew_PageSequence(t *testing.T) {
	t.Run("printer directory available", func(t *testing.T) {
		dir := &printers.Static{Names: testfixtures.Printers}
		e := newEngine(t, testfixtures.NewMockStore(testfixtures.AllFeaturesOff()), dir)

		require.Equal(t, []string{PageSharing, PageEffects, PagePrinting, PageFinish}, pageIDs(e))
		require.Equal(t, 0, e.Index())
		require.True(t, e.Capability().Available)
		require.Equal(t, 1, dir.Probes)
		require.Zero(t, dir.Lists, "no printer query at startup")
	})

	t.Run("printer directory unavailable", func(t *testing.T) {
		dir := &printers.Static{Reason: "cups not installed"}
		store := testfixtures.NewMockStore(testfixtures.PrintingConfigured())
		e := newEngine(t, store, dir)

		require.Equal(t, []string{PageSharing, PageEffects, PageFinish}, pageIDs(e))
		require.Nil(t, e.Field(config.KeyEnablePrint))
		require.Nil(t, e.Field(config.KeyPrinterName))

		for range 3 {
			_, err := e.Next(context.Background())
			require.NoError(t, err)
		}
		saved := store.LastSaved()
		require.NotContains(t, saved, config.KeyEnablePrint)
		require.NotContains(t, saved, config.KeyPrinterName)
	})

	t.Run("nil directory", func(t *testing.T) {
		e := newEngine(t, testfixtures.NewMockStore(nil), nil)
		require.Equal(t, 3, e.PageCount())
		require.False(t, e.Capability().Available)
	})
}

func TestNew_SeedsMissingFlags(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewMockStore(nil)
	e := newEngine(t, store, &printers.Static{Names: testfixtures.Printers})

	for key := range config.Defaults() {
		require.True(t, e.Configuration().Has(key), key)
	}
	diff, err := e.PendingDiff()
	require.NoError(t, err)
	require.Empty(t, diff)

	_, err = e.SetField(ctx, config.KeyEnableEmail, true)
	require.NoError(t, err)
	for !e.Committed() {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, map[string]any{
		config.KeyEnableEmail:   true,
		config.KeyEnableUpload:  false,
		config.KeyEnableEffects: false,
		config.KeyEnablePrint:   false,
	}, store.LastSaved())
}

func TestNew_LoadError(t *testing.T) {
	store := testfixtures.NewMockStore(nil)
	store.LoadError = errors.New("disk gone")

	_, err := New(context.Background(), store, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk gone")
}

func TestNew_SeedsControlsFromStore(t *testing.T) {
	initial := testfixtures.PrintingConfigured()
	initial[config.KeyEnableEmail] = 1
	e := newEngine(t, testfixtures.NewMockStore(initial), &printers.Static{Names: testfixtures.Printers})

	require.True(t, e.Field(config.KeyEnableEmail).Checked())
	require.False(t, e.Field(config.KeyEnableUpload).Checked())
	require.True(t, e.Field(config.KeyEnablePrint).Checked())
	require.Equal(t, "Inkjet", e.Field(config.KeyPrinterName).Selected())
	require.False(t, e.Field(config.KeyPrinterName).Visible())
}

func TestEngine_Labels(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(nil), &printers.Static{Names: testfixtures.Printers})

	require.False(t, e.PrevEnabled())
	require.Equal(t, LabelNext, e.NextLabel())

	for range 3 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}
	require.True(t, e.IsLast())
	require.True(t, e.PrevEnabled())
	require.Equal(t, LabelSave, e.NextLabel())

	e.Prev()
	require.Equal(t, LabelNext, e.NextLabel())
}

func TestEngine_PrevOnFirstPageIsNoop(t *testing.T) {
	e := newEngine(t, testfixtures.NewMockStore(nil), nil)

	require.False(t, e.Prev())
	require.Equal(t, 0, e.Index())
	require.True(t, e.Current().Visible())
}

func TestEngine_NavigationStaysInBounds(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewMockStore(nil)
	e := newEngine(t, store, &printers.Static{Names: testfixtures.Printers})
	r := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		if r.IntN(2) == 0 {
			_, err := e.Next(ctx)
			require.NoError(t, err)
		} else {
			e.Prev()
		}
		require.GreaterOrEqual(t, e.Index(), 0)
		require.Less(t, e.Index(), e.PageCount())
		require.Equal(t, 1, visiblePages(e))
		require.True(t, e.Current().Visible())
	}
}

func TestEngine_PrevThenNextReturnsToSamePage(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(nil), &printers.Static{Names: testfixtures.Printers})

	for i := 1; i < e.PageCount(); i++ {
		_, err := e.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, i, e.Index())

		require.True(t, e.Prev())
		_, err = e.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, i, e.Index())
	}
}

func TestEngine_SetFieldIsImmediate(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewMockStore(nil)
	e := newEngine(t, store, nil)

	ok, err := e.SetField(ctx, config.KeyEnableUpload, true)
	require.NoError(t, err)
	require.True(t, ok)

	v, _ := e.Configuration().Get(config.KeyEnableUpload)
	require.Equal(t, true, v)
	require.Zero(t, store.SaveAttempts(), "writes stay in memory until commit")
}

func TestEngine_SetFieldErrors(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(nil), &printers.Static{Names: testfixtures.Printers})

	_, err := e.SetField(ctx, "enable_fireworks", true)
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = e.SetField(ctx, config.KeyEnableEffects, true)
	require.ErrorIs(t, err, ErrFieldNotShown)

	_, err = e.Next(ctx)
	require.NoError(t, err)
	_, err = e.Next(ctx)
	require.NoError(t, err)

	// Printer list is hidden until printing is enabled.
	_, err = e.SetField(ctx, config.KeyPrinterName, "Inkjet")
	require.ErrorIs(t, err, ErrFieldNotShown)
}

func TestEngine_CoercionFailureIsNoop(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(testfixtures.AllFeaturesOff()), nil)
	before := e.Configuration()

	ok, err := e.SetField(ctx, config.KeyEnableEmail, "definitely")
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, before.Equal(e.Configuration()))
}

func TestEngine_PrinterSelectionCommitted(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewMockStore(testfixtures.AllFeaturesOff())
	dir := &printers.Static{Names: testfixtures.Printers}
	e := newEngine(t, store, dir)

	for range 2 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, PagePrinting, e.Current().ID)

	ok, err := e.SetField(ctx, config.KeyEnablePrint, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, dir.Lists)

	printer := e.Field(config.KeyPrinterName)
	require.True(t, printer.Visible())
	require.Equal(t, []string{"LaserJet", "Inkjet"}, printer.Options())

	ok, err = e.SetField(ctx, config.KeyPrinterName, "Inkjet")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.Next(ctx)
	require.NoError(t, err)
	committed, err := e.Next(ctx)
	require.NoError(t, err)
	require.True(t, committed)

	saved := store.LastSaved()
	require.Equal(t, true, saved[config.KeyEnablePrint])
	require.Equal(t, "Inkjet", saved[config.KeyPrinterName])
}

func TestEngine_PrinterQueryFailureRevertsPrint(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		dir  *printers.Static
	}{
		{"query error", &printers.Static{Err: errors.New("cups timeout")}},
		{"empty list", &printers.Static{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testfixtures.NewMockStore(testfixtures.AllFeaturesOff())
			e := newEngine(t, store, tt.dir)
			for range 2 {
				_, err := e.Next(ctx)
				require.NoError(t, err)
			}

			ok, err := e.SetField(ctx, config.KeyEnablePrint, true)
			require.NoError(t, err)
			require.True(t, ok)

			require.False(t, e.Field(config.KeyEnablePrint).Checked())
			require.False(t, e.Configuration().Bool(config.KeyEnablePrint))
			require.False(t, e.Field(config.KeyPrinterName).Visible())
			require.NotNil(t, e.Notice())
			require.Equal(t, NoticeError, e.Notice().Kind)
			require.Contains(t, e.Notice().Message, "Failed to load printers")

			e.DismissNotice()
			require.Nil(t, e.Notice())

			// Every retry queries again and reverts again.
			for attempt := 2; attempt <= 4; attempt++ {
				_, err = e.SetField(ctx, config.KeyEnablePrint, true)
				require.NoError(t, err)
				require.Equal(t, attempt, tt.dir.Lists)
				require.False(t, e.Field(config.KeyEnablePrint).Checked())
				require.False(t, e.Configuration().Bool(config.KeyEnablePrint))
				require.False(t, e.Field(config.KeyPrinterName).Visible())
				require.NotNil(t, e.Notice())
				e.DismissNotice()
			}

			// Navigation continues with printing off.
			_, err = e.Next(ctx)
			require.NoError(t, err)
			require.Equal(t, PageFinish, e.Current().ID)
		})
	}
}

func TestEngine_DisablingPrintDoesNotQuery(t *testing.T) {
	ctx := context.Background()
	dir := &printers.Static{Names: testfixtures.Printers}
	e := newEngine(t, testfixtures.NewMockStore(testfixtures.AllFeaturesOff()), dir)
	for range 2 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}

	_, err := e.SetField(ctx, config.KeyEnablePrint, true)
	require.NoError(t, err)
	_, err = e.SetField(ctx, config.KeyPrinterName, "LaserJet")
	require.NoError(t, err)

	_, err = e.SetField(ctx, config.KeyEnablePrint, false)
	require.NoError(t, err)
	require.Equal(t, 1, dir.Lists)
	require.False(t, e.Field(config.KeyPrinterName).Visible())
	require.False(t, e.Configuration().Has(config.KeyPrinterName))

	// Writing true again while already on and listed does not re-query.
	_, err = e.SetField(ctx, config.KeyEnablePrint, true)
	require.NoError(t, err)
	_, err = e.SetField(ctx, config.KeyEnablePrint, true)
	require.NoError(t, err)
	require.Equal(t, 2, dir.Lists)
}

func TestEngine_PrintingPageRequiresPrinter(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(nil), &printers.Static{Names: testfixtures.Printers})
	for range 2 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}
	_, err := e.SetField(ctx, config.KeyEnablePrint, true)
	require.NoError(t, err)

	_, err = e.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, PagePrinting, e.Current().ID)
	require.NotNil(t, e.Notice())
	require.Equal(t, NoticeWarning, e.Notice().Kind)

	_, err = e.SetField(ctx, config.KeyPrinterName, "LaserJet")
	require.NoError(t, err)
	_, err = e.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, PageFinish, e.Current().ID)
	require.Nil(t, e.Notice())
}

func TestEngine_EmailScenario(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewMockStore(testfixtures.AllFeaturesOff())
	dir := &printers.Static{Names: testfixtures.Printers}
	e := newEngine(t, store, dir)

	ok, err := e.SetField(ctx, config.KeyEnableEmail, true)
	require.NoError(t, err)
	require.True(t, ok)

	for i := 0; i < 3; i++ {
		committed, err := e.Next(ctx)
		require.NoError(t, err)
		require.False(t, committed)
	}
	require.Equal(t, PageFinish, e.Current().ID)
	require.Zero(t, store.SaveAttempts())

	committed, err := e.Next(ctx)
	require.NoError(t, err)
	require.True(t, committed)
	require.Equal(t, 1, store.SaveCalls())
	require.Zero(t, dir.Lists)

	require.Equal(t, map[string]any{
		config.KeyEnableEmail:   true,
		config.KeyEnableUpload:  false,
		config.KeyEnableEffects: false,
		config.KeyEnablePrint:   false,
	}, store.LastSaved())
}

func TestEngine_RepeatedCommitSavesSamePayload(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewMockStore(testfixtures.AllFeaturesOff())
	e := newEngine(t, store, nil)
	for range 2 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}

	for i := 1; i <= 3; i++ {
		committed, err := e.Next(ctx)
		require.NoError(t, err)
		require.True(t, committed)
		require.Equal(t, i, e.Commits())
	}

	saved := store.Saved()
	require.Len(t, saved, 3)
	require.Equal(t, saved[0], saved[1])
	require.Equal(t, saved[1], saved[2])
	require.True(t, e.Committed())
}

func TestEngine_CommitFailureStaysOnLastPage(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewMockStore(testfixtures.AllFeaturesOff())
	store.SaveError = errors.New("read-only file system")
	e := newEngine(t, store, nil)
	for range 2 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}

	committed, err := e.Next(ctx)
	require.ErrorIs(t, err, ErrPersistence)
	require.False(t, committed)
	require.True(t, e.IsLast())
	require.False(t, e.Committed())
	require.NotNil(t, e.Notice())
	require.Equal(t, "Save Error", e.Notice().Title)

	store.SetSaveError(nil)
	committed, err = e.Next(ctx)
	require.NoError(t, err)
	require.True(t, committed)
	require.Nil(t, e.Notice())
	require.Equal(t, 2, store.SaveAttempts())
	require.Equal(t, 1, store.SaveCalls())
}

func TestEngine_NavigationClearsNotice(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(nil), &printers.Static{Err: errors.New("boom")})
	for range 2 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}
	_, err := e.SetField(ctx, config.KeyEnablePrint, true)
	require.NoError(t, err)
	require.NotNil(t, e.Notice())

	e.Prev()
	require.Nil(t, e.Notice())
}

func TestEngine_PendingDiff(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(testfixtures.AllFeaturesOff()), nil)

	diff, err := e.PendingDiff()
	require.NoError(t, err)
	require.Empty(t, diff)

	_, err = e.SetField(ctx, config.KeyEnableEmail, true)
	require.NoError(t, err)
	diff, err = e.PendingDiff()
	require.NoError(t, err)
	require.Contains(t, diff, "-enable_email: false")
	require.Contains(t, diff, "+enable_email: true")

	require.NoError(t, e.Commit(ctx))
	diff, err = e.PendingDiff()
	require.NoError(t, err)
	require.Empty(t, diff)
}

func TestEngine_StateJSON(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testfixtures.NewMockStore(nil), &printers.Static{Err: errors.New("offline")})
	for range 2 {
		_, err := e.Next(ctx)
		require.NoError(t, err)
	}
	_, err := e.SetField(ctx, config.KeyEnablePrint, true)
	require.NoError(t, err)

	st := e.State()
	require.Equal(t, 2, st.Index)
	require.Equal(t, 4, st.PageCount)
	require.Equal(t, PagePrinting, st.PageID)
	require.Len(t, st.Fields, 2)
	require.False(t, st.Fields[1].Visible)

	data, err := json.Marshal(st)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"error"`)
	require.Contains(t, string(data), `"page_id":"printing"`)
	require.Contains(t, string(data), `"printer_available":true`)
}
