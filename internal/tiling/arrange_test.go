package tiling

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/rectangular/internal/config"
	"github.com/1broseidon/rectangular/internal/platform"
)

type fakeBackend struct {
	display platform.Display
	windows []platform.Window
	active  platform.WindowID
	fail    map[platform.WindowID]bool
	moves   map[platform.WindowID]platform.Rect
	order   []platform.WindowID
}

func newFakeBackend(windows ...platform.Window) *fakeBackend {
	return &fakeBackend{
		display: platform.Display{
			ID:     0,
			Name:   "primary",
			Bounds: platform.Rect{Width: 1000, Height: 840},
			Usable: platform.Rect{Width: 1000, Height: 800},
		},
		windows: windows,
		fail:    map[platform.WindowID]bool{},
		moves:   map[platform.WindowID]platform.Rect{},
	}
}

func (f *fakeBackend) Displays() ([]platform.Display, error) {
	return []platform.Display{f.display}, nil
}

func (f *fakeBackend) ActiveDisplay() (platform.Display, error) { return f.display, nil }
func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) { return f.active, nil }
func (f *fakeBackend) Close() error                             { return nil }

func (f *fakeBackend) ListWindowsOnDisplay(id int) ([]platform.Window, error) {
	if id != f.display.ID {
		return nil, errors.New("no such display")
	}
	return append([]platform.Window(nil), f.windows...), nil
}

func (f *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect) error {
	if f.fail[id] {
		return errors.New("access denied")
	}
	f.moves[id] = r
	f.order = append(f.order, id)
	return nil
}

func window(id int, class string, x, y int) platform.Window {
	return platform.Window{
		ID:     platform.WindowID(id),
		Class:  class,
		Title:  class,
		Bounds: platform.Rect{X: x, Y: y, Width: 300, Height: 200},
	}
}

func newTestArranger(b platform.Backend) *Arranger {
	cfg := config.DefaultConfig()
	cfg.GapSize = 0
	return NewArranger(b, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestArrangeColumnsUsesWorkAreaAndPositionOrder(t *testing.T) {
	b := newFakeBackend(
		window(1, "Notepad", 500, 10),
		window(2, "Chrome_WidgetWin_1", 10, 10),
	)
	a := newTestArranger(b)

	res, err := a.Arrange("columns")
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Moved != 2 || res.Display != "primary" {
		t.Fatalf("unexpected result: %+v", res)
	}
	// The leftmost window gets the first slot; the taskbar strip is excluded.
	if got := b.moves[2]; got != (platform.Rect{X: 0, Y: 0, Width: 500, Height: 800}) {
		t.Fatalf("window 2 placed at %+v", got)
	}
	if got := b.moves[1]; got != (platform.Rect{X: 500, Y: 0, Width: 500, Height: 800}) {
		t.Fatalf("window 1 placed at %+v", got)
	}
}

func TestArrangeSkipsExcludedClasses(t *testing.T) {
	b := newFakeBackend(
		window(1, "Notepad", 0, 0),
		window(2, "progman", 0, 0),
	)
	a := newTestArranger(b)

	res, err := a.Arrange("rows")
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Moved != 1 {
		t.Fatalf("expected 1 window moved, got %+v", res)
	}
	if _, moved := b.moves[2]; moved {
		t.Fatal("excluded window was moved")
	}
	if got := b.moves[1]; got.Height != 800 {
		t.Fatalf("expected the only window to fill the height, got %+v", got)
	}
}

func TestArrangeAppliesPaddingAndMargins(t *testing.T) {
	b := newFakeBackend(window(1, "Notepad", 0, 0))
	a := newTestArranger(b)
	cfg := a.Config()
	cfg.ScreenPadding = config.Margins{Top: 10, Left: 20}
	cfg.WindowMargins = map[string]config.Margins{"Notepad": {Right: 5, Bottom: 5}}

	if _, err := a.Arrange("grid"); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	want := platform.Rect{X: 20, Y: 10, Width: 975, Height: 785}
	if got := b.moves[1]; got != want {
		t.Fatalf("placed at %+v, want %+v", got, want)
	}
}

func TestArrangeUnknownLayout(t *testing.T) {
	a := newTestArranger(newFakeBackend())

	if err := a.Apply("spiral"); !errors.Is(err, config.ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestArrangeWithNoWindows(t *testing.T) {
	a := newTestArranger(newFakeBackend())

	res, err := a.Arrange("grid")
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Moved != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestArrangeContinuesAfterMoveFailure(t *testing.T) {
	b := newFakeBackend(
		window(1, "Notepad", 0, 0),
		window(2, "Notepad", 400, 0),
	)
	b.fail[1] = true
	a := newTestArranger(b)

	res, err := a.Arrange("columns")
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Moved != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestArrangeFixedGridSkipsOverflow(t *testing.T) {
	var windows []platform.Window
	for i := 1; i <= 5; i++ {
		windows = append(windows, window(i, "Notepad", i*10, 0))
	}
	b := newFakeBackend(windows...)
	a := newTestArranger(b)

	res, err := a.Arrange("quad")
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if res.Moved != 4 || res.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, moved := b.moves[5]; moved {
		t.Fatal("window beyond the grid capacity was moved")
	}
}

func TestArrangeMasterStackPutsActiveWindowFirst(t *testing.T) {
	b := newFakeBackend(
		window(1, "Notepad", 0, 0),
		window(2, "Notepad", 100, 100),
	)
	b.active = 2
	a := newTestArranger(b)

	if _, err := a.Arrange("master-stack"); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if got := b.moves[2]; got.X != 0 || got.Width != 600 {
		t.Fatalf("active window not in the master pane: %+v", got)
	}
}

func TestUndoRestoresPreviousGeometry(t *testing.T) {
	w := window(1, "Notepad", 42, 24)
	b := newFakeBackend(w)
	a := newTestArranger(b)

	if _, err := a.Arrange("grid"); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if err := a.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := b.moves[1]; got != w.Bounds {
		t.Fatalf("restored to %+v, want %+v", got, w.Bounds)
	}

	b.order = nil
	if err := a.Undo(); err != nil {
		t.Fatalf("second Undo: %v", err)
	}
	if len(b.order) != 0 {
		t.Fatal("second undo moved windows")
	}
}

func TestUndoAfterEmptyArrangeMovesNothing(t *testing.T) {
	b := newFakeBackend(window(1, "Notepad", 42, 24))
	a := newTestArranger(b)

	if _, err := a.Arrange("grid"); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	b.windows = nil
	res, err := a.Arrange("grid")
	if err != nil {
		t.Fatalf("second Arrange: %v", err)
	}
	if res.Moved != 0 {
		t.Fatalf("second arrange moved %d windows", res.Moved)
	}

	b.order = nil
	if err := a.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(b.order) != 0 {
		t.Fatalf("undo moved %v, want nothing", b.order)
	}
}

func TestUndoAfterFailedArrangeMovesNothing(t *testing.T) {
	b := newFakeBackend(window(1, "Notepad", 42, 24))
	a := newTestArranger(b)

	if _, err := a.Arrange("grid"); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.ScreenPadding = config.Margins{Left: 600, Right: 600}
	a.SetConfig(cfg)
	if _, err := a.Arrange("grid"); err == nil {
		t.Fatal("expected padding error")
	}

	b.order = nil
	if err := a.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(b.order) != 0 {
		t.Fatalf("undo moved %v, want nothing", b.order)
	}
}

func TestUndoKeepsRecordAfterUnknownLayout(t *testing.T) {
	w := window(1, "Notepad", 42, 24)
	b := newFakeBackend(w)
	a := newTestArranger(b)

	if _, err := a.Arrange("grid"); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if _, err := a.Arrange("nope"); !errors.Is(err, config.ErrUnknownLayout) {
		t.Fatalf("err = %v, want ErrUnknownLayout", err)
	}
	if err := a.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := b.moves[1]; got != w.Bounds {
		t.Fatalf("restored to %+v, want %+v", got, w.Bounds)
	}
}

func TestSetConfigChangesLayouts(t *testing.T) {
	a := newTestArranger(newFakeBackend())
	if a.Default() != config.DefaultBuiltinLayout {
		t.Fatalf("Default() = %q", a.Default())
	}

	cfg := config.DefaultConfig()
	cfg.Layouts["wide"] = config.Layout{Mode: config.LayoutModeHorizontal}
	cfg.DefaultLayout = "wide"
	a.SetConfig(cfg)

	if a.Default() != "wide" {
		t.Fatalf("Default() = %q after SetConfig", a.Default())
	}
	found := false
	for _, name := range a.Layouts() {
		if name == "wide" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Layouts() = %v, missing wide", a.Layouts())
	}
}
