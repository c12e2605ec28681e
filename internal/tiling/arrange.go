package tiling

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/rectangular/internal/config"
	"github.com/1broseidon/rectangular/internal/platform"
)

// Result summarises one arrangement.
type Result struct {
	Layout  string
	Display string
	// Moved counts windows placed; Skipped counts windows beyond the
	// layout's capacity or with no room left after margins; Failed counts
	// windows the backend refused to move.
	Moved   int
	Skipped int
	Failed  int
}

// Arranger applies named layouts to the windows of the active display.
// It is safe for concurrent use.
type Arranger struct {
	mu       sync.Mutex
	backend  platform.Backend
	cfg      *config.Config
	log      *slog.Logger
	previous map[platform.WindowID]Rect
}

// NewArranger creates an arranger. A nil logger uses slog.Default.
func NewArranger(backend platform.Backend, cfg *config.Config, logger *slog.Logger) *Arranger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arranger{backend: backend, cfg: cfg, log: logger}
}

// SetConfig replaces the configuration used by later arrangements.
func (a *Arranger) SetConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
}

// Config returns the current configuration.
func (a *Arranger) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Layouts returns the configured layout names in sorted order.
func (a *Arranger) Layouts() []string {
	return a.Config().LayoutNames()
}

// Default returns the name of the default layout.
func (a *Arranger) Default() string {
	return a.Config().DefaultLayout
}

// Apply arranges the active display with the named layout.
func (a *Arranger) Apply(name string) error {
	_, err := a.Arrange(name)
	return err
}

// Arrange is Apply with a summary of what was moved. Individual windows
// that cannot be moved are logged and counted but do not fail the call.
func (a *Arranger) Arrange(name string) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := Result{Layout: name}
	layout, err := a.cfg.GetLayout(name)
	if err != nil {
		return res, err
	}
	// Every attempt replaces the undo record, even one that moves nothing.
	a.previous = nil

	display, err := a.backend.ActiveDisplay()
	if err != nil {
		return res, fmt.Errorf("active display: %w", err)
	}
	res.Display = display.Name

	padded, err := Pad(rectFromPlatform(display.Usable), a.cfg.ScreenPadding)
	if err != nil {
		return res, err
	}
	area := ApplyRegion(padded, layout.TileRegion)

	windows, err := a.candidates(display.ID, layout)
	if err != nil {
		return res, err
	}
	a.log.Debug("arranging",
		"layout", name,
		"mode", layout.Mode,
		"display", display.Name,
		"area", fmt.Sprintf("%dx%d+%d+%d", area.Width, area.Height, area.X, area.Y),
		"windows", len(windows))
	if len(windows) == 0 {
		return res, nil
	}

	positions, err := CalculatePositionsWithLayout(len(windows), area, layout, a.cfg.GapSize)
	if err != nil {
		return res, err
	}

	previous := make(map[platform.WindowID]Rect, len(windows))
	for i, w := range windows {
		if i >= len(positions) {
			res.Skipped++
			continue
		}
		target := positions[i].Inset(a.cfg.GetMargins(w.Class))
		if target.Width < 1 || target.Height < 1 {
			a.log.Warn("skipping window with no room after margins", "class", w.Class, "title", w.Title)
			res.Skipped++
			continue
		}
		if err := a.backend.MoveResize(w.ID, platformRect(target)); err != nil {
			a.log.Warn("move failed", "class", w.Class, "title", w.Title, "err", err)
			res.Failed++
			continue
		}
		previous[w.ID] = rectFromPlatform(w.Bounds)
		res.Moved++
	}
	a.previous = previous

	a.log.Info("arranged", "layout", name, "display", display.Name,
		"moved", res.Moved, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// Undo moves the windows of the last arrangement back to where they were.
// It does nothing when there is no arrangement to undo.
func (a *Arranger) Undo() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var failed int
	for id, r := range a.previous {
		if err := a.backend.MoveResize(id, platformRect(r)); err != nil {
			failed++
		}
	}
	a.previous = nil
	if failed > 0 {
		return fmt.Errorf("undo: %d window(s) could not be restored", failed)
	}
	return nil
}

// candidates lists the arrangeable windows on a display in slot order:
// top to bottom, then left to right. Master-stack puts the focused window
// in the master pane.
func (a *Arranger) candidates(displayID int, layout *config.Layout) ([]platform.Window, error) {
	all, err := a.backend.ListWindowsOnDisplay(displayID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}

	windows := all[:0:0]
	for _, w := range all {
		if a.cfg.Excluded(w.Class) {
			continue
		}
		windows = append(windows, w)
	}

	var active platform.WindowID
	if layout.Mode == config.LayoutModeMasterStack {
		active, _ = a.backend.ActiveWindow()
	}
	sort.SliceStable(windows, func(i, j int) bool {
		wi, wj := windows[i], windows[j]
		if active != 0 && (wi.ID == active) != (wj.ID == active) {
			return wi.ID == active
		}
		if wi.Bounds.Y != wj.Bounds.Y {
			return wi.Bounds.Y < wj.Bounds.Y
		}
		if wi.Bounds.X != wj.Bounds.X {
			return wi.Bounds.X < wj.Bounds.X
		}
		return wi.ID < wj.ID
	})
	return windows, nil
}

func rectFromPlatform(r platform.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func platformRect(r Rect) platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
