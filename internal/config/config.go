package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/1broseidon/rectangular/internal/hotkeys"
)

// ErrUnknownLayout is returned when a layout name is not configured.
var ErrUnknownLayout = errors.New("unknown layout")

const (
	DefaultBuiltinLayout = "grid"
	DefaultTooltip       = "Rectangular"
)

// Margins represents per-edge adjustments in pixels.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// LayoutMode defines how windows are arranged.
type LayoutMode string

const (
	LayoutModeAuto        LayoutMode = "auto"         // Dynamic grid based on count.
	LayoutModeFixed       LayoutMode = "fixed"        // Specific rows × cols.
	LayoutModeVertical    LayoutMode = "vertical"     // Single column stack.
	LayoutModeHorizontal  LayoutMode = "horizontal"   // Single row side-by-side.
	LayoutModeMasterStack LayoutMode = "master-stack" // Master pane left, stack grid right.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines the part of the work area a layout uses.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent,omitempty"`
	YPercent      int        `yaml:"y_percent,omitempty"`
	WidthPercent  int        `yaml:"width_percent,omitempty"`
	HeightPercent int        `yaml:"height_percent,omitempty"`
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack defines the master-stack layout parameters.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // 10-90
	MaxStackRows       int `yaml:"max_stack_rows"`
	MaxStackCols       int `yaml:"max_stack_cols"`
}

// Layout is one named arrangement offered in the panel.
type Layout struct {
	Mode            LayoutMode  `yaml:"mode"`
	TileRegion      TileRegion  `yaml:"tile_region"`
	FixedGrid       FixedGrid   `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack `yaml:"master_stack,omitempty"`
	MaxWindowWidth  int         `yaml:"max_window_width,omitempty"`  // 0 = unlimited
	MaxWindowHeight int         `yaml:"max_window_height,omitempty"` // 0 = unlimited
	FlexibleLastRow bool        `yaml:"flexible_last_row,omitempty"` // auto mode only
}

// PanelConfig sizes the layout panel.
type PanelConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	RowHeight int `yaml:"row_height"`
}

// TrayConfig configures the notification icon.
type TrayConfig struct {
	Tooltip string `yaml:"tooltip"`
	// GUID gives the icon a stable identity across restarts. Empty means
	// the icon is identified by its owner window.
	GUID     string `yaml:"guid,omitempty"`
	IconPath string `yaml:"icon_path,omitempty"`
}

// ParsedGUID returns the icon GUID, or uuid.Nil when none is configured.
func (t TrayConfig) ParsedGUID() (uuid.UUID, error) {
	if strings.TrimSpace(t.GUID) == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(t.GUID)
}

// HotkeyConfig holds the global shortcuts. An empty sequence disables the
// shortcut.
type HotkeyConfig struct {
	Tile string `yaml:"tile"`
	Undo string `yaml:"undo"`
}

// Config is the effective configuration.
//
// ExcludeClasses lists window classes that are never arranged. Watch reloads
// the configuration when the file changes.
type Config struct {
	LogLevel       string             `yaml:"log_level"`
	GapSize        int                `yaml:"gap_size"`
	ScreenPadding  Margins            `yaml:"screen_padding"`
	DefaultLayout  string             `yaml:"default_layout"`
	Layouts        map[string]Layout  `yaml:"layouts"`
	ExcludeClasses []string           `yaml:"exclude_classes"`
	WindowMargins  map[string]Margins `yaml:"window_margins,omitempty"`
	Panel          PanelConfig        `yaml:"panel"`
	Tray           TrayConfig         `yaml:"tray"`
	Hotkeys        HotkeyConfig       `yaml:"hotkeys"`
	Watch          bool               `yaml:"watch"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		GapSize:       8,
		DefaultLayout: DefaultBuiltinLayout,
		Layouts:       BuiltinLayouts(),
		ExcludeClasses: []string{
			"Shell_TrayWnd",
			"Shell_SecondaryTrayWnd",
			"Progman",
			"WorkerW",
			"Windows.UI.Core.CoreWindow",
		},
		WindowMargins: map[string]Margins{},
		Panel: PanelConfig{
			Width:     300,
			Height:    200,
			RowHeight: 24,
		},
		Tray: TrayConfig{
			Tooltip: DefaultTooltip,
		},
		Hotkeys: HotkeyConfig{
			Tile: "Mod4-Mod1-t",
			Undo: "Mod4-Mod1-u",
		},
		Watch: true,
	}
}

// GetLayout retrieves a layout by name with validation.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", name, err)
	}
	return &layout, nil
}

// LayoutNames returns the configured layout names in sorted order.
func (c *Config) LayoutNames() []string {
	names := make([]string, 0, len(c.Layouts))
	for name := range c.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMargins returns the margin adjustments for a window class.
func (c *Config) GetMargins(class string) Margins {
	if m, ok := c.WindowMargins[class]; ok {
		return m
	}
	return Margins{}
}

// Excluded reports whether windows of class are never arranged.
func (c *Config) Excluded(class string) bool {
	for _, ex := range c.ExcludeClasses {
		if strings.EqualFold(ex, class) {
			return true
		}
	}
	return false
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	if c.DefaultLayout == "" {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout is required")}
	}
	if _, ok := c.Layouts[c.DefaultLayout]; !ok {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("%w: default_layout %q not found in layouts", ErrUnknownLayout, c.DefaultLayout)}
	}
	for _, name := range c.LayoutNames() {
		layout := c.Layouts[name]
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts contains an empty name")}
		}
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}

	for i, class := range c.ExcludeClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "exclude_classes", Err: fmt.Errorf("entry %d is empty", i)}
		}
	}

	if c.Panel.Width < 50 || c.Panel.Height < 50 {
		return &ValidationError{Path: "panel", Err: fmt.Errorf("panel width and height must be >= 50")}
	}
	if c.Panel.RowHeight < 8 || c.Panel.RowHeight > c.Panel.Height {
		return &ValidationError{Path: "panel.row_height", Err: fmt.Errorf("row_height must be between 8 and the panel height")}
	}

	// NOTIFYICONDATA.szTip holds 128 UTF-16 units including the terminator.
	if n := len([]rune(c.Tray.Tooltip)); n == 0 || n > 127 {
		return &ValidationError{Path: "tray.tooltip", Err: fmt.Errorf("tooltip must be 1-127 characters")}
	}
	if _, err := c.Tray.ParsedGUID(); err != nil {
		return &ValidationError{Path: "tray.guid", Err: fmt.Errorf("invalid guid: %w", err)}
	}

	for key, seq := range map[string]string{"hotkeys.tile": c.Hotkeys.Tile, "hotkeys.undo": c.Hotkeys.Undo} {
		if strings.TrimSpace(seq) == "" {
			continue
		}
		if _, err := hotkeys.Parse(seq); err != nil {
			return &ValidationError{Path: key, Err: err}
		}
	}

	return nil
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout *Layout) error {
	switch layout.Mode {
	case LayoutModeAuto, LayoutModeFixed, LayoutModeVertical, LayoutModeHorizontal, LayoutModeMasterStack:
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	if layout.Mode == LayoutModeFixed {
		if layout.FixedGrid.Rows <= 0 || layout.FixedGrid.Cols <= 0 {
			return fmt.Errorf("fixed mode requires rows and cols to be positive")
		}
	}

	if layout.Mode == LayoutModeMasterStack {
		if layout.MasterStack.MasterWidthPercent < 10 || layout.MasterStack.MasterWidthPercent > 90 {
			return fmt.Errorf("master_stack.master_width_percent must be between 10 and 90")
		}
		if layout.MasterStack.MaxStackRows < 1 {
			return fmt.Errorf("master_stack.max_stack_rows must be >= 1")
		}
		if layout.MasterStack.MaxStackCols < 1 {
			return fmt.Errorf("master_stack.max_stack_cols must be >= 1")
		}
	}

	if layout.MaxWindowWidth < 0 || layout.MaxWindowHeight < 0 {
		return fmt.Errorf("max_window_width/height must be >= 0")
	}

	switch layout.TileRegion.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
	case RegionCustom:
		r := layout.TileRegion
		if r.XPercent < 0 || r.XPercent > 100 || r.YPercent < 0 || r.YPercent > 100 {
			return fmt.Errorf("x_percent and y_percent must be between 0 and 100")
		}
		if r.WidthPercent <= 0 || r.WidthPercent > 100 || r.HeightPercent <= 0 || r.HeightPercent > 100 {
			return fmt.Errorf("width_percent and height_percent must be between 1 and 100")
		}
		if r.XPercent+r.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if r.YPercent+r.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", layout.TileRegion.Type)
	}

	return nil
}
