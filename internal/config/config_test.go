package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndHasBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for name := range BuiltinLayouts() {
		if _, err := cfg.GetLayout(name); err != nil {
			t.Fatalf("builtin %q: %v", name, err)
		}
	}
	if _, ok := cfg.Layouts[DefaultBuiltinLayout]; !ok {
		t.Fatalf("expected builtin %q to exist in layouts", DefaultBuiltinLayout)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultLayout != DefaultBuiltinLayout {
		t.Fatalf("expected default_layout %q, got %q", DefaultBuiltinLayout, cfg.DefaultLayout)
	}
	if !cfg.Watch {
		t.Fatalf("expected watch to default to true")
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Panel.Width != 300 || cfg.Panel.Height != 200 || cfg.Panel.RowHeight != 24 {
		t.Fatalf("unexpected panel defaults: %+v", cfg.Panel)
	}
	if cfg.Tray.Tooltip != DefaultTooltip {
		t.Fatalf("expected tooltip %q, got %q", DefaultTooltip, cfg.Tray.Tooltip)
	}
}

func TestLoadFromPath_PartialFileKeepsOtherDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "gap_size: 4\npanel:\n  width: 320\n  height: 240\n  row_height: 30\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GapSize != 4 {
		t.Fatalf("expected gap_size 4, got %d", cfg.GapSize)
	}
	if cfg.Panel.Width != 320 || cfg.Panel.RowHeight != 30 {
		t.Fatalf("unexpected panel: %+v", cfg.Panel)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "gap_size: 4\nterminal_class: xterm\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "terminal_class") {
		t.Fatalf("expected error to mention the key, got %v", err)
	}
}

func TestLoadFromPath_CustomLayoutAddedToBuiltins(t *testing.T) {
	data := strings.Join([]string{
		"default_layout: wide",
		"layouts:",
		"  wide:",
		"    mode: fixed",
		"    tile_region:",
		"      type: custom",
		"      x_percent: 10",
		"      y_percent: 0",
		"      width_percent: 80",
		"      height_percent: 100",
		"    fixed_grid:",
		"      rows: 1",
		"      cols: 3",
		"",
	}, "\n")
	cfg, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	layout, err := cfg.GetLayout("wide")
	if err != nil {
		t.Fatalf("get wide: %v", err)
	}
	if layout.FixedGrid.Cols != 3 || layout.TileRegion.WidthPercent != 80 {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if _, err := cfg.GetLayout("grid"); err != nil {
		t.Fatalf("expected builtin grid to remain: %v", err)
	}
	if cfg.DefaultLayout != "wide" {
		t.Fatalf("expected default_layout wide, got %q", cfg.DefaultLayout)
	}
}

func TestLoadFromPath_ValidationErrorHasPosition(t *testing.T) {
	data := "log_level: info\ngap_size: -3\n"
	path := writeConfig(t, data)
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T %v", err, err)
	}
	if verr.Path != "gap_size" || verr.Line != 2 || verr.File != path {
		t.Fatalf("unexpected error context: %+v", verr)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %q", err.Error())
	}
}

func TestLoadFromPath_UnknownDefaultLayout(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "default_layout: spiral\n"))
	if !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestGetLayout_Unknown(t *testing.T) {
	_, err := DefaultConfig().GetLayout("spiral")
	if !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestLayoutNames_Sorted(t *testing.T) {
	names := DefaultConfig().LayoutNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	if len(names) != len(BuiltinLayouts()) {
		t.Fatalf("expected %d names, got %d", len(BuiltinLayouts()), len(names))
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"padding", func(c *Config) { c.ScreenPadding.Left = -1 }, "screen_padding"},
		{"no layouts", func(c *Config) { c.Layouts = nil }, "layouts"},
		{"bad mode", func(c *Config) { c.Layouts["grid"] = Layout{Mode: "spiral", TileRegion: TileRegion{Type: RegionFull}} }, "layouts.grid"},
		{"fixed without grid", func(c *Config) { c.Layouts["quad"] = Layout{Mode: LayoutModeFixed, TileRegion: TileRegion{Type: RegionFull}} }, "layouts.quad"},
		{"custom overflow", func(c *Config) {
			c.Layouts["x"] = Layout{Mode: LayoutModeAuto, TileRegion: TileRegion{Type: RegionCustom, XPercent: 50, WidthPercent: 60, HeightPercent: 100}}
		}, "layouts.x"},
		{"master width", func(c *Config) {
			c.Layouts["master-stack"] = Layout{Mode: LayoutModeMasterStack, TileRegion: TileRegion{Type: RegionFull}, MasterStack: MasterStack{MasterWidthPercent: 95, MaxStackRows: 1, MaxStackCols: 1}}
		}, "layouts.master-stack"},
		{"empty exclude", func(c *Config) { c.ExcludeClasses = []string{"Progman", " "} }, "exclude_classes"},
		{"tiny panel", func(c *Config) { c.Panel.Width = 10 }, "panel"},
		{"row taller than panel", func(c *Config) { c.Panel.RowHeight = 500 }, "panel.row_height"},
		{"empty tooltip", func(c *Config) { c.Tray.Tooltip = "" }, "tray.tooltip"},
		{"long tooltip", func(c *Config) { c.Tray.Tooltip = strings.Repeat("x", 128) }, "tray.tooltip"},
		{"bad guid", func(c *Config) { c.Tray.GUID = "not-a-guid" }, "tray.guid"},
		{"bad tile hotkey", func(c *Config) { c.Hotkeys.Tile = "t" }, "hotkeys.tile"},
		{"bad undo hotkey", func(c *Config) { c.Hotkeys.Undo = "hyper-u" }, "hotkeys.undo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestTrayConfig_ParsedGUID(t *testing.T) {
	id, err := TrayConfig{}.ParsedGUID()
	if err != nil || id.String() != "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected nil uuid, got %v %v", id, err)
	}
	const s = "5c2f1a4e-3b7d-4f0a-9e61-2d8b0c4a7f13"
	id, err = TrayConfig{GUID: s}.ParsedGUID()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.String() != s {
		t.Fatalf("expected %s, got %s", s, id)
	}
}

func TestExcludedIsCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Excluded("progman") {
		t.Fatalf("expected progman to be excluded")
	}
	if cfg.Excluded("Notepad") {
		t.Fatalf("expected Notepad to be arranged")
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GapSize = 12
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := LoadFromPath(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("load marshalled config: %v\n%s", err, data)
	}
	if loaded.GapSize != 12 {
		t.Fatalf("expected gap_size 12, got %d", loaded.GapSize)
	}
}

func TestHotkeys_EmptyDisables(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "hotkeys:\n  tile: \"\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Hotkeys.Tile != "" {
		t.Fatalf("expected tile hotkey disabled, got %q", cfg.Hotkeys.Tile)
	}
}
