package tiling

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/rectangular/internal/config"
)

func TestCalculateGrid(t *testing.T) {
	cases := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{5, 2, 3},
		{7, 3, 3},
		{10, 3, 4},
	}
	for _, tc := range cases {
		rows, cols := CalculateGrid(tc.n)
		if rows != tc.rows || cols != tc.cols {
			t.Errorf("CalculateGrid(%d) = %dx%d, want %dx%d", tc.n, rows, cols, tc.rows, tc.cols)
		}
	}
}

func TestCalculatePositionsWithLayout_MaxWindowWidthDoesNotCompressGrid(t *testing.T) {
	layout := &config.Layout{
		Mode:           config.LayoutModeFixed,
		FixedGrid:      config.FixedGrid{Rows: 1, Cols: 2},
		TileRegion:     config.TileRegion{Type: config.RegionFull},
		MaxWindowWidth: 50,
	}
	area := Rect{X: 0, Y: 0, Width: 210, Height: 100}

	positions, err := CalculatePositionsWithLayout(2, area, layout, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	// slot width (210-30)/2 = 90, window 50 centred: offset 20.
	if positions[0].X != 30 || positions[1].X != 130 {
		t.Fatalf("expected x=30,130, got %d,%d", positions[0].X, positions[1].X)
	}
	if positions[0].Width != 50 || positions[1].Width != 50 {
		t.Fatalf("expected both widths to be 50, got %d and %d", positions[0].Width, positions[1].Width)
	}
}

func TestCalculatePositionsWithLayout_ErrorsWhenInsufficientSpace(t *testing.T) {
	layout := &config.Layout{
		Mode:       config.LayoutModeFixed,
		FixedGrid:  config.FixedGrid{Rows: 1, Cols: 2},
		TileRegion: config.TileRegion{Type: config.RegionFull},
	}

	if _, err := CalculatePositionsWithLayout(2, Rect{Width: 20, Height: 10}, layout, 20); err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestCalculatePositionsWithLayout_FixedGridCapsWindowCount(t *testing.T) {
	layout := &config.Layout{
		Mode:      config.LayoutModeFixed,
		FixedGrid: config.FixedGrid{Rows: 2, Cols: 2},
	}

	positions, err := CalculatePositionsWithLayout(6, Rect{Width: 1000, Height: 1000}, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 4 {
		t.Fatalf("expected 4 positions, got %d", len(positions))
	}
	if positions[3] != (Rect{X: 500, Y: 500, Width: 500, Height: 500}) {
		t.Fatalf("unexpected last cell: %+v", positions[3])
	}
}

func TestCalculatePositionsWithLayout_FlexibleLastRowStretches(t *testing.T) {
	layout := &config.Layout{Mode: config.LayoutModeAuto, FlexibleLastRow: true}

	// 3 windows: 2x2 grid with one window on the last row.
	positions, err := CalculatePositionsWithLayout(3, Rect{Width: 1000, Height: 800}, layout, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if positions[0].Width != 500 || positions[1].Width != 500 {
		t.Fatalf("expected first row cells 500 wide, got %+v", positions[:2])
	}
	if positions[2] != (Rect{X: 0, Y: 400, Width: 1000, Height: 400}) {
		t.Fatalf("expected stretched last row, got %+v", positions[2])
	}
}

func TestCalculatePositionsWithLayout_ColumnsAndRows(t *testing.T) {
	area := Rect{X: 100, Y: 0, Width: 900, Height: 600}

	cols, err := CalculatePositionsWithLayout(3, area, &config.Layout{Mode: config.LayoutModeHorizontal}, 0)
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	wantCols := []Rect{
		{X: 100, Y: 0, Width: 300, Height: 600},
		{X: 400, Y: 0, Width: 300, Height: 600},
		{X: 700, Y: 0, Width: 300, Height: 600},
	}
	if diff := cmp.Diff(wantCols, cols); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	rows, err := CalculatePositionsWithLayout(3, area, &config.Layout{Mode: config.LayoutModeVertical}, 0)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	wantRows := []Rect{
		{X: 100, Y: 0, Width: 900, Height: 200},
		{X: 100, Y: 200, Width: 900, Height: 200},
		{X: 100, Y: 400, Width: 900, Height: 200},
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculatePositionsWithLayout_MasterStack(t *testing.T) {
	layout := &config.Layout{
		Mode: config.LayoutModeMasterStack,
		MasterStack: config.MasterStack{
			MasterWidthPercent: 60,
			MaxStackRows:       3,
			MaxStackCols:       1,
		},
	}
	area := Rect{Width: 1000, Height: 620}

	single, err := CalculatePositionsWithLayout(1, area, layout, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if single[0] != (Rect{X: 10, Y: 10, Width: 590, Height: 600}) {
		t.Fatalf("unexpected master: %+v", single[0])
	}

	positions, err := CalculatePositionsWithLayout(5, area, layout, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One master plus a stack capped at three rows.
	if len(positions) != 4 {
		t.Fatalf("expected 4 positions, got %d", len(positions))
	}
	// stack x = 590 + 20, width = 1000 - 590 - 30, height (600 - 20) / 3.
	want := Rect{X: 610, Y: 10, Width: 380, Height: 193}
	if positions[1] != want {
		t.Fatalf("stack[0] = %+v, want %+v", positions[1], want)
	}
	if positions[3].Y != 10+2*(193+10) {
		t.Fatalf("stack[2].Y = %d", positions[3].Y)
	}
}

func TestCalculatePositionsWithLayout_UnknownMode(t *testing.T) {
	if _, err := CalculatePositionsWithLayout(1, Rect{Width: 100, Height: 100}, &config.Layout{Mode: "spiral"}, 0); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestApplyRegion_Halves(t *testing.T) {
	area := Rect{X: 0, Y: 40, Width: 1920, Height: 1000}

	if got := ApplyRegion(area, config.TileRegion{Type: config.RegionLeftHalf}); got != (Rect{X: 0, Y: 40, Width: 960, Height: 1000}) {
		t.Fatalf("left half = %+v", got)
	}
	if got := ApplyRegion(area, config.TileRegion{Type: config.RegionRightHalf}); got != (Rect{X: 960, Y: 40, Width: 960, Height: 1000}) {
		t.Fatalf("right half = %+v", got)
	}
	if got := ApplyRegion(area, config.TileRegion{Type: config.RegionBottomHalf}); got != (Rect{X: 0, Y: 540, Width: 1920, Height: 500}) {
		t.Fatalf("bottom half = %+v", got)
	}
	if got := ApplyRegion(area, config.TileRegion{Type: config.RegionFull}); got != area {
		t.Fatalf("full = %+v", got)
	}
}

func TestApplyRegion_CustomClampsToMinimumSize(t *testing.T) {
	region := config.TileRegion{
		Type:          config.RegionCustom,
		WidthPercent:  1,
		HeightPercent: 1,
	}

	adjusted := ApplyRegion(Rect{Width: 10, Height: 10}, region)
	if adjusted.Width != 1 || adjusted.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.Width, adjusted.Height)
	}
}

func TestPad(t *testing.T) {
	got, err := Pad(Rect{Width: 1000, Height: 800}, config.Margins{Top: 10, Bottom: 20, Left: 30, Right: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Rect{X: 30, Y: 10, Width: 930, Height: 770}) {
		t.Fatalf("Pad = %+v", got)
	}

	if _, err := Pad(Rect{Width: 100, Height: 100}, config.Margins{Left: 60, Right: 40}); err == nil {
		t.Fatal("expected error when padding consumes the area")
	}
}
