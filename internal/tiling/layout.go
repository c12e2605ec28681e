package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/rectangular/internal/config"
)

// Rect is a window position and size in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Inset shrinks r by the given per-edge margins.
func (r Rect) Inset(m config.Margins) Rect {
	return Rect{
		X:      r.X + m.Left,
		Y:      r.Y + m.Top,
		Width:  r.Width - m.Left - m.Right,
		Height: r.Height - m.Top - m.Bottom,
	}
}

// CalculateGrid returns the most square grid that fits n windows, with
// columns filled first.
func CalculateGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return rows, cols
}

// GridShape reports the rows and columns a layout uses for n windows. The
// master-stack layout reports its stack grid.
func GridShape(layout *config.Layout, n int) (rows, cols int) {
	switch layout.Mode {
	case config.LayoutModeAuto:
		return CalculateGrid(n)
	case config.LayoutModeFixed:
		return layout.FixedGrid.Rows, layout.FixedGrid.Cols
	case config.LayoutModeVertical:
		return n, 1
	case config.LayoutModeHorizontal:
		return 1, n
	case config.LayoutModeMasterStack:
		return stackShape(layout.MasterStack, n-1)
	}
	return 0, 0
}

// CalculatePositionsWithLayout computes one rectangle per window inside area.
// Layouts with a fixed capacity return fewer rectangles than windows; the
// extra windows are left alone.
func CalculatePositionsWithLayout(n int, area Rect, layout *config.Layout, gap int) ([]Rect, error) {
	if n <= 0 {
		return nil, nil
	}

	if layout.Mode == config.LayoutModeMasterStack {
		return masterStackPositions(n, area, layout.MasterStack, gap)
	}

	rows, cols := GridShape(layout, n)
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("unsupported layout mode %q or invalid grid %dx%d", layout.Mode, rows, cols)
	}
	if layout.Mode == config.LayoutModeFixed {
		n = min(n, rows*cols)
	}
	flexible := layout.FlexibleLastRow && layout.Mode == config.LayoutModeAuto

	return gridPositions(n, rows, cols, area, gap, flexible, layout.MaxWindowWidth, layout.MaxWindowHeight)
}

// gridPositions lays out n windows row by row. Windows smaller than their
// slot because of a size cap are centred in it. With flexible set, a short
// last row stretches to the full width.
func gridPositions(n, rows, cols int, area Rect, gap int, flexible bool, maxW, maxH int) ([]Rect, error) {
	slotW := (area.Width - (cols+1)*gap) / cols
	slotH := (area.Height - (rows+1)*gap) / rows
	if slotW <= 0 || slotH <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotW, slotH,
		)
	}

	lastRow := rows - 1
	inLastRow := n - lastRow*cols
	if inLastRow <= 0 {
		inLastRow = cols
	}
	stretchLast := flexible && inLastRow < cols
	lastSlotW := slotW
	if stretchLast {
		lastSlotW = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	out := make([]Rect, n)
	for i := range out {
		row, col := i/cols, i%cols
		w := slotW
		if stretchLast && row == lastRow {
			w = lastSlotW
		}
		cell := Rect{
			X:      area.X + gap + col*(w+gap),
			Y:      area.Y + gap + row*(slotH+gap),
			Width:  w,
			Height: slotH,
		}
		out[i] = capCentered(cell, maxW, maxH)
	}
	return out, nil
}

// capCentered limits cell to the maximum size and centres the result in the
// original cell. Zero means unlimited.
func capCentered(cell Rect, maxW, maxH int) Rect {
	if maxW > 0 && cell.Width > maxW {
		cell.X += (cell.Width - maxW) / 2
		cell.Width = maxW
	}
	if maxH > 0 && cell.Height > maxH {
		cell.Y += (cell.Height - maxH) / 2
		cell.Height = maxH
	}
	return cell
}

func stackShape(ms config.MasterStack, stack int) (rows, cols int) {
	if stack <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(float64(stack) / float64(ms.MaxStackRows)))
	cols = max(min(cols, ms.MaxStackCols), 1)
	rows = int(math.Ceil(float64(stack) / float64(cols)))
	rows = min(rows, ms.MaxStackRows)
	return rows, cols
}

// masterStackPositions gives the first window a full-height pane on the
// left and places the rest in a grid on the right. The master keeps its
// width even when it is the only window.
func masterStackPositions(n int, area Rect, ms config.MasterStack, gap int) ([]Rect, error) {
	masterW := area.Width*ms.MasterWidthPercent/100 - gap
	fullH := area.Height - 2*gap
	master := Rect{X: area.X + gap, Y: area.Y + gap, Width: masterW, Height: fullH}

	if n == 1 {
		if masterW <= 0 || fullH <= 0 {
			return nil, fmt.Errorf("insufficient space for master pane: area=%dx%d gap=%d", area.Width, area.Height, gap)
		}
		return []Rect{master}, nil
	}

	rows, cols := stackShape(ms, n-1)
	stack := min(n-1, rows*cols)

	stackX := area.X + masterW + 2*gap
	stackW := area.Width - masterW - 3*gap
	cellW := (stackW - (cols-1)*gap) / cols
	cellH := (fullH - (rows-1)*gap) / rows
	if masterW <= 0 || cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: area=%dx%d master=%d cell=%dx%d gap=%d",
			area.Width, area.Height, masterW, cellW, cellH, gap,
		)
	}

	out := make([]Rect, 0, stack+1)
	out = append(out, master)
	for i := 0; i < stack; i++ {
		row, col := i/cols, i%cols
		out = append(out, Rect{
			X:      stackX + col*(cellW+gap),
			Y:      area.Y + gap + row*(cellH+gap),
			Width:  cellW,
			Height: cellH,
		})
	}
	return out, nil
}

// ApplyRegion narrows a work area to the layout's tile region. The result is
// never smaller than 1x1.
func ApplyRegion(area Rect, region config.TileRegion) Rect {
	r := area
	switch region.Type {
	case config.RegionLeftHalf:
		r.Width = area.Width / 2
	case config.RegionRightHalf:
		r.X = area.X + area.Width/2
		r.Width = area.Width / 2
	case config.RegionTopHalf:
		r.Height = area.Height / 2
	case config.RegionBottomHalf:
		r.Y = area.Y + area.Height/2
		r.Height = area.Height / 2
	case config.RegionCustom:
		r.X = area.X + area.Width*region.XPercent/100
		r.Y = area.Y + area.Height*region.YPercent/100
		r.Width = area.Width * region.WidthPercent / 100
		r.Height = area.Height * region.HeightPercent / 100
	}
	r.Width = max(r.Width, 1)
	r.Height = max(r.Height, 1)
	return r
}

// Pad removes screen padding from area and fails when nothing is left.
func Pad(area Rect, p config.Margins) (Rect, error) {
	r := area.Inset(p)
	if r.Width < 1 || r.Height < 1 {
		return Rect{}, fmt.Errorf("screen_padding leaves no usable space: %dx%d at %d,%d", r.Width, r.Height, r.X, r.Y)
	}
	return r, nil
}
