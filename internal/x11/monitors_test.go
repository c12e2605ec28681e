package x11

import "testing"

func TestApplyStruts_TopPanelOnSingleMonitor(t *testing.T) {
	m := Monitor{ID: 0, X: 0, Y: 0, Width: 1920, Height: 1080}
	struts := []Strut{{Top: 32, TopStart: 0, TopEnd: 1919}}

	got := ApplyStruts(m, 1920, 1080, struts)
	if got.Y != 32 || got.Height != 1048 || got.X != 0 || got.Width != 1920 {
		t.Fatalf("unexpected work area: %+v", got)
	}
}

func TestApplyStruts_PanelOnOtherMonitorIgnored(t *testing.T) {
	// Two monitors side by side; the bottom panel only spans the left one.
	right := Monitor{ID: 1, X: 1920, Y: 0, Width: 1920, Height: 1080}
	struts := []Strut{{Bottom: 40, BottomStart: 0, BottomEnd: 1919}}

	got := ApplyStruts(right, 3840, 1080, struts)
	if got != right {
		t.Fatalf("expected right monitor untouched, got %+v", got)
	}
}

func TestApplyStruts_LargestStrutPerEdgeWins(t *testing.T) {
	m := Monitor{X: 0, Y: 0, Width: 1000, Height: 800}
	struts := []Strut{
		{Left: 20, LeftStart: 0, LeftEnd: 799},
		{Left: 48, LeftStart: 0, LeftEnd: 799},
		{Right: 10, RightStart: 0, RightEnd: 799},
	}

	got := ApplyStruts(m, 1000, 800, struts)
	if got.X != 48 || got.Width != 1000-48-10 {
		t.Fatalf("unexpected work area: %+v", got)
	}
}

func TestApplyStruts_NeverCollapsesBelowOnePixel(t *testing.T) {
	m := Monitor{Width: 100, Height: 100}
	struts := []Strut{{Top: 80, TopEnd: 99}, {Bottom: 80, BottomEnd: 99}}

	got := ApplyStruts(m, 100, 100, struts)
	if got.Height != 1 {
		t.Fatalf("expected height clamped to 1, got %d", got.Height)
	}
}
