package winmsg

import "testing"

func TestLowWord(t *testing.T) {
	if got := LowWord(0xDEADBEEF); got != 0xBEEF {
		t.Fatalf("LowWord(0xDEADBEEF) = %#x, want 0xBEEF", got)
	}
	if got := LowWord(0x0000FFFF); got != 65535 {
		t.Fatalf("LowWord(0x0000FFFF) = %d, want 65535", got)
	}
}

func TestHighWord(t *testing.T) {
	if got := HighWord(0xDEADBEEF); got != 0xDEAD {
		t.Fatalf("HighWord(0xDEADBEEF) = %#x, want 0xDEAD", got)
	}
	if got := HighWord(0xFFFF0000); got != 65535 {
		t.Fatalf("HighWord(0xFFFF0000) = %d, want 65535", got)
	}
}

func TestSignedWords(t *testing.T) {
	if got := LowWordSigned(0x1234FFFF); got != -1 {
		t.Fatalf("LowWordSigned(0x1234FFFF) = %d, want -1", got)
	}
	if got := LowWordSigned(0x12340010); got != 16 {
		t.Fatalf("LowWordSigned(0x12340010) = %d, want 16", got)
	}
	if got := HighWordSigned(0xFFFF1234); got != -1 {
		t.Fatalf("HighWordSigned(0xFFFF1234) = %d, want -1", got)
	}
	if got := HighWordSigned(0x00101234); got != 16 {
		t.Fatalf("HighWordSigned(0x00101234) = %d, want 16", got)
	}
}

func TestPointFromParamNegativeCoordinates(t *testing.T) {
	// Secondary monitors left of or above the primary report negative positions.
	p := Point{X: -1280, Y: 200}
	got := PointFromParam(PackPoint(p))
	if got != p {
		t.Fatalf("PointFromParam(PackPoint(%v)) = %v", p, got)
	}
}
