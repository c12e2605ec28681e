// Package hotkeys parses global keyboard shortcut sequences.
//
// Sequences use the same spelling as X key bindings, e.g. "Mod4-Mod1-t" for
// Super+Alt+T, and also accept the common "ctrl+alt+t" form.
package hotkeys

import (
	"errors"
	"fmt"
	"strings"
)

// Modifier flags as understood by RegisterHotKey.
const (
	ModAlt      uint32 = 0x0001
	ModControl  uint32 = 0x0002
	ModShift    uint32 = 0x0004
	ModWin      uint32 = 0x0008
	ModNoRepeat uint32 = 0x4000
)

// ErrEmpty is returned for a blank sequence.
var ErrEmpty = errors.New("empty key sequence")

// Binding is a parsed key sequence.
type Binding struct {
	Modifiers uint32
	// Key is the virtual-key code.
	Key uint32
}

// String renders the binding in canonical form.
func (b Binding) String() string {
	var parts []string
	if b.Modifiers&ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if b.Modifiers&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if b.Modifiers&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if b.Modifiers&ModWin != 0 {
		parts = append(parts, "Win")
	}
	parts = append(parts, keyName(b.Key))
	return strings.Join(parts, "+")
}

var modifierNames = map[string]uint32{
	"mod1":    ModAlt,
	"alt":     ModAlt,
	"control": ModControl,
	"ctrl":    ModControl,
	"shift":   ModShift,
	"mod4":    ModWin,
	"super":   ModWin,
	"win":     ModWin,
}

var namedKeys = map[string]uint32{
	"return":    0x0D,
	"enter":     0x0D,
	"escape":    0x1B,
	"esc":       0x1B,
	"space":     0x20,
	"tab":       0x09,
	"backspace": 0x08,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
	"home":      0x24,
	"end":       0x23,
	"prior":     0x21,
	"pageup":    0x21,
	"next":      0x22,
	"pagedown":  0x22,
	"insert":    0x2D,
	"delete":    0x2E,
}

var canonicalKeys = map[uint32]string{
	0x0D: "Enter",
	0x1B: "Escape",
	0x20: "Space",
	0x09: "Tab",
	0x08: "Backspace",
	0x25: "Left",
	0x26: "Up",
	0x27: "Right",
	0x28: "Down",
	0x24: "Home",
	0x23: "End",
	0x21: "PageUp",
	0x22: "PageDown",
	0x2D: "Insert",
	0x2E: "Delete",
}

// Parse converts seq into a Binding. At least one modifier is required so a
// bare key is never grabbed system-wide.
func Parse(seq string) (Binding, error) {
	seq = strings.TrimSpace(seq)
	if seq == "" {
		return Binding{}, ErrEmpty
	}
	fields := strings.FieldsFunc(seq, func(r rune) bool { return r == '-' || r == '+' })
	if len(fields) < 2 {
		return Binding{}, fmt.Errorf("%q: need at least one modifier and a key", seq)
	}

	var b Binding
	for _, f := range fields[:len(fields)-1] {
		mod, ok := modifierNames[strings.ToLower(f)]
		if !ok {
			return Binding{}, fmt.Errorf("%q: unknown modifier %q", seq, f)
		}
		b.Modifiers |= mod
	}
	key, err := parseKey(fields[len(fields)-1])
	if err != nil {
		return Binding{}, fmt.Errorf("%q: %w", seq, err)
	}
	b.Key = key
	return b, nil
}

func parseKey(name string) (uint32, error) {
	lower := strings.ToLower(name)
	if len(lower) == 1 {
		c := lower[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint32(c - 'a' + 'A'), nil
		case c >= '0' && c <= '9':
			return uint32(c), nil
		}
	}
	if vk, ok := namedKeys[lower]; ok {
		return vk, nil
	}
	var n int
	if _, err := fmt.Sscanf(lower, "f%d", &n); err == nil && n >= 1 && n <= 24 && lower == fmt.Sprintf("f%d", n) {
		return uint32(0x70 + n - 1), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

func keyName(vk uint32) string {
	switch {
	case vk >= 'A' && vk <= 'Z', vk >= '0' && vk <= '9':
		return string(rune(vk))
	case vk >= 0x70 && vk <= 0x87:
		return fmt.Sprintf("F%d", vk-0x70+1)
	}
	if name, ok := canonicalKeys[vk]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", vk)
}
