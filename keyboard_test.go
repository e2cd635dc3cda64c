package c8vm_test

import (
	"testing"

	"github.com/guslan/c8vm"
)

func TestInMemoryKeyboard(t *testing.T) {
	kb := c8vm.NewInMemoryKeyboard()

	if _, pressed := kb.GetPressed(); pressed {
		t.Fatalf("GetPressed() reported a key on a fresh keyboard")
	}

	kb.Press(0xB)
	kb.Press(0x4)
	kb.Press(0x20)

	if !kb.IsPressed(0xB) || !kb.IsPressed(0x4) || kb.IsPressed(0x5) {
		t.Fatalf("IsPressed() does not match the pressed keys, state %016b", kb.Get())
	}
	if kb.IsPressed(0x20) {
		t.Fatalf("IsPressed() accepted a key out of range")
	}

	k, pressed := kb.GetPressed()
	if !pressed || k != 0x4 {
		t.Fatalf("GetPressed() = %x, %v, expected 4, true", k, pressed)
	}
	if _, pressed := kb.GetPressed(); pressed {
		t.Fatalf("GetPressed() reported the same transitions twice")
	}

	// holding a key is not a new press
	kb.Press(0xB)
	if _, pressed := kb.GetPressed(); pressed {
		t.Fatalf("GetPressed() reported a held key")
	}

	kb.Release(0xB)
	if kb.IsPressed(0xB) {
		t.Fatalf("IsPressed() after Release()")
	}
}

func TestInMemoryKeyboardSet(t *testing.T) {
	kb := c8vm.NewInMemoryKeyboard()

	kb.Set(1<<0x1 | 1<<0x2)
	kb.GetPressed()

	kb.Set(1<<0x2 | 1<<0xF)
	k, pressed := kb.GetPressed()
	if !pressed || k != 0xF {
		t.Fatalf("GetPressed() = %x, %v, expected F, true", k, pressed)
	}
	if kb.IsPressed(0x1) {
		t.Fatalf("Set() did not release key 1")
	}
}

func TestLookupMap(t *testing.T) {
	m := c8vm.LookupMap(c8vm.DefaultKeyboardLayout)

	tests := map[rune]byte{
		'x': 0x0,
		'1': 0x1,
		'q': 0x4,
		'Q': 0x4,
		'v': 0xF,
		'V': 0xF,
		'4': 0xC,
	}
	for r, want := range tests {
		if got, ok := m[r]; !ok || got != want {
			t.Errorf("LookupMap()[%q] = %x, %v, expected %x", r, got, ok, want)
		}
	}
	if _, ok := m['p']; ok {
		t.Errorf("LookupMap() maps an unused key")
	}
}
