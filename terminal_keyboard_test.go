package c8vm

import (
	"testing"
	"time"
)

func TestTerminalKeyboardHoldsKeys(t *testing.T) {
	kb := NewTerminalKeyboardOn("unused")
	kb.HoldFor = 20 * time.Millisecond

	kb.handleInput('w')
	if !kb.IsPressed(0x5) {
		t.Fatalf("key 5 is not down after reading 'w'")
	}
	if k, pressed := kb.GetPressed(); !pressed || k != 0x5 {
		t.Fatalf("GetPressed() = %x, %v, expected 5, true", k, pressed)
	}

	deadline := time.Now().Add(time.Second)
	for kb.IsPressed(0x5) {
		if time.Now().After(deadline) {
			t.Fatalf("key 5 was never released")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTerminalKeyboardInterrupt(t *testing.T) {
	kb := NewTerminalKeyboardOn("unused")

	interrupted := false
	kb.Interrupt = func() {
		interrupted = true
	}

	kb.handleInput('p')
	kb.handleInput(ctrlC)

	if !interrupted {
		t.Fatalf("Ctrl-C did not interrupt")
	}
	if kb.Get() != 0 {
		t.Fatalf("unmapped input pressed keys: %016b", kb.Get())
	}
}
