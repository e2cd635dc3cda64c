package c8vm

import (
	"strings"
	"sync"
)

// KeyboardState holds one bit per key, bit k is set while key k is down
type KeyboardState uint16

func (s KeyboardState) IsPressed(k byte) bool {
	return k < 16 && s&(1<<k) != 0
}

type Keyboard interface {
	// Boot initializes the component
	Boot() error
	// IsPressed reports whether the key k is currently down
	IsPressed(k byte) bool
	// GetPressed returns a key that went down since the last call, if any
	GetPressed() (byte, bool)
}

// InMemoryKeyboard is a keyboard whose state is set by the host.
// It is safe to update it from a different goroutine than the one running the CPU.
type InMemoryKeyboard struct {
	mu      sync.Mutex
	state   KeyboardState
	pressed KeyboardState
}

func NewInMemoryKeyboard() *InMemoryKeyboard {
	return &InMemoryKeyboard{}
}

// Boot implements Keyboard.
func (kb *InMemoryKeyboard) Boot() error {
	return nil
}

// IsPressed implements Keyboard.
func (kb *InMemoryKeyboard) IsPressed(k byte) bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return kb.state.IsPressed(k)
}

// GetPressed implements Keyboard.
// The lowest key that went down is returned and the rest of the transitions are forgotten.
func (kb *InMemoryKeyboard) GetPressed() (byte, bool) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if kb.pressed == 0 {
		return 0, false
	}

	for k := byte(0); k < 16; k++ {
		if kb.pressed.IsPressed(k) {
			kb.pressed = 0
			return k, true
		}
	}

	return 0, false
}

func (kb *InMemoryKeyboard) Get() KeyboardState {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	return kb.state
}

// Set replaces the whole state, keys that were up and are now down count as pressed
func (kb *InMemoryKeyboard) Set(state KeyboardState) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	kb.pressed |= state &^ kb.state
	kb.state = state
}

func (kb *InMemoryKeyboard) Press(k byte) {
	if k > 15 {
		return
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if !kb.state.IsPressed(k) {
		kb.pressed |= 1 << k
	}
	kb.state |= 1 << k
}

func (kb *InMemoryKeyboard) Release(k byte) {
	if k > 15 {
		return
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	kb.state &^= 1 << k
}

// KeyboardLayout maps every console key (the index) to a key of the host keyboard
type KeyboardLayout [16]rune

// DefaultKeyboardLayout maps the hex keypad onto the left side of a QWERTY keyboard
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var DefaultKeyboardLayout = KeyboardLayout{
	'x', '1', '2', '3',
	'q', 'w', 'e', 'a',
	's', 'd', 'z', 'c',
	'4', 'r', 'f', 'v',
}

// LookupMap inverts the layout. Upper and lower case runes map to the same key.
func LookupMap(layout KeyboardLayout) map[rune]byte {
	m := make(map[rune]byte, 32)
	for k, r := range layout {
		m[r] = byte(k)
		for _, variant := range []string{strings.ToUpper(string(r)), strings.ToLower(string(r))} {
			for _, v := range variant {
				m[v] = byte(k)
			}
		}
	}

	return m
}
