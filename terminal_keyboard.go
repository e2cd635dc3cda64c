package c8vm

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/term"
)

const (
	DefaultTerminalDevice = "/dev/tty"
	DefaultKeyHold        = 150 * time.Millisecond

	ctrlC = 0x03
)

// TerminalKeyboard reads keys from a terminal in raw mode.
// Terminals do not report key releases, so every key is held down for HoldFor after its last repetition.
type TerminalKeyboard struct {
	*InMemoryKeyboard

	Layout  KeyboardLayout
	HoldFor time.Duration
	// Interrupt is called when Ctrl-C is read, raw mode swallows the signal
	Interrupt func()

	device string
	tty    *term.Term
	lookup map[rune]byte

	mu          sync.Mutex
	generations [16]uint
}

func NewTerminalKeyboard() *TerminalKeyboard {
	return NewTerminalKeyboardOn(DefaultTerminalDevice)
}

func NewTerminalKeyboardOn(device string) *TerminalKeyboard {
	return &TerminalKeyboard{
		InMemoryKeyboard: NewInMemoryKeyboard(),
		Layout:           DefaultKeyboardLayout,
		HoldFor:          DefaultKeyHold,
		device:           device,
	}
}

// Boot implements Keyboard.
// It switches the terminal to raw mode and starts reading keys in the background.
func (kb *TerminalKeyboard) Boot() error {
	if kb.tty != nil {
		return nil
	}

	tty, err := term.Open(kb.device, term.RawMode)
	if err != nil {
		return err
	}

	kb.tty = tty
	kb.lookup = LookupMap(kb.Layout)

	go kb.readLoop()

	return nil
}

// Close restores the terminal
func (kb *TerminalKeyboard) Close() error {
	if kb.tty == nil {
		return nil
	}

	tty := kb.tty
	kb.tty = nil

	return errors.Join(tty.Restore(), tty.Close())
}

func (kb *TerminalKeyboard) readLoop() {
	tty := kb.tty
	buf := make([]byte, 16)
	for {
		n, err := tty.Read(buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("Terminal keyboard stopped", slog.Any("error", err))
			}
			return
		}

		for _, b := range buf[:n] {
			kb.handleInput(b)
		}
	}
}

func (kb *TerminalKeyboard) handleInput(b byte) {
	if b == ctrlC {
		if kb.Interrupt != nil {
			kb.Interrupt()
		}
		return
	}

	if kb.lookup == nil {
		kb.lookup = LookupMap(kb.Layout)
	}

	k, ok := kb.lookup[rune(b)]
	if !ok {
		return
	}

	kb.mu.Lock()
	kb.generations[k]++
	gen := kb.generations[k]
	kb.mu.Unlock()

	kb.Press(k)
	time.AfterFunc(kb.HoldFor, func() {
		kb.mu.Lock()
		stale := kb.generations[k] != gen
		kb.mu.Unlock()

		if !stale {
			kb.Release(k)
		}
	})
}
