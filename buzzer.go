package c8vm

import "io"

// Buzzer is switched on while the sound timer is active
type Buzzer interface {
	// Boot initializes the component
	Boot() error
	Play()
	Stop()
}

type DummyBuzzer struct {
	IsPlaying bool
}

// Boot implements Buzzer.
func (b *DummyBuzzer) Boot() error {
	return nil
}

func NewDummyBuzzer() *DummyBuzzer {
	return &DummyBuzzer{
		IsPlaying: false,
	}
}

// Play implements Buzzer.
func (b *DummyBuzzer) Play() {
	b.IsPlaying = true
}

// Stop implements Buzzer
func (b *DummyBuzzer) Stop() {
	b.IsPlaying = false
}

const bell = 0x07

// TerminalBuzzer rings the terminal bell when the sound starts
type TerminalBuzzer struct {
	terminal io.Writer
}

func NewTerminalBuzzer(out io.Writer) *TerminalBuzzer {
	return &TerminalBuzzer{terminal: out}
}

// Boot implements Buzzer.
func (b *TerminalBuzzer) Boot() error {
	return nil
}

// Play implements Buzzer.
func (b *TerminalBuzzer) Play() {
	b.terminal.Write([]byte{bell})
}

// Stop implements Buzzer.
func (b *TerminalBuzzer) Stop() {
}
