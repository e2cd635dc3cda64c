package c8vm

import (
	"io"
	"os"
)

// Display abstraction for a display
type Display interface {
	// Boot initializes the component
	Boot() error
	// Render receives a snapshot of the framebuffer every frame it changed
	Render(Screen) error
}

// DummyDisplay is a display that does nothing
type DummyDisplay struct {
}

func NewDummyDisplay() *DummyDisplay {
	return &DummyDisplay{}
}

func (d DummyDisplay) Boot() error {
	return nil
}

func (d DummyDisplay) Render(screen Screen) error {
	return nil
}

// InMemoryDisplay keeps the last rendered frame
type InMemoryDisplay struct {
	Last    Screen
	Renders int
}

func NewInMemoryDisplay() *InMemoryDisplay {
	return &InMemoryDisplay{}
}

func (d *InMemoryDisplay) Boot() error {
	return nil
}

func (d *InMemoryDisplay) Render(screen Screen) error {
	d.Last = screen
	d.Renders++

	return nil
}

const ESC = 0x1B

type TerminalDisplay struct {
	terminal        io.Writer
	OnChar, OffChar string
}

func NewTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayWithOutput(os.Stdout)
}

func NewTerminalDisplayWithOutput(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		terminal: out,
		OnChar:   "##",
		OffChar:  "  ",
	}
}

// Boot implements Display.
func (disp *TerminalDisplay) Boot() error {
	_, err := disp.terminal.Write([]byte{
		// Move cursor to start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '0', 'J',
	})

	return err
}

// Render implements Display.
func (disp *TerminalDisplay) Render(screen Screen) error {
	buff := make([]byte, 0, ScreenWidth*ScreenHeight*len(disp.OnChar)+ScreenHeight*3+4)
	buff = append(buff, ESC, '[', '1', 'H')
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if screen.At(x, y) {
				buff = append(buff, disp.OnChar...)
			} else {
				buff = append(buff, disp.OffChar...)
			}
		}
		// raw mode terminals do not translate \n
		buff = append(buff, '|', '\r', '\n')
	}

	_, err := disp.terminal.Write(buff)
	return err
}
