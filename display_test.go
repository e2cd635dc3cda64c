package c8vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guslan/c8vm"
)

func TestTerminalDisplayBootClearsTheTerminal(t *testing.T) {
	out := &bytes.Buffer{}
	display := c8vm.NewTerminalDisplayWithOutput(out)

	if err := display.Boot(); err != nil {
		t.Fatalf(`Boot() returned an error %v`, err)
	}

	if diff := cmp.Diff("\x1b[1H\x1b[0J", out.String()); diff != "" {
		t.Fatalf("Boot() output: (-want, +got)\n%s", diff)
	}
}

func TestTerminalDisplayRender(t *testing.T) {
	out := &bytes.Buffer{}
	display := c8vm.NewTerminalDisplayWithOutput(out)
	display.OnChar, display.OffChar = "#", "."

	var screen c8vm.Screen
	screen.DrawSprite(1, 0, []byte{0b10000000})

	if err := display.Render(screen); err != nil {
		t.Fatalf(`Render() returned an error %v`, err)
	}

	rendered, found := strings.CutPrefix(out.String(), "\x1b[1H")
	if !found {
		t.Fatalf(`Render() does not move the cursor home: %q`, out.String())
	}

	rows := strings.Split(rendered, "|\r\n")
	// the output ends with a row terminator
	if len(rows) != c8vm.ScreenHeight+1 {
		t.Fatalf(`Render() wrote %d rows, expected %d`, len(rows)-1, c8vm.ScreenHeight)
	}

	want := "." + "#" + strings.Repeat(".", c8vm.ScreenWidth-2)
	if rows[0] != want {
		t.Fatalf(`first row = %q, expected %q`, rows[0], want)
	}
	if rows[1] != strings.Repeat(".", c8vm.ScreenWidth) {
		t.Fatalf(`second row = %q, expected a blank row`, rows[1])
	}
}

func TestInMemoryDisplayKeepsTheLastFrame(t *testing.T) {
	display := c8vm.NewInMemoryDisplay()

	var screen c8vm.Screen
	screen.DrawSprite(0, 0, []byte{0xFF})
	display.Render(screen)
	display.Render(screen)

	if display.Renders != 2 {
		t.Fatalf(`Renders = %d, expected 2`, display.Renders)
	}
	if display.Last != screen {
		t.Fatalf("Last frame differs from the rendered one:\n%s", display.Last.String())
	}
}

func TestTerminalBuzzerRingsTheBell(t *testing.T) {
	out := &bytes.Buffer{}
	buzzer := c8vm.NewTerminalBuzzer(out)

	buzzer.Play()
	buzzer.Stop()

	if out.String() != "\a" {
		t.Fatalf(`buzzer wrote %q, expected the bell`, out.String())
	}
}
