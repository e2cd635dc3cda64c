package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/c8vm"
)

var ScreenBgColor = rl.Gold
var ScreenPixelColor = rl.Yellow
var DebuggerTextColor = rl.RayWhite

// Boot implements c8vm.Display and c8vm.Buzzer.
func (app *App) Boot() error {
	return nil
}

// Render implements c8vm.Display.
func (app *App) Render(screen c8vm.Screen) error {
	app.screen = screen

	return nil
}

func (app *App) drawScreen() {
	for y := 0; y < c8vm.ScreenHeight; y++ {
		for x := 0; x < c8vm.ScreenWidth; x++ {
			color := ScreenBgColor
			if app.screen.At(x, y) {
				color = ScreenPixelColor
			}

			rl.DrawRectangle(
				ScreenPositionX+ScreenPixelSize*int32(x),
				ScreenPositionY+ScreenPixelSize*int32(y),
				ScreenPixelSize,
				ScreenPixelSize,
				color)
		}
	}
}

// drawDebugger shows the registers and the next instruction on the right of the screen
func (app *App) drawDebugger() {
	if !app.useDebugger {
		return
	}

	cpu := app.Cpu
	left := int32(c8vm.ScreenWidth*ScreenPixelSize + MessageBarGap)
	top := int32(ScreenPositionY + MessageBarGap)
	line := func(format string, args ...any) {
		rl.DrawText(fmt.Sprintf(format, args...), left, top, 16, DebuggerTextColor)
		top += 18
	}

	opCode := cpu.CurrentOpCode()
	line("PC %03X  %04X", cpu.Pc, opCode)
	line("%s", c8vm.Disassemble(opCode))
	line("I  %03X", cpu.I)
	line("DT %02X  ST %02X", cpu.Dt, cpu.St)
	for x := 0; x < len(cpu.V); x += 2 {
		line("V%X %02X  V%X %02X", x, cpu.V[x], x+1, cpu.V[x+1])
	}
	line("%s", cpu.Stack.String())
	line("cycles %d", cpu.Cycles())
	line("unknown %d", cpu.UnknownOpCodes())
}
