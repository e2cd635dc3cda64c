package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/c8vm"
	"github.com/guslan/c8vm/gui"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
}

func main() {
	autostart := flag.Bool("start", false, "Starts the console automatically if there is a program loaded (defaults = false).")
	debug := flag.Bool("debug", false, "Show debug information for the console (defaults = false).")
	initialSpeed := flag.Uint("speed", c8vm.DefaultSpeed, fmt.Sprintf("The starting speed of the CPU in Hz. It has to be in the range [%d, %d] (defaults = %d).", c8vm.MinSpeed, c8vm.MaxSpeed, c8vm.DefaultSpeed))
	cyclesPerFrame := flag.Uint("xframes", c8vm.DefaultCyclesPerFrame, fmt.Sprintf("The number of cycles that run between each frame, 0 follows the speed (defaults = %d).", c8vm.DefaultCyclesPerFrame))

	flag.Parse()

	app := gui.NewApp(func(config *gui.AppConfig) {
		config.Speed = *initialSpeed
		config.UseDebugger = *debug
		config.CyclesPerFrame = *cyclesPerFrame
	})

	// without a ROM the window opens empty and waits for a dropped file
	if flag.NArg() > 0 {
		program, err := c8vm.ReadRomFile(flag.Arg(0))
		if err != nil {
			log.Fatalln(err)
		}

		if err := app.LoadProgram(flag.Arg(0), program); err != nil {
			log.Fatalln(err)
		}
	}

	app.Run(*autostart)
}
