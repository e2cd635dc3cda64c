package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/c8vm"
	"github.com/guslan/c8vm/ebitenui"
)

func main() {
	speed := flag.Uint("speed", c8vm.DefaultSpeed, fmt.Sprintf("The speed of the CPU in Hz, in the range [%d, %d]", c8vm.MinSpeed, c8vm.MaxSpeed))
	cyclesPerFrame := flag.Uint("xframes", c8vm.DefaultCyclesPerFrame, "The number of cycles that run between each frame, 0 follows the speed")
	scale := flag.Int("scale", ebitenui.DefaultScale, "The size in pixels of a pixel of the console")
	debug := flag.Bool("debug", false, "log every executed instruction")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := c8vm.ReadRomFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	game, err := ebitenui.NewGame(program, func(config *ebitenui.GameConfig) {
		config.Scale = *scale
		config.CpuConfigs = []c8vm.ConfigCb{
			c8vm.WithSpeed(*speed),
			c8vm.WithCyclesPerFrame(*cyclesPerFrame),
			c8vm.WithLogger(slog.Default()),
		}
	})
	if err != nil {
		log.Fatalln(err)
	}

	if err := game.Run(); err != nil {
		log.Fatalln(err)
	}
}
