/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/c8vm"
)

func main() {
	speed := flag.Uint("speed", c8vm.DefaultSpeed, fmt.Sprintf("The speed of the CPU in Hz, in the range [%d, %d]", c8vm.MinSpeed, c8vm.MaxSpeed))
	cyclesPerFrame := flag.Uint("xframes", c8vm.DefaultCyclesPerFrame, "The number of cycles that run between each frame, 0 follows the speed")
	noTerm := flag.Bool("noterm", false, "turn off the terminal display of the emulator")
	logPath := flag.String("log", "", "write the logs to this file, they are discarded otherwise")
	debug := flag.Bool("debug", false, "log every executed instruction")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := c8vm.ReadRomFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	// the terminal belongs to the display, logs go elsewhere
	var logOutput io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		logOutput = f
	}
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kb := c8vm.NewTerminalKeyboard()
	kb.Interrupt = stop

	var d c8vm.Display
	if *noTerm {
		d = c8vm.NewInMemoryDisplay()
	} else {
		d = c8vm.NewTerminalDisplay()
	}

	cpu, err := c8vm.New(program, d, kb, c8vm.NewTerminalBuzzer(os.Stdout),
		c8vm.WithSpeed(*speed),
		c8vm.WithCyclesPerFrame(*cyclesPerFrame),
		c8vm.WithLogger(slog.Default()),
	)
	if err != nil {
		log.Fatalln(err)
	}

	if err := cpu.Boot(); err != nil {
		kb.Close()
		log.Fatalln(err)
	}

	err = cpu.Loop(ctx)
	kb.Close()
	if err != nil {
		log.Fatalln(err)
	}
}
