/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/c8vm"
	"github.com/guslan/c8vm/web"
)

func main() {
	port := flag.Int("port", 9999, "The port of the server (default = 9999)")
	speed := flag.Uint("speed", c8vm.DefaultSpeed, "Speed in cycles per second")
	debug := flag.Bool("debug", false, "Serve the debugger at /debugger, the console starts paused and runs a cycle per frame")
	static := flag.String("static", "./static", "The directory served at the root, empty to disable it")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := c8vm.ReadRomFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	server := web.NewServer(func(config *web.ServerConfig) {
		config.UseDebugger = *debug
		config.StaticDir = *static
		config.CpuConfigs = append(config.CpuConfigs, c8vm.WithLogger(slog.Default()))
	})

	server.Speed(*speed)
	if err := server.LoadProgram(program); err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := server.Listen(ctx, *port); err != nil {
		log.Fatalln(err)
	}
}
