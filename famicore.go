package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/bdwalton/famicore/console"
	"github.com/bdwalton/famicore/display"
	"github.com/bdwalton/famicore/framedump"
	"github.com/bdwalton/famicore/mappers"
	"github.com/bdwalton/famicore/nesrom"
)

var (
	romFile  = flag.String("nes_rom", "", "Path to NES ROM to run.")
	headless = flag.Bool("headless", false, "Run without a window and write the last frame to -out.")
	frames   = flag.Int("frames", 60, "Frames to run when -headless is set.")
	outFile  = flag.String("out", "frame.png", "Where -headless writes the final frame.")
	scale    = flag.Int("scale", 2, "Window or image scale factor.")
	monitor  = flag.Bool("monitor", false, "Start the interactive debug monitor instead of running.")
)

func main() {
	flag.Parse()

	rom, err := nesrom.New(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}
	log.Println(rom)

	mp, err := mappers.New(rom)
	if err != nil {
		log.Fatalf("Couldn't load cartridge: %v", err)
	}

	m := console.New(mp)
	m.SetLogger(log.Default())
	m.Reset()

	switch {
	case *monitor:
		// ^C is handled inside the monitor; it only interrupts a run
		if err := m.Monitor(context.Background(), os.Stdin, os.Stdout); err != nil {
			log.Fatalf("Monitor: %v", err)
		}
	case *headless:
		if err := runHeadless(m); err != nil {
			log.Fatal(err)
		}
	default:
		m.SetController(display.Keyboard{})
		if err := display.Run(m, *scale); err != nil {
			log.Fatalf("Display: %v", err)
		}
	}
}

func runHeadless(m *console.Machine) error {
	for i := 0; i < *frames; i++ {
		if err := m.StepFrame(); err != nil {
			log.Printf("Stopped after %d frames: %v", i, err)
			break
		}
	}

	w, h := m.Resolution()
	img, err := framedump.Image(m.Pixels(), w, h)
	if err != nil {
		return err
	}

	return framedump.WriteFile(*outFile, img, *scale)
}
