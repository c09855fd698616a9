package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-padlight/animation"
	"go-padlight/config"
	"go-padlight/debug"
	"go-padlight/midi"
	"go-padlight/patterns"
	"go-padlight/theme"
	"go-padlight/tui"
)

func main() {
	debugFlag := flag.Bool("debug", false, "write a debug log")
	configPath := flag.String("config", "", "config file (default ~/.config/go-padlight/config.yaml)")
	flag.Parse()

	if err := run(*configPath, *debugFlag); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debugLog bool) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if debugLog || cfg.Debug {
		if err := debug.Enable(""); err != nil {
			return err
		}
		defer debug.Disable()
	}

	colors, err := cfg.Vocabulary()
	if err != nil {
		return err
	}

	// Load theme
	pal := theme.Default()
	if cfg.Theme != "" {
		if pal, err = theme.LoadGPL(cfg.Theme); err != nil {
			return err
		}
	}
	th := theme.New(pal)

	var rng *rand.Rand
	if seed := uint64(cfg.Engine.Seed); seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	// Screen and device sinks
	sink := tui.NewGridSink()
	layout := midi.LayoutFor(cfg.Device.Layout)
	output := midi.NewGridOutput(layout)

	engine := animation.New(animation.Options{
		Colors:   colors,
		Visual:   sink,
		Device:   output,
		Catalog:  patterns.Catalog(),
		Rand:     rng,
		Defaults: cfg.Fades.Defaults(),
		Color:    cfg.Color,
	})
	sink.SetStats(engine.Snapshot)

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.Device.Port, layout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx, cfg.Engine.TickInterval())
	go deviceMgr.Run(ctx)

	debug.Log("main", "started fps=%d layout=%s palette=%s", cfg.Engine.FPS, cfg.Device.Layout, cfg.Device.Palette)

	m := tui.NewModel(tui.ModelConfig{
		Engine:  engine,
		Sink:    sink,
		Output:  output,
		Devices: deviceMgr,
		Theme:   th,
		Pads:    cfg.Pads,
		Colors:  colors.Names(),
		Color:   cfg.Color,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
