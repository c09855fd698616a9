package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2/drivers"

	"go-padlight/animation"
	"go-padlight/config"
	"go-padlight/midi"
	"go-padlight/palette"
)

func main() {
	port := flag.String("port", "launchpad", "substring of the grid port name")
	layout := flag.String("layout", string(config.LayoutLegacy), "legacy or programmer")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		return
	}

	switch flag.Arg(0) {
	case "list":
		listPorts()
	case "detect":
		detectLaunchpad(*port)
	case "grid":
		testGrid(*port, config.Layout(*layout))
	case "poll":
		pollDevices(*port)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Usage: miditest [-port name] [-layout legacy|programmer] command")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  detect  - Show how each input port would be opened")
	fmt.Println("  grid    - Light the grid through the pad output")
	fmt.Println("  poll    - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, err := midi.ListPorts(3 * time.Second)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}

	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func detectLaunchpad(match string) {
	fmt.Printf("Looking for %q...\n", match)

	ins, outs, err := midi.ListPorts(3 * time.Second)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	found := false
	for i, p := range ins {
		kind := midi.ClassifyPort(p.String(), strings.ToLower(match))
		out := "no output"
		if midi.MatchingOut(p.String(), outs) != nil {
			out = "with output"
		}
		fmt.Printf("  %d: %-40s %-10s %s\n", i, p.String(), kind, out)
		if kind == midi.ControllerLaunchpad {
			found = true
		}
	}

	if found {
		fmt.Println("\nGrid controller detected!")
	} else {
		fmt.Println("\nGrid controller not found")
	}
}

func findGrid(match string) (drivers.Out, error) {
	ins, outs, err := midi.ListPorts(3 * time.Second)
	if err != nil {
		return nil, err
	}
	for _, p := range ins {
		if midi.ClassifyPort(p.String(), strings.ToLower(match)) != midi.ControllerLaunchpad {
			continue
		}
		if out := midi.MatchingOut(p.String(), outs); out != nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no grid output matching %q", match)
}

func testGrid(match string, l config.Layout) {
	fmt.Println("Testing grid output...")

	outPort, err := findGrid(match)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Using output: %s (%s layout)\n", outPort.String(), l)

	tr, err := midi.NewPortTransport(outPort)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	layout := midi.LayoutFor(l)
	for _, msg := range layout.Setup() {
		if err := tr.Write(msg); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}
	time.Sleep(100 * time.Millisecond)

	kind := palette.KindLegacy
	if l == config.LayoutProgrammer {
		kind = palette.KindRGB
	}
	colors := palette.New(kind)
	green, _ := colors.Lookup("green")
	amber, _ := colors.Lookup("amber")

	out := midi.NewGridOutput(layout)
	out.SetTransport(tr)

	fmt.Println("Lighting up diagonal (green)...")
	for i := 0; i < animation.GridSize; i++ {
		out.SetDeviceColor(green.Shade(palette.Full).Code, animation.Position{X: i, Y: i})
		out.FlushDeviceColors()
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("Lighting control row (amber, one write)...")
	for x := 0; x < animation.GridSize; x++ {
		out.SetDeviceColor(amber.Shade(palette.Full).Code, animation.Position{X: x, Y: animation.ControlRow})
	}
	out.FlushDeviceColors()

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	for y := 0; y <= animation.ControlRow; y++ {
		for x := 0; x < animation.GridSize; x++ {
			out.SetDeviceColor(palette.Off.Code, animation.Position{X: x, Y: y})
		}
	}
	out.FlushDeviceColors()

	fmt.Printf("Done! %d messages sent\n", tr.Sent())
}

func pollDevices(match string) {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a controller to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins, outs, err := midi.ListPorts(3 * time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] %v\n", time.Now().Format("15:04:05"), err)
			time.Sleep(2 * time.Second)
			continue
		}

		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if kind := midi.ClassifyPort(name, strings.ToLower(match)); kind != midi.ControllerUnknown {
					fmt.Printf("  -> %s: %s\n", kind, name)
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
