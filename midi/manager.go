package midi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-padlight/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ErrPortsTimeout is returned when the MIDI system does not list its ports in time
var ErrPortsTimeout = errors.New("midi: timed out listing ports")

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of MIDI controllers
type DeviceManager struct {
	match  string
	layout Layout

	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	scanTimeout time.Duration
}

// NewDeviceManager watches for grid controllers whose port name contains match.
// Other inputs are opened as keyboards
func NewDeviceManager(match string, layout Layout) *DeviceManager {
	if match == "" {
		match = "launchpad"
	}
	return &DeviceManager{
		match:       strings.ToLower(match),
		layout:      layout,
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		scanTimeout: 3 * time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// GetLaunchpad returns the first connected Launchpad (or nil)
func (dm *DeviceManager) GetLaunchpad() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.controllers {
		if c.Type() == ControllerLaunchpad {
			return c
		}
	}
	return nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// ListPorts lists the MIDI ports, giving up after timeout (CoreMIDI can hang)
func ListPorts(timeout time.Duration) ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.inPorts, r.outPorts, nil
	case <-time.After(timeout):
		return nil, nil, ErrPortsTimeout
	}
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts, err := ListPorts(dm.scanTimeout)
	if err != nil {
		// User needs to run: sudo killall coreaudiod midiserver
		debug.Log("midi", "scan skipped: %v", err)
		return
	}

	seen := make(map[string]bool)
	var events []DeviceEvent

	for _, inPort := range inPorts {
		id := inPort.String()
		kind := ClassifyPort(id, dm.match)
		if kind == ControllerUnknown {
			continue
		}
		seen[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var c Controller
		if kind == ControllerLaunchpad {
			c, err = NewLaunchpadController(id, inPort, MatchingOut(id, outPorts), dm.layout)
		} else {
			c, err = NewKeyboardController(id, inPort)
		}
		if err != nil {
			debug.Log("midi", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()
		debug.Log("midi", "connected %s %s", kind, id)
		events = append(events, DeviceEvent{Type: DeviceConnected, Controller: c, ID: id})
	}

	dm.mu.Lock()
	for id, c := range dm.controllers {
		if seen[id] {
			continue
		}
		c.Close()
		delete(dm.controllers, id)
		debug.Log("midi", "disconnected %s", id)
		events = append(events, DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
	dm.mu.Unlock()

	for _, ev := range events {
		dm.events <- ev
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// MatchingOut finds the output port with the same name as an input
func MatchingOut(name string, outs []drivers.Out) drivers.Out {
	name = strings.ToLower(name)
	for _, op := range outs {
		if strings.ToLower(op.String()) == name {
			return op
		}
	}
	return nil
}

// ClassifyPort decides what to open for an input port name. Launchpad X DAW
// ports and loopback ports are ignored
func ClassifyPort(name, match string) ControllerType {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "through"):
		return ControllerUnknown
	case strings.Contains(name, match):
		if strings.Contains(name, "daw") {
			return ControllerUnknown
		}
		return ControllerLaunchpad
	case strings.Contains(name, "launchpad"):
		// another grid we were not asked to drive
		return ControllerUnknown
	}
	return ControllerKeyboard
}
