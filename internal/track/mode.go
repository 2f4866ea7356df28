package track

import "github.com/star/crashtrack/internal/tle"

// Mode is either LiveTrack or Crashed. It is chosen once, from a constant,
// when the scenario is built.
type Mode interface {
	mode()
	Name() string
}

// LiveTrack draws the satellite's current position and ground track.
type LiveTrack struct {
	Satellite tle.ElementSet
}

// Crashed draws the reentry overlay and the estimated crash site.
type Crashed struct {
	Event CrashEvent
}

func (LiveTrack) mode() {}
func (Crashed) mode()   {}

func (LiveTrack) Name() string { return "live" }
func (Crashed) Name() string   { return "crashed" }

func selectMode(live bool, sat tle.ElementSet, crash CrashEvent) Mode {
	if live {
		return LiveTrack{Satellite: sat}
	}
	return Crashed{Event: crash}
}
