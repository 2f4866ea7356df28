// Package track holds the fixed inputs of the crash-site page: the observer
// location, the Kosmos 482 element set and its estimated reentry.
package track

import (
	"fmt"

	"github.com/star/crashtrack/internal/tle"
)

// satelliteDataValid selects the page mode. Kosmos 482 reentered on
// 2025-05-10, so the live ground-track view is switched off.
const satelliteDataValid = false

const (
	SatelliteName = "Kosmos 482"
	Line1         = "1 06073U 72023B   24123.65777316  .00000803  00000+0  14121-3 0  9990"
	Line2         = "2 06073  51.5533 146.5134 5188798  22.7442 354.1140  5.44340810267680"

	CrashTime = "2025-05-10 04:20 UTC"
)

// CrashEvent describes the estimated reentry.
type CrashEvent struct {
	Site      GeoPoint `json:"site"`
	Timestamp string   `json:"timestamp"`
	Message   string   `json:"message"`
}

// Scenario is the full set of literal inputs for one render.
type Scenario struct {
	User      GeoPoint
	Crash     CrashEvent
	Satellite tle.ElementSet
	Mode      Mode
}

// Default returns the literal scenario. Every call returns equal values.
func Default() Scenario {
	sat := tle.ElementSet{Name: SatelliteName, Line1: Line1, Line2: Line2}
	crash := CrashEvent{
		Site:      GeoPoint{Lat: -8.5, Lon: 102.0},
		Timestamp: CrashTime,
		Message:   crashMessage(CrashTime),
	}
	return Scenario{
		User:      GeoPoint{Lat: 16.8409, Lon: 96.1735},
		Crash:     crash,
		Satellite: sat,
		Mode:      selectMode(satelliteDataValid, sat, crash),
	}
}

func crashMessage(at string) string {
	return fmt.Sprintf("The Satellite has crashed\nAt: %s", at)
}

// DistanceKm is the distance from the user location to the crash site.
func (s Scenario) DistanceKm() float64 {
	return s.User.DistanceKm(s.Crash.Site)
}

// Validate checks every coordinate in the scenario.
func (s Scenario) Validate() error {
	if err := s.User.Validate(); err != nil {
		return fmt.Errorf("user location: %w", err)
	}
	if err := s.Crash.Site.Validate(); err != nil {
		return fmt.Errorf("crash site: %w", err)
	}
	if s.Mode == nil {
		return fmt.Errorf("no mode selected")
	}
	return nil
}
