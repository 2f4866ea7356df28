package track

import (
	"reflect"
	"testing"
)

func TestDefaultLiterals(t *testing.T) {
	s := Default()

	if s.User != (GeoPoint{Lat: 16.8409, Lon: 96.1735}) {
		t.Errorf("User = %+v", s.User)
	}
	if s.Crash.Site != (GeoPoint{Lat: -8.5, Lon: 102.0}) {
		t.Errorf("Crash.Site = %+v", s.Crash.Site)
	}
	if s.Crash.Timestamp != "2025-05-10 04:20 UTC" {
		t.Errorf("Crash.Timestamp = %q", s.Crash.Timestamp)
	}
	if s.Crash.Message != "The Satellite has crashed\nAt: 2025-05-10 04:20 UTC" {
		t.Errorf("Crash.Message = %q", s.Crash.Message)
	}
	if s.Satellite.Name != "Kosmos 482" {
		t.Errorf("Satellite.Name = %q", s.Satellite.Name)
	}
	if s.Satellite.Line1 != "1 06073U 72023B   24123.65777316  .00000803  00000+0  14121-3 0  9990" {
		t.Errorf("Satellite.Line1 = %q", s.Satellite.Line1)
	}
	if s.Satellite.Line2 != "2 06073  51.5533 146.5134 5188798  22.7442 354.1140  5.44340810267680" {
		t.Errorf("Satellite.Line2 = %q", s.Satellite.Line2)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDefaultIsStable(t *testing.T) {
	a, b := Default(), Default()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Default() not stable:\n%+v\n%+v", a, b)
	}
}

func TestDefaultModeIsCrashed(t *testing.T) {
	s := Default()
	c, ok := s.Mode.(Crashed)
	if !ok {
		t.Fatalf("Mode = %T, want Crashed", s.Mode)
	}
	if c.Event != s.Crash {
		t.Errorf("Crashed.Event = %+v, want %+v", c.Event, s.Crash)
	}
	if s.Mode.Name() != "crashed" {
		t.Errorf("Mode.Name() = %q", s.Mode.Name())
	}
}

func TestSelectMode(t *testing.T) {
	s := Default()
	if _, ok := selectMode(true, s.Satellite, s.Crash).(LiveTrack); !ok {
		t.Error("selectMode(true) should be LiveTrack")
	}
	if _, ok := selectMode(false, s.Satellite, s.Crash).(Crashed); !ok {
		t.Error("selectMode(false) should be Crashed")
	}
}

func TestGeoPointValidate(t *testing.T) {
	tests := []struct {
		p     GeoPoint
		valid bool
	}{
		{GeoPoint{0, 0}, true},
		{GeoPoint{90, 180}, true},
		{GeoPoint{-90, -180}, true},
		{GeoPoint{90.1, 0}, false},
		{GeoPoint{0, -180.5}, false},
	}
	for _, tt := range tests {
		err := tt.p.Validate()
		if (err == nil) != tt.valid {
			t.Errorf("Validate(%+v) = %v, want valid=%v", tt.p, err, tt.valid)
		}
	}
}

func TestDistanceKm(t *testing.T) {
	d := Default().DistanceKm()
	// Yangon to the eastern Indian Ocean off Sumatra, roughly 2900 km.
	if d < 2700 || d > 3100 {
		t.Errorf("DistanceKm = %.1f, want ~2900", d)
	}

	p := GeoPoint{Lat: 10, Lon: 20}
	if got := p.DistanceKm(p); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}
}
