package ephemeris

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/star/crashtrack/internal/tle"
	"github.com/star/crashtrack/internal/track"
)

const (
	issLine1 = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestLoadISS(t *testing.T) {
	l := NewLoader(testLogger())
	res := l.Load(context.Background(), tle.ElementSet{Name: "ISS", Line1: issLine1, Line2: issLine2})

	m, ok := res.Model()
	if !ok {
		t.Fatalf("expected available model, got reason: %v", res.Reason())
	}
	if m.Name() != "ISS" {
		t.Errorf("Name = %q, want ISS", m.Name())
	}
	if m.Metadata.NORADID != 25544 {
		t.Errorf("NORADID = %d, want 25544", m.Metadata.NORADID)
	}
	if res.Status() != "available" || res.Reason() != nil {
		t.Errorf("Status = %q, Reason = %v", res.Status(), res.Reason())
	}
}

// TestLoadKosmos verifies the literal element set loads without escaping
// the loader, whatever the SGP4 outcome.
func TestLoadKosmos(t *testing.T) {
	l := NewLoader(testLogger())
	res := l.Load(context.Background(), track.Default().Satellite)

	switch res.Status() {
	case "available":
		m, _ := res.Model()
		if m.Metadata.NORADID != 6073 {
			t.Errorf("NORADID = %d, want 6073", m.Metadata.NORADID)
		}
	case "unavailable":
		if res.Reason() == nil {
			t.Error("unavailable result without a reason")
		}
	default:
		t.Fatalf("unexpected status %q", res.Status())
	}
}

func TestLoadInvalidElementSet(t *testing.T) {
	tests := []struct {
		name  string
		line1 string
		line2 string
	}{
		{name: "short lines", line1: "invalid line 1", line2: "invalid line 2"},
		{name: "non-numeric mean motion", line1: issLine1, line2: issLine2[:52] + "ABCDEFGHIJK" + issLine2[63:]},
		{name: "non-numeric inclination", line1: issLine1, line2: issLine2[:8] + "  51.6Q0" + issLine2[16:]},
		{name: "non-numeric ndot", line1: issLine1[:33] + " .0001X717" + issLine1[43:], line2: issLine2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(testLogger())
			res := l.Load(context.Background(), tle.ElementSet{Name: "junk", Line1: tt.line1, Line2: tt.line2})

			if _, ok := res.Model(); ok {
				t.Fatal("expected unavailable result for invalid lines")
			}
			if !strings.Contains(res.Reason().Error(), "invalid element set") {
				t.Errorf("Reason = %v", res.Reason())
			}
		})
	}
}

func TestLoadBuilderFailures(t *testing.T) {
	tests := []struct {
		name    string
		build   Builder
		wantMsg string
	}{
		{
			name: "error",
			build: func(tle.ElementSet) (satellite.Satellite, error) {
				return satellite.Satellite{}, errors.New("boom")
			},
			wantMsg: "boom",
		},
		{
			name: "panic",
			build: func(tle.ElementSet) (satellite.Satellite, error) {
				panic("library exploded")
			},
			wantMsg: "panicked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(testLogger(), WithBuilder(tt.build))
			res := l.Load(context.Background(), track.Default().Satellite)
			if res.Status() != "unavailable" {
				t.Fatalf("Status = %q, want unavailable", res.Status())
			}
			if !strings.Contains(res.Reason().Error(), tt.wantMsg) {
				t.Errorf("Reason = %v, want containing %q", res.Reason(), tt.wantMsg)
			}
		})
	}
}

func TestResultZeroValue(t *testing.T) {
	var r Result
	if r.Status() != "unavailable" {
		t.Errorf("zero Status = %q", r.Status())
	}
	if r.Reason() == nil {
		t.Error("zero Result should carry a reason")
	}
	if Unavailable(nil).Reason() == nil {
		t.Error("Unavailable(nil) should carry a reason")
	}
}

func TestTrackNotImplemented(t *testing.T) {
	m := &Model{Metadata: tle.Metadata{Name: "Kosmos 482"}}
	_, err := m.Track(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrTrackNotImplemented) {
		t.Errorf("Track error = %v, want ErrTrackNotImplemented", err)
	}
}
