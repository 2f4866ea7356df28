package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/star/crashtrack/internal/basemap"
	"github.com/star/crashtrack/internal/ephemeris"
	"github.com/star/crashtrack/internal/track"
)

// Labels drawn in the legend.
const (
	LabelUser  = "Your Location"
	LabelCrash = "Estimated Crash Site"
)

// Input is everything one composition reads.
type Input struct {
	Scenario  track.Scenario
	Ephemeris ephemeris.Result
	Basemap   *basemap.Basemap
	// At is the fix time for live mode. Ignored when crashed.
	At time.Time
}

// Compose builds the figure for in. In crashed mode it never fails and never
// reads in.Ephemeris.
func Compose(ctx context.Context, in Input) (*Figure, error) {
	_, span := otel.Tracer("crashtrack/render").Start(ctx, "render.compose")
	defer span.End()

	if in.Basemap == nil {
		return nil, errors.New("render: no basemap")
	}
	if in.Scenario.Mode == nil {
		return nil, errors.New("render: no mode selected")
	}
	span.SetAttributes(attribute.String("mode", in.Scenario.Mode.Name()))

	fig := newFigure(in.Basemap)
	fig.addMarker(Marker{
		Label: LabelUser,
		At:    in.Scenario.User,
		Glyph: GlyphTriangle,
		Fill:  "white",
		Size:  60,
	})

	switch mode := in.Scenario.Mode.(type) {
	case track.Crashed:
		addCrash(fig, mode.Event)
	case track.LiveTrack:
		model, ok := in.Ephemeris.Model()
		if !ok {
			return nil, fmt.Errorf("render: live track for %q: %w", mode.Satellite.Name, in.Ephemeris.Reason())
		}
		fix, err := model.Track(in.At)
		if err != nil {
			return nil, fmt.Errorf("render: live track for %q: %w", model.Name(), err)
		}
		addLiveTrack(fig, model.Name(), fix)
	default:
		return nil, fmt.Errorf("render: unknown mode %T", in.Scenario.Mode)
	}

	span.SetAttributes(attribute.Int("markers", len(fig.Markers)))
	return fig, nil
}

func addCrash(fig *Figure, ev track.CrashEvent) {
	fig.Overlay = &TextBlock{
		Text:     ev.Message,
		Lines:    strings.Split(ev.Message, "\n"),
		Color:    "red",
		FontSize: 20,
	}
	fig.addMarker(Marker{
		Label: LabelCrash,
		At:    ev.Site,
		Glyph: GlyphCircle,
		Fill:  "red",
		Size:  50,
	})
}

func addLiveTrack(fig *Figure, name string, fix ephemeris.Fix) {
	if len(fix.Path) > 0 {
		fig.Paths = append(fig.Paths, Path{
			Points: fix.Path,
			Stroke: "lime",
			Dashed: true,
		})
	}
	fig.addMarker(Marker{
		Label:  name,
		At:     fix.Position,
		Glyph:  GlyphCircle,
		Fill:   "lime",
		Stroke: "black",
		Size:   100,
	})
	fig.Status = fmt.Sprintf("**%s** — Lat: `%.2f°`, Lon: `%.2f°`, Alt: `%.1f km`, Speed: `%.2f km/s`",
		name, fix.Position.Lat, fix.Position.Lon, fix.AltitudeKm, fix.SpeedKmS)
}
