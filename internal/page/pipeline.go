package page

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/star/crashtrack/internal/basemap"
	"github.com/star/crashtrack/internal/ephemeris"
	"github.com/star/crashtrack/internal/metrics"
	"github.com/star/crashtrack/internal/render"
	"github.com/star/crashtrack/internal/track"
)

// Triggers label what started a pipeline run.
const (
	TriggerLoad   = "load"
	TriggerReload = "reload"
	TriggerSVG    = "svg"
	TriggerScene  = "scene"
	TriggerCLI    = "cli"
)

// Output is everything one run produced.
type Output struct {
	Scenario  track.Scenario
	Ephemeris ephemeris.Result
	Figure    *render.Figure
	SVG       []byte
	Page      Page
}

// Pipeline runs constants -> ephemeris -> map -> markers -> page.
// It holds no per-run state; concurrent Runs are independent.
type Pipeline struct {
	loader  *ephemeris.Loader
	basemap *basemap.Basemap
	logger  *slog.Logger
	now     func() time.Time
}

// NewPipeline creates a Pipeline over a loaded basemap.
func NewPipeline(loader *ephemeris.Loader, bm *basemap.Basemap, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		loader:  loader,
		basemap: bm,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes the full pipeline once.
func (p *Pipeline) Run(ctx context.Context, trigger string) (*Output, error) {
	ctx, span := otel.Tracer("crashtrack/page").Start(ctx, "pipeline.run")
	defer span.End()

	renderID := uuid.NewString()
	span.SetAttributes(
		attribute.String("trigger", trigger),
		attribute.String("render_id", renderID),
	)
	start := time.Now()

	scenario := track.Default()
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// The crashed figure never reads this; it is built for the live mode
	// and for the scene API's ephemeris status.
	eph := p.loader.Load(ctx, scenario.Satellite)

	fig, err := render.Compose(ctx, render.Input{
		Scenario:  scenario,
		Ephemeris: eph,
		Basemap:   p.basemap,
		At:        p.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("composing figure: %w", err)
	}

	var svg bytes.Buffer
	if err := render.WriteSVG(&svg, fig); err != nil {
		return nil, fmt.Errorf("drawing figure: %w", err)
	}

	pg, err := Render(State{Scenario: scenario, Figure: fig, SVG: svg.Bytes()})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	duration := time.Since(start)
	metrics.RecordRender(trigger, duration)
	p.logger.Debug("pipeline run",
		"component", "page",
		"render_id", renderID,
		"trigger", trigger,
		"mode", scenario.Mode.Name(),
		"ephemeris", eph.Status(),
		"markers", len(fig.Markers),
		"duration_ms", duration.Milliseconds(),
	)

	return &Output{
		Scenario:  scenario,
		Ephemeris: eph,
		Figure:    fig,
		SVG:       svg.Bytes(),
		Page:      pg,
	}, nil
}
