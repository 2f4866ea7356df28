// Package ephemeris builds an SGP4 orbital model from an element set.
//
// Construction never fails loudly: every error, including a panic inside
// the SGP4 library, is folded into an Unavailable result. Callers decide
// what to do with it; the crash page ignores it entirely.
package ephemeris

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	satellite "github.com/joshuaferrara/go-satellite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/star/crashtrack/internal/metrics"
	"github.com/star/crashtrack/internal/tle"
)

// Builder constructs the SGP4 state for a validated element set.
type Builder func(set tle.ElementSet) (satellite.Satellite, error)

// Loader builds orbital models.
type Loader struct {
	build  Builder
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithBuilder replaces the SGP4 builder. Used to inject failures.
func WithBuilder(b Builder) Option {
	return func(l *Loader) {
		l.build = b
	}
}

// NewLoader creates a Loader backed by go-satellite with WGS84 gravity.
func NewLoader(logger *slog.Logger, opts ...Option) *Loader {
	l := &Loader{
		build:  buildSGP4,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load attempts to build a model for set. It always returns a Result.
func (l *Loader) Load(ctx context.Context, set tle.ElementSet) Result {
	_, span := otel.Tracer("crashtrack/ephemeris").Start(ctx, "ephemeris.load")
	defer span.End()
	span.SetAttributes(attribute.String("satellite", set.Name))

	res := l.load(set)
	span.SetAttributes(attribute.String("outcome", res.Status()))
	if reason := res.Reason(); reason != nil {
		span.SetStatus(codes.Error, reason.Error())
	}

	metrics.RecordEphemerisLoad(res.Status())
	l.logger.Debug("ephemeris load",
		"component", "ephemeris",
		"satellite", set.Name,
		"outcome", res.Status(),
		"reason", res.Reason(),
	)
	return res
}

func (l *Loader) load(set tle.ElementSet) (res Result) {
	// go-satellite calls log.Fatal on a field it cannot parse, so Validate
	// parses every such field first. recover handles library panics.
	defer func() {
		if r := recover(); r != nil {
			res = Unavailable(fmt.Errorf("sgp4 builder panicked: %v", r))
		}
	}()

	if err := set.Validate(); err != nil {
		return Unavailable(fmt.Errorf("invalid element set %q: %w", set.Name, err))
	}

	md, err := set.Metadata()
	if err != nil {
		return Unavailable(fmt.Errorf("decoding element set %q: %w", set.Name, err))
	}

	sat, err := l.build(set)
	if err != nil {
		return Unavailable(fmt.Errorf("building model for %q: %w", set.Name, err))
	}

	return Available(&Model{Metadata: md, sat: sat})
}

func buildSGP4(set tle.ElementSet) (satellite.Satellite, error) {
	sat := satellite.TLEToSat(strings.TrimSpace(set.Line1), strings.TrimSpace(set.Line2), satellite.GravityWGS84)
	if sat.Error != 0 {
		return sat, fmt.Errorf("sgp4 init failed: code=%d %s", sat.Error, sat.ErrorStr)
	}
	return sat, nil
}
