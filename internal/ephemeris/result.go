package ephemeris

import (
	"errors"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/star/crashtrack/internal/tle"
	"github.com/star/crashtrack/internal/track"
)

// ErrTrackNotImplemented is returned for live-position queries. The
// ground-track sampling and altitude/speed derivation are not defined.
var ErrTrackNotImplemented = errors.New("ephemeris: live track computation not implemented")

// Result is the outcome of a model build: either an available model or an
// unavailable reason. The zero value is unavailable.
type Result struct {
	model  *Model
	reason error
}

// Available wraps a successfully built model.
func Available(m *Model) Result {
	return Result{model: m}
}

// Unavailable records why no model could be built.
func Unavailable(reason error) Result {
	if reason == nil {
		reason = errors.New("ephemeris: unavailable")
	}
	return Result{reason: reason}
}

// Model returns the model and true when available.
func (r Result) Model() (*Model, bool) {
	return r.model, r.model != nil
}

// Reason returns the unavailability reason, or nil when available.
func (r Result) Reason() error {
	if r.model != nil {
		return nil
	}
	if r.reason == nil {
		return errors.New("ephemeris: unavailable")
	}
	return r.reason
}

// Status is "available" or "unavailable".
func (r Result) Status() string {
	if r.model != nil {
		return "available"
	}
	return "unavailable"
}

// Model is an initialized SGP4 model for one satellite.
type Model struct {
	Metadata tle.Metadata
	// sat is the initialized SGP4 state, held for Track.
	sat satellite.Satellite
}

// Name returns the satellite name.
func (m *Model) Name() string {
	return m.Metadata.Name
}

// Fix is a live satellite state: sub-satellite point, altitude, speed and
// the recent ground track.
type Fix struct {
	Position   track.GeoPoint
	AltitudeKm float64
	SpeedKmS   float64
	Path       []track.GeoPoint
}

// Track would compute the live fix at t.
func (m *Model) Track(t time.Time) (Fix, error) {
	return Fix{}, ErrTrackNotImplemented
}
