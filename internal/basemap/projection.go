package basemap

// Equirectangular maps longitude and latitude linearly onto a Width x Height
// surface covering [-180,180] x [-90,90]. y grows downward.
type Equirectangular struct {
	Width, Height float64
}

// Project converts (lon, lat) in degrees to surface coordinates.
func (p Equirectangular) Project(lon, lat float64) (x, y float64) {
	x = (lon + 180) / 360 * p.Width
	y = (90 - lat) / 180 * p.Height
	return x, y
}

// Graticule spacing in degrees.
const (
	ParallelStep = 30
	MeridianStep = 60
)

// Parallels returns the latitudes of the grid lines, -90 through 90.
func Parallels() []float64 {
	return steps(-90, 90, ParallelStep)
}

// Meridians returns the longitudes of the grid lines, -180 through 180.
func Meridians() []float64 {
	return steps(-180, 180, MeridianStep)
}

func steps(from, to, step float64) []float64 {
	var out []float64
	for v := from; v <= to; v += step {
		out = append(out, v)
	}
	return out
}
