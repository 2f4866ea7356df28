// Package render composes the crash-site figure and draws it as SVG.
//
// Compose is backend-neutral: it produces a Figure listing every marker,
// path, text block and legend entry in surface coordinates. WriteSVG turns
// that into markup. Tests assert on the Figure; the page embeds the SVG.
package render

import (
	"github.com/star/crashtrack/internal/basemap"
	"github.com/star/crashtrack/internal/track"
)

// Figure size: 12x6 units at 100 pixels per unit.
const (
	WidthUnits    = 12
	HeightUnits   = 6
	PixelsPerUnit = 100

	Width  = WidthUnits * PixelsPerUnit
	Height = HeightUnits * PixelsPerUnit
)

// Map colors.
const (
	OceanColor     = "midnightblue"
	LandColor      = "forestgreen"
	LakeColor      = "darkgreen"
	CoastlineColor = "black"
	BorderColor    = "black"
	GridColor      = "black"
)

// Glyph is a marker shape.
type Glyph string

const (
	GlyphTriangle Glyph = "triangle"
	GlyphCircle   Glyph = "circle"
)

// Marker is a labeled point on the map. Size is the marker area in
// square points, as in a scatter plot.
type Marker struct {
	Label  string         `json:"label"`
	At     track.GeoPoint `json:"at"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Glyph  Glyph          `json:"glyph"`
	Fill   string         `json:"fill"`
	Stroke string         `json:"stroke,omitempty"`
	Size   float64        `json:"size"`
}

// Path is a polyline through geographic points.
type Path struct {
	Points []track.GeoPoint `json:"points"`
	Stroke string           `json:"stroke"`
	Dashed bool             `json:"dashed"`
}

// TextBlock is text centered on the surface. Lines are drawn top to bottom.
type TextBlock struct {
	Text     string   `json:"text"`
	Lines    []string `json:"-"`
	Color    string   `json:"color"`
	FontSize float64  `json:"font_size"`
}

// LegendEntry is one row of the legend.
type LegendEntry struct {
	Label  string `json:"label"`
	Glyph  Glyph  `json:"glyph"`
	Fill   string `json:"fill"`
	Stroke string `json:"stroke,omitempty"`
}

// Legend lists the labeled markers at a fixed corner.
type Legend struct {
	Position string        `json:"position"`
	FontSize float64       `json:"font_size"`
	Entries  []LegendEntry `json:"entries"`
}

// Figure is one composed map.
type Figure struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Markers []Marker   `json:"markers"`
	Paths   []Path     `json:"paths,omitempty"`
	Overlay *TextBlock `json:"overlay,omitempty"`
	Legend  Legend     `json:"legend"`

	// Status is the live status line shown under the title in live mode.
	Status string `json:"status,omitempty"`

	basemap *basemap.Basemap
	proj    basemap.Equirectangular
}

// Project maps a geographic point onto the figure surface.
func (f *Figure) Project(p track.GeoPoint) (x, y float64) {
	return f.proj.Project(p.Lon, p.Lat)
}

func newFigure(bm *basemap.Basemap) *Figure {
	return &Figure{
		Width:   Width,
		Height:  Height,
		basemap: bm,
		proj:    basemap.Equirectangular{Width: Width, Height: Height},
		Legend: Legend{
			Position: "lower left",
			FontSize: 9,
		},
	}
}

// addMarker projects the marker and records it in the legend.
func (f *Figure) addMarker(m Marker) {
	m.X, m.Y = f.Project(m.At)
	f.Markers = append(f.Markers, m)
	if m.Label != "" {
		f.Legend.Entries = append(f.Legend.Entries, LegendEntry{
			Label:  m.Label,
			Glyph:  m.Glyph,
			Fill:   m.Fill,
			Stroke: m.Stroke,
		})
	}
}
