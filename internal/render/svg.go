package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"

	"github.com/star/crashtrack/internal/basemap"
)

// pxPerPoint converts typographic points to surface pixels.
const pxPerPoint = PixelsPerUnit / 72.0

// WriteSVG draws f onto w. Output depends only on f.
func WriteSVG(w io.Writer, f *Figure) error {
	if f.basemap == nil {
		return fmt.Errorf("render: figure has no basemap")
	}

	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	canvas.Startview(f.Width, f.Height, 0, 0, f.Width, f.Height)
	canvas.Title("Kosmos 482 crash site map")

	drawBasemap(canvas, f)
	drawPaths(canvas, f)
	drawMarkers(canvas, f)
	drawOverlay(canvas, f)
	drawLegend(canvas, f)

	canvas.End()
	return cw.err
}

func drawBasemap(canvas *svg.SVG, f *Figure) {
	canvas.Gid("basemap")
	canvas.Rect(0, 0, f.Width, f.Height, "fill:"+OceanColor)

	for _, poly := range f.basemap.Land {
		xs, ys := f.ring(poly[0])
		canvas.Polygon(xs, ys, "fill:"+LandColor)
	}
	for _, poly := range f.basemap.Lakes {
		xs, ys := f.ring(poly[0])
		canvas.Polygon(xs, ys, "fill:"+LakeColor)
	}
	for _, ring := range f.basemap.Coastlines() {
		xs, ys := f.ring(ring)
		canvas.Polyline(xs, ys, "fill:none;stroke:"+CoastlineColor+";stroke-width:1")
	}
	for _, line := range f.basemap.Borders {
		xs, ys := f.ring(orb.Ring(line))
		canvas.Polyline(xs, ys, "fill:none;stroke:"+BorderColor+";stroke-width:0.7")
	}

	grid := "stroke:" + GridColor + ";stroke-width:0.6;stroke-dasharray:1,1"
	for _, lat := range basemap.Parallels() {
		_, y := f.proj.Project(0, lat)
		canvas.Line(0, round(y), f.Width, round(y), grid)
	}
	for _, lon := range basemap.Meridians() {
		x, _ := f.proj.Project(lon, 0)
		canvas.Line(round(x), 0, round(x), f.Height, grid)
	}
	canvas.Gend()
}

func drawPaths(canvas *svg.SVG, f *Figure) {
	if len(f.Paths) == 0 {
		return
	}
	canvas.Gid("paths")
	for _, p := range f.Paths {
		xs := make([]int, len(p.Points))
		ys := make([]int, len(p.Points))
		for i, pt := range p.Points {
			x, y := f.Project(pt)
			xs[i], ys[i] = round(x), round(y)
		}
		style := "fill:none;stroke:" + p.Stroke + ";stroke-width:1.5"
		if p.Dashed {
			style += ";stroke-dasharray:6,4"
		}
		canvas.Polyline(xs, ys, style)
	}
	canvas.Gend()
}

func drawMarkers(canvas *svg.SVG, f *Figure) {
	canvas.Gid("markers")
	for _, m := range f.Markers {
		drawGlyph(canvas, m.Glyph, round(m.X), round(m.Y), markerRadius(m.Size), m.Fill, m.Stroke,
			`class="marker"`, fmt.Sprintf(`data-label=%q`, m.Label))
	}
	canvas.Gend()
}

func drawOverlay(canvas *svg.SVG, f *Figure) {
	if f.Overlay == nil {
		return
	}
	o := f.Overlay
	size := o.FontSize * pxPerPoint
	lineHeight := size * 1.2
	top := float64(f.Height)/2 - lineHeight*float64(len(o.Lines)-1)/2

	canvas.Gid("overlay")
	style := fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%.0fpx;text-anchor:middle;dominant-baseline:middle", o.Color, size)
	for i, line := range o.Lines {
		canvas.Text(f.Width/2, round(top+float64(i)*lineHeight), line, style)
	}
	canvas.Gend()
}

func drawLegend(canvas *svg.SVG, f *Figure) {
	entries := f.Legend.Entries
	if len(entries) == 0 {
		return
	}
	size := f.Legend.FontSize * pxPerPoint
	rowHeight := round(size * 1.8)
	pad := 8
	boxW := 180
	boxH := pad*2 + rowHeight*len(entries)
	// Lower-left corner.
	x0 := pad
	y0 := f.Height - pad - boxH

	canvas.Gid("legend")
	canvas.Roundrect(x0, y0, boxW, boxH, 4, 4, "fill:white;fill-opacity:0.8;stroke:#cccccc")
	for i, e := range entries {
		cy := y0 + pad + rowHeight*i + rowHeight/2
		drawGlyph(canvas, e.Glyph, x0+pad+8, cy, markerRadius(60), e.Fill, legendStroke(e), `class="legend-entry"`)
		canvas.Text(x0+pad+24, cy, e.Label,
			fmt.Sprintf("fill:black;font-family:sans-serif;font-size:%.0fpx;dominant-baseline:middle", size))
	}
	canvas.Gend()
}

// legendStroke outlines pale glyphs so they read on the white legend box.
func legendStroke(e LegendEntry) string {
	if e.Stroke == "" && e.Fill == "white" {
		return "#555555"
	}
	return e.Stroke
}

func drawGlyph(canvas *svg.SVG, g Glyph, x, y, r int, fill, stroke string, attrs ...string) {
	style := "fill:" + fill
	if stroke != "" {
		style += ";stroke:" + stroke + ";stroke-width:1"
	}
	args := append(attrs, style)

	switch g {
	case GlyphTriangle:
		canvas.Polygon(
			[]int{x, x + r, x - r},
			[]int{y - r, y + r, y + r},
			args...,
		)
	default:
		canvas.Circle(x, y, r, args...)
	}
}

// markerRadius converts a scatter area in square points to a pixel radius.
func markerRadius(area float64) int {
	r := math.Sqrt(area) / 2 * pxPerPoint
	if r < 2 {
		return 2
	}
	return round(r)
}

func (f *Figure) ring(r orb.Ring) ([]int, []int) {
	xs := make([]int, len(r))
	ys := make([]int, len(r))
	for i, pt := range r {
		x, y := f.proj.Project(pt.Lon(), pt.Lat())
		xs[i], ys[i] = round(x), round(y)
	}
	return xs, ys
}

func round(v float64) int {
	return int(math.Round(v))
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
