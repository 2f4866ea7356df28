// Package basemap holds the world outline drawn under the markers: crude
// land and lake polygons, country border lines, the graticule and the
// equirectangular projection that places them on the drawing surface.
package basemap

import (
	"embed"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

//go:embed data/land.geojson data/borders.geojson
var data embed.FS

// Basemap is the parsed outline data. Read-only after Load.
type Basemap struct {
	Land    []orb.Polygon
	Lakes   []orb.Polygon
	Borders []orb.LineString
}

// Load parses the embedded crude-resolution outline.
func Load() (*Basemap, error) {
	land, err := data.ReadFile("data/land.geojson")
	if err != nil {
		return nil, fmt.Errorf("reading land data: %w", err)
	}
	borders, err := data.ReadFile("data/borders.geojson")
	if err != nil {
		return nil, fmt.Errorf("reading border data: %w", err)
	}
	return Parse(land, borders)
}

// Parse builds a Basemap from GeoJSON feature collections. Polygons with
// property kind=lake are lakes; all other polygons are land.
func Parse(landJSON, bordersJSON []byte) (*Basemap, error) {
	landFC, err := geojson.UnmarshalFeatureCollection(landJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing land features: %w", err)
	}
	bordersFC, err := geojson.UnmarshalFeatureCollection(bordersJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing border features: %w", err)
	}

	bm := &Basemap{}
	for _, f := range landFC.Features {
		var polys []orb.Polygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polys = []orb.Polygon{g}
		case orb.MultiPolygon:
			polys = g
		default:
			return nil, fmt.Errorf("land feature %q: unsupported geometry %s", featureName(f), f.Geometry.GeoJSONType())
		}
		if f.Properties.MustString("kind", "land") == "lake" {
			bm.Lakes = append(bm.Lakes, polys...)
		} else {
			bm.Land = append(bm.Land, polys...)
		}
	}

	for _, f := range bordersFC.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			bm.Borders = append(bm.Borders, g)
		case orb.MultiLineString:
			bm.Borders = append(bm.Borders, g...)
		default:
			return nil, fmt.Errorf("border feature %q: unsupported geometry %s", featureName(f), f.Geometry.GeoJSONType())
		}
	}

	if len(bm.Land) == 0 {
		return nil, fmt.Errorf("no land polygons in basemap")
	}
	return bm, nil
}

func featureName(f *geojson.Feature) string {
	return f.Properties.MustString("name", "unnamed")
}

// Coastlines returns the outer ring of every land polygon.
func (b *Basemap) Coastlines() []orb.Ring {
	rings := make([]orb.Ring, 0, len(b.Land))
	for _, p := range b.Land {
		if len(p) > 0 {
			rings = append(rings, p[0])
		}
	}
	return rings
}
