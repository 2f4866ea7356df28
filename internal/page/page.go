// Package page renders the crash-site page. Render is a pure function of
// its State; Pipeline runs the whole chain (constants, ephemeris, map,
// markers, page) from scratch on every call.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/star/crashtrack/internal/render"
	"github.com/star/crashtrack/internal/track"
	"github.com/star/crashtrack/web"
)

// Fixed page text.
const (
	Title       = "🌍 Live Satellite Tracker"
	ReloadLabel = "🔁 Reload Satellite Data"
	Footer      = "Design by Mr Zay Bhone Aung"
)

// State is the input to Render.
type State struct {
	Scenario track.Scenario
	Figure   *render.Figure
	// SVG is the drawn figure.
	SVG []byte
}

// Page is the rendered page. The text fields hold the markdown source;
// the *HTML fields hold the converted markup.
type Page struct {
	Title       string
	Subtitle    string
	CrashLine   string
	Status      string
	ReloadLabel string
	Footer      string

	SubtitleHTML  template.HTML
	CrashLineHTML template.HTML
	StatusHTML    template.HTML
	FooterHTML    template.HTML
	Figure        template.HTML
}

// Subtitle returns the tracking line for the satellite name.
func Subtitle(name string) string {
	return fmt.Sprintf("Tracking **%s** Satellite", name)
}

// CrashLine returns the estimated final position line.
func CrashLine(site track.GeoPoint) string {
	return fmt.Sprintf("📍 **Final Position (Est.):** Lat: `%.2f°`, Lon: `%.2f°`", site.Lat, site.Lon)
}

// Render builds the page for s.
func Render(s State) (Page, error) {
	if s.Figure == nil {
		return Page{}, fmt.Errorf("page: no figure")
	}

	p := Page{
		Title:       Title,
		Subtitle:    Subtitle(s.Scenario.Satellite.Name),
		CrashLine:   CrashLine(s.Scenario.Crash.Site),
		Status:      s.Figure.Status,
		ReloadLabel: ReloadLabel,
		Footer:      Footer,
		Figure:      inlineSVG(s.SVG),
	}

	var err error
	if p.SubtitleHTML, err = markdown(p.Subtitle); err != nil {
		return Page{}, err
	}
	if p.CrashLineHTML, err = markdown(p.CrashLine); err != nil {
		return Page{}, err
	}
	if p.Status != "" {
		if p.StatusHTML, err = markdown(p.Status); err != nil {
			return Page{}, err
		}
	}
	if p.FooterHTML, err = markdown(p.Footer); err != nil {
		return Page{}, err
	}
	return p, nil
}

// WriteHTML writes the full HTML document.
func (p Page) WriteHTML(w io.Writer) error {
	tmpl, err := pageTemplate()
	if err != nil {
		return err
	}
	return tmpl.Execute(w, p)
}

// xmlDecl is stripped when the SVG document is inlined into HTML.
var xmlDecl = []byte(`<?xml version="1.0"?>`)

func inlineSVG(doc []byte) template.HTML {
	return template.HTML(bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(doc), xmlDecl)))
}

// markdown converts one markdown paragraph. Raw HTML in src is dropped.
func markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown %q: %w", src, err)
	}
	return template.HTML(buf.String()), nil
}

var (
	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
)

func pageTemplate() (*template.Template, error) {
	tmplOnce.Do(func() {
		tmpl, tmplErr = template.ParseFS(web.Content, "index.html.tmpl")
		if tmplErr != nil {
			tmplErr = fmt.Errorf("parsing page template: %w", tmplErr)
		}
	})
	return tmpl, tmplErr
}
