package web

import "embed"

// Content holds the page template and stylesheet.
//
//go:embed index.html.tmpl static/style.css
var Content embed.FS
