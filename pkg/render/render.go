// Package render defines the framework's render contract and an
// html/template-backed engine. Handlers depend on the Renderer
// interface only, so applications can swap template engines without
// touching routes.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
)

// Renderer renders a named template with data into a body string.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// HTMLEngine renders html/template files parsed from a filesystem.
type HTMLEngine struct {
	templates *template.Template
}

// NewHTMLEngine parses all templates matching pattern (e.g.
// "templates/*.html") from fsys. funcs may be nil; functions must be
// known at parse time, so there is no way to add them later.
func NewHTMLEngine(fsys fs.FS, pattern string, funcs template.FuncMap) (*HTMLEngine, error) {
	tmpl := template.New("volt")
	if funcs != nil {
		tmpl = tmpl.Funcs(funcs)
	}
	tmpl, err := tmpl.ParseFS(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &HTMLEngine{templates: tmpl}, nil
}

// Render implements Renderer.
func (e *HTMLEngine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render: execute %q: %w", name, err)
	}
	return buf.String(), nil
}
