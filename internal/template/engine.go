package template

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"eventflow/internal/timeparse"
)

// Engine renders Go-template strings against a Context, with the Sprig
// function library plus a dateTimeFormat helper that bridges into the
// time-phrase parser.
type Engine struct{}

// New creates a template engine.
func New() *Engine {
	return &Engine{}
}

// Render executes templateStr against ctx and returns the rendered string.
func (e *Engine) Render(templateStr string, ctx Context) (string, error) {
	tmpl, err := template.New("event").Funcs(e.funcMap()).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("template: parse: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}(ctx)); err != nil {
		return "", fmt.Errorf("template: execute: %w", err)
	}
	return buf.String(), nil
}

func (e *Engine) funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["dateTimeFormat"] = dateTimeFormat
	return funcs
}

// dateTimeFormat parses expr through the time-phrase parser and formats
// the resulting instant per a Go reference-time layout string.
func dateTimeFormat(expr, layout string) (string, error) {
	result, err := timeparse.Parse(expr, time.Now())
	if err != nil {
		return "", fmt.Errorf("dateTimeFormat: %w", err)
	}

	switch r := result.(type) {
	case timeparse.DateTime:
		return r.Instant().Format(layout), nil
	case timeparse.Date:
		return r.Day().Format(layout), nil
	case timeparse.TimeOfDay:
		return r.OnDay(time.Now()).Format(layout), nil
	default:
		return "", fmt.Errorf("dateTimeFormat: unsupported result type %T", result)
	}
}
