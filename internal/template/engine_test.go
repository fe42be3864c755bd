package template

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderSimpleVariable(t *testing.T) {
	e := New()
	ctx := NewContext(map[string]interface{}{"v": "now"}, nil, nil)
	out, err := e.Render("{{.data.v}} {{.request.t}}", ctx.With("request", map[string]interface{}{"t": "2024-01-01"}))
	require.NoError(t, err)
	require.Equal(t, "now 2024-01-01", out)
}

func TestRenderMissingKeyErrors(t *testing.T) {
	e := New()
	ctx := NewContext(nil, nil, nil)
	_, err := e.Render("{{.missing.field}}", ctx)
	require.Error(t, err)
}

func TestRenderBuiltinIfEq(t *testing.T) {
	e := New()
	ctx := NewContext("X", nil, nil)
	out, err := e.Render(`{{if eq .data "X"}}yes{{else}}no{{end}}`, ctx)
	require.NoError(t, err)
	require.Equal(t, "yes", out)
}

func TestRenderDateTimeFormatHelper(t *testing.T) {
	e := New()
	ctx := NewContext(nil, nil, nil)
	out, err := e.Render(`{{dateTimeFormat "now" "2006"}}`, ctx)
	require.NoError(t, err)
	require.Len(t, out, 4)
}
