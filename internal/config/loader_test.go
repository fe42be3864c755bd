package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventflow/internal/event"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildCatalogInlineEvents(t *testing.T) {
	dir := t.TempDir()
	doc, err := LoadDocument(writeFile(t, dir, "doc.yaml", `
start_with: [a]
events:
  a:
    mqtt_subscribe:
      topic: "t/#"
      body:
        contains: "hi"
    next_event: b
  b:
    print: stdout
`))
	require.NoError(t, err)

	cat, err := BuildCatalog(doc, dir)
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	a, ok := cat.Get("a")
	require.True(t, ok)
	assert.Equal(t, event.KindMqttSubscribe, a.Kind)
	cfg := a.Config.(*event.MqttSubscribeConfig)
	assert.Equal(t, "t/#", cfg.Topic)
	assert.True(t, cfg.Body.Matches("hi there"))

	errs := Validate(doc, cat)
	assert.False(t, errs.HasErrors())
}

func TestBuildCatalogGroupsPrefixesNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "group.yaml", `
events:
  x:
    print: stdout
    next_event: y
  y:
    print: stderr
`)
	doc, err := LoadDocument(writeFile(t, dir, "doc.yaml", `
groups:
  grp: group.yaml
`))
	require.NoError(t, err)

	cat, err := BuildCatalog(doc, dir)
	require.NoError(t, err)

	x, ok := cat.Get("grp_x")
	require.True(t, ok)
	assert.Equal(t, "grp_y", x.Next.Literal)
	_, ok = cat.Get("grp_y")
	require.True(t, ok)
}

func TestValidateCatchesUnresolvedNext(t *testing.T) {
	dir := t.TempDir()
	doc, err := LoadDocument(writeFile(t, dir, "doc.yaml", `
events:
  a:
    print: stdout
    next_event: missing
`))
	require.NoError(t, err)

	cat, err := BuildCatalog(doc, dir)
	require.NoError(t, err)

	errs := Validate(doc, cat)
	require.True(t, errs.HasErrors())
}

func TestValidateRequiresHttpPoolForApiListen(t *testing.T) {
	dir := t.TempDir()
	doc, err := LoadDocument(writeFile(t, dir, "doc.yaml", `
events:
  a:
    api_listen:
      path: "/c"
      method: POST
    next_event: b
  b:
    print: stdout
`))
	require.NoError(t, err)

	cat, err := BuildCatalog(doc, dir)
	require.NoError(t, err)

	errs := Validate(doc, cat)
	require.True(t, errs.HasErrors())
}

func TestEventSpecRejectsAmbiguousKind(t *testing.T) {
	spec := EventSpec{
		Print:   &PrintSpec{Target: "stdout"},
		Execute: &ExecuteSpec{Command: "echo"},
	}
	_, err := spec.Build("x", time.Now())
	require.Error(t, err)
}
