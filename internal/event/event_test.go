package event

import (
	"testing"

	"github.com/stretchr/testify/require"

	"eventflow/internal/payload"
)

func TestEqualIsNameOnly(t *testing.T) {
	a := &ReferencingEvent{Name: "x", Kind: KindPrint}
	b := &ReferencingEvent{Name: "x", Kind: KindPass}
	require.True(t, a.Equal(b))

	c := &ReferencingEvent{Name: "y", Kind: KindPrint}
	require.False(t, a.Equal(c))
}

func TestResolvedEventIDDefaultsToName(t *testing.T) {
	e := &ReferencingEvent{Name: "timer1"}
	require.Equal(t, "timer1", e.ResolvedEventID())

	e.EventID = "custom"
	require.Equal(t, "custom", e.ResolvedEventID())
}

func TestCloneIsIndependent(t *testing.T) {
	original := &ReferencingEvent{
		Name:     "a",
		Payload:  payload.FromString("hi"),
		Metadata: payload.Metadata{"k": "v"},
		State:    &State{CountKey: "n", Replace: map[string]string{"x": "1"}},
		Next:     &Next{Literal: "b"},
	}

	clone := original.Clone()
	clone.Metadata["k"] = "changed"
	clone.State.Replace["x"] = "2"
	clone.Next.Literal = "c"

	require.Equal(t, "v", original.Metadata["k"])
	require.Equal(t, "1", original.State.Replace["x"])
	require.Equal(t, "b", original.Next.Literal)
}
