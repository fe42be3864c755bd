package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyKeyReturnsFirstInserted(t *testing.T) {
	p := New[string]()
	p.Put("b", "second")
	p.Put("a", "first")

	v, err := p.Get("")
	require.NoError(t, err)
	require.Equal(t, "second", v)
}

func TestGetByID(t *testing.T) {
	p := New[int]()
	p.Put("x", 1)
	p.Put("y", 2)

	v, err := p.Get("y")
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestGetMissingErrors(t *testing.T) {
	p := New[int]()
	_, err := p.Get("missing")
	require.Error(t, err)
}

func TestGetEmptyOnEmptyPoolErrors(t *testing.T) {
	p := New[int]()
	_, err := p.Get("")
	require.Error(t, err)
}

func TestPutReplacesWithoutReordering(t *testing.T) {
	p := New[int]()
	p.Put("a", 1)
	p.Put("b", 2)
	p.Put("a", 99)

	var order []string
	p.Each(func(id string, handle int) { order = append(order, id) })
	require.Equal(t, []string{"a", "b"}, order)

	v, _ := p.Get("a")
	require.Equal(t, 99, v)
}
