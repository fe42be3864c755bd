package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMerge_EmptyIdentity(t *testing.T) {
	a := FromString("hello")
	require.Equal(t, a, a.Merge(Empty()))
	require.Equal(t, a, Empty().Merge(a))
}

func TestMerge_StringConcatenation(t *testing.T) {
	result := FromString("foo").Merge(FromString("bar"))
	require.Equal(t, KindString, result.Kind())
	require.Equal(t, "foobar", result.String())
}

func TestMerge_BytesAppend(t *testing.T) {
	result := FromBytes([]byte("foo")).Merge(FromBytes([]byte("bar")))
	b, err := result.AsBytes()
	require.NoError(t, err)
	require.Equal(t, "foobar", string(b))
}

func TestMerge_BytesWithString(t *testing.T) {
	result := FromBytes([]byte("foo")).Merge(FromString("bar"))
	b, err := result.AsBytes()
	require.NoError(t, err)
	require.Equal(t, "foobar", string(b))
}

func TestMerge_MismatchedReplacesWholesale(t *testing.T) {
	result := FromString("foo").Merge(FromBytes([]byte("bar")))
	require.Equal(t, KindBytes, result.Kind())
}

func TestMerge_StructuredDeepMerge(t *testing.T) {
	a := FromStructured(map[string]interface{}{
		"a": map[string]interface{}{"b": 1.0, "c": 2.0},
	})
	b := FromStructured(map[string]interface{}{
		"a": map[string]interface{}{"c": nil, "d": 3.0},
	})

	result := a.Merge(b)
	require.Equal(t, KindStructured, result.Kind())

	tree := result.Structured().(map[string]interface{})
	inner := tree["a"].(map[string]interface{})
	require.Equal(t, 1.0, inner["b"])
	require.Equal(t, 3.0, inner["d"])
	_, hasC := inner["c"]
	require.False(t, hasC, "null value in b must delete the key")
}

func TestMerge_NotCommutativeAssociativeOnDisjointKeys(t *testing.T) {
	a := FromStructured(map[string]interface{}{"x": 1.0})
	b := FromStructured(map[string]interface{}{"y": 2.0})
	c := FromStructured(map[string]interface{}{"z": 3.0})

	left := a.Merge(b).Merge(c).Structured().(map[string]interface{})
	right := a.Merge(b.Merge(c)).Structured().(map[string]interface{})
	require.Equal(t, left, right)

	// Not commutative: a replaces on conflicting keys differently than b first.
	conflictA := FromStructured(map[string]interface{}{"k": "a"})
	conflictB := FromStructured(map[string]interface{}{"k": "b"})
	require.Equal(t, "b", conflictA.Merge(conflictB).Structured().(map[string]interface{})["k"])
	require.Equal(t, "a", conflictB.Merge(conflictA).Structured().(map[string]interface{})["k"])
}

func TestTryMergeBytes_ParsesStructuredFirst(t *testing.T) {
	result := Empty().TryMergeBytes([]byte(`{"hi":true}`))
	require.Equal(t, KindStructured, result.Kind())
}

func TestTryMergeBytes_FallsBackToString(t *testing.T) {
	result := Empty().TryMergeBytes([]byte("hi!"))
	require.Equal(t, KindString, result.Kind())
	require.Equal(t, "hi!", result.String())
}

func TestTryMergeBytes_FallsBackToBytesOnInvalidUTF8(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0xfd}
	result := Empty().TryMergeBytes(raw)
	require.Equal(t, KindBytes, result.Kind())
}

func TestAsBytes_EmptyIsZeroLength(t *testing.T) {
	b, err := Empty().AsBytes()
	require.NoError(t, err)
	require.Len(t, b, 0)
}

func TestFromReader_Structured(t *testing.T) {
	p, err := FromReader(strings.NewReader(`{"a":1}`), KindStructured)
	require.NoError(t, err)
	require.Equal(t, KindStructured, p.Kind())
}

func TestMetadataMerge(t *testing.T) {
	m := Metadata{"a": map[string]interface{}{"topic": "t/x"}}
	merged := m.Merge(Metadata{"a": map[string]interface{}{"segments": []interface{}{"t", "x"}}})

	inner := merged["a"].(map[string]interface{})
	require.Equal(t, "t/x", inner["topic"])
	require.Equal(t, []interface{}{"t", "x"}, inner["segments"])
}
