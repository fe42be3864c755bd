package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// Kind identifies which variant a Payload currently holds.
type Kind int

const (
	// KindEmpty is the zero payload; the identity element for merge.
	KindEmpty Kind = iota
	KindString
	KindBytes
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindStructured:
		return "structured"
	default:
		return "empty"
	}
}

// Payload is the polymorphic value carried by an event as it flows through
// the transition graph.
type Payload struct {
	kind       Kind
	str        string
	bytes      []byte
	structured interface{}
}

// Empty returns the empty payload.
func Empty() Payload {
	return Payload{kind: KindEmpty}
}

// FromString wraps s as a string payload.
func FromString(s string) Payload {
	return Payload{kind: KindString, str: s}
}

// FromBytes wraps b as a bytes payload.
func FromBytes(b []byte) Payload {
	return Payload{kind: KindBytes, bytes: b}
}

// FromStructured wraps v (a JSON-tree value) as a structured payload.
func FromStructured(v interface{}) Payload {
	return Payload{kind: KindStructured, structured: v}
}

// Kind reports which variant p holds.
func (p Payload) Kind() Kind { return p.kind }

// IsEmpty reports whether p is the empty variant.
func (p Payload) IsEmpty() bool { return p.kind == KindEmpty }

// String returns the string variant's value, or "" for other kinds.
func (p Payload) String() string { return p.str }

// Structured returns the structured variant's tree, or nil for other kinds.
func (p Payload) Structured() interface{} { return p.structured }

// FromReader builds a Payload by reading r fully and interpreting the bytes
// as the requested kind. "structured" is parsed as JSON; "string" is
// decoded as UTF-8 text; "bytes" is stored verbatim.
func FromReader(r io.Reader, kind Kind) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Empty(), fmt.Errorf("payload: read: %w", err)
	}
	if len(data) == 0 {
		return Empty(), nil
	}

	switch kind {
	case KindString:
		return FromString(string(data)), nil
	case KindBytes:
		return FromBytes(data), nil
	case KindStructured:
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return Empty(), fmt.Errorf("payload: parse structured: %w", err)
		}
		return FromStructured(v), nil
	default:
		return Empty(), nil
	}
}

// AsBytes serializes p without attempting any type coercion: structured
// values are canonical JSON, strings and bytes are returned verbatim, and
// empty yields a zero-length slice.
func (p Payload) AsBytes() ([]byte, error) {
	switch p.kind {
	case KindEmpty:
		return []byte{}, nil
	case KindString:
		return []byte(p.str), nil
	case KindBytes:
		return p.bytes, nil
	case KindStructured:
		out, err := json.Marshal(p.structured)
		if err != nil {
			return nil, fmt.Errorf("payload: marshal structured: %w", err)
		}
		return out, nil
	default:
		return []byte{}, nil
	}
}

// ToBytes is an alias for AsBytes kept for readability at call sites that
// treat the conversion as a terminal serialization step (e.g. FileWrite,
// MqttPublish).
func (p Payload) ToBytes() ([]byte, error) { return p.AsBytes() }

// TryMergeBytes attempts to parse raw as structured JSON first, then as a
// UTF-8 string, and finally falls back to raw bytes, merging the resulting
// payload onto p per the contract below.
func (p Payload) TryMergeBytes(raw []byte) Payload {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err == nil {
		return p.Merge(FromStructured(v))
	}
	if utf8.Valid(raw) {
		return p.Merge(FromString(string(raw)))
	}
	return p.Merge(FromBytes(raw))
}

// Merge folds b into p per the payload merge contract:
//
//	empty ⊕ x        → x
//	x ⊕ empty        → x
//	structured ⊕ structured → deep object merge (see mergeStructured)
//	string ⊕ string  → concatenation
//	bytes ⊕ string   → append string's bytes
//	bytes ⊕ bytes    → append
//	anything else    → b replaces a
func (p Payload) Merge(b Payload) Payload {
	if b.kind == KindEmpty {
		return p
	}
	if p.kind == KindEmpty {
		return b
	}

	switch {
	case p.kind == KindStructured && b.kind == KindStructured:
		return FromStructured(mergeStructured(p.structured, b.structured))
	case p.kind == KindString && b.kind == KindString:
		return FromString(p.str + b.str)
	case p.kind == KindBytes && b.kind == KindString:
		return FromBytes(append(append([]byte{}, p.bytes...), []byte(b.str)...))
	case p.kind == KindBytes && b.kind == KindBytes:
		return FromBytes(append(append([]byte{}, p.bytes...), b.bytes...))
	default:
		return b
	}
}

// mergeStructured deep-merges b onto a: for each key in b, a null value
// deletes that key from a, otherwise the value recurses (or replaces
// wholesale when either side is not itself an object).
func mergeStructured(a, b interface{}) interface{} {
	am, aIsMap := a.(map[string]interface{})
	bm, bIsMap := b.(map[string]interface{})
	if !aIsMap || !bIsMap {
		return b
	}

	result := make(map[string]interface{}, len(am)+len(bm))
	for k, v := range am {
		result[k] = v
	}
	for k, bv := range bm {
		if bv == nil {
			delete(result, k)
			continue
		}
		if av, exists := result[k]; exists {
			result[k] = mergeStructured(av, bv)
		} else {
			result[k] = bv
		}
	}
	return result
}
