package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// Ordered is a JSON object that remembers the order its keys appeared in.
// Store documents are plain JSON objects whose key order carries meaning
// (preview icons come from the first origins of a category), which a Go map
// would lose.
//
// A duplicated key keeps its first position and its last value.
type Ordered[T any] struct {
	keys   []string
	values map[string]T
}

// NewOrdered builds an Ordered from pairs, keeping their order.
func NewOrdered[T any](pairs ...Pair[T]) Ordered[T] {
	var o Ordered[T]
	for _, p := range pairs {
		o.Set(p.Key, p.Value)
	}
	return o
}

// Pair is one key/value entry of an Ordered object.
type Pair[T any] struct {
	Key   string
	Value T
}

// Set stores v under key, appending key if it is new.
func (o *Ordered[T]) Set(key string, v T) {
	if o.values == nil {
		o.values = make(map[string]T)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o Ordered[T]) Get(key string) (T, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of keys.
func (o Ordered[T]) Len() int { return len(o.keys) }

// Keys returns the keys in document order.
func (o Ordered[T]) Keys() []string { return append([]string(nil), o.keys...) }

// All iterates over the entries in document order.
func (o Ordered[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// UnmarshalJSON decodes a JSON object, keeping key order. A JSON null
// decodes to an empty object.
func (o *Ordered[T]) UnmarshalJSON(data []byte) error {
	*o = Ordered[T]{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: object key %v is not a string", tok)
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("catalog: key %q: %w", key, err)
		}
		o.Set(key, v)
	}
	return expectDelim(dec, '}')
}

// MarshalJSON encodes the object with keys in document order.
func (o Ordered[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("catalog: expected %q, got %v", want, tok)
	}
	return nil
}
