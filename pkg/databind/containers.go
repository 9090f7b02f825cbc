package databind

import (
	"fmt"

	"github.com/kestrelforge/enginecore/pkg/wire"
)

// vectorCodec implements the StlVector family: a count-prefixed,
// homogeneous, ordered sequence of elem's representation.
type vectorCodec struct {
	name string
	elem Codec
}

// NewVectorCodec builds a StlVector codec over an already-bound element
// codec. Values are represented as []any holding elem's Go
// representation per slot.
func NewVectorCodec(name string, elem Codec) Codec {
	return vectorCodec{name: name, elem: elem}
}

func (c vectorCodec) ClassName() string { return c.name }

func (c vectorCodec) Write(w *wire.Writer, v any) error {
	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("databind: %s: expected []any, got %T", c.name, v)
	}
	if err := w.WriteU32(uint32(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := c.elem.Write(w, item); err != nil {
			return err
		}
	}
	return nil
}

func (c vectorCodec) Read(r *wire.Reader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	items := make([]any, count)
	for i := range items {
		v, err := c.elem.Read(r)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func (c vectorCodec) IsEmpty(v any) bool {
	items, ok := v.([]any)
	return ok && len(items) == 0
}

func (c vectorCodec) Zero() any { return []any{} }

// setCodec implements the StlSet family: a count-prefixed sequence like
// vectorCodec, but the archive format makes no structural distinction
// between a set and a vector on the wire — set semantics (uniqueness)
// are the writer's responsibility, not the codec's, exactly as the
// source engine's set container only guarantees uniqueness at
// insertion time, not at serialization time.
type setCodec struct {
	vectorCodec
}

// NewSetCodec builds a StlSet codec over an already-bound element
// codec.
func NewSetCodec(name string, elem Codec) Codec {
	return setCodec{vectorCodec{name: name, elem: elem}}
}

// mapCodec implements the StlMap family: a count-prefixed sequence of
// key/value pairs.
type mapEntry struct {
	Key   any
	Value any
}

type mapCodec struct {
	name string
	key  Codec
	val  Codec
}

func newMapCodec(name string, key, val Codec) Codec {
	return mapCodec{name: name, key: key, val: val}
}

// NewMapCodec builds a StlMap codec over already-bound key and value
// codecs. Values are represented as []mapEntry rather than a Go map so
// that non-comparable value representations (e.g. []float32 aggregates)
// can still be map values.
func NewMapCodec(name string, key, val Codec) Codec { return newMapCodec(name, key, val) }

func (c mapCodec) ClassName() string { return c.name }

func (c mapCodec) Write(w *wire.Writer, v any) error {
	entries, ok := v.([]mapEntry)
	if !ok {
		return fmt.Errorf("databind: %s: expected []databind.mapEntry, got %T", c.name, v)
	}
	if err := w.WriteU32(uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := c.key.Write(w, e.Key); err != nil {
			return err
		}
		if err := c.val.Write(w, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (c mapCodec) Read(r *wire.Reader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	entries := make([]mapEntry, count)
	for i := range entries {
		k, err := c.key.Read(r)
		if err != nil {
			return nil, err
		}
		v, err := c.val.Read(r)
		if err != nil {
			return nil, err
		}
		entries[i] = mapEntry{Key: k, Value: v}
	}
	return entries, nil
}

func (c mapCodec) IsEmpty(v any) bool {
	entries, ok := v.([]mapEntry)
	return ok && len(entries) == 0
}

func (c mapCodec) Zero() any { return []mapEntry{} }
