// Package databind implements the concrete byte codecs for the
// engine's leaf ("Data" subtype) classes: primitive scalars,
// identifiers, math aggregates, and homogeneous STL-style containers
// and maps built from them.
//
// It deliberately stops short of the recursive record classes
// (Element, ElementContainer and its StlVector/StlSet/StlMap
// variants) — those have no self-contained byte payload of their own,
// they are walked field-by-field or record-by-record, which is the
// archive engine's job, not this package's. Keeping that split means
// databind never needs to import the archive engine, so the
// dependency graph stays a straight line: typeid -> wire -> reflect ->
// databind -> archive.
package databind

import (
	"errors"
	"fmt"
	stdreflect "reflect"

	"github.com/kestrelforge/enginecore/pkg/reflect"
	"github.com/kestrelforge/enginecore/pkg/typeid"
	"github.com/kestrelforge/enginecore/pkg/wire"
)

// ErrNotRepresentable is returned by Cast when the source value cannot
// be represented in the destination codec's type at all (as opposed to
// only being rejected by a Shallow restriction).
var ErrNotRepresentable = errors.New("databind: value not representable in destination type")

// Codec is the concrete read/write/cast behavior bound to one
// registered Data-subtype Class. Values cross the codec boundary as
// `any` holding the codec's own Go representation (int32, string,
// []float32 for a Vector3, []any for a vector or set, []mapEntry for a
// map, and so on) — the archive engine
// only ever sets or reads a field's reflect.Value from what a Codec
// hands back, it never interprets the bytes itself.
type Codec interface {
	// ClassName is the canonical registered name this codec is bound
	// to, e.g. "I32" or "StrStrStlMap".
	ClassName() string
	// Write emits v's wire representation.
	Write(w *wire.Writer, v any) error
	// Read decodes one value in this codec's representation.
	Read(r *wire.Reader) (any, error)
	// IsEmpty reports whether v is this codec's zero-size value —
	// true for a container/set/map with zero elements, always false
	// for scalars and fixed-size aggregates.
	IsEmpty(v any) bool
	// Zero returns the codec's default zero value. Cast uses it to learn
	// the destination's Go type; nothing copies it into Field.Default.
	Zero() any
}

// Registry binds registered reflect.Class hashes to the Codec that
// knows how to read and write their wire payload.
type Registry struct {
	byHash map[typeid.Hash]Codec
}

// NewRegistry constructs an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{byHash: make(map[typeid.Hash]Codec)}
}

// Register binds codec to class's hash. It overwrites any previous
// binding for that hash, which lets Seed's fixed bindings be
// individually overridden by a host application without forking this
// package.
func (r *Registry) Register(class *reflect.Class, codec Codec) {
	r.byHash[class.Hash()] = codec
}

// RegisterHash binds codec directly to hash, for callers that already
// have it (EnsureVectorClass and friends return a *reflect.Class, so
// most callers want Register instead).
func (r *Registry) RegisterHash(hash typeid.Hash, codec Codec) {
	r.byHash[hash] = codec
}

// Lookup resolves hash to its bound Codec.
func (r *Registry) Lookup(hash typeid.Hash) (Codec, bool) {
	c, ok := r.byHash[hash]
	return c, ok
}

// Cast attempts to represent v (produced by src) in dst's
// representation. Numeric codecs widen freely (int8 -> int64, float32
// -> float64, and across signedness for non-negative values); string
// and bool codecs never convert to anything else; identifiers only
// cast to their own kind. When shallow is true, only numeric
// conversions within one group (signed integer, unsigned integer,
// float) are permitted, and non-numeric codecs of different classes
// never cast — this backs
// the archive reader's field-mismatch recovery path, which the spec
// deliberately restricts more tightly than a general-purpose cast.
func Cast(dst Codec, src Codec, v any, shallow bool) (any, error) {
	if dst.ClassName() == src.ClassName() {
		return v, nil
	}
	dstNum, dstIsNum := numericKind(dst.Zero())
	srcNum, srcIsNum := numericKind(v)
	if dstIsNum && srcIsNum {
		if shallow && dstNum != srcNum {
			return nil, fmt.Errorf("%w: shallow cast from %s to %s", ErrNotRepresentable, src.ClassName(), dst.ClassName())
		}
		return castNumeric(dst.Zero(), v)
	}
	if shallow {
		return nil, fmt.Errorf("%w: shallow cast from %s to %s", ErrNotRepresentable, src.ClassName(), dst.ClassName())
	}
	return nil, fmt.Errorf("%w: %s to %s", ErrNotRepresentable, src.ClassName(), dst.ClassName())
}

type numKind uint8

const (
	numNone numKind = iota
	numInt
	numUint
	numFloat
)

func numericKind(v any) (numKind, bool) {
	switch v.(type) {
	case int8, int16, int32, int64:
		return numInt, true
	case uint8, uint16, uint32, uint64:
		return numUint, true
	case float32, float64:
		return numFloat, true
	default:
		return numNone, false
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	}
	return 0
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return float64(asInt64(v))
	}
}

// castNumeric widens or narrows a numeric value into dst's declared
// zero-value type. Narrowing (e.g. I64 -> I32) is permitted the same
// way a plain Go conversion would permit it: values that overflow the
// destination width simply truncate, matching this codebase's existing
// tolerance for lossy numeric conversions elsewhere in the corpus.
// Kind-crossing (int <-> float) is only reached when the caller has
// already confirmed a non-shallow cast is in play.
func castNumeric(dstZero any, v any) (any, error) {
	var n any = asInt64(v)
	if k, _ := numericKind(v); k == numFloat {
		n = asFloat64(v)
	}
	rv := stdreflect.ValueOf(n)
	dt := stdreflect.TypeOf(dstZero)
	if !rv.CanConvert(dt) {
		return nil, ErrNotRepresentable
	}
	return rv.Convert(dt).Interface(), nil
}

// Seed registers reflect.Class entries for the builtin Data-subtype
// catalogue (via reflect.SeedBuiltins) and binds a Codec to every one
// of them that has a self-contained byte payload: scalars, GUID/TUID,
// the math aggregates, and the STL container/set/map combinations the
// built-in catalogue names explicitly. Element and ElementContainer
// family classes are registered as bare types with no codec, since the
// archive engine walks them as nested records rather than through this
// package.
func Seed(reg *reflect.Registry, codecs *Registry) error {
	if err := reflect.SeedBuiltins(reg); err != nil {
		return err
	}

	bind := func(name string, codec Codec) error {
		class, ok := reg.ClassByName(name)
		if !ok {
			return fmt.Errorf("databind: seed: builtin class %q not registered", name)
		}
		codecs.Register(class, codec)
		return nil
	}

	scalars := map[string]Codec{
		"String": stringCodec{},
		"Bool":   boolCodec{},
		"U8":     scalarCodec[uint8]{name: "U8", read: (*wire.Reader).ReadU8, write: (*wire.Writer).WriteU8},
		"I8":     scalarCodec[int8]{name: "I8", read: (*wire.Reader).ReadI8, write: (*wire.Writer).WriteI8},
		"U16":    scalarCodec[uint16]{name: "U16", read: (*wire.Reader).ReadU16, write: (*wire.Writer).WriteU16},
		"I16":    scalarCodec[int16]{name: "I16", read: (*wire.Reader).ReadI16, write: (*wire.Writer).WriteI16},
		"U32":    scalarCodec[uint32]{name: "U32", read: (*wire.Reader).ReadU32, write: (*wire.Writer).WriteU32},
		"I32":    scalarCodec[int32]{name: "I32", read: (*wire.Reader).ReadI32, write: (*wire.Writer).WriteI32},
		"U64":    scalarCodec[uint64]{name: "U64", read: (*wire.Reader).ReadU64, write: (*wire.Writer).WriteU64},
		"I64":    scalarCodec[int64]{name: "I64", read: (*wire.Reader).ReadI64, write: (*wire.Writer).WriteI64},
		"F32":    scalarCodec[float32]{name: "F32", read: (*wire.Reader).ReadF32, write: (*wire.Writer).WriteF32},
		"F64":    scalarCodec[float64]{name: "F64", read: (*wire.Reader).ReadF64, write: (*wire.Writer).WriteF64},
		"TypeID": scalarCodec[uint32]{name: "TypeID", read: (*wire.Reader).ReadU32, write: (*wire.Writer).WriteU32},

		"GUID": guidCodec{},
		"TUID": scalarCodec[uint64]{name: "TUID", read: (*wire.Reader).ReadU64, write: (*wire.Writer).WriteU64},

		"Vector2":   vectorNCodec{name: "Vector2", n: 2},
		"Vector3":   vectorNCodec{name: "Vector3", n: 3},
		"Vector4":   vectorNCodec{name: "Vector4", n: 4},
		"Matrix3":   vectorNCodec{name: "Matrix3", n: 9},
		"Matrix4":   vectorNCodec{name: "Matrix4", n: 16},
		"Color3":    vectorNCodec{name: "Color3", n: 3},
		"Color4":    vectorNCodec{name: "Color4", n: 4},
		"HDRColor3": vectorNCodec{name: "HDRColor3", n: 3},
		"HDRColor4": vectorNCodec{name: "HDRColor4", n: 4},
	}
	for name, codec := range scalars {
		if err := bind(name, codec); err != nil {
			return err
		}
	}

	if err := bind("StrStrStlMap", newMapCodec("StrStrStlMap", stringCodec{}, stringCodec{})); err != nil {
		return err
	}
	if err := bind("U64Matrix4StlMap", newMapCodec("U64Matrix4StlMap", scalars["U64"], scalars["Matrix4"])); err != nil {
		return err
	}

	return nil
}

// EnsureCodec returns the Codec bound to a lazily-created vector, set
// or map class, constructing and binding a generic one on first use if
// elem/key/val already have codecs of their own. It mirrors
// reflect.EnsureVectorClass/EnsureSetClass/EnsureMapClass, which create
// the reflect.Class side of the same lazy registration.
func EnsureCodec(reg *reflect.Registry, codecs *Registry, class *reflect.Class, build func() (Codec, error)) (Codec, error) {
	if c, ok := codecs.Lookup(class.Hash()); ok {
		return c, nil
	}
	c, err := build()
	if err != nil {
		return nil, err
	}
	codecs.RegisterHash(class.Hash(), c)
	return c, nil
}
