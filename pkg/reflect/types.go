// Package reflect implements the engine's runtime type system: a
// registry of Class and Enumeration descriptors, single-inheritance
// field composition, and the record model that pkg/databind and
// pkg/archive build on to walk and serialize live Go values by name
// rather than by static type.
//
// It intentionally shares a name with the standard library's reflect
// package because the two solve the same problem at different layers:
// the standard package reflects over Go's own type system, this one
// reflects over the engine's declared, wire-stable type system, which
// is versioned and named independently of Go struct identity.
package reflect

import "github.com/kestrelforge/enginecore/pkg/typeid"

// Kind distinguishes the two things that can live in the registry under
// a name hash.
type Kind uint8

const (
	KindClass Kind = iota
	KindEnumeration
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindEnumeration:
		return "enumeration"
	default:
		return "unknown"
	}
}

// Type is the identity shared by every registrable entity: a canonical
// name and the hash derived from it.
type Type struct {
	name string
	hash typeid.Hash
	kind Kind
}

// Name returns the type's canonical, human-readable name.
func (t *Type) Name() string { return t.name }

// Hash returns the stable name hash used as wire identity.
func (t *Type) Hash() typeid.Hash { return t.hash }

// Kind reports whether this Type describes a Class or an Enumeration.
func (t *Type) Kind() Kind { return t.kind }

// FieldFlag bitmasks alter how DataBindings and the archive engine treat
// an individual field.
type FieldFlag uint32

const (
	// FieldHide keeps the field out of any generic property listing or
	// UI reflection surface, without affecting serialization.
	FieldHide FieldFlag = 1 << iota
	// FieldDiscard excludes the field from serialization entirely; it is
	// recomputed by the owning Record's PostDeserialize hook instead.
	FieldDiscard
	// FieldForce writes the field even when its value equals the
	// declared default, defeating the archive engine's default-elision
	// optimization for that one field.
	FieldForce
)

func (f FieldFlag) Has(flag FieldFlag) bool { return f&flag != 0 }

// EnumMember is one named, valued entry of an Enumeration.
type EnumMember struct {
	Name  string
	Value int64
}

// Enumeration is a registrable named set of integer-valued constants.
// No codec is bound to enumerations, so the archive engine neither
// writes nor reads them.
type Enumeration struct {
	Type
	members    []EnumMember
	byName     map[string]int64
	byValue    map[int64]string
	defaultVal int64
}

// NewEnumeration builds an Enumeration from an ordered member list. The
// first member is used as the default; there is no way to choose
// another.
func NewEnumeration(name string, members []EnumMember) *Enumeration {
	e := &Enumeration{
		Type: Type{
			name: name,
			hash: typeid.Of(name),
			kind: KindEnumeration,
		},
		members: members,
		byName:  make(map[string]int64, len(members)),
		byValue: make(map[int64]string, len(members)),
	}
	for _, m := range members {
		e.byName[m.Name] = m.Value
		e.byValue[m.Value] = m.Name
	}
	if len(members) > 0 {
		e.defaultVal = members[0].Value
	}
	return e
}

// Members returns the enumeration's members in declaration order.
func (e *Enumeration) Members() []EnumMember { return e.members }

// ValueOf resolves a member name to its integer value.
func (e *Enumeration) ValueOf(name string) (int64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// NameOf resolves an integer value back to its member name. A value
// with no matching member returns ok=false.
func (e *Enumeration) NameOf(value int64) (string, bool) {
	n, ok := e.byValue[value]
	return n, ok
}

// Default returns the enumeration's default value.
func (e *Enumeration) Default() int64 { return e.defaultVal }

// FieldOption mutates a Field during declaration inside a Compositor
// callback. See WithFlags, WithDefault and WithUIHint.
type FieldOption func(*Field)

// WithFlags sets the field's FieldFlag bitmask.
func WithFlags(flags FieldFlag) FieldOption {
	return func(f *Field) { f.Flags = flags }
}

// WithDefault records the field's default value for elision purposes.
// The archive engine skips writing a field whose current value equals
// this default, unless FieldForce is also set.
func WithDefault(v any) FieldOption {
	return func(f *Field) { f.Default = v }
}

// WithUIHint attaches an opaque hint string, forwarded verbatim to
// tooling that renders a property sheet for the field. The engine
// itself never interprets it.
func WithUIHint(hint string) FieldOption {
	return func(f *Field) { f.UIHint = hint }
}

// Field describes one named, typed member of a Class: how to reach its
// value on a live Record, what DataBinding governs its wire encoding,
// and how the archive engine and reflection surfaces should treat it.
type Field struct {
	Name      string
	Hash      typeid.Hash
	Flags     FieldFlag
	DataClass *Class
	Default   any
	UIHint    string
	access    accessor
}

// IsDefault reports whether v equals the field's declared default,
// using Go equality. Fields without a declared default are never
// elided.
func (f *Field) IsDefault(v any) bool {
	if f.Default == nil {
		return false
	}
	return f.Default == v
}
