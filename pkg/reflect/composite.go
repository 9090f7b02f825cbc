package reflect

import (
	"fmt"
	stdreflect "reflect"

	"github.com/kestrelforge/enginecore/pkg/typeid"
)

// Class is a registered, single-inheritance composite type: a Go struct
// exposed to the reflection engine as an ordered, named set of Fields,
// optionally extending a base Class.
type Class struct {
	Type
	base      *Class
	declared  []*Field
	effective []*Field
	byHash    map[typeid.Hash]*Field
	create    func() Record
}

// Base returns the class this one derives from, or nil for a root
// class.
func (c *Class) Base() *Class { return c.base }

// DeclaredFields returns only the fields this class adds, in
// declaration order, excluding anything inherited from Base.
func (c *Class) DeclaredFields() []*Field { return c.declared }

// Fields returns the class's composite field view: the base class's
// fields first, in its own base-to-derived order, followed by this
// class's own declared fields. The archive engine walks this slice
// directly, so base fields are always written and read before derived
// ones.
func (c *Class) Fields() []*Field { return c.effective }

// FindFieldByNameHash resolves a field by its name hash in O(1),
// searching the composite view so a lookup against a derived class also
// finds inherited fields.
func (c *Class) FindFieldByNameHash(hash typeid.Hash) (*Field, bool) {
	f, ok := c.byHash[hash]
	return f, ok
}

// HasType reports whether c is other or derives from it, walking the
// base chain.
func (c *Class) HasType(other *Class) bool {
	for cur := c; cur != nil; cur = cur.base {
		if cur == other {
			return true
		}
	}
	return false
}

// NewInstance constructs a zero-value Record of this class via its
// registered creator, with Class already assigned.
func (c *Class) NewInstance() Record {
	if c.create == nil {
		return nil
	}
	return c.create()
}

// Compositor accumulates a Class's declared fields during a
// RegisterClass callback. It resolves each declared field's storage
// location by looking up the named Go struct field on a throwaway
// prototype instance, the same pattern the teacher's DI container uses
// for constructor introspection: reflect once at registration time so
// the hot path never needs it again.
type Compositor struct {
	class    *Class
	protoTyp stdreflect.Type
}

func newCompositor(class *Class, proto Record) *Compositor {
	return &Compositor{
		class:    class,
		protoTyp: stdreflect.TypeOf(proto).Elem(),
	}
}

// Field declares a member named name, bound to the like-named Go struct
// field on the class's prototype, whose wire representation is governed
// by dataClass. It panics if the struct has no such field — a
// programming error caught at registration time, never at serialize
// time.
func (c *Compositor) Field(name string, dataClass *Class, opts ...FieldOption) *Field {
	sf, ok := c.protoTyp.FieldByName(name)
	if !ok {
		panic(fmt.Sprintf("reflect: class %q declares field %q which does not exist on its Go struct", c.class.name, name))
	}
	f := &Field{
		Name:      name,
		Hash:      typeid.Of(name),
		DataClass: dataClass,
		access:    accessor{index: sf.Index},
	}
	for _, opt := range opts {
		opt(f)
	}
	c.class.declared = append(c.class.declared, f)
	return f
}

// buildEffectiveFields concatenates the base chain's composite view
// with this class's own declared fields and builds the O(1) lookup map.
func (c *Class) buildEffectiveFields() {
	var effective []*Field
	if c.base != nil {
		effective = append(effective, c.base.effective...)
	}
	effective = append(effective, c.declared...)
	c.effective = effective

	c.byHash = make(map[typeid.Hash]*Field, len(effective))
	for _, f := range effective {
		c.byHash[f.Hash] = f
	}
}
