package reflect

import (
	"reflect"
	"sync/atomic"
)

// Record is implemented by every Go type registered as a Class. Class()
// gives the archive engine and diagnostics surfaces the runtime type of
// a value reached only through an interface or a base-class pointer.
type Record interface {
	Class() *Class
}

// accessor resolves a Field's storage location on a live Record via its
// Go struct field index path. Composed classes may reach into an
// embedded base struct, hence the []int path rather than a single
// index — the same shape reflect.Value.FieldByIndex expects.
type accessor struct {
	index []int
}

func (a accessor) get(rec Record) reflect.Value {
	return reflect.ValueOf(rec).Elem().FieldByIndex(a.index)
}

// Value returns the field's current value on rec as a reflect.Value,
// addressable so that DataBindings can both read and, via Set, write it
// in place.
func (f *Field) Value(rec Record) reflect.Value { return f.access.get(rec) }

// Base is embedded by every concrete Record type to satisfy the Record
// interface and to carry the engine's intrusive reference count. The
// count changes only through Retain and Release; the archive engine and
// asset store do not call them. Base.Release reports the count after
// decrementing so callers can free backing storage exactly once.
type Base struct {
	class    *Class
	refCount int32
}

// Class returns the record's most-derived runtime Class, set once by
// the registry at construction time.
func (b *Base) Class() *Class { return b.class }

// setClass binds a freshly created record to its class. It exists so
// RegisterClass's create callback can return a bare Go literal
// (&Character{}) instead of every application type having to plumb its
// own Class through by hand.
func (b *Base) setClass(c *Class) { b.class = c }

// classSetter is implemented by Base; RegisterClass uses it to bind a
// class to every instance create() produces without requiring
// application code to do so itself.
type classSetter interface {
	setClass(*Class)
}

// Retain increments the reference count and returns the new value.
func (b *Base) Retain() int32 { return atomic.AddInt32(&b.refCount, 1) }

// Release decrements the reference count and returns the new value. A
// result of zero means the caller holding the last reference is
// responsible for releasing the record back to its owning pool, if any.
func (b *Base) Release() int32 { return atomic.AddInt32(&b.refCount, -1) }

// RefCount returns the current reference count without modifying it.
func (b *Base) RefCount() int32 { return atomic.LoadInt32(&b.refCount) }

// Optional lifecycle hooks a Record may implement. The archive engine
// and data bindings check for these via type assertion at the point
// they'd fire rather than through a stored function-pointer table: Go
// interfaces already are the vtable, so a second indirection would only
// duplicate what the language gives for free.

// PreSerializer is invoked immediately before a record's fields are
// walked for writing, letting a type stage computed values into fields
// that would otherwise sit stale.
type PreSerializer interface {
	PreSerialize()
}

// PostSerializer is invoked immediately after a record's fields have
// been written, mirroring PreSerializer for cleanup of any staged
// state.
type PostSerializer interface {
	PostSerialize()
}

// PreDeserializer is invoked before a record's fields are populated
// from an archive, typically to reset derived state that field values
// alone won't overwrite.
type PreDeserializer interface {
	PreDeserialize()
}

// PostDeserializer is invoked after a record's fields have been
// populated from an archive. Returning false vetoes the load: the
// archive engine discards the record without reporting an error.
type PostDeserializer interface {
	PostDeserialize() bool
}

// ComponentProcessor lets a record accept fields present in an archive
// that no longer exist on its Class — most often a field renamed or
// removed since the archive was written. The archive engine calls
// ProcessComponent for each unmatched field instead of failing the
// load outright.
type ComponentProcessor interface {
	ProcessComponent(name string, value any)
}
