package reflect

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/kestrelforge/enginecore/pkg/typeid"
)

// ErrDuplicateHash is returned by RegisterClass and RegisterEnumeration
// when the type's name hashes to a value already present in the
// registry, whether from a genuine name collision or from registering
// the same type twice.
var ErrDuplicateHash = errors.New("reflect: duplicate type hash")

// ErrUnknownType is returned by AliasType when the canonical name is not
// registered. Lookups against an unknown hash report ok=false instead.
var ErrUnknownType = errors.New("reflect: unknown type")

// ErrConcurrentMutation is raised by the registry's best-effort
// misuse detector when two goroutines attempt to register types at the
// same time. The registry follows a single-writer, many-reader
// discipline and holds no internal lock; this only catches the case
// where that contract is violated, it does not make concurrent
// mutation safe.
var ErrConcurrentMutation = errors.New("reflect: concurrent registry mutation detected")

// typeEntry is the registry's internal record of one registered name:
// its Type identity plus whichever of Class or Enumeration it actually
// is.
type typeEntry struct {
	typ   *Type
	class *Class
	enum  *Enumeration
}

// Registry is the reflection engine's live catalogue of registered
// Classes and Enumerations. It is not a package-level singleton: the
// host application owns an instance and threads it explicitly to every
// component that needs to resolve types, matching this engine's
// avoidance of hidden process-wide state.
//
// Registration must happen from a single goroutine at a time; lookups
// (GetType, GetClass, GetEnumeration, CreateInstance) are safe to call
// concurrently with each other but not with a registration in flight.
// The registry does not hold an internal mutex to enforce this — the
// caller's own single-writer discipline is the actual guarantee, this
// is only a debug-time tripwire.
type Registry struct {
	index    *typeIndex
	aliases  map[typeid.Hash]typeid.Hash
	refCount int32
	writing  int32
}

// NewRegistry constructs an empty, unreferenced registry.
func NewRegistry() *Registry {
	return &Registry{
		index:   newTypeIndex(),
		aliases: make(map[typeid.Hash]typeid.Hash),
	}
}

// Initialize increments the registry's reference count and returns the
// count after incrementing. A component that holds onto a Registry
// across its own lifetime can call this on construction and Cleanup on
// teardown so the last owner can decide whether tearing down backing
// resources is safe; the archive engine and the DI container do not
// call either.
func (r *Registry) Initialize() int32 { return atomic.AddInt32(&r.refCount, 1) }

// Cleanup decrements the reference count and returns the count after
// decrementing.
func (r *Registry) Cleanup() int32 { return atomic.AddInt32(&r.refCount, -1) }

// RefCount returns the current reference count.
func (r *Registry) RefCount() int32 { return atomic.LoadInt32(&r.refCount) }

func (r *Registry) beginWrite() {
	if !atomic.CompareAndSwapInt32(&r.writing, 0, 1) {
		panic(ErrConcurrentMutation)
	}
}

func (r *Registry) endWrite() { atomic.StoreInt32(&r.writing, 0) }

func (r *Registry) resolve(hash typeid.Hash) (typeid.Hash, bool) {
	if canonical, ok := r.aliases[hash]; ok {
		return canonical, true
	}
	if _, ok := r.index.Get(hash); ok {
		return hash, true
	}
	return 0, false
}

// RegisterClass declares a new Class named name, deriving from base
// (nil for a root class), backed by prototype instances created via
// create. declare populates the class's own fields through the
// supplied Compositor; base's fields are inherited automatically.
//
// prototype must be a pointer to a zero-value instance of the Go struct
// that create() returns; it is used only to resolve declared field
// names to struct field indices and is discarded afterward.
func (r *Registry) RegisterClass(name string, base *Class, prototype Record, create func() Record, declare func(*Compositor)) (*Class, error) {
	r.beginWrite()
	defer r.endWrite()

	hash := typeid.Of(name)
	if _, exists := r.index.Get(hash); exists {
		return nil, fmt.Errorf("%w: %q (%s)", ErrDuplicateHash, name, hash)
	}

	class := &Class{
		Type: Type{
			name: name,
			hash: hash,
			kind: KindClass,
		},
		base: base,
	}
	if create != nil {
		class.create = func() Record {
			rec := create()
			if setter, ok := rec.(classSetter); ok {
				setter.setClass(class)
			}
			return rec
		}
	}
	if declare != nil {
		declare(newCompositor(class, prototype))
	}
	class.buildEffectiveFields()

	r.index.Insert(hash, &typeEntry{typ: &class.Type, class: class})
	return class, nil
}

// RegisterEnumeration declares e in the registry under its own hash.
func (r *Registry) RegisterEnumeration(e *Enumeration) error {
	r.beginWrite()
	defer r.endWrite()

	if _, exists := r.index.Get(e.hash); exists {
		return fmt.Errorf("%w: %q (%s)", ErrDuplicateHash, e.name, e.hash)
	}
	r.index.Insert(e.hash, &typeEntry{typ: &e.Type, enum: e})
	return nil
}

// AliasType registers alias as an additional name resolving to the same
// entry as an already-registered canonical name. Archives written under
// a type's old name before it was renamed still load correctly as long
// as the old name is aliased to the new one.
func (r *Registry) AliasType(canonical string, alias string) error {
	r.beginWrite()
	defer r.endWrite()

	canonicalHash := typeid.Of(canonical)
	if _, exists := r.index.Get(canonicalHash); !exists {
		return fmt.Errorf("%w: %q", ErrUnknownType, canonical)
	}
	aliasHash := typeid.Of(alias)
	if _, exists := r.index.Get(aliasHash); exists {
		return fmt.Errorf("%w: alias %q collides with a registered type", ErrDuplicateHash, alias)
	}
	r.aliases[aliasHash] = canonicalHash
	return nil
}

// GetType resolves hash to its Type identity, following aliases.
func (r *Registry) GetType(hash typeid.Hash) (*Type, bool) {
	canonical, ok := r.resolve(hash)
	if !ok {
		return nil, false
	}
	entry, ok := r.index.Get(canonical)
	if !ok {
		return nil, false
	}
	return entry.typ, true
}

// GetClass resolves hash to a registered Class, following aliases. It
// returns ok=false if hash names an Enumeration instead.
func (r *Registry) GetClass(hash typeid.Hash) (*Class, bool) {
	canonical, ok := r.resolve(hash)
	if !ok {
		return nil, false
	}
	entry, ok := r.index.Get(canonical)
	if !ok || entry.class == nil {
		return nil, false
	}
	return entry.class, true
}

// GetEnumeration resolves hash to a registered Enumeration, following
// aliases. It returns ok=false if hash names a Class instead.
func (r *Registry) GetEnumeration(hash typeid.Hash) (*Enumeration, bool) {
	canonical, ok := r.resolve(hash)
	if !ok {
		return nil, false
	}
	entry, ok := r.index.Get(canonical)
	if !ok || entry.enum == nil {
		return nil, false
	}
	return entry.enum, true
}

// ClassByName is a convenience wrapper around GetClass for callers that
// only have a name, not a precomputed hash.
func (r *Registry) ClassByName(name string) (*Class, bool) { return r.GetClass(typeid.Of(name)) }

// CreateInstance constructs a new zero-value Record of class c via its
// registered creator.
func (r *Registry) CreateInstance(c *Class) (Record, bool) {
	inst := c.NewInstance()
	if inst == nil {
		return nil, false
	}
	return inst, true
}

// Range walks every registered entry in ascending hash order. It is
// used by the administrative HTTP surface's type catalogue endpoint and
// by tooling that needs a deterministic dump of the registry's
// contents.
func (r *Registry) Range(fn func(t *Type) bool) {
	r.index.Range(func(_ typeid.Hash, entry *typeEntry) bool {
		return fn(entry.typ)
	})
}

// Len returns the number of distinct registered types, not counting
// aliases.
func (r *Registry) Len() int { return r.index.Len() }
