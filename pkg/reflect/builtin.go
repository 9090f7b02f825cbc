package reflect

// baseTypeNames lists every non-container class the registry is seeded
// with at startup, per the engine's fixed built-in catalogue. Order
// matters only for readability here; registration order never affects
// hash-based lookup.
var baseTypeNames = []string{
	"Object", "Element", "Data", "Container", "ElementContainer",
	"TypeID", "Pointer", "Enumeration", "Bitfield", "Path",

	"String", "Bool", "U8", "I8", "U16", "I16", "U32", "I32", "U64", "I64", "F32", "F64",

	"GUID", "TUID",

	"Vector2", "Vector3", "Vector4",
	"Matrix3", "Matrix4",
	"Color3", "Color4", "HDRColor3", "HDRColor4",

	"Version", "DocumentNode", "DocumentAttribute", "DocumentElement", "Document",
}

// primitiveKeyNames lists every builtin type usable as a map key, used
// to seed the fixed `<Key>ElementStlMap` family. EnsureMapClass does not
// check its key type against this list.
var primitiveKeyNames = []string{
	"String", "Bool", "U8", "I8", "U16", "I16", "U32", "I32", "U64", "I64", "F32", "F64",
	"GUID", "TUID", "TypeID",
}

// VectorClassName returns the canonical StlVector class name for an
// element type named elem, e.g. VectorClassName("String") ==
// "StringStlVector".
func VectorClassName(elem string) string { return elem + "StlVector" }

// SetClassName returns the canonical StlSet class name for an element
// type named elem.
func SetClassName(elem string) string { return elem + "StlSet" }

// MapClassName returns the canonical StlMap class name for a
// (key, value) pair, e.g. MapClassName("Str", "Str") == "StrStrStlMap".
func MapClassName(key, val string) string { return key + val + "StlMap" }

// SeedBuiltins registers the engine's fixed built-in type catalogue into
// r: the primitive scalars, identifiers, math aggregates, the recursive
// Element family, and the container name family the archive format's
// examples call out explicitly (StrStrStlMap, U64Matrix4StlMap, the
// Element containers, and one <Key>ElementStlMap per primitive key
// type). It is idempotent-unsafe by design — calling it twice on the
// same Registry returns ErrDuplicateHash, the same as any other double
// registration, since a registry is meant to be seeded exactly once at
// startup.
//
// Vector, set and map classes for combinations beyond this fixed set
// are not pre-registered; pkg/databind creates them lazily via
// EnsureVectorClass, EnsureSetClass and EnsureMapClass the first time a
// declared field actually needs one, since the full cross product of
// element types is unbounded and mostly unused in any given schema.
func SeedBuiltins(r *Registry) error {
	for _, name := range baseTypeNames {
		if _, err := r.RegisterClass(name, nil, nil, nil, nil); err != nil {
			return err
		}
	}

	// ElementStlMap is keyed by Element itself in the general examples,
	// but the catalogue also calls out per-primitive-key element maps
	// separately (TypeIDElementStlMap and friends), so register the
	// bare form directly rather than through MapClassName's
	// concatenation rule.
	explicit := []string{
		MapClassName("Str", "Str"),
		MapClassName("U64", "Matrix4"),
		VectorClassName("Element"),
		SetClassName("Element"),
		"ElementStlMap",
	}
	for _, key := range primitiveKeyNames {
		explicit = append(explicit, key+"ElementStlMap")
	}
	for _, name := range explicit {
		if _, err := r.RegisterClass(name, nil, nil, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

// EnsureVectorClass returns the registered StlVector class over elem,
// registering it on first use.
func EnsureVectorClass(r *Registry, elem *Class) (*Class, error) {
	return ensureContainerClass(r, VectorClassName(elem.Name()))
}

// EnsureSetClass returns the registered StlSet class over elem,
// registering it on first use.
func EnsureSetClass(r *Registry, elem *Class) (*Class, error) {
	return ensureContainerClass(r, SetClassName(elem.Name()))
}

// EnsureMapClass returns the registered StlMap class over (key, val),
// registering it on first use.
func EnsureMapClass(r *Registry, key, val *Class) (*Class, error) {
	return ensureContainerClass(r, MapClassName(key.Name(), val.Name()))
}

func ensureContainerClass(r *Registry, name string) (*Class, error) {
	if c, ok := r.ClassByName(name); ok {
		return c, nil
	}
	return r.RegisterClass(name, nil, nil, nil, nil)
}
