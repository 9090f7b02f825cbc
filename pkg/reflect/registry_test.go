package reflect

import (
	"testing"

	"github.com/kestrelforge/enginecore/pkg/typeid"
)

type widget struct {
	Base
	Name  string
	Count uint32
}

func registerWidget(t *testing.T, r *Registry) *Class {
	t.Helper()
	if err := SeedBuiltins(r); err != nil {
		t.Fatalf("SeedBuiltins: %v", err)
	}
	stringClass, ok := r.ClassByName("String")
	if !ok {
		t.Fatal("String not seeded")
	}
	u32Class, ok := r.ClassByName("U32")
	if !ok {
		t.Fatal("U32 not seeded")
	}
	class, err := r.RegisterClass("Widget", nil, &widget{}, func() Record { return &widget{} },
		func(c *Compositor) {
			c.Field("Name", stringClass)
			c.Field("Count", u32Class)
		})
	if err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}
	return class
}

func TestRegisterAndLookupClass(t *testing.T) {
	r := NewRegistry()
	class := registerWidget(t, r)

	got, ok := r.GetClass(class.Hash())
	if !ok || got != class {
		t.Fatalf("GetClass(%s) = %v, %v", class.Hash(), got, ok)
	}

	byName, ok := r.ClassByName("Widget")
	if !ok || byName != class {
		t.Fatalf("ClassByName(\"Widget\") = %v, %v", byName, ok)
	}
}

func TestRegisterClassDuplicateNameFails(t *testing.T) {
	r := NewRegistry()
	registerWidget(t, r)

	_, err := r.RegisterClass("Widget", nil, &widget{}, func() Record { return &widget{} }, nil)
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestCreateInstanceOnCreatorlessClassReturnsFalse(t *testing.T) {
	r := NewRegistry()
	class, err := r.RegisterClass("Marker", nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}

	rec, ok := r.CreateInstance(class)
	if ok || rec != nil {
		t.Fatalf("CreateInstance on a creator-less class = %v, %v, want nil, false", rec, ok)
	}
}

func TestCreateInstanceBindsClass(t *testing.T) {
	r := NewRegistry()
	class := registerWidget(t, r)

	rec, ok := r.CreateInstance(class)
	if !ok {
		t.Fatal("CreateInstance returned ok=false")
	}
	if rec.Class() != class {
		t.Fatalf("instance's Class() = %v, want %v", rec.Class(), class)
	}

	w, ok := rec.(*widget)
	if !ok {
		t.Fatalf("instance is %T, want *widget", rec)
	}
	w.Name = "gadget"
	w.Count = 3
	if w.Name != "gadget" || w.Count != 3 {
		t.Fatal("field writes on the created instance did not stick")
	}
}

func TestFieldValueReadsAndWrites(t *testing.T) {
	r := NewRegistry()
	class := registerWidget(t, r)
	rec, _ := r.CreateInstance(class)
	w := rec.(*widget)
	w.Name = "sprocket"

	var nameField *Field
	for _, f := range class.Fields() {
		if f.Name == "Name" {
			nameField = f
		}
	}
	if nameField == nil {
		t.Fatal("Name field not found on class")
	}
	if got := nameField.Value(rec).String(); got != "sprocket" {
		t.Fatalf("Field.Value = %q, want %q", got, "sprocket")
	}
}

func TestAliasTypeResolves(t *testing.T) {
	r := NewRegistry()
	class := registerWidget(t, r)

	if err := r.AliasType("Widget", "Gizmo"); err != nil {
		t.Fatalf("AliasType: %v", err)
	}
	got, ok := r.GetClass(typeid.Of("Gizmo"))
	if !ok || got != class {
		t.Fatalf("GetClass via alias = %v, %v", got, ok)
	}
}

func TestAliasTypeUnknownCanonicalFails(t *testing.T) {
	r := NewRegistry()
	SeedBuiltins(r)
	if err := r.AliasType("DoesNotExist", "Alias"); err == nil {
		t.Fatal("expected AliasType against an unknown canonical to fail")
	}
}

func TestClassFieldsIncludeBaseThenDerived(t *testing.T) {
	r := NewRegistry()
	SeedBuiltins(r)
	stringClass, _ := r.ClassByName("String")
	u32Class, _ := r.ClassByName("U32")

	base, err := r.RegisterClass("BaseThing", nil, &widget{}, func() Record { return &widget{} },
		func(c *Compositor) { c.Field("Name", stringClass) })
	if err != nil {
		t.Fatal(err)
	}

	type derivedThing struct {
		Base
		Name  string
		Count uint32
	}
	derived, err := r.RegisterClass("DerivedThing", base, &derivedThing{}, func() Record { return &derivedThing{} },
		func(c *Compositor) { c.Field("Count", u32Class) })
	if err != nil {
		t.Fatal(err)
	}

	fields := derived.Fields()
	if len(fields) != 2 || fields[0].Name != "Name" || fields[1].Name != "Count" {
		t.Fatalf("Fields() = %+v, want [Name Count]", fields)
	}
	if !derived.HasType(base) {
		t.Fatal("derived.HasType(base) = false, want true")
	}
}
