package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/kestrelforge/enginecore/pkg/databind"
	"github.com/kestrelforge/enginecore/pkg/reflect"
)

// entityKind names one of the three registered classes this demo
// declares. Kept as a distinct type from the Go struct below: every
// kind shares the same field layout, but each is its own reflect.Class
// so a spool's stored class name still tells a reader what it holds.
type entityKind string

const (
	kindCharacter entityKind = "Character"
	kindPlace     entityKind = "Place"
	kindGroup     entityKind = "Group"
)

func parseKind(s string) (entityKind, error) {
	switch strings.ToLower(s) {
	case "character":
		return kindCharacter, nil
	case "place":
		return kindPlace, nil
	case "group":
		return kindGroup, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q (want character, place or group)", s)
	}
}

// entity is the single Go struct backing all three registered classes.
// Character, Place and Group share an identical field set in the
// original lore tool (each is Entity with no additions of its own), so
// rather than model a base/derived reflect.Class pair whose inherited
// field accessors would need index paths resolved against the
// derived struct's own layout — a path nothing else in this codebase
// exercises yet — each kind is registered as its own independent root
// class over the same struct, the same way cmd/enginectl's demo Note
// class is registered. HasType-based inheritance queries aren't needed
// here; entityKind is what tells them apart.
type entity struct {
	reflect.Base
	ID        string
	Name      string
	Aka       []any
	Summary   string
	Details   string
	Tags      []any
	Links     []any
	CreatedAt uint64
	UpdatedAt uint64
}

func (e *entity) Kind() entityKind { return entityKind(e.Class().Name()) }

// link is the flattened "kind:id:relation" encoding of a directed edge
// to another entity, stored as one element of the Links vector. Full
// nested record fields (an Element-class Link composite) would work
// too, but a plain string keeps this demo's schema entirely within
// pkg/databind's codec set and out of the archive engine's nested
// record path.
type link struct {
	Kind     entityKind
	ID       string
	Relation string
}

func (l link) String() string { return fmt.Sprintf("%s:%s:%s", l.Kind, l.ID, l.Relation) }

func parseLink(s string) (link, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return link{}, fmt.Errorf("malformed link %q", s)
	}
	kind, err := parseKind(parts[0])
	if err != nil {
		return link{}, err
	}
	return link{Kind: kind, ID: parts[1], Relation: parts[2]}, nil
}

// registerEntityClasses declares Character, Place and Group against
// reg/codecs, lazily creating the String vector class and codec their
// Aka/Tags/Links fields need. It is idempotent: calling it twice on the
// same registry is a no-op the second time.
func registerEntityClasses(reg *reflect.Registry, codecs *databind.Registry) error {
	if _, ok := reg.ClassByName(string(kindCharacter)); ok {
		return nil
	}

	stringClass, ok := reg.ClassByName("String")
	if !ok {
		return fmt.Errorf("scenedemo: builtin String class not seeded")
	}
	u64Class, ok := reg.ClassByName("U64")
	if !ok {
		return fmt.Errorf("scenedemo: builtin U64 class not seeded")
	}

	vecClass, err := reflect.EnsureVectorClass(reg, stringClass)
	if err != nil {
		return fmt.Errorf("scenedemo: ensure StringStlVector class: %w", err)
	}
	if _, err := databind.EnsureCodec(reg, codecs, vecClass, func() (databind.Codec, error) {
		elemCodec, ok := codecs.Lookup(stringClass.Hash())
		if !ok {
			return nil, fmt.Errorf("scenedemo: String codec not bound")
		}
		return databind.NewVectorCodec(vecClass.Name(), elemCodec), nil
	}); err != nil {
		return fmt.Errorf("scenedemo: ensure StringStlVector codec: %w", err)
	}

	declare := func(c *reflect.Compositor) {
		c.Field("ID", stringClass)
		c.Field("Name", stringClass)
		c.Field("Aka", vecClass)
		c.Field("Summary", stringClass)
		c.Field("Details", stringClass)
		c.Field("Tags", vecClass)
		c.Field("Links", vecClass)
		c.Field("CreatedAt", u64Class)
		c.Field("UpdatedAt", u64Class)
	}

	for _, name := range []entityKind{kindCharacter, kindPlace, kindGroup} {
		if _, err := reg.RegisterClass(string(name), nil, &entity{}, func() reflect.Record { return &entity{} }, declare); err != nil {
			return fmt.Errorf("scenedemo: register %s class: %w", name, err)
		}
	}
	return nil
}

func newEntity(kind entityKind, reg *reflect.Registry, name string) (*entity, error) {
	class, ok := reg.ClassByName(string(kind))
	if !ok {
		return nil, fmt.Errorf("scenedemo: class %s not registered", kind)
	}
	rec, ok := reg.CreateInstance(class)
	if !ok {
		return nil, fmt.Errorf("scenedemo: could not instantiate %s", kind)
	}
	e := rec.(*entity)
	now := uint64(time.Now().Unix())
	e.ID = generateID(name)
	e.Name = name
	e.CreatedAt = now
	e.UpdatedAt = now
	return e, nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func anyToStrings(vs []any) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i], _ = v.(string)
	}
	return out
}

// spoolOf wraps a single record for the archive engine and asset
// store, both of which operate on spools rather than bare records.
func spoolOf(e *entity) []reflect.Record { return []reflect.Record{e} }
