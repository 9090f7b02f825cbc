package archive

import (
	"fmt"
	stdreflect "reflect"
	"strings"

	"github.com/kestrelforge/enginecore/pkg/databind"
	"github.com/kestrelforge/enginecore/pkg/reflect"
	"github.com/kestrelforge/enginecore/pkg/typeid"
	"github.com/kestrelforge/enginecore/pkg/wire"
)

// lengthPatch reserves a 4-byte placeholder in the stream and, once the
// bytes that follow it are known, seeks back and fills it in. Every
// element's length and every record's field count goes through one of
// these; the top-level CRC slot is reserved and patched by Engine.Write
// itself.
type lengthPatch struct {
	w      *wire.Writer
	offset int64
}

func reserveLength(w *wire.Writer) (*lengthPatch, error) {
	offset := w.Offset()
	if err := w.WriteU32(0); err != nil {
		return nil, streamErr("reserve length placeholder", err)
	}
	return &lengthPatch{w: w, offset: offset}, nil
}

func (p *lengthPatch) commit(value uint32) error {
	end := p.w.Offset()
	if _, err := p.w.Seek(p.offset, 0); err != nil {
		return streamErr("seek to length placeholder", err)
	}
	if err := p.w.WriteU32(value); err != nil {
		return streamErr("write patched length", err)
	}
	if _, err := p.w.Seek(end, 0); err != nil {
		return streamErr("seek past length placeholder", err)
	}
	return nil
}

// commitFromHere patches the reserved slot with the number of bytes
// written since the slot itself, i.e. length excludes the 4 bytes of
// the length field itself.
func (p *lengthPatch) commitFromHere() error {
	return p.commit(uint32(p.w.Offset() - (p.offset + 4)))
}

func isRecordContainerClass(name string) bool {
	return strings.HasSuffix(name, "ElementStlVector") || strings.HasSuffix(name, "ElementStlSet")
}

func isRecordMapClass(name string) bool {
	return strings.HasSuffix(name, "ElementStlMap")
}

// mapKeyCodecFor resolves the key codec for an ElementStlMap-family
// class by stripping the "ElementStlMap" suffix and looking up the
// remainder as a builtin primitive class name. The bare "ElementStlMap"
// name (no key prefix) falls back to TypeID, matching how the source
// catalogue's keyed variants (TypeIDElementStlMap and friends) are the
// concrete cases actually exercised.
func mapKeyCodecFor(engine *Engine, className string) (databind.Codec, error) {
	keyName := strings.TrimSuffix(className, "ElementStlMap")
	if keyName == "" {
		keyName = "TypeID"
	}
	keyClass, ok := engine.Registry.ClassByName(keyName)
	if !ok {
		return nil, fmt.Errorf("archive: %s: no builtin class named %q for map key", className, keyName)
	}
	codec, ok := engine.Codecs.Lookup(keyClass.Hash())
	if !ok {
		return nil, fmt.Errorf("archive: %s: no codec bound to key class %q", className, keyName)
	}
	return codec, nil
}

// ElementMapEntry is one key/record pair of an ElementStlMap-family
// field's value.
type ElementMapEntry struct {
	Key    any
	Record reflect.Record
}

// writeElement writes one class-hash-tagged, length-prefixed element:
// a Data-subtype payload via its bound codec, a record-vector/set field
// as a count-prefixed sequence of nested records, an
// ElementStlMap-family field as a count-prefixed sequence of key/record
// pairs, or a plain composite record via its own field walk. value's
// concrete type must match class's kind: the codec's expected Go
// representation, []reflect.Record, []ElementMapEntry, or
// reflect.Record respectively.
func (e *Engine) writeElement(w *wire.Writer, class *reflect.Class, value any, refs *refGraph) error {
	if !e.hasCodec(class) && !isRecordContainerClass(class.Name()) && !isRecordMapClass(class.Name()) {
		// writeRecordBody emits the composite's own class hash and
		// length, so no second header is written here.
		rec, ok := value.(reflect.Record)
		if !ok || rec == nil {
			return &LogicError{Reason: fmt.Sprintf("field of composite class %q must bind a non-nil Record value", class.Name())}
		}
		return e.writeRecordBody(w, rec, refs)
	}
	if err := w.WriteU32(uint32(class.Hash())); err != nil {
		return streamErr("write class hash", err)
	}
	patch, err := reserveLength(w)
	if err != nil {
		return err
	}

	switch {
	case e.hasCodec(class):
		codec, _ := e.Codecs.Lookup(class.Hash())
		if err := codec.Write(w, value); err != nil {
			return fmt.Errorf("archive: write %s: %w", class.Name(), err)
		}
	case isRecordContainerClass(class.Name()):
		children, ok := value.([]reflect.Record)
		if !ok {
			return &LogicError{Reason: fmt.Sprintf("field of class %q must bind a []reflect.Record value", class.Name())}
		}
		if err := w.WriteU32(uint32(len(children))); err != nil {
			return streamErr("write container count", err)
		}
		for _, child := range children {
			if err := e.writeRecord(w, child, refs); err != nil {
				return err
			}
		}
	case isRecordMapClass(class.Name()):
		entries, ok := value.([]ElementMapEntry)
		if !ok {
			return &LogicError{Reason: fmt.Sprintf("field of class %q must bind a []archive.ElementMapEntry value", class.Name())}
		}
		keyCodec, err := mapKeyCodecFor(e, class.Name())
		if err != nil {
			return &LogicError{Reason: err.Error()}
		}
		if err := w.WriteU32(uint32(len(entries))); err != nil {
			return streamErr("write map count", err)
		}
		for _, entry := range entries {
			if err := keyCodec.Write(w, entry.Key); err != nil {
				return fmt.Errorf("archive: write map key for %s: %w", class.Name(), err)
			}
			if err := e.writeRecord(w, entry.Record, refs); err != nil {
				return err
			}
		}
	}

	return patch.commitFromHere()
}

// writeRecord writes one child record of a record container or record
// map element. It writes no field-name hash; the record's own class
// hash and length come from writeRecordBody.
func (e *Engine) writeRecord(w *wire.Writer, rec reflect.Record, refs *refGraph) error {
	return e.writeRecordBody(w, rec, refs)
}

// writeRecordBody performs the actual class-hash/length/field-walk
// write for a composite record, without any field-name-hash prefix.
// Top-level spool entries call it directly; writeElement calls it for a
// nested composite field.
func (e *Engine) writeRecordBody(w *wire.Writer, rec reflect.Record, refs *refGraph) error {
	if rec == nil {
		return &LogicError{Reason: "nil record"}
	}
	if err := refs.enter(rec); err != nil {
		return err
	}
	defer refs.leave(rec)

	class := rec.Class()
	if err := w.WriteU32(uint32(class.Hash())); err != nil {
		return streamErr("write class hash", err)
	}
	patch, err := reserveLength(w)
	if err != nil {
		return err
	}

	if ps, ok := rec.(reflect.PreSerializer); ok {
		ps.PreSerialize()
	}

	fieldCountPatch, err := reserveLength(w)
	if err != nil {
		return err
	}
	count := uint32(0)
	for _, field := range class.Fields() {
		if field.Flags.Has(reflect.FieldDiscard) {
			continue
		}
		wrote, err := e.writeField(w, field, rec, refs)
		if err != nil {
			return err
		}
		if wrote {
			count++
		}
	}
	if err := w.WriteI32(recordTerminator); err != nil {
		return streamErr("write field terminator", err)
	}
	if err := fieldCountPatch.commit(count); err != nil {
		return err
	}

	if pss, ok := rec.(reflect.PostSerializer); ok {
		pss.PostSerialize()
	}

	return patch.commitFromHere()
}

// writeField writes one field, returning wrote=false if the field was
// elided (its live value equals a non-Force default, or it is an empty
// container, or a nil optional nested record without Force).
func (e *Engine) writeField(w *wire.Writer, field *reflect.Field, rec reflect.Record, refs *refGraph) (bool, error) {
	fv := field.Value(rec)
	native := fv.Interface()
	force := field.Flags.Has(reflect.FieldForce)

	if e.hasCodec(field.DataClass) {
		codec, _ := e.Codecs.Lookup(field.DataClass.Hash())
		if !force {
			if field.IsDefault(native) {
				return false, nil
			}
			if codec.IsEmpty(native) {
				return false, nil
			}
		}
	} else if isRecordContainerClass(field.DataClass.Name()) {
		children, _ := native.([]reflect.Record)
		if len(children) == 0 && !force {
			return false, nil
		}
	} else if isRecordMapClass(field.DataClass.Name()) {
		entries, _ := native.([]ElementMapEntry)
		if len(entries) == 0 && !force {
			return false, nil
		}
	} else {
		child, _ := native.(reflect.Record)
		if child == nil {
			if force {
				return false, &LogicError{Reason: fmt.Sprintf("field %q: nil nested record with Force flag set", field.Name)}
			}
			return false, nil
		}
	}

	if err := w.WriteU32(uint32(field.Hash)); err != nil {
		return false, streamErr("write field hash", err)
	}
	if err := e.writeElement(w, field.DataClass, native, refs); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) hasCodec(class *reflect.Class) bool {
	_, ok := e.Codecs.Lookup(class.Hash())
	return ok
}

// readOptions controls the reader's search-mode and sparse-retention
// behavior; see Engine.Read.
type readOptions struct {
	searchClass *reflect.Class
	sparse      bool
}

// readElement reads one class-hash-tagged, length-prefixed element and
// returns its decoded value: a codec's native Go representation, a
// []reflect.Record for a record container, a []ElementMapEntry for a
// record map, or a reflect.Record for a plain composite — or nil if the
// element's class hash is unknown to the registry, or was excluded by
// search-mode class filtering, in which case it was skipped by length
// instead of decoded. When the skip was due to an unknown class hash
// (as opposed to search-mode filtering), unknownHash carries that hash
// so a caller that can route it to a fallback handler — readField, via
// ProcessComponent — may still consume it; a caller with no such
// handler treats it as unrecoverable.
func (e *Engine) readElement(r *wire.Reader, opts readOptions) (val any, class *reflect.Class, unknownHash *typeid.Hash, err error) {
	rawHash, err := r.ReadU32()
	if err != nil {
		return nil, nil, nil, streamErr("read class hash", err)
	}
	hash := typeid.Hash(rawHash)
	length, err := r.ReadU32()
	if err != nil {
		return nil, nil, nil, streamErr("read element length", err)
	}

	class, ok := e.Registry.GetClass(hash)
	if !ok {
		if err := r.Skip(int64(length)); err != nil {
			return nil, nil, nil, streamErr("skip unknown element", err)
		}
		return nil, nil, &hash, nil
	}
	if opts.searchClass != nil && !class.HasType(opts.searchClass) {
		if err := r.Skip(int64(length)); err != nil {
			return nil, nil, nil, streamErr("skip filtered element", err)
		}
		return nil, nil, nil, nil
	}

	switch {
	case e.hasCodec(class):
		codec, _ := e.Codecs.Lookup(hash)
		val, err := codec.Read(r)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("archive: read %s: %w", class.Name(), err)
		}
		return val, class, nil, nil
	case isRecordContainerClass(class.Name()):
		count, err := r.ReadU32()
		if err != nil {
			return nil, nil, nil, streamErr("read container count", err)
		}
		children := make([]reflect.Record, 0, count)
		for i := uint32(0); i < count; i++ {
			child, err := e.readRecordBody(r, opts)
			if err != nil {
				return nil, nil, nil, err
			}
			if child != nil {
				children = append(children, child)
			}
		}
		return children, class, nil, nil
	case isRecordMapClass(class.Name()):
		keyCodec, err := mapKeyCodecFor(e, class.Name())
		if err != nil {
			return nil, nil, nil, &LogicError{Reason: err.Error()}
		}
		count, err := r.ReadU32()
		if err != nil {
			return nil, nil, nil, streamErr("read map count", err)
		}
		entries := make([]ElementMapEntry, 0, count)
		for i := uint32(0); i < count; i++ {
			key, err := keyCodec.Read(r)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("archive: read map key for %s: %w", class.Name(), err)
			}
			rec, err := e.readRecordBody(r, opts)
			if err != nil {
				return nil, nil, nil, err
			}
			if rec != nil {
				entries = append(entries, ElementMapEntry{Key: key, Record: rec})
			}
		}
		return entries, class, nil, nil
	default:
		rec, err := e.readRecordFields(r, class)
		if err != nil {
			return nil, nil, nil, err
		}
		return rec, class, nil, nil
	}
}

// readRecord reads a top-level spool entry.
func (e *Engine) readRecord(r *wire.Reader, opts readOptions) (reflect.Record, error) {
	return e.readRecordBody(r, opts)
}

// readRecordBody reads a full class-hash/length/payload element and
// asserts the decoded value is a composite record (or nil, if the
// element's class was unknown or filtered out by search mode).
func (e *Engine) readRecordBody(r *wire.Reader, opts readOptions) (reflect.Record, error) {
	val, class, _, err := e.readElement(r, opts)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	rec, ok := val.(reflect.Record)
	if !ok {
		return nil, &DataFormatError{Reason: fmt.Sprintf("expected composite record for class %q, got Data-subtype payload", class.Name())}
	}
	return rec, nil
}

// readRecordFields allocates an instance of class, invokes its
// PreDeserialize/PostDeserialize hooks, and populates it field by
// field. It returns a nil Record (without error) if PostDeserialize
// vetoes the load.
func (e *Engine) readRecordFields(r *wire.Reader, class *reflect.Class) (reflect.Record, error) {
	inst, ok := e.Registry.CreateInstance(class)
	if !ok {
		return nil, &LogicError{Reason: fmt.Sprintf("class %q has no registered creator", class.Name())}
	}
	if pd, ok := inst.(reflect.PreDeserializer); ok {
		pd.PreDeserialize()
	}

	fieldCount, err := r.ReadU32()
	if err != nil {
		return nil, streamErr("read field count", err)
	}
	for i := uint32(0); i < fieldCount; i++ {
		if err := e.readField(r, inst, class); err != nil {
			return nil, err
		}
	}
	term, err := r.ReadI32()
	if err != nil {
		return nil, streamErr("read field terminator", err)
	}
	if term != recordTerminator {
		return nil, &DataFormatError{Reason: fmt.Sprintf("class %q: missing field-list terminator", class.Name())}
	}

	if pd, ok := inst.(reflect.PostDeserializer); ok {
		if !pd.PostDeserialize() {
			return nil, nil
		}
	}
	return inst, nil
}

// readField reads one [field-name-hash][element] pair and binds it to
// rec. Decoding dispatches on the stream's own class hash rather than
// the compiled field's declared class — a renamed or retyped field
// still round-trips as long as a cast or ProcessComponent fallback can
// absorb the difference, per this format's forward/backward
// compatibility guarantees.
func (e *Engine) readField(r *wire.Reader, rec reflect.Record, class *reflect.Class) error {
	rawFieldHash, err := r.ReadU32()
	if err != nil {
		return streamErr("read field hash", err)
	}
	fieldHash := typeid.Hash(rawFieldHash)

	value, streamClass, unknownHash, err := e.readElement(r, readOptions{})
	if err != nil {
		return err
	}
	if unknownHash != nil {
		// The element itself was already skipped by length, so there's
		// no payload left to hand a fallback — only the fact that this
		// field named a type the registry doesn't know.
		if cp, ok := rec.(reflect.ComponentProcessor); ok {
			cp.ProcessComponent(fmt.Sprintf("%s", *unknownHash), nil)
			return nil
		}
		return &TypeInformationError{Hash: *unknownHash}
	}

	compiled, found := class.FindFieldByNameHash(fieldHash)
	if value == nil {
		// A nested record whose PostDeserialize vetoed the load; nothing
		// to bind.
		return nil
	}
	if !found {
		if cp, ok := rec.(reflect.ComponentProcessor); ok {
			cp.ProcessComponent(fmt.Sprintf("%s", fieldHash), value)
		}
		return nil
	}

	if streamClass.Hash() == compiled.DataClass.Hash() {
		return setFieldValue(compiled, rec, value)
	}

	casted, castErr := e.castElement(compiled.DataClass, streamClass, value)
	if castErr != nil {
		if cp, ok := rec.(reflect.ComponentProcessor); ok {
			cp.ProcessComponent(compiled.Name, value)
		}
		return nil
	}
	return setFieldValue(compiled, rec, casted)
}

// castElement attempts to coerce a decoded stream value from streamClass
// into dst's representation, delegating to databind.Cast for
// codec-backed classes. Non-codec classes (composite records, record
// containers/maps) have no cast path and always fail closed into the
// ProcessComponent fallback.
func (e *Engine) castElement(dst, streamClass *reflect.Class, value any) (any, error) {
	dstCodec, dstOK := e.Codecs.Lookup(dst.Hash())
	srcCodec, srcOK := e.Codecs.Lookup(streamClass.Hash())
	if !dstOK || !srcOK {
		return nil, &LogicError{Reason: "no cast path between non-codec classes"}
	}
	return databind.Cast(dstCodec, srcCodec, value, true)
}

func setFieldValue(field *reflect.Field, rec reflect.Record, value any) error {
	fv := field.Value(rec)
	rv := stdreflect.ValueOf(value)
	if !rv.Type().AssignableTo(fv.Type()) {
		if rv.Type().ConvertibleTo(fv.Type()) {
			rv = rv.Convert(fv.Type())
		} else {
			return &DataFormatError{Reason: fmt.Sprintf("field %q: decoded %s not assignable to %s", field.Name, rv.Type(), fv.Type())}
		}
	}
	fv.Set(rv)
	return nil
}
