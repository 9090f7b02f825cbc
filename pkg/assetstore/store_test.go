package assetstore

import (
	"path/filepath"
	"testing"

	"github.com/kestrelforge/enginecore/pkg/archive"
	"github.com/kestrelforge/enginecore/pkg/databind"
	"github.com/kestrelforge/enginecore/pkg/reflect"
)

type note struct {
	reflect.Base
	Title string
	Count uint32
}

// newTestStore opens a Store over a temp-dir pebble instance and returns a
// fresh Note instance registered against that store's own engine.
func newTestStore(t *testing.T) (*Store, *note) {
	t.Helper()
	reg := reflect.NewRegistry()
	codecs := databind.NewRegistry()
	if err := databind.Seed(reg, codecs); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	stringClass, _ := reg.ClassByName("String")
	u32Class, _ := reg.ClassByName("U32")
	class, err := reg.RegisterClass("Note", nil, &note{}, func() reflect.Record { return &note{} },
		func(c *reflect.Compositor) {
			c.Field("Title", stringClass)
			c.Field("Count", u32Class)
		})
	if err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}
	engine := archive.NewEngine(reg, codecs)

	store, err := Open(filepath.Join(t.TempDir(), "assets"), engine)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	rec, ok := reg.CreateInstance(class)
	if !ok {
		t.Fatal("CreateInstance failed")
	}
	return store, rec.(*note)
}

func TestPutGetRoundTrip(t *testing.T) {
	store, n := newTestStore(t)
	n.Title = "hello"
	n.Count = 3

	id, err := store.Put([]reflect.Record{n})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Get returned %d records, want 1", len(got))
	}
	gotNote, ok := got[0].(*note)
	if !ok || gotNote.Title != "hello" || gotNote.Count != 3 {
		t.Fatalf("round trip = %+v", got[0])
	}
}

func TestPutGeneratesDistinctIDs(t *testing.T) {
	store, n := newTestStore(t)
	n.Title = "a"

	id1, err := store.Put([]reflect.Record{n})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := store.Put([]reflect.Record{n})
	if err != nil {
		t.Fatal(err)
	}
	if id1.String() == id2.String() {
		t.Fatal("two Put calls returned the same asset id")
	}
}

func TestGetUnknownIDFails(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Get(AssetID{}); err == nil {
		t.Fatal("expected Get on an unwritten id to fail")
	}
}

func TestDeleteThenGetFails(t *testing.T) {
	store, n := newTestStore(t)
	n.Title = "gone soon"

	id, err := store.Put([]reflect.Record{n})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(id); err == nil {
		t.Fatal("expected Get after Delete to fail")
	}
}

func TestDeleteUnwrittenIDIsNotAnError(t *testing.T) {
	store, n := newTestStore(t)
	id, err := store.Put([]reflect.Record{n})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(id); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(id); err != nil {
		t.Fatalf("second Delete of the same id returned an error: %v", err)
	}
}

func TestPutBytesGetBytesRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	id, err := store.PutBytes(payload)
	if err != nil {
		t.Fatalf("PutBytes: %v", err)
	}
	got, err := store.GetBytes(id)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("GetBytes = %v, want %v", got, payload)
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("GetBytes = %v, want %v", got, payload)
		}
	}
}

func TestParseAssetIDRoundTrip(t *testing.T) {
	store, n := newTestStore(t)
	id, err := store.Put([]reflect.Record{n})
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseAssetID(id.String())
	if err != nil {
		t.Fatalf("ParseAssetID: %v", err)
	}
	if parsed.String() != id.String() {
		t.Fatalf("ParseAssetID round trip = %s, want %s", parsed.String(), id.String())
	}
}

func TestParseAssetIDRejectsGarbage(t *testing.T) {
	if _, err := ParseAssetID("not-a-ksuid"); err == nil {
		t.Fatal("expected ParseAssetID to reject a malformed id")
	}
}
