package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/kestrelforge/enginecore/pkg/assetstore"
	"github.com/kestrelforge/enginecore/pkg/databind"
	"github.com/kestrelforge/enginecore/pkg/reflect"

	"github.com/kestrelforge/enginecore/pkg/archive"
)

// indexEntry is one row of the human-readable-ID-to-AssetID sidecar.
// pkg/assetstore is deliberately not a queryable database — no
// secondary indexes, no browsing by name — so a tool that wants to
// look entities up by a slug instead of an opaque asset id keeps that
// mapping itself, the same way the archive format leaves indexing
// entirely up to the application.
type indexEntry struct {
	Kind    entityKind `json:"kind"`
	AssetID string     `json:"asset_id"`
}

// SceneStore persists Character/Place/Group entities as single-record
// spools in an assetstore.Store, keeping its own slug index alongside
// the pebble database so entities can be listed and fetched by name.
type SceneStore struct {
	dataDir   string
	indexPath string
	registry  *reflect.Registry
	codecs    *databind.Registry
	engine    *archive.Engine
	assets    *assetstore.Store
	index     map[string]indexEntry
}

// OpenSceneStore wires a fresh reflect.Registry/databind.Registry/
// archive.Engine — the same chain di.Container assembles for the
// administrative server — plus an assetstore.Store rooted at dataDir,
// and loads the slug index from disk if present.
func OpenSceneStore(dataDir string) (*SceneStore, error) {
	registry := reflect.NewRegistry()
	codecs := databind.NewRegistry()
	if err := databind.Seed(registry, codecs); err != nil {
		return nil, fmt.Errorf("scenedemo: seed registry: %w", err)
	}
	if err := registerEntityClasses(registry, codecs); err != nil {
		return nil, err
	}

	engine := archive.NewEngine(registry, codecs)

	assetsDir := filepath.Join(dataDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("scenedemo: create data dir: %w", err)
	}
	assets, err := assetstore.Open(assetsDir, engine)
	if err != nil {
		return nil, fmt.Errorf("scenedemo: open asset store: %w", err)
	}

	s := &SceneStore{
		dataDir:   dataDir,
		indexPath: filepath.Join(dataDir, "index.json"),
		registry:  registry,
		codecs:    codecs,
		engine:    engine,
		assets:    assets,
		index:     make(map[string]indexEntry),
	}
	if err := s.loadIndex(); err != nil {
		assets.Close()
		return nil, err
	}
	return s, nil
}

func (s *SceneStore) Close() error {
	return s.assets.Close()
}

func (s *SceneStore) loadIndex() error {
	data, err := os.ReadFile(s.indexPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scenedemo: read index: %w", err)
	}
	return json.Unmarshal(data, &s.index)
}

func (s *SceneStore) saveIndex() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.indexPath, data, 0o600)
}

func makeKey(kind entityKind, id string) string {
	return fmt.Sprintf("%s:%s", strings.ToLower(string(kind)), id)
}

// generateID slugifies name into a stable, filesystem- and key-safe
// identifier, matching the format the original lore tool's own
// generateID produced.
func generateID(name string) string {
	id := strings.ToLower(name)
	id = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(id, "-")
	id = strings.Trim(id, "-")
	if id == "" {
		id = "unnamed"
	}
	return id
}

// PutEntity archives e as a single-record spool and records or updates
// its slug in the index. The asset that previously backed e's slug, if
// any, is deleted once the new one is safely written.
func (s *SceneStore) PutEntity(e *entity) error {
	key := makeKey(e.Kind(), e.ID)
	prev, hadPrev := s.index[key]

	id, err := s.assets.Put(spoolOf(e))
	if err != nil {
		return fmt.Errorf("scenedemo: put %s: %w", key, err)
	}

	s.index[key] = indexEntry{Kind: e.Kind(), AssetID: id.String()}
	if err := s.saveIndex(); err != nil {
		return err
	}

	if hadPrev {
		if prevID, err := assetstore.ParseAssetID(prev.AssetID); err == nil {
			_ = s.assets.Delete(prevID)
		}
	}
	return nil
}

func (s *SceneStore) GetEntity(kind entityKind, id string) (*entity, error) {
	entry, ok := s.index[makeKey(kind, id)]
	if !ok {
		return nil, fmt.Errorf("%s %q not found", kind, id)
	}
	assetID, err := assetstore.ParseAssetID(entry.AssetID)
	if err != nil {
		return nil, err
	}
	spool, err := s.assets.Get(assetID)
	if err != nil {
		return nil, fmt.Errorf("scenedemo: get %s:%s: %w", kind, id, err)
	}
	if len(spool) != 1 {
		return nil, fmt.Errorf("scenedemo: %s:%s: expected a single-record spool, got %d", kind, id, len(spool))
	}
	e, ok := spool[0].(*entity)
	if !ok {
		return nil, fmt.Errorf("scenedemo: %s:%s: unexpected record type %T", kind, id, spool[0])
	}
	return e, nil
}

func (s *SceneStore) EntityExists(kind entityKind, id string) bool {
	_, ok := s.index[makeKey(kind, id)]
	return ok
}

func (s *SceneStore) DeleteEntity(kind entityKind, id string) error {
	key := makeKey(kind, id)
	entry, ok := s.index[key]
	if !ok {
		return fmt.Errorf("%s %q not found", kind, id)
	}
	if assetID, err := assetstore.ParseAssetID(entry.AssetID); err == nil {
		if err := s.assets.Delete(assetID); err != nil {
			return err
		}
	}
	delete(s.index, key)
	return s.saveIndex()
}

// ListEntities returns every entity of kind, ordered by ID for
// deterministic output.
func (s *SceneStore) ListEntities(kind entityKind) ([]*entity, error) {
	var ids []string
	prefix := strings.ToLower(string(kind)) + ":"
	for key, entry := range s.index {
		if entry.Kind == kind && strings.HasPrefix(key, prefix) {
			ids = append(ids, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(ids)

	entities := make([]*entity, 0, len(ids))
	for _, id := range ids {
		e, err := s.GetEntity(kind, id)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// FindReferencing scans every registered entity for a Links entry that
// names (kind, id) as its target, returning the referencing entity and
// the matched link. A full scan is a deliberate simplification here:
// pkg/assetstore has no secondary index to drive an incoming-edge query
// off of, and this demo tool's scale never warrants building one.
func (s *SceneStore) FindReferencing(kind entityKind, id string) ([]struct {
	From *entity
	Link link
}, error) {
	var results []struct {
		From *entity
		Link link
	}
	for key := range s.index {
		parts := strings.SplitN(key, ":", 2)
		if len(parts) != 2 {
			continue
		}
		fromKind, err := parseKind(parts[0])
		if err != nil {
			continue
		}
		from, err := s.GetEntity(fromKind, parts[1])
		if err != nil {
			continue
		}
		for _, raw := range anyToStrings(from.Links) {
			l, err := parseLink(raw)
			if err != nil {
				continue
			}
			if l.Kind == kind && l.ID == id {
				results = append(results, struct {
					From *entity
					Link link
				}{From: from, Link: l})
			}
		}
	}
	return results, nil
}
