package reflect

import "github.com/kestrelforge/enginecore/pkg/typeid"

// typeIndex is the registry's hash-ordered catalogue of type entries.
//
// It began life as a general-purpose concurrent B+Tree (one latch per
// node, arbitrary comparable keys) but the registry's single-writer/
// many-reader contract makes that machinery pointless: registration only
// ever happens on one goroutine at a time by contract, and lookups never
// mutate, so a plain hash-ordered slice with binary search gives the same
// deterministic, alias-friendly iteration order the original tree gave
// without paying for per-node locks nobody needs. Insertion is the rare
// operation here (startup and the occasional plugin registering a type);
// lookup is the hot path, so an O(log n) binary search against a flat
// slice is the right trade.
type typeIndex struct {
	keys    []typeid.Hash
	entries []*typeEntry
}

func newTypeIndex() *typeIndex {
	return &typeIndex{}
}

// search returns the position of hash in the sorted key slice, and
// whether it was found. When not found, the position is where it should
// be inserted to keep the slice sorted.
func (t *typeIndex) search(hash typeid.Hash) (int, bool) {
	lo, hi := 0, len(t.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case t.keys[mid] == hash:
			return mid, true
		case t.keys[mid] < hash:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// Get returns the entry registered under hash, if any.
func (t *typeIndex) Get(hash typeid.Hash) (*typeEntry, bool) {
	idx, ok := t.search(hash)
	if !ok {
		return nil, false
	}
	return t.entries[idx], true
}

// Insert adds a new (hash, entry) pair. It reports false without
// modifying the index if hash is already present — the registry
// translates that into DuplicateHash.
func (t *typeIndex) Insert(hash typeid.Hash, entry *typeEntry) bool {
	idx, ok := t.search(hash)
	if ok {
		return false
	}
	t.keys = append(t.keys, 0)
	copy(t.keys[idx+1:], t.keys[idx:])
	t.keys[idx] = hash

	t.entries = append(t.entries, nil)
	copy(t.entries[idx+1:], t.entries[idx:])
	t.entries[idx] = entry
	return true
}

// Range walks entries in ascending hash order, stopping early if fn
// returns false. This backs deterministic diagnostics dumps (the
// administrative HTTP surface's /types endpoint) and alias enumeration.
func (t *typeIndex) Range(fn func(hash typeid.Hash, entry *typeEntry) bool) {
	for i, k := range t.keys {
		if !fn(k, t.entries[i]) {
			return
		}
	}
}

// Len returns the number of distinct hashes stored (aliases of the same
// entry are not counted twice; they live in the registry's separate
// alias map).
func (t *typeIndex) Len() int { return len(t.keys) }
