package archive

import "github.com/kestrelforge/enginecore/pkg/reflect"

// refGraph tracks the set of records currently being walked during one
// serialize pass, so that reaching the same live record twice — two
// fields aliasing the same pointer — is reported as an AliasingError
// instead of silently duplicating it in the stream or recursing
// forever.
//
// It is deliberately scoped to a single Write call: nothing here
// persists past the call that created it, which keeps this from
// becoming the kind of durable, queryable relationship index the
// asset store explicitly avoids being.
type refGraph struct {
	visiting map[reflect.Record]bool
}

func newRefGraph() *refGraph {
	return &refGraph{visiting: make(map[reflect.Record]bool)}
}

// enter marks rec as being walked, failing if it is already on the
// walk.
func (g *refGraph) enter(rec reflect.Record) error {
	if g.visiting[rec] {
		return &AliasingError{Hash: rec.Class().Hash()}
	}
	g.visiting[rec] = true
	return nil
}

// leave un-marks rec once its subtree has finished writing.
func (g *refGraph) leave(rec reflect.Record) {
	delete(g.visiting, rec)
}
