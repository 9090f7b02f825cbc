// Package scheduler implements the engine's declarative task ordering
// system: tasks declare intent against abstract dependency tags rather
// than against each other directly, and CalculateSchedule resolves
// those declarations into a concrete, cycle-checked execution order.
//
// The dependency-graph construction and cycle detection here are
// grounded on the DAG package of a different repository in this
// codebase's own dependency-graph tooling lineage, not on freyjadb —
// freyjadb has no scheduler of its own, so this package borrows the
// graph-theory shape (deterministic canonical ordering, DFS-based cycle
// reporting) from that tooling and adapts it to tag-based contracts
// instead of explicit task-to-task edges.
package scheduler

// Tag is an abstract dependency name. Tasks contribute to tags and
// order themselves relative to tags, never directly to other tasks by
// name — except that every task implicitly contributes to a
// reverse-lookup tag equal to its own name, which is how
// ExecuteBefore/ExecuteAfter against a concrete task name resolves
// through the same mechanism as ordering against an abstract tag.
type Tag string

// Direction distinguishes the two ordering requirements a contract can
// declare against a tag.
type Direction uint8

const (
	Before Direction = iota
	After
)

// OrderRequirement is one ordering declaration a task's contract makes
// against a tag.
type OrderRequirement struct {
	Tag       Tag
	Direction Direction
}

// TaskContract accumulates one task's contribution and ordering
// declarations for a single CalculateSchedule pass. A fresh contract is
// built for every task on every call, so stale declarations from a
// previous schedule never leak forward.
type TaskContract struct {
	contributes  []Tag
	requirements []OrderRequirement
}

// Contributes declares that the owning task is one of the contributors
// to tag: other tasks ordering against tag will include this one.
func (c *TaskContract) Contributes(tag Tag) {
	c.contributes = append(c.contributes, tag)
}

// ExecuteBefore declares that the owning task must run before every
// current contributor to tag.
func (c *TaskContract) ExecuteBefore(tag Tag) {
	c.requirements = append(c.requirements, OrderRequirement{Tag: tag, Direction: Before})
}

// ExecuteAfter declares that the owning task must run after every
// current contributor to tag.
func (c *TaskContract) ExecuteAfter(tag Tag) {
	c.requirements = append(c.requirements, OrderRequirement{Tag: tag, Direction: After})
}
