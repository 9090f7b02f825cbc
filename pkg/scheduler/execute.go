package scheduler

// ExecuteSchedule runs every surviving task from the most recent
// CalculateSchedule call, in order, passing worlds through unchanged.
// It is a no-op if CalculateSchedule has not been called successfully,
// or produced an empty schedule. The scheduler itself is
// single-threaded and imposes no internal parallelism; a host wanting
// concurrent phases would need to partition worlds and call
// ExecuteSchedule once per partition itself.
func (s *Scheduler) ExecuteSchedule(worlds []any) {
	for _, t := range s.cached {
		t.fn(worlds)
	}
}

// Schedule returns the task names in the most recently calculated
// execution order, for diagnostics (the administrative HTTP surface's
// schedule-plan endpoint prints this without executing anything).
func (s *Scheduler) Schedule() []string {
	names := make([]string, len(s.cached))
	for i, t := range s.cached {
		names[i] = t.Name()
	}
	return names
}
