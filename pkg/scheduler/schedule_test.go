package scheduler

import (
	"errors"
	"reflect"
	"testing"
)

func TestCalculateScheduleOrdersByContract(t *testing.T) {
	s := NewScheduler()

	var order []string
	record := func(name string) TaskFunc {
		return func([]any) { order = append(order, name) }
	}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(s.DefineTask("ReadInput", record("ReadInput"), TickAll, nil))
	must(s.DefineTask("ApplyMovement", record("ApplyMovement"), TickAll, func(c *TaskContract) {
		c.ExecuteAfter(Tag("ReadInput"))
	}))
	must(s.DefineTask("StepPhysics", record("StepPhysics"), TickAll, func(c *TaskContract) {
		c.ExecuteAfter(Tag("ApplyMovement"))
	}))

	if err := s.CalculateSchedule(TickAll); err != nil {
		t.Fatalf("CalculateSchedule: %v", err)
	}
	got := s.Schedule()
	want := []string{"ReadInput", "ApplyMovement", "StepPhysics"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Schedule() = %v, want %v", got, want)
	}

	s.ExecuteSchedule(nil)
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("execution order = %v, want %v", order, want)
	}
}

func TestCalculateScheduleIsDeterministic(t *testing.T) {
	build := func() *Scheduler {
		s := NewScheduler()
		_ = s.DefineTask("C", func([]any) {}, TickAll, func(c *TaskContract) { c.ExecuteAfter(Tag("A")) })
		_ = s.DefineTask("B", func([]any) {}, TickAll, func(c *TaskContract) { c.ExecuteAfter(Tag("A")) })
		_ = s.DefineTask("A", func([]any) {}, TickAll, nil)
		return s
	}

	s1 := build()
	if err := s1.CalculateSchedule(TickAll); err != nil {
		t.Fatal(err)
	}
	s2 := build()
	if err := s2.CalculateSchedule(TickAll); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s1.Schedule(), s2.Schedule()) {
		t.Fatalf("schedules differ across identical contract sets: %v vs %v", s1.Schedule(), s2.Schedule())
	}
}

func TestCalculateScheduleContributesFanOut(t *testing.T) {
	s := NewScheduler()
	movement := s.DeclareAbstractTask("Movement")

	var order []string
	record := func(name string) TaskFunc {
		return func([]any) { order = append(order, name) }
	}

	_ = s.DefineTask("ApplyPlayerMovement", record("ApplyPlayerMovement"), TickAll, func(c *TaskContract) {
		c.Contributes(movement)
	})
	_ = s.DefineTask("ApplyAIMovement", record("ApplyAIMovement"), TickAll, func(c *TaskContract) {
		c.Contributes(movement)
	})
	_ = s.DefineTask("StepPhysics", record("StepPhysics"), TickAll, func(c *TaskContract) {
		c.ExecuteAfter(movement)
	})

	if err := s.CalculateSchedule(TickAll); err != nil {
		t.Fatal(err)
	}
	s.ExecuteSchedule(nil)

	if len(order) != 3 || order[2] != "StepPhysics" {
		t.Fatalf("order = %v, want StepPhysics last after both movement contributors", order)
	}
}

func TestCalculateScheduleDetectsCycle(t *testing.T) {
	s := NewScheduler()
	_ = s.DefineTask("A", func([]any) {}, TickAll, func(c *TaskContract) { c.ExecuteAfter(Tag("B")) })
	_ = s.DefineTask("B", func([]any) {}, TickAll, func(c *TaskContract) { c.ExecuteAfter(Tag("A")) })

	err := s.CalculateSchedule(TickAll)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	var cyc *DependencyCycle
	if !errors.As(err, &cyc) {
		t.Fatalf("error = %v (%T), want *DependencyCycle", err, err)
	}
	if len(cyc.Edges) == 0 {
		t.Fatal("DependencyCycle.Edges is empty")
	}
	if !errors.Is(err, ErrCycle) {
		t.Fatal("errors.Is(err, ErrCycle) = false")
	}
}

func TestCalculateSchedulePhaseMaskFiltersTasksButKeepsOrdering(t *testing.T) {
	s := NewScheduler()
	_ = s.DefineTask("ReadInput", func([]any) {}, TickReceiveInput, nil)
	_ = s.DefineTask("StepPhysics", func([]any) {}, TickProcessPhysics, func(c *TaskContract) {
		c.ExecuteAfter(Tag("ReadInput"))
	})

	if err := s.CalculateSchedule(TickReceiveInput); err != nil {
		t.Fatal(err)
	}
	got := s.Schedule()
	if !reflect.DeepEqual(got, []string{"ReadInput"}) {
		t.Fatalf("Schedule() = %v, want [ReadInput]", got)
	}
}

func TestRegisterTaskDuplicateNameFails(t *testing.T) {
	s := NewScheduler()
	if err := s.RegisterTask("Dup", nil, TickAll, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterTask("Dup", nil, TickAll, nil); err == nil {
		t.Fatal("expected duplicate task registration to fail")
	}
}

func TestDeclareAbstractTaskIsIdempotent(t *testing.T) {
	s := NewScheduler()
	tag1 := s.DeclareAbstractTask("Movement")
	tag2 := s.DeclareAbstractTask("Movement")
	if tag1 != tag2 {
		t.Fatalf("tag1 = %v, tag2 = %v, want equal", tag1, tag2)
	}
	if len(s.tasks) != 1 {
		t.Fatalf("declaring twice registered %d tasks, want 1", len(s.tasks))
	}
}

func TestRegisterStandardPhasesChainsInOrder(t *testing.T) {
	s := NewScheduler()
	tags := RegisterStandardPhases(s)
	if len(tags) != len(StandardPhases) {
		t.Fatalf("got %d tags, want %d", len(tags), len(StandardPhases))
	}
	for i, name := range StandardPhases {
		if string(tags[i]) != name {
			t.Fatalf("tags[%d] = %s, want %s", i, tags[i], name)
		}
	}

	// The phase anchors have no function, so they are compacted out of
	// the schedule; their chain still orders a task contributing to an
	// earlier phase before a task ordered after a later one.
	_ = s.DefineTask("StepPhysics", func([]any) {}, TickAll, func(c *TaskContract) {
		c.Contributes(tags[2]) // ProcessPhysics phase
	})
	_ = s.DefineTask("Render3D", func([]any) {}, TickAll, func(c *TaskContract) {
		c.ExecuteAfter(tags[4]) // Render phase
	})
	if err := s.CalculateSchedule(TickAll); err != nil {
		t.Fatal(err)
	}
	got := s.Schedule()
	physicsIdx, taskIdx := -1, -1
	for i, name := range got {
		if name == "StepPhysics" {
			physicsIdx = i
		}
		if name == "Render3D" {
			taskIdx = i
		}
	}
	if physicsIdx == -1 || taskIdx == -1 || taskIdx < physicsIdx {
		t.Fatalf("Render3D did not land after the physics phase through the phase chain: %v", got)
	}
}
