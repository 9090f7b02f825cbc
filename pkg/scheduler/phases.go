package scheduler

// StandardPhases lists the engine's default tick-phase backbone, in
// execution order.
var StandardPhases = []string{
	"ReceiveInput",
	"PrePhysicsGameplay",
	"ProcessPhysics",
	"PostPhysicsGameplay",
	"Render",
	"PostRender",
}

// RegisterStandardPhases declares the standard phase backbone as a
// chain of abstract anchor tasks, each ordered After the previous
// phase's tag. Application tasks attach to this backbone by contract —
// ExecuteAfter(tags[0]), ExecuteBefore(tags[3]), and so on — rather
// than inventing their own root ordering relative to other gameplay
// tasks directly, matching the source engine's phase-relative
// scheduling convention. It returns the declared tags in phase order.
func RegisterStandardPhases(s *Scheduler) []Tag {
	tags := make([]Tag, len(StandardPhases))
	var prev Tag
	for i, name := range StandardPhases {
		name, i, prevTag := name, i, prev
		tag := Tag(name)
		if _, exists := s.byName[name]; !exists {
			_ = s.RegisterTask(name, nil, TickAll, func(c *TaskContract) {
				c.Contributes(tag)
				if i > 0 {
					c.ExecuteAfter(prevTag)
				}
			})
		}
		tags[i] = tag
		prev = tag
	}
	return tags
}
