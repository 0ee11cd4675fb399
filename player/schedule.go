package player

import (
	"badc0de.net/pkg/go-stb/character"
)

// schedule tracks which frame is displayed as ticks elapse.
type schedule struct {
	durations []int
	started   bool
	position  int
	ticks     int
}

func newSchedule(a *character.Animation) *schedule {
	s := &schedule{durations: make([]int, len(a.Frames))}
	for i, f := range a.Frames {
		s.durations[i] = f.Duration
	}
	return s
}

// tick advances the schedule by one tick and reports the displayed
// position, and whether it has to be presented.
func (s *schedule) tick() (int, bool) {
	if !s.started {
		s.started = true
		return s.position, true
	}
	s.ticks++
	if s.ticks >= s.durations[s.position] {
		s.position = (s.position + 1) % len(s.durations)
		s.ticks = 0
		return s.position, true
	}
	return s.position, false
}
