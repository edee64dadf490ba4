package toggle

import (
	"time"

	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/motion"
)

// stepper runs a frame callback only while one of its tracks animates.
type stepper struct {
	sched  *frame.Scheduler
	tracks []*motion.Track
	handle *frame.Handle
}

func (s *stepper) kick() {
	if s.handle.Active() {
		return
	}
	s.handle = s.sched.EachFrame(func(dt time.Duration) {
		busy := false
		for _, tr := range s.tracks {
			tr.Step(dt)
			busy = busy || tr.Active()
		}
		if !busy {
			s.handle.Cancel()
		}
	})
}

func (s *stepper) stop() {
	s.handle.Cancel()
	for _, tr := range s.tracks {
		tr.Stop()
	}
}
