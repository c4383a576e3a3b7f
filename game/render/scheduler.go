package render

// Scheduler coalesces draw requests into at most one pending pass
type Scheduler struct {
	pending    bool
	requested  uint64
	drawn      uint64
	superseded uint64
}

// Request marks a draw pass as pending. A request made while another is
// still pending supersedes it.
func (s *Scheduler) Request() {
	if s.pending {
		s.superseded++
	}
	s.pending = true
	s.requested++
}

// Pending reports whether a pass is waiting to be drawn.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Flush runs draw once if a pass is pending and reports whether it ran.
func (s *Scheduler) Flush(draw func()) bool {
	if !s.pending {
		return false
	}
	s.pending = false
	s.drawn++
	draw()
	return true
}

// Stats reports request, draw and supersede counts.
func (s *Scheduler) Stats() (requested, drawn, superseded uint64) {
	return s.requested, s.drawn, s.superseded
}
