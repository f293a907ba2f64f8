package store

// Initial identifiers for each entity kind.
const (
	firstUserID    = 1
	firstOrderID   = 12345
	firstTaskID    = 1
	firstEventID   = 1
	firstMetricsID = 1
)

// idSequence hands out increasing ids for one entity kind. Ids are never
// reused, even after the record holding them is deleted. Callers serialize
// access.
type idSequence struct {
	next int
}

func newIDSequence(first int) idSequence {
	return idSequence{next: first}
}

func (s *idSequence) take() int {
	id := s.next
	s.next++
	return id
}

// peek returns the id the next take will return.
func (s *idSequence) peek() int {
	return s.next
}
