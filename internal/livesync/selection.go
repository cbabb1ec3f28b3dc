package livesync

import "sync"

type selectionState int

const (
	selectionUnset selectionState = iota
	selectionChosen
	selectionCleared
)

// Selection tracks a user's choice of one entity, for example the project
// whose tasks are shown. The first element of a push becomes the default
// only while nothing has been chosen; an explicit deselection is never
// overridden.
type Selection struct {
	mu       sync.Mutex
	id       string
	state    selectionState
	onChange func(id string)
}

// NewSelection creates an unset selection. onChange, if non-nil, is called
// with the new id ("" when cleared) whenever the selection changes.
func NewSelection(onChange func(id string)) *Selection {
	return &Selection{onChange: onChange}
}

// Offer proposes id as the default. It reports whether it was taken.
func (s *Selection) Offer(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	if s.state != selectionUnset {
		s.mu.Unlock()
		return false
	}
	s.id = id
	s.state = selectionChosen
	s.mu.Unlock()

	s.notify(id)
	return true
}

// Select chooses id explicitly.
func (s *Selection) Select(id string) {
	if id == "" {
		s.Deselect()
		return
	}
	s.mu.Lock()
	changed := s.id != id || s.state != selectionChosen
	s.id = id
	s.state = selectionChosen
	s.mu.Unlock()

	if changed {
		s.notify(id)
	}
}

// Deselect clears the selection and stops defaults from being applied.
func (s *Selection) Deselect() {
	s.mu.Lock()
	changed := s.state != selectionCleared
	s.id = ""
	s.state = selectionCleared
	s.mu.Unlock()

	if changed {
		s.notify("")
	}
}

// Reset forgets the selection, including an explicit deselection, so the
// next offer becomes the default again. Used when the selected entity is
// deleted.
func (s *Selection) Reset() {
	s.mu.Lock()
	changed := s.state == selectionChosen
	s.id = ""
	s.state = selectionUnset
	s.mu.Unlock()

	if changed {
		s.notify("")
	}
}

// Current returns the selected id and whether one is selected.
func (s *Selection) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.state == selectionChosen
}

func (s *Selection) notify(id string) {
	if s.onChange != nil {
		s.onChange(id)
	}
}
