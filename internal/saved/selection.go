package saved

import "slices"

// Selection tracks checked items in the saved list.
//
// When inverted, the checked set lists the items left out of the selection.
type Selection struct {
	checked  map[int64]struct{}
	inverted bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{checked: make(map[int64]struct{})}
}

// Toggle flips the checked state of id.
func (s *Selection) Toggle(id int64) {
	if _, ok := s.checked[id]; ok {
		delete(s.checked, id)
		return
	}
	s.checked[id] = struct{}{}
}

// CheckAll selects every item.
func (s *Selection) CheckAll() {
	clear(s.checked)
	s.inverted = true
}

// Invert swaps selected and unselected items.
func (s *Selection) Invert() {
	s.inverted = !s.inverted
}

// Clear drops the selection.
func (s *Selection) Clear() {
	clear(s.checked)
	s.inverted = false
}

// Inverted reports whether the checked set is an exclusion list.
func (s *Selection) Inverted() bool {
	return s.inverted
}

// Checked returns the checked IDs in ascending order.
func (s *Selection) Checked() []int64 {
	ids := make([]int64, 0, len(s.checked))
	for id := range s.checked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// IsSelected reports whether id is part of the selection.
func (s *Selection) IsSelected(id int64) bool {
	_, ok := s.checked[id]
	return ok != s.inverted
}

// Count returns the number of selected items out of total.
func (s *Selection) Count(total int) int {
	if s.inverted {
		return max(total-len(s.checked), 0)
	}
	return len(s.checked)
}

// Empty reports whether nothing is selected explicitly.
func (s *Selection) Empty() bool {
	return !s.inverted && len(s.checked) == 0
}

// Clone returns an independent copy of the selection.
func (s *Selection) Clone() *Selection {
	c := &Selection{checked: make(map[int64]struct{}, len(s.checked)), inverted: s.inverted}
	for id := range s.checked {
		c.checked[id] = struct{}{}
	}
	return c
}
