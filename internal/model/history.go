package model

// History is the ordered list of identifiers looked up in this session.
//
// Insertion order is preserved and duplicates are never stored. The zero
// value is an empty, ready-to-use history. History is not safe for
// concurrent use; it is owned by the single interaction loop.
type History struct {
	entries []Identifier
}

// Add appends id if it is not already present.
// It reports whether the history changed. Adding an identifier that is
// already present is a no-op, and the existing position is kept.
func (h *History) Add(id Identifier) bool {
	if h.Contains(id) {
		return false
	}
	h.entries = append(h.entries, id)
	return true
}

// Contains reports whether id has been looked up in this session.
func (h *History) Contains(id Identifier) bool {
	for _, e := range h.entries {
		if e == id {
			return true
		}
	}
	return false
}

// Len returns the number of distinct identifiers recorded.
func (h *History) Len() int {
	return len(h.entries)
}

// At returns the entry at a 1-based position, matching how entries are
// numbered when listed to the user.
func (h *History) At(pos int) (Identifier, bool) {
	if pos < 1 || pos > len(h.entries) {
		return "", false
	}
	return h.entries[pos-1], true
}

// Latest returns the most recently added identifier, if any.
func (h *History) Latest() (Identifier, bool) {
	return h.At(len(h.entries))
}

// Entries returns a copy of the history in insertion order.
// Returns an empty (non-nil) slice when nothing was recorded, so JSON
// output shows [] instead of null.
func (h *History) Entries() []Identifier {
	out := make([]Identifier, len(h.entries))
	copy(out, h.entries)
	return out
}
