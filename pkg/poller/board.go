package poller

// Board is the set of entries currently on display, oldest first. It is
// not safe for concurrent use; renderers own one each.
type Board struct {
	entries []Entry
}

// Apply adds a shown entry or removes an expired one.
func (b *Board) Apply(ev Event) {
	switch ev.Type {
	case Shown:
		b.entries = append(b.entries, ev.Entry)
	case Expired:
		for i, e := range b.entries {
			if e.ID == ev.Entry.ID {
				b.entries = append(b.entries[:i], b.entries[i+1:]...)
				return
			}
		}
	}
}

// Entries returns the entries on display.
func (b *Board) Entries() []Entry {
	return b.entries
}

// Len returns the number of entries on display.
func (b *Board) Len() int {
	return len(b.entries)
}
