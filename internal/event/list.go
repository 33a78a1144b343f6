package event

// List is an ordered sequence of records in arrival order. Records of one
// stream keep their chronological order; the interleaving of different
// streams carries no meaning.
type List []Record

// Len returns the number of records.
func (l List) Len() int { return len(l) }

// Filter returns the records that belong to the given stream, in order.
func (l List) Filter(pid ProcessID, tid ThreadID) List {
	out := make(List, 0, len(l))
	for _, rec := range l {
		if rec.ProcessID == pid && rec.ThreadID == tid {
			out = append(out, rec)
		}
	}
	return out
}

// Streams returns the distinct (process, thread) pairs in first-seen order.
func (l List) Streams() []Stream {
	seen := make(map[Stream]struct{})
	var out []Stream
	for _, rec := range l {
		s := rec.Stream()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Counts tallies records per phase.
func (l List) Counts() map[Phase]int {
	out := make(map[Phase]int)
	for _, rec := range l {
		out[rec.Phase]++
	}
	return out
}
