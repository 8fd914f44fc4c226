package task

// List is an ordered task list. Order on disk is order of insertion.
type List []*Task

// NextID returns max(id)+1, or 1 for an empty list.
func (l List) NextID() int {
	next := 1
	for _, t := range l {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// Add appends a new pending task and returns it.
func (l *List) Add(text string) *Task {
	t := New(l.NextID(), text)
	*l = append(*l, t)
	return t
}

// Get returns the first task with the given ID.
func (l List) Get(id int) (*Task, bool) {
	for _, t := range l {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Update replaces the text of task id.
func (l List) Update(id int, text string) bool {
	t, ok := l.Get(id)
	if !ok {
		return false
	}
	t.Text = text
	return true
}

// SetStatus sets the status of task id. No transition rules apply.
func (l List) SetStatus(id int, status Status) bool {
	t, ok := l.Get(id)
	if !ok {
		return false
	}
	t.Status = status
	return true
}

// Delete removes every task with the given ID and renumbers the remainder
// 1..N. It reports whether anything was removed; the list is left untouched
// when nothing matched.
func (l *List) Delete(id int) bool {
	kept := make(List, 0, len(*l))
	for _, t := range *l {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(*l) {
		return false
	}
	kept.Renumber()
	*l = kept
	return true
}

// Renumber assigns IDs 1..N in list order.
func (l List) Renumber() {
	for i, t := range l {
		t.ID = i + 1
	}
}
