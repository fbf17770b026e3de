package model

import "sort"

// FocusRing is the derived, ordered set of tab-focusable boxes in a
// layout (Section 3: "FocusRing"): every MuxBox with TabOrder set,
// sorted numerically, plus the NextFocusID override graph used to jump
// out of that natural order.
type FocusRing struct {
	members []*MuxBox
	byID    map[string]*MuxBox
}

// BuildFocusRing walks l and collects every box with TabOrder set,
// ordered numerically by TabOrder (Section 3, Section 8 invariant: "focus
// ring membership" is a load-bearing derived field assigned by the
// loader).
func BuildFocusRing(l *Layout) *FocusRing {
	ring := &FocusRing{byID: map[string]*MuxBox{}}
	l.Walk(func(b *MuxBox) {
		if b.TabOrder != nil {
			ring.members = append(ring.members, b)
		}
		ring.byID[b.ID] = b
	})
	sort.SliceStable(ring.members, func(i, j int) bool {
		return *ring.members[i].TabOrder < *ring.members[j].TabOrder
	})
	return ring
}

// Empty reports whether the ring has no focusable members.
func (r *FocusRing) Empty() bool {
	return len(r.members) == 0
}

// Members returns the ring in tab order.
func (r *FocusRing) Members() []*MuxBox {
	return r.members
}

func (r *FocusRing) indexOf(b *MuxBox) int {
	for i, m := range r.members {
		if m == b {
			return i
		}
	}
	return -1
}

// First returns the first box in tab order, or nil if the ring is empty.
func (r *FocusRing) First() *MuxBox {
	if r.Empty() {
		return nil
	}
	return r.members[0]
}

// Next returns the box that should receive focus after current (Tab),
// honoring current.NextFocusID as an override when it resolves to a
// known box (Section 3: "next_focus_id forming an override directed
// graph"). Wraps around at the end of the ring.
func (r *FocusRing) Next(current *MuxBox) *MuxBox {
	if r.Empty() {
		return nil
	}
	if current != nil && current.NextFocusID != "" {
		if target, ok := r.byID[current.NextFocusID]; ok {
			return target
		}
	}
	if current == nil {
		return r.First()
	}
	i := r.indexOf(current)
	if i < 0 {
		return r.First()
	}
	return r.members[(i+1)%len(r.members)]
}

// Prev returns the box that should receive focus before current
// (Shift-Tab), wrapping around at the start of the ring. NextFocusID
// overrides apply only in the forward direction per Section 3's
// description of a directed graph.
func (r *FocusRing) Prev(current *MuxBox) *MuxBox {
	if r.Empty() {
		return nil
	}
	if current == nil {
		return r.members[len(r.members)-1]
	}
	i := r.indexOf(current)
	if i < 0 {
		return r.members[len(r.members)-1]
	}
	return r.members[(i-1+len(r.members))%len(r.members)]
}
