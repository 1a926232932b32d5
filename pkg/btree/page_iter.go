package btree

// Iter walks one page's stubs in key order. idx == NumRecords() is the
// end position. Iterators are plain values: copying one yields an
// independent position on the same page.
type Iter struct {
	p   *Page
	idx int
}

// Begin returns an iterator on the first stub.
func (p *Page) Begin() Iter { return Iter{p: p} }

// End returns the past-the-end iterator.
func (p *Page) End() Iter { return Iter{p: p, idx: p.numStub()} }

// LowerBound returns an iterator on the smallest key >= key, or End
// when every key is smaller (or the page is empty).
func (p *Page) LowerBound(key []byte) Iter {
	i := p.lowerBoundStub(key)
	if !isNormalIndex(i) {
		i = p.numStub()
	}
	return Iter{p: p, idx: i}
}

// Search returns an iterator on the slot with key(i) <= key < key(i+1).
// Out-of-range keys clamp to the first or last slot unless the
// corresponding allow flag asks for the end position instead; branch
// descent relies on the clamping for the tree's left and right edges.
func (p *Page) Search(key []byte, allowLower, allowUpper bool) Iter {
	i := p.searchStub(key)
	switch {
	case i == slotUpper && !allowUpper:
		i = p.numStub() - 1
	case i == slotLower && !allowLower:
		i = 0
	case !isNormalIndex(i):
		i = p.numStub()
	}
	return Iter{p: p, idx: i}
}

// Next moves to the following slot.
func (it *Iter) Next() { it.idx++ }

// Prev moves to the preceding slot.
func (it *Iter) Prev() { it.idx-- }

// IsBegin reports whether the iterator is on the first slot.
func (it Iter) IsBegin() bool { return it.idx == 0 }

// IsEnd reports whether the iterator is past the last slot.
func (it Iter) IsEnd() bool { return it.p.numStub() <= it.idx }

// Idx returns the current slot index.
func (it Iter) Idx() int { return it.idx }

func (it *Iter) updateIdx(idx int) { it.idx = idx }

// Key returns the current key; the slice aliases the page buffer.
func (it Iter) Key() []byte { return it.p.key(it.idx) }

// Value returns the current value; the slice aliases the page buffer.
func (it Iter) Value() []byte { return it.p.value(it.idx) }

// Page returns the page the iterator walks.
func (it Iter) Page() *Page { return it.p }

func (it Iter) childPid() uint64 { return it.p.childPidAt(it.idx) }

// Erase removes the current slot. The iterator ends up on the slot
// that followed the erased one (or End).
func (it *Iter) Erase() {
	it.p.eraseStub(it.idx)
}
