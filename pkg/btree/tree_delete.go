package btree

import "fmt"

// Erase removes key from the tree. Returns true iff the key existed.
func (t *Tree) Erase(key []byte) bool {
	it := t.LowerBound(key)
	if it.IsEnd() {
		return false
	}
	if t.cmp(it.Key(), key) != 0 {
		return false
	}
	it.Erase()
	return true
}

// Erase removes the current record and repositions the iterator on the
// following one (or the end). Removing a leaf's last record deletes the
// leaf and, recursively, any ancestor that becomes empty; otherwise the
// new left-edge minimum is propagated upward and a merge with the left
// sibling is attempted. Either way trivial single-child root levels are
// collapsed afterwards.
func (it *ItemIterator) Erase() {
	t := it.t
	lastKey := copyKey(it.it.Key())
	page := it.it.Page()

	if page.NumRecords() == 1 {
		// Advance off the page first: nextPage cannot walk from an
		// empty page. The saved in-page iterator then drops the
		// final record.
		inner := it.it
		it.nextPage()
		inner.Erase()
		t.deleteEmptyPage(page, lastKey)
	} else {
		isBegin := it.it.IsBegin()
		it.it.Erase()
		if isBegin {
			t.updateMinKey(page)
		}
		it.it = t.tryMerge(it.it)
		if it.it.IsEnd() {
			// The page's last record went: the following one opens
			// the next leaf.
			it.nextPage()
		}
	}
	t.liftUp()
	// liftUp moves a lone child leaf's records into the root and frees
	// the leaf; an iterator on that leaf follows its records.
	if it.pit.p != nil && it.pit.p.data == nil {
		it.pit.p = t.root()
		it.it.p = t.root()
	}
}

// deleteEmptyPage removes an empty non-root page: the parent's entry
// addressing it (located through the key of the record just deleted) is
// erased and the page freed. An emptied parent recurses; otherwise a
// removed left-most entry triggers min-key propagation.
func (t *Tree) deleteEmptyPage(page *Page, lastKey []byte) {
	if page.isRoot() {
		return
	}
	parent := t.page(page.parentPid())
	pit := parent.Search(lastKey, false, false)
	if pit.childPid() != page.pid {
		panic(fmt.Sprintf("btree: parent %d entry for empty page %d not found", parent.pid, page.pid))
	}
	isBegin := pit.IsBegin()
	pit.Erase()
	t.freePage(page)

	if parent.Empty() {
		t.deleteEmptyPage(parent, lastKey)
	} else if isBegin {
		t.updateMinKey(parent)
	}
}

// updateMinKey rewrites the parent's entry key for page to page's
// current minimum, recursing while the entry stays the left-most in its
// own parent so the minimum reaches the root path. A separator that
// cannot take the new key stays behind: a lagging-low separator is
// still correct, search tolerates it.
func (t *Tree) updateMinKey(page *Page) {
	if page.isRoot() {
		return
	}
	parent := t.page(page.parentPid())
	minKey := copyKey(page.MinKey())
	pit := t.parentRecord(page)
	pit, ok := t.replaceSlotKey(pit, minKey)
	if !ok {
		return
	}

	if pit.IsBegin() {
		t.updateMinKey(parent)
	}
}

// replaceSlotKey rewrites the key of the slot under it, preferring an
// in-place overwrite. A longer key cannot overwrite in place; the slot
// is erased and reinserted instead, which lands on the same index
// because the parent's neighboring separators bracket the new key.
// Returns false, with the slot untouched, when even a compacted page
// cannot hold the longer key.
func (t *Tree) replaceSlotKey(it Iter, key []byte) (Iter, bool) {
	p := it.Page()
	err := p.UpdateKey(it.idx, key)
	if err == nil {
		return it, true
	}
	_, ks, vs := p.stubFields(it.idx)
	freeAfter := p.EmptySize() - p.TotalDataSize() + ks + vs + stubSize
	if len(key)+vs+stubSize > freeAfter {
		return it, false
	}
	childPid := it.childPid()
	oldKey := copyKey(it.Key())
	if !p.Erase(oldKey) {
		panic(fmt.Sprintf("btree: slot key replacement lost entry in page %d", p.pid))
	}
	if !p.CanInsert(len(key) + vs) {
		p.GC()
	}
	t.mustInsert(p, key, pidBytes(childPid))
	return Iter{p: p, idx: it.idx}, true
}

// tryMerge folds the left sibling's records into the mostly-empty page
// under it: the left page is merged in, its parent entry removed and the
// surviving entry re-keyed, then the parent slot recurses so merges can
// cascade. Returns the iterator adjusted for the slots shifted in.
func (t *Tree) tryMerge(it Iter) Iter {
	page := it.Page()
	if page.isRoot() {
		return it
	}
	if page.EmptySize() < page.TotalDataSize()*3 {
		// Still well occupied.
		return it
	}
	it0 := t.parentRecord(page)
	if it0.IsBegin() {
		return it
	}
	it0.Prev()
	left := t.page(it0.childPid())
	if page.EmptySize() < left.TotalDataSize()+page.TotalDataSize() {
		// The combined contents would not fit anywhere.
		return it
	}
	if page.FreeSpace() < left.TotalDataSize() {
		page.GC()
	}
	if !left.IsLeaf() {
		for i := 0; i < left.numStub(); i++ {
			t.page(left.childPidAt(i)).setParentPid(page.pid)
		}
	}
	n := left.NumRecords()
	if !page.Merge(left) {
		panic(fmt.Sprintf("btree: merge into page %d failed after gc", page.pid))
	}
	t.freePage(left)
	it.updateIdx(it.Idx() + n)

	leftKey := copyKey(it0.Key())
	it0.Erase()
	if it0.childPid() != page.pid {
		panic(fmt.Sprintf("btree: merged page %d lost its parent entry", page.pid))
	}
	// This rekey cannot fail: erasing the left entry freed more than
	// the reinsert can need.
	it0, ok := t.replaceSlotKey(it0, leftKey)
	if !ok {
		panic(fmt.Sprintf("btree: cannot rekey merged page %d in parent", page.pid))
	}
	t.tryMerge(it0)
	return it
}

// liftUp collapses single-child root levels: the root swaps contents
// with its only child until it is a leaf or has at least two children,
// then re-points the children of the final root at it.
func (t *Tree) liftUp() {
	p := t.root()
	for !p.IsLeaf() && p.NumRecords() == 1 {
		child := t.page(p.childPidAt(0))
		p.swapData(child)
		p.setParentPid(0)
		t.freePage(child)
	}
	if !p.IsLeaf() {
		for i := 0; i < p.numStub(); i++ {
			t.page(p.childPidAt(i)).setParentPid(rootPid)
		}
	}
}
