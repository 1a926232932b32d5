package btree

import "fmt"

// parentRecord returns the iterator positioned on the parent's entry
// for page. The entry's key may be smaller than page's current minimum
// (left-edge deletions are not always propagated before this is
// called); when the search lands one slot early, the next slot is the
// exact entry.
func (t *Tree) parentRecord(page *Page) Iter {
	parent := t.page(page.parentPid())
	it := parent.Search(page.MinKey(), false, false)
	if it.childPid() != page.pid {
		it.Next()
	}
	if it.IsEnd() || it.childPid() != page.pid {
		panic(fmt.Sprintf("btree: parent %d has no record for page %d", parent.pid, page.pid))
	}
	return it
}

// leftMostPage returns the first leaf in key order.
func (t *Tree) leftMostPage() *Page {
	p := t.root()
	for !p.IsLeaf() {
		p = t.page(p.childPidAt(0))
	}
	return p
}

// rightMostPage returns the last leaf in key order.
func (t *Tree) rightMostPage() *Page {
	p := t.root()
	for !p.IsLeaf() {
		p = t.page(p.childPidAt(p.numStub() - 1))
	}
	return p
}

// nextPage returns the leaf after page, or nil past the last leaf.
// It climbs to the lowest ancestor with a right sibling, then descends
// left-most. A nil page wraps to the first leaf.
func (t *Tree) nextPage(page *Page) *Page {
	if page == nil {
		return t.leftMostPage()
	}
	if page.isRoot() {
		return nil
	}
	p := page
	for {
		it := t.parentRecord(p)
		it.Next()
		if !it.IsEnd() {
			p = t.page(it.childPid())
			break
		}
		p = t.page(p.parentPid())
		if p.isRoot() {
			return nil
		}
	}
	for !p.IsLeaf() {
		p = t.page(p.childPidAt(0))
	}
	return p
}

// prevPage is the mirror of nextPage: lowest ancestor with a left
// sibling, then right-most descent. A nil page wraps to the last leaf.
func (t *Tree) prevPage(page *Page) *Page {
	if page == nil {
		return t.rightMostPage()
	}
	if page.isRoot() {
		return nil
	}
	p := page
	for {
		it := t.parentRecord(p)
		if !it.IsBegin() {
			it.Prev()
			p = t.page(it.childPid())
			break
		}
		p = t.page(p.parentPid())
		if p.isRoot() {
			return nil
		}
	}
	for !p.IsLeaf() {
		p = t.page(p.childPidAt(p.numStub() - 1))
	}
	return p
}

// PageIterator steps over leaf pages left to right. A nil page denotes
// the end position; stepping off the end wraps cyclically to the first
// (or last) leaf, which callers comparing against a stored end iterator
// after removals rely on.
type PageIterator struct {
	t *Tree
	p *Page
}

// BeginPage returns an iterator on the first leaf.
func (t *Tree) BeginPage() PageIterator {
	return PageIterator{t: t, p: t.leftMostPage()}
}

// EndPage returns the past-the-last-leaf iterator.
func (t *Tree) EndPage() PageIterator {
	return PageIterator{t: t}
}

// Next advances to the following leaf.
func (it *PageIterator) Next() {
	it.p = it.t.nextPage(it.p)
}

// Prev moves to the preceding leaf.
func (it *PageIterator) Prev() {
	it.p = it.t.prevPage(it.p)
}

// IsEnd reports whether the iterator is past the last leaf.
func (it PageIterator) IsEnd() bool { return it.p == nil }

// Page returns the current leaf (nil at the end).
func (it PageIterator) Page() *Page { return it.p }

// ItemIterator walks records in key order across leaves: a PageIterator
// plus an in-page position. Crossing past a page boundary moves to the
// neighboring leaf.
type ItemIterator struct {
	t   *Tree
	pit PageIterator
	it  Iter
}

// BeginItem returns an iterator on the first record, or the end
// iterator for an empty tree.
func (t *Tree) BeginItem() ItemIterator {
	if t.Empty() {
		return t.EndItem()
	}
	pit := t.BeginPage()
	return ItemIterator{t: t, pit: pit, it: pit.Page().Begin()}
}

// EndItem returns the past-the-last-record iterator.
func (t *Tree) EndItem() ItemIterator {
	return ItemIterator{t: t, pit: t.EndPage()}
}

// IsEnd reports whether the iterator is past the last record.
func (it ItemIterator) IsEnd() bool { return it.pit.IsEnd() }

// Key returns the current key; the slice aliases the page buffer.
func (it ItemIterator) Key() []byte { return it.it.Key() }

// Value returns the current value; the slice aliases the page buffer.
func (it ItemIterator) Value() []byte { return it.it.Value() }

// Next advances to the following record, crossing pages as needed.
// Stepping from the end wraps to the first record.
func (it *ItemIterator) Next() {
	if it.IsEnd() {
		it.nextPage()
		return
	}
	it.it.Next()
	if it.it.IsEnd() {
		it.nextPage()
	}
}

// Prev moves to the preceding record. Stepping from the end wraps to
// the last record.
func (it *ItemIterator) Prev() {
	if it.IsEnd() {
		it.prevPage()
		return
	}
	if it.it.IsBegin() {
		it.prevPage()
		return
	}
	it.it.Prev()
}

func (it *ItemIterator) nextPage() {
	it.pit.Next()
	if !it.pit.IsEnd() {
		it.it = it.pit.Page().Begin()
	}
}

func (it *ItemIterator) prevPage() {
	it.pit.Prev()
	if !it.pit.IsEnd() {
		it.it = it.pit.Page().End()
		it.it.Prev()
	}
}

// LowerBound returns an iterator on the smallest key >= key, or the end
// iterator when no such record exists.
func (t *Tree) LowerBound(key []byte) ItemIterator {
	page := t.searchLeaf(key)
	it := page.LowerBound(key)
	if it.IsEnd() {
		// The record, if any, is the first one of the next leaf.
		page = t.nextPage(page)
		if page != nil {
			it = page.LowerBound(key)
		}
	}
	if page == nil || it.IsEnd() {
		return t.EndItem()
	}
	return ItemIterator{t: t, pit: PageIterator{t: t, p: page}, it: it}
}
