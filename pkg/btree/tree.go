package btree

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tdhoang91/go-btreemap/pkg/utils"
)

// Tree is an in-memory B+tree over slotted pages. Leaves map keys to
// application values; branch pages map each child subtree's minimum key
// to the child's page id. Pages live in a pid-indexed arena owned by
// the tree, and every page's header carries its parent pid so that
// erase-time restructuring can climb bottom-up.
//
// A Tree performs no internal synchronization: callers running
// concurrent operations serialize them with their own lock.
type Tree struct {
	cmp   Compare
	log   *zap.Logger
	pages []*Page
	free  []uint64
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger routes structural diagnostics (validator failures) to l.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tree) {
		t.log = l
	}
}

// New returns an empty tree ordered by cmp: a single leaf root and no
// heap pages.
func New(cmp Compare, opts ...Option) *Tree {
	t := &Tree{cmp: cmp, log: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	root := NewPage(cmp)
	root.pid = rootPid
	root.setLevel(0)
	t.pages = []*Page{nil, root}
	return t
}

func (t *Tree) root() *Page { return t.pages[rootPid] }

func (t *Tree) page(pid uint64) *Page {
	if pid == 0 || pid >= uint64(len(t.pages)) {
		return nil
	}
	return t.pages[pid]
}

// allocPage takes a pid from the free list (or grows the arena) and
// hands back a fresh page of the given level.
func (t *Tree) allocPage(level uint16) *Page {
	var pid uint64
	if n := len(t.free); n > 0 {
		pid = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		pid = uint64(len(t.pages))
		t.pages = append(t.pages, nil)
	}
	p := NewPage(t.cmp)
	p.pid = pid
	p.setLevel(level)
	t.pages[pid] = p
	return p
}

// freePage detaches p from the arena and recycles its pid and buffer.
func (t *Tree) freePage(p *Page) {
	t.pages[p.pid] = nil
	t.free = append(t.free, p.pid)
	p.release()
}

func pidBytes(pid uint64) []byte {
	return utils.Uint64ToBytes(pid)
}

func copyKey(key []byte) []byte {
	return append([]byte(nil), key...)
}

// searchLeaf descends from the root to the leaf whose range contains
// key. The result may be the root itself.
func (t *Tree) searchLeaf(key []byte) *Page {
	p := t.root()
	for !p.IsLeaf() {
		p = t.page(p.childPid(key))
	}
	return p
}

// Insert adds (key, value). ErrKeyExists if the key is present,
// ErrNoSpace if the record cannot fit even in an empty page. A failed
// insert leaves the tree untouched.
func (t *Tree) Insert(key, value []byte) error {
	size := len(key) + len(value)
	if size+stubSize > PageSize-headerEnd {
		return errors.Wrap(ErrNoSpace, "record larger than an empty page")
	}

	leaf := t.searchLeaf(key)
	// Duplicate check happens before any gc or split so that a failed
	// insert has no side effects.
	if i := leaf.lowerBoundStub(key); isNormalIndex(i) && t.cmp(key, leaf.key(i)) == 0 {
		return ErrKeyExists
	}

	if !leaf.CanInsert(size) && leaf.ShouldGC() {
		leaf.GC()
	}
	if !leaf.CanInsert(size) {
		leaf = t.splitLeaf(leaf, key)
	}
	return errors.Wrap(leaf.Insert(key, value), "insert")
}

// splitLeaf splits a full leaf into two halves and wires them into the
// parent, splitting ancestors recursively when they cannot take the new
// child entry. Returns the half whose range contains key.
func (t *Tree) splitLeaf(page *Page, key []byte) *Page {
	parentPid := page.parentPid()
	p0 := t.allocPage(0)
	p1 := t.allocPage(0)
	page.splitInto(p0, p1, true)
	k0 := copyKey(p0.MinKey())
	k1 := copyKey(p1.MinKey())

	if parentPid == 0 {
		// page is the root: refill it as a level-1 branch over the
		// two halves.
		t.mustInsert(page, k0, pidBytes(p0.pid))
		t.mustInsert(page, k1, pidBytes(p1.pid))
		p0.setParentPid(page.pid)
		p1.setParentPid(page.pid)
		page.setLevel(1)
	} else {
		parent0 := t.page(parentPid)
		parent1 := parent0
		recSize := maxLen(k0, k1) + pidSize
		if !parent0.CanInsert(recSize) {
			parent0.GC()
		}
		if !parent0.CanInsert(recSize) {
			parent0, parent1 = t.splitNonLeaf(parent0, k0, k1)
		}

		t.replaceChildEntry(parent0, page, k0, p0)

		// When parent0 and parent1 are the same page the replacement
		// above may have fragmented it; gc guarantees the insert.
		if !parent1.CanInsert(len(k1) + pidSize) {
			parent1.GC()
		}
		t.mustInsert(parent1, k1, pidBytes(p1.pid))
		p0.setParentPid(parent0.pid)
		p1.setParentPid(parent1.pid)
		t.freePage(page)
	}

	if t.cmp(key, k1) < 0 {
		return p0
	}
	return p1
}

// splitNonLeaf splits a full branch page. Returns the halves that key0
// and key1 route to, in that order. Children of both halves get their
// parent pid rewired.
func (t *Tree) splitNonLeaf(page *Page, key0, key1 []byte) (*Page, *Page) {
	level := page.Level()
	parentPid := page.parentPid()
	p0 := t.allocPage(level)
	p1 := t.allocPage(level)
	page.splitInto(p0, p1, true)
	k0 := copyKey(p0.MinKey())
	k1 := copyKey(p1.MinKey())

	if parentPid == 0 {
		// page is the root: lift it one level above the halves.
		t.mustInsert(page, k0, pidBytes(p0.pid))
		t.mustInsert(page, k1, pidBytes(p1.pid))
		p0.setParentPid(page.pid)
		p1.setParentPid(page.pid)
		page.setLevel(level + 1)
		page.setParentPid(0)
	} else {
		parent0 := t.page(parentPid)
		parent1 := parent0
		recSize := maxLen(k0, k1) + pidSize
		if !parent0.CanInsert(recSize) {
			parent0.GC()
		}
		if !parent0.CanInsert(recSize) {
			parent0, parent1 = t.splitNonLeaf(parent0, k0, k1)
		}

		t.replaceChildEntry(parent0, page, k0, p0)

		if !parent1.CanInsert(len(k1) + pidSize) {
			parent1.GC()
		}
		t.mustInsert(parent1, k1, pidBytes(p1.pid))
		p0.setParentPid(parent0.pid)
		p1.setParentPid(parent1.pid)
		t.freePage(page)
	}

	// The halves took over page's children.
	for i := 0; i < p0.numStub(); i++ {
		t.page(p0.childPidAt(i)).setParentPid(p0.pid)
	}
	for i := 0; i < p1.numStub(); i++ {
		t.page(p1.childPidAt(i)).setParentPid(p1.pid)
	}

	ret0, ret1 := p0, p0
	if t.cmp(key0, k1) >= 0 {
		ret0 = p1
	}
	if t.cmp(key1, k1) >= 0 {
		ret1 = p1
	}
	return ret0, ret1
}

// replaceChildEntry rewrites parent's entry for old (found via k0) to
// point at half p0 under key k0. The stored key can differ from k0 when
// left-edge deletions left it stale; then the old entry is replaced
// outright.
func (t *Tree) replaceChildEntry(parent *Page, old *Page, k0 []byte, p0 *Page) {
	it := parent.Search(k0, false, false)
	if it.IsEnd() || it.childPid() != old.pid {
		panic(fmt.Sprintf("btree: parent %d has no entry for child %d", parent.pid, old.pid))
	}
	k2 := it.Key()
	if t.cmp(k2, k0) == 0 {
		if err := parent.updateStub(it.idx, pidBytes(p0.pid)); err != nil {
			panic(fmt.Sprintf("btree: child entry update failed: %v", err))
		}
		return
	}
	k2 = copyKey(k2)
	if !parent.Erase(k2) {
		panic(fmt.Sprintf("btree: stale child entry missing in parent %d", parent.pid))
	}
	t.mustInsert(parent, k0, pidBytes(p0.pid))
}

func (t *Tree) mustInsert(p *Page, key, value []byte) {
	if err := p.Insert(key, value); err != nil {
		panic(fmt.Sprintf("btree: insert into page %d cannot fail here: %v", p.pid, err))
	}
}

func maxLen(k0, k1 []byte) int {
	if len(k0) > len(k1) {
		return len(k0)
	}
	return len(k1)
}

// Size counts records across all leaves.
func (t *Tree) Size() int {
	total := 0
	for it := t.BeginPage(); !it.IsEnd(); it.Next() {
		total += it.Page().NumRecords()
	}
	return total
}

// Empty reports whether the tree holds no records.
func (t *Tree) Empty() bool {
	return t.root().IsLeaf() && t.root().Empty()
}

// Clear drops every record and page, resetting the tree to a single
// empty leaf root.
func (t *Tree) Clear() {
	for pid, p := range t.pages {
		if uint64(pid) != rootPid && p != nil {
			p.release()
		}
	}
	root := t.root()
	t.pages = []*Page{nil, root}
	t.free = t.free[:0]
	root.Clear()
	root.setLevel(0)
}
