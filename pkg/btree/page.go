package btree

import (
	"fmt"

	"github.com/tdhoang91/go-btreemap/pkg/hash"
	"github.com/tdhoang91/go-btreemap/pkg/pool/pagebuf"
	"github.com/tdhoang91/go-btreemap/pkg/utils"
)

// pagePool recycles page buffers across pages and gc scratch space.
var pagePool = pagebuf.New(PageSize)

// Page is a slotted page: a PageSize byte buffer holding a packed
// header, a record region growing up from the header, and a stub
// directory growing down from the end of the buffer.
//
// Records are key||value blobs appended in insertion order; stubs are
// kept in key order, so all ordered operations go through the stub
// directory. Erasing only drops the stub; the orphaned record bytes
// stay behind until GC compacts the page.
type Page struct {
	cmp  Compare
	pid  uint64
	mgl  Mgl
	data []byte
}

// NewPage returns an empty page using cmp for key order. The caller
// assigns level and parent.
func NewPage(cmp Compare) *Page {
	p := &Page{cmp: cmp, data: pagePool.Get()}
	p.init()
	return p
}

func (p *Page) init() {
	p.mgl.Reset()
	p.Clear()
}

// Clear drops every record in the page. Level is poisoned: the owner
// must assign it before the page is used again.
func (p *Page) Clear() {
	p.setRecEndOff(headerEnd)
	p.setStubBgnOff(PageSize)
	p.setParentPid(0)
	p.setLevel(levelPoison)
	p.setTotalDataSize(0)
}

// release returns the page buffer to the pool. The page must not be
// used afterwards.
func (p *Page) release() {
	pagePool.Put(p.data)
	p.data = nil
}

// ---- header accessors ----

func (p *Page) recEndOff() int     { return int(utils.BytesToUint16(p.data[offRecEnd:])) }
func (p *Page) setRecEndOff(v int) { utils.PutUint16(p.data[offRecEnd:], uint16(v)) }

func (p *Page) stubBgnOff() int     { return int(utils.BytesToUint16(p.data[offStubBgn:])) }
func (p *Page) setStubBgnOff(v int) { utils.PutUint16(p.data[offStubBgn:], uint16(v)) }

// Level is 0 for leaf pages and >0 for branch pages.
func (p *Page) Level() uint16         { return utils.BytesToUint16(p.data[offLevel:]) }
func (p *Page) setLevel(v uint16)     { utils.PutUint16(p.data[offLevel:], v) }
func (p *Page) totalDataSize() int    { return int(utils.BytesToUint16(p.data[offTotalData:])) }
func (p *Page) setTotalDataSize(v int) {
	utils.PutUint16(p.data[offTotalData:], uint16(v))
}

func (p *Page) parentPid() uint64     { return utils.BytesToUint64(p.data[offParent:]) }
func (p *Page) setParentPid(v uint64) { utils.PutUint64(p.data[offParent:], v) }

// SetLevel assigns the page level; the tree does this on allocation,
// standalone pages (unit tests) do it by hand.
func (p *Page) SetLevel(v uint16) { p.setLevel(v) }

// Mgl exposes the page's reserved lock-mode counters.
func (p *Page) Mgl() *Mgl { return &p.mgl }

// Pid returns the page's arena id (0 for standalone pages).
func (p *Page) Pid() uint64 { return p.pid }

func (p *Page) IsLeaf() bool   { return p.Level() == 0 }
func (p *Page) IsBranch() bool { return p.Level() != 0 }
func (p *Page) isRoot() bool   { return p.parentPid() == 0 }

// ---- stub accessors ----

func (p *Page) numStub() int {
	return (PageSize - p.stubBgnOff()) / stubSize
}

func (p *Page) stubAt(i int) int {
	return p.stubBgnOff() + i*stubSize
}

func (p *Page) stubFields(i int) (off, keySize, valueSize int) {
	s := p.stubAt(i)
	return int(utils.BytesToUint16(p.data[s:])),
		int(utils.BytesToUint16(p.data[s+2:])),
		int(utils.BytesToUint16(p.data[s+4:]))
}

func (p *Page) setStub(i, off, keySize, valueSize int) {
	s := p.stubAt(i)
	utils.PutUint16(p.data[s:], uint16(off))
	utils.PutUint16(p.data[s+2:], uint16(keySize))
	utils.PutUint16(p.data[s+4:], uint16(valueSize))
}

func (p *Page) copyStub(dst, src int) {
	copy(p.data[p.stubAt(dst):p.stubAt(dst)+stubSize], p.data[p.stubAt(src):p.stubAt(src)+stubSize])
}

func (p *Page) key(i int) []byte {
	off, ks, _ := p.stubFields(i)
	return p.data[off : off+ks]
}

func (p *Page) value(i int) []byte {
	off, ks, vs := p.stubFields(i)
	return p.data[off+ks : off+ks+vs]
}

// ---- size queries ----

// NumRecords returns the number of live records in the page.
func (p *Page) NumRecords() int { return p.numStub() }

// Empty reports whether the page holds no records.
func (p *Page) Empty() bool { return p.stubBgnOff() == PageSize }

// FreeSpace is the gap between the record region and the stub
// directory; the only place a new record and its stub can go.
func (p *Page) FreeSpace() int { return p.stubBgnOff() - p.recEndOff() }

// TotalDataSize is the number of bytes owned by live records and their
// stubs. It excludes orphaned record bytes left behind by Erase.
func (p *Page) TotalDataSize() int { return p.totalDataSize() }

// EmptySize is the capacity of a cleared page.
func (p *Page) EmptySize() int { return PageSize - headerEnd }

// CanInsert reports whether a record of the given key+value size fits.
func (p *Page) CanInsert(size int) bool {
	return size+stubSize <= p.FreeSpace()
}

func (p *Page) calcTotalDataSize() int {
	total := 0
	for i := 0; i < p.numStub(); i++ {
		_, ks, vs := p.stubFields(i)
		total += ks + vs + stubSize
	}
	return total
}

// MinKey returns the smallest key in the page. The page must not be
// empty; the returned slice aliases the page buffer.
func (p *Page) MinKey() []byte { return p.key(0) }

// MaxKey returns the largest key in the page.
func (p *Page) MaxKey() []byte { return p.key(p.numStub() - 1) }

// ---- ordering predicates ----

func (p *Page) isLower(key []byte) bool {
	return p.cmp(key, p.key(0)) < 0
}

func (p *Page) isUpper(key []byte) bool {
	n := p.numStub()
	return p.cmp(p.key(n-1), key) < 0
}

// lowerBoundStub returns the smallest stub index i with key <= key(i).
// Sentinels: slotEmpty for an empty page, slotUpper when the key is
// greater than every key. A key below every key maps to index 0.
func (p *Page) lowerBoundStub(key []byte) int {
	if p.Empty() {
		return slotEmpty
	}
	if p.isUpper(key) {
		return slotUpper
	}
	if p.isLower(key) {
		return 0
	}

	i0, i1 := 0, p.numStub()-1
	for i0+1 < i1 {
		i := (i0 + i1) / 2
		r := p.cmp(key, p.key(i))
		if r == 0 {
			return i
		}
		if r < 0 {
			i1 = i
		} else {
			i0 = i
		}
	}
	if p.cmp(p.key(i0), key) < 0 {
		return i1
	}
	return i0
}

// searchStub returns the stub index i with key(i) <= key < key(i+1).
// Sentinels: slotEmpty, slotLower, slotUpper.
func (p *Page) searchStub(key []byte) int {
	if p.Empty() {
		return slotEmpty
	}
	if p.isUpper(key) {
		return slotUpper
	}
	if p.isLower(key) {
		return slotLower
	}

	i0, i1 := 0, p.numStub()-1
	for i0+1 < i1 {
		i := (i0 + i1) / 2
		r := p.cmp(key, p.key(i))
		if r == 0 {
			return i
		}
		if r < 0 {
			i1 = i
		} else {
			i0 = i
		}
	}
	if p.cmp(p.key(i1), key) == 0 {
		return i1
	}
	return i0
}

// ---- mutations ----

// Insert stores key||value and a stub for it, keeping the stub
// directory sorted. Fails with ErrKeyExists or ErrNoSpace.
func (p *Page) Insert(key, value []byte) error {
	if i := p.lowerBoundStub(key); isNormalIndex(i) && p.cmp(key, p.key(i)) == 0 {
		return ErrKeyExists
	}
	if !p.CanInsert(len(key) + len(value)) {
		return ErrNoSpace
	}

	recOff := p.recEndOff()
	p.setRecEndOff(recOff + len(key) + len(value))
	p.setStubBgnOff(p.stubBgnOff() - stubSize)

	copy(p.data[recOff:], key)
	copy(p.data[recOff+len(key):], value)

	// The new stub slot opened at index 0; shift smaller stubs into it
	// until the insertion point is reached. The directory is already
	// sorted, so this is a single insertion-sort pass.
	i := 1
	n := p.numStub()
	for i < n {
		if p.cmp(key, p.key(i)) < 0 {
			break
		}
		p.copyStub(i-1, i)
		i++
	}
	p.setStub(i-1, recOff, len(key), len(value))
	p.setTotalDataSize(p.totalDataSize() + len(key) + len(value) + stubSize)
	return nil
}

// Erase removes the record for key. The stub directory shrinks; the
// record bytes stay orphaned until GC. Returns false for a missing key.
func (p *Page) Erase(key []byte) bool {
	i := p.lowerBoundStub(key)
	if !isNormalIndex(i) || p.cmp(key, p.key(i)) != 0 {
		return false
	}
	p.eraseStub(i)
	return true
}

func (p *Page) eraseStub(i int) {
	_, ks, vs := p.stubFields(i)
	p.setTotalDataSize(p.totalDataSize() - (ks + vs + stubSize))
	for j := i; j > 0; j-- {
		p.copyStub(j, j-1)
	}
	p.setStubBgnOff(p.stubBgnOff() + stubSize)
}

// UpdateValue overwrites the value for key in place. The new value must
// not be larger than the stored one: records never relocate, a caller
// that needs growth does Erase+Insert.
func (p *Page) UpdateValue(key, value []byte) error {
	i := p.lowerBoundStub(key)
	if !isNormalIndex(i) || p.cmp(key, p.key(i)) != 0 {
		return ErrKeyNotExists
	}
	return p.updateStub(i, value)
}

func (p *Page) updateStub(i int, value []byte) error {
	off, ks, vs := p.stubFields(i)
	if vs < len(value) {
		return ErrNoSpace
	}
	copy(p.data[off+ks:], value)
	p.setStub(i, off, ks, len(value))
	p.setTotalDataSize(p.totalDataSize() - (vs - len(value)))
	return nil
}

// UpdateKey overwrites the key of stub i in place. The new key must fit
// in the old key's bytes and keep the slot order relative to both
// neighbors; the value bytes are shifted left when the key shrinks.
func (p *Page) UpdateKey(i int, key []byte) error {
	off, ks, vs := p.stubFields(i)
	if ks < len(key) {
		return ErrNoSpace
	}
	if i > 0 && p.cmp(p.key(i-1), key) >= 0 {
		return ErrInvalidKey
	}
	if i < p.numStub()-1 && p.cmp(key, p.key(i+1)) >= 0 {
		return ErrInvalidKey
	}

	copy(p.data[off:], key)
	if len(key) != ks {
		copy(p.data[off+len(key):], p.data[off+ks:off+ks+vs])
	}
	p.setStub(i, off, len(key), vs)
	p.setTotalDataSize(p.totalDataSize() - (ks - len(key)))
	return nil
}

// ---- structural operations ----

// ShouldGC estimates whether compaction would reclaim enough orphaned
// record bytes to be worth doing.
func (p *Page) ShouldGC() bool {
	return p.totalDataSize()*2 < p.EmptySize()
}

// GC rebuilds the page into a scratch buffer, dropping orphaned record
// bytes. Level and parent survive; record order is unchanged.
func (p *Page) GC() {
	s := &Page{cmp: p.cmp, data: pagePool.Get()}
	s.init()
	for i := 0; i < p.numStub(); i++ {
		if err := s.Insert(p.key(i), p.value(i)); err != nil {
			panic(fmt.Sprintf("btree: gc reinsert failed: %v", err))
		}
	}
	s.setLevel(p.Level())
	s.setParentPid(p.parentPid())

	old := p.data
	p.data = s.data
	pagePool.Put(old)
}

// splitInto distributes the page's records over p0 and p1 and clears
// the page. With halfAndHalf the lower half of stubs (by count) goes to
// p0 and the upper half to p1; otherwise everything goes to p0.
// Records are reinserted, so both halves come out compact. The caller
// wires up parent pointers.
func (p *Page) splitInto(p0, p1 *Page, halfAndHalf bool) {
	p0.setLevel(p.Level())
	p1.setLevel(p.Level())
	n := p.numStub()
	hi := n / 2
	if !halfAndHalf {
		hi = n
	}
	// Reverse order keeps every reinsert O(1): each new key is the
	// smallest seen so far in its destination.
	for i := n; hi < i; i-- {
		j := i - 1
		if err := p1.Insert(p.key(j), p.value(j)); err != nil {
			panic(fmt.Sprintf("btree: split reinsert failed: %v", err))
		}
	}
	for i := hi; 0 < i; i-- {
		j := i - 1
		if err := p0.Insert(p.key(j), p.value(j)); err != nil {
			panic(fmt.Sprintf("btree: split reinsert failed: %v", err))
		}
	}
	p.Clear()
}

// Split moves the page's records into two fresh standalone pages of the
// same level and clears the receiver. Used directly by page tests; the
// tree goes through its arena allocator instead.
func (p *Page) Split(halfAndHalf bool) (*Page, *Page) {
	p0, p1 := NewPage(p.cmp), NewPage(p.cmp)
	p.splitInto(p0, p1, halfAndHalf)
	return p0, p1
}

// Merge pulls every record of left into the page. left must hold
// strictly smaller keys and have the same level. Returns false without
// touching anything when the page lacks contiguous free space; the
// caller may GC and retry. On success left is cleared.
func (p *Page) Merge(left *Page) bool {
	if p.FreeSpace() < left.TotalDataSize() {
		return false
	}
	n := left.numStub()
	for i := n; 0 < i; i-- {
		j := i - 1
		if err := p.Insert(left.key(j), left.value(j)); err != nil {
			panic(fmt.Sprintf("btree: merge reinsert failed: %v", err))
		}
	}
	left.Clear()
	return true
}

func (p *Page) swapData(rhs *Page) {
	p.data, rhs.data = rhs.data, p.data
}

// ---- branch-page helpers ----

func (p *Page) childPidAt(i int) uint64 {
	return utils.BytesToUint64(p.value(i))
}

// childPid selects the child subtree for key: the slot i with
// key(i) <= key < key(i+1), clamped to the left-most child when the key
// is below every slot (the stored min key of the left edge may lag the
// true subtree minimum) and to the right-most child above every slot.
func (p *Page) childPid(key []byte) uint64 {
	i := p.searchStub(key)
	switch i {
	case slotLower:
		i = 0
	case slotUpper:
		i = p.numStub() - 1
	}
	return p.childPidAt(i)
}

// ---- validation and debugging ----

// IsValid checks the page's own invariants: offset ordering, stub
// region alignment, record bounds, totalDataSize accounting and strict
// key order.
func (p *Page) IsValid() bool {
	recEnd, stubBgn := p.recEndOff(), p.stubBgnOff()
	if recEnd < headerEnd || stubBgn < recEnd || PageSize < stubBgn {
		return false
	}
	if (PageSize-stubBgn)%stubSize != 0 {
		return false
	}
	if p.totalDataSize() != p.calcTotalDataSize() {
		return false
	}
	for i := 0; i < p.numStub(); i++ {
		off, ks, vs := p.stubFields(i)
		if off < headerEnd || recEnd < off+ks+vs {
			return false
		}
		if i > 0 && p.cmp(p.key(i-1), p.key(i)) >= 0 {
			return false
		}
	}
	return true
}

// Fingerprint hashes the ordered (key, value) sequence. Two pages with
// the same live records fingerprint identically regardless of orphaned
// bytes or record placement.
func (p *Page) Fingerprint() uint64 {
	fp := hash.NewDigest()
	for i := 0; i < p.numStub(); i++ {
		fp.Write(p.key(i))
		fp.Write(p.value(i))
	}
	return fp.Sum64()
}

// String summarizes the header for debugging.
func (p *Page) String() string {
	return fmt.Sprintf("page{pid=%d level=%d records=%d recEnd=%d stubBgn=%d parent=%d}",
		p.pid, p.Level(), p.numStub(), p.recEndOff(), p.stubBgnOff(), p.parentPid())
}
