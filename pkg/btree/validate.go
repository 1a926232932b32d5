package btree

import (
	"go.uber.org/zap"
)

// IsValid audits the whole tree: every page's own invariants plus, for
// branch pages, that each child is non-empty, sits exactly one level
// below, points back at its parent, holds no key at or above the next
// separator, and, except for the first child, holds no key below its
// own separator. The first separator may sit above its child's minimum:
// keys below every separator descend into the first child. Failures are
// reported through the tree's logger.
func (t *Tree) IsValid() bool {
	return t.validatePage(t.root())
}

func (t *Tree) validatePage(p *Page) bool {
	if !p.IsValid() {
		t.log.Error("page invariants violated", zap.Uint64("pid", p.pid), zap.String("page", p.String()))
		return false
	}
	if p.IsLeaf() {
		return true
	}
	level := p.Level()
	for i := 0; i < p.numStub(); i++ {
		child := t.page(p.childPidAt(i))
		if child == nil {
			t.log.Error("child page missing", zap.Uint64("pid", p.pid), zap.Uint64("child", p.childPidAt(i)))
			return false
		}
		if child.Level()+1 != level {
			t.log.Error("child level mismatch",
				zap.Uint64("pid", p.pid), zap.Uint64("child", child.pid),
				zap.Uint16("level", level), zap.Uint16("childLevel", child.Level()))
			return false
		}
		if child.parentPid() != p.pid {
			t.log.Error("child parent mismatch",
				zap.Uint64("pid", p.pid), zap.Uint64("child", child.pid),
				zap.Uint64("childParent", child.parentPid()))
			return false
		}
		if child.Empty() {
			t.log.Error("child page is empty", zap.Uint64("pid", p.pid), zap.Uint64("child", child.pid))
			return false
		}
		if i > 0 && t.cmp(p.key(i), child.MinKey()) > 0 {
			t.log.Error("separator above child minimum",
				zap.Uint64("pid", p.pid), zap.Uint64("child", child.pid))
			return false
		}
		if i < p.numStub()-1 && t.cmp(child.MaxKey(), p.key(i+1)) >= 0 {
			t.log.Error("child key reaches next separator",
				zap.Uint64("pid", p.pid), zap.Uint64("child", child.pid))
			return false
		}
		if !t.validatePage(child) {
			return false
		}
	}
	return true
}

// Walk visits every page top-down, parents before children. Used by
// debugging front ends to render the tree.
func (t *Tree) Walk(fn func(p *Page, depth int)) {
	t.walkPage(t.root(), 0, fn)
}

func (t *Tree) walkPage(p *Page, depth int, fn func(p *Page, depth int)) {
	fn(p, depth)
	if p.IsLeaf() {
		return
	}
	for i := 0; i < p.numStub(); i++ {
		t.walkPage(t.page(p.childPidAt(i)), depth+1, fn)
	}
}
