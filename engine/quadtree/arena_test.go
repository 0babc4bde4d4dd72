package quadtree

import (
	"testing"

	"github.com/Carmen-Shannon/globe-go/common"
)

func TestArenaRoot(t *testing.T) {
	a := NewArena()
	if a.Len() != 1 {
		t.Fatalf("new arena holds %d tiles, want 1 root", a.Len())
	}
	root := a.Tile(a.Root())
	if root.Level() != 0 || root.X() != 0 || root.Y() != 0 {
		t.Errorf("root address = %d/%d/%d, want 0/0/0", root.Level(), root.X(), root.Y())
	}
	if root.Rectangle() != common.FullGlobe {
		t.Errorf("root rectangle = %+v, want full globe", root.Rectangle())
	}
	if a.ParentIndex(a.Root()) != NoTile {
		t.Error("root must have no parent")
	}
	for _, c := range a.Children(a.Root()) {
		if c != NoTile {
			t.Error("children must not exist before EnsureChildren")
		}
	}
}

func TestArenaEnsureChildren(t *testing.T) {
	a := NewArena()
	children := a.EnsureChildren(a.Root())

	wantAddr := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	rects := common.FullGlobe.Subdivide()
	for slot, index := range children {
		child := a.Tile(index)
		if child.X() != wantAddr[slot][0] || child.Y() != wantAddr[slot][1] || child.Level() != 1 {
			t.Errorf("slot %d address = %d/%d/%d, want 1/%d/%d", slot, child.Level(), child.X(), child.Y(), wantAddr[slot][0], wantAddr[slot][1])
		}
		if child.Rectangle() != rects[slot] {
			t.Errorf("slot %d rectangle = %+v, want %+v", slot, child.Rectangle(), rects[slot])
		}
		if a.ParentIndex(index) != a.Root() {
			t.Errorf("slot %d parent = %d, want root", slot, a.ParentIndex(index))
		}
	}

	// Indices are stable: a second call creates nothing new.
	again := a.EnsureChildren(a.Root())
	if again != children {
		t.Error("EnsureChildren must be idempotent")
	}
	if a.Len() != 5 {
		t.Errorf("arena holds %d tiles, want 5", a.Len())
	}
}

func TestArenaDeepChildAddressing(t *testing.T) {
	a := NewArena()
	level1 := a.EnsureChildren(a.Root())
	level2 := a.EnsureChildren(level1[3])

	// SE child of the SE child: x = 2*1+1, y = 2*1+1 at level 2.
	se := a.Tile(level2[3])
	if se.X() != 3 || se.Y() != 3 || se.Level() != 2 {
		t.Errorf("address = %d/%d/%d, want 2/3/3", se.Level(), se.X(), se.Y())
	}
}
