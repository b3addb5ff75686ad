package layout

import (
	"github.com/riftwm/riftwm/internal/model"
)

// DwindleLayout is structurally the same strict-binary tree as BSP, but a
// fresh split's orientation is derived from the aspect ratio of the rect
// being split (wide rect -> side-by-side, tall rect -> stacked) instead of
// always defaulting to Horizontal. A split can be pinned against this
// dynamic re-derivation by toggling its orientation manually, which marks
// it preserved.
type DwindleLayout struct {
	tree *binTree
}

// NewDwindleLayout returns an empty strategy instance.
func NewDwindleLayout() *DwindleLayout {
	d := &DwindleLayout{}
	d.tree = newBinTree(d)
	d.tree.reorientFn = d.reorient
	return d
}

func (d *DwindleLayout) chooseOrientation(t *binTree, leafID NodeID) model.Orientation {
	n, ok := t.node(leafID)
	if !ok || n.rectCache == nil {
		return model.OrientHorizontal
	}
	return orientationForRect(*n.rectCache)
}

func orientationForRect(r model.Rect) model.Orientation {
	if r.W > r.H {
		return model.OrientHorizontal
	}
	return model.OrientVertical
}

// reorient re-derives an unpreserved split's orientation from the rect it
// is about to divide, so the tree keeps favouring side-by-side splits in
// wide regions and stacked splits in tall ones as the screen changes.
func (d *DwindleLayout) reorient(n *binNode, rect model.Rect) {
	if n.preserved {
		return
	}
	n.orientation = orientationForRect(rect)
}

func (d *DwindleLayout) CreateLayout() model.LayoutID                { return d.tree.createLayout() }
func (d *DwindleLayout) CloneLayout(id model.LayoutID) model.LayoutID { return d.tree.cloneLayout(id) }
func (d *DwindleLayout) RemoveLayout(id model.LayoutID)              { d.tree.removeLayout(id) }

func (d *DwindleLayout) SelectedWindow(id model.LayoutID) (model.WindowID, bool) {
	return d.tree.selectedWindow(id)
}
func (d *DwindleLayout) SelectWindow(id model.LayoutID, w model.WindowID) bool {
	return d.tree.selectWindow(id, w)
}
func (d *DwindleLayout) AscendSelection(id model.LayoutID) bool  { return d.tree.ascendSelection(id) }
func (d *DwindleLayout) DescendSelection(id model.LayoutID) bool { return d.tree.descendSelection(id) }

func (d *DwindleLayout) AddWindowAfterSelection(id model.LayoutID, w model.WindowID) {
	d.tree.addWindowAfterSelection(id, w)
}
func (d *DwindleLayout) RemoveWindow(w model.WindowID)        { d.tree.removeWindow(w) }
func (d *DwindleLayout) RemoveWindowsForApp(pid model.AppPid) { d.tree.removeWindowsForApp(pid) }
func (d *DwindleLayout) SetWindowsForApp(id model.LayoutID, pid model.AppPid, desired []model.WindowID) {
	d.tree.setWindowsForApp(id, pid, desired)
}
func (d *DwindleLayout) SwapWindows(id model.LayoutID, a, c model.WindowID) bool {
	return d.tree.swapWindows(a, c)
}
func (d *DwindleLayout) MoveSelection(id model.LayoutID, dir model.Direction) bool {
	return d.tree.moveSelection(id, dir)
}
func (d *DwindleLayout) SplitSelection(id model.LayoutID, orientation model.Orientation) {
	d.tree.splitSelection(id, orientation)
}
func (d *DwindleLayout) JoinSelectionWithDirection(id model.LayoutID, dir model.Direction) {
	// Structurally binary, same as BSP: nothing to rejoin.
}
func (d *DwindleLayout) UnjoinSelection(id model.LayoutID) { d.tree.unjoinSelection(id) }

// ToggleTileOrientation flips the enclosing split's orientation and pins
// it (preserved), so the next layout pass does not immediately recompute
// it back from the rect's aspect ratio.
func (d *DwindleLayout) ToggleTileOrientation(id model.LayoutID) {
	st, ok := d.tree.layouts[id]
	if !ok {
		return
	}
	sel, ok := d.tree.node(d.tree.leafOf(st.selection))
	if !ok || !sel.hasParent {
		return
	}
	parent, _ := d.tree.node(sel.parent)
	if parent.orientation == model.OrientHorizontal {
		parent.orientation = model.OrientVertical
	} else {
		parent.orientation = model.OrientHorizontal
	}
	parent.preserved = true
}

func (d *DwindleLayout) ResizeSelectionBy(id model.LayoutID, delta float64) {
	d.tree.resizeSelectionBy(id, delta)
}
func (d *DwindleLayout) OnWindowResized(id model.LayoutID, w model.WindowID, old, new_, screen model.Rect, gaps GapSettings) {
	d.tree.onWindowResized(w, old, new_, screen, gaps)
}
func (d *DwindleLayout) ToggleFullscreen(id model.LayoutID) []model.WindowID {
	return d.tree.toggleFullscreen(id)
}
func (d *DwindleLayout) ToggleFullscreenWithinGaps(id model.LayoutID) []model.WindowID {
	return d.tree.toggleFullscreenWithinGaps(id)
}

func (d *DwindleLayout) CalculateLayout(id model.LayoutID, screen model.Rect, stackOffset float64,
	gaps GapSettings, stackLineThickness float64, horiz HorizontalPlacement, vert VerticalPlacement) []WindowRect {
	return d.tree.calculateLayout(id, screen, gaps)
}

func (d *DwindleLayout) MoveFocus(id model.LayoutID, dir model.Direction) (*model.WindowID, []model.WindowID) {
	return d.tree.moveFocus(id, dir)
}
func (d *DwindleLayout) WindowInDirection(id model.LayoutID, dir model.Direction) (model.WindowID, bool) {
	return d.tree.windowInDirection(id, dir)
}
func (d *DwindleLayout) VisibleWindowsInLayout(id model.LayoutID) []model.WindowID {
	return d.tree.visibleWindowsInLayout(id)
}
func (d *DwindleLayout) VisibleWindowsUnderSelection(id model.LayoutID) []model.WindowID {
	return d.tree.visibleWindowsUnderSelection(id)
}

// ApplyStackingToParentOfSelection is traditional-only; Dwindle has no
// stacked containers.
func (d *DwindleLayout) ApplyStackingToParentOfSelection(id model.LayoutID, orientation model.Orientation) []model.WindowID {
	return nil
}

// CollectGroupContainersInSelectionPath is traditional-only; Dwindle has
// no stacked containers.
func (d *DwindleLayout) CollectGroupContainersInSelectionPath(id model.LayoutID) []GroupContainer {
	return nil
}
