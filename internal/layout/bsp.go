package layout

import (
	"github.com/riftwm/riftwm/internal/model"
)

// BSPLayout is the strict-binary-tree strategy: every split carries a
// single ratio in [0.05, 0.95] and exactly two children. Unlike Dwindle,
// a fresh (non-preselected) split always uses Horizontal orientation.
type BSPLayout struct {
	tree *binTree
}

// NewBSPLayout returns an empty strategy instance.
func NewBSPLayout() *BSPLayout {
	b := &BSPLayout{}
	b.tree = newBinTree(b)
	return b
}

func (b *BSPLayout) chooseOrientation(t *binTree, leafID NodeID) model.Orientation {
	return model.OrientHorizontal
}

func (b *BSPLayout) CreateLayout() model.LayoutID              { return b.tree.createLayout() }
func (b *BSPLayout) CloneLayout(id model.LayoutID) model.LayoutID { return b.tree.cloneLayout(id) }
func (b *BSPLayout) RemoveLayout(id model.LayoutID)             { b.tree.removeLayout(id) }

func (b *BSPLayout) SelectedWindow(id model.LayoutID) (model.WindowID, bool) {
	return b.tree.selectedWindow(id)
}
func (b *BSPLayout) SelectWindow(id model.LayoutID, w model.WindowID) bool {
	return b.tree.selectWindow(id, w)
}
func (b *BSPLayout) AscendSelection(id model.LayoutID) bool  { return b.tree.ascendSelection(id) }
func (b *BSPLayout) DescendSelection(id model.LayoutID) bool { return b.tree.descendSelection(id) }

func (b *BSPLayout) AddWindowAfterSelection(id model.LayoutID, w model.WindowID) {
	b.tree.addWindowAfterSelection(id, w)
}
func (b *BSPLayout) RemoveWindow(w model.WindowID)              { b.tree.removeWindow(w) }
func (b *BSPLayout) RemoveWindowsForApp(pid model.AppPid)       { b.tree.removeWindowsForApp(pid) }
func (b *BSPLayout) SetWindowsForApp(id model.LayoutID, pid model.AppPid, desired []model.WindowID) {
	b.tree.setWindowsForApp(id, pid, desired)
}
func (b *BSPLayout) SwapWindows(id model.LayoutID, a, c model.WindowID) bool {
	return b.tree.swapWindows(a, c)
}
func (b *BSPLayout) MoveSelection(id model.LayoutID, dir model.Direction) bool {
	return b.tree.moveSelection(id, dir)
}
func (b *BSPLayout) SplitSelection(id model.LayoutID, orientation model.Orientation) {
	b.tree.splitSelection(id, orientation)
}
func (b *BSPLayout) JoinSelectionWithDirection(id model.LayoutID, dir model.Direction) {
	// BSP has no n-ary groups to rejoin into; splits already merge via
	// collapse-on-removal, so this is a no-op.
}
func (b *BSPLayout) UnjoinSelection(id model.LayoutID)    { b.tree.unjoinSelection(id) }
func (b *BSPLayout) ToggleTileOrientation(id model.LayoutID) { b.tree.toggleTileOrientation(id) }
func (b *BSPLayout) ResizeSelectionBy(id model.LayoutID, delta float64) {
	b.tree.resizeSelectionBy(id, delta)
}
func (b *BSPLayout) OnWindowResized(id model.LayoutID, w model.WindowID, old, new_, screen model.Rect, gaps GapSettings) {
	b.tree.onWindowResized(w, old, new_, screen, gaps)
}
func (b *BSPLayout) ToggleFullscreen(id model.LayoutID) []model.WindowID {
	return b.tree.toggleFullscreen(id)
}
func (b *BSPLayout) ToggleFullscreenWithinGaps(id model.LayoutID) []model.WindowID {
	return b.tree.toggleFullscreenWithinGaps(id)
}

func (b *BSPLayout) CalculateLayout(id model.LayoutID, screen model.Rect, stackOffset float64,
	gaps GapSettings, stackLineThickness float64, horiz HorizontalPlacement, vert VerticalPlacement) []WindowRect {
	return b.tree.calculateLayout(id, screen, gaps)
}

func (b *BSPLayout) MoveFocus(id model.LayoutID, dir model.Direction) (*model.WindowID, []model.WindowID) {
	return b.tree.moveFocus(id, dir)
}
func (b *BSPLayout) WindowInDirection(id model.LayoutID, dir model.Direction) (model.WindowID, bool) {
	return b.tree.windowInDirection(id, dir)
}
func (b *BSPLayout) VisibleWindowsInLayout(id model.LayoutID) []model.WindowID {
	return b.tree.visibleWindowsInLayout(id)
}
func (b *BSPLayout) VisibleWindowsUnderSelection(id model.LayoutID) []model.WindowID {
	return b.tree.visibleWindowsUnderSelection(id)
}

// ApplyStackingToParentOfSelection is traditional-only; BSP has no
// stacked containers.
func (b *BSPLayout) ApplyStackingToParentOfSelection(id model.LayoutID, orientation model.Orientation) []model.WindowID {
	return nil
}

// CollectGroupContainersInSelectionPath is traditional-only; BSP has no
// stacked containers.
func (b *BSPLayout) CollectGroupContainersInSelectionPath(id model.LayoutID) []GroupContainer {
	return nil
}
