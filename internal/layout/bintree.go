package layout

import (
	"github.com/riftwm/riftwm/internal/model"
)

// binNode is the shared node representation for the two binary-split
// strategies (BSP and Dwindle): a node is either a Split (orientation +
// ratio, exactly two children) or a Leaf (an optional window plus the
// fullscreen/fullscreen-within-gaps flags). preselectDir records a pending
// split direction armed by SplitSelection and consumed by the next
// insertion; preserved and rectCache are meaningful to Dwindle only.
type binNode struct {
	id             NodeID
	parent         NodeID
	hasParent      bool
	isSplit        bool
	orientation    model.Orientation
	ratio          float64
	children       [2]NodeID
	window         *model.WindowID
	fullscreen     bool
	fullscreenGaps bool
	preselectDir   *model.Direction
	preserved      bool
	rectCache      *model.Rect
	removed        bool
}

type binLayoutState struct {
	root      NodeID
	selection NodeID
}

// binOrienter supplies the one behavior that differs between BSP and
// Dwindle: which orientation a fresh (non-preselected) split should use.
type binOrienter interface {
	chooseOrientation(t *binTree, leafID NodeID) model.Orientation
}

// binTree is the shared engine behind BSPLayout and DwindleLayout. Both
// wrap one of these and supply a binOrienter; every other operation
// (insertion, removal, navigation, resize, layout calculation) is
// orientation-agnostic and lives here once.
type binTree struct {
	nodes      map[NodeID]*binNode
	nextNode   NodeID
	layouts    map[model.LayoutID]*binLayoutState
	nextLayout model.LayoutID
	windowNode map[model.WindowID]NodeID
	orienter   binOrienter

	// reorientFn, if set, lets a strategy re-derive an existing split's
	// orientation from its current rect on every layout pass (Dwindle);
	// nil means orientation is fixed once a split is created (BSP).
	reorientFn func(n *binNode, rect model.Rect)
}

func newBinTree(o binOrienter) *binTree {
	return &binTree{
		nodes:      make(map[NodeID]*binNode),
		layouts:    make(map[model.LayoutID]*binLayoutState),
		windowNode: make(map[model.WindowID]NodeID),
		orienter:   o,
	}
}

func (t *binTree) newNode() *binNode {
	t.nextNode++
	n := &binNode{id: t.nextNode}
	t.nodes[n.id] = n
	return n
}

func (t *binTree) node(id NodeID) (*binNode, bool) {
	n, ok := t.nodes[id]
	if !ok || n.removed {
		return nil, false
	}
	return n, true
}

// --- Lifecycle ---

func (t *binTree) createLayout() model.LayoutID {
	root := t.newNode()
	t.nextLayout++
	id := t.nextLayout
	t.layouts[id] = &binLayoutState{root: root.id, selection: root.id}
	return id
}

func (t *binTree) cloneLayout(id model.LayoutID) model.LayoutID {
	st, ok := t.layouts[id]
	if !ok {
		return t.createLayout()
	}
	newRoot := t.cloneSubtree(st.root, 0, false)
	t.nextLayout++
	newID := t.nextLayout
	t.layouts[newID] = &binLayoutState{root: newRoot, selection: t.leafOf(newRoot)}
	return newID
}

func (t *binTree) cloneSubtree(src, newParent NodeID, hasParent bool) NodeID {
	s, ok := t.node(src)
	if !ok {
		return 0
	}
	d := t.newNode()
	d.parent = newParent
	d.hasParent = hasParent
	d.isSplit = s.isSplit
	d.orientation = s.orientation
	d.ratio = s.ratio
	d.window = s.window
	d.fullscreen = s.fullscreen
	d.fullscreenGaps = s.fullscreenGaps
	d.preserved = s.preserved
	if s.isSplit {
		d.children[0] = t.cloneSubtree(s.children[0], d.id, true)
		d.children[1] = t.cloneSubtree(s.children[1], d.id, true)
	} else if d.window != nil {
		t.windowNode[*d.window] = d.id
	}
	return d.id
}

func (t *binTree) removeLayout(id model.LayoutID) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	t.removeSubtree(st.root)
	delete(t.layouts, id)
}

func (t *binTree) removeSubtree(id NodeID) {
	n, ok := t.node(id)
	if !ok {
		return
	}
	if n.isSplit {
		t.removeSubtree(n.children[0])
		t.removeSubtree(n.children[1])
	} else if n.window != nil {
		if cur, ok := t.windowNode[*n.window]; ok && cur == id {
			delete(t.windowNode, *n.window)
		}
	}
	n.removed = true
}

// --- Selection ---

func (t *binTree) leafOf(id NodeID) NodeID {
	cur := id
	for {
		n, ok := t.node(cur)
		if !ok || !n.isSplit {
			return cur
		}
		cur = n.children[0]
	}
}

func (t *binTree) rootOf(id NodeID) NodeID {
	cur := id
	for {
		n, ok := t.nodes[cur]
		if !ok || !n.hasParent {
			return cur
		}
		cur = n.parent
	}
}

func (t *binTree) layoutOwning(root NodeID) (model.LayoutID, bool) {
	for id, st := range t.layouts {
		if st.root == root {
			return id, true
		}
	}
	return 0, false
}

func (t *binTree) selectedWindow(id model.LayoutID) (model.WindowID, bool) {
	st, ok := t.layouts[id]
	if !ok {
		return model.WindowID{}, false
	}
	leaf, ok := t.node(t.leafOf(st.selection))
	if !ok || leaf.window == nil {
		return model.WindowID{}, false
	}
	return *leaf.window, true
}

func (t *binTree) selectWindow(id model.LayoutID, w model.WindowID) bool {
	st, ok := t.layouts[id]
	if !ok {
		return false
	}
	nodeID, ok := t.windowNode[w]
	if !ok || t.rootOf(nodeID) != st.root {
		return false
	}
	st.selection = nodeID
	return true
}

func (t *binTree) ascendSelection(id model.LayoutID) bool {
	st, ok := t.layouts[id]
	if !ok {
		return false
	}
	n, ok := t.node(st.selection)
	if !ok || !n.hasParent {
		return false
	}
	st.selection = n.parent
	return true
}

func (t *binTree) descendSelection(id model.LayoutID) bool {
	st, ok := t.layouts[id]
	if !ok {
		return false
	}
	n, ok := t.node(st.selection)
	if !ok || !n.isSplit {
		return false
	}
	st.selection = n.children[0]
	return true
}

// --- Mutation ---

// sideForDirection reports whether a split armed in this direction should
// keep the pre-existing content in the first child slot. A preselection of
// Right/Down means the new window lands on that side, so the existing
// content stays first; Left/Up means the new window takes the first slot
// and the existing content is pushed to second.
func sideForDirection(dir model.Direction) (existingFirst bool) {
	return dir == model.DirRight || dir == model.DirDown
}

func (t *binTree) splitLeaf(leafID NodeID, orientation model.Orientation, existingFirst bool, newLeaf *binNode, st *binLayoutState) {
	leaf, _ := t.node(leafID)
	split := t.newNode()
	split.isSplit = true
	split.orientation = orientation
	split.ratio = 0.5
	if existingFirst {
		split.children[0] = leafID
		split.children[1] = newLeaf.id
	} else {
		split.children[0] = newLeaf.id
		split.children[1] = leafID
	}
	if leaf.hasParent {
		parent, _ := t.node(leaf.parent)
		if parent.children[0] == leafID {
			parent.children[0] = split.id
		} else {
			parent.children[1] = split.id
		}
		split.parent = parent.id
		split.hasParent = true
	} else {
		st.root = split.id
	}
	leaf.parent = split.id
	leaf.hasParent = true
	newLeaf.parent = split.id
	newLeaf.hasParent = true
}

func (t *binTree) addWindowAfterSelection(id model.LayoutID, w model.WindowID) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	selLeafID := t.leafOf(st.selection)
	selLeaf, ok := t.node(selLeafID)
	if !ok {
		return
	}
	if selLeaf.window == nil {
		selLeaf.window = &w
		t.windowNode[w] = selLeafID
		st.selection = selLeafID
		return
	}

	newLeaf := t.newNode()
	newLeaf.window = &w
	t.windowNode[w] = newLeaf.id

	var orientation model.Orientation
	existingFirst := true
	if selLeaf.preselectDir != nil {
		dir := *selLeaf.preselectDir
		orientation = dir.Orientation()
		existingFirst = sideForDirection(dir)
		selLeaf.preselectDir = nil
	} else {
		orientation = t.orienter.chooseOrientation(t, selLeafID)
		existingFirst = true
	}
	t.splitLeaf(selLeafID, orientation, existingFirst, newLeaf, st)
	st.selection = newLeaf.id
}

func (t *binTree) removeWindow(w model.WindowID) {
	nodeID, ok := t.windowNode[w]
	if !ok {
		return
	}
	root := t.rootOf(nodeID)
	layoutID, found := t.layoutOwning(root)
	survivor := t.removeLeaf(nodeID)
	if found {
		st := t.layouts[layoutID]
		if _, ok := t.node(st.selection); !ok {
			st.selection = t.leafOf(survivor)
		}
	}
}

func (t *binTree) removeLeaf(leafID NodeID) NodeID {
	leaf, ok := t.node(leafID)
	if !ok {
		return leafID
	}
	if leaf.window != nil {
		if cur, ok := t.windowNode[*leaf.window]; ok && cur == leafID {
			delete(t.windowNode, *leaf.window)
		}
	}
	if !leaf.hasParent {
		leaf.window = nil
		leaf.fullscreen = false
		leaf.fullscreenGaps = false
		leaf.preselectDir = nil
		return leafID
	}
	parent, _ := t.node(leaf.parent)
	var siblingID NodeID
	if parent.children[0] == leafID {
		siblingID = parent.children[1]
	} else {
		siblingID = parent.children[0]
	}
	sibling, _ := t.node(siblingID)
	leaf.removed = true

	if parent.hasParent {
		gp, _ := t.node(parent.parent)
		if gp.children[0] == parent.id {
			gp.children[0] = siblingID
		} else {
			gp.children[1] = siblingID
		}
		sibling.parent = parent.parent
		sibling.hasParent = true
	} else {
		sibling.hasParent = false
		if lid, ok := t.layoutOwning(parent.id); ok {
			t.layouts[lid].root = siblingID
		}
	}
	parent.removed = true
	return t.leafOf(siblingID)
}

func (t *binTree) removeWindowsForApp(pid model.AppPid) {
	var toRemove []model.WindowID
	for w := range t.windowNode {
		if w.Pid == pid {
			toRemove = append(toRemove, w)
		}
	}
	for _, w := range toRemove {
		t.removeWindow(w)
	}
}

func (t *binTree) setWindowsForApp(id model.LayoutID, pid model.AppPid, desired []model.WindowID) {
	desiredSet := make(map[model.WindowID]bool, len(desired))
	for _, w := range desired {
		desiredSet[w] = true
	}
	current := make(map[model.WindowID]bool)
	for _, w := range t.visibleWindowsInLayout(id) {
		if w.Pid != pid {
			continue
		}
		current[w] = true
		if !desiredSet[w] {
			if nodeID, ok := t.windowNode[w]; ok {
				if n, ok := t.node(nodeID); ok && (n.fullscreen || n.fullscreenGaps) {
					continue
				}
			}
			t.removeWindow(w)
		}
	}
	for _, w := range desired {
		if !current[w] {
			t.addWindowAfterSelection(id, w)
		}
	}
}

func (t *binTree) swapWindows(a, b model.WindowID) bool {
	if a == b {
		return false
	}
	na, ok := t.windowNode[a]
	if !ok {
		return false
	}
	nb, ok := t.windowNode[b]
	if !ok {
		return false
	}
	leafA, ok := t.node(na)
	if !ok {
		return false
	}
	leafB, ok := t.node(nb)
	if !ok {
		return false
	}
	leafA.window, leafB.window = leafB.window, leafA.window
	t.windowNode[a] = nb
	t.windowNode[b] = na
	return true
}

// findNeighbor walks up from a leaf to the nearest ancestor split whose
// orientation matches dir, then descends the other child toward a leaf.
func (t *binTree) findNeighbor(leafID NodeID, dir model.Direction) NodeID {
	cur := leafID
	wantOrient := dir.Orientation()
	forward := dir == model.DirRight || dir == model.DirDown
	for {
		n, ok := t.node(cur)
		if !ok || !n.hasParent {
			return 0
		}
		parent, _ := t.node(n.parent)
		if parent.orientation == wantOrient {
			isFirst := parent.children[0] == cur
			if forward && isFirst {
				return t.leafOf(parent.children[1])
			}
			if !forward && !isFirst {
				return t.leafOf(parent.children[0])
			}
		}
		cur = parent.id
	}
}

func (t *binTree) moveSelection(id model.LayoutID, dir model.Direction) bool {
	st, ok := t.layouts[id]
	if !ok {
		return false
	}
	selID := t.leafOf(st.selection)
	neighbor := t.findNeighbor(selID, dir)
	if neighbor == 0 {
		return false
	}
	selLeaf, _ := t.node(selID)
	neighborLeaf, _ := t.node(neighbor)
	selLeaf.window, neighborLeaf.window = neighborLeaf.window, selLeaf.window
	if selLeaf.window != nil {
		t.windowNode[*selLeaf.window] = selID
	}
	if neighborLeaf.window != nil {
		t.windowNode[*neighborLeaf.window] = neighbor
	}
	st.selection = neighbor
	return true
}

// splitSelection arms a preselection on the current leaf rather than
// mutating the tree immediately: the next insertion consumes it to decide
// both orientation and which side the new window lands on.
func (t *binTree) splitSelection(id model.LayoutID, orientation model.Orientation) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	leaf, ok := t.node(t.leafOf(st.selection))
	if !ok {
		return
	}
	dir := model.DirRight
	if orientation == model.OrientVertical {
		dir = model.DirDown
	}
	leaf.preselectDir = &dir
}

func (t *binTree) unjoinSelection(id model.LayoutID) {
	// BSP/Dwindle are strictly binary: there is no n-ary group to unjoin
	// from, so this is a no-op for both strategies.
	_ = id
}

func (t *binTree) toggleTileOrientation(id model.LayoutID) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	sel, ok := t.node(t.leafOf(st.selection))
	if !ok || !sel.hasParent {
		return
	}
	parent, _ := t.node(sel.parent)
	if parent.orientation == model.OrientHorizontal {
		parent.orientation = model.OrientVertical
	} else {
		parent.orientation = model.OrientHorizontal
	}
}

func (t *binTree) resizeSelectionBy(id model.LayoutID, delta float64) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	cur := t.leafOf(st.selection)
	for {
		n, ok := t.node(cur)
		if !ok || !n.hasParent {
			return
		}
		parent, _ := t.node(n.parent)
		if parent.children[0] == cur {
			parent.ratio = clampRatio(parent.ratio + delta)
		} else {
			parent.ratio = clampRatio(parent.ratio - delta)
		}
		return
	}
}

func (t *binTree) onWindowResized(w model.WindowID, old, new_, screen model.Rect, gaps GapSettings) {
	nodeID, ok := t.windowNode[w]
	if !ok {
		return
	}
	leaf, ok := t.node(nodeID)
	if !ok {
		return
	}
	tiling := applyOuterGaps(screen, gaps)
	switch {
	case new_.Equal(screen):
		leaf.fullscreen = true
		leaf.fullscreenGaps = false
	case old.Equal(screen):
		leaf.fullscreen = false
	case new_.Equal(tiling):
		leaf.fullscreenGaps = true
		leaf.fullscreen = false
	case old.Equal(tiling):
		leaf.fullscreenGaps = false
	default:
		t.nudgeFromResize(nodeID, old, new_)
	}
}

func (t *binTree) nudgeFromResize(leafID NodeID, old, new_ model.Rect) {
	dLeft := old.X - new_.X
	dRight := (new_.X + new_.W) - (old.X + old.W)
	dTop := old.Y - new_.Y
	dBottom := (new_.Y + new_.H) - (old.Y + old.H)

	var dir model.Direction
	var amount float64
	switch {
	case dLeft != 0:
		dir, amount = model.DirLeft, dLeft/old.W
	case dRight != 0:
		dir, amount = model.DirRight, dRight/old.W
	case dTop != 0:
		dir, amount = model.DirUp, dTop/old.H
	case dBottom != 0:
		dir, amount = model.DirDown, dBottom/old.H
	default:
		return
	}
	wantOrient := dir.Orientation()
	cur := leafID
	for {
		n, ok := t.node(cur)
		if !ok || !n.hasParent {
			return
		}
		parent, _ := t.node(n.parent)
		if parent.orientation == wantOrient {
			if parent.children[0] == cur {
				parent.ratio = clampRatio(parent.ratio + amount)
			} else {
				parent.ratio = clampRatio(parent.ratio - amount)
			}
			return
		}
		cur = parent.id
	}
}

func (t *binTree) toggleFullscreen(id model.LayoutID) []model.WindowID {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	leaf, ok := t.node(t.leafOf(st.selection))
	if !ok {
		return nil
	}
	leaf.fullscreen = !leaf.fullscreen
	if leaf.fullscreen {
		leaf.fullscreenGaps = false
	}
	return t.visibleWindowsInLayout(id)
}

func (t *binTree) toggleFullscreenWithinGaps(id model.LayoutID) []model.WindowID {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	leaf, ok := t.node(t.leafOf(st.selection))
	if !ok {
		return nil
	}
	leaf.fullscreenGaps = !leaf.fullscreenGaps
	if leaf.fullscreenGaps {
		leaf.fullscreen = false
	}
	return t.visibleWindowsInLayout(id)
}

// --- Query ---

func (t *binTree) calculateLayout(id model.LayoutID, screen model.Rect, gaps GapSettings) []WindowRect {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	var out []WindowRect
	tiling := applyOuterGaps(screen, gaps)
	t.calcRecursive(st.root, tiling, screen, gaps, &out)
	return out
}

func (t *binTree) calcRecursive(id NodeID, rect, screen model.Rect, gaps GapSettings, out *[]WindowRect) {
	n, ok := t.node(id)
	if !ok {
		return
	}
	if !n.isSplit {
		n.rectCache = &rect
		if n.window == nil {
			return
		}
		target := rect
		if n.fullscreen {
			target = screen
		} else if n.fullscreenGaps {
			target = applyOuterGaps(screen, gaps)
		}
		*out = append(*out, WindowRect{Window: *n.window, Rect: target})
		return
	}
	if t.reorientFn != nil {
		t.reorientFn(n, rect)
	}
	if n.orientation == model.OrientHorizontal {
		gap := gaps.InnerHorizontal
		available := rect.W - gap
		w0 := available * n.ratio
		w1 := available - w0
		t.calcRecursive(n.children[0], model.Rect{X: rect.X, Y: rect.Y, W: w0, H: rect.H}, screen, gaps, out)
		t.calcRecursive(n.children[1], model.Rect{X: rect.X + w0 + gap, Y: rect.Y, W: w1, H: rect.H}, screen, gaps, out)
	} else {
		gap := gaps.InnerVertical
		available := rect.H - gap
		h0 := available * n.ratio
		h1 := available - h0
		t.calcRecursive(n.children[0], model.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: h0}, screen, gaps, out)
		t.calcRecursive(n.children[1], model.Rect{X: rect.X, Y: rect.Y + h0 + gap, W: rect.W, H: h1}, screen, gaps, out)
	}
}

// --- Navigation ---

func (t *binTree) moveFocus(id model.LayoutID, dir model.Direction) (*model.WindowID, []model.WindowID) {
	st, ok := t.layouts[id]
	if !ok {
		return nil, nil
	}
	raise := t.visibleWindowsInLayout(id)
	if len(raise) == 0 {
		return nil, nil
	}
	selID := t.leafOf(st.selection)
	neighbor := t.findNeighbor(selID, dir)
	if neighbor == 0 {
		return nil, nil
	}
	st.selection = neighbor
	n, _ := t.node(neighbor)
	return n.window, raise
}

func (t *binTree) windowInDirection(id model.LayoutID, dir model.Direction) (model.WindowID, bool) {
	st, ok := t.layouts[id]
	if !ok {
		return model.WindowID{}, false
	}
	neighbor := t.findNeighbor(t.leafOf(st.selection), dir)
	if neighbor == 0 {
		return model.WindowID{}, false
	}
	n, ok := t.node(neighbor)
	if !ok || n.window == nil {
		return model.WindowID{}, false
	}
	return *n.window, true
}

func (t *binTree) visibleWindowsInLayout(id model.LayoutID) []model.WindowID {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	var out []model.WindowID
	t.collectWindows(st.root, &out)
	return out
}

func (t *binTree) collectWindows(id NodeID, out *[]model.WindowID) {
	n, ok := t.node(id)
	if !ok {
		return
	}
	if !n.isSplit {
		if n.window != nil {
			*out = append(*out, *n.window)
		}
		return
	}
	t.collectWindows(n.children[0], out)
	t.collectWindows(n.children[1], out)
}

func (t *binTree) visibleWindowsUnderSelection(id model.LayoutID) []model.WindowID {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	var out []model.WindowID
	t.collectWindows(st.selection, &out)
	return out
}
