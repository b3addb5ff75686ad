package layout

import (
	"github.com/riftwm/riftwm/internal/model"
)

// traditionalNode is either an interior container (len(children) > 0) or a
// leaf (window may be nil, meaning an empty placeholder leaf). Nodes are
// never recycled: removal sets `removed` rather than freeing the slot, so a
// NodeID captured before removal always resolves unambiguously.
type traditionalNode struct {
	id             NodeID
	parent         NodeID
	hasParent      bool
	kind           LayoutKind
	weights        []float64
	children       []NodeID
	window         *model.WindowID
	fullscreen     bool
	fullscreenGaps bool
	removed        bool
}

func (n *traditionalNode) isLeaf() bool { return len(n.children) == 0 }

type traditionalLayoutState struct {
	root      NodeID
	selection NodeID
}

// TraditionalLayout is the n-ary container-tree strategy: interior nodes
// carry a LayoutKind (orientation + stacked flag) and per-child weights
// summing to 1.0; insertion places new windows as siblings of the
// selection.
type TraditionalLayout struct {
	nodes      map[NodeID]*traditionalNode
	nextNode   NodeID
	layouts    map[model.LayoutID]*traditionalLayoutState
	nextLayout model.LayoutID
	windowNode map[model.WindowID]NodeID

	// DefaultKind is the orientation assigned when a leaf with a window is
	// split for the first time without an explicit SplitSelection call.
	DefaultKind LayoutKind
}

// NewTraditionalLayout returns an empty strategy instance.
func NewTraditionalLayout() *TraditionalLayout {
	return &TraditionalLayout{
		nodes:      make(map[NodeID]*traditionalNode),
		layouts:    make(map[model.LayoutID]*traditionalLayoutState),
		windowNode: make(map[model.WindowID]NodeID),
		DefaultKind: KindHorizontal,
	}
}

func (t *TraditionalLayout) newNode() *traditionalNode {
	t.nextNode++
	n := &traditionalNode{id: t.nextNode}
	t.nodes[n.id] = n
	return n
}

func (t *TraditionalLayout) node(id NodeID) (*traditionalNode, bool) {
	n, ok := t.nodes[id]
	if !ok || n.removed {
		return nil, false
	}
	return n, true
}

// --- Lifecycle ---

func (t *TraditionalLayout) CreateLayout() model.LayoutID {
	root := t.newNode()
	t.nextLayout++
	id := t.nextLayout
	t.layouts[id] = &traditionalLayoutState{root: root.id, selection: root.id}
	return id
}

func (t *TraditionalLayout) CloneLayout(id model.LayoutID) model.LayoutID {
	st, ok := t.layouts[id]
	if !ok {
		return t.CreateLayout()
	}
	newRoot := t.cloneSubtree(st.root, NodeID(0), false)
	t.nextLayout++
	newID := t.nextLayout
	t.layouts[newID] = &traditionalLayoutState{root: newRoot, selection: t.leafOf(newRoot)}
	return newID
}

func (t *TraditionalLayout) cloneSubtree(src NodeID, newParent NodeID, hasParent bool) NodeID {
	srcNode, ok := t.node(src)
	if !ok {
		return 0
	}
	dst := t.newNode()
	dst.parent = newParent
	dst.hasParent = hasParent
	dst.kind = srcNode.kind
	dst.window = srcNode.window
	dst.fullscreen = srcNode.fullscreen
	dst.fullscreenGaps = srcNode.fullscreenGaps
	if len(srcNode.children) > 0 {
		dst.weights = append([]float64(nil), srcNode.weights...)
		dst.children = make([]NodeID, len(srcNode.children))
		for i, c := range srcNode.children {
			dst.children[i] = t.cloneSubtree(c, dst.id, true)
		}
	} else if dst.window != nil {
		t.windowNode[*dst.window] = dst.id
	}
	return dst.id
}

func (t *TraditionalLayout) RemoveLayout(id model.LayoutID) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	t.removeSubtree(st.root)
	delete(t.layouts, id)
}

func (t *TraditionalLayout) removeSubtree(id NodeID) {
	n, ok := t.node(id)
	if !ok {
		return
	}
	for _, c := range n.children {
		t.removeSubtree(c)
	}
	if n.window != nil {
		if cur, ok := t.windowNode[*n.window]; ok && cur == id {
			delete(t.windowNode, *n.window)
		}
	}
	n.removed = true
}

// --- Selection cursor ---

// leafOf descends to the first leaf under id, following child index 0.
func (t *TraditionalLayout) leafOf(id NodeID) NodeID {
	cur := id
	for {
		n, ok := t.node(cur)
		if !ok || n.isLeaf() {
			return cur
		}
		cur = n.children[0]
	}
}

func (t *TraditionalLayout) rootOf(id NodeID) NodeID {
	cur := id
	for {
		n, ok := t.nodes[cur]
		if !ok {
			return cur
		}
		if !n.hasParent {
			return cur
		}
		cur = n.parent
	}
}

func (t *TraditionalLayout) layoutOwning(root NodeID) (model.LayoutID, bool) {
	for id, st := range t.layouts {
		if st.root == root {
			return id, true
		}
	}
	return 0, false
}

func (t *TraditionalLayout) SelectedWindow(id model.LayoutID) (model.WindowID, bool) {
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

func (t *TraditionalLayout) SelectWindow(id model.LayoutID, w model.WindowID) bool {
	st, ok := t.layouts[id]
	if !ok {
		return false
	}
	nodeID, ok := t.windowNode[w]
	if !ok {
		return false
	}
	if t.rootOf(nodeID) != st.root {
		return false
	}
	st.selection = nodeID
	return true
}

func (t *TraditionalLayout) AscendSelection(id model.LayoutID) bool {
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

func (t *TraditionalLayout) DescendSelection(id model.LayoutID) bool {
	st, ok := t.layouts[id]
	if !ok {
		return false
	}
	n, ok := t.node(st.selection)
	if !ok || n.isLeaf() {
		return false
	}
	st.selection = n.children[0]
	return true
}

// --- Mutation ---

func (t *TraditionalLayout) AddWindowAfterSelection(id model.LayoutID, w model.WindowID) {
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

	if !selLeaf.hasParent {
		// Root leaf with a window: create the first container.
		oldRootID := selLeafID
		oldRoot := selLeaf
		newRoot := t.newNode()
		newRoot.kind = t.DefaultKind
		newRoot.children = []NodeID{oldRootID, newLeaf.id}
		newRoot.weights = []float64{0.5, 0.5}
		oldRoot.parent = newRoot.id
		oldRoot.hasParent = true
		newLeaf.parent = newRoot.id
		newLeaf.hasParent = true
		st.root = newRoot.id
		st.selection = newLeaf.id
		return
	}

	parent, _ := t.node(selLeaf.parent)
	idx := indexOfNode(parent.children, selLeafID)
	parent.children = insertNodeAt(parent.children, idx+1, newLeaf.id)
	newLeaf.parent = parent.id
	newLeaf.hasParent = true
	n := len(parent.children)
	equal := 1.0 / float64(n)
	parent.weights = make([]float64, n)
	for i := range parent.weights {
		parent.weights[i] = equal
	}
	st.selection = newLeaf.id
}

func (t *TraditionalLayout) RemoveWindow(w model.WindowID) {
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

// removeLeaf detaches the leaf, collapses a now-single-child parent, and
// returns the node id the selection should fall back to if it pointed at
// the removed node.
func (t *TraditionalLayout) removeLeaf(leafID NodeID) NodeID {
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
		// Root placeholder: clear it in place, never remove the sole root.
		leaf.window = nil
		leaf.fullscreen = false
		leaf.fullscreenGaps = false
		return leafID
	}
	parent, _ := t.node(leaf.parent)
	idx := indexOfNode(parent.children, leafID)
	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	parent.weights = append(parent.weights[:idx], parent.weights[idx+1:]...)
	leaf.removed = true

	if len(parent.children) == 1 {
		onlyChild := parent.children[0]
		child, _ := t.node(onlyChild)
		if parent.hasParent {
			gp, _ := t.node(parent.parent)
			gidx := indexOfNode(gp.children, parent.id)
			gp.children[gidx] = onlyChild
			child.parent = parent.parent
			child.hasParent = true
		} else {
			child.hasParent = false
			if lid, ok := t.layoutOwning(parent.id); ok {
				t.layouts[lid].root = onlyChild
			}
		}
		parent.removed = true
		return t.leafOf(onlyChild)
	}

	sum := 0.0
	for _, wgt := range parent.weights {
		sum += wgt
	}
	if sum > 0 {
		for i := range parent.weights {
			parent.weights[i] /= sum
		}
	} else if len(parent.weights) > 0 {
		eq := 1.0 / float64(len(parent.weights))
		for i := range parent.weights {
			parent.weights[i] = eq
		}
	}
	return t.leafOf(parent.id)
}

func (t *TraditionalLayout) RemoveWindowsForApp(pid model.AppPid) {
	var toRemove []model.WindowID
	for w := range t.windowNode {
		if w.Pid == pid {
			toRemove = append(toRemove, w)
		}
	}
	for _, w := range toRemove {
		t.RemoveWindow(w)
	}
}

func (t *TraditionalLayout) SetWindowsForApp(id model.LayoutID, pid model.AppPid, desired []model.WindowID) {
	desiredSet := make(map[model.WindowID]bool, len(desired))
	for _, w := range desired {
		desiredSet[w] = true
	}
	current := make(map[model.WindowID]bool)
	for _, w := range t.VisibleWindowsInLayout(id) {
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
			t.RemoveWindow(w)
		}
	}
	for _, w := range desired {
		if !current[w] {
			t.AddWindowAfterSelection(id, w)
		}
	}
}

func (t *TraditionalLayout) SwapWindows(id model.LayoutID, a, b model.WindowID) bool {
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

func (t *TraditionalLayout) MoveSelection(id model.LayoutID, dir model.Direction) bool {
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

// findNeighbor walks up from a leaf looking for the nearest ancestor split
// whose orientation matches the direction, then steps to the adjacent
// child index and descends back to a leaf.
func (t *TraditionalLayout) findNeighbor(leafID NodeID, dir model.Direction) NodeID {
	cur := leafID
	wantOrient := dir.Orientation()
	for {
		n, ok := t.node(cur)
		if !ok || !n.hasParent {
			return 0
		}
		parent, _ := t.node(n.parent)
		if parent.kind.Orientation() == wantOrient {
			idx := indexOfNode(parent.children, cur)
			var targetIdx int
			forward := dir == model.DirRight || dir == model.DirDown
			if forward {
				targetIdx = idx + 1
			} else {
				targetIdx = idx - 1
			}
			if targetIdx >= 0 && targetIdx < len(parent.children) {
				return t.leafOf(parent.children[targetIdx])
			}
		}
		cur = parent.id
	}
}

func (t *TraditionalLayout) SplitSelection(id model.LayoutID, orientation model.Orientation) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	selID := t.leafOf(st.selection)
	sel, ok := t.node(selID)
	if !ok {
		return
	}
	kind := KindHorizontal
	if orientation == model.OrientVertical {
		kind = KindVertical
	}
	newLeaf := t.newNode()

	if sel.hasParent {
		parent, _ := t.node(sel.parent)
		if parent.kind.Orientation() == orientation {
			idx := indexOfNode(parent.children, selID)
			parent.children = insertNodeAt(parent.children, idx+1, newLeaf.id)
			newLeaf.parent = parent.id
			newLeaf.hasParent = true
			n := len(parent.children)
			eq := 1.0 / float64(n)
			parent.weights = make([]float64, n)
			for i := range parent.weights {
				parent.weights[i] = eq
			}
			st.selection = newLeaf.id
			return
		}
	}
	// Wrap selLeaf in a brand new 2-child split of the requested orientation.
	t.wrapInSplit(selID, newLeaf.id, kind, st)
}

func (t *TraditionalLayout) wrapInSplit(existingID, newID NodeID, kind LayoutKind, st *traditionalLayoutState) {
	existing, _ := t.node(existingID)
	newSplit := t.newNode()
	newSplit.kind = kind
	newSplit.children = []NodeID{existingID, newID}
	newSplit.weights = []float64{0.5, 0.5}

	if existing.hasParent {
		parent, _ := t.node(existing.parent)
		idx := indexOfNode(parent.children, existingID)
		parent.children[idx] = newSplit.id
		newSplit.parent = parent.id
		newSplit.hasParent = true
	} else {
		st.root = newSplit.id
	}
	existing.parent = newSplit.id
	existing.hasParent = true
	newLeaf, _ := t.node(newID)
	newLeaf.parent = newSplit.id
	newLeaf.hasParent = true
	st.selection = newID
}

func (t *TraditionalLayout) JoinSelectionWithDirection(id model.LayoutID, dir model.Direction) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	selID := t.leafOf(st.selection)
	sel, ok := t.node(selID)
	if !ok || !sel.hasParent {
		return
	}
	parent, _ := t.node(sel.parent)
	if !parent.hasParent {
		return
	}
	gp, _ := t.node(parent.parent)
	idx := indexOfNode(gp.children, parent.id)
	flattened := parent.children
	for _, c := range flattened {
		cn, _ := t.node(c)
		cn.parent = gp.id
	}
	newChildren := make([]NodeID, 0, len(gp.children)-1+len(flattened))
	newChildren = append(newChildren, gp.children[:idx]...)
	newChildren = append(newChildren, flattened...)
	newChildren = append(newChildren, gp.children[idx+1:]...)
	gp.children = newChildren
	eq := 1.0 / float64(len(gp.children))
	gp.weights = make([]float64, len(gp.children))
	for i := range gp.weights {
		gp.weights[i] = eq
	}
	parent.removed = true
	st.selection = selID
}

func (t *TraditionalLayout) UnjoinSelection(id model.LayoutID) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	selID := t.leafOf(st.selection)
	sel, ok := t.node(selID)
	if !ok || !sel.hasParent {
		return
	}
	parent, _ := t.node(sel.parent)
	if len(parent.children) < 3 {
		return
	}
	idx := indexOfNode(parent.children, selID)
	rest := append([]NodeID{}, parent.children[:idx]...)
	rest = append(rest, parent.children[idx+1:]...)
	newGroup := t.newNode()
	newGroup.kind = parent.kind
	newGroup.children = rest
	newGroup.parent = parent.id
	newGroup.hasParent = true
	eq := 1.0 / float64(len(rest))
	newGroup.weights = make([]float64, len(rest))
	for i := range newGroup.weights {
		newGroup.weights[i] = eq
	}
	for _, c := range rest {
		cn, _ := t.node(c)
		cn.parent = newGroup.id
	}
	parent.children = []NodeID{selID, newGroup.id}
	parent.weights = []float64{0.5, 0.5}
	sel.parent = parent.id
	sel.hasParent = true
	st.selection = selID
}

func (t *TraditionalLayout) ToggleTileOrientation(id model.LayoutID) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	sel, ok := t.node(t.leafOf(st.selection))
	if !ok || !sel.hasParent {
		return
	}
	parent, _ := t.node(sel.parent)
	switch parent.kind {
	case KindHorizontal:
		parent.kind = KindVertical
	case KindVertical:
		parent.kind = KindHorizontal
	case KindHorizontalStack:
		parent.kind = KindVerticalStack
	case KindVerticalStack:
		parent.kind = KindHorizontalStack
	}
}

func (t *TraditionalLayout) ResizeSelectionBy(id model.LayoutID, delta float64) {
	st, ok := t.layouts[id]
	if !ok {
		return
	}
	selID := t.leafOf(st.selection)
	cur := selID
	for {
		n, ok := t.node(cur)
		if !ok || !n.hasParent {
			return
		}
		parent, _ := t.node(n.parent)
		if len(parent.children) >= 2 {
			idx := indexOfNode(parent.children, cur)
			applyWeightDelta(parent.weights, idx, delta)
			return
		}
		cur = parent.id
	}
}

// applyWeightDelta nudges weights[idx] by delta, taking the delta equally
// from (or giving it equally to) the other siblings, then clamps and
// renormalises so the slice still sums to 1.0.
func applyWeightDelta(weights []float64, idx int, delta float64) {
	if len(weights) < 2 {
		return
	}
	others := len(weights) - 1
	weights[idx] = clampRatio(weights[idx] + delta)
	remaining := 1.0 - weights[idx]
	share := remaining / float64(others)
	for i := range weights {
		if i != idx {
			weights[i] = share
		}
	}
}

func (t *TraditionalLayout) OnWindowResized(id model.LayoutID, w model.WindowID, old, new_, screen model.Rect, gaps GapSettings) {
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

// nudgeFromResize interprets a drag as moving exactly one edge (the first
// non-zero delta among left, right, up, down wins) and nudges the nearest
// ancestor split of matching orientation.
func (t *TraditionalLayout) nudgeFromResize(leafID NodeID, old, new_ model.Rect) {
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
		if parent.kind.Orientation() == wantOrient && len(parent.children) >= 2 {
			idx := indexOfNode(parent.children, cur)
			applyWeightDelta(parent.weights, idx, amount)
			return
		}
		cur = parent.id
	}
}

func (t *TraditionalLayout) ToggleFullscreen(id model.LayoutID) []model.WindowID {
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
	return t.VisibleWindowsInLayout(id)
}

func (t *TraditionalLayout) ToggleFullscreenWithinGaps(id model.LayoutID) []model.WindowID {
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
	return t.VisibleWindowsInLayout(id)
}

// --- Query ---

func applyOuterGaps(screen model.Rect, gaps GapSettings) model.Rect {
	return model.Rect{
		X: screen.X + gaps.OuterLeft,
		Y: screen.Y + gaps.OuterTop,
		W: screen.W - gaps.OuterLeft - gaps.OuterRight,
		H: screen.H - gaps.OuterTop - gaps.OuterBottom,
	}
}

func (t *TraditionalLayout) CalculateLayout(id model.LayoutID, screen model.Rect, stackOffset float64,
	gaps GapSettings, stackLineThickness float64, horiz HorizontalPlacement, vert VerticalPlacement) []WindowRect {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	var out []WindowRect
	tiling := applyOuterGaps(screen, gaps)
	t.calcRecursive(st.root, tiling, screen, gaps, stackOffset, &out)
	return out
}

func (t *TraditionalLayout) calcRecursive(id NodeID, rect, screen model.Rect, gaps GapSettings, stackOffset float64, out *[]WindowRect) {
	n, ok := t.node(id)
	if !ok {
		return
	}
	if n.isLeaf() {
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
	if n.kind.Stacked() {
		for i, c := range n.children {
			offsetRect := rect
			off := stackOffset * float64(i)
			offsetRect.X += off
			offsetRect.Y += off
			offsetRect.W -= off
			offsetRect.H -= off
			t.calcRecursive(c, offsetRect, screen, gaps, stackOffset, out)
		}
		return
	}
	orient := n.kind.Orientation()
	if orient == model.OrientHorizontal {
		gap := gaps.InnerHorizontal
		available := rect.W - gap*float64(len(n.children)-1)
		x := rect.X
		for i, c := range n.children {
			w := available * n.weights[i]
			child := model.Rect{X: x, Y: rect.Y, W: w, H: rect.H}
			t.calcRecursive(c, child, screen, gaps, stackOffset, out)
			x += w + gap
		}
	} else {
		gap := gaps.InnerVertical
		available := rect.H - gap*float64(len(n.children)-1)
		y := rect.Y
		for i, c := range n.children {
			h := available * n.weights[i]
			child := model.Rect{X: rect.X, Y: y, W: rect.W, H: h}
			t.calcRecursive(c, child, screen, gaps, stackOffset, out)
			y += h + gap
		}
	}
}

// --- Navigation ---

func (t *TraditionalLayout) MoveFocus(id model.LayoutID, dir model.Direction) (*model.WindowID, []model.WindowID) {
	st, ok := t.layouts[id]
	if !ok {
		return nil, nil
	}
	raise := t.VisibleWindowsInLayout(id)
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

func (t *TraditionalLayout) WindowInDirection(id model.LayoutID, dir model.Direction) (model.WindowID, bool) {
	st, ok := t.layouts[id]
	if !ok {
		return model.WindowID{}, false
	}
	selID := t.leafOf(st.selection)
	neighbor := t.findNeighbor(selID, dir)
	if neighbor == 0 {
		return model.WindowID{}, false
	}
	n, ok := t.node(neighbor)
	if !ok || n.window == nil {
		return model.WindowID{}, false
	}
	return *n.window, true
}

func (t *TraditionalLayout) VisibleWindowsInLayout(id model.LayoutID) []model.WindowID {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	var out []model.WindowID
	t.collectWindows(st.root, &out)
	return out
}

func (t *TraditionalLayout) collectWindows(id NodeID, out *[]model.WindowID) {
	n, ok := t.node(id)
	if !ok {
		return
	}
	if n.isLeaf() {
		if n.window != nil {
			*out = append(*out, *n.window)
		}
		return
	}
	for _, c := range n.children {
		t.collectWindows(c, out)
	}
}

func (t *TraditionalLayout) VisibleWindowsUnderSelection(id model.LayoutID) []model.WindowID {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	var out []model.WindowID
	t.collectWindows(st.selection, &out)
	return out
}

// --- Stacking ---

// ApplyStackingToParentOfSelection converts the selection's immediate
// parent into a stacked container along orientation, a no-op if that
// parent is already stacked or the selection sits at the tree root with
// no parent to convert. Mirrors the source's
// apply_stacking_to_parent_of_selection, simplified from its
// StackDefaultOrientation enum (Perpendicular/Same/Horizontal/Vertical) to
// a plain model.Orientation — resolving "perpendicular to the current
// split" is the caller's job, same as ToggleTileOrientation's swap.
// Returns the stack's member windows, for the reactor to raise.
func (t *TraditionalLayout) ApplyStackingToParentOfSelection(id model.LayoutID, orientation model.Orientation) []model.WindowID {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	sel, ok := t.node(t.leafOf(st.selection))
	if !ok || !sel.hasParent {
		return nil
	}
	parent, _ := t.node(sel.parent)
	if parent.kind.Stacked() {
		return nil
	}
	if orientation == model.OrientVertical {
		parent.kind = KindVerticalStack
	} else {
		parent.kind = KindHorizontalStack
	}
	var windows []model.WindowID
	t.collectWindows(parent.id, &windows)
	return windows
}

func (t *TraditionalLayout) CollectGroupContainersInSelectionPath(id model.LayoutID) []GroupContainer {
	st, ok := t.layouts[id]
	if !ok {
		return nil
	}
	var groups []GroupContainer
	cur := t.leafOf(st.selection)
	for {
		n, ok := t.node(cur)
		if !ok || !n.hasParent {
			return groups
		}
		parent, _ := t.node(n.parent)
		if parent.kind.Stacked() {
			var kids []model.WindowID
			t.collectWindows(parent.id, &kids)
			groups = append(groups, GroupContainer{Node: parent.id, Kind: parent.kind, Children: kids})
		}
		cur = parent.id
	}
}

func indexOfNode(ids []NodeID, target NodeID) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}

func insertNodeAt(ids []NodeID, idx int, v NodeID) []NodeID {
	ids = append(ids, 0)
	copy(ids[idx+1:], ids[idx:])
	ids[idx] = v
	return ids
}
