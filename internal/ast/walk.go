package ast

// Visitor is invoked for every node during a walk, in document order.
type Visitor func(n *Node, wc *WalkContext)

// WalkContext carries per-subtree state down a traversal. Values set on a
// frame are visible to the frame's subtree and discarded when the walk
// leaves it, which keeps rules stateless across files and across sibling
// subtrees.
type WalkContext struct {
	frames []frame
}

type frame struct {
	node   *Node
	values map[string]any
}

// Set stores a value on the current frame.
func (wc *WalkContext) Set(key string, value any) {
	top := &wc.frames[len(wc.frames)-1]
	if top.values == nil {
		top.values = make(map[string]any)
	}

	top.values[key] = value
}

// Lookup returns the value for key from the nearest enclosing frame.
func (wc *WalkContext) Lookup(key string) (any, bool) {
	for i := len(wc.frames) - 1; i >= 0; i-- {
		if v, ok := wc.frames[i].values[key]; ok {
			return v, true
		}
	}

	return nil, false
}

// Depth returns the number of enclosing frames of the given kind, not
// counting the current node.
func (wc *WalkContext) Depth(kind Kind) int {
	count := 0

	for i := 0; i < len(wc.frames)-1; i++ {
		if wc.frames[i].node.Kind == kind {
			count++
		}
	}

	return count
}

// Walk performs a single pre-order, document-order traversal of the tree.
// Traversal order is fixed so repeated runs over unchanged input yield
// identical visit order.
func Walk(root *Node, visit Visitor) {
	if root == nil {
		return
	}

	wc := &WalkContext{frames: make([]frame, 0, 16)}
	walk(root, visit, wc)
}

func walk(n *Node, visit Visitor, wc *WalkContext) {
	wc.frames = append(wc.frames, frame{node: n})
	visit(n, wc)

	for _, child := range n.Children {
		walk(child, visit, wc)
	}

	wc.frames = wc.frames[:len(wc.frames)-1]
}
