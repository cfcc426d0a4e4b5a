package clusterfield

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

type pointerState struct {
	down    bool
	lastX   float64
	lastY   float64
	hitNode *Node
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside the node's rectangle.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.Width <= 0 || n.Height <= 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectClickable walks the tree in painter order, appending visible nodes
// that have a click handler. Invisible subtrees are skipped.
func collectClickable(n *Node, buf []*Node) []*Node {
	if !n.Visible || n.disposed {
		return buf
	}
	if n.OnClick != nil {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectClickable(child, buf)
	}
	return buf
}

// hitTest finds the topmost clickable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = collectClickable(s.root, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly, ok := n.WorldToLocal(worldX, worldY)
		if ok && nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// SetPointerPolling enables reading the real mouse each frame. Run turns it
// on; headless scenes only see injected input.
func (s *Scene) SetPointerPolling(enabled bool) {
	s.pollPointer = enabled
}

// processInput is called from Scene.Update. Injected events take priority
// over the real mouse for the frame they are consumed in.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.pollPointer {
		return
	}
	mx, my := ebiten.CursorPosition()
	s.processPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// processPointer runs the press/release state machine. A click fires when
// the release lands on the node that received the press.
func (s *Scene) processPointer(wx, wy float64, pressed bool) {
	ps := &s.pointer
	ps.lastX, ps.lastY = wx, wy

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.hitNode = s.hitTest(wx, wy)
	case !pressed && ps.down:
		ps.down = false
		pressNode := ps.hitNode
		ps.hitNode = nil
		if pressNode == nil || pressNode.disposed || pressNode.OnClick == nil {
			return
		}
		if s.hitTest(wx, wy) != pressNode {
			return
		}
		lx, ly, _ := pressNode.WorldToLocal(wx, wy)
		if s.debug {
			s.log.Debug("click", zap.String("node", pressNode.Name), zap.Float64("x", wx), zap.Float64("y", wy))
		}
		pressNode.OnClick(ClickContext{
			Node:    pressNode,
			GlobalX: wx,
			GlobalY: wy,
			LocalX:  lx,
			LocalY:  ly,
		})
	}
}
