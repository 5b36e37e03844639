package scene

import (
	"fmt"
	"io"
	"strings"

	"wfextract/internal/container"
)

// DefaultMaxDepth bounds the tree walk when no limit is configured.
const DefaultMaxDepth = 64

// VisitFunc is called for every node in depth-first pre-order. Returning an
// error stops the walk.
type VisitFunc func(n Node, depth int) error

// Walk visits the tree rooted at RootOffset. Children are visited in the
// order of their parent's child list. A tree deeper than maxDepth fails with
// ErrMalformedTree, which also stops cyclic child lists.
func Walk(buf *container.Buffer, maxDepth int, visit VisitFunc) error {
	if !buf.HasPrefix(Signature) {
		return buf.Fail(container.ErrBadSignature, 0, "header", fmt.Errorf("missing %q", Signature))
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return walk(buf, RootOffset, 0, maxDepth, visit)
}

func walk(buf *container.Buffer, off int64, depth, maxDepth int, visit VisitFunc) error {
	if depth > maxDepth {
		return buf.Fail(container.ErrMalformedTree, off, "node", fmt.Errorf("depth %d exceeds limit %d", depth, maxDepth))
	}

	var h nodeHeader
	if err := buf.Read(off, "node", &h); err != nil {
		return err
	}
	n := Node{Offset: off, Type: h.Type, NumChildren: h.NumChildren, ChildList: h.ChildList}
	if err := visit(n, depth); err != nil {
		return err
	}
	if h.NumChildren == 0 {
		return nil
	}

	list, err := buf.Offset(h.ChildList, "child list")
	if err != nil {
		return err
	}
	children, err := buf.OffsetTable(list, uint64(h.NumChildren), "child list")
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := walk(buf, child, depth+1, maxDepth, visit); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes the node tree of buf to w, one line per node indented by one
// tab per level.
func Dump(w io.Writer, buf *container.Buffer, maxDepth int) error {
	return Walk(buf, maxDepth, func(n Node, depth int) error {
		_, err := fmt.Fprintf(w, "%s%s node at 0x%x, %d children\n",
			strings.Repeat("\t", depth), n.Type, n.Offset, n.NumChildren)
		return err
	})
}
