// Package dot renders an EFG tree or a public-state lattice as GraphViz
// "dot" source, for visual inspection of trees too large to read as text.
package dot

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/aicenter/gtlib2/pkg/cache"
	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
	"github.com/aicenter/gtlib2/pkg/efgid"
)

const header = "digraph {\n" +
	"\trankdir=LR\n" +
	"\tgraph [fontname=courier]\n" +
	"\tnode  [fontname=courier, shape=box, style=\"filled\", fillcolor=white]\n" +
	"\tedge  [fontname=courier]\n"

// nodeStyle mirrors the teacher's by-kind shape/fill convention: chance
// nodes are white circles, player 0 / player 1 nodes are red/green
// triangles pointing up/down, terminals are grey squares.
func nodeStyle(n *efg.Node) (shape, fill string) {
	switch n.Kind() {
	case efg.Chance:
		return "circle", "#ffffff"
	case efg.Terminal:
		return "square", "#888888"
	default:
		if n.ActingPlayer() == efgdomain.Player0 {
			return "triangle", "#ff9999"
		}
		return "invtriangle", "#99ff99"
	}
}

func nodeLabel(n *efg.Node) string {
	switch n.Kind() {
	case efg.Terminal:
		u := n.TerminalUtility()
		return fmt.Sprintf("%.3g, %.3g", u[efgdomain.Player0], u[efgdomain.Player1])
	case efg.Chance:
		return "chance"
	default:
		return fmt.Sprintf("P%d", n.ActingPlayer())
	}
}

func nodeID(n *efg.Node) string {
	return fmt.Sprintf("n%x", n.Hash())
}

// ExportTree renders the tree reachable from root, expanding it afresh
// through PerformAction rather than reading nodes from a cache.
func ExportTree(root *efg.Node, w io.Writer) error {
	fmt.Fprint(w, header)
	var walk func(n *efg.Node) error
	walk = func(n *efg.Node) error {
		shape, fill := nodeStyle(n)
		fmt.Fprintf(w, "\t%q [label=%q, shape=%q, fillcolor=%q]\n", nodeID(n), nodeLabel(n), shape, fill)
		if n.Kind() == efg.Terminal {
			return nil
		}
		for _, a := range n.AvailableActions() {
			child, err := n.PerformAction(a)
			if err != nil {
				return errors.Wrap(err, "dot: walking tree")
			}
			fmt.Fprintf(w, "\t%q -> %q [label=%q]\n", nodeID(n), nodeID(child), a.Label)
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return err
	}
	fmt.Fprint(w, "}\n")
	return nil
}

// ExportTreeFile is a convenience wrapper over ExportTree.
func ExportTreeFile(root *efg.Node, fileToSave string) error {
	f, err := os.Create(fileToSave)
	if err != nil {
		return errors.Wrapf(err, "dot: could not open %s for writing", fileToSave)
	}
	defer f.Close()
	return ExportTree(root, f)
}

// ExportPublicStateCache renders a PublicStateCache's lattice: one node per
// public state, labeled with its depth, and edges following the
// parent/child links the cache maintains (not the underlying EFG edges,
// which may collapse many-to-one into a single public-state transition).
func ExportPublicStateCache(psCache *cache.PublicStateCache, root *efg.Node, w io.Writer) error {
	fmt.Fprint(w, header)

	seen := make(map[uint64]bool)
	var walk func(ps efgid.PublicState)
	walk = func(ps efgid.PublicState) {
		if seen[ps.Hash()] {
			return
		}
		seen[ps.Hash()] = true

		fmt.Fprintf(w, "\t%q [label=%q, shape=circle]\n", psNodeID(ps), fmt.Sprintf("depth=%d", ps.Depth()))

		for _, child := range psCache.Children(ps) {
			fmt.Fprintf(w, "\t%q -> %q\n", psNodeID(ps), psNodeID(child))
			walk(child)
		}
	}
	walk(root.PublicState())

	fmt.Fprint(w, "}\n")
	return nil
}

func psNodeID(ps efgid.PublicState) string {
	return fmt.Sprintf("ps%x", ps.Hash())
}
