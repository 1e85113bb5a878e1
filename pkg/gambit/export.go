// Package gambit writes extensive-form trees in Gambit's ".efg" text format
// (the "EFG 2 R" dialect: real-valued payoffs, no NFG companion), for
// interchange with Gambit's own solvers and GUI.
package gambit

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

// WriteEFG2R writes c's root in EFG 2 R format to w, materializing it first
// if this is the first call against c. It is a thin wrapper over Export
// taking a *cache.TreeCache instead of a bare *efg.Node, matching the shape
// callers that already hold a built tree cache expect.
func WriteEFG2R(w io.Writer, c *cache.TreeCache) error {
	return Export(c.Root(), w)
}

// Export walks the tree rooted at root and writes it in Gambit's EFG 2 R
// format to w. Chance nodes become "c" entries carrying their outcome
// probabilities, player nodes become "p" entries carrying a 1-based player
// index and an information-set id derived from AOHInfoset (so nodes the
// engine considers indistinguishable share the same Gambit infoset), and
// terminal nodes become "t" entries carrying both players' utilities.
//
// Information-set identity is assigned by first sighting, in tree-walk
// order, exactly as Gambit itself expects: two player nodes get the same
// id if and only if they share the same augmented AOH for the acting
// player.
func Export(root *efg.Node, w io.Writer) error {
	bw := &errWriter{w: w}
	fmt.Fprintf(bw, "EFG 2 R \"\" { \"Pl0\" \"Pl1\" }\n")

	e := &exporter{
		w:            bw,
		infoset2id:   make(map[uint64][]infosetEntry),
		nextInfoset:  0,
		nextChance:   0,
		nextTerminal: 0,
	}
	e.walk(root)
	if bw.err != nil {
		return errors.Wrap(bw.err, "gambit: write failed")
	}
	return nil
}

// ExportFile is a convenience wrapper over Export that creates (or
// truncates) fileToSave.
func ExportFile(root *efg.Node, fileToSave string) error {
	f, err := os.Create(fileToSave)
	if err != nil {
		return errors.Wrapf(err, "gambit: could not open %s for writing", fileToSave)
	}
	defer f.Close()
	return Export(root, f)
}

type infosetEntry struct {
	aoh efgid.AOH
	id  int
}

type exporter struct {
	w            *errWriter
	infoset2id   map[uint64][]infosetEntry
	nextInfoset  int
	nextChance   int
	nextTerminal int
}

func (e *exporter) walk(n *efg.Node) {
	for i := 0; i < n.Depth(); i++ {
		fmt.Fprint(e.w, " ")
	}

	switch n.Kind() {
	case efg.Chance:
		fmt.Fprintf(e.w, "c \"\" %d \"\" { ", e.nextChance)
		e.nextChance++
		for i, p := range n.ChanceProbs() {
			fmt.Fprintf(e.w, "%q %v ", fmt.Sprint(i), p)
		}
		fmt.Fprint(e.w, "} 0\n")

	case efg.Player:
		isID := e.infosetID(n)
		fmt.Fprintf(e.w, "p \"\" %d %d \"\" { ", int(n.ActingPlayer())+1, isID)
		for _, a := range n.AvailableActions() {
			fmt.Fprintf(e.w, "%q ", a.Label)
		}
		fmt.Fprint(e.w, "} 0\n")

	case efg.Terminal:
		u := n.TerminalUtility()
		fmt.Fprintf(e.w, "t \"\" %d \"\" { %v, %v }\n", e.nextTerminal, u[efgdomain.Player0], u[efgdomain.Player1])
		e.nextTerminal++
		return
	}

	if e.w.err != nil {
		return
	}
	for _, a := range n.AvailableActions() {
		child, err := n.PerformAction(a)
		if err != nil {
			e.w.err = errors.Wrap(err, "gambit: walking tree")
			return
		}
		e.walk(child)
	}
}

// infosetID assigns the Gambit information-set id for a player node,
// bucketing by hash of the acting player's augmented AOH, same as the
// tree/cache packages do for map-key purposes.
func (e *exporter) infosetID(n *efg.Node) int {
	aoh := n.AOHInfoset(n.ActingPlayer())
	bucket := aoh.Hash()
	for _, entry := range e.infoset2id[bucket] {
		if entry.aoh.Equal(aoh) {
			return entry.id
		}
	}
	e.nextInfoset++
	e.infoset2id[bucket] = append(e.infoset2id[bucket], infosetEntry{aoh: aoh, id: e.nextInfoset})
	return e.nextInfoset
}

// errWriter lets the recursive walk ignore individual Fprintf errors and
// check once at the end, the same "check once, not at every print" shape
// the teacher uses around its logging calls.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
