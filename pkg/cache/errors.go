package cache

import (
	"github.com/pkg/errors"

	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

func errNoChildren(n *efg.Node) error {
	return errors.Errorf("cache: node at depth %d is Terminal, it has no children", n.Depth())
}

func errUnknownEdge(n *efg.Node, edgeID efgdomain.ID) error {
	return errors.Errorf("cache: node at depth %d has no edge %d", n.Depth(), edgeID)
}
