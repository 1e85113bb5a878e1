package efg

import "github.com/pkg/errors"

func errInvalidEdge(edgeID interface{}, numEdges int) error {
	return errors.Errorf("efg: edge id %v out of range [0,%d)", edgeID, numEdges)
}

func errPerformOnTerminal() error {
	return errors.New("efg: PerformAction called on a Terminal node")
}
