package dot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aicenter/gtlib2/internal/testdomains"
	"github.com/aicenter/gtlib2/pkg/cache"
	"github.com/aicenter/gtlib2/pkg/dot"
	"github.com/aicenter/gtlib2/pkg/efg"
)

func TestExportTreeProducesValidDotSkeleton(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: true}
	root := efg.Root(domain)

	var buf strings.Builder
	require.NoError(t, dot.ExportTree(root, &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "digraph {"))
	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "}"))
	require.Contains(t, out, "shape=\"triangle\"")
	require.Contains(t, out, "shape=\"square\"")
}

func TestExportPublicStateCacheWalksLattice(t *testing.T) {
	domain := &testdomains.ThreeCardPoker{}
	tree := cache.NewTreeCache(domain)
	psCache := cache.NewPublicStateCache()
	psCache.AttachTo(tree)

	require.NoError(t, tree.BuildTree(tree.Root(), -1))

	var buf strings.Builder
	require.NoError(t, dot.ExportPublicStateCache(psCache, tree.Root(), &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "digraph {"))
	require.Contains(t, out, "depth=0")
	require.Greater(t, strings.Count(out, "->"), 0)
}
