package gambit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aicenter/gtlib2/internal/testdomains"
	"github.com/aicenter/gtlib2/pkg/efg"
	"github.com/aicenter/gtlib2/pkg/gambit"
)

func TestExportEmitsOneLinePerNodeKind(t *testing.T) {
	domain := &testdomains.ThreeCardPoker{}
	root := efg.Root(domain)

	var buf strings.Builder
	require.NoError(t, gambit.Export(root, &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "EFG 2 R"))
	require.Contains(t, out, "c \"\" 0 \"\" {")
	require.Contains(t, out, "p \"\" 1")
	require.Contains(t, out, "t \"\" 0 \"\" {")
}

func TestExportAssignsSharedInfosetIdToIndistinguishableNodes(t *testing.T) {
	domain := &testdomains.MatchingPennies{Simultaneous: false}
	root := efg.Root(domain)

	var buf strings.Builder
	require.NoError(t, gambit.Export(root, &buf))

	lines := strings.Split(buf.String(), "\n")
	var player1Lines []string
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, "p \"\" 2") {
			player1Lines = append(player1Lines, trimmed)
		}
	}
	require.Len(t, player1Lines, 2)
	fieldsA := strings.Fields(player1Lines[0])
	fieldsB := strings.Fields(player1Lines[1])
	// p "" <player> <infosetID> ... -- same infoset id across both of
	// player1's decision nodes, since neither observes player0's choice.
	require.Equal(t, fieldsA[3], fieldsB[3])
}
