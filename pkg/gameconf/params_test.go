package gameconf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aicenter/gtlib2/pkg/gameconf"
)

func TestNewFromConfigStringParsesBareAndValuedKeys(t *testing.T) {
	params := gameconf.NewFromConfigString("verbose,depth=4,name=kuhn")
	require.Equal(t, gameconf.Params{"verbose": "", "depth": "4", "name": "kuhn"}, params)
}

func TestGetOrTypedDefaultsAndParsing(t *testing.T) {
	params := gameconf.NewFromConfigString("depth=4,prob=0.5,verbose,flag=false")

	depth, err := gameconf.GetOr(params, "depth", 1)
	require.NoError(t, err)
	require.Equal(t, 4, depth)

	missing, err := gameconf.GetOr(params, "missing", 7)
	require.NoError(t, err)
	require.Equal(t, 7, missing)

	prob, err := gameconf.GetOr(params, "prob", 0.0)
	require.NoError(t, err)
	require.InDelta(t, 0.5, prob, 1e-12)

	verbose, err := gameconf.GetOr(params, "verbose", false)
	require.NoError(t, err)
	require.True(t, verbose)

	flag, err := gameconf.GetOr(params, "flag", true)
	require.NoError(t, err)
	require.False(t, flag)
}

func TestPopOrDeletesKey(t *testing.T) {
	params := gameconf.NewFromConfigString("depth=4")
	depth, err := gameconf.PopOr(params, "depth", 1)
	require.NoError(t, err)
	require.Equal(t, 4, depth)
	_, exists := params["depth"]
	require.False(t, exists)
}

func TestGetOrReturnsErrorOnBadInt(t *testing.T) {
	params := gameconf.NewFromConfigString("depth=notanumber")
	_, err := gameconf.GetOr(params, "depth", 1)
	require.Error(t, err)
}
