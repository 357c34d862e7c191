package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNegativeStockPolicy(t *testing.T) {
	p, err := ParseNegativeStockPolicy("")
	require.NoError(t, err)
	assert.Equal(t, AllowNegative, p)
	assert.False(t, p.Guards())

	p, err = ParseNegativeStockPolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, RejectInsufficient, p)
	assert.True(t, p.Guards())

	_, err = ParseNegativeStockPolicy("clamp")
	assert.Error(t, err)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, -3, DirectionConsume.Delta(3))
	assert.Equal(t, 3, DirectionSupply.Delta(3))
	assert.Equal(t, 0, DirectionNone.Delta(3))
	assert.Equal(t, DirectionSupply, DirectionConsume.Reverse())
	assert.Equal(t, DirectionConsume, DirectionSupply.Reverse())
	assert.Equal(t, "consume", DirectionConsume.String())
	assert.Equal(t, "none", DirectionNone.String())
}
