package animgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAddParamAndLayer(t *testing.T) {
	b := NewDefinitionBuilder()
	speedIdx, err := b.AddParamFloat("speed", 1.5)
	require.NoError(t, err)
	assert.Equal(t, 0, speedIdx)

	layerIdx, err := b.AddLayer(BlendOverride, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, layerIdx)

	def := b.Build()
	assert.Equal(t, "speed", def.Params[0].Name)
	assert.InDelta(t, 1.5, def.Params[0].DefaultFloat, 1e-6)
}

func TestBuilderCapacityExceeded(t *testing.T) {
	b := NewDefinitionBuilder()
	for i := 0; i < MaxLayers; i++ {
		_, err := b.AddLayer(BlendOverride, 1, nil)
		require.NoError(t, err)
	}
	idx, err := b.AddLayer(BlendOverride, 1, nil)
	assert.Equal(t, NoIndex, idx)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestBuilderInvalidLayerIndex(t *testing.T) {
	b := NewDefinitionBuilder()
	_, err := b.AddClipState(3, 0, 1, true)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
}

func TestBuilderAddTransitionValidatesStateIndices(t *testing.T) {
	b := NewDefinitionBuilder()
	layerIdx, err := b.AddLayer(BlendOverride, 1, nil)
	require.NoError(t, err)
	_, err = b.AddClipState(layerIdx, 0, 1, true)
	require.NoError(t, err)

	_, err = b.AddTransition(layerIdx, 0, 5, 0.2, false, 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
}

func TestBuilderAddBlend1DStateSortsEntries(t *testing.T) {
	b := NewDefinitionBuilder()
	layerIdx, err := b.AddLayer(BlendOverride, 1, nil)
	require.NoError(t, err)
	paramIdx, err := b.AddParamFloat("p", 0)
	require.NoError(t, err)

	stateIdx, err := b.AddBlend1DState(layerIdx, paramIdx, []BlendSpace1DEntry{
		{Position: 5, ClipIndex: 2},
		{Position: 1, ClipIndex: 0},
		{Position: 3, ClipIndex: 1},
	})
	require.NoError(t, err)

	def := b.Build()
	entries := def.Layers[layerIdx].States[stateIdx].Blend1D.Entries
	assert.Equal(t, []float32{1, 3, 5}, []float32{entries[0].Position, entries[1].Position, entries[2].Position})
}

func TestBuilderAddEventKeepsSortedByTime(t *testing.T) {
	b := NewDefinitionBuilder()
	layerIdx, err := b.AddLayer(BlendOverride, 1, nil)
	require.NoError(t, err)
	stateIdx, err := b.AddClipState(layerIdx, 0, 1, true)
	require.NoError(t, err)

	require.NoError(t, b.AddEvent(layerIdx, stateIdx, 0.8, 2, "late"))
	require.NoError(t, b.AddEvent(layerIdx, stateIdx, 0.1, 1, "early"))
	require.NoError(t, b.AddEvent(layerIdx, stateIdx, 0.5, 3, "mid"))

	def := b.Build()
	events := def.Layers[layerIdx].States[stateIdx].Events
	require.Len(t, events, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{events[0].ID, events[1].ID, events[2].ID})
}

func TestBuilderTransitionWithZeroConditionsNeverFires(t *testing.T) {
	b := NewDefinitionBuilder()
	layerIdx, err := b.AddLayer(BlendOverride, 1, nil)
	require.NoError(t, err)
	a, err := b.AddClipState(layerIdx, 0, 1, true)
	require.NoError(t, err)
	c, err := b.AddClipState(layerIdx, 1, 1, true)
	require.NoError(t, err)
	transIdx, err := b.AddTransition(layerIdx, a, c, 0.2, false, 0, nil)
	require.NoError(t, err)

	def := b.Build()
	tr := &def.Layers[layerIdx].Transitions[transIdx]
	assert.False(t, tr.canFire(1.0, noopParamReader{}))
}

type noopParamReader struct{}

func (noopParamReader) Float(int) float32      { return 0 }
func (noopParamReader) Bool(int) bool          { return false }
func (noopParamReader) FloatByName(string) float32 { return 0 }
func (noopParamReader) BoolByName(string) bool     { return false }
