package animgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxy-go/animgraph/engine/model"
)

func TestAdvanceStateTimeLoopWraps(t *testing.T) {
	newTime, wrapped := advanceStateTime(0.9, 0.3, 1, 1.0, true)
	assert.InDelta(t, 0.2, newTime, 1e-5)
	assert.True(t, wrapped)
}

func TestAdvanceStateTimeLoopNegativeSpeedRewinds(t *testing.T) {
	newTime, wrapped := advanceStateTime(0.1, 0.3, -1, 1.0, true)
	assert.InDelta(t, 0.8, newTime, 1e-5)
	assert.True(t, wrapped)
}

func TestAdvanceStateTimeNonLoopClamps(t *testing.T) {
	newTime, wrapped := advanceStateTime(0.9, 0.5, 1, 1.0, false)
	assert.Equal(t, float32(1.0), newTime)
	assert.False(t, wrapped)

	newTime, wrapped = advanceStateTime(0.1, -0.5, 1, 1.0, false)
	assert.Equal(t, float32(0), newTime)
	assert.False(t, wrapped)
}

func TestFireEventsWithinSingleInterval(t *testing.T) {
	events := []Event{{Time: 0.2, ID: 1}, {Time: 0.5, ID: 2}, {Time: 0.8, ID: 3}}
	var fired []int
	fireEvents(events, 0.1, 0.6, 1.0, false, func(id int, name string) { fired = append(fired, id) })
	assert.Equal(t, []int{1, 2}, fired)
}

func TestFireEventsAcrossWrap(t *testing.T) {
	events := []Event{{Time: 0.1, ID: 1}, {Time: 0.9, ID: 2}}
	var fired []int
	// prevTime=0.95, currTime=0.1 after wrapping past duration 1.0.
	fireEvents(events, 0.95, 0.1, 1.0, true, func(id int, name string) { fired = append(fired, id) })
	assert.ElementsMatch(t, []int{1}, fired)
}

func TestFireEventsDoesNotDoubleFireOnExactBoundary(t *testing.T) {
	events := []Event{{Time: 0.5, ID: 1}}
	var fired []int
	fireEvents(events, 0.5, 0.5, 1.0, false, func(id int, name string) { fired = append(fired, id) })
	assert.Empty(t, fired)
}

func TestTransitionExitTimeGate(t *testing.T) {
	skeleton, m := oneJointSkeleton()
	clipA := constantTranslationClip("a", 1.0, [3]float32{1, 0, 0})
	clipB := constantTranslationClip("b", 1.0, [3]float32{0, 1, 0})
	m.Clips = []*model.AnimationClip{clipA, clipB}

	b := NewDefinitionBuilder()
	layerIdx, err := b.AddLayer(BlendOverride, 1, nil)
	require.NoError(t, err)
	stateA, err := b.AddClipState(layerIdx, 0, 1.0, true)
	require.NoError(t, err)
	stateB, err := b.AddClipState(layerIdx, 1, 1.0, true)
	require.NoError(t, err)
	_, err = b.AddTransition(layerIdx, stateA, stateB, 0.1, true, 0.9, []Condition{{Kind: ConditionBoolTrue, ParamIndex: 0}})
	require.NoError(t, err)
	paramB, err := b.AddParamBool("go", true)
	require.NoError(t, err)
	_ = paramB
	def := b.Build()

	lr := newLayerRuntime(&def.Layers[layerIdx])
	scratch := NewScratch()
	out := NewPose(1)

	// Below exit time: stays on state A even though the condition holds.
	lr.advance(&def.Layers[layerIdx], skeleton, m, 0.3, noopTrueParamReader{}, scratch, nil, out)
	assert.Equal(t, stateA, lr.currentState)

	// Push state time past the exit-time threshold, then advance again.
	lr.stateTime = 0.95
	lr.advance(&def.Layers[layerIdx], skeleton, m, 0.01, noopTrueParamReader{}, scratch, nil, out)
	assert.Equal(t, stateB, lr.currentState)
}

type noopTrueParamReader struct{}

func (noopTrueParamReader) Float(int) float32        { return 0 }
func (noopTrueParamReader) Bool(int) bool            { return true }
func (noopTrueParamReader) FloatByName(string) float32 { return 0 }
func (noopTrueParamReader) BoolByName(string) bool     { return true }
