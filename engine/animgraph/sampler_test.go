package animgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxy-go/animgraph/engine/model"
)

func TestSampleClipEmptyYieldsRestPose(t *testing.T) {
	skeleton, _ := oneJointSkeleton()
	clip := &model.AnimationClip{Name: "empty", Duration: 1}
	out := NewPose(1)

	SampleClip(skeleton, clip, 0.5, out)

	rest := NewPose(1)
	FromRest(skeleton, rest)
	assert.Equal(t, rest.Translation[0], out.Translation[0])
	assert.Equal(t, rest.Rotation[0], out.Rotation[0])
}

func TestSampleClipOutOfRangeJointSkipped(t *testing.T) {
	skeleton, _ := oneJointSkeleton()
	clip := &model.AnimationClip{
		Name:     "stray",
		Duration: 1,
		Channels: []model.AnimationChannel{
			{BoneIndex: 7, Interpolation: model.InterpolationLinear, PositionKeys: []model.VectorKeyframe{{Time: 0, Value: [3]float32{1, 2, 3}}}},
		},
	}
	out := NewPose(1)

	assert.NotPanics(t, func() { SampleClip(skeleton, clip, 0.5, out) })
	rest := NewPose(1)
	FromRest(skeleton, rest)
	assert.Equal(t, rest.Translation[0], out.Translation[0])
}

func TestSampleClipStepHoldsPreviousKey(t *testing.T) {
	skeleton, _ := oneJointSkeleton()
	clip := &model.AnimationClip{
		Name:     "stepped",
		Duration: 1,
		Channels: []model.AnimationChannel{
			{
				BoneIndex:     0,
				Interpolation: model.InterpolationStep,
				PositionKeys: []model.VectorKeyframe{
					{Time: 0, Value: [3]float32{0, 0, 0}},
					{Time: 0.5, Value: [3]float32{1, 0, 0}},
					{Time: 1, Value: [3]float32{2, 0, 0}},
				},
			},
		},
	}
	out := NewPose(1)

	SampleClip(skeleton, clip, 0.75, out)
	assert.Equal(t, float32(1), out.Translation[0][0])

	SampleClip(skeleton, clip, 1.0, out)
	assert.Equal(t, float32(2), out.Translation[0][0])
}

func TestSampleClipLinearInterpolatesMidpoint(t *testing.T) {
	skeleton, _ := oneJointSkeleton()
	clip := constantTranslationClip("unused", 1, [3]float32{0, 0, 0})
	clip.Channels[0].PositionKeys = []model.VectorKeyframe{
		{Time: 0, Value: [3]float32{0, 0, 0}},
		{Time: 1, Value: [3]float32{10, 0, 0}},
	}
	out := NewPose(1)

	SampleClip(skeleton, clip, 0.25, out)
	assert.InDelta(t, 2.5, out.Translation[0][0], 1e-5)
}

func TestSampleClipBeforeFirstKeySnaps(t *testing.T) {
	skeleton, _ := oneJointSkeleton()
	clip := &model.AnimationClip{
		Name:     "late-start",
		Duration: 1,
		Channels: []model.AnimationChannel{
			{
				BoneIndex:     0,
				Interpolation: model.InterpolationLinear,
				PositionKeys: []model.VectorKeyframe{
					{Time: 0.5, Value: [3]float32{3, 0, 0}},
					{Time: 1, Value: [3]float32{6, 0, 0}},
				},
			},
		},
	}
	out := NewPose(1)

	SampleClip(skeleton, clip, 0, out)
	assert.Equal(t, float32(3), out.Translation[0][0])

	SampleClip(skeleton, clip, 10, out)
	assert.Equal(t, float32(6), out.Translation[0][0])
}

func TestFindBracketSingleKey(t *testing.T) {
	times := []float32{0.3}
	k0, k1, f, ok := findBracket(1, func(i int) float32 { return times[i] }, 5)
	assert.False(t, ok)
	assert.Equal(t, 0, k0)
	assert.Equal(t, 0, k1)
	assert.Equal(t, float32(0), f)
}

func TestFindBracketMidRange(t *testing.T) {
	times := []float32{0, 1, 2, 3, 4}
	k0, k1, f, ok := findBracket(len(times), func(i int) float32 { return times[i] }, 2.5)
	assert.True(t, ok)
	assert.Equal(t, 2, k0)
	assert.Equal(t, 3, k1)
	assert.InDelta(t, 0.5, f, 1e-6)
}
