package game_object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxy-go/animgraph/engine/animgraph"
	"github.com/oxy-go/animgraph/engine/model"
)

func identityMat16() [16]float32 {
	var m [16]float32
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

func oneJointWalkCycle() *animgraph.Instance {
	skeleton := &model.Skeleton{
		Bones: []model.Bone{
			{
				Name:              "root",
				ParentIndex:       -1,
				InverseBindMatrix: identityMat16(),
				LocalTransform: model.Transform{
					Rotation: [4]float32{0, 0, 0, 1},
					Scale:    [3]float32{1, 1, 1},
				},
			},
		},
		RootTransform: identityMat16(),
	}
	clip := &model.AnimationClip{
		Name:     "walk",
		Duration: 1,
		Channels: []model.AnimationChannel{
			{
				BoneIndex:     0,
				Interpolation: model.InterpolationLinear,
				PositionKeys: []model.VectorKeyframe{
					{Time: 0, Value: [3]float32{0, 0, 0}},
					{Time: 1, Value: [3]float32{1, 0, 0}},
				},
			},
		},
	}
	skinnedModel := &model.SkinnedModel{Skeleton: skeleton, Clips: []*model.AnimationClip{clip}}

	b := animgraph.NewDefinitionBuilder()
	layerIdx, err := b.AddLayer(animgraph.BlendOverride, 1, nil)
	if err != nil {
		panic(err)
	}
	if _, err := b.AddClipState(layerIdx, 0, 1, true); err != nil {
		panic(err)
	}
	def := b.Build()

	return animgraph.NewInstance(def, skinnedModel)
}

func TestGameObjectUpdateAdvancesRotationAndGraph(t *testing.T) {
	inst := oneJointWalkCycle()
	obj := NewGameObject(
		WithID(7),
		WithGraph(inst),
		WithRotationSpeed(0, 2, 0),
	)

	scratch := animgraph.NewScratch()
	obj.Update(0.25, scratch)

	rx, ry, rz := obj.Rotation()
	assert.Equal(t, float32(0), rx)
	assert.InDelta(t, 0.5, ry, 1e-6)
	assert.Equal(t, float32(0), rz)

	require.Len(t, obj.JointMatrices(), 1)
	assert.InDelta(t, 0.25, obj.JointMatrices()[0][12], 1e-5)
}

func TestGameObjectWithoutGraphUpdatesTransformOnly(t *testing.T) {
	obj := NewGameObject(WithRotationSpeed(1, 0, 0))
	scratch := animgraph.NewScratch()

	assert.NotPanics(t, func() { obj.Update(0.5, scratch) })

	rx, _, _ := obj.Rotation()
	assert.InDelta(t, 0.5, rx, 1e-6)
	assert.Nil(t, obj.JointMatrices())
}

func TestGameObjectAccessorsRoundTrip(t *testing.T) {
	obj := NewGameObject()
	obj.SetID(42)
	obj.SetEnabled(true)
	obj.SetPosition(1, 2, 3)
	obj.SetScale(2, 2, 2)
	obj.SetRotation(0, 0, 0.1)

	assert.Equal(t, uint64(42), obj.ID())
	assert.True(t, obj.Enabled())

	x, y, z := obj.Position()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{x, y, z})

	sx, sy, sz := obj.Scale()
	assert.Equal(t, [3]float32{2, 2, 2}, [3]float32{sx, sy, sz})

	pos, scale, rot, rotSpeed := obj.TransformData()
	assert.Equal(t, [3]float32{1, 2, 3}, pos)
	assert.Equal(t, [3]float32{2, 2, 2}, scale)
	assert.Equal(t, [3]float32{0, 0, 0.1}, rot)
	assert.Equal(t, [3]float32{0, 0, 0}, rotSpeed)
}

func TestGameObjectEphemeralDefaultsFalse(t *testing.T) {
	obj := NewGameObject()
	assert.False(t, obj.Ephemeral())

	ephemeral := NewGameObject(WithEphemeral(true))
	assert.True(t, ephemeral.Ephemeral())
}
