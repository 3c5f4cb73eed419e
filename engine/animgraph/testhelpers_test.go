package animgraph

import "github.com/oxy-go/animgraph/engine/model"

func identityMat16() [16]float32 {
	var m [16]float32
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// oneJointSkeleton returns a single-joint skeleton at identity rest pose,
// with identity root transform and inverse bind, and its bound SkinnedModel
// (clips attached separately by callers).
func oneJointSkeleton() (*model.Skeleton, *model.SkinnedModel) {
	skeleton := &model.Skeleton{
		Bones: []model.Bone{
			{
				Name:              "root",
				ParentIndex:       -1,
				InverseBindMatrix: identityMat16(),
				LocalTransform: model.Transform{
					Translation: [3]float32{0, 0, 0},
					Rotation:    [4]float32{0, 0, 0, 1},
					Scale:       [3]float32{1, 1, 1},
				},
			},
		},
		RootTransform: identityMat16(),
	}
	m := &model.SkinnedModel{Skeleton: skeleton}
	return skeleton, m
}

// threeJointChain builds a 3-joint linear chain (0 -> 1 -> 2) at identity
// rest pose.
func threeJointChain() (*model.Skeleton, *model.SkinnedModel) {
	bones := make([]model.Bone, 3)
	for j := range bones {
		parent := int32(j - 1)
		bones[j] = model.Bone{
			Name:              "bone",
			ParentIndex:       parent,
			InverseBindMatrix: identityMat16(),
			LocalTransform: model.Transform{
				Translation: [3]float32{0, 0, 0},
				Rotation:    [4]float32{0, 0, 0, 1},
				Scale:       [3]float32{1, 1, 1},
			},
		}
	}
	skeleton := &model.Skeleton{Bones: bones, RootTransform: identityMat16()}
	m := &model.SkinnedModel{Skeleton: skeleton}
	return skeleton, m
}

// rotationClip builds a single-channel clip on joint 0 with a two-key
// linear rotation from identity to toRotation over [0, duration].
func rotationClip(name string, duration float32, toRotation [4]float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Channels: []model.AnimationChannel{
			{
				BoneIndex:     0,
				Interpolation: model.InterpolationLinear,
				RotationKeys: []model.QuaternionKeyframe{
					{Time: 0, Value: [4]float32{0, 0, 0, 1}},
					{Time: duration, Value: toRotation},
				},
			},
		},
	}
}

// constantTranslationClip builds a single-key clip on joint 0 holding a
// constant translation for the entire duration.
func constantTranslationClip(name string, duration float32, t [3]float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Channels: []model.AnimationChannel{
			{
				BoneIndex:     0,
				Interpolation: model.InterpolationLinear,
				PositionKeys: []model.VectorKeyframe{
					{Time: 0, Value: t},
				},
			},
		},
	}
}
