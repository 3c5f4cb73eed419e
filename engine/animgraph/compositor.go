package animgraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oxy-go/animgraph/engine/model"
)

// Composite combines every layer's already-evaluated local pose into a
// single final local pose, per §4.6: layer 0 seeds the accumulator; each
// subsequent layer is folded in by override (masked blend, or plain blend
// when it has no mask) or additive semantics. With zero layers the
// composite is the skeleton's rest pose.
func Composite(skeleton *model.Skeleton, layers []LayerDef, layerPoses []*Pose, scratch *Scratch, out *Pose) {
	if len(layerPoses) == 0 {
		FromRest(skeleton, out)
		return
	}
	CopyPose(out, layerPoses[0])
	if len(layers) == 0 {
		return
	}
	rest := scratch.AllocPose(len(skeleton.Bones))
	FromRest(skeleton, rest)
	for l := 1; l < len(layerPoses) && l < len(layers); l++ {
		layer := &layers[l]
		tmp := scratch.AllocPose(len(skeleton.Bones))
		switch layer.BlendMode {
		case BlendAdditiveMode:
			BlendAdditive(out, layerPoses[l], rest, layer.Mask, layer.Weight, tmp)
		default: // BlendOverride
			if layer.Mask != nil {
				BlendMasked(out, layerPoses[l], layer.Mask, layer.Weight, tmp)
			} else {
				Blend(out, layerPoses[l], layer.Weight, tmp)
			}
		}
		CopyPose(out, tmp)
	}
}

// PoseToMatrices converts a final local pose to world-space joint-skinning
// matrices, per §4.6 step 3: a forward sweep over the skeleton's
// topologically ordered joints (parent[j] < j, so a parent's world
// transform is always already written when a child reads it), then
// M[j] = world[j] * inverse_bind[j]. out must have len(skeleton.Bones)
// entries; each entry is a column-major 4x4 matrix flattened to 16
// float32s, ready for GPU upload as-is.
func PoseToMatrices(skeleton *model.Skeleton, pose *Pose, out [][16]float32) {
	world := make([]mgl32.Mat4, len(skeleton.Bones))
	root := mgl32.Mat4(skeleton.RootTransform)
	for j, bone := range skeleton.Bones {
		local := localMatrix(pose.Translation[j], pose.Rotation[j], pose.Scale[j])
		if bone.ParentIndex < 0 {
			world[j] = root.Mul4(local)
		} else {
			world[j] = world[bone.ParentIndex].Mul4(local)
		}
		skin := world[j].Mul4(mgl32.Mat4(bone.InverseBindMatrix))
		out[j] = [16]float32(skin)
	}
}

func localMatrix(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	translate := mgl32.Translate3D(t[0], t[1], t[2])
	rotate := r.Mat4()
	scale := mgl32.Scale3D(s[0], s[1], s[2])
	return translate.Mul4(rotate).Mul4(scale)
}
