package animgraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oxy-go/animgraph/engine/model"
)

// Pose is a local-space transform per joint: one translation, one rotation
// quaternion, and one scale, with no skeletal hierarchy applied. All poses
// used against the same Skeleton share its joint count. A Pose is cheap to
// allocate from a Scratch arena and is meant to live for a single
// evaluation.
type Pose struct {
	Translation []mgl32.Vec3
	Rotation    []mgl32.Quat
	Scale       []mgl32.Vec3
}

// NewPose allocates a Pose sized for jointCount joints, uninitialized.
// Callers typically fill it via FromRest, SampleClip, or a blend operation
// before reading from it.
func NewPose(jointCount int) *Pose {
	return &Pose{
		Translation: make([]mgl32.Vec3, jointCount),
		Rotation:    make([]mgl32.Quat, jointCount),
		Scale:       make([]mgl32.Vec3, jointCount),
	}
}

// FromRest fills out with the skeleton's rest pose, one component copy per
// joint.
func FromRest(skeleton *model.Skeleton, out *Pose) {
	for j := range skeleton.Bones {
		rest := skeleton.Bones[j].LocalTransform
		out.Translation[j] = vec3From(rest.Translation)
		out.Rotation[j] = quatFromXYZW(rest.Rotation)
		out.Scale[j] = vec3From(rest.Scale)
	}
}

// CopyPose copies every joint component from src into dst. src and dst must
// have equal length.
func CopyPose(dst, src *Pose) {
	copy(dst.Translation, src.Translation)
	copy(dst.Rotation, src.Rotation)
	copy(dst.Scale, src.Scale)
}

// Blend linearly interpolates two poses joint-wise: lerp for translation and
// scale, shortest-path slerp for rotation. f is not clamped by Blend itself —
// callers that need clamped factors (transition progress, blend-space
// fractions) clamp before calling in.
func Blend(a, b *Pose, f float32, out *Pose) {
	for j := range out.Translation {
		out.Translation[j] = lerpVec3(a.Translation[j], b.Translation[j], f)
		out.Rotation[j] = slerpShortest(a.Rotation[j], b.Rotation[j], f)
		out.Scale[j] = lerpVec3(a.Scale[j], b.Scale[j], f)
	}
}

// BlendMasked blends overlay onto base per joint, scaling the blend factor
// by the joint's mask weight. Joints whose effective weight falls below
// maskWeightEpsilon are copied verbatim from base instead of blended, both
// as an optimization and to avoid slerping near-zero-weight, possibly
// degenerate rotations.
func BlendMasked(base, overlay *Pose, mask BoneMask, f float32, out *Pose) {
	for j := range out.Translation {
		w := f
		if mask != nil {
			w *= mask.Weight(j)
		}
		if w < maskWeightEpsilon {
			out.Translation[j] = base.Translation[j]
			out.Rotation[j] = base.Rotation[j]
			out.Scale[j] = base.Scale[j]
			continue
		}
		out.Translation[j] = lerpVec3(base.Translation[j], overlay.Translation[j], w)
		out.Rotation[j] = slerpShortest(base.Rotation[j], overlay.Rotation[j], w)
		out.Scale[j] = lerpVec3(base.Scale[j], overlay.Scale[j], w)
	}
}

// BlendAdditive applies the delta of additive relative to reference onto
// base, optionally scaled per joint by mask. Translation and scale deltas
// are added directly; the rotation delta is computed as
// inverse(reference.R) * additive.R, shortest-path corrected against
// identity, slerped from identity by the effective weight, and composed
// onto base.R. Joints whose effective weight falls below
// maskWeightEpsilon are copied verbatim from base.
func BlendAdditive(base, additive, reference *Pose, mask BoneMask, w float32, out *Pose) {
	identity := mgl32.QuatIdent()
	for j := range out.Translation {
		jointW := w
		if mask != nil {
			jointW *= mask.Weight(j)
		}
		if jointW < maskWeightEpsilon {
			out.Translation[j] = base.Translation[j]
			out.Rotation[j] = base.Rotation[j]
			out.Scale[j] = base.Scale[j]
			continue
		}
		dT := additive.Translation[j].Sub(reference.Translation[j]).Mul(jointW)
		out.Translation[j] = base.Translation[j].Add(dT)

		dS := additive.Scale[j].Sub(reference.Scale[j]).Mul(jointW)
		out.Scale[j] = base.Scale[j].Add(dS)

		qDelta := quatMul(quatInverse(reference.Rotation[j]), additive.Rotation[j])
		qDelta = shortestPath(identity, qDelta)
		qWeighted := slerpShortest(identity, qDelta, jointW)
		out.Rotation[j] = quatNormalize(quatMul(base.Rotation[j], qWeighted))
	}
}

func vec3From(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// quatFromXYZW builds a Quat from a [4]float32 stored in xyzw order, the
// convention used throughout the data model (glTF, the skeleton importer,
// and the reference C struct layout all store quaternions this way).
func quatFromXYZW(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

func quatToXYZW(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

func lerpVec3(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}
