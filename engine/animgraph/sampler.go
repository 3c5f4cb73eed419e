package animgraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oxy-go/animgraph/engine/model"
)

// SampleClip evaluates clip at time into out, starting from the skeleton's
// rest pose and overriding per-joint components for every channel present
// in the clip. An empty clip (no channels) therefore yields the rest pose
// exactly, and a channel targeting an out-of-range joint is skipped rather
// than causing an error.
func SampleClip(skeleton *model.Skeleton, clip *model.AnimationClip, time float32, out *Pose) {
	FromRest(skeleton, out)
	if clip == nil {
		return
	}
	jointCount := len(skeleton.Bones)
	for _, ch := range clip.Channels {
		j := int(ch.BoneIndex)
		if j < 0 || j >= jointCount {
			continue
		}
		if len(ch.PositionKeys) > 0 {
			out.Translation[j] = sampleVectorChannel(ch.PositionKeys, ch.Interpolation, time)
		}
		if len(ch.RotationKeys) > 0 {
			out.Rotation[j] = sampleQuaternionChannel(ch.RotationKeys, ch.Interpolation, time)
		}
		if len(ch.ScaleKeys) > 0 {
			out.Scale[j] = sampleVectorChannel(ch.ScaleKeys, ch.Interpolation, time)
		}
	}
}

// findBracket binary-searches n monotonically increasing timestamps for the
// keyframe pair bracketing time. Returns (k0, k1, f) where f is the
// fractional position between them, and ok=false when time falls outside
// the keyframe range or there are fewer than two keys (callers should snap
// to the first or last value in that case).
func findBracket(n int, timestamp func(int) float32, time float32) (k0, k1 int, f float32, ok bool) {
	if n == 0 {
		return 0, 0, 0, false
	}
	if n == 1 || time <= timestamp(0) {
		return 0, 0, 0, false
	}
	if time >= timestamp(n-1) {
		return n - 1, n - 1, 0, false
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if timestamp(mid) <= time {
			lo = mid
		} else {
			hi = mid
		}
	}
	t0, t1 := timestamp(lo), timestamp(hi)
	frac := float32(0)
	if t1 > t0 {
		frac = (time - t0) / (t1 - t0)
	}
	return lo, hi, frac, true
}

func sampleVectorChannel(keys []model.VectorKeyframe, interp model.Interpolation, time float32) mgl32.Vec3 {
	k0, k1, f, ok := findBracket(len(keys), func(i int) float32 { return keys[i].Time }, time)
	if !ok {
		return vec3From(keys[k0].Value)
	}
	switch interp {
	case model.InterpolationStep:
		return vec3From(keys[k0].Value)
	case model.InterpolationCubicSpline:
		dt := keys[k1].Time - keys[k0].Time
		return hermiteVec3(
			vec3From(keys[k0].Value), vec3From(keys[k0].OutTangent),
			vec3From(keys[k1].Value), vec3From(keys[k1].InTangent),
			f, dt,
		)
	default: // InterpolationLinear
		return lerpVec3(vec3From(keys[k0].Value), vec3From(keys[k1].Value), f)
	}
}

func sampleQuaternionChannel(keys []model.QuaternionKeyframe, interp model.Interpolation, time float32) mgl32.Quat {
	k0, k1, f, ok := findBracket(len(keys), func(i int) float32 { return keys[i].Time }, time)
	if !ok {
		return quatFromXYZW(keys[k0].Value)
	}
	switch interp {
	case model.InterpolationStep:
		return quatFromXYZW(keys[k0].Value)
	case model.InterpolationCubicSpline:
		dt := keys[k1].Time - keys[k0].Time
		v := hermiteVec4(
			keys[k0].Value, keys[k0].OutTangent,
			keys[k1].Value, keys[k1].InTangent,
			f, dt,
		)
		return quatNormalize(mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}})
	default: // InterpolationLinear
		return slerpShortest(quatFromXYZW(keys[k0].Value), quatFromXYZW(keys[k1].Value), f)
	}
}

// hermiteVec3 evaluates the standard two-point cubic Hermite basis for a
// 3-component value with scaled tangents, the glTF cubic-spline
// convention: out-tangent and in-tangent are stored per unit time and are
// multiplied by the segment duration dt at evaluation time.
func hermiteVec3(p0, m0, p1, m1 mgl32.Vec3, f, dt float32) mgl32.Vec3 {
	f2 := f * f
	f3 := f2 * f
	h00 := 2*f3 - 3*f2 + 1
	h10 := f3 - 2*f2 + f
	h01 := -2*f3 + 3*f2
	h11 := f3 - f2
	return p0.Mul(h00).
		Add(m0.Mul(h10 * dt)).
		Add(p1.Mul(h01)).
		Add(m1.Mul(h11 * dt))
}

func hermiteVec4(p0, m0, p1, m1 [4]float32, f, dt float32) [4]float32 {
	f2 := f * f
	f3 := f2 * f
	h00 := 2*f3 - 3*f2 + 1
	h10 := f3 - 2*f2 + f
	h01 := -2*f3 + 3*f2
	h11 := f3 - f2
	var out [4]float32
	for i := 0; i < 4; i++ {
		out[i] = p0[i]*h00 + m0[i]*h10*dt + p1[i]*h01 + m1[i]*h11*dt
	}
	return out
}

