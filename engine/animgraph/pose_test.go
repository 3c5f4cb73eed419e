package animgraph

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func quatFromAxisAngle(axisZ, angleRad float32) mgl32.Quat {
	half := angleRad / 2
	return mgl32.Quat{W: float32(math.Cos(float64(half))), V: mgl32.Vec3{0, 0, float32(math.Sin(float64(half))) * axisZ}}
}

func onePose(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) *Pose {
	return &Pose{
		Translation: []mgl32.Vec3{t},
		Rotation:    []mgl32.Quat{r},
		Scale:       []mgl32.Vec3{s},
	}
}

func TestBlendEndpoints(t *testing.T) {
	a := onePose(mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	b := onePose(mgl32.Vec3{1, 2, 3}, quatFromAxisAngle(1, math.Pi/2), mgl32.Vec3{2, 2, 2})
	out := NewPose(1)

	Blend(a, b, 0, out)
	assert.InDelta(t, 0, out.Translation[0][0], 1e-5)
	assert.InDelta(t, 1, out.Scale[0][0], 1e-5)
	assert.InDelta(t, float64(a.Rotation[0].W), float64(out.Rotation[0].W), 1e-5)

	Blend(a, b, 1, out)
	assert.InDelta(t, 1, out.Translation[0][0], 1e-5)
	assert.InDelta(t, 2, out.Scale[0][0], 1e-5)
	assert.InDelta(t, float64(b.Rotation[0].W), float64(out.Rotation[0].W), 1e-5)
}

func TestSlerpShortestPath(t *testing.T) {
	q := quatFromAxisAngle(1, math.Pi/3)
	negQ := mgl32.Quat{W: -q.W, V: q.V.Mul(-1)}

	a := onePose(mgl32.Vec3{}, q, mgl32.Vec3{1, 1, 1})
	b := onePose(mgl32.Vec3{}, negQ, mgl32.Vec3{1, 1, 1})
	out := NewPose(1)

	for _, f := range []float32{0, 0.25, 0.5, 0.75, 1} {
		Blend(a, b, f, out)
		assert.InDelta(t, float64(q.W), float64(out.Rotation[0].W), 1e-4, "factor %v", f)
		assert.InDelta(t, float64(q.V[2]), float64(out.Rotation[0].V[2]), 1e-4, "factor %v", f)
	}
}

func TestBlendMaskedZeroPreservesBase(t *testing.T) {
	base := onePose(mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	overlay := onePose(mgl32.Vec3{9, 9, 9}, quatFromAxisAngle(1, math.Pi/2), mgl32.Vec3{2, 2, 2})
	mask := BoneMask{0}
	out := NewPose(1)

	for _, f := range []float32{0, 0.5, 1} {
		BlendMasked(base, overlay, mask, f, out)
		assert.Equal(t, base.Translation[0], out.Translation[0])
		assert.Equal(t, base.Rotation[0], out.Rotation[0])
		assert.Equal(t, base.Scale[0], out.Scale[0])
	}
}

func TestBlendAdditiveZeroWeightIsIdentity(t *testing.T) {
	base := onePose(mgl32.Vec3{1, 2, 3}, quatFromAxisAngle(1, math.Pi/4), mgl32.Vec3{1, 1, 1})
	additive := onePose(mgl32.Vec3{5, 5, 5}, quatFromAxisAngle(1, math.Pi), mgl32.Vec3{3, 3, 3})
	reference := onePose(mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	out := NewPose(1)

	BlendAdditive(base, additive, reference, nil, 0, out)
	assert.Equal(t, base.Translation[0], out.Translation[0])
	assert.Equal(t, base.Rotation[0], out.Rotation[0])
	assert.Equal(t, base.Scale[0], out.Scale[0])
}

func TestBlendAdditiveRoundTrip(t *testing.T) {
	reference := onePose(mgl32.Vec3{1, 1, 1}, quatFromAxisAngle(1, math.Pi/6), mgl32.Vec3{1, 1, 1})
	additive := onePose(mgl32.Vec3{4, 5, 6}, quatFromAxisAngle(1, math.Pi/3), mgl32.Vec3{2, 3, 4})
	out := NewPose(1)

	BlendAdditive(reference, additive, reference, nil, 1, out)
	assert.InDelta(t, float64(additive.Translation[0][0]), float64(out.Translation[0][0]), 1e-5)
	assert.InDelta(t, float64(additive.Scale[0][0]), float64(out.Scale[0][0]), 1e-5)

	dot := quatDot(additive.Rotation[0], out.Rotation[0])
	assert.InDelta(t, 1, math.Abs(float64(dot)), 1e-4)
}

func TestFromRestIdentity(t *testing.T) {
	skeleton, _ := oneJointSkeleton()
	out := NewPose(1)
	FromRest(skeleton, out)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, out.Translation[0])
	assert.Equal(t, mgl32.QuatIdent(), out.Rotation[0])
}
