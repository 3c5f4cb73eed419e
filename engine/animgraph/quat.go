package animgraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quaternion arithmetic used by pose algebra. These are written out
// explicitly against mgl32.Quat's exported W/V fields rather than relying on
// a library-provided slerp, so the shortest-path correction spelled out in
// the pose-algebra formulas is exact and not at the mercy of an
// implementation we don't control.

func quatDot(a, b mgl32.Quat) float32 {
	return a.W*b.W + a.V.Dot(b.V)
}

// shortestPath negates b if it is more than 90 degrees from a, so that
// interpolating toward it takes the short way around the hypersphere. The
// reference caller always negates the *second* argument; identity in, q in,
// still negates q if needed, matching "correct against identity" for
// additive deltas.
func shortestPath(a, b mgl32.Quat) mgl32.Quat {
	if quatDot(a, b) < 0 {
		return mgl32.Quat{W: -b.W, V: b.V.Mul(-1)}
	}
	return b
}

// slerpShortest performs shortest-path spherical linear interpolation
// between a and b by factor f. Falls back to normalized linear
// interpolation when the two quaternions are nearly parallel, where slerp's
// sin(theta) denominator would be unstable.
func slerpShortest(a, b mgl32.Quat, f float32) mgl32.Quat {
	b = shortestPath(a, b)
	cosHalfTheta := quatDot(a, b)
	if cosHalfTheta > 0.9995 {
		return quatNormalize(quatAddScaled(a, quatSub(b, a), f))
	}
	if cosHalfTheta > 1 {
		cosHalfTheta = 1
	} else if cosHalfTheta < -1 {
		cosHalfTheta = -1
	}
	halfTheta := float32(math.Acos(float64(cosHalfTheta)))
	sinHalfTheta := float32(math.Sin(float64(halfTheta)))
	if sinHalfTheta < 1e-6 && sinHalfTheta > -1e-6 {
		return a
	}
	ratioA := float32(math.Sin(float64((1-f)*halfTheta))) / sinHalfTheta
	ratioB := float32(math.Sin(float64(f*halfTheta))) / sinHalfTheta
	return quatNormalize(quatAdd(quatScale(a, ratioA), quatScale(b, ratioB)))
}

func quatAdd(a, b mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: a.W + b.W, V: a.V.Add(b.V)}
}

func quatSub(a, b mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: a.W - b.W, V: a.V.Sub(b.V)}
}

func quatScale(a mgl32.Quat, s float32) mgl32.Quat {
	return mgl32.Quat{W: a.W * s, V: a.V.Mul(s)}
}

func quatAddScaled(a, delta mgl32.Quat, f float32) mgl32.Quat {
	return quatAdd(a, quatScale(delta, f))
}

// quatMul computes the Hamilton product a*b (apply b then a).
func quatMul(a, b mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{
		W: a.W*b.W - a.V.Dot(b.V),
		V: b.V.Mul(a.W).Add(a.V.Mul(b.W)).Add(a.V.Cross(b.V)),
	}
}

// quatInverse returns the multiplicative inverse. Falls back to the
// conjugate (valid for unit quaternions) if the norm is degenerate.
func quatInverse(q mgl32.Quat) mgl32.Quat {
	normSq := q.W*q.W + q.V.Dot(q.V)
	if normSq < 1e-12 {
		return mgl32.Quat{W: q.W, V: q.V.Mul(-1)}
	}
	inv := 1 / normSq
	return mgl32.Quat{W: q.W * inv, V: q.V.Mul(-inv)}
}

func quatNormalize(q mgl32.Quat) mgl32.Quat {
	normSq := q.W*q.W + q.V.Dot(q.V)
	if normSq < 1e-12 {
		return mgl32.QuatIdent()
	}
	inv := float32(1 / math.Sqrt(float64(normSq)))
	return mgl32.Quat{W: q.W * inv, V: q.V.Mul(inv)}
}
