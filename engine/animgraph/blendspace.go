package animgraph

import (
	"sort"

	"github.com/oxy-go/animgraph/engine/model"
)

// BlendSpace1DEntry anchors one clip at a position along a single parameter
// axis.
type BlendSpace1DEntry struct {
	Position  float32
	ClipIndex int
}

// BlendSpace1D samples a 1-D collection of clips time-synchronized at a
// shared normalized time. Entries must be sorted by Position ascending —
// the definition builder enforces this when a 1-D state is added.
type BlendSpace1D struct {
	Entries []BlendSpace1DEntry
}

// SortEntries orders entries by Position ascending, satisfying the
// invariant required by Evaluate.
func (b *BlendSpace1D) SortEntries() {
	sort.Slice(b.Entries, func(i, j int) bool { return b.Entries[i].Position < b.Entries[j].Position })
}

// EffectiveDuration returns the duration used to normalize state_time for
// this blend space: a single entry uses its own clip's duration; otherwise
// it's the weighted average of the two bracketing clips' durations using
// the same fraction Evaluate would use for position p.
func (b *BlendSpace1D) EffectiveDuration(model_ *model.SkinnedModel, p float32) float32 {
	if len(b.Entries) == 0 {
		return defaultDuration
	}
	if len(b.Entries) == 1 {
		return clipDuration(model_, b.Entries[0].ClipIndex)
	}
	lo, hi, f := bracket1D(b.Entries, p)
	dLo := clipDuration(model_, b.Entries[lo].ClipIndex)
	dHi := clipDuration(model_, b.Entries[hi].ClipIndex)
	return dLo + (dHi-dLo)*f
}

// Evaluate samples the blend space at parameter value p, synchronizing
// each clip's sample time to normalizedTime * clip.duration so clips of
// differing length stay phase-locked.
func (b *BlendSpace1D) Evaluate(skeleton *model.Skeleton, model_ *model.SkinnedModel, p, normalizedTime float32, scratch *Scratch, out *Pose) {
	n := len(b.Entries)
	if n == 0 {
		FromRest(skeleton, out)
		return
	}
	if p < b.Entries[0].Position {
		p = b.Entries[0].Position
	}
	if p > b.Entries[n-1].Position {
		p = b.Entries[n-1].Position
	}
	if n == 1 {
		clip := model_.ClipByIndex(b.Entries[0].ClipIndex)
		SampleClip(skeleton, clip, normalizedTime*clipDurationOf(clip), out)
		return
	}
	lo, hi, f := bracket1D(b.Entries, p)
	clipLo := model_.ClipByIndex(b.Entries[lo].ClipIndex)
	clipHi := model_.ClipByIndex(b.Entries[hi].ClipIndex)
	poseLo := scratch.AllocPose(len(skeleton.Bones))
	poseHi := scratch.AllocPose(len(skeleton.Bones))
	SampleClip(skeleton, clipLo, normalizedTime*clipDurationOf(clipLo), poseLo)
	SampleClip(skeleton, clipHi, normalizedTime*clipDurationOf(clipHi), poseHi)
	Blend(poseLo, poseHi, f, out)
}

func bracket1D(entries []BlendSpace1DEntry, p float32) (lo, hi int, f float32) {
	lo, hi = 0, len(entries)-1
	for i := 0; i < len(entries)-1; i++ {
		if entries[i].Position <= p && p <= entries[i+1].Position {
			lo, hi = i, i+1
			break
		}
	}
	span := entries[hi].Position - entries[lo].Position
	if span != 0 {
		f = (p - entries[lo].Position) / span
	}
	return lo, hi, f
}

// BlendSpace2DEntry anchors one clip at a point on a 2-D parameter plane.
type BlendSpace2DEntry struct {
	X, Y      float32
	ClipIndex int
}

// BlendSpace2D samples a 2-D collection of clips (a locomotion plane, e.g.
// forward speed x strafe speed) time-synchronized the same way BlendSpace1D
// is.
type BlendSpace2D struct {
	Entries []BlendSpace2DEntry
}

// EffectiveDuration uses the first entry's clip duration as a coarse
// approximation for time synchronization across the whole space — an
// intentional simplification the originating design calls out as
// acceptable for locomotion spaces where clips are already near-equal in
// length (see DESIGN.md Open Questions).
func (b *BlendSpace2D) EffectiveDuration(model_ *model.SkinnedModel) float32 {
	if len(b.Entries) == 0 {
		return defaultDuration
	}
	return clipDuration(model_, b.Entries[0].ClipIndex)
}

// Evaluate samples the 2-D blend space at point (x, y).
func (b *BlendSpace2D) Evaluate(skeleton *model.Skeleton, model_ *model.SkinnedModel, x, y, normalizedTime float32, scratch *Scratch, out *Pose) {
	switch len(b.Entries) {
	case 0:
		FromRest(skeleton, out)
	case 1:
		clip := model_.ClipByIndex(b.Entries[0].ClipIndex)
		SampleClip(skeleton, clip, normalizedTime*clipDurationOf(clip), out)
	case 2:
		b.evaluateSegment(skeleton, model_, x, y, normalizedTime, scratch, out)
	default:
		b.evaluateTriangle(skeleton, model_, x, y, normalizedTime, scratch, out)
	}
}

func (b *BlendSpace2D) evaluateSegment(skeleton *model.Skeleton, model_ *model.SkinnedModel, x, y, normalizedTime float32, scratch *Scratch, out *Pose) {
	a, c := b.Entries[0], b.Entries[1]
	abx, aby := c.X-a.X, c.Y-a.Y
	apx, apy := x-a.X, y-a.Y
	lenSq := abx*abx + aby*aby
	f := float32(0)
	if lenSq > 0 {
		f = (apx*abx + apy*aby) / lenSq
	}
	f = clamp01(f)
	clipA := model_.ClipByIndex(a.ClipIndex)
	clipC := model_.ClipByIndex(c.ClipIndex)
	poseA := scratch.AllocPose(len(skeleton.Bones))
	poseC := scratch.AllocPose(len(skeleton.Bones))
	SampleClip(skeleton, clipA, normalizedTime*clipDurationOf(clipA), poseA)
	SampleClip(skeleton, clipC, normalizedTime*clipDurationOf(clipC), poseC)
	Blend(poseA, poseC, f, out)
}

// evaluateTriangle finds the three nearest entries by squared distance,
// computes barycentric weights against that triangle, and blends. The
// nearest-three search deliberately reproduces the reference's ad-hoc,
// non-stable partial sort rather than a stable top-k: ties in distance can
// pick either of the tied entries depending on slice order, which the
// originating design accepts for near-equal-length locomotion spaces (see
// DESIGN.md Open Questions — do not "fix" this into a stable sort).
func (b *BlendSpace2D) evaluateTriangle(skeleton *model.Skeleton, model_ *model.SkinnedModel, x, y, normalizedTime float32, scratch *Scratch, out *Pose) {
	i0, i1, i2 := nearestThree(b.Entries, x, y)
	e0, e1, e2 := b.Entries[i0], b.Entries[i1], b.Entries[i2]

	w0, w1, w2 := barycentric(x, y, e0, e1, e2)
	w0, w1, w2 = maxf(w0, 0), maxf(w1, 0), maxf(w2, 0)
	sum := w0 + w1 + w2
	if sum < degenerateTriangleEpsilon {
		w0, w1, w2 = inverseDistanceWeights(x, y, e0, e1, e2)
	} else {
		w0, w1, w2 = w0/sum, w1/sum, w2/sum
	}

	clip0 := model_.ClipByIndex(e0.ClipIndex)
	clip1 := model_.ClipByIndex(e1.ClipIndex)
	clip2 := model_.ClipByIndex(e2.ClipIndex)
	p0 := scratch.AllocPose(len(skeleton.Bones))
	p1 := scratch.AllocPose(len(skeleton.Bones))
	p2 := scratch.AllocPose(len(skeleton.Bones))
	SampleClip(skeleton, clip0, normalizedTime*clipDurationOf(clip0), p0)
	SampleClip(skeleton, clip1, normalizedTime*clipDurationOf(clip1), p1)
	SampleClip(skeleton, clip2, normalizedTime*clipDurationOf(clip2), p2)

	if w0+w1 < degenerateTriangleEpsilon {
		CopyPose(out, p2)
		return
	}
	tmp := scratch.AllocPose(len(skeleton.Bones))
	Blend(p0, p1, w1/(w0+w1), tmp)
	Blend(tmp, p2, w2, out)
}

// nearestThree returns the indices of the three entries closest to (x, y)
// by squared distance, using a simple O(n) partial selection that mirrors
// the reference implementation's non-stable behavior on ties.
func nearestThree(entries []BlendSpace2DEntry, x, y float32) (i0, i1, i2 int) {
	best := [3]int{0, 1, 2}
	bestD := [3]float32{distSq(entries[0], x, y), distSq(entries[1], x, y), distSq(entries[2], x, y)}
	// selection sort the initial three so best[0] <= best[1] <= best[2]
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if bestD[j] < bestD[i] {
				bestD[i], bestD[j] = bestD[j], bestD[i]
				best[i], best[j] = best[j], best[i]
			}
		}
	}
	for i := 3; i < len(entries); i++ {
		d := distSq(entries[i], x, y)
		if d < bestD[2] {
			bestD[2], best[2] = d, i
			if bestD[2] < bestD[1] {
				bestD[1], bestD[2] = bestD[2], bestD[1]
				best[1], best[2] = best[2], best[1]
			}
			if bestD[1] < bestD[0] {
				bestD[0], bestD[1] = bestD[1], bestD[0]
				best[0], best[1] = best[1], best[0]
			}
		}
	}
	return best[0], best[1], best[2]
}

func distSq(e BlendSpace2DEntry, x, y float32) float32 {
	dx, dy := e.X-x, e.Y-y
	return dx*dx + dy*dy
}

// barycentric computes the barycentric weights of (x, y) against the
// triangle (e0, e1, e2) using the standard determinant form.
func barycentric(x, y float32, e0, e1, e2 BlendSpace2DEntry) (w0, w1, w2 float32) {
	det := (e1.Y-e2.Y)*(e0.X-e2.X) + (e2.X-e1.X)*(e0.Y-e2.Y)
	if det > -degenerateTriangleEpsilon && det < degenerateTriangleEpsilon {
		return 0, 0, 0
	}
	w0 = ((e1.Y-e2.Y)*(x-e2.X) + (e2.X-e1.X)*(y-e2.Y)) / det
	w1 = ((e2.Y-e0.Y)*(x-e2.X) + (e0.X-e2.X)*(y-e2.Y)) / det
	w2 = 1 - w0 - w1
	return w0, w1, w2
}

func inverseDistanceWeights(x, y float32, e0, e1, e2 BlendSpace2DEntry) (w0, w1, w2 float32) {
	const eps = 1e-4
	d0 := 1 / (distSq(e0, x, y) + eps)
	d1 := 1 / (distSq(e1, x, y) + eps)
	d2 := 1 / (distSq(e2, x, y) + eps)
	sum := d0 + d1 + d2
	return d0 / sum, d1 / sum, d2 / sum
}

func clipDuration(m *model.SkinnedModel, clipIndex int) float32 {
	return clipDurationOf(m.ClipByIndex(clipIndex))
}

func clipDurationOf(clip *model.AnimationClip) float32 {
	if clip == nil || clip.Duration <= 0 {
		return defaultDuration
	}
	return clip.Duration
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
