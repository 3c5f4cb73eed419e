package animgraph

import "github.com/oxy-go/animgraph/engine/model"

// BoneMask assigns a per-joint weight in [0, 1]. A nil BoneMask is treated
// as full weight on every joint (the "no mask" case described in §3.5 of the
// originating specification). Masks are constructed from a skeleton by
// naming a sub-tree root and are owned independently of any layer that
// references them.
type BoneMask []float32

// Weight returns the mask weight for joint j, or 1 if j is out of range.
func (m BoneMask) Weight(j int) float32 {
	if j < 0 || j >= len(m) {
		return 1
	}
	return m[j]
}

// NewBoneMaskFromJoint builds a mask that includes rootJoint and every
// descendant of it (weight 1) and excludes everything else (weight 0).
func NewBoneMaskFromJoint(skeleton *model.Skeleton, rootJoint int) BoneMask {
	mask := make(BoneMask, len(skeleton.Bones))
	markDescendants(skeleton, rootJoint, mask, 1)
	return mask
}

// NewBoneMaskExcludingJoint builds a mask that excludes excludedJoint and
// every descendant of it (weight 0) and includes everything else (weight 1).
func NewBoneMaskExcludingJoint(skeleton *model.Skeleton, excludedJoint int) BoneMask {
	mask := make(BoneMask, len(skeleton.Bones))
	for j := range mask {
		mask[j] = 1
	}
	markDescendants(skeleton, excludedJoint, mask, 0)
	return mask
}

// markDescendants sets weight on root and every joint whose parent chain
// passes through root. Joints are assumed topologically ordered
// (parent[j] < j), so a single forward pass suffices: a joint inherits the
// mark the moment its parent is found to carry it.
func markDescendants(skeleton *model.Skeleton, root int, mask BoneMask, weight float32) {
	if root < 0 || root >= len(skeleton.Bones) {
		return
	}
	marked := make([]bool, len(skeleton.Bones))
	marked[root] = true
	mask[root] = weight
	for j := root + 1; j < len(skeleton.Bones); j++ {
		parent := int(skeleton.Bones[j].ParentIndex)
		if parent >= 0 && marked[parent] {
			marked[j] = true
			mask[j] = weight
		}
	}
}
