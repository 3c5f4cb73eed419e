package model

import "fmt"

// SkinnedModel aggregates everything the animation graph needs from an
// imported rig: the skeleton hierarchy and its animation clips. It is the
// Go counterpart of the reference C `SkinnedModel` struct, minus the mesh
// handle (a renderer concern this engine does not own).
type SkinnedModel struct {
	// Skeleton is the bone hierarchy.
	Skeleton *Skeleton

	// Clips are the animation clips available to this model. The
	// animation graph references clips by index into this slice.
	Clips []*AnimationClip
}

// ClipByIndex returns the clip at idx, or nil if idx is out of range — the
// graph's "fall back to rest pose" policy for an out-of-range clip index
// (see the state evaluator's documented edge case) relies on this returning
// nil rather than panicking.
func (m *SkinnedModel) ClipByIndex(idx int) *AnimationClip {
	if m == nil || idx < 0 || idx >= len(m.Clips) {
		return nil
	}
	return m.Clips[idx]
}

// ClipByName returns the first clip named name, or nil if none matches.
func (m *SkinnedModel) ClipByName(name string) *AnimationClip {
	if m == nil {
		return nil
	}
	for _, c := range m.Clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// JointCount returns the skeleton's joint count, or 0 if the model has no
// skeleton.
func (m *SkinnedModel) JointCount() int {
	if m == nil || m.Skeleton == nil {
		return 0
	}
	return len(m.Skeleton.Bones)
}

// Validate checks the topological invariant required by the graph
// compositor: every bone's parent index must reference an earlier bone.
// Returns an error naming the first offending joint rather than silently
// producing a wrong skinning sweep.
func (m *SkinnedModel) Validate() error {
	if m == nil || m.Skeleton == nil {
		return nil
	}
	for j, bone := range m.Skeleton.Bones {
		if bone.ParentIndex >= int32(j) {
			return fmt.Errorf("model: joint %d has parent index %d, which is not topologically earlier", j, bone.ParentIndex)
		}
		if int(bone.ParentIndex) >= len(m.Skeleton.Bones) {
			return fmt.Errorf("model: joint %d has out-of-range parent index %d", j, bone.ParentIndex)
		}
	}
	return nil
}
