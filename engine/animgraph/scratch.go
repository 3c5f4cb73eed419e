package animgraph

// Scratch is a bump (linear) allocator: it hands out Pose buffers from a
// fixed-size pool and is reset, not individually freed, between frames.
// This mirrors the reference arena's contract (init once, allocate by
// pushing an offset, reset to zero between frames, no per-allocation free)
// while fitting a garbage-collected runtime: rather than carve raw bytes
// out of a buffer, Scratch pools Pose values and reuses them in place,
// which keeps Update allocation-free after the pool has grown to its
// steady-state size.
type Scratch struct {
	poses  []*Pose
	used   int
	failed bool
}

// NewScratch creates an empty Scratch. Capacity grows lazily on first use;
// callers that want to pre-size it to avoid any allocation during the
// first frame can call Reserve.
func NewScratch() *Scratch {
	return &Scratch{}
}

// Reserve grows the pool to hold at least n poses of jointCount joints each,
// so steady-state frames never allocate.
func (s *Scratch) Reserve(n, jointCount int) {
	for len(s.poses) < n {
		s.poses = append(s.poses, NewPose(jointCount))
	}
}

// AllocPose returns the next pooled Pose sized for jointCount joints,
// growing the pool if necessary. Returns nil only if jointCount is
// non-positive; callers that receive nil should fall back to the rest pose
// and mark the update as degraded, per the originating specification's
// scratch-exhaustion policy.
func (s *Scratch) AllocPose(jointCount int) *Pose {
	if jointCount <= 0 {
		s.failed = true
		return nil
	}
	if s.used >= len(s.poses) {
		s.poses = append(s.poses, NewPose(jointCount))
	}
	p := s.poses[s.used]
	if len(p.Translation) != jointCount {
		p = NewPose(jointCount)
		s.poses[s.used] = p
	}
	s.used++
	return p
}

// Degraded reports whether any allocation this frame failed.
func (s *Scratch) Degraded() bool {
	return s.failed
}

// PoolSize returns the number of pooled Pose buffers currently held,
// regardless of how many are in use this frame. Useful for tracking how
// far the pool grew before reaching its steady-state size.
func (s *Scratch) PoolSize() int {
	return len(s.poses)
}

// Reset returns every pooled Pose to the free list without freeing the
// backing storage, exactly as arena_reset only rewinds the offset. Call
// this once per frame, after the output matrices for that frame have been
// consumed.
func (s *Scratch) Reset() {
	s.used = 0
	s.failed = false
}
