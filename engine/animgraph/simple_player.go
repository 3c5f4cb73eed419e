package animgraph

import "github.com/oxy-go/animgraph/engine/model"

// SimplePlayer is a minimal, non-graph playback mode for callers that just
// want to play one clip with a speed and a loop flag — no layers, no state
// machine, no transitions. It reuses the same clip sampler (B) and pose
// algebra (A) the full graph uses, and supports a linear blend while
// switching clips, matching the reference engine's legacy `AnimState`
// playback helpers that the graph system was layered on top of.
type SimplePlayer struct {
	model *model.SkinnedModel

	clipIndex int
	time      float32
	speed     float32
	loop      bool

	switching      bool
	fromClipIndex  int
	fromTime       float32
	switchElapsed  float32
	switchDuration float32

	JointMatrices [][16]float32
}

// NewSimplePlayer creates a player bound to skinnedModel, initially playing
// clipIndex from time 0.
func NewSimplePlayer(skinnedModel *model.SkinnedModel, clipIndex int, speed float32, loop bool) *SimplePlayer {
	return &SimplePlayer{
		model:         skinnedModel,
		clipIndex:     clipIndex,
		speed:         speed,
		loop:          loop,
		JointMatrices: make([][16]float32, skinnedModel.JointCount()),
	}
}

// Play immediately switches to clipIndex with no blend, resetting time to 0.
func (p *SimplePlayer) Play(clipIndex int, speed float32, loop bool) {
	p.clipIndex = clipIndex
	p.speed = speed
	p.loop = loop
	p.time = 0
	p.switching = false
}

// BlendTo crossfades to clipIndex over blendDuration seconds, continuing to
// play the current clip during the fade.
func (p *SimplePlayer) BlendTo(clipIndex int, speed float32, loop bool, blendDuration float32) {
	if blendDuration <= 0 {
		p.Play(clipIndex, speed, loop)
		return
	}
	p.fromClipIndex = p.clipIndex
	p.fromTime = p.time
	p.switching = true
	p.switchElapsed = 0
	p.switchDuration = blendDuration
	p.clipIndex = clipIndex
	p.speed = speed
	p.loop = loop
	p.time = 0
}

// Update advances playback by dt seconds and writes the resulting skinning
// matrices into p.JointMatrices.
func (p *SimplePlayer) Update(dt float32, scratch *Scratch) {
	skeleton := p.model.Skeleton
	if skeleton == nil {
		return
	}
	jointCount := len(skeleton.Bones)
	clip := p.model.ClipByIndex(p.clipIndex)
	duration := clipDurationOf(clip)
	p.time, _ = advanceStateTime(p.time, dt, p.speed, duration, p.loop)

	pose := scratch.AllocPose(jointCount)
	SampleClip(skeleton, clip, p.time, pose)

	if p.switching {
		fromClip := p.model.ClipByIndex(p.fromClipIndex)
		fromDuration := clipDurationOf(fromClip)
		p.fromTime, _ = advanceStateTime(p.fromTime, dt, p.speed, fromDuration, p.loop)
		fromPose := scratch.AllocPose(jointCount)
		SampleClip(skeleton, fromClip, p.fromTime, fromPose)

		p.switchElapsed += dt
		f := clamp01(p.switchElapsed / p.switchDuration)
		blended := scratch.AllocPose(jointCount)
		Blend(fromPose, pose, f, blended)
		pose = blended
		if f >= 1 {
			p.switching = false
		}
	}

	PoseToMatrices(skeleton, pose, p.JointMatrices)
}
