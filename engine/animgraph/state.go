package animgraph

import "github.com/oxy-go/animgraph/engine/model"

// StateKind selects which of the three state shapes a State holds: a single
// clip, a 1-D blend space, or a 2-D blend space.
type StateKind int

const (
	StateClip StateKind = iota
	StateBlend1D
	StateBlend2D
)

// Event is a named, timed marker attached to a state. Events within a state
// must be sorted by Time ascending — the definition builder enforces this
// when an event is added.
type Event struct {
	Time float32
	ID   int
	Name string
}

// State is one node of a layer's state machine. Exactly one of the
// Clip/Blend1D/Blend2D-shaped fields is meaningful, selected by Kind — a
// tagged union rather than an interface hierarchy, since the variant count
// is fixed and the shapes are small (see DESIGN.md).
type State struct {
	Kind StateKind

	// Clip-state fields.
	ClipIndex int
	Speed     float32
	Loop      bool

	// 1-D blend-state fields.
	Blend1D      BlendSpace1D
	Blend1DParam int

	// 2-D blend-state fields.
	Blend2D       BlendSpace2D
	Blend2DParamX int
	Blend2DParamY int

	// Events are this state's timed markers, sorted by Time ascending.
	Events []Event
}

// EffectiveDuration computes the duration used to normalize this state's
// time, per §4.4 of the originating specification: a clip state uses its
// clip's duration; a 1-D blend uses the weighted average of the two
// bracketing clips; a 2-D blend uses its first entry's clip as a coarse
// approximation. Any non-positive result is replaced with defaultDuration.
func (s *State) EffectiveDuration(m *model.SkinnedModel, params ParamReader) float32 {
	var d float32
	switch s.Kind {
	case StateClip:
		d = clipDuration(m, s.ClipIndex)
	case StateBlend1D:
		d = s.Blend1D.EffectiveDuration(m, params.Float(s.Blend1DParam))
	case StateBlend2D:
		d = s.Blend2D.EffectiveDuration(m)
	}
	if d <= 0 {
		return defaultDuration
	}
	return d
}

// Evaluate fills out with this state's pose at stateTime, dispatching to
// the clip sampler (B) or the appropriate blend space (C). An out-of-range
// clip index falls back to the skeleton's rest pose rather than erroring.
func (s *State) Evaluate(skeleton *model.Skeleton, m *model.SkinnedModel, stateTime float32, params ParamReader, scratch *Scratch, out *Pose) {
	switch s.Kind {
	case StateClip:
		clip := m.ClipByIndex(s.ClipIndex)
		if clip == nil && len(m.Clips) > 0 {
			FromRest(skeleton, out)
			return
		}
		SampleClip(skeleton, clip, stateTime, out)
	case StateBlend1D:
		duration := s.EffectiveDuration(m, params)
		normalized := clamp01(stateTime / duration)
		s.Blend1D.Evaluate(skeleton, m, params.Float(s.Blend1DParam), normalized, scratch, out)
	case StateBlend2D:
		duration := s.EffectiveDuration(m, params)
		normalized := clamp01(stateTime / duration)
		s.Blend2D.Evaluate(skeleton, m, params.Float(s.Blend2DParamX), params.Float(s.Blend2DParamY), normalized, scratch, out)
	default:
		FromRest(skeleton, out)
	}
}

// NormalizedTime returns clamp01(stateTime / duration) for duration > 0,
// else 0.
func NormalizedTime(stateTime, duration float32) float32 {
	if duration <= 0 {
		return 0
	}
	return clamp01(stateTime / duration)
}
