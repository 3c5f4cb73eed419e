package animgraph

import (
	"math"

	"github.com/oxy-go/animgraph/engine/model"
)

// BlendMode selects how a layer's pose is combined onto the accumulator in
// the graph compositor (F).
type BlendMode int

const (
	BlendOverride BlendMode = iota
	BlendAdditiveMode
)

// LayerDef is one independent state machine layer within a Definition,
// evaluated in declaration order and combined by the graph compositor.
type LayerDef struct {
	BlendMode BlendMode
	Weight    float32
	Mask      BoneMask

	States            []State
	DefaultStateIndex int
	Transitions       []Transition
}

// layerRuntime is the per-instance, per-layer mutable state described in
// §3.7: the current state and its elapsed time, and, while a transition is
// in flight, the outgoing state's own elapsed time and the transition's
// progress.
type layerRuntime struct {
	currentState int
	stateTime    float32

	transitioning      bool
	prevState          int
	prevStateTime      float32
	transitionElapsed  float32
	transitionDuration float32

	// prevEventTime is not read or written by advance: the lower bound of
	// the wrap-aware firing interval is stateTime as it stands just before
	// the time advance.
	prevEventTime float32
}

func newLayerRuntime(def *LayerDef) layerRuntime {
	return layerRuntime{currentState: def.DefaultStateIndex}
}

// EventFunc is invoked once per fired event, synchronously inside Update.
type EventFunc func(eventID int, name string)

// advance runs one frame of this layer's state machine: transition
// selection, time advance, pose evaluation, and event firing, in that
// order, per §4.5 of the originating specification.
func (lr *layerRuntime) advance(def *LayerDef, skeleton *model.Skeleton, m *model.SkinnedModel, dt float32, params ParamReader, scratch *Scratch, onEvent EventFunc, out *Pose) {
	if len(def.States) == 0 {
		FromRest(skeleton, out)
		return
	}
	if lr.currentState < 0 || lr.currentState >= len(def.States) {
		lr.currentState = 0
	}

	// 1. Transition selection.
	justFired := false
	if !lr.transitioning {
		justFired = lr.trySelectTransition(def, m, params)
	}

	// 2. Time advance.
	curState := &def.States[lr.currentState]
	curDuration := curState.EffectiveDuration(m, params)
	prevStateTimeBeforeAdvance := lr.stateTime
	lr.stateTime, _ = advanceStateTime(lr.stateTime, dt, curState.Speed, curDuration, curState.Loop)

	if lr.transitioning {
		prevState := &def.States[lr.prevState]
		prevDuration := prevState.EffectiveDuration(m, params)
		lr.prevStateTime, _ = advanceStateTime(lr.prevStateTime, dt, prevState.Speed, prevDuration, prevState.Loop)
	}

	// 3. Pose evaluation.
	curState.Evaluate(skeleton, m, lr.stateTime, params, scratch, out)
	if lr.transitioning {
		prevPose := scratch.AllocPose(len(skeleton.Bones))
		def.States[lr.prevState].Evaluate(skeleton, m, lr.prevStateTime, params, scratch, prevPose)
		if !justFired {
			lr.transitionElapsed += dt
		}
		f := clamp01(lr.transitionElapsed / lr.transitionDuration)
		blended := scratch.AllocPose(len(skeleton.Bones))
		Blend(prevPose, out, f, blended)
		CopyPose(out, blended)
		if f >= 1 {
			lr.transitioning = false
		}
	}

	// 4. Event firing, for the (possibly new) current state.
	if onEvent != nil {
		fireEvents(curState.Events, prevStateTimeBeforeAdvance, lr.stateTime, curDuration, curState.Loop, onEvent)
	}
}

// trySelectTransition walks def.Transitions in order and fires the first
// one whose Source matches the current state and whose guard passes.
// Returns true if a transition fired this call.
func (lr *layerRuntime) trySelectTransition(def *LayerDef, m *model.SkinnedModel, params ParamReader) bool {
	curState := &def.States[lr.currentState]
	duration := curState.EffectiveDuration(m, params)
	normalized := NormalizedTime(lr.stateTime, duration)
	for i := range def.Transitions {
		t := &def.Transitions[i]
		if t.Source != lr.currentState {
			continue
		}
		if !t.canFire(normalized, params) {
			continue
		}
		lr.prevState = lr.currentState
		lr.prevStateTime = lr.stateTime
		lr.transitioning = true
		lr.transitionElapsed = 0
		lr.transitionDuration = t.Duration
		lr.currentState = t.Target
		lr.stateTime = 0
		return true
	}
	return false
}

// advanceStateTime advances stateTime by dt*speed, wrapping with floored
// modulo if loop is set (so negative speeds rewind correctly) or clamping
// to [0, duration] otherwise. wrapped reports whether a loop wrap occurred,
// for wrap-aware event firing.
func advanceStateTime(stateTime, dt, speed, duration float32, loop bool) (newTime float32, wrapped bool) {
	raw := stateTime + dt*speed
	if !loop {
		if raw < 0 {
			return 0, false
		}
		if raw > duration {
			return duration, false
		}
		return raw, false
	}
	wrapped = raw < 0 || raw >= duration
	return flooredMod(raw, duration), wrapped
}

func flooredMod(a, m float32) float32 {
	if m <= 0 {
		return 0
	}
	r := float32(math.Mod(float64(a), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// fireEvents invokes onEvent for every event whose time lies in the open
// interval (prevTime, currTime] reached during this advance. For a looping
// state whose advance wrapped around duration, the interval becomes
// (prevTime, duration] ∪ [0, currTime] so events fire exactly once per
// cycle even when dt straddles the wrap.
func fireEvents(events []Event, prevTime, currTime, duration float32, loop bool, onEvent EventFunc) {
	wrapped := loop && currTime < prevTime
	if !wrapped {
		lo, hi := prevTime, currTime
		if lo > hi {
			lo, hi = hi, lo
		}
		for _, e := range events {
			if e.Time > lo && e.Time <= hi {
				onEvent(e.ID, e.Name)
			}
		}
		return
	}
	for _, e := range events {
		if e.Time > prevTime && e.Time <= duration {
			onEvent(e.ID, e.Name)
		}
	}
	for _, e := range events {
		if e.Time >= 0 && e.Time <= currTime {
			onEvent(e.ID, e.Name)
		}
	}
}
