package animgraph

import (
	"log"

	"github.com/oxy-go/animgraph/engine/model"
)

// EventCallback is invoked synchronously inside Update for every event
// fired this frame, with the user data the instance was created or
// configured with. It must not mutate the shared Definition or destroy the
// Instance it is running inside, and may safely re-enter SetParamFloat/
// SetParamBool/SetEventCallback on the same instance (§9 of the originating
// specification).
type EventCallback func(userData any, eventID int, name string)

// Instance is a per-entity, mutable graph evaluation: a non-owning
// reference to a shared Definition and SkinnedModel, runtime parameter
// values seeded from the definition's defaults, one layerRuntime per layer,
// and the output joint-matrix buffer consumed by a renderer.
type Instance struct {
	def   *Definition
	model *model.SkinnedModel

	params []paramValue
	layers []layerRuntime

	callback EventCallback
	userData any

	// JointMatrices is the output buffer written by Update: one
	// column-major 4x4 matrix per joint, ready for GPU skinning as-is.
	JointMatrices [][16]float32

	degraded bool
}

// InstanceBuilderOption configures an Instance at construction time.
type InstanceBuilderOption func(*Instance)

// WithEventCallback attaches an event callback and its user data.
func WithEventCallback(cb EventCallback, userData any) InstanceBuilderOption {
	return func(i *Instance) {
		i.callback = cb
		i.userData = userData
	}
}

// NewInstance creates an Instance bound to def and skinnedModel. Parameters
// are seeded from def's defaults and every layer starts in its
// DefaultStateIndex. def and skinnedModel are not copied — the instance
// holds a non-owning reference and the caller must not mutate either while
// any instance is alive.
func NewInstance(def *Definition, skinnedModel *model.SkinnedModel, options ...InstanceBuilderOption) *Instance {
	inst := &Instance{
		def:           def,
		model:         skinnedModel,
		params:        make([]paramValue, len(def.Params)),
		layers:        make([]layerRuntime, len(def.Layers)),
		JointMatrices: make([][16]float32, skinnedModel.JointCount()),
	}
	for i, p := range def.Params {
		inst.params[i] = paramValue{f: p.DefaultFloat, b: p.DefaultBool}
	}
	for i := range def.Layers {
		inst.layers[i] = newLayerRuntime(&def.Layers[i])
	}
	return inst
}

// SetEventCallback attaches (or replaces, or clears with a nil cb) the
// instance's event callback.
func (inst *Instance) SetEventCallback(cb EventCallback, userData any) {
	inst.callback = cb
	inst.userData = userData
}

// SetParamFloat sets a float parameter by index. An out-of-range or
// wrongly-typed index is a silent no-op, per the originating
// specification's error-handling policy.
func (inst *Instance) SetParamFloat(idx int, value float32) {
	if idx < 0 || idx >= len(inst.params) || idx >= len(inst.def.Params) {
		return
	}
	if inst.def.Params[idx].Kind != ParamFloat {
		return
	}
	inst.params[idx].f = value
}

// SetParamBool sets a bool parameter by index. Same silent-no-op policy as
// SetParamFloat.
func (inst *Instance) SetParamBool(idx int, value bool) {
	if idx < 0 || idx >= len(inst.params) || idx >= len(inst.def.Params) {
		return
	}
	if inst.def.Params[idx].Kind != ParamBool {
		return
	}
	inst.params[idx].b = value
}

// SetParamFloatByName looks up the parameter named name and sets it. An
// unknown name is a silent no-op.
func (inst *Instance) SetParamFloatByName(name string, value float32) {
	inst.SetParamFloat(paramIndexByName(inst.def.Params, name), value)
}

// SetParamBoolByName looks up the parameter named name and sets it. An
// unknown name is a silent no-op.
func (inst *Instance) SetParamBoolByName(name string, value bool) {
	inst.SetParamBool(paramIndexByName(inst.def.Params, name), value)
}

// Float implements ParamReader.
func (inst *Instance) Float(idx int) float32 {
	if idx < 0 || idx >= len(inst.params) {
		return 0
	}
	return inst.params[idx].f
}

// Bool implements ParamReader.
func (inst *Instance) Bool(idx int) bool {
	if idx < 0 || idx >= len(inst.params) {
		return false
	}
	return inst.params[idx].b
}

// FloatByName implements ParamReader.
func (inst *Instance) FloatByName(name string) float32 {
	return inst.Float(paramIndexByName(inst.def.Params, name))
}

// BoolByName implements ParamReader.
func (inst *Instance) BoolByName(name string) bool {
	return inst.Bool(paramIndexByName(inst.def.Params, name))
}

// Degraded reports whether the most recent Update call fell back to rest
// poses or identity matrices anywhere due to scratch exhaustion.
func (inst *Instance) Degraded() bool {
	return inst.degraded
}

// ActiveTransitionCount returns the number of layers currently mid-crossfade.
func (inst *Instance) ActiveTransitionCount() int {
	n := 0
	for i := range inst.layers {
		if inst.layers[i].transitioning {
			n++
		}
	}
	return n
}

// Update advances every layer by dt seconds, composites their poses (F),
// and writes the resulting skinning matrices into inst.JointMatrices.
// scratch is reset by the caller between frames, never by Update itself. A
// negative dt is valid and rewinds time in looping states. Update never
// returns an error: scratch exhaustion or a missing skeleton degrade the
// output to identity matrices and are logged, per §4.5/§4.6's best-effort
// policy.
func (inst *Instance) Update(dt float32, scratch *Scratch) {
	inst.degraded = false
	skeleton := inst.model.Skeleton
	if skeleton == nil || len(skeleton.Bones) == 0 {
		inst.degraded = true
		identity := identityMatrix()
		for j := range inst.JointMatrices {
			inst.JointMatrices[j] = identity
		}
		log.Printf("animgraph: update degraded (scratch exhaustion or missing skeleton)")
		return
	}
	jointCount := len(skeleton.Bones)

	layerPoses := make([]*Pose, len(inst.layers))
	for l := range inst.layers {
		pose := scratch.AllocPose(jointCount)
		if pose == nil {
			inst.degraded = true
			continue
		}
		var onEvent EventFunc
		if inst.callback != nil {
			onEvent = func(eventID int, name string) { inst.callback(inst.userData, eventID, name) }
		}
		inst.layers[l].advance(&inst.def.Layers[l], skeleton, inst.model, dt, inst, scratch, onEvent, pose)
		layerPoses[l] = pose
	}

	finalPose := scratch.AllocPose(jointCount)
	if finalPose == nil {
		inst.degraded = true
	}
	if finalPose != nil {
		Composite(skeleton, inst.def.Layers, layerPoses, scratch, finalPose)
		PoseToMatrices(skeleton, finalPose, inst.JointMatrices)
	} else {
		identity := identityMatrix()
		for j := range inst.JointMatrices {
			inst.JointMatrices[j] = identity
		}
	}

	if scratch.Degraded() {
		inst.degraded = true
	}
	if inst.degraded {
		log.Printf("animgraph: update degraded (scratch exhaustion or missing skeleton)")
	}
}

func identityMatrix() [16]float32 {
	var m [16]float32
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}
