package animgraph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCapacityExceeded is wrapped into the error returned by any Add* method
// that would exceed a fixed capacity (§3.6: layers ≤ 4, states ≤ 16 per
// layer, transitions ≤ 32 per layer, conditions ≤ 4 per transition,
// parameters ≤ 16). Callers that only care about the sentinel can ignore
// the error and check for NoIndex; callers that want a reason can use
// errors.Is against this value.
var ErrCapacityExceeded = errors.New("animgraph: capacity exceeded")

// ErrInvalidIndex is wrapped into the error returned when an Add* method is
// given a layer or state index that doesn't exist in the definition being
// built.
var ErrInvalidIndex = errors.New("animgraph: invalid index")

// DefinitionBuilderOption configures a DefinitionBuilder at construction
// time, for the handful of settings that don't need a capacity-checked
// index (mirrors the functional-option builders used elsewhere in this
// codebase).
type DefinitionBuilderOption func(*DefinitionBuilder)

// WithCapacityHint pre-allocates room for n layers, avoiding slice growth
// while authoring a graph of known size.
func WithCapacityHint(n int) DefinitionBuilderOption {
	return func(b *DefinitionBuilder) {
		b.def.Layers = make([]LayerDef, 0, n)
	}
}

// DefinitionBuilder assembles and validates a Definition. It is write-once:
// once Build returns, the caller is expected to treat the Definition as
// read-only and share it across any number of Instances. Every Add* method
// except AddEvent returns a non-negative index on success or NoIndex (with a
// wrapped error) on capacity overflow or an invalid target index — matching
// the reference anim_graph_def_add_* family's sentinel-return contract.
// AddEvent and SetDefaultState return only the error.
type DefinitionBuilder struct {
	def Definition
}

// NewDefinitionBuilder creates an empty builder.
func NewDefinitionBuilder(options ...DefinitionBuilderOption) *DefinitionBuilder {
	b := &DefinitionBuilder{}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// AddParamFloat adds a named float parameter with the given default value.
func (b *DefinitionBuilder) AddParamFloat(name string, defaultValue float32) (int, error) {
	if len(b.def.Params) >= MaxParams {
		return NoIndex, fmt.Errorf("add param %q: %w", name, ErrCapacityExceeded)
	}
	b.def.Params = append(b.def.Params, ParamDef{Name: name, Kind: ParamFloat, DefaultFloat: defaultValue})
	return len(b.def.Params) - 1, nil
}

// AddParamBool adds a named bool parameter with the given default value.
func (b *DefinitionBuilder) AddParamBool(name string, defaultValue bool) (int, error) {
	if len(b.def.Params) >= MaxParams {
		return NoIndex, fmt.Errorf("add param %q: %w", name, ErrCapacityExceeded)
	}
	b.def.Params = append(b.def.Params, ParamDef{Name: name, Kind: ParamBool, DefaultBool: defaultValue})
	return len(b.def.Params) - 1, nil
}

// AddLayer appends a new, empty layer in evaluation order.
func (b *DefinitionBuilder) AddLayer(mode BlendMode, weight float32, mask BoneMask) (int, error) {
	if len(b.def.Layers) >= MaxLayers {
		return NoIndex, fmt.Errorf("add layer: %w", ErrCapacityExceeded)
	}
	b.def.Layers = append(b.def.Layers, LayerDef{BlendMode: mode, Weight: weight, Mask: mask, DefaultStateIndex: 0})
	return len(b.def.Layers) - 1, nil
}

func (b *DefinitionBuilder) layer(layerIdx int) (*LayerDef, error) {
	if layerIdx < 0 || layerIdx >= len(b.def.Layers) {
		return nil, fmt.Errorf("layer %d: %w", layerIdx, ErrInvalidIndex)
	}
	return &b.def.Layers[layerIdx], nil
}

// AddClipState appends a single-clip state to layerIdx.
func (b *DefinitionBuilder) AddClipState(layerIdx, clipIndex int, speed float32, loop bool) (int, error) {
	layer, err := b.layer(layerIdx)
	if err != nil {
		return NoIndex, err
	}
	if len(layer.States) >= MaxStatesPerLayer {
		return NoIndex, fmt.Errorf("add clip state to layer %d: %w", layerIdx, ErrCapacityExceeded)
	}
	layer.States = append(layer.States, State{Kind: StateClip, ClipIndex: clipIndex, Speed: speed, Loop: loop})
	return len(layer.States) - 1, nil
}

// AddBlend1DState appends a 1-D blend-space state to layerIdx, driven by
// paramIdx. entries are sorted by Position ascending before being stored,
// satisfying §3.6's sort invariant regardless of the order they're passed
// in.
func (b *DefinitionBuilder) AddBlend1DState(layerIdx, paramIdx int, entries []BlendSpace1DEntry) (int, error) {
	layer, err := b.layer(layerIdx)
	if err != nil {
		return NoIndex, err
	}
	if len(layer.States) >= MaxStatesPerLayer {
		return NoIndex, fmt.Errorf("add 1d blend state to layer %d: %w", layerIdx, ErrCapacityExceeded)
	}
	if len(entries) > MaxBlend1DEntries {
		return NoIndex, fmt.Errorf("add 1d blend state to layer %d: %d entries: %w", layerIdx, len(entries), ErrCapacityExceeded)
	}
	space := BlendSpace1D{Entries: append([]BlendSpace1DEntry(nil), entries...)}
	space.SortEntries()
	layer.States = append(layer.States, State{Kind: StateBlend1D, Blend1D: space, Blend1DParam: paramIdx})
	return len(layer.States) - 1, nil
}

// AddBlend2DState appends a 2-D blend-space state to layerIdx, driven by
// paramX and paramY.
func (b *DefinitionBuilder) AddBlend2DState(layerIdx, paramX, paramY int, entries []BlendSpace2DEntry) (int, error) {
	layer, err := b.layer(layerIdx)
	if err != nil {
		return NoIndex, err
	}
	if len(layer.States) >= MaxStatesPerLayer {
		return NoIndex, fmt.Errorf("add 2d blend state to layer %d: %w", layerIdx, ErrCapacityExceeded)
	}
	if len(entries) > MaxBlend2DEntries {
		return NoIndex, fmt.Errorf("add 2d blend state to layer %d: %d entries: %w", layerIdx, len(entries), ErrCapacityExceeded)
	}
	space := BlendSpace2D{Entries: append([]BlendSpace2DEntry(nil), entries...)}
	layer.States = append(layer.States, State{Kind: StateBlend2D, Blend2D: space, Blend2DParamX: paramX, Blend2DParamY: paramY})
	return len(layer.States) - 1, nil
}

// SetDefaultState sets the state a layer's instances start in.
func (b *DefinitionBuilder) SetDefaultState(layerIdx, stateIdx int) error {
	layer, err := b.layer(layerIdx)
	if err != nil {
		return err
	}
	if stateIdx < 0 || stateIdx >= len(layer.States) {
		return fmt.Errorf("set default state %d on layer %d: %w", stateIdx, layerIdx, ErrInvalidIndex)
	}
	layer.DefaultStateIndex = stateIdx
	return nil
}

// AddTransition appends a transition from source to target on layerIdx.
// hasExitTime/exitTime are optional (pass hasExitTime=false to omit the
// exit-time gate). A transition added with zero conditions is accepted —
// it is simply one that will never fire (§4.5).
func (b *DefinitionBuilder) AddTransition(layerIdx, source, target int, duration float32, hasExitTime bool, exitTime float32, conditions []Condition) (int, error) {
	layer, err := b.layer(layerIdx)
	if err != nil {
		return NoIndex, err
	}
	if len(layer.Transitions) >= MaxTransitionsPerLayer {
		return NoIndex, fmt.Errorf("add transition to layer %d: %w", layerIdx, ErrCapacityExceeded)
	}
	if source < 0 || source >= len(layer.States) || target < 0 || target >= len(layer.States) {
		return NoIndex, fmt.Errorf("add transition to layer %d: %w", layerIdx, ErrInvalidIndex)
	}
	if len(conditions) > MaxConditionsPerTransition {
		return NoIndex, fmt.Errorf("add transition to layer %d: %d conditions: %w", layerIdx, len(conditions), ErrCapacityExceeded)
	}
	layer.Transitions = append(layer.Transitions, Transition{
		Source: source, Target: target, Duration: duration,
		HasExitTime: hasExitTime, ExitTime: exitTime,
		Conditions: append([]Condition(nil), conditions...),
	})
	return len(layer.Transitions) - 1, nil
}

// AddEvent attaches a timed event to stateIdx on layerIdx. Events are kept
// sorted by Time ascending after every insertion, satisfying §3.6's sort
// invariant.
func (b *DefinitionBuilder) AddEvent(layerIdx, stateIdx int, time float32, id int, name string) error {
	layer, err := b.layer(layerIdx)
	if err != nil {
		return err
	}
	if stateIdx < 0 || stateIdx >= len(layer.States) {
		return fmt.Errorf("add event to state %d on layer %d: %w", stateIdx, layerIdx, ErrInvalidIndex)
	}
	state := &layer.States[stateIdx]
	state.Events = append(state.Events, Event{Time: time, ID: id, Name: name})
	sort.Slice(state.Events, func(i, j int) bool { return state.Events[i].Time < state.Events[j].Time })
	return nil
}

// Build finalizes the definition. The returned Definition must not be
// mutated by the caller; doing so would violate the immutability every
// Instance sharing it relies on.
func (b *DefinitionBuilder) Build() *Definition {
	def := b.def
	return &def
}
