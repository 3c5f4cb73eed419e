// Package asset decodes a data-driven YAML description of an animation
// graph into animgraph builder calls, as a declarative alternative to
// assembling a Definition by hand in Go.
package asset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oxy-go/animgraph/common"
	"github.com/oxy-go/animgraph/engine/animgraph"
)

// Document is the top-level YAML shape of a graph definition asset.
type Document struct {
	Params []ParamAsset `yaml:"params"`
	Layers []LayerAsset `yaml:"layers"`
}

// ParamAsset describes one parameter slot.
type ParamAsset struct {
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"` // "float" or "bool"
	DefaultFloat float32 `yaml:"default_float"`
	DefaultBool  bool    `yaml:"default_bool"`
}

// LayerAsset describes one layer. MaskJoint and MaskExcludes are decoded but
// not applied: Load and Decode build every layer without a bone mask.
type LayerAsset struct {
	BlendMode    string           `yaml:"blend_mode"` // "override" or "additive"
	Weight       float32          `yaml:"weight"`
	MaskJoint    *int             `yaml:"mask_joint,omitempty"`
	MaskExcludes bool             `yaml:"mask_excludes,omitempty"`
	DefaultState int              `yaml:"default_state"`
	States       []StateAsset     `yaml:"states"`
	Transitions  []TransitionAsset `yaml:"transitions"`
}

// StateAsset describes one state, selecting its shape by which of the
// Clip/Blend1D/Blend2D fields is set.
type StateAsset struct {
	Clip    *ClipStateAsset    `yaml:"clip,omitempty"`
	Blend1D *Blend1DAsset      `yaml:"blend1d,omitempty"`
	Blend2D *Blend2DAsset      `yaml:"blend2d,omitempty"`
	Events  []EventAsset       `yaml:"events,omitempty"`
}

type ClipStateAsset struct {
	ClipIndex int     `yaml:"clip_index"`
	Speed     float32 `yaml:"speed"`
	Loop      bool    `yaml:"loop"`
}

type Blend1DAsset struct {
	Param   string             `yaml:"param"`
	Entries []Blend1DEntryAsset `yaml:"entries"`
}

type Blend1DEntryAsset struct {
	Position  float32 `yaml:"position"`
	ClipIndex int     `yaml:"clip_index"`
}

type Blend2DAsset struct {
	ParamX  string              `yaml:"param_x"`
	ParamY  string              `yaml:"param_y"`
	Entries []Blend2DEntryAsset `yaml:"entries"`
}

type Blend2DEntryAsset struct {
	X, Y      float32
	ClipIndex int `yaml:"clip_index"`
}

type EventAsset struct {
	Time float32 `yaml:"time"`
	ID   int     `yaml:"id"`
	Name string  `yaml:"name"`
}

type TransitionAsset struct {
	Source      int               `yaml:"source"`
	Target      int               `yaml:"target"`
	Duration    float32           `yaml:"duration"`
	ExitTime    *float32          `yaml:"exit_time,omitempty"`
	Conditions  []ConditionAsset  `yaml:"conditions,omitempty"`
}

// ConditionAsset describes one AND-ed guard clause. Kind is one of
// "float_gt", "float_lt", "float_gte", "float_lte", "bool_true",
// "bool_false"; Param names the parameter it reads.
type ConditionAsset struct {
	Kind      string  `yaml:"kind"`
	Param     string  `yaml:"param"`
	Threshold float32 `yaml:"threshold"`
}

// Load reads and decodes a graph definition asset from path and builds a
// Definition from it, resolving parameter names to indices as it goes.
func Load(path string) (*animgraph.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode builds a Definition from raw YAML bytes.
func Decode(data []byte) (*animgraph.Definition, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("asset: decode: %w", err)
	}
	return build(&doc)
}

func build(doc *Document) (*animgraph.Definition, error) {
	b := animgraph.NewDefinitionBuilder(animgraph.WithCapacityHint(len(doc.Layers)))
	paramIndex := make(map[string]int, len(doc.Params))

	for _, p := range doc.Params {
		var idx int
		var err error
		switch p.Kind {
		case "bool":
			idx, err = b.AddParamBool(p.Name, p.DefaultBool)
		default:
			idx, err = b.AddParamFloat(p.Name, p.DefaultFloat)
		}
		if err != nil {
			return nil, fmt.Errorf("asset: param %q: %w", p.Name, err)
		}
		paramIndex[p.Name] = idx
	}

	for li, la := range doc.Layers {
		mode := animgraph.BlendOverride
		if la.BlendMode == "additive" {
			mode = animgraph.BlendAdditiveMode
		}
		// an omitted weight decodes to the zero value, which would
		// otherwise silently mute an override layer; treat it as
		// "unspecified" and default to full weight.
		weight := common.Coalesce(la.Weight, 1)
		layerIdx, err := b.AddLayer(mode, weight, nil)
		if err != nil {
			return nil, fmt.Errorf("asset: layer %d: %w", li, err)
		}

		for si, sa := range la.States {
			stateIdx, err := addState(b, layerIdx, sa, paramIndex)
			if err != nil {
				return nil, fmt.Errorf("asset: layer %d state %d: %w", li, si, err)
			}
			for _, ea := range sa.Events {
				if err := b.AddEvent(layerIdx, stateIdx, ea.Time, ea.ID, ea.Name); err != nil {
					return nil, fmt.Errorf("asset: layer %d state %d event: %w", li, si, err)
				}
			}
		}

		if err := b.SetDefaultState(layerIdx, la.DefaultState); err != nil {
			return nil, fmt.Errorf("asset: layer %d default state: %w", li, err)
		}

		for ti, ta := range la.Transitions {
			conds := make([]animgraph.Condition, 0, len(ta.Conditions))
			for _, ca := range ta.Conditions {
				cond, err := resolveCondition(ca, paramIndex)
				if err != nil {
					return nil, fmt.Errorf("asset: layer %d transition %d: %w", li, ti, err)
				}
				conds = append(conds, cond)
			}
			hasExit := ta.ExitTime != nil
			exit := float32(0)
			if hasExit {
				exit = *ta.ExitTime
			}
			if _, err := b.AddTransition(layerIdx, ta.Source, ta.Target, ta.Duration, hasExit, exit, conds); err != nil {
				return nil, fmt.Errorf("asset: layer %d transition %d: %w", li, ti, err)
			}
		}
	}

	return b.Build(), nil
}

func addState(b *animgraph.DefinitionBuilder, layerIdx int, sa StateAsset, paramIndex map[string]int) (int, error) {
	switch {
	case sa.Clip != nil:
		// an omitted speed decodes to 0, which would freeze the clip
		// entirely; treat it as "unspecified" and default to normal speed.
		speed := common.Coalesce(sa.Clip.Speed, 1)
		return b.AddClipState(layerIdx, sa.Clip.ClipIndex, speed, sa.Clip.Loop)
	case sa.Blend1D != nil:
		entries := make([]animgraph.BlendSpace1DEntry, len(sa.Blend1D.Entries))
		for i, e := range sa.Blend1D.Entries {
			entries[i] = animgraph.BlendSpace1DEntry{Position: e.Position, ClipIndex: e.ClipIndex}
		}
		paramIdx, ok := paramIndex[sa.Blend1D.Param]
		if !ok {
			return animgraph.NoIndex, fmt.Errorf("unknown param %q", sa.Blend1D.Param)
		}
		return b.AddBlend1DState(layerIdx, paramIdx, entries)
	case sa.Blend2D != nil:
		entries := make([]animgraph.BlendSpace2DEntry, len(sa.Blend2D.Entries))
		for i, e := range sa.Blend2D.Entries {
			entries[i] = animgraph.BlendSpace2DEntry{X: e.X, Y: e.Y, ClipIndex: e.ClipIndex}
		}
		paramX, ok := paramIndex[sa.Blend2D.ParamX]
		if !ok {
			return animgraph.NoIndex, fmt.Errorf("unknown param %q", sa.Blend2D.ParamX)
		}
		paramY, ok := paramIndex[sa.Blend2D.ParamY]
		if !ok {
			return animgraph.NoIndex, fmt.Errorf("unknown param %q", sa.Blend2D.ParamY)
		}
		return b.AddBlend2DState(layerIdx, paramX, paramY, entries)
	default:
		return animgraph.NoIndex, fmt.Errorf("state has no clip, blend1d, or blend2d shape")
	}
}

func resolveCondition(ca ConditionAsset, paramIndex map[string]int) (animgraph.Condition, error) {
	idx, ok := paramIndex[ca.Param]
	if !ok && ca.Kind != "" {
		return animgraph.Condition{}, fmt.Errorf("unknown param %q", ca.Param)
	}
	var kind animgraph.ConditionKind
	switch ca.Kind {
	case "float_gt":
		kind = animgraph.ConditionFloatGreater
	case "float_lt":
		kind = animgraph.ConditionFloatLess
	case "float_gte":
		kind = animgraph.ConditionFloatGreaterEqual
	case "float_lte":
		kind = animgraph.ConditionFloatLessEqual
	case "bool_true":
		kind = animgraph.ConditionBoolTrue
	case "bool_false":
		kind = animgraph.ConditionBoolFalse
	default:
		return animgraph.Condition{}, fmt.Errorf("unknown condition kind %q", ca.Kind)
	}
	return animgraph.Condition{Kind: kind, ParamIndex: idx, Threshold: ca.Threshold}, nil
}
