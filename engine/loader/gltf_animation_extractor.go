package loader

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/oxy-go/animgraph/engine/model"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	doc *gltf.Document
}

// gltfAnimationExtractor converts glTF animation definitions into
// engine-ready AnimationClips, grouping channels by the bone they target.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index, remapping
	// channel targets through boneMapping (the old-to-new bone index
	// mapping produced by ExtractSkeleton).
	ExtractAnimation(animIndex int, boneMapping map[int]int32) (*model.AnimationClip, error)

	// ExtractAnimationsForSkeleton extracts every animation in the
	// document whose sampled node set intersects the given skeleton's
	// joint nodes.
	ExtractAnimationsForSkeleton(boneMapping map[int]int32) ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates an animation extractor over doc.
func newGLTFAnimationExtractor(doc *gltf.Document) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{doc: doc}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimationsForSkeleton(boneMapping map[int]int32) ([]*model.AnimationClip, error) {
	var clips []*model.AnimationClip
	for i, anim := range e.doc.Animations {
		touchesSkeleton := false
		for _, ch := range anim.Channels {
			if ch.Target.Node != nil {
				if _, ok := boneMapping[int(*ch.Target.Node)]; ok {
					touchesSkeleton = true
					break
				}
			}
		}
		if !touchesSkeleton {
			continue
		}
		clip, err := e.ExtractAnimation(i, boneMapping)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, boneMapping map[int]int32) (*model.AnimationClip, error) {
	if animIndex < 0 || animIndex >= len(e.doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}
	anim := e.doc.Animations[animIndex]

	clip := &model.AnimationClip{
		Name:           anim.Name,
		TicksPerSecond: 1,
	}
	if clip.Name == "" {
		clip.Name = fmt.Sprintf("anim_%d", animIndex)
	}

	byBone := make(map[int32]*model.AnimationChannel)
	order := make([]int32, 0, len(anim.Channels))

	for _, ch := range anim.Channels {
		if ch.Target.Node == nil {
			continue
		}
		boneIdx, ok := boneMapping[int(*ch.Target.Node)]
		if !ok {
			continue
		}
		channel, exists := byBone[boneIdx]
		if !exists {
			channel = &model.AnimationChannel{BoneIndex: boneIdx}
			byBone[boneIdx] = channel
			order = append(order, boneIdx)
		}

		sampler := anim.Samplers[ch.Sampler]
		interp := gltfMapInterpolation(sampler.Interpolation)
		channel.Interpolation = interp

		times, err := e.readScalarAccessor(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("bone %d: read keyframe times: %w", boneIdx, err)
		}
		for _, t := range times {
			if t > clip.Duration {
				clip.Duration = t
			}
		}

		switch ch.Target.Path {
		case gltf.TRSTranslation:
			keys, err := e.readVectorKeyframes(times, sampler.Output, interp)
			if err != nil {
				return nil, fmt.Errorf("bone %d: translation keys: %w", boneIdx, err)
			}
			channel.PositionKeys = keys
		case gltf.TRSScale:
			keys, err := e.readVectorKeyframes(times, sampler.Output, interp)
			if err != nil {
				return nil, fmt.Errorf("bone %d: scale keys: %w", boneIdx, err)
			}
			channel.ScaleKeys = keys
		case gltf.TRSRotation:
			keys, err := e.readQuaternionKeyframes(times, sampler.Output, interp)
			if err != nil {
				return nil, fmt.Errorf("bone %d: rotation keys: %w", boneIdx, err)
			}
			channel.RotationKeys = keys
		}
	}

	clip.Channels = make([]model.AnimationChannel, 0, len(order))
	for _, boneIdx := range order {
		clip.Channels = append(clip.Channels, *byBone[boneIdx])
	}
	return clip, nil
}

func (e *gltfAnimationExtractorImpl) readScalarAccessor(accIndex uint32) ([]float32, error) {
	acc := e.doc.Accessors[accIndex]
	out, err := modeler.ReadAccessor(e.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	vals, ok := out.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected scalar accessor shape %T", out)
	}
	return vals, nil
}

func (e *gltfAnimationExtractorImpl) readVec3Accessor(accIndex uint32) ([][3]float32, error) {
	acc := e.doc.Accessors[accIndex]
	out, err := modeler.ReadAccessor(e.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	vals, ok := out.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected vec3 accessor shape %T", out)
	}
	return vals, nil
}

func (e *gltfAnimationExtractorImpl) readVec4Accessor(accIndex uint32) ([][4]float32, error) {
	acc := e.doc.Accessors[accIndex]
	out, err := modeler.ReadAccessor(e.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	vals, ok := out.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected vec4 accessor shape %T", out)
	}
	return vals, nil
}

// readVectorKeyframes reads a VEC3 output accessor into VectorKeyframes. For
// CubicSpline channels glTF packs [in-tangent, value, out-tangent] triples
// per keyframe; for Step/Linear it's one value per keyframe.
func (e *gltfAnimationExtractorImpl) readVectorKeyframes(times []float32, accIndex uint32, interp model.Interpolation) ([]model.VectorKeyframe, error) {
	raw, err := e.readVec3Accessor(accIndex)
	if err != nil {
		return nil, err
	}

	keys := make([]model.VectorKeyframe, len(times))
	if interp == model.InterpolationCubicSpline {
		if len(raw) != len(times)*3 {
			return nil, fmt.Errorf("cubic spline vec3 accessor: expected %d entries, got %d", len(times)*3, len(raw))
		}
		for i, t := range times {
			keys[i] = model.VectorKeyframe{
				Time:       t,
				InTangent:  raw[i*3],
				Value:      raw[i*3+1],
				OutTangent: raw[i*3+2],
			}
		}
		return keys, nil
	}

	if len(raw) != len(times) {
		return nil, fmt.Errorf("vec3 accessor: expected %d entries, got %d", len(times), len(raw))
	}
	for i, t := range times {
		keys[i] = model.VectorKeyframe{Time: t, Value: raw[i]}
	}
	return keys, nil
}

func (e *gltfAnimationExtractorImpl) readQuaternionKeyframes(times []float32, accIndex uint32, interp model.Interpolation) ([]model.QuaternionKeyframe, error) {
	raw, err := e.readVec4Accessor(accIndex)
	if err != nil {
		return nil, err
	}

	keys := make([]model.QuaternionKeyframe, len(times))
	if interp == model.InterpolationCubicSpline {
		if len(raw) != len(times)*3 {
			return nil, fmt.Errorf("cubic spline vec4 accessor: expected %d entries, got %d", len(times)*3, len(raw))
		}
		for i, t := range times {
			keys[i] = model.QuaternionKeyframe{
				Time:       t,
				InTangent:  raw[i*3],
				Value:      raw[i*3+1],
				OutTangent: raw[i*3+2],
			}
		}
		return keys, nil
	}

	if len(raw) != len(times) {
		return nil, fmt.Errorf("vec4 accessor: expected %d entries, got %d", len(times), len(raw))
	}
	for i, t := range times {
		keys[i] = model.QuaternionKeyframe{Time: t, Value: raw[i]}
	}
	return keys, nil
}

func gltfMapInterpolation(interp gltf.Interpolation) model.Interpolation {
	switch interp {
	case gltf.InterpolationStep:
		return model.InterpolationStep
	case gltf.InterpolationCubicSpline:
		return model.InterpolationCubicSpline
	default:
		return model.InterpolationLinear
	}
}
