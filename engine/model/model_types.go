package model

// --- Transform & Skeleton Types ---

// Transform represents a decomposed transform for animation interpolation.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// Bone represents a single bone in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for debugging and animation targeting).
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	ParentIndex int32

	// InverseBindMatrix transforms from model space to bone space at bind pose.
	// This is the inverse of the bone's world transform when the mesh was bound.
	InverseBindMatrix [16]float32

	// LocalTransform is the bone's rest transform relative to its parent.
	// The animation graph reads it as the rest pose and never modifies it.
	LocalTransform Transform
}

// Skeleton represents a bone hierarchy for skeletal animation.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton.
	Bones []Bone

	// RootBoneIndices are indices of bones with no parent.
	RootBoneIndices []int32

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32

	// RootTransform is applied above every root bone's local transform.
	// The glTF loader sets it to identity; transforms of nodes above the
	// joint hierarchy are not accumulated into it.
	RootTransform [16]float32
}

// --- Animation Types ---

// AnimationClip represents a single animation (walk, run, attack, etc.).
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// TicksPerSecond is the sample rate of the animation.
	TicksPerSecond float32

	// Channels contains animation data for each animated bone.
	Channels []AnimationChannel
}

// Interpolation selects how a channel's keyframes are sampled between
// timestamps. Values match the glTF sampler interpolation modes this engine
// imports from.
type Interpolation int

const (
	// InterpolationLinear is the default: component-wise lerp for
	// translation/scale, shortest-path slerp for rotation.
	InterpolationLinear Interpolation = iota
	// InterpolationStep holds the lower bracketing keyframe's value for the
	// entire interval.
	InterpolationStep
	// InterpolationCubicSpline stores three values per keyframe
	// (in-tangent, value, out-tangent) and is evaluated with a Hermite
	// basis.
	InterpolationCubicSpline
)

// AnimationChannel contains keyframe data for a single bone. The glTF
// loader merges every glTF channel that targets the same bone into one
// AnimationChannel, so PositionKeys, RotationKeys, and ScaleKeys may all be
// populated, and the sampler applies each non-empty array.
type AnimationChannel struct {
	// BoneIndex is the index of the bone this channel animates.
	BoneIndex int32

	// Interpolation selects the sampling mode for every keyframe array
	// below.
	Interpolation Interpolation

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation (quaternion).
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time. InTangent and
// OutTangent are only populated (and only meaningful) when the owning
// channel's Interpolation is InterpolationCubicSpline.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value [3]float32

	// InTangent is the incoming Hermite tangent for cubic-spline channels.
	InTangent [3]float32

	// OutTangent is the outgoing Hermite tangent for cubic-spline channels.
	OutTangent [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
// InTangent and OutTangent are only populated (and only meaningful) when
// the owning channel's Interpolation is InterpolationCubicSpline.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32

	// InTangent is the incoming Hermite tangent for cubic-spline channels.
	InTangent [4]float32

	// OutTangent is the outgoing Hermite tangent for cubic-spline channels.
	OutTangent [4]float32
}

// --- Import Types ---

// ImportedModel represents the animation-relevant contents of a 3D model
// loaded from an external format: its skeleton and animation clips. Mesh
// geometry and materials are a renderer concern and are not extracted by
// this engine (see DESIGN.md).
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Skeleton is the bone hierarchy (nil for unskinned models).
	Skeleton *Skeleton

	// Animations are all animation clips bundled with the model.
	Animations []*AnimationClip
}
