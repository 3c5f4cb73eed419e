// Package animgraph implements a data-driven, hierarchical pose-blending
// runtime for skeletal animation. A Definition describes a fixed-shape graph
// of layers, states, and transitions; any number of Instances evaluate that
// shared, immutable definition against their own runtime parameters and
// timers to produce per-frame joint-skinning matrices.
package animgraph

// Fixed capacities mirrored from the reference graph layout. Builder methods
// that would exceed these return NoIndex rather than growing unbounded
// storage — the graph shape is meant to be authored once and never resized
// at runtime.
const (
	MaxJoints                  = 128
	MaxParams                  = 16
	MaxLayers                  = 4
	MaxStatesPerLayer          = 16
	MaxTransitionsPerLayer     = 32
	MaxConditionsPerTransition = 4
	MaxBlend1DEntries          = 8
	MaxBlend2DEntries          = 16

	// NoIndex is returned by builder Add* methods on capacity overflow or
	// invalid input, and used as the "not found" sentinel for index lookups
	// (e.g. a parameter name that does not exist).
	NoIndex = -1

	// maskWeightEpsilon is the cutoff below which a joint is treated as
	// fully masked out: below it, blend_masked copies the base pose
	// verbatim instead of slerping, which both saves work and avoids NaN
	// from near-degenerate slerps.
	maskWeightEpsilon = 1e-6

	// degenerateTriangleEpsilon bounds the barycentric determinant below
	// which a 2-D blend triangle is treated as degenerate.
	degenerateTriangleEpsilon = 1e-6

	// defaultDuration is substituted for any non-positive effective
	// duration to avoid division by zero when normalizing time.
	defaultDuration = 1.0
)
