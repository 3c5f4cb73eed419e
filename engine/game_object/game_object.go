// Package game_object wraps an animation graph instance with the
// placement and bookkeeping a scene needs around it: an identity, an
// enabled flag, and a world transform the graph itself has no concept of.
package game_object

import (
	"sync/atomic"

	"github.com/oxy-go/animgraph/engine/animgraph"
)

type gameObject struct {
	id        uint64
	enabled   atomic.Bool
	ephemeral bool
	graph     *animgraph.Instance

	position      [3]float32
	scale         [3]float32
	rotation      [3]float32
	rotationSpeed [3]float32
}

// GameObject is a scene entity bound to an animgraph.Instance. Unlike the
// renderer-coupled version this replaces, position/rotation/scale live on
// the object itself — the graph only owns joint-local pose evaluation, not
// object placement — and JointMatrices exposes the graph's latest output
// directly for a caller to upload.
type GameObject interface {
	// ID returns the object's unique identifier.
	ID() uint64

	// Enabled returns whether this object is enabled for simulation.
	Enabled() bool

	// Ephemeral returns whether this object is ephemeral.
	// No code in this module reads the flag.
	Ephemeral() bool

	// Graph returns the animation graph instance driving this object, or
	// nil if none is set.
	Graph() *animgraph.Instance

	// JointMatrices returns the graph's most recently computed
	// skinning matrices, or nil if no graph is set.
	JointMatrices() [][16]float32

	// Position returns the object's world position.
	Position() (x, y, z float32)

	// Rotation returns the object's world rotation, in radians per axis.
	Rotation() (rx, ry, rz float32)

	// RotationSpeed returns the object's angular velocity, in radians per
	// second per axis.
	RotationSpeed() (rx, ry, rz float32)

	// Scale returns the object's world scale.
	Scale() (sx, sy, sz float32)

	// TransformData reads the object's full transform in one call.
	TransformData() (pos, scale, rot, rotSpeed [3]float32)

	// SetID sets the object's unique identifier.
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for simulation.
	SetEnabled(enabled bool)

	// SetGraph assigns the animation graph instance driving this object.
	SetGraph(inst *animgraph.Instance)

	// SetPosition updates the object's world position.
	SetPosition(x, y, z float32)

	// SetRotation updates the object's world rotation.
	SetRotation(rx, ry, rz float32)

	// SetRotationSpeed updates the object's angular velocity.
	SetRotationSpeed(rx, ry, rz float32)

	// SetScale updates the object's world scale.
	SetScale(sx, sy, sz float32)

	// Update advances rx/ry/rz by rotationSpeed*dt and steps Graph (if set)
	// by dt, using scratch for the graph's per-frame pose buffers.
	Update(dt float32, scratch *animgraph.Scratch)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Ephemeral() bool {
	return g.ephemeral
}

func (g *gameObject) Graph() *animgraph.Instance {
	return g.graph
}

func (g *gameObject) JointMatrices() [][16]float32 {
	if g.graph == nil {
		return nil
	}
	return g.graph.JointMatrices
}

func (g *gameObject) Position() (x, y, z float32) {
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) RotationSpeed() (rx, ry, rz float32) {
	return g.rotationSpeed[0], g.rotationSpeed[1], g.rotationSpeed[2]
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) TransformData() (pos, scale, rot, rotSpeed [3]float32) {
	return g.position, g.scale, g.rotation, g.rotationSpeed
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetGraph(inst *animgraph.Instance) {
	g.graph = inst
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.position = [3]float32{x, y, z}
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.rotation = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.rotationSpeed = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.scale = [3]float32{sx, sy, sz}
}

func (g *gameObject) Update(dt float32, scratch *animgraph.Scratch) {
	g.rotation[0] += g.rotationSpeed[0] * dt
	g.rotation[1] += g.rotationSpeed[1] * dt
	g.rotation[2] += g.rotationSpeed[2] * dt
	if g.graph != nil {
		g.graph.Update(dt, scratch)
	}
}
