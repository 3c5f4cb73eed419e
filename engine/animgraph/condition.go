package animgraph

// ConditionKind selects which comparison a Condition performs. The variant
// count is closed — four float comparisons, two bool checks, and one
// opaque callback — so Condition is a tagged union (a kind tag plus the
// union of possible payloads) rather than an interface hierarchy: every
// concrete shape is known up front and none of them grow independently.
type ConditionKind int

const (
	ConditionFloatGreater ConditionKind = iota
	ConditionFloatLess
	ConditionFloatGreaterEqual
	ConditionFloatLessEqual
	ConditionBoolTrue
	ConditionBoolFalse
	ConditionCallback
)

// Condition is one clause of a transition's AND-ed guard.
type Condition struct {
	Kind ConditionKind

	// ParamIndex is used by every kind except ConditionCallback.
	ParamIndex int

	// Threshold is the comparison value for the four float kinds.
	Threshold float32

	// Callback, when Kind is ConditionCallback, is evaluated with the
	// instance's current parameter values and must not mutate them.
	Callback func(params ParamReader) bool
}

// ParamReader exposes read-only access to an instance's runtime parameter
// values, for condition callbacks and other inspection code that must not
// be able to mutate state mid-evaluation.
type ParamReader interface {
	Float(idx int) float32
	Bool(idx int) bool
	FloatByName(name string) float32
	BoolByName(name string) bool
}

// evaluate reports whether c holds given the current parameter values.
func (c Condition) evaluate(params ParamReader) bool {
	switch c.Kind {
	case ConditionFloatGreater:
		return params.Float(c.ParamIndex) > c.Threshold
	case ConditionFloatLess:
		return params.Float(c.ParamIndex) < c.Threshold
	case ConditionFloatGreaterEqual:
		return params.Float(c.ParamIndex) >= c.Threshold
	case ConditionFloatLessEqual:
		return params.Float(c.ParamIndex) <= c.Threshold
	case ConditionBoolTrue:
		return params.Bool(c.ParamIndex)
	case ConditionBoolFalse:
		return !params.Bool(c.ParamIndex)
	case ConditionCallback:
		return c.Callback != nil && c.Callback(params)
	default:
		return false
	}
}

// conditionsHold reports whether every condition in conds evaluates true.
// A transition with zero conditions never fires — this is deliberate (see
// DESIGN.md Open Questions) and is why this returns false, not true, for an
// empty slice.
func conditionsHold(conds []Condition, params ParamReader) bool {
	if len(conds) == 0 {
		return false
	}
	for _, c := range conds {
		if !c.evaluate(params) {
			return false
		}
	}
	return true
}
