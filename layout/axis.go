package layout

// AxisID selects one of the three independently solved axes
type AxisID uint8

const (
	X AxisID = iota
	Y
	Z
)

func (id AxisID) String() string {
	switch id {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return "axis?"
	}
}

// Edit is a stage variable whose value is suggested from the viewport
// every frame
type Edit struct {
	Var   Var
	Value func(Viewport) float64
}

// Axis is what differs between the X, Y and Z engines. The engine
// algorithm itself is shared.
type Axis struct {
	ID    AxisID
	Root  Constraints
	Edits []Edit
	// Write stores a solved value into b. It reports false for
	// attributes the Box does not hold, such as Right.
	Write func(b *Box, a Attr, v float64) bool
}

var (
	AxisX = Axis{
		ID: X,
		Root: Constraints{
			Stage(Left).Expr().EqConst(0),
			Span(Stage(Left), Stage(Width), Stage(Right)),
		},
		Edits: []Edit{{
			Var:   Stage(Width),
			Value: func(vp Viewport) float64 { return float64(vp.Width) },
		}},
		Write: func(b *Box, a Attr, v float64) bool {
			switch a {
			case Left:
				b.X = toInt32(v)
			case Width:
				b.Width = toUint32(v)
			default:
				return false
			}
			return true
		},
	}

	AxisY = Axis{
		ID: Y,
		Root: Constraints{
			Stage(Top).Expr().EqConst(0),
			Span(Stage(Top), Stage(Height), Stage(Bottom)),
		},
		Edits: []Edit{{
			Var:   Stage(Height),
			Value: func(vp Viewport) float64 { return float64(vp.Height) },
		}},
		Write: func(b *Box, a Attr, v float64) bool {
			switch a {
			case Top:
				b.Y = toInt32(v)
			case Height:
				b.Height = toUint32(v)
			default:
				return false
			}
			return true
		},
	}

	AxisZ = Axis{
		ID:   Z,
		Root: Constraints{Stage(ZIndex).Expr().EqConst(0)},
		Write: func(b *Box, a Attr, v float64) bool {
			if a != ZIndex {
				return false
			}
			b.Z = toInt32(v)
			return true
		},
	}
)

// Axes returns the three axis policies in solving order
func Axes() []Axis {
	return []Axis{AxisX, AxisY, AxisZ}
}
