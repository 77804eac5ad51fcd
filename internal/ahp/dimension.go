package ahp

// Dimension is one of the eight effectiveness criteria a test batch is judged on.
type Dimension string

const (
	Reliability    Dimension = "RL"
	Security       Dimension = "SC"
	AntiJamming    Dimension = "AJ"
	Effectiveness  Dimension = "EF"
	Processing     Dimension = "PO"
	Networking     Dimension = "NC"
	HumanOperation Dimension = "HO"
	Response       Dimension = "RS"
)

// dimensionOrder is the row/column order of every matrix and weight vector.
var dimensionOrder = [...]Dimension{
	Reliability, Security, AntiJamming, Effectiveness,
	Processing, Networking, HumanOperation, Response,
}

// DimensionCount is the number of fixed dimensions.
const DimensionCount = len(dimensionOrder)

// Dimensions returns the fixed dimension order.
func Dimensions() []Dimension {
	out := make([]Dimension, DimensionCount)
	copy(out, dimensionOrder[:])
	return out
}

// Codes returns the dimension codes as strings, in order.
func Codes() []string {
	out := make([]string, DimensionCount)
	for i, d := range dimensionOrder {
		out[i] = string(d)
	}
	return out
}

// Index returns the position of d in the fixed order, or -1.
func (d Dimension) Index() int {
	for i, v := range dimensionOrder {
		if v == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the eight known codes.
func (d Dimension) Valid() bool { return d.Index() >= 0 }
