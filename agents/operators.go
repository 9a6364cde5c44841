package agents

import "math"

// BinaryOperator computes a result from a left and a right operand.
type BinaryOperator func(x, y float64) float64

// UnaryOperator computes a result from a single operand.
type UnaryOperator func(x float64) float64

var (
	Add BinaryOperator = func(x, y float64) float64 { return x + y }
	Sub BinaryOperator = func(x, y float64) float64 { return x - y }
	Mul BinaryOperator = func(x, y float64) float64 { return x * y }
	// Div follows IEEE 754: dividing by zero yields an infinity or NaN.
	Div BinaryOperator = func(x, y float64) float64 { return x / y }
	Pow BinaryOperator = math.Pow
	Max BinaryOperator = math.Max
	Min BinaryOperator = math.Min
)

var (
	Inc  UnaryOperator = func(x float64) float64 { return x + 1 }
	Dec  UnaryOperator = func(x float64) float64 { return x - 1 }
	Neg  UnaryOperator = func(x float64) float64 { return -x }
	Abs  UnaryOperator = math.Abs
	Sqrt UnaryOperator = math.Sqrt
)
