package vecmath

import "math"

// Float is the set of element types a vector may have.
type Float interface {
	~float32 | ~float64
}

// Dot calculates the dot product of two vectors.
//
// SAFETY: assumes len(a) == len(b).
func Dot[T Float](a, b []T) T {
	var ret T
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

// SquaredL2 calculates the squared L2 distance.
//
// SAFETY: assumes len(a) == len(b).
func SquaredL2[T Float](a, b []T) T {
	var distance T
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}
	return distance
}

// AddInPlace adds b to a elementwise.
func AddInPlace[T Float](a, b []T) {
	for i := range a {
		a[i] += b[i]
	}
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace[T Float](a []T, scalar T) {
	for i := range a {
		a[i] *= scalar
	}
}

// Zero sets all elements of a to zero.
func Zero[T Float](a []T) {
	clear(a)
}

// Sqrt returns the square root of v computed in float64.
func Sqrt[T Float](v T) T {
	return T(math.Sqrt(float64(v)))
}

// HasNaN reports whether any element of a is NaN.
func HasNaN[T Float](a []T) bool {
	for _, v := range a {
		if v != v {
			return true
		}
	}
	return false
}

// Convert copies src into a newly allocated slice of another element type.
func Convert[D, S Float](src []S) []D {
	dst := make([]D, len(src))
	for i, v := range src {
		dst[i] = D(v)
	}
	return dst
}
