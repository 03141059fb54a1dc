package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
// Z is up.
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) LenSq() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize returns the unit vector, or the zero vector when v is shorter than SmallNumber.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < SmallNumber {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// SafeNormal is Normalize with a fallback for degenerate input.
func (v Vec3) SafeNormal(fallback Vec3) Vec3 {
	n := v.Normalize()
	if n.IsZero() {
		return fallback
	}
	return n
}

// IsZero reports whether every component is within SmallNumber of zero.
func (v Vec3) IsZero() bool {
	return math.Abs(v[0]) < SmallNumber && math.Abs(v[1]) < SmallNumber && math.Abs(v[2]) < SmallNumber
}

// NearlyZero reports whether the vector length is below tol.
func (v Vec3) NearlyZero(tol float64) bool {
	return v.LenSq() < tol*tol
}

func (a Vec3) Dist(b Vec3) float64 {
	return a.Sub(b).Len()
}

func (a Vec3) DistSq(b Vec3) float64 {
	return a.Sub(b).LenSq()
}

// Lerp returns a + (b-a)*t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// Lerp interpolates scalars.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi].
func Clamp[T int | float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
