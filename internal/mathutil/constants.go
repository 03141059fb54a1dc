package mathutil

import "math"

const (
	// SmallNumber guards normalization.
	SmallNumber = 1e-8

	// KindaSmall guards knot spacing and divisions by distances.
	KindaSmall = 1e-4
)

var (
	// UpAxis is the canonical tube axis; cross-sections lie in the XY plane.
	UpAxis = Vec3{0, 0, 1}

	// ForwardAxis is used for cap tangents.
	ForwardAxis = Vec3{1, 0, 0}

	// ModelFlip converts Z-up model space to Y-up view space: Rx(-90°)
	ModelFlip = RotX(math.Pi / -2)
)
