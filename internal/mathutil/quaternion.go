package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat is a unit rotation quaternion backed by mgl64.
type Quat mgl64.Quat

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat(mgl64.QuatIdent())
}

// FindBetweenNormals returns the shortest rotation taking a onto b.
// Degenerate input yields the identity.
func FindBetweenNormals(a, b Vec3) Quat {
	if a.NearlyZero(SmallNumber) || b.NearlyZero(SmallNumber) {
		return QuatIdentity()
	}
	a, b = a.Normalize(), b.Normalize()
	w := 1 + a.Dot(b)
	var v Vec3
	if w < antiparallel {
		// Any axis perpendicular to a gives the half turn.
		w = 0
		if math.Abs(a[0]) > math.Abs(a[2]) {
			v = Vec3{-a[1], a[0], 0}
		} else {
			v = Vec3{0, -a[2], a[1]}
		}
	} else {
		v = a.Cross(b)
	}
	return Quat(mgl64.Quat{W: w, V: mgl64.Vec3(v)}.Normalize())
}

// antiparallel is the 1+cos threshold below which two normals count as opposite.
const antiparallel = 1e-6

// OrientUp returns the rotation mapping UpAxis onto dir.
func OrientUp(dir Vec3) Quat {
	return FindBetweenNormals(UpAxis, dir)
}

// AxisAngle builds a rotation of angle radians about axis.
func AxisAngle(axis Vec3, angle float64) Quat {
	return Quat(mgl64.QuatRotate(angle, mgl64.Vec3(axis.Normalize())))
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return Vec3(mgl64.Quat(q).Rotate(mgl64.Vec3(v)))
}

// Dot is the 4D dot product.
func (q Quat) Dot(o Quat) float64 {
	return mgl64.Quat(q).Dot(mgl64.Quat(o))
}

// Slerp interpolates along the shorter arc between a and b.
func Slerp(a, b Quat, t float64) Quat {
	qa, qb := mgl64.Quat(a), mgl64.Quat(b)
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	return Quat(mgl64.QuatSlerp(qa, qb, t))
}

// AngleBetween returns the angle in radians between two unit directions.
func AngleBetween(a, b Vec3) float64 {
	return math.Acos(Clamp(a.Dot(b), -1, 1))
}
