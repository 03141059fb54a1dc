package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], got[k], 1e-9, "component %d of %v", k, got)
	}
}

func TestFindBetweenNormalsMapsUpOntoDirection(t *testing.T) {
	dirs := []Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0, 0, -1},
		Vec3{1, 2, 3}.Normalize(),
		Vec3{-0.3, 0.1, -0.9}.Normalize(),
	}
	for _, d := range dirs {
		assertVec(t, d, OrientUp(d).Rotate(UpAxis))
	}
}

func TestFindBetweenNormalsNearlyOpposite(t *testing.T) {
	dirs := []Vec3{
		Vec3{0.03, 0, -1}.Normalize(),
		Vec3{0.04, 0.02, -1}.Normalize(),
		Vec3{0, -0.005, -1}.Normalize(),
	}
	for _, d := range dirs {
		assertVec(t, d, OrientUp(d).Rotate(UpAxis))
	}

	// The ring frame turns smoothly through the cone around -Z.
	x := Vec3{1, 0, 0}
	prev := OrientUp(Vec3{0.06, 0, -1}.Normalize()).Rotate(x)
	for s := 0.055; s > 0.0005; s -= 0.005 {
		curr := OrientUp(Vec3{s, 0, -1}.Normalize()).Rotate(x)
		assert.Less(t, AngleBetween(prev, curr), Deg2Rad(1), "slope %g", s)
		prev = curr
	}
}

func TestFindBetweenNormalsDegenerate(t *testing.T) {
	q := FindBetweenNormals(Vec3{}, UpAxis)
	assertVec(t, Vec3{1, 2, 3}, q.Rotate(Vec3{1, 2, 3}))
}

func TestSlerpEndpoints(t *testing.T) {
	a := OrientUp(Vec3{1, 0, 0})
	b := OrientUp(Vec3{0, 1, 0})
	assertVec(t, Vec3{1, 0, 0}, Slerp(a, b, 0).Rotate(UpAxis))
	assertVec(t, Vec3{0, 1, 0}, Slerp(a, b, 1).Rotate(UpAxis))

	mid := Slerp(a, b, 0.5).Rotate(UpAxis)
	assert.InDelta(t, 1.0, mid.Len(), 1e-9)
	assert.InDelta(t, mid[0], mid[1], 1e-9)
}

func TestSlerpTakesShortArc(t *testing.T) {
	a := OrientUp(Vec3{1, 0, 0})
	neg := Quat{W: -a.W, V: a.V.Mul(-1)}
	got := Slerp(a, neg, 0.5).Rotate(UpAxis)
	assertVec(t, Vec3{1, 0, 0}, got)
}

func TestRotateAngleAxis(t *testing.T) {
	got := RotateAngleAxis(Vec3{1, 0, 0}, 90, Vec3{0, 0, 1})
	assertVec(t, Vec3{0, 1, 0}, got)
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.Equal(t, UpAxis, Vec3{}.SafeNormal(UpAxis))
	assert.InDelta(t, math.Pi/2, AngleBetween(Vec3{1, 0, 0}, Vec3{0, 1, 0}), 1e-12)
}

func TestRotXMatchesAxisAngle(t *testing.T) {
	v := Vec3{0.3, -2, 5}
	assertVec(t, AxisAngle(Vec3{1, 0, 0}, 0.7).Rotate(v), RotX(0.7).MulVec3(v))
	assertVec(t, Vec3{0, 0, -1}, ModelFlip.MulVec3(Vec3{0, 1, 0}))
}
