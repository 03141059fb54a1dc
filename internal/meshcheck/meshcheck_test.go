package meshcheck

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
)

func twoCylinders() *mesh.Buffers {
	var cs mesh.CrossSection
	pts := cs.Points(6)
	b := mesh.NewBuilder(mesh.StripSize(2, 6).Times(2))
	b.Strip(pts, 6, []mesh.Ring{
		{Orientation: mathutil.QuatIdentity(), Width: 1, V: 0},
		{Center: mathutil.Vec3{0, 0, 10}, Orientation: mathutil.QuatIdentity(), Width: 1, V: 10},
	})
	b.Strip(pts, 6, []mesh.Ring{
		{Center: mathutil.Vec3{5, 0, 0}, Orientation: mathutil.QuatIdentity(), Width: 1},
		{Center: mathutil.Vec3{5, 0, 4}, Orientation: mathutil.QuatIdentity(), Width: 1},
	})
	return b.Finish()
}

func TestValidateClean(t *testing.T) {
	assert.NoError(t, Validate(twoCylinders()))
}

func TestValidateCatchesProblems(t *testing.T) {
	buf := twoCylinders()
	buf.Indices[4] = uint32(len(buf.Positions))
	buf.Positions[2][1] = math.NaN()
	buf.UVs = buf.UVs[:1]

	err := Validate(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	assert.Contains(t, err.Error(), "not finite")
	assert.Contains(t, err.Error(), "lengths differ")
}

func TestComponents(t *testing.T) {
	comps := Components(twoCylinders())
	require.Len(t, comps, 2)
	assert.Len(t, comps[0], mesh.StripSize(2, 6).Vertices)
	assert.Len(t, comps[1], mesh.StripSize(2, 6).Vertices)
}

func TestInspect(t *testing.T) {
	r := Inspect(twoCylinders())
	require.NoError(t, r.Err)
	assert.Equal(t, 2, r.Components)
	assert.Equal(t, 2*6*2, r.Triangles)
	assert.Zero(t, r.Degenerate)

	empty := Inspect(&mesh.Buffers{})
	assert.Zero(t, empty.Components)
	assert.NoError(t, empty.Err)
}
