package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/paths"
)

func straightPath(length float64, samples int, width float64) paths.Path {
	var p paths.Path
	for i := 0; i < samples; i++ {
		d := length * float64(i) / float64(samples-1)
		p.Points = append(p.Points, mathutil.Vec3{0, 0, d})
		p.Widths = append(p.Widths, width)
		p.Distances = append(p.Distances, d)
	}
	p.Total = length
	return p
}

func TestBuildModes(t *testing.T) {
	ps := []paths.Path{straightPath(100, 21, 2)}

	none := Build(None, ps, DefaultOptions())
	assert.False(t, none.Enabled)
	assert.Empty(t, none.Hulls)

	complex := Build(ComplexAsSimple, ps, DefaultOptions())
	assert.True(t, complex.Enabled)
	assert.True(t, complex.UseComplexAsSimple)
	assert.Empty(t, complex.Hulls)

	capsules := Build(SimpleCapsules, ps, DefaultOptions())
	assert.True(t, capsules.Enabled)
	assert.False(t, capsules.UseComplexAsSimple)
	assert.NotEmpty(t, capsules.Hulls)
}

func TestCapsulesSpacing(t *testing.T) {
	p := straightPath(100, 21, 2)
	hulls := Capsules(&p, DefaultOptions())
	// 100 units at ~30 per hull -> step 25, five-unit samples.
	require.Len(t, hulls, 4)
	for _, h := range hulls {
		require.Len(t, h.Points, 2*HullSides)
		for _, pt := range h.Points {
			assert.InDelta(t, 2, mathutil.Vec3{pt[0], pt[1], 0}.Len(), 1e-9)
		}
	}
	assert.InDelta(t, 0, hulls[0].Points[0][2], 1e-9)
	assert.InDelta(t, 100, hulls[3].Points[HullSides][2], 1e-9)
}

func TestCapsulesUseLargerWidth(t *testing.T) {
	p := straightPath(10, 2, 1)
	p.Widths[1] = 3
	hulls := Capsules(&p, DefaultOptions())
	require.Len(t, hulls, 1)
	assert.InDelta(t, 3, hulls[0].Points[0].Len(), 1e-9)
}

func TestCapsulesShortPath(t *testing.T) {
	p := straightPath(1, 2, 1)
	assert.Len(t, Capsules(&p, DefaultOptions()), 1)

	var empty paths.Path
	assert.Nil(t, Capsules(&empty, DefaultOptions()))
}

func TestModeText(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("capsules")))
	assert.Equal(t, SimpleCapsules, m)
	assert.Error(t, m.UnmarshalText([]byte("sphere")))
}
