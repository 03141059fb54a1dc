package skeleton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/randx"
)

var (
	testStart = mathutil.Vec3{0, 0, 0}
	testEnd   = mathutil.Vec3{0, 0, 300}
)

func TestSubdivideTrunkOnly(t *testing.T) {
	p := DefaultSubdivision()
	p.Iterations = 0

	tree := Subdivide(testStart, testEnd, 2.5, p, randx.New(1))
	segs := tree.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, testStart, segs[0].Start)
	assert.Equal(t, testEnd, segs[0].End)
	assert.Equal(t, 2.5, segs[0].Width)
	assert.Equal(t, 0, segs[0].Generation)
}

func TestSubdivideSingleNoFork(t *testing.T) {
	start := mathutil.Vec3{0, 0, 0}
	end := mathutil.Vec3{0, 100, 0}
	p := DefaultSubdivision()
	p.Iterations = 1
	p.ChanceOfFork = 0

	for seed := int64(0); seed < 20; seed++ {
		tree := Subdivide(start, end, 3, p, randx.New(seed))
		segs := tree.Segments()
		require.Len(t, segs, 2)

		assert.Equal(t, start, segs[0].Start)
		assert.Equal(t, end, segs[1].End)
		assert.Equal(t, segs[0].End, segs[1].Start)

		// The midpoint only moves along X or Z (cross of the Y axis with a basis vector).
		mid := segs[0].End
		center := start.Add(end).Scale(0.5)
		off := mid.Sub(center)
		assert.InDelta(t, 0, off[1], 1e-9)
		bound := p.StartOffset(start, end)
		assert.LessOrEqual(t, off.Len(), bound+1e-9)
		assert.True(t, math.Abs(off[0]) < 1e-9 || math.Abs(off[2]) < 1e-9)
	}
}

func TestSubdivideDeterministic(t *testing.T) {
	p := DefaultSubdivision()
	a := Subdivide(testStart, testEnd, 2.5, p, randx.New(1238)).Segments()
	b := Subdivide(testStart, testEnd, 2.5, p, randx.New(1238)).Segments()
	assert.Equal(t, a, b)

	c := Subdivide(testStart, testEnd, 2.5, p, randx.New(1239)).Segments()
	assert.NotEqual(t, a, c)
}

func TestSubdivideTreeInvariants(t *testing.T) {
	p := DefaultSubdivision()
	p.ChanceOfFork = 80
	tree := Subdivide(testStart, testEnd, 2.5, p, randx.New(42))
	require.NoError(t, tree.Validate())

	for i, n := range tree.Nodes {
		if n.Parent != NoParent {
			assert.Less(t, n.Parent, i, "pre-order numbering")
		}
	}
	forks, leaves := tree.Counts()
	assert.Positive(t, forks)
	assert.Equal(t, forks+1, leaves, "each fork adds exactly one leaf")
	assert.Len(t, tree.Segments(), tree.Len()-1)
}

func TestSubdivideForkWidths(t *testing.T) {
	p := DefaultSubdivision()
	p.ChanceOfFork = 100
	p.Iterations = 2
	tree := Subdivide(testStart, testEnd, 4, p, randx.New(3))
	for _, s := range tree.Segments() {
		want := 4 * math.Pow(p.ForkWidthReduction, float64(s.Generation))
		assert.InDelta(t, want, s.Width, 1e-12)
	}
}

func TestColonizeZeroAttractors(t *testing.T) {
	p := DefaultColonization()
	p.AttractorCount = 0
	tree := Colonize(testStart, testEnd, 2.5, p, randx.New(1))
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, -1, tree.Root())
	assert.Empty(t, tree.Segments())
	assert.NoError(t, tree.Validate())
}

func TestColonizeInvariants(t *testing.T) {
	for _, shape := range []CrownShape{CrownSphere, CrownHemisphere, CrownCone, CrownCylinder} {
		t.Run(shape.String(), func(t *testing.T) {
			p := DefaultColonization()
			p.CrownShape = shape
			p.AttractorCount = 200
			tree := Colonize(testStart, testEnd, 2.5, p, randx.New(1238))
			require.Greater(t, tree.Len(), 1)
			require.NoError(t, tree.Validate())

			for i, n := range tree.Nodes {
				for _, c := range n.Children {
					assert.Greater(t, c, i, "children are created after parents")
				}
			}
		})
	}
}

func TestPipeModelMonotonic(t *testing.T) {
	p := DefaultColonization()
	p.PipeModelExponent = 2
	tree := Colonize(testStart, testEnd, 2.5, p, randx.New(7))
	require.Greater(t, tree.Len(), 1)

	for i, n := range tree.Nodes {
		if n.IsLeaf {
			continue
		}
		for _, c := range n.Children {
			assert.GreaterOrEqual(t, n.Width+1e-12, tree.Nodes[c].Width, "node %d child %d", i, c)
		}
	}
}

func TestTrunkWidthEnforced(t *testing.T) {
	p := DefaultColonization()
	tree := Colonize(testStart, testEnd, 6, p, randx.New(11))
	end, steps := tree.TrunkEnd()
	require.GreaterOrEqual(t, end, 0)
	require.Positive(t, steps)

	assert.GreaterOrEqual(t, tree.Nodes[tree.Root()].Width, 6.0)
	blendStart := max(float64(steps)*0.75, float64(steps)-5)
	idx := tree.Root()
	for s := 0; idx != end; s++ {
		if float64(s) <= blendStart {
			assert.GreaterOrEqual(t, tree.Nodes[idx].Width, 6.0)
		}
		idx = tree.Nodes[idx].Children[0]
	}
}

func TestColonizeDeterministic(t *testing.T) {
	p := DefaultColonization()
	a := Colonize(testStart, testEnd, 2.5, p, randx.New(5))
	b := Colonize(testStart, testEnd, 2.5, p, randx.New(5))
	assert.Equal(t, a.Nodes, b.Nodes)
}

func TestSampleAttractorsInsideCrown(t *testing.T) {
	center := mathutil.Vec3{10, 0, 50}
	for _, shape := range []CrownShape{CrownSphere, CrownHemisphere, CrownCone, CrownCylinder} {
		pts := SampleAttractors(center, shape, 20, 300, randx.New(9))
		assert.NotEmpty(t, pts)
		assert.LessOrEqual(t, len(pts), 300)
		for _, pt := range pts {
			local := pt.Sub(center).Scale(1.0 / 20)
			assert.True(t, shape.Contains(local), "%s: %v", shape, local)
		}
	}
}

func TestCrownShapeText(t *testing.T) {
	var s CrownShape
	require.NoError(t, s.UnmarshalText([]byte("Cone")))
	assert.Equal(t, CrownCone, s)
	assert.Error(t, s.UnmarshalText([]byte("pyramid")))

	text, err := CrownHemisphere.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hemisphere", string(text))
}
