package generate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchmesh/internal/collision"
	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
	"branchmesh/internal/skeleton"
)

// smallTree keeps colonization quick for table tests.
func smallTree() Params {
	p := Defaults()
	p.Colonization.AttractorCount = 150
	p.Colonization.MaxGrowthIterations = 120
	p.Subdivision.Iterations = 4
	return p
}

func requireConsistent(t *testing.T, buf *mesh.Buffers) {
	t.Helper()
	n := len(buf.Positions)
	require.Len(t, buf.Normals, n)
	require.Len(t, buf.Tangents, n)
	require.Len(t, buf.UVs, n)
	require.Zero(t, len(buf.Indices)%3)
	for _, idx := range buf.Indices {
		require.Less(t, int(idx), n)
	}
	for _, pos := range buf.Positions {
		for k := 0; k < 3; k++ {
			require.False(t, math.IsNaN(pos[k]))
		}
	}
}

func TestBufferExactness(t *testing.T) {
	for _, strategy := range []Strategy{Subdivision, Colonization} {
		for _, style := range []Style{StyleSpline, StyleCylinders, StyleJoints} {
			for _, endCap := range []mesh.EndCap{mesh.CapNone, mesh.CapFlat, mesh.CapTaper} {
				name := strategy.String() + "/" + style.String() + "/" + endCap.String()
				t.Run(name, func(t *testing.T) {
					p := smallTree()
					p.Strategy = strategy
					p.Style = style
					p.EndCap = endCap

					res := Rebuild(p)
					require.NotNil(t, res.Mesh)
					assert.Equal(t, res.Stats.Planned, res.Stats.Written)
					assert.Equal(t, res.Stats.Written.Vertices, res.Mesh.VertexCount())
					assert.Equal(t, res.Stats.Written.Indices, len(res.Mesh.Indices))
					assert.False(t, res.Mesh.Empty())
					assert.Empty(t, res.Mesh.Colors)
					requireConsistent(t, res.Mesh)
				})
			}
		}
	}
}

func TestBufferExactnessAcrossParams(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Params)
	}{
		{"minimum radial", func(p *Params) { p.RadialSegments = 3 }},
		{"below minimum radial", func(p *Params) { p.RadialSegments = 1 }},
		{"one spline subdivision", func(p *Params) { p.SplineSubdivisions = 1 }},
		{"dense spline", func(p *Params) { p.SplineSubdivisions = 32 }},
		{"long transitions", func(p *Params) { p.ForkTransitionLength = 40; p.ForkTransitionRings = 16 }},
		{"strict reversal", func(p *Params) { p.ForkReversalCos = 0.9 }},
		{"hemisphere crown", func(p *Params) { p.Colonization.CrownShape = skeleton.CrownHemisphere }},
		{"sharp joints", func(p *Params) { p.Style = StyleJoints; p.JointSegments = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := smallTree()
			p.EndCap = mesh.CapTaper
			tc.edit(&p)
			res := Rebuild(p)
			assert.Equal(t, res.Stats.Planned, res.Stats.Written)
			requireConsistent(t, res.Mesh)
		})
	}
}

func TestReversalSkipsTransitions(t *testing.T) {
	p := smallTree()
	p.Strategy = Subdivision
	p.Subdivision.ChanceOfFork = 100

	loose := Rebuild(p)
	p.ForkReversalCos = 1
	strict := Rebuild(p)

	require.Positive(t, loose.Stats.Transitions)
	assert.Zero(t, strict.Stats.Transitions)
	assert.Equal(t, loose.Stats.Transitions+loose.Stats.SkippedTransitions, strict.Stats.SkippedTransitions)
	assert.Less(t, strict.Mesh.VertexCount(), loose.Mesh.VertexCount())
}

func TestZeroAttractorsBuildsNothing(t *testing.T) {
	p := Defaults()
	p.Colonization.AttractorCount = 0
	p.EndCap = mesh.CapFlat
	p.Collision = collision.SimpleCapsules

	res := Rebuild(p)
	assert.Zero(t, res.Tree.Len())
	assert.True(t, res.Mesh.Empty())
	assert.Zero(t, res.Mesh.VertexCount())
	assert.Empty(t, res.Collision.Hulls)
}

func TestTrunkOnlySpline(t *testing.T) {
	p := Defaults()
	p.Strategy = Subdivision
	p.Subdivision.Iterations = 0
	p.EndCap = mesh.CapFlat

	res := Rebuild(p)
	require.Len(t, res.Paths, 1)
	assert.Zero(t, res.Stats.Transitions)
	assert.Equal(t, 2, res.Stats.Caps)
	// Two control points evaluate to SplineSubdivisions+1 samples.
	want := mesh.StripSize(p.SplineSubdivisions+1, p.RadialSegments).
		Add(mesh.CapSize(p.RadialSegments).Times(2))
	assert.Equal(t, want, res.Stats.Written)
}

func TestTrunkOnlyCylinder(t *testing.T) {
	p := Defaults()
	p.Strategy = Subdivision
	p.Style = StyleCylinders
	p.Subdivision.Iterations = 0

	res := Rebuild(p)
	assert.Equal(t, mesh.CylinderSize(p.RadialSegments), res.Stats.Written)
	lo, hi := res.Mesh.Bounds()
	assert.InDelta(t, 0, lo[2], 1e-9)
	assert.InDelta(t, 300, hi[2], 1e-9)
	assert.InDelta(t, p.TrunkWidth, hi[0], 1e-9)
}

func TestRebuildDeterministic(t *testing.T) {
	for _, strategy := range []Strategy{Subdivision, Colonization} {
		p := smallTree()
		p.Strategy = strategy
		a := Rebuild(p)
		b := Rebuild(p)
		assert.Equal(t, a.Tree.Segments(), b.Tree.Segments())
		assert.Equal(t, a.Mesh.Positions, b.Mesh.Positions)
		assert.Equal(t, a.Mesh.Indices, b.Mesh.Indices)
	}
}

func TestSeedChangesTree(t *testing.T) {
	p := smallTree()
	a := Rebuild(p)
	p.Seed++
	b := Rebuild(p)
	assert.NotEqual(t, a.Mesh.Positions, b.Mesh.Positions)
}

func TestCollisionModes(t *testing.T) {
	for _, style := range []Style{StyleSpline, StyleCylinders, StyleJoints} {
		p := smallTree()
		p.Style = style

		p.Collision = collision.ComplexAsSimple
		res := Rebuild(p)
		assert.True(t, res.Collision.UseComplexAsSimple)

		p.Collision = collision.SimpleCapsules
		res = Rebuild(p)
		assert.True(t, res.Collision.Enabled)
		assert.NotEmpty(t, res.Collision.Hulls, style.String())
	}
}

func TestPolylineRings(t *testing.T) {
	straight := []mathutil.Vec3{{0, 0, 0}, {0, 0, 10}, {0, 0, 20}}
	buf := Polyline(straight, 1, 8, 4, mesh.CapNone)
	// Endpoints plus two coincident rings at the straight joint.
	assert.Equal(t, mesh.StripSize(4, 8).Vertices, buf.VertexCount())

	bent := []mathutil.Vec3{{0, 0, 0}, {0, 0, 10}, {10, 0, 10}}
	buf = Polyline(bent, 1, 8, 4, mesh.CapNone)
	assert.Equal(t, mesh.StripSize(2+5, 8).Vertices, buf.VertexCount())

	buf = Polyline(bent, 1, 8, 0, mesh.CapFlat)
	want := mesh.StripSize(4, 8).Add(mesh.CapSize(8).Times(2))
	assert.Equal(t, want.Vertices, buf.VertexCount())
	assert.Equal(t, want.Indices, len(buf.Indices))
	requireConsistent(t, buf)
}

func TestPolylineTooShort(t *testing.T) {
	assert.True(t, Polyline(nil, 1, 8, 4, mesh.CapFlat).Empty())
	assert.True(t, Polyline([]mathutil.Vec3{{1, 2, 3}}, 1, 8, 4, mesh.CapFlat).Empty())
}

func TestPolylineUVs(t *testing.T) {
	bent := []mathutil.Vec3{{0, 0, 0}, {0, 0, 10}, {10, 0, 10}}
	buf := Polyline(bent, 1, 4, 2, mesh.CapNone)
	ring := mesh.RingVertices(4)
	// First ring starts a run, last ring ends one.
	assert.Equal(t, 1.0, buf.UVs[0][1])
	assert.Equal(t, 0.0, buf.UVs[len(buf.UVs)-1][1])
	assert.Equal(t, 1.0, buf.UVs[0][0])
	assert.Equal(t, 0.0, buf.UVs[ring-1][0])
}

func TestValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())

	p := Defaults()
	p.RadialSegments = 2
	p.SplineSubdivisions = 0
	p.Colonization.CrownRadius = 0
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radial_segments")
	assert.Contains(t, err.Error(), "spline_subdivisions")
	assert.Contains(t, err.Error(), "crown_radius")

	n := p.Normalized()
	assert.Equal(t, 3, n.RadialSegments)
	assert.Equal(t, 1, n.SplineSubdivisions)
	assert.Equal(t, 1.0, n.Colonization.CrownRadius)
}

func TestSubdivisionIterationsBounded(t *testing.T) {
	p := Defaults()
	p.Strategy = Subdivision
	p.Subdivision.Iterations = 30
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subdivision.iterations 30 outside 0..12")
	assert.Equal(t, maxSubdivisionIterations, p.Normalized().Subdivision.Iterations)

	p.Subdivision.Iterations = -1
	assert.Zero(t, p.Normalized().Subdivision.Iterations)
}

func TestEnumText(t *testing.T) {
	var s Strategy
	require.NoError(t, s.UnmarshalText([]byte("Subdivision")))
	assert.Equal(t, Subdivision, s)
	assert.Error(t, s.UnmarshalText([]byte("lsystem")))

	var st Style
	require.NoError(t, st.UnmarshalText([]byte("joints")))
	assert.Equal(t, StyleJoints, st)
	text, err := StyleCylinders.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cylinders", string(text))
}
