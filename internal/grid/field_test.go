package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name   string
		nx, ny int
		h      float64
	}{
		{"zero width", 0, 4, 1},
		{"negative height", 4, -1, 1},
		{"zero cell size", 4, 4, 0},
		{"negative cell size", 4, 4, -0.5},
		{"nan cell size", 4, 4, math.NaN()},
		{"inf cell size", 4, 4, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.nx, tt.ny, tt.h)
			assert.Nil(t, f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			var ce *ConfigurationError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestFaceArraySizes(t *testing.T) {
	f, err := New(3, 2, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 4*2, f.NumHorizontal())
	assert.Equal(t, 3*3, f.NumVertical())
	assert.Equal(t, 1.5, f.Width())
	assert.Equal(t, 1.0, f.Height())
}

func TestCellOutOfRange(t *testing.T) {
	f, err := New(4, 3, 1)
	require.NoError(t, err)

	for _, c := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {10, 10}} {
		_, err := f.Cell(c[0], c[1])
		require.Error(t, err, "cell %v", c)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		var oor *OutOfRangeError
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, c[0], oor.IX)
		assert.Equal(t, c[1], oor.IY)
	}

	_, err = f.Cell(3, 2)
	assert.NoError(t, err)
}

func TestSharedFaces(t *testing.T) {
	f, err := New(3, 3, 1)
	require.NoError(t, err)

	a, _ := f.Cell(1, 1)
	right, _ := f.Cell(2, 1)
	below, _ := f.Cell(1, 2)

	assert.Equal(t, a.Right, right.Left)
	assert.Equal(t, a.Bottom, below.Top)

	f.Set(a.Right, 3)
	assert.Equal(t, 3.0, f.Value(right.Left))
	assert.Equal(t, 3.0, a.Divergence())
	assert.Equal(t, -3.0, right.Divergence())

	f.Set(below.Top, 2)
	assert.Equal(t, 5.0, a.Divergence())
	assert.Equal(t, -2.0, below.Divergence())
}

func TestDivergenceSigns(t *testing.T) {
	f, err := New(1, 1, 1)
	require.NoError(t, err)
	c, _ := f.Cell(0, 0)

	f.Set(c.Left, 1)
	f.Set(c.Right, 4)
	f.Set(c.Top, 2)
	f.Set(c.Bottom, 7)

	assert.Equal(t, (4.0-1.0)+(7.0-2.0), c.Divergence())
}

func TestSetObstacle(t *testing.T) {
	f, err := New(5, 5, 1)
	require.NoError(t, err)
	for i := 0; i < f.NumHorizontal(); i++ {
		f.Set(Face{Horizontal, i}, 1.5)
	}
	for i := 0; i < f.NumVertical(); i++ {
		f.Set(Face{Vertical, i}, -0.5)
	}

	n := f.SetObstacle(1, 1, 3, 2)
	assert.Equal(t, 2, n)

	for _, ix := range []int{1, 2} {
		c, _ := f.Cell(ix, 1)
		assert.True(t, c.IsObstacle())
		assert.Equal(t, 0, c.MutableFaces())
		for _, fc := range c.Faces() {
			assert.Equal(t, 0.0, f.Value(fc))
			assert.True(t, f.Fixed(fc))
			assert.False(t, f.Set(fc, 9))
			assert.False(t, f.Add(fc, 9))
		}
	}

	neighbor, _ := f.Cell(0, 1)
	assert.False(t, neighbor.IsObstacle())
	assert.Equal(t, 3, neighbor.MutableFaces())
}

func TestSetObstacleClampsAndNormalizes(t *testing.T) {
	f, err := New(4, 4, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, f.SetObstacle(5, 5, 2, 2))
	assert.Equal(t, 4, f.CountObstacles())
	assert.True(t, f.IsObstacle(3, 3))
	assert.False(t, f.IsObstacle(4, 4))

	assert.Equal(t, 0, f.SetObstacle(-3, -3, -1, -1))
	assert.Equal(t, 4, f.CountObstacles())
}

func TestClearObstacleRestoresMutability(t *testing.T) {
	f, err := New(5, 5, 1)
	require.NoError(t, err)

	f.SetObstacle(1, 1, 3, 2)
	n := f.ClearObstacle(1, 1, 2, 2)
	assert.Equal(t, 1, n)

	cleared, _ := f.Cell(1, 1)
	kept, _ := f.Cell(2, 1)
	assert.False(t, cleared.IsObstacle())
	assert.True(t, kept.IsObstacle())

	assert.False(t, f.Fixed(cleared.Left))
	assert.False(t, f.Fixed(cleared.Top))
	assert.False(t, f.Fixed(cleared.Bottom))
	assert.True(t, f.Fixed(cleared.Right), "face shared with a remaining obstacle stays pinned")
	assert.Equal(t, 3, cleared.MutableFaces())

	assert.True(t, f.Set(cleared.Left, 2))
	assert.Equal(t, 2.0, f.Value(cleared.Left))

	f.ClearObstacle(0, 0, 5, 5)
	assert.Equal(t, 0, f.CountObstacles())
	assert.Equal(t, 4, cleared.MutableFaces())
}

func TestPressureAccumulator(t *testing.T) {
	f, err := New(2, 2, 1)
	require.NoError(t, err)

	f.AddPressure(1, 0, 0.25)
	f.AddPressure(1, 0, 0.5)
	assert.Equal(t, 0.75, f.Pressure(1, 0))

	c, _ := f.Cell(1, 0)
	assert.Equal(t, 0.75, c.Pressure())

	f.ResetPressure()
	assert.Equal(t, 0.0, f.Pressure(1, 0))
}

func TestCoordsAndCenters(t *testing.T) {
	f, err := New(3, 2, 1)
	require.NoError(t, err)

	h := f.HFace(3, 1)
	i, j := f.Coords(h)
	assert.Equal(t, 3, i)
	assert.Equal(t, 1, j)
	gx, gy := f.Center(h)
	assert.Equal(t, 3.0, gx)
	assert.Equal(t, 1.5, gy)

	v := f.VFace(2, 2)
	i, j = f.Coords(v)
	assert.Equal(t, 2, i)
	assert.Equal(t, 2, j)
	gx, gy = f.Center(v)
	assert.Equal(t, 2.5, gx)
	assert.Equal(t, 2.0, gy)
}

func TestSnapshotRoundTrip(t *testing.T) {
	f, err := New(3, 2, 0.25)
	require.NoError(t, err)
	f.Set(f.HFace(1, 1), 2)
	f.Set(f.VFace(2, 1), -1)
	f.SetObstacle(0, 0, 1, 1)
	f.AddPressure(2, 1, 3)

	g, err := FromSnapshot(f.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, f.Snapshot(), g.Snapshot())
	assert.True(t, g.IsObstacle(0, 0))

	bad := f.Snapshot()
	bad.U = bad.U[:2]
	_, err = FromSnapshot(bad)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestObstacleRevAndFaces(t *testing.T) {
	f, err := New(4, 3, 1)
	require.NoError(t, err)
	assert.Empty(t, f.ObstacleFaces(nil))

	rev := f.ObstacleRev()
	f.SetObstacle(1, 1, 3, 2)
	assert.NotEqual(t, rev, f.ObstacleRev())

	faces := f.ObstacleFaces(nil)
	assert.Len(t, faces, 8)
	assert.Contains(t, faces, f.HFace(2, 1), "shared face listed")

	rev = f.ObstacleRev()
	f.ClearObstacle(0, 0, 1, 1)
	assert.Equal(t, rev, f.ObstacleRev(), "clearing empty cells changes nothing")

	f.ClearObstacle(1, 1, 2, 2)
	assert.NotEqual(t, rev, f.ObstacleRev())
	assert.Len(t, f.ObstacleFaces(nil), 4)
}
