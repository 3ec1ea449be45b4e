package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BjarneHerland/oneseismic/gvt"
	"github.com/BjarneHerland/oneseismic/manifest"
	"github.com/BjarneHerland/oneseismic/message"
)

// testManifestDoc builds a manifest JSON whose dimensions have lengths
// matching cube and whose labels are offset per axis so a pin can be
// recovered unambiguously from the chosen label.
func testManifestDoc(cube [3]int) string {
	offsets := [3]int{10, 100, 1000}
	doc := `{"dimensions":[`
	for axis := 0; axis < 3; axis++ {
		if axis > 0 {
			doc += ","
		}
		doc += "["
		for i := 0; i < cube[axis]; i++ {
			if i > 0 {
				doc += ","
			}
			doc += itoa(offsets[axis] + i)
		}
		doc += "]"
	}
	doc += "]}"
	return doc
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func mustManifest(t *testing.T, cube [3]int) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse(testManifestDoc(cube))
	require.NoError(t, err)
	return m
}

func idsOf(ids []message.FID) []gvt.FID {
	out := make([]gvt.FID, len(ids))
	for i, id := range ids {
		out[i] = id.ToGvt()
	}
	return out
}

// S1
func TestBuildSliceDim0(t *testing.T) {
	cube := [3]int{9, 15, 23}
	shape := [3]int{3, 9, 5}
	m := mustManifest(t, cube)

	task := &message.SliceTask{
		RoutingMeta: message.RoutingMeta{Pid: "req-1"},
		Manifest:    testManifestDoc(cube),
		Shape:       shape,
		Dim:         0,
		Lineno:      10, // pin 0
	}

	fetch, err := buildSlice(task, m)
	require.NoError(t, err)

	assert.Equal(t, "req-1", fetch.Pid)
	assert.Equal(t, cube, fetch.ShapeCube)
	assert.Equal(t, shape, fetch.Shape)
	assert.Equal(t, 0, fetch.Dim)
	assert.Equal(t, 0, fetch.Lineno) // pin 0 mod F0=3 -> 0

	want := []gvt.FID{
		{0, 0, 0}, {0, 0, 1}, {0, 0, 2}, {0, 0, 3}, {0, 0, 4},
		{0, 1, 0}, {0, 1, 1}, {0, 1, 2}, {0, 1, 3}, {0, 1, 4},
	}
	assert.Equal(t, want, idsOf(fetch.IDs))
}

// S2
func TestBuildSliceDim1(t *testing.T) {
	cube := [3]int{9, 15, 23}
	shape := [3]int{3, 9, 5}
	m := mustManifest(t, cube)

	task := &message.SliceTask{
		Manifest: testManifestDoc(cube),
		Shape:    shape,
		Dim:      1,
		Lineno:   111, // offset 100 + pin 11
	}

	fetch, err := buildSlice(task, m)
	require.NoError(t, err)
	assert.Equal(t, 11%9, fetch.Lineno)

	want := []gvt.FID{
		{0, 1, 0}, {0, 1, 1}, {0, 1, 2}, {0, 1, 3}, {0, 1, 4},
		{1, 1, 0}, {1, 1, 1}, {1, 1, 2}, {1, 1, 3}, {1, 1, 4},
		{2, 1, 0}, {2, 1, 1}, {2, 1, 2}, {2, 1, 3}, {2, 1, 4},
	}
	assert.Equal(t, want, idsOf(fetch.IDs))
}

// S3
func TestBuildSliceDim2(t *testing.T) {
	cube := [3]int{9, 15, 23}
	shape := [3]int{3, 9, 5}
	m := mustManifest(t, cube)

	task := &message.SliceTask{
		Manifest: testManifestDoc(cube),
		Shape:    shape,
		Dim:      2,
		Lineno:   1017, // offset 1000 + pin 17
	}

	fetch, err := buildSlice(task, m)
	require.NoError(t, err)

	want := []gvt.FID{
		{0, 0, 3}, {0, 1, 3},
		{1, 0, 3}, {1, 1, 3},
		{2, 0, 3}, {2, 1, 3},
	}
	assert.Equal(t, want, idsOf(fetch.IDs))
}

func TestBuildSliceLineNotFound(t *testing.T) {
	cube := [3]int{9, 15, 23}
	m := mustManifest(t, cube)
	task := &message.SliceTask{
		Manifest: testManifestDoc(cube),
		Shape:    [3]int{3, 9, 5},
		Dim:      0,
		Lineno:   99999,
	}

	_, err := buildSlice(task, m)
	require.Error(t, err)
	var notFound *manifest.LineNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestBuildSliceInvalidGrid(t *testing.T) {
	cube := [3]int{9, 15, 23}
	m := mustManifest(t, cube)
	task := &message.SliceTask{
		Manifest: testManifestDoc(cube),
		Shape:    [3]int{0, 9, 5},
		Dim:      0,
		Lineno:   10,
	}

	_, err := buildSlice(task, m)
	require.Error(t, err)
	var invalid *gvt.InvalidGridError
	require.ErrorAs(t, err, &invalid)
}
