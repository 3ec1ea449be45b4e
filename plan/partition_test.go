package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BjarneHerland/oneseismic/message"
)

func fakeSlicePlan(n int) fetchPlan {
	ids := make([]message.FID, n)
	for i := range ids {
		ids[i] = message.FID{0, 0, i}
	}
	return &sliceFetchPlan{msg: &message.SliceFetch{IDs: ids}}
}

// S6
func TestPartitionChunkSizes(t *testing.T) {
	p := fakeSlicePlan(10)
	chunks, err := partition(p, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	var sizes []int
	for _, c := range chunks {
		fetch, err := message.UnpackSliceFetch(c)
		require.NoError(t, err)
		sizes = append(sizes, len(fetch.IDs))
	}
	assert.Equal(t, []int{3, 3, 3, 1}, sizes)
}

func TestPartitionChunksAreInOrderAndCoverAllIDs(t *testing.T) {
	p := fakeSlicePlan(10)
	chunks, err := partition(p, 3)
	require.NoError(t, err)

	var got []message.FID
	for _, c := range chunks {
		fetch, err := message.UnpackSliceFetch(c)
		require.NoError(t, err)
		got = append(got, fetch.IDs...)
	}

	var want []message.FID
	for i := 0; i < 10; i++ {
		want = append(want, message.FID{0, 0, i})
	}
	assert.Equal(t, want, got)
}

func TestPartitionExactMultiple(t *testing.T) {
	p := fakeSlicePlan(9)
	chunks, err := partition(p, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		fetch, err := message.UnpackSliceFetch(c)
		require.NoError(t, err)
		assert.Len(t, fetch.IDs, 3)
	}
}

func TestPartitionEmptyIDsEmitsOneChunk(t *testing.T) {
	p := fakeSlicePlan(0)
	chunks, err := partition(p, 5)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	fetch, err := message.UnpackSliceFetch(chunks[0])
	require.NoError(t, err)
	assert.Empty(t, fetch.IDs)
}

func TestPartitionTaskSizeLargerThanInput(t *testing.T) {
	p := fakeSlicePlan(2)
	chunks, err := partition(p, 100)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	fetch, err := message.UnpackSliceFetch(chunks[0])
	require.NoError(t, err)
	assert.Len(t, fetch.IDs, 2)
}

func TestPartitionInvalidTaskSize(t *testing.T) {
	p := fakeSlicePlan(5)

	_, err := partition(p, 0)
	require.Error(t, err)
	var invalid *InvalidTaskSizeError
	require.ErrorAs(t, err, &invalid)

	_, err = partition(p, -1)
	require.Error(t, err)
	require.ErrorAs(t, err, &invalid)
}

func TestPartitionIntegerOverflow(t *testing.T) {
	p := fakeSlicePlan(5)
	_, err := partition(p, int(^uint(0)>>1))
	require.Error(t, err)
	var overflow *IntegerOverflowError
	require.ErrorAs(t, err, &overflow)
}

func TestPartitionRoutingMetaAndOtherFieldsPreservedAcrossChunks(t *testing.T) {
	msg := &message.SliceFetch{
		RoutingMeta: message.RoutingMeta{Pid: "req-9", Guid: "g1"},
		Shape:       [3]int{3, 9, 5},
		ShapeCube:   [3]int{9, 15, 23},
		Dim:         1,
		Lineno:      4,
		IDs: []message.FID{
			{0, 0, 0}, {0, 0, 1}, {0, 0, 2}, {0, 0, 3},
		},
	}
	p := &sliceFetchPlan{msg: msg}
	chunks, err := partition(p, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	for _, c := range chunks {
		fetch, err := message.UnpackSliceFetch(c)
		require.NoError(t, err)
		assert.Equal(t, "req-9", fetch.Pid)
		assert.Equal(t, "g1", fetch.Guid)
		assert.Equal(t, [3]int{3, 9, 5}, fetch.Shape)
		assert.Equal(t, [3]int{9, 15, 23}, fetch.ShapeCube)
		assert.Equal(t, 1, fetch.Dim)
		assert.Equal(t, 4, fetch.Lineno)
		assert.Len(t, fetch.IDs, 2)
	}
}

func fakeCurtainPlan(n int) fetchPlan {
	ids := make([]message.Single, n)
	for i := range ids {
		ids[i] = message.Single{ID: message.FID{0, 0, i}}
	}
	return &curtainFetchPlan{msg: &message.CurtainFetch{IDs: ids}}
}

func TestPartitionCurtainPlanChunking(t *testing.T) {
	p := fakeCurtainPlan(7)
	chunks, err := partition(p, 4)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	fetch0, err := message.UnpackCurtainFetch(chunks[0])
	require.NoError(t, err)
	assert.Len(t, fetch0.IDs, 4)

	fetch1, err := message.UnpackCurtainFetch(chunks[1])
	require.NoError(t, err)
	assert.Len(t, fetch1.IDs, 3)
}
