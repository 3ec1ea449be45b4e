package plan

import (
	"sort"

	"github.com/BjarneHerland/oneseismic/gvt"
	"github.com/BjarneHerland/oneseismic/manifest"
	"github.com/BjarneHerland/oneseismic/message"
)

// approxCoordinatesPerFragment estimates how many (x,y) coordinates a
// single fragment in a curtain response is likely to carry: a plane through
// the fragment, with a bit of margin. Not pre-reserving is fine; this just
// damps reallocation in the common case.
func approxCoordinatesPerFragment(g gvt.Grid) int {
	shape := g.FragmentShape()
	m := shape[0]
	if shape[1] > m {
		m = shape[1]
	}
	return int(float64(m) * 1.2)
}

// lowerBound returns the index of the first record in ids whose fragment id
// is not less than target, i.e. std::lower_bound under lexicographic FID
// order.
func lowerBound(ids []message.Single, target gvt.FID) int {
	return sort.Search(len(ids), func(i int) bool {
		return !ids[i].ID.ToGvt().Less(target)
	})
}

// buildCurtain translates a curtain task and its manifest into an
// unpartitioned curtain fetch plan (component C, curtain kind).
//
// The algorithm is two-pass: pass 1 creates the sorted skeleton of fragment
// buckets (a contiguous run of Z per-z-fragment records for each distinct
// (x/F0, y/F1) pair seen in the input); pass 2 binnings each input
// coordinate into its bucket's Z records.
func buildCurtain(task *message.CurtainTask, m *manifest.Manifest) (*message.CurtainFetch, error) {
	if len(task.Dim0s) != len(task.Dim1s) {
		return nil, &MalformedCurtainError{Dim0Len: len(task.Dim0s), Dim1Len: len(task.Dim1s)}
	}

	g, err := gvt.New(m.CubeShape(), task.Shape)
	if err != nil {
		return nil, err
	}

	zfrags := g.FragmentCount(2)
	reserve := approxCoordinatesPerFragment(g)

	var ids []message.Single

	// Pass 1: skeleton creation.
	for i := range task.Dim0s {
		top := gvt.CP{task.Dim0s[i], task.Dim1s[i], 0}
		fidTop := g.FragID(top)

		idx := lowerBound(ids, fidTop)
		if idx < len(ids) && ids[idx].ID.ToGvt().Equal(fidTop) {
			continue
		}

		column := make([]message.Single, zfrags)
		for z := 0; z < zfrags; z++ {
			id := gvt.FID{fidTop[0], fidTop[1], z}
			column[z] = message.Single{
				ID:          message.FromGvt(id),
				Coordinates: make([][2]int, 0, reserve),
			}
		}

		ids = append(ids, column...)
		copy(ids[idx+zfrags:], ids[idx:])
		copy(ids[idx:idx+zfrags], column)
	}

	// Pass 2: coordinate binning.
	for i := range task.Dim0s {
		top := gvt.CP{task.Dim0s[i], task.Dim1s[i], 0}
		fidTop := g.FragID(top)
		lid := g.ToLocal(top)

		idx := lowerBound(ids, fidTop)
		coord := [2]int{lid[0], lid[1]}
		for z := 0; z < zfrags; z++ {
			ids[idx+z].Coordinates = append(ids[idx+z].Coordinates, coord)
		}
	}

	return &message.CurtainFetch{
		RoutingMeta: task.RoutingMeta,
		Shape:       task.Shape,
		IDs:         ids,
	}, nil
}
