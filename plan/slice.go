package plan

import (
	"github.com/BjarneHerland/oneseismic/gvt"
	"github.com/BjarneHerland/oneseismic/manifest"
	"github.com/BjarneHerland/oneseismic/message"
)

// buildSlice translates a slice task and its manifest into an unpartitioned
// slice fetch plan (component C, slice kind).
func buildSlice(task *message.SliceTask, m *manifest.Manifest) (*message.SliceFetch, error) {
	pin, err := m.Pin(task.Dim, task.Lineno)
	if err != nil {
		return nil, err
	}

	g, err := gvt.New(m.CubeShape(), task.Shape)
	if err != nil {
		return nil, err
	}

	ids := g.Slice(task.Dim, pin)
	wireIDs := make([]message.FID, len(ids))
	for i, id := range ids {
		wireIDs[i] = message.FromGvt(id)
	}

	return &message.SliceFetch{
		RoutingMeta: task.RoutingMeta,
		Shape:       task.Shape,
		ShapeCube:   m.CubeShape(),
		Dim:         task.Dim,
		Lineno:      pin % task.Shape[task.Dim],
		IDs:         wireIDs,
	}, nil
}
