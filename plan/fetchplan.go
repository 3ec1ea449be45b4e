package plan

import "github.com/BjarneHerland/oneseismic/message"

// fetchPlan is the interface the generic partitioner (component D) needs:
// a fragment-id list it can slice into chunks, and a way to pack each chunk
// back into wire bytes. Both slice and curtain fetch plans implement it, so
// partition() is written once and shared between request kinds.
type fetchPlan interface {
	numFragments() int
	withIDsRange(lo, hi int) fetchPlan
	Pack() ([]byte, error)
}

type sliceFetchPlan struct {
	msg *message.SliceFetch
}

func (p *sliceFetchPlan) numFragments() int { return len(p.msg.IDs) }

func (p *sliceFetchPlan) withIDsRange(lo, hi int) fetchPlan {
	cp := *p.msg
	cp.IDs = append([]message.FID(nil), p.msg.IDs[lo:hi]...)
	return &sliceFetchPlan{msg: &cp}
}

func (p *sliceFetchPlan) Pack() ([]byte, error) { return p.msg.Pack() }

type curtainFetchPlan struct {
	msg *message.CurtainFetch
}

func (p *curtainFetchPlan) numFragments() int { return len(p.msg.IDs) }

func (p *curtainFetchPlan) withIDsRange(lo, hi int) fetchPlan {
	cp := *p.msg
	cp.IDs = append([]message.Single(nil), p.msg.IDs[lo:hi]...)
	return &curtainFetchPlan{msg: &cp}
}

func (p *curtainFetchPlan) Pack() ([]byte, error) { return p.msg.Pack() }
