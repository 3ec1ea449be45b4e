// Package message implements the wire-level structures exchanged between
// the upstream router, this planner and the worker nodes, and their
// msgpack encoding. The planner treats these structures as mostly opaque:
// it reads the fields it needs to build a plan and writes back an ids field,
// leaving every other field untouched.
package message

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/BjarneHerland/oneseismic/gvt"
)

// MalformedMessageError wraps an underlying decode failure with the name of
// the message type that failed to unpack.
type MalformedMessageError struct {
	Kind string
	Err  error
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed %s message: %s", e.Kind, e.Err)
}

func (e *MalformedMessageError) Unwrap() error { return e.Err }

// RoutingMeta carries the per-request metadata a router attaches to a task
// so that a worker knows where to fetch fragments from and which in-flight
// request this task belongs to. The planner echoes these fields unchanged.
type RoutingMeta struct {
	Pid             string `msgpack:"pid"`
	Guid            string `msgpack:"guid"`
	Root            string `msgpack:"root"`
	StorageEndpoint string `msgpack:"storage_endpoint"`
}

// FID is the wire representation of a fragment identifier: a 3-element
// integer array, matching gvt.FID but kept distinct so this package has no
// dependency on gvt's internal layout beyond the conversion helpers below.
type FID [3]int

// FromGvt converts a gvt.FID to its wire representation.
func FromGvt(id gvt.FID) FID {
	return FID{id[0], id[1], id[2]}
}

// ToGvt converts a wire fragment id back to a gvt.FID.
func (f FID) ToGvt() gvt.FID {
	return gvt.FID{f[0], f[1], f[2]}
}

// SliceTask is the input message for a slice request.
type SliceTask struct {
	RoutingMeta
	Manifest string `msgpack:"manifest"`
	Shape    [3]int `msgpack:"shape"`
	Dim      int    `msgpack:"dim"`
	Lineno   int    `msgpack:"lineno"`
}

// Pack serializes the task to msgpack bytes.
func (t *SliceTask) Pack() ([]byte, error) {
	b, err := msgpack.Marshal(t)
	if err != nil {
		return nil, &MalformedMessageError{Kind: "slice_task", Err: err}
	}
	return b, nil
}

// UnpackSliceTask decodes a msgpack-encoded slice task.
func UnpackSliceTask(doc []byte) (*SliceTask, error) {
	var t SliceTask
	if err := msgpack.Unmarshal(doc, &t); err != nil {
		return nil, &MalformedMessageError{Kind: "slice_task", Err: err}
	}
	return &t, nil
}

// SliceFetch is the output message a worker receives for a slice request.
type SliceFetch struct {
	RoutingMeta
	Shape     [3]int `msgpack:"shape"`
	ShapeCube [3]int `msgpack:"shape_cube"`
	Dim       int    `msgpack:"dim"`
	Lineno    int    `msgpack:"lineno"`
	IDs       []FID  `msgpack:"ids"`
}

// Pack serializes the fetch plan to msgpack bytes.
func (f *SliceFetch) Pack() ([]byte, error) {
	b, err := msgpack.Marshal(f)
	if err != nil {
		return nil, &MalformedMessageError{Kind: "slice_fetch", Err: err}
	}
	return b, nil
}

// UnpackSliceFetch decodes a msgpack-encoded slice fetch, mostly useful to
// workers and to tests asserting on packed output.
func UnpackSliceFetch(doc []byte) (*SliceFetch, error) {
	var f SliceFetch
	if err := msgpack.Unmarshal(doc, &f); err != nil {
		return nil, &MalformedMessageError{Kind: "slice_fetch", Err: err}
	}
	return &f, nil
}

// CurtainTask is the input message for a curtain request.
type CurtainTask struct {
	RoutingMeta
	Manifest string `msgpack:"manifest"`
	Shape    [3]int `msgpack:"shape"`
	Dim0s    []int  `msgpack:"dim0s"`
	Dim1s    []int  `msgpack:"dim1s"`
}

// Pack serializes the task to msgpack bytes.
func (t *CurtainTask) Pack() ([]byte, error) {
	b, err := msgpack.Marshal(t)
	if err != nil {
		return nil, &MalformedMessageError{Kind: "curtain_task", Err: err}
	}
	return b, nil
}

// UnpackCurtainTask decodes a msgpack-encoded curtain task.
func UnpackCurtainTask(doc []byte) (*CurtainTask, error) {
	var t CurtainTask
	if err := msgpack.Unmarshal(doc, &t); err != nil {
		return nil, &MalformedMessageError{Kind: "curtain_task", Err: err}
	}
	return &t, nil
}

// Single names one fragment to fetch for a curtain request, and the list of
// fragment-local (x,y) coordinates within it to extract whole z-columns
// from. Duplicate coordinates are meaningful: the worker relies on their
// multiplicity.
type Single struct {
	ID          FID      `msgpack:"id"`
	Coordinates [][2]int `msgpack:"coordinates"`
}

// CurtainFetch is the output message a worker receives for a curtain
// request.
type CurtainFetch struct {
	RoutingMeta
	Shape [3]int   `msgpack:"shape"`
	IDs   []Single `msgpack:"ids"`
}

// Pack serializes the fetch plan to msgpack bytes.
func (f *CurtainFetch) Pack() ([]byte, error) {
	b, err := msgpack.Marshal(f)
	if err != nil {
		return nil, &MalformedMessageError{Kind: "curtain_fetch", Err: err}
	}
	return b, nil
}

// UnpackCurtainFetch decodes a msgpack-encoded curtain fetch.
func UnpackCurtainFetch(doc []byte) (*CurtainFetch, error) {
	var f CurtainFetch
	if err := msgpack.Unmarshal(doc, &f); err != nil {
		return nil, &MalformedMessageError{Kind: "curtain_fetch", Err: err}
	}
	return &f, nil
}

// Envelope is the minimal shape the dispatcher needs to read before it
// knows which typed task to unpack the rest of doc into.
type Envelope struct {
	Function string `msgpack:"function"`
}

// UnpackEnvelope decodes just the function field of a request document.
func UnpackEnvelope(doc []byte) (*Envelope, error) {
	var e Envelope
	if err := msgpack.Unmarshal(doc, &e); err != nil {
		return nil, &MalformedMessageError{Kind: "envelope", Err: err}
	}
	return &e, nil
}
