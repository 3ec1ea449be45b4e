// Package plan is the request planning core: it turns a packed request
// document into an ordered list of packed worker tasks (components C, D, E
// of the design). It performs no I/O, no caching, and holds no state across
// calls -- every exported function is pure given its arguments.
package plan

import (
	"github.com/BjarneHerland/oneseismic/manifest"
	"github.com/BjarneHerland/oneseismic/message"
)

// Mkschedule is the planner's single entry point. It parses doc's request
// envelope, dispatches on the "function" field to the matching builder,
// parses the embedded manifest, builds the unpartitioned fetch plan and
// splits it into task-size'd packed chunks.
func Mkschedule(doc []byte, taskSize int) ([][]byte, error) {
	env, err := message.UnpackEnvelope(doc)
	if err != nil {
		return nil, err
	}

	switch env.Function {
	case "slice":
		return slicePlan(doc, taskSize)
	case "curtain":
		return curtainPlan(doc, taskSize)
	default:
		return nil, &UnknownFunctionError{Function: env.Function}
	}
}

func slicePlan(doc []byte, taskSize int) ([][]byte, error) {
	task, err := message.UnpackSliceTask(doc)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Parse(task.Manifest)
	if err != nil {
		return nil, err
	}
	fetch, err := buildSlice(task, m)
	if err != nil {
		return nil, err
	}
	return partition(&sliceFetchPlan{msg: fetch}, taskSize)
}

func curtainPlan(doc []byte, taskSize int) ([][]byte, error) {
	task, err := message.UnpackCurtainTask(doc)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Parse(task.Manifest)
	if err != nil {
		return nil, err
	}
	fetch, err := buildCurtain(task, m)
	if err != nil {
		return nil, err
	}
	return partition(&curtainFetchPlan{msg: fetch}, taskSize)
}
