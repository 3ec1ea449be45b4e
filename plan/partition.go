package plan

import "math"

// partition splits p's fragment-id list into ceil(N/taskSize) chunks and
// packs each one, replacing only the ids field each time; every other field
// of the plan (routing metadata, shape, dim, lineno, ...) is identical
// across chunks (component D).
//
// If p has no fragments at all, partition still emits a single packed
// message carrying an empty ids field, so that downstream task counters
// always see at least one task per request (§9 of SPEC_FULL.md).
func partition(p fetchPlan, taskSize int) ([][]byte, error) {
	if taskSize < 1 {
		return nil, &InvalidTaskSizeError{TaskSize: taskSize}
	}

	n := p.numFragments()
	if n == 0 {
		b, err := p.Pack()
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil
	}

	if n > math.MaxInt-taskSize+1 {
		return nil, &IntegerOverflowError{NumFragments: n, TaskSize: taskSize}
	}
	ntasks := (n + taskSize - 1) / taskSize

	out := make([][]byte, 0, ntasks)
	for i := 0; i < ntasks; i++ {
		lo := i * taskSize
		hi := lo + taskSize
		if hi > n {
			hi = n
		}
		b, err := p.withIDsRange(lo, hi).Pack()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
