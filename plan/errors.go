package plan

import "fmt"

// UnknownFunctionError is returned when a request envelope's "function"
// field names a request kind the dispatcher has no builder for.
type UnknownFunctionError struct {
	Function string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("no handler for function %q", e.Function)
}

// InvalidTaskSizeError is returned when task_size < 1.
type InvalidTaskSizeError struct {
	TaskSize int
}

func (e *InvalidTaskSizeError) Error() string {
	return fmt.Sprintf("task_size (= %d) < 1", e.TaskSize)
}

// IntegerOverflowError is returned when the task-count arithmetic would
// overflow the platform integer type.
type IntegerOverflowError struct {
	NumFragments int
	TaskSize     int
}

func (e *IntegerOverflowError) Error() string {
	return fmt.Sprintf(
		"task count for %d fragments at task_size %d overflows int",
		e.NumFragments, e.TaskSize,
	)
}

// MalformedCurtainError is returned when a curtain task's dim0s and dim1s
// sequences have different lengths.
type MalformedCurtainError struct {
	Dim0Len int
	Dim1Len int
}

func (e *MalformedCurtainError) Error() string {
	return fmt.Sprintf(
		"curtain task has mismatched coordinate lengths: len(dim0s)=%d len(dim1s)=%d",
		e.Dim0Len, e.Dim1Len,
	)
}
