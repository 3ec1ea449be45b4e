// Package manifeststore fetches manifest documents by cube ID. It sits
// outside the planning core entirely: plan never imports this package, and
// nothing here knows about gvt, message or plan. A service wires a Store
// into its HTTP handler and passes the fetched body string into
// plan.Mkschedule.
package manifeststore

import "time"

// Record is the cached envelope around a manifest document: the same JSON
// plan.Mkschedule eventually parses, plus enough provenance to decide
// whether a cached copy is worth serving.
type Record struct {
	CubeID    string
	Body      []byte
	FetchedAt time.Time
}

// NotFoundError is returned when no manifest is stored for a cube ID.
type NotFoundError struct {
	CubeID string
}

func (e *NotFoundError) Error() string {
	return "manifest not found for cube " + e.CubeID
}

// Store fetches and stores manifest documents by cube ID.
type Store interface {
	Get(cubeID string) (*Record, error)
	Put(rec *Record) error
}
