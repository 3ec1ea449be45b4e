// Package httpapi is the planner's HTTP front door: POST /plan runs the
// dispatcher end to end and streams packed tasks back to the caller;
// GET /ping is a liveness check. When a ManifestResolver is configured,
// /plan fills in a request's missing manifest from its cube_id; the
// resolver's storage and any worker assignment live outside this package.
package httpapi

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/BjarneHerland/oneseismic/authn"
	"github.com/BjarneHerland/oneseismic/gvt"
	"github.com/BjarneHerland/oneseismic/manifest"
	"github.com/BjarneHerland/oneseismic/manifeststore"
	"github.com/BjarneHerland/oneseismic/message"
	"github.com/BjarneHerland/oneseismic/plan"
	"github.com/BjarneHerland/oneseismic/workerpool"
)

// ManifestResolver fetches a manifest document by cube ID, letting callers
// send a short {cube_id, ...} request instead of embedding the full
// manifest text on every call.
type ManifestResolver interface {
	Get(cubeID string) (*manifeststore.Record, error)
}

// Server holds the configuration the /plan handler needs: the task size
// used when a request doesn't specify one, an optional auth service, an
// optional manifest resolver, and an optional view of the worker pool.
type Server struct {
	DefaultTaskSize int
	Auth            *authn.Service
	Manifests       ManifestResolver
	Workers         *workerpool.Handle
}

// NewServer constructs a Server. auth may be nil to disable authentication;
// manifests may be nil to require every request to carry its own manifest.
func NewServer(defaultTaskSize int, auth *authn.Service, manifests ManifestResolver) *Server {
	return &Server{DefaultTaskSize: defaultTaskSize, Auth: auth, Manifests: manifests}
}

// Handler builds the full mux: /ping and /workers are always open, /plan
// is behind auth when a Service is configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/workers", s.handleWorkers)
	mux.Handle("/plan", s.protect(http.HandlerFunc(s.handlePlan)))
	return mux
}

func (s *Server) protect(next http.Handler) http.Handler {
	if s.Auth == nil {
		return next
	}
	return s.Auth.Middleware(next)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type workerView struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

// handleWorkers reports the worker nodes currently known to the ring, for
// operators checking whether a cluster looks healthy. It's read-only: the
// assignment a task chunk would get is an operational concern for a
// dispatcher that isn't part of this service.
func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	if s.Workers == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
		return
	}
	members := s.Workers.Members()
	views := make([]workerView, len(members))
	for i, m := range members {
		views[i] = workerView{Name: m.Name, Address: m.Address, Status: m.Status.String()}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

// handlePlan reads a packed request document from the body, plans it, and
// streams each packed task chunk back as a 4-byte big-endian length prefix
// followed by the chunk's bytes -- a caller reads until EOF rather than
// needing a framed content length up front.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	body, err = s.resolveManifest(body)
	if err != nil {
		writePlanError(w, err)
		return
	}

	taskSize := s.DefaultTaskSize
	if raw := r.URL.Query().Get("task_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid task_size", http.StatusBadRequest)
			return
		}
		taskSize = n
	}

	chunks, err := plan.Mkschedule(body, taskSize)
	if err != nil {
		writePlanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	for _, chunk := range chunks {
		var lenPrefix [4]byte
		binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(chunk)))
		if _, err := w.Write(lenPrefix[:]); err != nil {
			return
		}
		if _, err := w.Write(chunk); err != nil {
			return
		}
	}
}

// resolveManifest fills in a request document's "manifest" field from a
// cube_id lookup when the caller omitted it. Documents that already carry
// a manifest, or that name no cube_id either, pass through unchanged --
// Mkschedule reports whatever is wrong with them on its own terms.
func (s *Server) resolveManifest(doc []byte) ([]byte, error) {
	if s.Manifests == nil {
		return doc, nil
	}

	var fields map[string]interface{}
	if err := msgpack.Unmarshal(doc, &fields); err != nil {
		return doc, nil
	}

	if m, ok := fields["manifest"].(string); ok && m != "" {
		return doc, nil
	}
	cubeID, ok := fields["cube_id"].(string)
	if !ok || cubeID == "" {
		return doc, nil
	}

	rec, err := s.Manifests.Get(cubeID)
	if err != nil {
		return nil, err
	}
	fields["manifest"] = string(rec.Body)
	return msgpack.Marshal(fields)
}

// writePlanError maps a planner error to an HTTP status: malformed or
// unrecognized input is the caller's fault (400), an unknown cube id is a
// 404, anything else is ours (500).
func writePlanError(w http.ResponseWriter, err error) {
	var notFound *manifeststore.NotFoundError
	if errors.As(err, &notFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var (
		unknownFn   *plan.UnknownFunctionError
		malCurtain  *plan.MalformedCurtainError
		malManifest *manifest.MalformedManifestError
		lineNotFnd  *manifest.LineNotFoundError
		malMessage  *message.MalformedMessageError
		invalidGrid *gvt.InvalidGridError
	)
	switch {
	case errors.As(err, &unknownFn),
		errors.As(err, &malCurtain),
		errors.As(err, &malManifest),
		errors.As(err, &lineNotFnd),
		errors.As(err, &malMessage),
		errors.As(err, &invalidGrid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[httpapi] planning failed: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Start runs the HTTP server on addr until it errors or the process exits.
func Start(addr string, handler http.Handler) error {
	log.Println("[httpapi] listening on " + addr)
	return http.ListenAndServe(addr, handler)
}
