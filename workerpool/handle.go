package workerpool

import (
	"encoding/json"
	"log"
	"math/rand"

	"github.com/hashicorp/memberlist"
)

// Config configures a Handle's membership transport.
type Config struct {
	BindAddr string
	BindPort int
	// TokensPerNode sets how many ring positions each node claims. More
	// tokens give smoother load distribution at the cost of a bigger
	// membership metadata payload.
	TokensPerNode int
}

func (c *Config) setDefaults() {
	if c.BindPort == 0 {
		c.BindPort = 7946
	}
	if c.TokensPerNode == 0 {
		c.TokensPerNode = 32
	}
}

// Handle tracks cluster membership via memberlist and keeps a Ring in sync
// with who's currently up, so Assign always reflects live nodes.
type Handle struct {
	list  *memberlist.Memberlist
	Ring  *Ring
	Nodes map[string]*Node
	Local *Node
}

// NewHandle starts listening for membership traffic and registers the
// local node on its own ring. Call Join to connect to an existing cluster.
func NewHandle(config Config) (*Handle, error) {
	config.setDefaults()

	h := &Handle{Ring: NewRing(), Nodes: map[string]*Node{}}
	h.Local = &Node{Tokens: generateTokens(config.TokensPerNode)}

	conf := memberlist.DefaultLANConfig()
	conf.BindAddr = config.BindAddr
	conf.BindPort = config.BindPort
	conf.Delegate = nodeDelegate{h}
	conf.Events = eventDelegate{h}

	list, err := memberlist.Create(conf)
	if err != nil {
		return nil, err
	}
	h.list = list

	local := list.LocalNode()
	h.Local.Name = local.Name
	h.Local.Address = local.Addr.String()
	h.addNode(h.Local)

	return h, nil
}

// Join contacts one or more existing members to join their cluster.
func (h *Handle) Join(seeds []string) error {
	_, err := h.list.Join(seeds)
	return err
}

// Assign picks the worker node that should receive the task chunk named
// by key (typically a request guid or a chunk's packed bytes digest).
func (h *Handle) Assign(key string) *Node {
	return h.Ring.Assign(key)
}

// Members returns every node currently believed to be up.
func (h *Handle) Members() []*Node {
	out := make([]*Node, 0, len(h.Nodes))
	for _, n := range h.Nodes {
		out = append(out, n)
	}
	return out
}

func (h *Handle) addNode(node *Node) {
	node.Status = StatusUp
	h.Nodes[node.Name] = node
	for _, token := range node.Tokens {
		h.Ring.Put(token, node)
	}
	log.Printf("[workerpool] node up: %s (%d tokens)", node.Name, len(node.Tokens))
}

func (h *Handle) removeNode(name string) {
	node, ok := h.Nodes[name]
	if !ok {
		return
	}
	node.Status = StatusDown
	h.Ring.RemoveNode(node)
	delete(h.Nodes, name)
	log.Printf("[workerpool] node down: %s", name)
}

func generateTokens(n int) []int {
	tokens := make([]int, n)
	for i := range tokens {
		tokens[i] = int(rand.Uint32())
	}
	return tokens
}

// nodeMeta is broadcast as each member's memberlist metadata so peers learn
// its ring tokens without a separate gossip message.
type nodeMeta struct {
	Tokens []int
}

type eventDelegate struct{ h *Handle }

func (e eventDelegate) NotifyJoin(m *memberlist.Node) {
	node := &Node{Name: m.Name, Address: m.Addr.String()}
	if len(m.Meta) > 0 {
		var meta nodeMeta
		if err := json.Unmarshal(m.Meta, &meta); err == nil {
			node.Tokens = meta.Tokens
		}
	}
	e.h.addNode(node)
}

func (e eventDelegate) NotifyLeave(m *memberlist.Node) {
	e.h.removeNode(m.Name)
}

func (e eventDelegate) NotifyUpdate(m *memberlist.Node) {}

type nodeDelegate struct{ h *Handle }

// NodeMeta returns this node's ring tokens, broadcast as part of
// memberlist's alive message so new peers learn them on join.
func (d nodeDelegate) NodeMeta(limit int) []byte {
	data, err := json.Marshal(nodeMeta{Tokens: d.h.Local.Tokens})
	if err != nil || len(data) > limit {
		return []byte{}
	}
	return data
}

func (d nodeDelegate) NotifyMsg(msg []byte) {}

func (d nodeDelegate) GetBroadcasts(overhead, limit int) [][]byte { return nil }

func (d nodeDelegate) LocalState(join bool) []byte { return nil }

func (d nodeDelegate) MergeRemoteState(buf []byte, join bool) {}
