package workerpool

import "hash/fnv"

// hashToken maps an arbitrary key onto the ring's token space. Any FNV-32a
// digest works here: the ring only needs a deterministic, reasonably
// uniform mapping from a key to a position, not a cryptographic hash.
func hashToken(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32())
}
