// Package hashring implements the static, construction-time hash mapping
// used by HashClient: each of the 16384 cluster slots is assigned to one
// of a fixed list of endpoints by simple round robin, computed once and
// never refreshed, unlike cluster.Map's live CLUSTER SLOTS-driven table.
package hashring

import "github.com/schlitzered/goredis/cluster"

// Ring is the fixed slot -> bucket-index table built from an ordered
// endpoint key list.
type Ring struct {
	buckets []string
	table   [cluster.NumSlots]int
}

// New builds a Ring by assigning slots to buckets round robin, the same
// construction HashClient._init_map used: slot 0 to bucket 0, slot 1 to
// bucket 1, wrapping back to bucket 0 after the last endpoint.
func New(buckets []string) *Ring {
	r := &Ring{buckets: append([]string(nil), buckets...)}
	for slot := 0; slot < cluster.NumSlots; slot++ {
		r.table[slot] = slot % len(buckets)
	}
	return r
}

// BucketForKey returns the endpoint key responsible for key, and the
// bucket index (stable across calls, used by HashClient to track
// per-write destination ordering during a bulk drain).
func (r *Ring) BucketForKey(key []byte) (string, int) {
	slot := cluster.Slot(key)
	idx := r.table[slot]
	return r.buckets[idx], idx
}

// Bucket returns the endpoint key for an explicit bucket index.
func (r *Ring) Bucket(idx int) string {
	return r.buckets[idx]
}

// Buckets returns the ordered endpoint key list the ring was built from.
func (r *Ring) Buckets() []string {
	return append([]string(nil), r.buckets...)
}

// NumBuckets returns how many distinct endpoints this ring distributes
// across.
func (r *Ring) NumBuckets() int {
	return len(r.buckets)
}
