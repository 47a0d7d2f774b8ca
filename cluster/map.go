package cluster

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/schlitzered/goredis/conn"
	"github.com/schlitzered/goredis/endpoint"
	"github.com/schlitzered/goredis/rerror"
	"github.com/schlitzered/goredis/resp"
)

// slotEntry is the per-slot routing info held by Map: the master endpoint
// key to route writes and strongly-consistent reads to, and one of its
// replicas, chosen at refresh time, for callers that accept a slave read.
type slotEntry struct {
	master string
	slave  string
}

// Map is the cluster slot table: 16384 entries pointing at the "host_port"
// endpoint key currently responsible for each slot, refreshed from
// CLUSTER SLOTS. Refreshing is collapsed through a singleflight.Group so
// concurrent MOVED replies trigger exactly one round-trip, and guarded by
// a compare-and-refresh id so a caller that already observed the result
// of a refresh in flight doesn't force a second one.
type Map struct {
	seeds []endpoint.Endpoint

	mu    sync.RWMutex
	id    uuid.UUID
	slots [NumSlots]slotEntry

	group singleflight.Group
}

// NewMap builds an empty Map that will resolve its initial slot table the
// first time Refresh is called.
func NewMap(seeds []endpoint.Endpoint) *Map {
	return &Map{
		seeds: seeds,
		id:    uuid.New(),
	}
}

// ID returns the map's current generation identifier. Callers hold onto
// the id they last saw and pass it back to Refresh so concurrent stale
// refreshes collapse into whichever is already in flight.
func (m *Map) ID() uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

// Master returns the endpoint key currently responsible for key's slot.
func (m *Map) Master(key []byte) (string, int) {
	slot := Slot(key)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot].master, slot
}

// Slave returns a replica endpoint key for key's slot, if one is known.
func (m *Map) Slave(key []byte) (string, int) {
	slot := Slot(key)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot].slave, slot
}

// MasterForSlot returns the endpoint key responsible for an explicit
// slot number.
func (m *Map) MasterForSlot(slot int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot].master
}

// Hosts returns the set of distinct master endpoint keys currently known,
// used by ClusterClient to prune its per-endpoint connection cache.
func (m *Map) Hosts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, e := range m.slots {
		if e.master != "" {
			seen[e.master] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out
}

// Refresh re-fetches the slot table via CLUSTER SLOTS against the seed
// list if lastSeen still matches the map's current generation id; if
// it already doesn't match (someone else refreshed first) Refresh returns
// immediately without doing any I/O. Concurrent callers racing with the
// same stale lastSeen share one CLUSTER SLOTS round-trip via singleflight.
func (m *Map) Refresh(lastSeen uuid.UUID) (uuid.UUID, error) {
	if m.ID() != lastSeen {
		return m.ID(), nil
	}
	v, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		if m.ID() != lastSeen {
			return m.ID(), nil
		}
		entries, fetchErr := m.fetchSlots()
		if fetchErr != nil {
			return uuid.UUID{}, fetchErr
		}
		m.mu.Lock()
		for _, e := range entries {
			for slot := e.startSlot; slot <= e.endSlot; slot++ {
				slave := ""
				if len(e.slaves) > 0 {
					slave = e.slaves[rand.Intn(len(e.slaves))]
				}
				m.slots[slot] = slotEntry{master: e.master, slave: slave}
			}
		}
		m.id = uuid.New()
		newID := m.id
		m.mu.Unlock()
		return newID, nil
	})
	if err != nil {
		return uuid.UUID{}, err
	}
	return v.(uuid.UUID), nil
}

type slotRange struct {
	startSlot int
	endSlot   int
	master    string
	slaves    []string
}

// fetchSlots tries each seed in turn until one answers CLUSTER SLOTS,
// mirroring pyredis's ClusterMap._fetch_map.
func (m *Map) fetchSlots() ([]slotRange, error) {
	var lastErr error
	for _, seed := range m.seeds {
		c, err := conn.New(seed)
		if err != nil {
			lastErr = err
			continue
		}
		if err := c.Connect(); err != nil {
			lastErr = err
			continue
		}
		entries, err := queryClusterSlots(c)
		c.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return entries, nil
	}
	if lastErr == nil {
		lastErr = &rerror.ConnError{Endpoint: "cluster-seeds"}
	}
	return nil, lastErr
}

func queryClusterSlots(c *conn.Conn) ([]slotRange, error) {
	if err := c.Write("CLUSTER", "SLOTS"); err != nil {
		return nil, err
	}
	v, err := c.Read(true, true)
	if err != nil {
		return nil, err
	}
	if v.Kind != resp.KindArray {
		return nil, &rerror.ProtocolError{Msg: "CLUSTER SLOTS did not return an array"}
	}
	entries := make([]slotRange, 0, len(v.Arr))
	for _, row := range v.Arr {
		if row.Kind != resp.KindArray || len(row.Arr) < 3 {
			return nil, &rerror.ProtocolError{Msg: "malformed CLUSTER SLOTS entry"}
		}
		start := int(row.Arr[0].Int)
		end := int(row.Arr[1].Int)
		master := hostPortToKey(row.Arr[2])
		var slaves []string
		for _, s := range row.Arr[3:] {
			slaves = append(slaves, hostPortToKey(s))
		}
		entries = append(entries, slotRange{startSlot: start, endSlot: end, master: master, slaves: slaves})
	}
	return entries, nil
}

func hostPortToKey(v resp.Value) string {
	if v.Kind != resp.KindArray || len(v.Arr) < 2 {
		return ""
	}
	ep := endpoint.Endpoint{Host: string(v.Arr[0].Str), Port: int(v.Arr[1].Int)}
	return ep.Key()
}
