// Package registry tracks the lifecycle of every accepted order: a
// never-evicting oid -> FillStatus map with a hot-read LRU cache in
// front of it, plus per-account OID tracking.
package registry

import (
	"sync"

	"github.com/anomi-labs/clob/core/book"
	"github.com/hashicorp/go-set"
	lru "github.com/hashicorp/golang-lru"
)

// Fill mirrors book.Fill for the JSON-facing response shape (makerOid/takerOid/sz).
type Fill struct {
	MakerOID uint64 `json:"makerOid"`
	TakerOID uint64 `json:"takerOid"`
	Sz       uint64 `json:"sz"`
}

// FillStatus is the per-order lifecycle record: the original size, the
// cumulative matched size, and every fill the order participated in,
// whether as taker at placement or as maker later. Never destroyed once
// created.
type FillStatus struct {
	OID      uint64    `json:"oid"`
	Sz       uint64    `json:"sz"`
	Addr     book.Addr `json:"addr"`
	FilledSz uint64    `json:"filledSz"`
	Fills    []Fill    `json:"fills"`
}

const defaultCacheSize = 4096

// Registry is the authoritative oid -> FillStatus map plus a hot-read
// cache. The cache is purely a read accelerator: the map is always
// written through and is what every settlement step mutates.
type Registry struct {
	mu       sync.Mutex
	statuses map[uint64]*FillStatus
	cache    *lru.Cache
	byAddr   map[book.Addr]*set.Set[uint64]
}

func New() *Registry {
	cache, err := lru.New(defaultCacheSize)
	if err != nil {
		// lru.New only errors on size <= 0, which never happens with a
		// positive constant.
		panic(err)
	}
	return &Registry{
		statuses: make(map[uint64]*FillStatus),
		cache:    cache,
		byAddr:   make(map[book.Addr]*set.Set[uint64]),
	}
}

// Insert records a brand-new taker's FillStatus at placement time.
func (r *Registry) Insert(status *FillStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statuses[status.OID] = status
	r.cache.Add(status.OID, status)
	r.openOIDs(status.Addr).Insert(status.OID)
}

// AppendMakerFill updates a resting maker's FillStatus as it is hit by a
// later taker. The maker's record must already exist (it was inserted
// when the maker itself was originally placed).
func (r *Registry) AppendMakerFill(oid uint64, fill Fill) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.statuses[oid]
	if !ok {
		return
	}
	status.Fills = append(status.Fills, fill)
	status.FilledSz += fill.Sz
	r.cache.Add(oid, status)
}

// Lookup returns the FillStatus for oid, or (nil, false) when absent —
// surfaced over RPC as {status:null}.
func (r *Registry) Lookup(oid uint64) (*FillStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(oid); ok {
		return v.(*FillStatus), true
	}
	status, ok := r.statuses[oid]
	if ok {
		r.cache.Add(oid, status)
	}
	return status, ok
}

// OpenOIDs returns the set of OIDs ever placed by addr. OIDs are not
// removed when an order is filled or cancelled. Not exposed over RPC.
func (r *Registry) OpenOIDs(addr book.Addr) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openOIDs(addr).Slice()
}

func (r *Registry) openOIDs(addr book.Addr) *set.Set[uint64] {
	s, ok := r.byAddr[addr]
	if !ok {
		s = set.New[uint64](0)
		r.byAddr[addr] = s
	}
	return s
}
